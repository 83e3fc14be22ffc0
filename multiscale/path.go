// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multiscale

import (
	"cogentcore.org/core/math32"
	"cogentcore.org/helixgeom/buffer"
	"cogentcore.org/helixgeom/picking"
	"cogentcore.org/helixgeom/spline"
)

// Path is an ordered list of elements, such as the centers of the
// helices of a nanostructure. It is a picking arena of control points.
type Path struct {
	Positions []math32.Vector3
	Sizes     []float32
	Colors    []math32.Vector3

	// Subdivisions is the number of samples inserted per segment by the
	// interpolated levels.
	Subdivisions int
}

// Len returns the number of complete elements.
func (p *Path) Len() int {
	return min(len(p.Positions), len(p.Sizes), len(p.Colors))
}

func (p *Path) At(i int) spline.ControlPoint {
	return spline.ControlPoint{Position: p.Positions[i], Size: p.Sizes[i], Color: p.Colors[i]}
}

func (p *Path) PositionAt(i int) math32.Vector3 { return p.Positions[i] }

// PathLevels returns the level table for element paths:
//
//  0. one sphere per element
//  1. one cylinder per pair of consecutive elements
//  2. a ribbon along the interpolated path
//  3. a tube along the interpolated path
func PathLevels() []Level[*Path] {
	return []Level[*Path]{
		{Name: "spheres", Build: buildPathSpheres, Update: updatePath},
		{Name: "cylinders", Build: buildPathCylinders, Update: updatePath},
		{Name: "ribbon", Build: buildPathRibbon},
		{Name: "tube", Build: buildPathTube},
	}
}

// NewPath returns a controller for the path with [PathLevels].
func NewPath(p *Path, renderer Renderer, desiredLevel int) *Controller[*Path] {
	return New(p, PathLevels(), renderer, desiredLevel)
}

func pathPick(p *Path, n int) buffer.Pick {
	return buffer.Pick{IDs: picking.Sequence(0, n), Creator: picking.NewCreator[spline.ControlPoint]("element", p)}
}

// pathAttributes returns the display colors and sizes of the first n elements.
func pathAttributes(c *Controller[*Path], n int) ([]math32.Vector3, []float32) {
	p := c.Model()
	clr := make([]math32.Vector3, n)
	sz := make([]float32, n)
	for i := range n {
		clr[i] = c.highlight(uint32(i), p.Colors[i])
		sz[i] = p.Sizes[i] * c.Style.SizeScale
	}
	return clr, sz
}

func buildPathSpheres(c *Controller[*Path]) ([]*buffer.Buffer, error) {
	p := c.Model()
	n := p.Len()
	if n == 0 {
		return nil, nil
	}
	clr, sz := pathAttributes(c, n)
	buf, err := c.GetBuilder().Spheres(p.Positions[:n], clr, sz, nil, pathPick(p, n))
	if err != nil {
		return nil, err
	}
	buf.Name = "spheres"
	return []*buffer.Buffer{buf}, nil
}

func buildPathCylinders(c *Controller[*Path]) ([]*buffer.Buffer, error) {
	p := c.Model()
	n := p.Len()
	if n < 2 {
		return nil, nil
	}
	clr, sz := pathAttributes(c, n)
	buf, err := c.GetBuilder().CylinderStrip(p.Positions[:n], clr, sz[:n-1], nil, pathPick(p, n))
	if err != nil {
		return nil, err
	}
	buf.Name = "cylinders"
	return []*buffer.Buffer{buf}, nil
}

func buildPathRibbon(c *Controller[*Path]) ([]*buffer.Buffer, error) {
	p := c.Model()
	n := p.Len()
	if n < 2 {
		return nil, nil
	}
	clr, sz := pathAttributes(c, n)
	buf, err := c.GetBuilder().Ribbon(p.Positions[:n], sz, clr, p.Subdivisions, pathPick(p, n))
	if err != nil {
		return nil, err
	}
	buf.Name = "ribbon"
	return []*buffer.Buffer{buf}, nil
}

func buildPathTube(c *Controller[*Path]) ([]*buffer.Buffer, error) {
	p := c.Model()
	n := p.Len()
	if n < 2 {
		return nil, nil
	}
	clr, sz := pathAttributes(c, n)
	buf, err := c.GetBuilder().Tube(p.Positions[:n], sz, clr, p.Subdivisions, nil, pathPick(p, n))
	if err != nil {
		return nil, err
	}
	buf.Name = "tube"
	return []*buffer.Buffer{buf}, nil
}

// updatePath recomputes colors and sizes of sphere and cylinder buffers.
// A cylinder slot covers elements id and id+1.
func updatePath(c *Controller[*Path], bufs []*buffer.Buffer, mask UpdateMask) error {
	n := c.Model().Len()
	clr, sz := pathAttributes(c, n)
	for _, b := range bufs {
		if b.Picking == nil {
			return ErrStale
		}
		last := n
		if b.Kind == buffer.Cylinder {
			last--
		}
		if b.Count() != last {
			return ErrStale
		}
		for i := range b.Count() {
			id, err := b.Picking.ID(i)
			if err != nil || int(id) >= last {
				return ErrStale
			}
			if mask&UpdateColor != 0 {
				b.Array(buffer.Color).SetVector3(3*i, clr[id])
				if b.Kind == buffer.Cylinder {
					b.Array(buffer.Color2).SetVector3(3*i, clr[id+1])
				}
			}
			if mask&UpdateRadius != 0 {
				b.Array(buffer.Radius)[i] = sz[id]
			}
		}
		b.SyncMeshColors()
	}
	return nil
}

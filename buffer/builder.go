// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buffer

import (
	"log/slog"

	"cogentcore.org/core/math32"
	"cogentcore.org/helixgeom/picking"
	"cogentcore.org/helixgeom/spline"
)

// Pick is the optional picking input of a build: one domain id per
// input element, and the creator that turns the final per-primitive id
// array into a picker. The builder remaps ids onto primitives (segments
// of a strip, samples of a path) but never interprets them.
type Pick struct {
	IDs     []uint32
	Creator picking.Creator
}

// picker returns the picker for the given per-primitive ids,
// or nil if there is no creator or no ids.
func (pk Pick) picker(ids []uint32) picking.Picker {
	if pk.Creator == nil || pk.IDs == nil {
		return nil
	}
	if ids == nil {
		ids = []uint32{}
	}
	return pk.Creator(ids)
}

// numIDs returns the number of ids, or -1 if there are none, for use
// with [Builder.common].
func (pk Pick) numIDs() int {
	if pk.IDs == nil {
		return -1
	}
	return len(pk.IDs)
}

// Builder builds packed buffers. The zero value is not ready for use;
// use [NewBuilder], which sets the defaults from their default tags.
type Builder struct {

	// Defaults are the parameters used for every field that a build
	// call does not override.
	Defaults Defaults

	// Logger receives diagnostics such as input length mismatches.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// NewBuilder returns a builder with default parameters.
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{Defaults: *NewDefaults(), Logger: logger}
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

// common returns the minimum of the given lengths, ignoring negative
// ones, and logs a warning when they differ. Building proceeds on the
// minimum: mismatches are deliberately not an error.
func (b *Builder) common(what string, lens ...int) int {
	ls := make([]int, 0, len(lens))
	for _, l := range lens {
		if l >= 0 {
			ls = append(ls, l)
		}
	}
	n, _ := spline.CommonLength(b.logger(), what, ls...)
	return n
}

// packVectors packs vectors into a flat array.
func packVectors(vs []math32.Vector3) math32.ArrayF32 {
	a := math32.NewArrayF32(0, 3*len(vs))
	a.AppendVector3(vs...)
	return a
}

// Tube interpolates the path and builds a tube buffer along it.
// Ids, if any, are per control point.
func (b *Builder) Tube(positions []math32.Vector3, sizes []float32, colors []math32.Vector3, subdivisions int, params *TubeParams, pk Pick) (*Buffer, error) {
	st, err := spline.InterpolatePath(positions, sizes, colors, subdivisions, b.logger())
	if err != nil {
		return nil, err
	}
	pk.IDs = picking.SampleIDs(b.pathIDs(pk, len(positions), len(sizes), len(colors)), subdivisions+2)
	return b.TubeFromStream(st, params, pk)
}

// TubeUniform is [Builder.Tube] with the same size and color everywhere.
func (b *Builder) TubeUniform(positions []math32.Vector3, size float32, color math32.Vector3, subdivisions int, params *TubeParams, pk Pick) (*Buffer, error) {
	sizes, colors := spline.Uniform(positions, size, color)
	return b.Tube(positions, sizes, colors, subdivisions, params, pk)
}

// TubeFromStream builds a tube buffer from an interpolated stream.
// Ids, if any, are per sample. Non-zero numeric fields and all
// booleans of params override the builder's tube defaults.
func (b *Builder) TubeFromStream(st *spline.Stream, params *TubeParams, pk Pick) (*Buffer, error) {
	p, err := merge(b.Defaults.Tube, params)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := b.common("tube samples/ids", st.Len(), pk.numIDs())
	buf := newBuffer(Tube, &p, n)
	pos, nrm, bin, tan := buf.Arrays[Position], buf.Arrays[Normal], buf.Arrays[Binormal], buf.Arrays[Tangent]
	for i := range n {
		s := st.Samples[i]
		pos.SetVector3(3*i, s.Position)
		nrm.SetVector3(3*i, s.Normal)
		bin.SetVector3(3*i, s.Binormal)
		tan.SetVector3(3*i, s.Tangent)
		buf.Arrays[Color].SetVector3(3*i, st.Colors[i])
		buf.Arrays[Size][i] = st.Sizes[i]
	}
	buf.Mesh = &Mesh{}
	buf.Mesh.AddTube(pos, nrm, bin, tan, buf.Arrays[Color], buf.Arrays[Size], p.RadialSegments, p.AspectRatio, p.Capped)
	buf.Picking = pk.picker(head(pk.IDs, n))
	return buf, nil
}

// Ribbon interpolates the path and builds a ribbon buffer along it.
// Ids, if any, are per control point.
func (b *Builder) Ribbon(positions []math32.Vector3, sizes []float32, colors []math32.Vector3, subdivisions int, pk Pick) (*Buffer, error) {
	st, err := spline.InterpolatePath(positions, sizes, colors, subdivisions, b.logger())
	if err != nil {
		return nil, err
	}
	pk.IDs = picking.SampleIDs(b.pathIDs(pk, len(positions), len(sizes), len(colors)), subdivisions+2)
	return b.RibbonFromStream(st, pk)
}

// RibbonUniform is [Builder.Ribbon] with the same size and color everywhere.
func (b *Builder) RibbonUniform(positions []math32.Vector3, size float32, color math32.Vector3, subdivisions int, pk Pick) (*Buffer, error) {
	sizes, colors := spline.Uniform(positions, size, color)
	return b.Ribbon(positions, sizes, colors, subdivisions, pk)
}

// RibbonFromStream builds a ribbon buffer from an interpolated stream.
// The ribbon faces along the sample binormal (its normal role) and
// extends along the sample normal (its dir role).
func (b *Builder) RibbonFromStream(st *spline.Stream, pk Pick) (*Buffer, error) {
	p := b.Defaults.Ribbon
	n := b.common("ribbon samples/ids", st.Len(), pk.numIDs())
	buf := newBuffer(Ribbon, &p, n)
	for i := range n {
		s := st.Samples[i]
		buf.Arrays[Position].SetVector3(3*i, s.Position)
		buf.Arrays[Normal].SetVector3(3*i, s.Binormal)
		buf.Arrays[Dir].SetVector3(3*i, s.Normal)
		buf.Arrays[Color].SetVector3(3*i, st.Colors[i])
		buf.Arrays[Size][i] = st.Sizes[i]
	}
	buf.Mesh = &Mesh{}
	buf.Mesh.AddRibbon(buf.Arrays[Position], buf.Arrays[Normal], buf.Arrays[Dir], buf.Arrays[Color], buf.Arrays[Size])
	buf.Picking = pk.picker(head(pk.IDs, n))
	return buf, nil
}

// pathIDs returns the per-point ids truncated to the common path length.
func (b *Builder) pathIDs(pk Pick, lens ...int) []uint32 {
	if pk.IDs == nil {
		return nil
	}
	n := b.common("path points/ids", append(lens, len(pk.IDs))...)
	return pk.IDs[:n]
}

// head returns at most the first n ids, or nil for nil ids.
func head(ids []uint32, n int) []uint32 {
	if ids == nil {
		return nil
	}
	return ids[:min(n, len(ids))]
}

////////  Cylinders

// Cylinder builds a buffer with a single cylinder from p1 to p2.
func (b *Builder) Cylinder(p1, p2, c1, c2 math32.Vector3, radius float32, params *CylinderParams, pk Pick) (*Buffer, error) {
	return b.CylinderPairs([]math32.Vector3{p1, p2}, []math32.Vector3{c1, c2}, []float32{radius}, params, pk)
}

// CylinderPairs builds one cylinder per pair of vertices: N vertices
// give N/2 cylinders, with one radius per pair. Colors and ids are
// per vertex.
func (b *Builder) CylinderPairs(vertices, colors []math32.Vector3, radii []float32, params *CylinderParams, pk Pick) (*Buffer, error) {
	return b.CylinderPairsFromArrays(packVectors(vertices), packVectors(colors), radii, params, pk)
}

// CylinderPairsFromArrays is [Builder.CylinderPairs] for packed arrays
// with 3 floats per vertex.
func (b *Builder) CylinderPairsFromArrays(positions, colors math32.ArrayF32, radii []float32, params *CylinderParams, pk Pick) (*Buffer, error) {
	nv := b.common("cylinder pair vertices/colors/ids", len(positions)/3, len(colors)/3, pk.numIDs())
	n := b.common("cylinder pairs/radii", nv/2, len(radii))
	return b.cylinders(positions, colors, radii, n, 2, params, pk, picking.PairIDs(head(pk.IDs, 2*n)))
}

// CylinderStrip builds connected cylinders along the vertices: N
// vertices give N-1 cylinders sharing end points, with one radius per
// cylinder. Colors and ids are per vertex.
func (b *Builder) CylinderStrip(vertices, colors []math32.Vector3, radii []float32, params *CylinderParams, pk Pick) (*Buffer, error) {
	return b.CylinderStripFromArrays(packVectors(vertices), packVectors(colors), radii, params, pk)
}

// CylinderStripFromArrays is [Builder.CylinderStrip] for packed arrays
// with 3 floats per vertex.
func (b *Builder) CylinderStripFromArrays(positions, colors math32.ArrayF32, radii []float32, params *CylinderParams, pk Pick) (*Buffer, error) {
	nv := b.common("cylinder strip vertices/colors/ids", len(positions)/3, len(colors)/3, pk.numIDs())
	n := b.common("cylinder strip segments/radii", max(nv-1, 0), len(radii))
	return b.cylinders(positions, colors, radii, n, 1, params, pk, picking.StripIDs(head(pk.IDs, n+1)))
}

// cylinders fills a cylinder buffer with n segments, where segment i
// runs from vertex i*step to vertex i*step+1.
func (b *Builder) cylinders(positions, colors math32.ArrayF32, radii []float32, n, step int, params *CylinderParams, pk Pick, ids []uint32) (*Buffer, error) {
	p, err := merge(b.Defaults.Cylinder, params)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	buf := newBuffer(Cylinder, &p, n)
	fillSegments(buf, positions, colors, n, step)
	copy(buf.Arrays[Radius], radii[:n])
	buf.Impostor = !p.DisableImpostor
	if p.DisableImpostor {
		buf.Mesh = &Mesh{}
		var p1, p2, c1, c2 math32.Vector3
		for i := range n {
			buf.Arrays[Position1].GetVector3(3*i, &p1)
			buf.Arrays[Position2].GetVector3(3*i, &p2)
			buf.Arrays[Color].GetVector3(3*i, &c1)
			buf.Arrays[Color2].GetVector3(3*i, &c2)
			buf.Mesh.AddCylinder(p1, p2, radii[i], c1, c2, p.RadialSegments, p.OpenEnded, uint32(i))
		}
	}
	buf.Picking = pk.picker(ids)
	return buf, nil
}

// fillSegments sets the two end points and colors of n segments.
func fillSegments(buf *Buffer, positions, colors math32.ArrayF32, n, step int) {
	for i := range n {
		a, z := 3*i*step, 3*(i*step+1)
		copy(buf.Arrays[Position1][3*i:3*i+3], positions[a:a+3])
		copy(buf.Arrays[Position2][3*i:3*i+3], positions[z:z+3])
		copy(buf.Arrays[Color][3*i:3*i+3], colors[a:a+3])
		copy(buf.Arrays[Color2][3*i:3*i+3], colors[z:z+3])
	}
}

////////  Wide lines

// WideLine builds a buffer with a single line from p1 to p2.
func (b *Builder) WideLine(p1, p2, c1, c2 math32.Vector3, params *LineParams, pk Pick) (*Buffer, error) {
	return b.WideLinePairs([]math32.Vector3{p1, p2}, []math32.Vector3{c1, c2}, params, pk)
}

// WideLinePairs builds one line per pair of vertices.
func (b *Builder) WideLinePairs(vertices, colors []math32.Vector3, params *LineParams, pk Pick) (*Buffer, error) {
	return b.WideLinePairsFromArrays(packVectors(vertices), packVectors(colors), params, pk)
}

// WideLinePairsFromArrays is [Builder.WideLinePairs] for packed arrays.
func (b *Builder) WideLinePairsFromArrays(positions, colors math32.ArrayF32, params *LineParams, pk Pick) (*Buffer, error) {
	nv := b.common("line pair vertices/colors/ids", len(positions)/3, len(colors)/3, pk.numIDs())
	n := nv / 2
	return b.lines(positions, colors, n, 2, params, pk, picking.PairIDs(head(pk.IDs, 2*n)))
}

// WideLineStrip builds connected lines along the vertices.
func (b *Builder) WideLineStrip(vertices, colors []math32.Vector3, params *LineParams, pk Pick) (*Buffer, error) {
	return b.WideLineStripFromArrays(packVectors(vertices), packVectors(colors), params, pk)
}

// WideLineStripFromArrays is [Builder.WideLineStrip] for packed arrays.
func (b *Builder) WideLineStripFromArrays(positions, colors math32.ArrayF32, params *LineParams, pk Pick) (*Buffer, error) {
	nv := b.common("line strip vertices/colors/ids", len(positions)/3, len(colors)/3, pk.numIDs())
	n := max(nv-1, 0)
	return b.lines(positions, colors, n, 1, params, pk, picking.StripIDs(head(pk.IDs, nv)))
}

func (b *Builder) lines(positions, colors math32.ArrayF32, n, step int, params *LineParams, pk Pick, ids []uint32) (*Buffer, error) {
	p, err := merge(b.Defaults.Line, params)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	buf := newBuffer(WideLine, &p, n)
	fillSegments(buf, positions, colors, n, step)
	buf.Impostor = true
	buf.Picking = pk.picker(ids)
	return buf, nil
}

////////  Spheres

// Spheres builds one sphere per position.
func (b *Builder) Spheres(positions, colors []math32.Vector3, radii []float32, params *SphereParams, pk Pick) (*Buffer, error) {
	return b.SphereFromArrays(packVectors(positions), packVectors(colors), radii, params, pk)
}

// SphereFromArrays builds one sphere per element of the packed arrays.
func (b *Builder) SphereFromArrays(positions, colors math32.ArrayF32, radii []float32, params *SphereParams, pk Pick) (*Buffer, error) {
	p, err := merge(b.Defaults.Sphere, params)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := b.common("sphere positions/colors/radii/ids", len(positions)/3, len(colors)/3, len(radii), pk.numIDs())
	buf := newBuffer(Sphere, &p, n)
	copy(buf.Arrays[Position], positions[:3*n])
	copy(buf.Arrays[Color], colors[:3*n])
	copy(buf.Arrays[Radius], radii[:n])
	buf.Impostor = !p.DisableImpostor
	if p.DisableImpostor {
		buf.Mesh = &Mesh{}
		var pos, clr math32.Vector3
		for i := range n {
			buf.Arrays[Position].GetVector3(3*i, &pos)
			buf.Arrays[Color].GetVector3(3*i, &clr)
			buf.Mesh.AddSphere(pos, radii[i], clr, p.Segments, uint32(i))
		}
	}
	buf.Picking = pk.picker(head(pk.IDs, n))
	return buf, nil
}

// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multiscale

import (
	"cogentcore.org/core/math32"
	"cogentcore.org/helixgeom/buffer"
	"cogentcore.org/helixgeom/helix"
	"cogentcore.org/helixgeom/picking"
)

// HelixLevels returns the level table for DNA structures:
//
//  0. one sphere per nucleotide, colored by type
//  1. one short cylinder per nucleotide from the helix axis, colored by type
//  2. one coarse cylinder and one axis line per strand
//
// Picking ids are global nucleotide indexes of the [helix.Structure].
func HelixLevels() []Level[*helix.Structure] {
	return []Level[*helix.Structure]{
		{Name: "nucleotides", Build: buildNucleotides, Update: updateNucleotides},
		{Name: "sticks", Build: buildSticks, Update: updateSticks},
		{Name: "strands", Build: buildStrands},
	}
}

// NewHelix returns a controller for the structure with [HelixLevels].
func NewHelix(st *helix.Structure, renderer Renderer, desiredLevel int) *Controller[*helix.Structure] {
	return New(st, HelixLevels(), renderer, desiredLevel)
}

func nucleotidePick(st *helix.Structure, ids []uint32) buffer.Pick {
	return buffer.Pick{IDs: ids, Creator: picking.NewCreator[helix.NucleotideRef]("nucleotide", st)}
}

// nucleotideColor returns the color of global nucleotide gi.
func nucleotideColor(c *Controller[*helix.Structure], gi uint32) math32.Vector3 {
	return c.highlight(gi, helix.TypeColor(c.Model().At(int(gi)).Type))
}

func buildNucleotides(c *Controller[*helix.Structure]) ([]*buffer.Buffer, error) {
	st := c.Model()
	n := st.NumNucleotides()
	if n == 0 {
		return nil, nil
	}
	pos := make([]math32.Vector3, 0, n)
	for _, s := range st.Strands() {
		pos = append(pos, s.NucleotidePositions()...)
	}
	clr := make([]math32.Vector3, n)
	radii := make([]float32, n)
	for gi := range n {
		clr[gi] = nucleotideColor(c, uint32(gi))
		radii[gi] = c.Style.NucleotideRadius
	}
	buf, err := c.GetBuilder().Spheres(pos, clr, radii, nil, nucleotidePick(st, picking.Sequence(0, n)))
	if err != nil {
		return nil, err
	}
	buf.Name = "nucleotides"
	return []*buffer.Buffer{buf}, nil
}

func updateNucleotides(c *Controller[*helix.Structure], bufs []*buffer.Buffer, mask UpdateMask) error {
	n := c.Model().NumNucleotides()
	for _, b := range bufs {
		if b.Picking == nil || b.Count() != n {
			return ErrStale
		}
		for i := range b.Count() {
			id, err := b.Picking.ID(i)
			if err != nil || int(id) >= n {
				return ErrStale
			}
			if mask&UpdateColor != 0 {
				b.Array(buffer.Color).SetVector3(3*i, nucleotideColor(c, id))
			}
			if mask&UpdateRadius != 0 {
				b.Array(buffer.Radius)[i] = c.Style.NucleotideRadius
			}
		}
		b.SyncMeshColors()
	}
	return nil
}

func buildSticks(c *Controller[*helix.Structure]) ([]*buffer.Buffer, error) {
	st := c.Model()
	n := st.NumNucleotides()
	if n == 0 {
		return nil, nil
	}
	pos := make([]math32.Vector3, 0, 2*n)
	clr := make([]math32.Vector3, 0, 2*n)
	ids := make([]uint32, 0, 2*n)
	radii := make([]float32, n)
	for si, s := range st.Strands() {
		off := st.Offset(si)
		for i, p := range s.NucleotidePositions() {
			gi := uint32(off + i)
			cl := nucleotideColor(c, gi)
			pos = append(pos, s.AxisPosition(i), p)
			clr = append(clr, cl, cl)
			ids = append(ids, gi, gi)
			radii[gi] = c.Style.StickRadius
		}
	}
	buf, err := c.GetBuilder().CylinderPairs(pos, clr, radii, nil, nucleotidePick(st, ids))
	if err != nil {
		return nil, err
	}
	buf.Name = "sticks"
	return []*buffer.Buffer{buf}, nil
}

func updateSticks(c *Controller[*helix.Structure], bufs []*buffer.Buffer, mask UpdateMask) error {
	n := c.Model().NumNucleotides()
	for _, b := range bufs {
		if b.Picking == nil || b.Count() != n {
			return ErrStale
		}
		for i := range b.Count() {
			id, err := b.Picking.ID(i)
			if err != nil || int(id) >= n {
				return ErrStale
			}
			if mask&UpdateColor != 0 {
				cl := nucleotideColor(c, id)
				b.Array(buffer.Color).SetVector3(3*i, cl)
				b.Array(buffer.Color2).SetVector3(3*i, cl)
			}
			if mask&UpdateRadius != 0 {
				b.Array(buffer.Radius)[i] = c.Style.StickRadius
			}
		}
		b.SyncMeshColors()
	}
	return nil
}

// buildStrands ignores per-nucleotide detail. A strand is highlighted
// when its first nucleotide is selected, which is the id picking reports.
func buildStrands(c *Controller[*helix.Structure]) ([]*buffer.Buffer, error) {
	st := c.Model()
	var pos, clr, axClr []math32.Vector3
	var ids []uint32
	var radii []float32
	for si, s := range st.Strands() {
		if s.NumNucleotides() == 0 {
			continue
		}
		gi := uint32(st.Offset(si))
		cl := c.highlight(gi, c.Style.StrandColor)
		pos = append(pos, s.Start(), s.End())
		clr = append(clr, cl, cl)
		axClr = append(axClr, c.Style.AxisColor, c.Style.AxisColor)
		ids = append(ids, gi, gi)
		radii = append(radii, helix.Radius)
	}
	if len(radii) == 0 {
		return nil, nil
	}
	bl := c.GetBuilder()
	cyl, err := bl.CylinderPairs(pos, clr, radii, nil, nucleotidePick(st, ids))
	if err != nil {
		return nil, err
	}
	cyl.Name = "strands"
	axes, err := bl.WideLinePairs(pos, axClr, nil, nucleotidePick(st, ids))
	if err != nil {
		cyl.Dispose()
		return nil, err
	}
	axes.Name = "axes"
	return []*buffer.Buffer{cyl, axes}, nil
}

// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package helix

import (
	"fmt"
	"slices"
	"sort"

	"cogentcore.org/core/math32"
)

// NucleotideRef identifies one nucleotide within a [Structure].
type NucleotideRef struct {

	// Strand is the index of the strand in the structure.
	Strand int

	// Index is the position of the nucleotide in its strand.
	Index int

	// Type is the nucleotide type at the time of lookup.
	Type Type
}

// Structure is an ordered collection of strands. Its nucleotides are
// addressed by a global index, which runs over all strands in order, so
// a structure serves as the picking arena of a whole scene.
type Structure struct {
	strands []*Strand

	// offsets[i] is the global index of the first nucleotide of strand i.
	offsets []int
}

// NewStructure returns a structure holding the given strands.
func NewStructure(strands ...*Strand) *Structure {
	st := &Structure{}
	for _, s := range strands {
		st.Add(s)
	}
	return st
}

// Add appends a strand and returns its index. The strand is retained, not
// copied; call [Structure.Reindex] after changing its length.
func (st *Structure) Add(s *Strand) int {
	st.strands = append(st.strands, s)
	st.Reindex()
	return len(st.strands) - 1
}

// Reindex recomputes the global nucleotide offsets.
func (st *Structure) Reindex() {
	st.offsets = st.offsets[:0]
	n := 0
	for _, s := range st.strands {
		st.offsets = append(st.offsets, n)
		n += s.NumNucleotides()
	}
}

// Strands returns a copy of the strand list, in order. Use [Structure.Add]
// to change the structure.
func (st *Structure) Strands() []*Strand {
	return slices.Clone(st.strands)
}

// Strand returns the i-th strand.
func (st *Structure) Strand(i int) *Strand {
	return st.strands[i]
}

// NumStrands returns the number of strands.
func (st *Structure) NumStrands() int {
	return len(st.strands)
}

// NumNucleotides returns the total nucleotide count over all strands.
func (st *Structure) NumNucleotides() int {
	if len(st.strands) == 0 {
		return 0
	}
	last := len(st.strands) - 1
	return st.offsets[last] + st.strands[last].NumNucleotides()
}

// Offset returns the global index of the first nucleotide of strand i.
func (st *Structure) Offset(i int) int {
	return st.offsets[i]
}

// Locate returns the strand and in-strand index of global index gi.
func (st *Structure) Locate(gi int) (strand, index int, err error) {
	if gi < 0 || gi >= st.NumNucleotides() {
		return 0, 0, fmt.Errorf("helix: nucleotide %d out of range (structure has %d)", gi, st.NumNucleotides())
	}
	// last strand whose offset is <= gi; empty strands share offsets with the next one
	si := sort.Search(len(st.offsets), func(i int) bool { return st.offsets[i] > gi }) - 1
	return si, gi - st.offsets[si], nil
}

// Len, At and PositionAt make a structure a picking arena over the
// global nucleotide index.
func (st *Structure) Len() int { return st.NumNucleotides() }

func (st *Structure) At(gi int) NucleotideRef {
	si, i, err := st.Locate(gi)
	if err != nil {
		return NucleotideRef{Strand: -1, Index: -1}
	}
	return NucleotideRef{Strand: si, Index: i, Type: st.strands[si].Nucleotide(i).Type}
}

func (st *Structure) PositionAt(gi int) math32.Vector3 {
	si, i, err := st.Locate(gi)
	if err != nil {
		return math32.Vector3{}
	}
	return st.strands[si].NucleotidePosition(i)
}

// Bounds returns the box enclosing all nucleotide positions.
func (st *Structure) Bounds() math32.Box3 {
	bb := math32.B3Empty()
	for _, s := range st.strands {
		for _, p := range s.NucleotidePositions() {
			bb.ExpandByPoint(p)
		}
	}
	return bb
}

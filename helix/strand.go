// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package helix models DNA strands as helices: nucleotide types and their
// pairing, explicit and endpoint-only strands, the placement of each
// nucleotide on the helix, and multi-strand structures that serve as the
// domain collection for picking.
package helix

import (
	"fmt"
	"slices"

	"cogentcore.org/core/math32"
)

// Physical constants of the B-DNA helix model, in nanometers.
const (
	// Pitch is the length of one full helical turn along the axis.
	Pitch float32 = 3.57

	// NucleotidesPerTurn is the number of nucleotides in one turn.
	NucleotidesPerTurn float32 = 10.5

	// Radius is the distance of a nucleotide from the helix axis.
	Radius float32 = 1

	// Rise is the axial distance between consecutive nucleotides.
	Rise = Pitch / NucleotidesPerTurn
)

// countTol absorbs float32 rounding when a distance is an exact multiple of Rise.
const countTol = 1e-4

// up is the local helix axis before orientation.
var up = math32.Vec3(0, 1, 0)

// Extent is the geometry shared by explicit and endpoint-only strands.
// All vectors are returned by value.
type Extent interface {
	Start() math32.Vector3
	End() math32.Vector3

	// Direction is always a unit vector.
	Direction() math32.Vector3

	NumNucleotides() int

	// Length is NumNucleotides * Rise.
	Length() float32
}

// unitOrUp normalizes v, returning +Y for a zero vector.
func unitOrUp(v math32.Vector3) math32.Vector3 {
	if v.LengthSquared() == 0 {
		return up
	}
	return v.Normal()
}

// HelixPoint returns the local position on a helix of the given radius
// and pitch at cumulative rise y along the +Y axis.
func HelixPoint(y, radius, pitch float32) math32.Vector3 {
	ang := 2 * math32.Pi * y / pitch
	return math32.Vec3(math32.Sin(ang)*radius, y, math32.Cos(ang)*radius)
}

// Strand is an explicit strand: an ordered nucleotide sequence placed
// from a start position along a direction.
type Strand struct {

	// Name is an optional label.
	Name string

	nucleotides []Nucleotide
	start       math32.Vector3
	direction   math32.Vector3
}

// NewStrand returns a strand with a copy of the given sequence.
// A zero direction defaults to +Y.
func NewStrand(nts []Nucleotide, start, direction math32.Vector3) *Strand {
	return &Strand{nucleotides: slices.Clone(nts), start: start, direction: unitOrUp(direction)}
}

// NewStrandN returns a strand of n unset nucleotides.
func NewStrandN(n int, start, direction math32.Vector3) *Strand {
	return &Strand{nucleotides: make([]Nucleotide, max(n, 0)), start: start, direction: unitOrUp(direction)}
}

// NewStrandSequence returns a strand for a sequence string (see [ParseSequence]).
func NewStrandSequence(seq string, start, direction math32.Vector3) (*Strand, error) {
	nts, err := ParseSequence(seq)
	if err != nil {
		return nil, err
	}
	return &Strand{nucleotides: nts, start: start, direction: unitOrUp(direction)}, nil
}

func (s *Strand) Start() math32.Vector3 { return s.start }

func (s *Strand) Direction() math32.Vector3 { return s.direction }

// End returns Start + Direction * Length.
func (s *Strand) End() math32.Vector3 {
	return s.start.Add(s.direction.MulScalar(s.Length()))
}

func (s *Strand) NumNucleotides() int { return len(s.nucleotides) }

func (s *Strand) Length() float32 {
	return float32(len(s.nucleotides)) * Rise
}

// Nucleotides returns a copy of the sequence.
func (s *Strand) Nucleotides() []Nucleotide {
	return slices.Clone(s.nucleotides)
}

// Nucleotide returns the i-th nucleotide.
func (s *Strand) Nucleotide(i int) Nucleotide {
	return s.nucleotides[i]
}

// Sequence returns the sequence as a string of type letters.
func (s *Strand) Sequence() string {
	b := make([]byte, len(s.nucleotides))
	for i, nt := range s.nucleotides {
		b[i] = nt.Type.String()[0]
	}
	return string(b)
}

// SetType assigns the type of the i-th nucleotide.
func (s *Strand) SetType(i int, t Type) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: %v", ErrUnknownType, t)
	}
	if i < 0 || i >= len(s.nucleotides) {
		return fmt.Errorf("helix: nucleotide %d out of range (strand has %d)", i, len(s.nucleotides))
	}
	s.nucleotides[i].Type = t
	return nil
}

// Clone returns an independent copy of the strand.
func (s *Strand) Clone() *Strand {
	return &Strand{Name: s.Name, nucleotides: slices.Clone(s.nucleotides), start: s.start, direction: s.direction}
}

// CreateComplementary returns a new strand of the same length and geometry
// with every nucleotide type complemented.
func (s *Strand) CreateComplementary() (*Strand, error) {
	nts := make([]Nucleotide, len(s.nucleotides))
	for i, nt := range s.nucleotides {
		c, err := nt.Complementary()
		if err != nil {
			return nil, fmt.Errorf("nucleotide %d: %w", i, err)
		}
		nts[i] = c
	}
	cs := &Strand{nucleotides: nts, start: s.start, direction: s.direction}
	if s.Name != "" {
		cs.Name = s.Name + "'"
	}
	return cs, nil
}

// orientation returns the rotation from the local +Y helix axis onto Direction.
func (s *Strand) orientation() math32.Quat {
	var q math32.Quat
	q.SetFromUnitVectors(up, s.direction)
	return q
}

// AxisPosition returns the point on the strand axis at nucleotide i.
func (s *Strand) AxisPosition(i int) math32.Vector3 {
	return s.start.Add(s.direction.MulScalar(float32(i) * Rise))
}

// NucleotidePosition returns the position of nucleotide i on the helix.
func (s *Strand) NucleotidePosition(i int) math32.Vector3 {
	return HelixPoint(float32(i)*Rise, Radius, Pitch).MulQuat(s.orientation()).Add(s.start)
}

// NucleotidePositions returns the helix positions of all nucleotides.
func (s *Strand) NucleotidePositions() []math32.Vector3 {
	q := s.orientation()
	pos := make([]math32.Vector3, len(s.nucleotides))
	for i := range pos {
		pos[i] = HelixPoint(float32(i)*Rise, Radius, Pitch).MulQuat(q).Add(s.start)
	}
	return pos
}

// Len, At and PositionAt make a strand a picking arena of its nucleotides.
func (s *Strand) Len() int { return len(s.nucleotides) }

func (s *Strand) At(i int) Nucleotide { return s.nucleotides[i] }

func (s *Strand) PositionAt(i int) math32.Vector3 { return s.NucleotidePosition(i) }

// DummyStrand is a strand defined only by its end points, e.g. while it
// is being drawn. Its nucleotide count is derived from the distance.
type DummyStrand struct {
	start math32.Vector3
	end   math32.Vector3
}

// NewDummyStrand returns an endpoint-only strand.
func NewDummyStrand(start, end math32.Vector3) *DummyStrand {
	return &DummyStrand{start: start, end: end}
}

func (d *DummyStrand) Start() math32.Vector3 { return d.start }

func (d *DummyStrand) End() math32.Vector3 { return d.end }

// SetEnd moves the end point.
func (d *DummyStrand) SetEnd(end math32.Vector3) { d.end = end }

// Direction is normalize(End - Start), or +Y when both coincide.
func (d *DummyStrand) Direction() math32.Vector3 {
	return unitOrUp(d.end.Sub(d.start))
}

// NumNucleotides is floor(distance(Start, End) / Rise).
func (d *DummyStrand) NumNucleotides() int {
	return int(math32.Floor(d.start.DistanceTo(d.end)/Rise + countTol))
}

func (d *DummyStrand) Length() float32 {
	return float32(d.NumNucleotides()) * Rise
}

// ToExplicit returns an explicit strand of unset nucleotides with the
// same start, direction and nucleotide count.
func (d *DummyStrand) ToExplicit() *Strand {
	return NewStrandN(d.NumNucleotides(), d.start, d.Direction())
}

// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package helix

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	cerrors "cogentcore.org/core/base/errors"
	"cogentcore.org/core/colors"
	"cogentcore.org/core/math32"
	"golang.org/x/image/colornames"
)

// ErrUnknownType is returned for a value outside the defined nucleotide types.
// It indicates a programming error and aborts the operation that saw it.
var ErrUnknownType = errors.New("helix: unknown nucleotide type")

// Type is the nucleobase type of a [Nucleotide]. The zero value is [Unset].
type Type uint8

const (
	// Unset is a nucleotide whose base has not been assigned yet.
	Unset Type = iota

	// A is adenine.
	A

	// T is thymine.
	T

	// C is cytosine.
	C

	// G is guanine.
	G
)

// IsValid returns whether t is one of the defined types (including Unset).
func (t Type) IsValid() bool {
	return t <= G
}

func (t Type) String() string {
	switch t {
	case Unset:
		return "-"
	case A:
		return "A"
	case T:
		return "T"
	case C:
		return "C"
	case G:
		return "G"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// ParseType returns the type for a sequence letter. A, T, C and G are
// accepted in either case; '-', 'N' and '?' denote an unset base.
func ParseType(r rune) (Type, error) {
	switch r {
	case 'A', 'a':
		return A, nil
	case 'T', 't':
		return T, nil
	case 'C', 'c':
		return C, nil
	case 'G', 'g':
		return G, nil
	case '-', 'N', 'n', '?':
		return Unset, nil
	}
	return Unset, fmt.Errorf("%w: %q", ErrUnknownType, r)
}

// ParseSequence parses a sequence string such as "ATTGC-A".
// Whitespace is ignored.
func ParseSequence(seq string) ([]Nucleotide, error) {
	nts := make([]Nucleotide, 0, len(seq))
	for i, r := range strings.Join(strings.Fields(seq), "") {
		t, err := ParseType(r)
		if err != nil {
			return nil, fmt.Errorf("sequence position %d: %w", i, err)
		}
		nts = append(nts, Nucleotide{Type: t})
	}
	return nts, nil
}

// Complement returns the Watson-Crick partner of t: A<->T, C<->G and
// Unset<->Unset. Any other value returns [ErrUnknownType].
func Complement(t Type) (Type, error) {
	switch t {
	case A:
		return T, nil
	case T:
		return A, nil
	case C:
		return G, nil
	case G:
		return C, nil
	case Unset:
		return Unset, nil
	}
	return Unset, fmt.Errorf("%w: %v", ErrUnknownType, t)
}

// MustComplement is [Complement] that panics on an unknown type.
func MustComplement(t Type) Type {
	return cerrors.Must1(Complement(t))
}

// CanPair returns whether a and b are complementary.
func CanPair(a, b Type) (bool, error) {
	ca, err := Complement(a)
	if err != nil {
		return false, err
	}
	if !b.IsValid() {
		return false, fmt.Errorf("%w: %v", ErrUnknownType, b)
	}
	return ca == b, nil
}

// Nucleotide is the smallest unit of a strand.
type Nucleotide struct {
	Type Type
}

// Complementary returns the nucleotide with the complementary type.
func (nt Nucleotide) Complementary() (Nucleotide, error) {
	t, err := Complement(nt.Type)
	return Nucleotide{Type: t}, err
}

// CanPairWith returns whether nt pairs with other.
func (nt Nucleotide) CanPairWith(other Nucleotide) (bool, error) {
	return CanPair(nt.Type, other.Type)
}

// ColorVector converts a color to an RGB vector with components in [0, 1].
func ColorVector(c color.Color) math32.Vector3 {
	r, g, b, _ := colors.AsRGBA(c).RGBA()
	return math32.Vec3(float32(r)/0xffff, float32(g)/0xffff, float32(b)/0xffff)
}

// type colors follow the common nucleobase illustration palette
var typeColors = [...]math32.Vector3{
	Unset: ColorVector(colornames.White),
	A:     ColorVector(cerrors.Must1(colors.FromHex("#e47a7a"))),
	T:     ColorVector(cerrors.Must1(colors.FromHex("#f8c39d"))),
	C:     ColorVector(cerrors.Must1(colors.FromHex("#f8f49c"))),
	G:     ColorVector(cerrors.Must1(colors.FromHex("#8483d3"))),
}

// TypeColor returns the display color for t; unknown types are white.
func TypeColor(t Type) math32.Vector3 {
	if !t.IsValid() {
		return typeColors[Unset]
	}
	return typeColors[t]
}

// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buffer

import "fmt"

// Kind is the kind of primitive a [Buffer] describes.
type Kind int32

const (
	// Tube is a swept circular (or elliptic) cross section along an
	// interpolated path.
	Tube Kind = iota

	// Ribbon is a flat band along an interpolated path.
	Ribbon

	// Cylinder is a set of cylinders, one per segment.
	Cylinder

	// WideLine is a set of screen-space lines of fixed width, one per segment.
	WideLine

	// Sphere is a set of spheres, one per element.
	Sphere
)

var kindNames = [...]string{
	Tube:     "tube",
	Ribbon:   "ribbon",
	Cylinder: "cylinder",
	WideLine: "wideline",
	Sphere:   "sphere",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int32(k))
	}
	return kindNames[k]
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kind, error) {
	for k, nm := range kindNames {
		if nm == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("buffer: unknown kind %q", s)
}

// Roles returns the array roles a buffer of this kind carries, in layout order.
func (k Kind) Roles() []Role {
	switch k {
	case Tube:
		return []Role{Position, Normal, Binormal, Tangent, Color, Size}
	case Ribbon:
		return []Role{Position, Normal, Dir, Color, Size}
	case Cylinder:
		return []Role{Position1, Position2, Color, Color2, Radius}
	case WideLine:
		return []Role{Position1, Position2, Color, Color2}
	case Sphere:
		return []Role{Position, Color, Radius}
	}
	return nil
}

// Primary returns the role whose element count is the buffer's count.
func (k Kind) Primary() Role {
	switch k {
	case Cylinder, WideLine:
		return Position1
	}
	return Position
}

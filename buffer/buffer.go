// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package buffer packs path and element data into flat, renderer-ready
// arrays for several primitive kinds (tubes, ribbons, cylinders, wide
// lines and spheres), optionally with explicit triangulated geometry.
//
// Buffers only describe data: they never allocate GPU resources.
// The [Buffer.Layout] method returns vertex buffer layout descriptors
// that a renderer can use to upload the arrays as they are.
package buffer

import (
	"fmt"
	"maps"
	"slices"

	"cogentcore.org/core/math32"
	"cogentcore.org/helixgeom/picking"
)

// Role names the meaning of one packed array of a [Buffer].
type Role string

const (
	Position  Role = "position"
	Position1 Role = "position1"
	Position2 Role = "position2"
	Normal    Role = "normal"
	Binormal  Role = "binormal"
	Tangent   Role = "tangent"
	Dir       Role = "dir"
	Color     Role = "color"
	Color2    Role = "color2"
	Radius    Role = "radius"
	Size      Role = "size"
)

// Stride returns the number of floats per element: 1 for scalar roles
// and 3 for vector roles.
func (r Role) Stride() int {
	switch r {
	case Radius, Size:
		return 1
	}
	return 3
}

// Buffer is one packed primitive buffer. It is created fresh by every
// build and must be disposed by its owner before a replacement is used.
type Buffer struct {

	// Name is an optional label, used by renderers and diagnostics.
	Name string

	// Kind selects the primitive and thus the roles in Arrays.
	Kind Kind

	// Params are the parameters the buffer was built with; the concrete
	// type matches Kind.
	Params Params

	// Impostor is true when the renderer should draw one screen-space
	// impostor per element. It is false when Mesh is set.
	Impostor bool

	// Arrays are the per-element packed arrays, keyed by role.
	Arrays map[Role]math32.ArrayF32

	// Mesh is the explicit triangulated geometry, if any.
	Mesh *Mesh

	// Picking maps element slots back to domain objects. It may be nil.
	Picking picking.Picker

	disposed bool
}

// Array returns the array for the given role, or nil.
func (b *Buffer) Array(r Role) math32.ArrayF32 {
	return b.Arrays[r]
}

// Count returns the number of elements in the buffer.
func (b *Buffer) Count() int {
	return len(b.Arrays[b.Kind.Primary()]) / b.Kind.Primary().Stride()
}

// Validate checks that every array has a whole number of elements and
// that all arrays and the picker describe the same number of elements.
func (b *Buffer) Validate() error {
	if b.disposed {
		return fmt.Errorf("buffer %q: disposed", b.Name)
	}
	n := b.Count()
	for _, r := range b.Kind.Roles() {
		a, ok := b.Arrays[r]
		if !ok {
			return fmt.Errorf("buffer %q: missing %s array", b.Name, r)
		}
		if len(a)%r.Stride() != 0 || len(a)/r.Stride() != n {
			return fmt.Errorf("buffer %q: %s array has %d floats, want %d", b.Name, r, len(a), n*r.Stride())
		}
	}
	if b.Picking != nil && b.Picking.Len() != n {
		return fmt.Errorf("buffer %q: picking has %d ids, want %d", b.Name, b.Picking.Len(), n)
	}
	if b.Mesh != nil {
		return b.Mesh.Validate(n)
	}
	return nil
}

// Dispose releases all arrays held by the buffer. It is safe to call
// more than once.
func (b *Buffer) Dispose() {
	if b == nil || b.disposed {
		return
	}
	b.Arrays = nil
	b.Mesh = nil
	b.Picking = nil
	b.disposed = true
}

// Disposed returns whether [Buffer.Dispose] has been called.
func (b *Buffer) Disposed() bool {
	return b.disposed
}

// Clone returns a copy of the buffer with fresh arrays. The picker is
// shared: it only refers to the domain collection.
func (b *Buffer) Clone() *Buffer {
	cb := &Buffer{Name: b.Name, Kind: b.Kind, Params: b.Params, Impostor: b.Impostor, Picking: b.Picking, disposed: b.disposed}
	if b.Arrays != nil {
		cb.Arrays = make(map[Role]math32.ArrayF32, len(b.Arrays))
		for r, a := range b.Arrays {
			cb.Arrays[r] = slices.Clone(a)
		}
	}
	if b.Mesh != nil {
		cb.Mesh = b.Mesh.Clone()
	}
	return cb
}

// Equal returns whether both buffers have the same kind, impostor mode
// and bit-identical arrays.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.Kind != o.Kind || b.Impostor != o.Impostor {
		return false
	}
	if !maps.EqualFunc(b.Arrays, o.Arrays, slices.Equal[math32.ArrayF32]) {
		return false
	}
	if (b.Mesh == nil) != (o.Mesh == nil) {
		return false
	}
	return b.Mesh == nil || b.Mesh.Equal(o.Mesh)
}

// SyncMeshColors sets the color of every mesh vertex to the [Color] of
// the element it belongs to, or to its [Color2] for far vertices, after
// the color arrays have been changed.
func (b *Buffer) SyncMeshColors() {
	if b.Mesh == nil {
		return
	}
	clr, clr2 := b.Arrays[Color], b.Arrays[Color2]
	for v, sl := range b.Mesh.Slot {
		src := clr
		if b.Mesh.Far[v] && clr2 != nil {
			src = clr2
		}
		copy(b.Mesh.Color[3*v:3*v+3], src[3*sl:3*sl+3])
	}
}

func (b *Buffer) String() string {
	return fmt.Sprintf("%s %q: %d elements, impostor %v", b.Kind, b.Name, b.Count(), b.Impostor)
}

// newBuffer returns a buffer of the given kind with arrays of n elements.
func newBuffer(kind Kind, params Params, n int) *Buffer {
	b := &Buffer{Kind: kind, Params: params, Arrays: make(map[Role]math32.ArrayF32)}
	for _, r := range kind.Roles() {
		b.Arrays[r] = math32.NewArrayF32(n*r.Stride(), n*r.Stride())
	}
	return b
}

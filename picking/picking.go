// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package picking correlates generated primitives back to the domain
// objects they represent. A domain collection is an [Arena] addressed by
// stable integer indices; an [Index] stores one such index (id) per
// generated primitive, plus a reference to the arena.
package picking

import (
	"errors"
	"fmt"

	"cogentcore.org/core/math32"
)

// ErrOutOfRange is returned when a slot or id does not address a valid element.
var ErrOutOfRange = errors.New("picking: index out of range")

// Arena is a domain collection addressed by stable integer indices.
type Arena[T any] interface {

	// Len returns the number of elements in the arena.
	Len() int

	// At returns the element at index i.
	At(i int) T

	// PositionAt returns the spatial position of element i.
	PositionAt(i int) math32.Vector3
}

// Proxy is a lightweight view of one domain element.
type Proxy[T any] struct {

	// Index is the domain index of the element (the id).
	Index int

	// Value is the domain element.
	Value T
}

// Picker is the domain-agnostic view of an [Index] held by packed buffers.
type Picker interface {

	// Type is a short name for the kind of domain object, e.g. "nucleotide".
	Type() string

	// Len is the number of primitives (slots) covered.
	Len() int

	// ID returns the domain id stored for the given primitive slot.
	ID(slot int) (uint32, bool)

	// IDs returns a copy of all stored ids.
	IDs() []uint32

	// Position returns the position of the domain object picked at slot.
	Position(slot int) (math32.Vector3, error)
}

// Creator builds a [Picker] for the given per-primitive id array.
// Buffer builders call it and never interpret the ids themselves.
type Creator func(ids []uint32) Picker

// Index maps primitive slots to domain ids, and ids to arena elements.
// It keeps a reference to the arena and never copies it.
type Index[T any] struct {
	typ   string
	ids   []uint32
	arena Arena[T]
}

// NewIndex returns an index of the given type name over the arena.
// The ids slice is retained, not copied.
func NewIndex[T any](typ string, ids []uint32, arena Arena[T]) *Index[T] {
	return &Index[T]{typ: typ, ids: ids, arena: arena}
}

// NewCreator returns a [Creator] that builds an [Index] over the arena.
func NewCreator[T any](typ string, arena Arena[T]) Creator {
	return func(ids []uint32) Picker {
		return NewIndex(typ, ids, arena)
	}
}

func (ix *Index[T]) Type() string { return ix.typ }

func (ix *Index[T]) Len() int { return len(ix.ids) }

// Arena returns the arena this index refers to.
func (ix *Index[T]) Arena() Arena[T] { return ix.arena }

func (ix *Index[T]) ID(slot int) (uint32, bool) {
	if slot < 0 || slot >= len(ix.ids) {
		return 0, false
	}
	return ix.ids[slot], true
}

func (ix *Index[T]) IDs() []uint32 {
	ids := make([]uint32, len(ix.ids))
	copy(ids, ix.ids)
	return ids
}

// Object returns a proxy for the domain element with the given id.
// Repeated calls with the same id return equal proxies.
func (ix *Index[T]) Object(id uint32) (Proxy[T], error) {
	if int(id) >= ix.arena.Len() {
		return Proxy[T]{}, fmt.Errorf("%w: %s id %d (arena size %d)", ErrOutOfRange, ix.typ, id, ix.arena.Len())
	}
	return Proxy[T]{Index: int(id), Value: ix.arena.At(int(id))}, nil
}

// ObjectPosition returns the position of the domain element with the given id.
func (ix *Index[T]) ObjectPosition(id uint32) (math32.Vector3, error) {
	if int(id) >= ix.arena.Len() {
		return math32.Vector3{}, fmt.Errorf("%w: %s id %d (arena size %d)", ErrOutOfRange, ix.typ, id, ix.arena.Len())
	}
	return ix.arena.PositionAt(int(id)), nil
}

// Pick resolves a primitive slot: the id stored at slot is used as the
// lookup key into the arena.
func (ix *Index[T]) Pick(slot int) (Proxy[T], error) {
	id, ok := ix.ID(slot)
	if !ok {
		return Proxy[T]{}, fmt.Errorf("%w: %s slot %d (have %d)", ErrOutOfRange, ix.typ, slot, len(ix.ids))
	}
	return ix.Object(id)
}

func (ix *Index[T]) Position(slot int) (math32.Vector3, error) {
	id, ok := ix.ID(slot)
	if !ok {
		return math32.Vector3{}, fmt.Errorf("%w: %s slot %d (have %d)", ErrOutOfRange, ix.typ, slot, len(ix.ids))
	}
	return ix.ObjectPosition(id)
}

// StripIDs maps per-vertex ids of a strip of n vertices onto its n-1
// segments: segment i keeps the id of vertex i.
func StripIDs(vertexIDs []uint32) []uint32 {
	if len(vertexIDs) < 2 {
		return nil
	}
	ids := make([]uint32, len(vertexIDs)-1)
	copy(ids, vertexIDs)
	return ids
}

// PairIDs maps per-vertex ids of n vertices taken in pairs onto the n/2
// segments: segment i keeps the id of vertex 2i.
func PairIDs(vertexIDs []uint32) []uint32 {
	ids := make([]uint32, len(vertexIDs)/2)
	for i := range ids {
		ids[i] = vertexIDs[2*i]
	}
	return ids
}

// SampleIDs maps per-point ids of an interpolated path onto its samples,
// where each of the len(pointIDs)-1 segments has perSegment samples.
// The first half of each segment keeps the id of its start point and
// the second half the id of its end point.
func SampleIDs(pointIDs []uint32, perSegment int) []uint32 {
	if len(pointIDs) < 2 || perSegment < 2 {
		return nil
	}
	ids := make([]uint32, 0, (len(pointIDs)-1)*perSegment)
	for i := 0; i < len(pointIDs)-1; i++ {
		for j := 0; j < perSegment; j++ {
			if 2*j < perSegment-1 {
				ids = append(ids, pointIDs[i])
			} else {
				ids = append(ids, pointIDs[i+1])
			}
		}
	}
	return ids
}

// Sequence returns the ids start, start+1, ..., start+n-1.
func Sequence(start uint32, n int) []uint32 {
	ids := make([]uint32, n)
	for i := range ids {
		ids[i] = start + uint32(i)
	}
	return ids
}

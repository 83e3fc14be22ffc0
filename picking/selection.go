// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package picking

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Selection is a set of selected domain ids.
// The zero value is not usable; use [NewSelection].
type Selection struct {
	bm *roaring.Bitmap
}

// NewSelection returns a selection holding the given ids.
func NewSelection(ids ...uint32) *Selection {
	return &Selection{bm: roaring.BitmapOf(ids...)}
}

func (sl *Selection) Add(ids ...uint32) {
	sl.bm.AddMany(ids)
}

func (sl *Selection) Remove(id uint32) {
	sl.bm.Remove(id)
}

// Toggle flips the selection state of id and returns the new state.
func (sl *Selection) Toggle(id uint32) bool {
	if sl.bm.Contains(id) {
		sl.bm.Remove(id)
		return false
	}
	sl.bm.Add(id)
	return true
}

// Contains returns whether id is selected. A nil selection contains nothing.
func (sl *Selection) Contains(id uint32) bool {
	if sl == nil {
		return false
	}
	return sl.bm.Contains(id)
}

func (sl *Selection) Len() int {
	if sl == nil {
		return 0
	}
	return int(sl.bm.GetCardinality())
}

// IDs returns the selected ids in increasing order.
func (sl *Selection) IDs() []uint32 {
	if sl == nil {
		return nil
	}
	return sl.bm.ToArray()
}

func (sl *Selection) Clear() {
	sl.bm.Clear()
}

// Clone returns an independent copy of the selection.
func (sl *Selection) Clone() *Selection {
	if sl == nil {
		return nil
	}
	return &Selection{bm: sl.bm.Clone()}
}

// SelectPick toggles the domain id that the picker stores at slot,
// returning the id and its new state.
func (sl *Selection) SelectPick(p Picker, slot int) (uint32, bool, error) {
	id, ok := p.ID(slot)
	if !ok {
		return 0, false, fmt.Errorf("%w: %s slot %d (have %d)", ErrOutOfRange, p.Type(), slot, p.Len())
	}
	return id, sl.Toggle(id), nil
}

func (sl *Selection) String() string {
	return fmt.Sprint(sl.IDs())
}

// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multiscale

import (
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/reflectx"
	"cogentcore.org/core/math32"
	"cogentcore.org/helixgeom/helix"
	"golang.org/x/image/colornames"
)

// Style holds the sizes and colors used by the level strategies.
// Changing a size or color and calling [Controller.Build] with
// [UpdateRadius] or [UpdateColor] applies it.
type Style struct {

	// NucleotideRadius is the sphere radius of a nucleotide at the finest level.
	NucleotideRadius float32 `default:"0.15"`

	// StickRadius is the radius of the axis-to-nucleotide cylinders.
	StickRadius float32 `default:"0.1"`

	// SizeScale scales the sizes of path elements.
	SizeScale float32 `default:"1"`

	// StrandColor is the color of a whole strand at the coarse level.
	StrandColor math32.Vector3

	// AxisColor is the color of strand axis lines.
	AxisColor math32.Vector3

	// Highlight is the color of selected elements.
	Highlight math32.Vector3
}

// DefaultStyle returns the default style.
func DefaultStyle() Style {
	st := Style{}
	errors.Log(reflectx.SetFromDefaultTags(&st))
	st.StrandColor = helix.ColorVector(colornames.Lightsteelblue)
	st.AxisColor = helix.ColorVector(colornames.Slategray)
	st.Highlight = helix.ColorVector(colornames.Gold)
	return st
}

// highlight returns the highlight color if id is selected, and clr otherwise.
func (c *Controller[M]) highlight(id uint32, clr math32.Vector3) math32.Vector3 {
	if c.Selected(id) {
		return c.Style.Highlight
	}
	return clr
}

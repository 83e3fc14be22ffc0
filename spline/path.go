// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spline

import (
	"log/slog"

	"cogentcore.org/core/math32"
)

// ControlPoint is one element of a sparse path.
type ControlPoint struct {

	// Position of the point.
	Position math32.Vector3

	// Size is the cross-section size at this point (radius for tubes, half width for ribbons).
	Size float32

	// Color is the RGB color at this point, components in [0, 1].
	Color math32.Vector3
}

// Stream is a fully interpolated path: one frame, size and color per sample.
// All three slices have the same length.
type Stream struct {
	Samples []Sample
	Sizes   []float32
	Colors  []math32.Vector3
}

// Len returns the number of samples in the stream.
func (st *Stream) Len() int {
	if st == nil {
		return 0
	}
	return len(st.Samples)
}

// Split returns the control points as parallel slices.
func Split(points []ControlPoint) (positions []math32.Vector3, sizes []float32, colors []math32.Vector3) {
	positions = make([]math32.Vector3, len(points))
	sizes = make([]float32, len(points))
	colors = make([]math32.Vector3, len(points))
	for i, cp := range points {
		positions[i] = cp.Position
		sizes[i] = cp.Size
		colors[i] = cp.Color
	}
	return
}

// Uniform returns size and color slices filled with the given values,
// one per position.
func Uniform(positions []math32.Vector3, size float32, color math32.Vector3) (sizes []float32, colors []math32.Vector3) {
	sizes = make([]float32, len(positions))
	colors = make([]math32.Vector3, len(positions))
	for i := range positions {
		sizes[i] = size
		colors[i] = color
	}
	return
}

// CommonLength returns the minimum of the given lengths, and whether
// they all agree. It logs a warning on the given logger (slog.Default
// if nil) when they do not.
func CommonLength(logger *slog.Logger, what string, lens ...int) (int, bool) {
	if len(lens) == 0 {
		return 0, true
	}
	mn := lens[0]
	same := true
	for _, l := range lens[1:] {
		if l != lens[0] {
			same = false
		}
		mn = min(mn, l)
	}
	if !same {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("input arrays must have the same length; using the shortest", "what", what, "lengths", lens, "used", mn)
	}
	return mn, same
}

// InterpolatePath interpolates the positions with [Interpolate] and
// computes per-sample sizes and colors. Sizes and colors are not spline
// interpolated: within each segment the size is size0*t + size1*(1-t)
// and the color is the linear blend from color0 to color1.
// If the three slices differ in length a warning is logged and the
// minimum common length is used.
func InterpolatePath(positions []math32.Vector3, sizes []float32, colors []math32.Vector3, subdivisions int, logger *slog.Logger) (*Stream, error) {
	n, _ := CommonLength(logger, "path positions/sizes/colors", len(positions), len(sizes), len(colors))
	positions, sizes, colors = positions[:n], sizes[:n], colors[:n]

	samples, err := Interpolate(positions, subdivisions)
	if err != nil {
		return nil, err
	}
	st := &Stream{Samples: samples}
	if len(samples) == 0 {
		return st, nil
	}
	per := subdivisions + 2
	st.Sizes = make([]float32, 0, len(samples))
	st.Colors = make([]math32.Vector3, 0, len(samples))
	for i := 0; i < n-1; i++ {
		c0, c1 := colors[i], colors[i+1]
		s0, s1 := sizes[i], sizes[i+1]
		for j := 0; j < per; j++ {
			t := float32(j) / float32(per-1)
			st.Colors = append(st.Colors, c0.Add(c1.Sub(c0).MulScalar(t)))
			st.Sizes = append(st.Sizes, s0*t+s1*(1-t))
		}
	}
	return st, nil
}

// InterpolatePoints is [InterpolatePath] for a slice of [ControlPoint].
func InterpolatePoints(points []ControlPoint, subdivisions int, logger *slog.Logger) (*Stream, error) {
	pos, sz, clr := Split(points)
	return InterpolatePath(pos, sz, clr, subdivisions, logger)
}

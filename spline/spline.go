// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spline densifies sparse 3D paths with a cubic Hermite spline
// whose tangents are estimated Catmull-Rom style, and builds a local
// tangent / normal / binormal frame at every generated sample.
package spline

import (
	"errors"

	"cogentcore.org/core/math32"
)

// ErrSubdivisions is returned when a negative number of subdivisions is requested.
var ErrSubdivisions = errors.New("spline: subdivisions must be >= 0")

// degenerate is the squared length below which a derivative is treated as zero.
const degenerate = 1e-12

// Sample is one interpolated point on the curve together with its frame.
type Sample struct {

	// Position is the interpolated point on the curve.
	Position math32.Vector3

	// Tangent is the unit direction of the curve derivative at this point.
	Tangent math32.Vector3

	// Normal is a unit vector perpendicular to Tangent.
	Normal math32.Vector3

	// Binormal is normalize(Normal x Tangent).
	Binormal math32.Vector3
}

// Hermite evaluates the cubic Hermite curve defined by end points p0, p1
// and tangents m0, m1 at parameter t in [0, 1].
func Hermite(p0, m0, p1, m1 math32.Vector3, t float32) math32.Vector3 {
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return p0.MulScalar(h00).Add(m0.MulScalar(h10)).Add(p1.MulScalar(h01)).Add(m1.MulScalar(h11))
}

// HermiteDerivative returns dp/dt of the curve evaluated by [Hermite].
func HermiteDerivative(p0, m0, p1, m1 math32.Vector3, t float32) math32.Vector3 {
	t2 := t * t
	d00 := 6*t2 - 6*t
	d10 := 3*t2 - 4*t + 1
	d01 := -6*t2 + 6*t
	d11 := 3*t2 - 2*t
	return p0.MulScalar(d00).Add(m0.MulScalar(d10)).Add(p1.MulScalar(d01)).Add(m1.MulScalar(d11))
}

// SegmentTangents returns the start and end tangents of segment i
// (from points[i] to points[i+1]). Interior points use the Catmull-Rom
// estimate 0.5*(p[i+1] - p[i-1]); the two ends of the whole sequence use
// the plain secant of the adjacent segment.
func SegmentTangents(points []math32.Vector3, i int) (m0, m1 math32.Vector3) {
	n := len(points)
	p0, p1 := points[i], points[i+1]
	if i == 0 {
		m0 = p1.Sub(p0)
	} else {
		m0 = p1.Sub(points[i-1]).MulScalar(0.5)
	}
	if i == n-2 {
		m1 = p1.Sub(p0)
	} else {
		m1 = points[i+2].Sub(p0).MulScalar(0.5)
	}
	return
}

// Frame returns a normal and binormal for the given unit tangent.
// The normal is an arbitrary perpendicular obtained by fixing the two
// minor components to 1 and solving the dot product for the component
// along the largest-magnitude tangent axis. This is not continuous when
// the dominant axis changes; callers should not rely on smooth rotation
// of the frame across such switches.
func Frame(tangent math32.Vector3) (normal, binormal math32.Vector3) {
	ax := math32.Abs(tangent.X)
	ay := math32.Abs(tangent.Y)
	az := math32.Abs(tangent.Z)
	switch {
	case ax >= ay && ax >= az:
		normal = math32.Vec3(-(tangent.Y+tangent.Z)/tangent.X, 1, 1)
	case ay >= az:
		normal = math32.Vec3(1, -(tangent.X+tangent.Z)/tangent.Y, 1)
	default:
		normal = math32.Vec3(1, 1, -(tangent.X+tangent.Y)/tangent.Z)
	}
	normal = normal.Normal()
	binormal = normal.Cross(tangent).Normal()
	return
}

// NumSamples returns the number of samples that [Interpolate] generates
// for n control points and the given subdivisions.
func NumSamples(n, subdivisions int) int {
	if n < 2 || subdivisions < 0 {
		return 0
	}
	return (n - 1) * (subdivisions + 2)
}

// Interpolate densifies the given control points, inserting subdivisions
// extra samples per segment. Both end points of every segment are included,
// so the result has (n-1)*(subdivisions+2) samples and the first sample of
// segment i+1 coincides with the last sample of segment i.
// Fewer than two points yield an empty result.
func Interpolate(points []math32.Vector3, subdivisions int) ([]Sample, error) {
	if subdivisions < 0 {
		return nil, ErrSubdivisions
	}
	n := len(points)
	if n < 2 {
		return nil, nil
	}
	per := subdivisions + 2
	samples := make([]Sample, 0, NumSamples(n, subdivisions))
	last := math32.Vec3(0, 1, 0)
	for i := 0; i < n-1; i++ {
		p0, p1 := points[i], points[i+1]
		m0, m1 := SegmentTangents(points, i)
		secant := p1.Sub(p0)
		for j := 0; j < per; j++ {
			t := float32(j) / float32(per-1)
			var s Sample
			s.Position = Hermite(p0, m0, p1, m1, t)
			d := HermiteDerivative(p0, m0, p1, m1, t)
			switch {
			case d.LengthSquared() > degenerate:
				s.Tangent = d.Normal()
			case secant.LengthSquared() > degenerate:
				s.Tangent = secant.Normal()
			default:
				s.Tangent = last
			}
			last = s.Tangent
			s.Normal, s.Binormal = Frame(s.Tangent)
			samples = append(samples, s)
		}
	}
	return samples, nil
}

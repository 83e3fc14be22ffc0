// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buffer

import (
	"fmt"
	"slices"

	"cogentcore.org/core/math32"
	"cogentcore.org/helixgeom/spline"
)

// Mesh is explicit indexed triangle geometry generated for a buffer.
// Every vertex records the element slot it belongs to, so that a hit on
// a triangle can be resolved through the buffer's picker.
type Mesh struct {

	// Position has 3 floats per vertex.
	Position math32.ArrayF32

	// Normal has 3 floats per vertex.
	Normal math32.ArrayF32

	// Color has 3 floats per vertex.
	Color math32.ArrayF32

	// Index has 3 vertex indexes per triangle.
	Index math32.ArrayU32

	// Slot is the element slot of each vertex.
	Slot []uint32

	// Far marks vertices colored from the second end of a two-colored
	// element, i.e. from [Color2] rather than [Color].
	Far []bool
}

// NumVertex returns the number of vertices.
func (ms *Mesh) NumVertex() int { return len(ms.Position) / 3 }

// NumTriangle returns the number of triangles.
func (ms *Mesh) NumTriangle() int { return len(ms.Index) / 3 }

// Validate checks the per-vertex arrays against each other and the
// triangle indexes against the vertex count. Slots must address one of
// the n elements of the owning buffer.
func (ms *Mesh) Validate(n int) error {
	nv := ms.NumVertex()
	if len(ms.Position) != nv*3 || len(ms.Normal) != nv*3 || len(ms.Color) != nv*3 || len(ms.Slot) != nv || len(ms.Far) != nv {
		return fmt.Errorf("mesh: vertex arrays disagree (position %d, normal %d, color %d, slot %d, far %d)", len(ms.Position), len(ms.Normal), len(ms.Color), len(ms.Slot), len(ms.Far))
	}
	if len(ms.Index)%3 != 0 {
		return fmt.Errorf("mesh: %d indexes is not a whole number of triangles", len(ms.Index))
	}
	for _, ix := range ms.Index {
		if int(ix) >= nv {
			return fmt.Errorf("mesh: index %d out of range (%d vertices)", ix, nv)
		}
	}
	for _, sl := range ms.Slot {
		if int(sl) >= n {
			return fmt.Errorf("mesh: slot %d out of range (%d elements)", sl, n)
		}
	}
	return nil
}

// Clone returns a deep copy of the mesh.
func (ms *Mesh) Clone() *Mesh {
	return &Mesh{
		Position: slices.Clone(ms.Position),
		Normal:   slices.Clone(ms.Normal),
		Color:    slices.Clone(ms.Color),
		Index:    slices.Clone(ms.Index),
		Slot:     slices.Clone(ms.Slot),
		Far:      slices.Clone(ms.Far),
	}
}

// Equal returns whether both meshes are bit-identical.
func (ms *Mesh) Equal(o *Mesh) bool {
	return slices.Equal(ms.Position, o.Position) && slices.Equal(ms.Normal, o.Normal) &&
		slices.Equal(ms.Color, o.Color) && slices.Equal(ms.Index, o.Index) && slices.Equal(ms.Slot, o.Slot) &&
		slices.Equal(ms.Far, o.Far)
}

// addVertex appends one vertex and returns its index.
func (ms *Mesh) addVertex(pos, norm, clr math32.Vector3, slot uint32) uint32 {
	idx := uint32(ms.NumVertex())
	ms.Position.AppendVector3(pos)
	ms.Normal.AppendVector3(norm)
	ms.Color.AppendVector3(clr)
	ms.Slot = append(ms.Slot, slot)
	ms.Far = append(ms.Far, false)
	return idx
}

// addRing appends segs+1 vertices around center in the plane spanned by
// u and v, with the seam vertex duplicated. Radii ru and rv scale the u
// and v directions. Returns the index of the first vertex.
func (ms *Mesh) addRing(center, u, v math32.Vector3, ru, rv float32, segs int, clr math32.Vector3, slot uint32) uint32 {
	st := uint32(ms.NumVertex())
	for j := 0; j <= segs; j++ {
		ang := float32(j) / float32(segs) * 2 * math32.Pi
		c, s := math32.Cos(ang), math32.Sin(ang)
		off := u.MulScalar(c * ru).Add(v.MulScalar(s * rv))
		// ellipse normal is the gradient of the implicit form
		nrm := u.MulScalar(c / max(ru, 1e-6)).Add(v.MulScalar(s / max(rv, 1e-6)))
		ms.addVertex(center.Add(off), nrm.Normal(), clr, slot)
	}
	return st
}

// joinRings appends the side triangles between two rings of segs+1
// vertices starting at a and b.
func (ms *Mesh) joinRings(a, b uint32, segs int) {
	for j := uint32(0); j < uint32(segs); j++ {
		v1, v2, v3, v4 := a+j, b+j, b+j+1, a+j+1
		ms.Index.Append(v1, v2, v4)
		ms.Index.Append(v2, v3, v4)
	}
}

// addCap appends a disk closing the ring of segs+1 vertices around
// center, facing along nrm.
func (ms *Mesh) addCap(center, u, v math32.Vector3, ru, rv float32, segs int, nrm, clr math32.Vector3, slot uint32) {
	ci := ms.addVertex(center, nrm, clr, slot)
	st := uint32(ms.NumVertex())
	for j := 0; j <= segs; j++ {
		ang := float32(j) / float32(segs) * 2 * math32.Pi
		off := u.MulScalar(math32.Cos(ang) * ru).Add(v.MulScalar(math32.Sin(ang) * rv))
		ms.addVertex(center.Add(off), nrm, clr, slot)
	}
	flip := nrm.Dot(u.Cross(v)) < 0
	for j := uint32(0); j < uint32(segs); j++ {
		if flip {
			ms.Index.Append(ci, st+j+1, st+j)
		} else {
			ms.Index.Append(ci, st+j, st+j+1)
		}
	}
}

// AddTube appends a tube swept along the packed path arrays, one ring
// per sample. The cross section has radius size along the binormal and
// size*aspect along the normal.
func (ms *Mesh) AddTube(pos, norm, binorm, tang, clr, size math32.ArrayF32, segs int, aspect float32, capped bool) {
	n := len(size)
	if n < 2 {
		return
	}
	var p, nv, bv, tv, cv math32.Vector3
	rings := make([]uint32, n)
	for i := range n {
		pos.GetVector3(3*i, &p)
		norm.GetVector3(3*i, &nv)
		binorm.GetVector3(3*i, &bv)
		clr.GetVector3(3*i, &cv)
		rings[i] = ms.addRing(p, nv, bv, size[i]*aspect, size[i], segs, cv, uint32(i))
	}
	for i := 0; i < n-1; i++ {
		ms.joinRings(rings[i], rings[i+1], segs)
	}
	if !capped {
		return
	}
	for _, i := range []int{0, n - 1} {
		pos.GetVector3(3*i, &p)
		norm.GetVector3(3*i, &nv)
		binorm.GetVector3(3*i, &bv)
		tang.GetVector3(3*i, &tv)
		clr.GetVector3(3*i, &cv)
		if i == 0 {
			tv = tv.Negate()
		}
		ms.addCap(p, nv, bv, size[i]*aspect, size[i], segs, tv, cv, uint32(i))
	}
}

// AddRibbon appends a flat band along the packed path arrays: two
// vertices per sample, offset by size along dir and facing along norm.
func (ms *Mesh) AddRibbon(pos, norm, dir, clr, size math32.ArrayF32) {
	n := len(size)
	if n < 2 {
		return
	}
	var p, nv, dv, cv math32.Vector3
	st := uint32(ms.NumVertex())
	for i := range n {
		pos.GetVector3(3*i, &p)
		norm.GetVector3(3*i, &nv)
		dir.GetVector3(3*i, &dv)
		clr.GetVector3(3*i, &cv)
		off := dv.MulScalar(size[i])
		ms.addVertex(p.Sub(off), nv, cv, uint32(i))
		ms.addVertex(p.Add(off), nv, cv, uint32(i))
	}
	for i := uint32(0); i < uint32(n-1); i++ {
		a, b := st+2*i, st+2*i+2
		ms.Index.Append(a, b, a+1)
		ms.Index.Append(b, b+1, a+1)
	}
}

// AddCylinder appends a cylinder from p1 to p2 with the given radius,
// colored c1 at p1 and c2 at p2, with caps unless openEnded.
func (ms *Mesh) AddCylinder(p1, p2 math32.Vector3, radius float32, c1, c2 math32.Vector3, segs int, openEnded bool, slot uint32) {
	axis := p2.Sub(p1)
	if axis.LengthSquared() == 0 {
		axis = math32.Vec3(0, 1, 0)
	}
	axis = axis.Normal()
	u, v := spline.Frame(axis)
	b := ms.addRing(p1, u, v, radius, radius, segs, c1, slot)
	t := ms.addRing(p2, u, v, radius, radius, segs, c2, slot)
	ms.markFar(int(t))
	ms.joinRings(b, t, segs)
	if openEnded {
		return
	}
	ms.addCap(p1, u, v, radius, radius, segs, axis.Negate(), c1, slot)
	nv := ms.NumVertex()
	ms.addCap(p2, u, v, radius, radius, segs, axis, c2, slot)
	ms.markFar(nv)
}

// markFar marks the vertices from st up to the end as far vertices.
func (ms *Mesh) markFar(st int) {
	for i := st; i < len(ms.Far); i++ {
		ms.Far[i] = true
	}
}

// AddSphere appends a UV sphere with segs width and height segments.
func (ms *Mesh) AddSphere(center math32.Vector3, radius float32, clr math32.Vector3, segs int, slot uint32) {
	st := uint32(ms.NumVertex())
	row := uint32(segs + 1)
	for y := 0; y <= segs; y++ {
		v := float32(y) / float32(segs)
		elev := v * math32.Pi
		for x := 0; x <= segs; x++ {
			u := float32(x) / float32(segs)
			ang := u * 2 * math32.Pi
			nrm := math32.Vec3(-math32.Cos(ang)*math32.Sin(elev), math32.Cos(elev), math32.Sin(ang)*math32.Sin(elev))
			ms.addVertex(center.Add(nrm.MulScalar(radius)), nrm, clr, slot)
		}
	}
	for y := uint32(0); y < uint32(segs); y++ {
		for x := uint32(0); x < uint32(segs); x++ {
			v1 := st + y*row + x + 1
			v2 := st + y*row + x
			v3 := st + (y+1)*row + x
			v4 := st + (y+1)*row + x + 1
			if y != 0 {
				ms.Index.Append(v1, v2, v4)
			}
			if y != uint32(segs)-1 {
				ms.Index.Append(v2, v3, v4)
			}
		}
	}
}

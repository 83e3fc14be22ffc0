// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multiscale

import (
	"errors"
	"testing"

	"cogentcore.org/core/math32"
	"cogentcore.org/helixgeom/buffer"
	"cogentcore.org/helixgeom/helix"
	"cogentcore.org/helixgeom/picking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	live    map[*buffer.Buffer]bool
	adds    int
	removes int
}

func newRecorder() *recorder {
	return &recorder{live: map[*buffer.Buffer]bool{}}
}

func (r *recorder) Add(b *buffer.Buffer) {
	r.live[b] = true
	r.adds++
}

func (r *recorder) Remove(b *buffer.Buffer) {
	delete(r.live, b)
	r.removes++
}

func testStructure(t *testing.T) *helix.Structure {
	s1, err := helix.NewStrandSequence("ATCGGA", math32.Vector3{}, math32.Vec3(0, 1, 0))
	require.NoError(t, err)
	s2, err := s1.CreateComplementary()
	require.NoError(t, err)
	return helix.NewStructure(s1, helix.NewStrandN(0, math32.Vec3(5, 0, 0), math32.Vec3(1, 0, 0)), s2)
}

func TestHelixLevels(t *testing.T) {
	st := testStructure(t)
	c := NewHelix(st, nil, 0)
	require.NoError(t, c.Create())
	bufs := c.Buffers()
	require.Len(t, bufs, 1)
	assert.Equal(t, buffer.Sphere, bufs[0].Kind)
	assert.Equal(t, 12, bufs[0].Count())
	require.NoError(t, bufs[0].Validate())
	pos, err := bufs[0].Picking.Position(7)
	require.NoError(t, err)
	assert.Equal(t, st.Strand(2).NucleotidePosition(1), pos)

	require.NoError(t, c.SetLevel(1))
	bufs = c.Buffers()
	require.Len(t, bufs, 1)
	assert.Equal(t, buffer.Cylinder, bufs[0].Kind)
	assert.Equal(t, 12, bufs[0].Count())
	require.NoError(t, bufs[0].Validate())
	var clr math32.Vector3
	bufs[0].Array(buffer.Color).GetVector3(3*6, &clr)
	assert.Equal(t, helix.TypeColor(helix.T), clr)

	require.NoError(t, c.SetLevel(2))
	bufs = c.Buffers()
	require.Len(t, bufs, 2)
	assert.Equal(t, buffer.Cylinder, bufs[0].Kind)
	assert.Equal(t, buffer.WideLine, bufs[1].Kind)
	// the empty strand has no geometry
	assert.Equal(t, 2, bufs[0].Count())
	assert.Equal(t, []uint32{0, 6}, bufs[0].Picking.IDs())
}

func TestOutOfRangeLevelFallsBack(t *testing.T) {
	st := testStructure(t)
	c := NewHelix(st, nil, 7)
	assert.Equal(t, 7, c.Level())
	assert.Equal(t, 2, c.ResolvedLevel())
	require.NoError(t, c.Create())
	last := c.Buffers()

	d := NewHelix(st, nil, 2)
	require.NoError(t, d.Create())
	require.Len(t, d.Buffers(), len(last))
	for i := range last {
		assert.True(t, last[i].Equal(d.Buffers()[i]))
	}

	require.NoError(t, c.SetLevel(-1))
	assert.Equal(t, 2, c.ResolvedLevel())

	e := New[*helix.Structure](st, nil, nil, 0)
	assert.Equal(t, -1, e.ResolvedLevel())
	require.NoError(t, e.Create())
	assert.Empty(t, e.Buffers())
}

func TestRebuildDeterministic(t *testing.T) {
	st := testStructure(t)
	for lv := range 3 {
		c := NewHelix(st, nil, lv)
		require.NoError(t, c.Create())
		first := make([]*buffer.Buffer, 0)
		for _, b := range c.Buffers() {
			first = append(first, b.Clone())
		}
		require.NoError(t, c.Build(UpdateAll))
		second := c.Buffers()
		require.Len(t, second, len(first))
		for i := range first {
			assert.True(t, first[i].Equal(second[i]), "level %d buffer %d", lv, i)
			assert.NotSame(t, first[i], second[i])
		}
	}
}

func TestSetLevelReplacesBuffers(t *testing.T) {
	r := newRecorder()
	c := NewHelix(testStructure(t), r, 0)
	called := 0
	require.NoError(t, c.Attach(func() { called++ }))
	assert.Equal(t, 1, called)
	assert.False(t, c.Dirty())
	old := c.Buffers()
	require.Len(t, r.live, 1)

	// same level is a no-op
	require.NoError(t, c.SetLevel(0))
	assert.Equal(t, old, c.Buffers())

	require.NoError(t, c.SetLevel(1))
	assert.True(t, c.Dirty())
	assert.True(t, old[0].Disposed())
	assert.Empty(t, r.live)
	assert.Equal(t, 1, r.removes)

	require.NoError(t, c.Attach(nil))
	assert.False(t, c.Dirty())
	assert.Len(t, r.live, 1)
	assert.True(t, r.live[c.Buffers()[0]])
}

func TestSetParameters(t *testing.T) {
	c := NewHelix(testStructure(t), nil, 0)
	require.NoError(t, c.Create())
	old := c.Buffers()

	require.NoError(t, c.SetParameters(Parameters{DesiredScale: 0}))
	assert.Equal(t, old, c.Buffers())

	require.NoError(t, c.SetParameters(Parameters{DesiredScale: 0, Rebuild: true}))
	assert.True(t, old[0].Disposed())

	require.NoError(t, c.SetParameters(Parameters{DesiredScale: 2}))
	assert.Equal(t, 2, c.Level())
	assert.Len(t, c.Buffers(), 2)
}

func TestDisposeAndClearIdempotent(t *testing.T) {
	r := newRecorder()
	c := NewHelix(testStructure(t), r, 0)
	assert.NotPanics(t, c.Clear)
	assert.NotPanics(t, c.Dispose)
	assert.NotPanics(t, c.Dispose)
	assert.True(t, c.Disposed())
	assert.ErrorIs(t, c.Create(), ErrDisposed)
	assert.ErrorIs(t, c.SetLevel(1), ErrDisposed)
	assert.ErrorIs(t, c.Attach(nil), ErrDisposed)

	c = NewHelix(testStructure(t), r, 1)
	require.NoError(t, c.Attach(nil))
	bufs := c.Buffers()
	c.Clear()
	c.Clear()
	assert.Empty(t, c.Buffers())
	assert.Empty(t, r.live)
	assert.True(t, bufs[0].Disposed())
	assert.False(t, c.Disposed())
	require.NoError(t, c.Create())
	assert.Len(t, c.Buffers(), 1)
	c.Dispose()
	c.Dispose()
	assert.Empty(t, c.Buffers())
}

func TestSelectiveBuild(t *testing.T) {
	st := testStructure(t)
	c := NewHelix(st, nil, 0)
	require.NoError(t, c.Create())
	old := c.Buffers()[0]
	oldPos := append(math32.ArrayF32(nil), old.Array(buffer.Position)...)

	require.NoError(t, c.Select(picking.NewSelection(2)))
	cur := c.Buffers()[0]
	assert.NotSame(t, old, cur)
	assert.True(t, old.Disposed())
	assert.Equal(t, oldPos, cur.Array(buffer.Position))
	var clr math32.Vector3
	cur.Array(buffer.Color).GetVector3(3*2, &clr)
	assert.Equal(t, c.Style.Highlight, clr)
	cur.Array(buffer.Color).GetVector3(3*3, &clr)
	assert.Equal(t, helix.TypeColor(helix.G), clr)

	c.Style.NucleotideRadius = 0.5
	require.NoError(t, c.Build(UpdateRadius))
	assert.Equal(t, float32(0.5), c.Buffers()[0].Array(buffer.Radius)[0])

	// a selective build agrees with a full one
	sel := c.Buffers()[0].Clone()
	require.NoError(t, c.Build(UpdateAll))
	assert.True(t, sel.Equal(c.Buffers()[0]))
}

func TestSelectiveBuildFallsBack(t *testing.T) {
	c := NewHelix(testStructure(t), nil, 2)
	require.NoError(t, c.Create())
	require.NoError(t, c.Select(picking.NewSelection(6)))
	var clr math32.Vector3
	c.Buffers()[0].Array(buffer.Color).GetVector3(3, &clr)
	assert.Equal(t, c.Style.Highlight, clr)

	assert.True(t, UpdateColor.Selective())
	assert.True(t, (UpdateColor | UpdateRadius).Selective())
	assert.False(t, UpdateMask(0).Selective())
	assert.False(t, (UpdateColor | UpdatePosition).Selective())
	assert.False(t, UpdatePicking.Selective())
}

func TestBuildError(t *testing.T) {
	boom := errors.New("boom")
	levels := []Level[int]{{Name: "fail", Build: func(c *Controller[int]) ([]*buffer.Buffer, error) { return nil, boom }}}
	c := New(0, levels, nil, 0)
	assert.ErrorIs(t, c.Create(), boom)
	assert.Empty(t, c.Buffers())
}

func TestSetLevelBuildError(t *testing.T) {
	boom := errors.New("boom")
	b := buffer.NewBuilder(nil)
	fail := true
	levels := []Level[int]{
		{Name: "level0", Build: func(c *Controller[int]) ([]*buffer.Buffer, error) {
			buf, err := b.Spheres([]math32.Vector3{{}}, []math32.Vector3{{}}, []float32{1}, nil, buffer.Pick{})
			if buf != nil {
				buf.Name = "level0"
			}
			return []*buffer.Buffer{buf}, err
		}},
		{Name: "level1", Build: func(c *Controller[int]) ([]*buffer.Buffer, error) {
			if fail {
				return nil, boom
			}
			return nil, nil
		}},
	}
	c := New(0, levels, nil, 0)
	require.NoError(t, c.Create())
	assert.ErrorIs(t, c.SetLevel(1), boom)
	assert.Equal(t, 0, c.Level())
	require.Len(t, c.Buffers(), 1)
	assert.Equal(t, "level0", c.Buffers()[0].Name)
	assert.False(t, c.Buffers()[0].Disposed())

	// a retry builds again
	assert.ErrorIs(t, c.SetLevel(1), boom)
	fail = false
	require.NoError(t, c.SetLevel(1))
	assert.Equal(t, 1, c.Level())
	assert.Empty(t, c.Buffers())
}

func TestSelectiveBuildShrunkPath(t *testing.T) {
	for lv, want := range []int{2, 1} {
		p := testPath()
		c := NewPath(p, nil, lv)
		require.NoError(t, c.Create())
		p.Positions = p.Positions[:2]
		require.NotPanics(t, func() {
			require.NoError(t, c.Build(UpdateColor))
		})
		bufs := c.Buffers()
		require.Len(t, bufs, 1)
		assert.Equal(t, want, bufs[0].Count(), "level %d", lv)
		require.NoError(t, bufs[0].Validate())
	}

	// a longer model is also rebuilt rather than partially recolored
	p := testPath()
	c := NewPath(p, nil, 0)
	p.Positions = p.Positions[:2]
	require.NoError(t, c.Create())
	p.Positions = testPath().Positions
	require.NoError(t, c.Build(UpdateColor))
	assert.Equal(t, 4, c.Buffers()[0].Count())
}

func TestSelectiveBuildMeshGradient(t *testing.T) {
	c := NewPath(testPath(), nil, 1)
	c.GetBuilder().Defaults.Cylinder.DisableImpostor = true
	require.NoError(t, c.Create())
	require.NotNil(t, c.Buffers()[0].Mesh)
	require.NoError(t, c.Select(picking.NewSelection(1)))
	sel := c.Buffers()[0].Clone()

	// the far ring of cylinder 0 takes the highlight from element 1
	require.NoError(t, c.Build(UpdateAll))
	assert.True(t, sel.Equal(c.Buffers()[0]))
}

func testPath() *Path {
	return &Path{
		Positions:    []math32.Vector3{{0, 0, 0}, {1, 0, 0}, {2, 1, 0}, {3, 1, 1}},
		Sizes:        []float32{1, 1, 2, 2},
		Colors:       []math32.Vector3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}},
		Subdivisions: 1,
	}
}

func TestPathLevels(t *testing.T) {
	p := testPath()
	c := NewPath(p, nil, 0)
	kinds := []buffer.Kind{buffer.Sphere, buffer.Cylinder, buffer.Ribbon, buffer.Tube}
	counts := []int{4, 3, 9, 9}
	for lv := range kinds {
		require.NoError(t, c.SetParameters(Parameters{DesiredScale: lv, Rebuild: true}))
		bufs := c.Buffers()
		require.Len(t, bufs, 1)
		assert.Equal(t, kinds[lv], bufs[0].Kind)
		assert.Equal(t, counts[lv], bufs[0].Count())
		require.NoError(t, bufs[0].Validate())
	}

	require.NoError(t, c.SetLevel(1))
	require.NoError(t, c.Select(picking.NewSelection(1)))
	b := c.Buffers()[0]
	var clr math32.Vector3
	b.Array(buffer.Color).GetVector3(3, &clr)
	assert.Equal(t, c.Style.Highlight, clr)
	b.Array(buffer.Color2).GetVector3(0, &clr)
	assert.Equal(t, c.Style.Highlight, clr)

	c.Style.SizeScale = 2
	require.NoError(t, c.Build(UpdateRadius))
	assert.Equal(t, []float32{2, 2, 4}, []float32(c.Buffers()[0].Array(buffer.Radius)))

	px, err := c.Buffers()[0].Picking.Position(2)
	require.NoError(t, err)
	assert.Equal(t, p.Positions[2], px)
}

func TestEmptyModels(t *testing.T) {
	c := NewHelix(helix.NewStructure(), nil, 0)
	for lv := range 3 {
		require.NoError(t, c.SetParameters(Parameters{DesiredScale: lv, Rebuild: true}))
		assert.Empty(t, c.Buffers())
	}
	pc := NewPath(&Path{Positions: []math32.Vector3{{}}, Sizes: []float32{1}, Colors: []math32.Vector3{{}}}, nil, 3)
	require.NoError(t, pc.Create())
	assert.Empty(t, pc.Buffers())
}

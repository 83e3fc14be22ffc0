// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buffer

import (
	"bytes"
	"log/slog"
	"testing"

	"cogentcore.org/core/math32"
	"cogentcore.org/helixgeom/picking"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	Pos math32.Vector3
}

type points []point

func (p points) Len() int                        { return len(p) }
func (p points) At(i int) point                  { return p[i] }
func (p points) PositionAt(i int) math32.Vector3 { return p[i].Pos }

func line(n int) ([]math32.Vector3, []math32.Vector3, points) {
	pos := make([]math32.Vector3, n)
	clr := make([]math32.Vector3, n)
	pts := make(points, n)
	for i := range n {
		pos[i] = math32.Vec3(float32(i), 0, 0)
		clr[i] = math32.Vec3(float32(i)/float32(n), 0, 1)
		pts[i] = point{pos[i]}
	}
	return pos, clr, pts
}

func testBuilder() (*Builder, *bytes.Buffer) {
	var lb bytes.Buffer
	return NewBuilder(slog.New(slog.NewTextHandler(&lb, nil))), &lb
}

func TestDefaults(t *testing.T) {
	d := NewDefaults()
	assert.Equal(t, TubeParams{RadialSegments: 8, Capped: true, AspectRatio: 1}, d.Tube)
	assert.Equal(t, CylinderParams{RadialSegments: 8}, d.Cylinder)
	assert.Equal(t, LineParams{LineWidth: 2}, d.Line)
	assert.Equal(t, SphereParams{Segments: 12}, d.Sphere)
	assert.NoError(t, d.Validate())

	bad := *d
	bad.Tube.RadialSegments = 2
	bad.Line.LineWidth = 0
	err := bad.Validate()
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestMergeParams(t *testing.T) {
	d := NewDefaults()
	p, err := merge(d.Tube, &TubeParams{AspectRatio: 2, Capped: true})
	require.NoError(t, err)
	assert.Equal(t, TubeParams{RadialSegments: 8, Capped: true, AspectRatio: 2}, p)

	// booleans in an override are explicit, false included
	p, err = merge(d.Tube, &TubeParams{RadialSegments: 8, AspectRatio: 1})
	require.NoError(t, err)
	assert.False(t, p.Capped)
	assert.True(t, d.Tube.Capped)

	p, err = merge(d.Tube, nil)
	require.NoError(t, err)
	assert.Equal(t, d.Tube, p)

	cp, err := merge(d.Cylinder, &CylinderParams{DisableImpostor: true})
	require.NoError(t, err)
	assert.Equal(t, CylinderParams{DisableImpostor: true, RadialSegments: 8}, cp)
}

func TestKind(t *testing.T) {
	for k := Tube; k <= Sphere; k++ {
		pk, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, pk)
	}
	_, err := ParseKind("arrow")
	assert.Error(t, err)
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestCylinderStrip(t *testing.T) {
	b, _ := testBuilder()
	for _, n := range []int{2, 3, 7} {
		pos, clr, _ := line(n)
		radii := make([]float32, n-1)
		for i := range radii {
			radii[i] = 0.1 * float32(i+1)
		}
		buf, err := b.CylinderStrip(pos, clr, radii, nil, Pick{})
		require.NoError(t, err)
		assert.Len(t, buf.Array(Position1), (n-1)*3)
		assert.Len(t, buf.Array(Position2), (n-1)*3)
		assert.Len(t, buf.Array(Color), (n-1)*3)
		assert.Len(t, buf.Array(Color2), (n-1)*3)
		assert.Len(t, buf.Array(Radius), n-1)
		assert.Equal(t, n-1, buf.Count())
		assert.True(t, buf.Impostor)
		assert.Nil(t, buf.Mesh)
		assert.Nil(t, buf.Picking)
		require.NoError(t, buf.Validate())

		// segments share end points
		var p2, p1 math32.Vector3
		for i := 0; i < n-2; i++ {
			buf.Array(Position2).GetVector3(3*i, &p2)
			buf.Array(Position1).GetVector3(3*(i+1), &p1)
			assert.Equal(t, p2, p1)
		}
		assert.Equal(t, radii, []float32(buf.Array(Radius)))
	}
}

func TestCylinderPairs(t *testing.T) {
	b, _ := testBuilder()
	pos, clr, pts := line(6)
	buf, err := b.CylinderPairs(pos, clr, []float32{1, 2, 3}, nil, Pick{IDs: picking.Sequence(10, 6), Creator: picking.NewCreator[point]("point", pts)})
	require.NoError(t, err)
	assert.Equal(t, 3, buf.Count())
	require.NoError(t, buf.Validate())

	var p1, p2 math32.Vector3
	buf.Array(Position1).GetVector3(3, &p1)
	buf.Array(Position2).GetVector3(3, &p2)
	assert.Equal(t, pos[2], p1)
	assert.Equal(t, pos[3], p2)

	require.NotNil(t, buf.Picking)
	assert.Equal(t, []uint32{10, 12, 14}, buf.Picking.IDs())
}

func TestCylinderSingle(t *testing.T) {
	b, _ := testBuilder()
	buf, err := b.Cylinder(math32.Vec3(0, 0, 0), math32.Vec3(0, 2, 0), math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0), 0.5, nil, Pick{})
	require.NoError(t, err)
	assert.Equal(t, 1, buf.Count())
	assert.Equal(t, []float32{0, 1, 0}, []float32(buf.Array(Color2)))
}

func TestCylinderGeometry(t *testing.T) {
	b, _ := testBuilder()
	pos, clr, _ := line(3)
	radii := []float32{0.5, 0.5}
	segs := 6

	capped, err := b.CylinderStrip(pos, clr, radii, &CylinderParams{DisableImpostor: true, RadialSegments: segs}, Pick{})
	require.NoError(t, err)
	assert.False(t, capped.Impostor)
	require.NotNil(t, capped.Mesh)
	require.NoError(t, capped.Validate())

	open, err := b.CylinderStrip(pos, clr, radii, &CylinderParams{OpenEnded: true, DisableImpostor: true, RadialSegments: segs}, Pick{})
	require.NoError(t, err)
	require.NoError(t, open.Validate())

	// side: 2 rings of segs+1 vertices, 2*segs triangles per cylinder
	assert.Equal(t, 2*2*(segs+1), open.Mesh.NumVertex())
	assert.Equal(t, 2*2*segs, open.Mesh.NumTriangle())
	// caps: 2 disks of segs+2 vertices, segs triangles each
	assert.Equal(t, open.Mesh.NumVertex()+2*2*(segs+2), capped.Mesh.NumVertex())
	assert.Equal(t, open.Mesh.NumTriangle()+2*2*segs, capped.Mesh.NumTriangle())

	// side vertices lie at the radius from the axis
	var v math32.Vector3
	for i := range 2 * (segs + 1) {
		open.Mesh.Position.GetVector3(3*i, &v)
		assert.InDelta(t, 0.5, math32.Sqrt(v.Y*v.Y+v.Z*v.Z), 1e-5)
	}
	assert.Equal(t, uint32(0), open.Mesh.Slot[0])
	assert.Equal(t, uint32(1), open.Mesh.Slot[len(open.Mesh.Slot)-1])

	_, err = b.CylinderStrip(pos, clr, radii, &CylinderParams{DisableImpostor: true, RadialSegments: 2}, Pick{})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestCylinderStripFromArraysMismatch(t *testing.T) {
	b, lb := testBuilder()
	pos := math32.ArrayF32{0, 0, 0, 1, 0, 0, 2, 0, 0, 3, 0, 0}
	clr := math32.ArrayF32{1, 1, 1, 1, 1, 1, 1, 1, 1}
	buf, err := b.CylinderStripFromArrays(pos, clr, []float32{1, 1, 1}, nil, Pick{})
	require.NoError(t, err)
	assert.Contains(t, lb.String(), "same length")
	assert.Equal(t, 2, buf.Count())
	require.NoError(t, buf.Validate())
}

func TestEmptyInputs(t *testing.T) {
	b, _ := testBuilder()
	buf, err := b.CylinderStrip(nil, nil, nil, nil, Pick{})
	require.NoError(t, err)
	assert.Equal(t, 0, buf.Count())
	require.NoError(t, buf.Validate())

	buf, err = b.CylinderStrip([]math32.Vector3{{}}, []math32.Vector3{{}}, nil, nil, Pick{IDs: []uint32{}, Creator: picking.NewCreator[point]("point", points{})})
	require.NoError(t, err)
	assert.Equal(t, 0, buf.Count())

	tb, err := b.TubeUniform(nil, 1, math32.Vec3(1, 1, 1), 2, nil, Pick{})
	require.NoError(t, err)
	assert.Equal(t, 0, tb.Count())
	assert.Equal(t, 0, tb.Mesh.NumVertex())

	sb, err := b.Spheres(nil, nil, nil, nil, Pick{})
	require.NoError(t, err)
	assert.Equal(t, 0, sb.Count())
}

func TestWideLines(t *testing.T) {
	b, _ := testBuilder()
	pos, clr, pts := line(5)
	buf, err := b.WideLineStrip(pos, clr, nil, Pick{IDs: picking.Sequence(0, 5), Creator: picking.NewCreator[point]("point", pts)})
	require.NoError(t, err)
	assert.Equal(t, 4, buf.Count())
	assert.Equal(t, float32(2), buf.Params.(*LineParams).LineWidth)
	assert.Equal(t, []uint32{0, 1, 2, 3}, buf.Picking.IDs())
	require.NoError(t, buf.Validate())

	pb, err := b.WideLinePairs(pos, clr, &LineParams{LineWidth: 4}, Pick{})
	require.NoError(t, err)
	assert.Equal(t, 2, pb.Count())
	assert.Equal(t, float32(4), pb.Params.(*LineParams).LineWidth)

	sb, err := b.WideLine(pos[0], pos[1], clr[0], clr[1], nil, Pick{})
	require.NoError(t, err)
	assert.Equal(t, 1, sb.Count())
	_, hasRadius := sb.Arrays[Radius]
	assert.False(t, hasRadius)
}

func TestSpheres(t *testing.T) {
	b, _ := testBuilder()
	pos, clr, pts := line(4)
	radii := []float32{1, 1, 1, 1}
	pk := Pick{IDs: []uint32{3, 2, 1, 0}, Creator: picking.NewCreator[point]("point", pts)}
	buf, err := b.Spheres(pos, clr, radii, nil, pk)
	require.NoError(t, err)
	assert.Equal(t, 4, buf.Count())
	assert.True(t, buf.Impostor)
	require.NoError(t, buf.Validate())
	p, err := buf.Picking.Position(0)
	require.NoError(t, err)
	assert.Equal(t, pos[3], p)

	segs := 4
	mb, err := b.Spheres(pos, clr, radii, &SphereParams{DisableImpostor: true, Segments: segs}, pk)
	require.NoError(t, err)
	require.NoError(t, mb.Validate())
	assert.Equal(t, 4*(segs+1)*(segs+1), mb.Mesh.NumVertex())
	assert.Equal(t, 4*(2*segs*segs-2*segs), mb.Mesh.NumTriangle())
	var v math32.Vector3
	for i := range mb.Mesh.NumVertex() {
		mb.Mesh.Position.GetVector3(3*i, &v)
		c := pos[mb.Mesh.Slot[i]]
		assert.InDelta(t, 1, v.DistanceTo(c), 1e-5)
	}
}

func TestTubeAndRibbon(t *testing.T) {
	b, _ := testBuilder()
	pos := []math32.Vector3{{0, 0, 0}, {0, 1, 0}, {1, 2, 0}, {2, 2, 1}}
	_, _, pts := line(4)
	pk := Pick{IDs: []uint32{0, 1, 2, 3}, Creator: picking.NewCreator[point]("point", pts)}
	k := 2
	ns := 3 * (k + 2)

	tb, err := b.TubeUniform(pos, 0.3, math32.Vec3(1, 1, 1), k, &TubeParams{RadialSegments: 5, Capped: true}, pk)
	require.NoError(t, err)
	assert.Equal(t, ns, tb.Count())
	require.NoError(t, tb.Validate())
	assert.Equal(t, 5, tb.Params.(*TubeParams).RadialSegments)
	assert.True(t, tb.Params.(*TubeParams).Capped)
	require.NotNil(t, tb.Picking)
	assert.Equal(t, ns, tb.Picking.Len())
	id, _ := tb.Picking.ID(0)
	assert.Equal(t, uint32(0), id)
	id, _ = tb.Picking.ID(ns - 1)
	assert.Equal(t, uint32(3), id)
	// rings plus two caps
	assert.Equal(t, ns*6+2*7, tb.Mesh.NumVertex())

	rb, err := b.RibbonUniform(pos, 0.3, math32.Vec3(1, 1, 1), k, pk)
	require.NoError(t, err)
	assert.Equal(t, ns, rb.Count())
	require.NoError(t, rb.Validate())
	assert.Equal(t, tb.Array(Binormal), rb.Array(Normal))
	assert.Equal(t, tb.Array(Normal), rb.Array(Dir))
	assert.Equal(t, 2*ns, rb.Mesh.NumVertex())
	assert.Equal(t, 2*(ns-1), rb.Mesh.NumTriangle())
}

func TestTubeSizesFollowPath(t *testing.T) {
	b, _ := testBuilder()
	pos := []math32.Vector3{{0, 0, 0}, {0, 1, 0}}
	buf, err := b.Tube(pos, []float32{1, 3}, []math32.Vector3{{0, 0, 0}, {1, 1, 1}}, 0, nil, Pick{})
	require.NoError(t, err)
	// size0*t + size1*(1-t) at t = 0 and t = 1
	assert.Equal(t, []float32{3, 1}, []float32(buf.Array(Size)))
	assert.Equal(t, []float32{0, 0, 0, 1, 1, 1}, []float32(buf.Array(Color)))
}

func TestTubeUncapped(t *testing.T) {
	b, _ := testBuilder()
	pos := []math32.Vector3{{0, 0, 0}, {0, 1, 0}, {1, 2, 0}}
	capped, err := b.TubeUniform(pos, 0.3, math32.Vec3(1, 1, 1), 1, nil, Pick{})
	require.NoError(t, err)
	open, err := b.TubeUniform(pos, 0.3, math32.Vec3(1, 1, 1), 1, &TubeParams{RadialSegments: 8, AspectRatio: 1}, Pick{})
	require.NoError(t, err)
	assert.False(t, open.Params.(*TubeParams).Capped)
	assert.True(t, b.Defaults.Tube.Capped)
	// each cap is a fan of 8 triangles
	assert.Equal(t, capped.Mesh.NumTriangle()-2*8, open.Mesh.NumTriangle())
	require.NoError(t, open.Validate())
}

func TestBufferLifecycle(t *testing.T) {
	b, _ := testBuilder()
	pos, clr, _ := line(3)
	buf, err := b.CylinderStrip(pos, clr, []float32{1, 1}, nil, Pick{})
	require.NoError(t, err)

	cl := buf.Clone()
	assert.True(t, cl.Equal(buf))
	cl.Array(Radius)[0] = 5
	assert.Equal(t, float32(1), buf.Array(Radius)[0])
	assert.False(t, cl.Equal(buf))

	buf.Dispose()
	assert.True(t, buf.Disposed())
	assert.NotPanics(t, buf.Dispose)
	assert.Error(t, buf.Validate())
	assert.Equal(t, 0, buf.Count())

	var nb *Buffer
	assert.NotPanics(t, nb.Dispose)
}

func TestLayout(t *testing.T) {
	b, _ := testBuilder()
	pos, clr, _ := line(3)
	buf, err := b.CylinderStrip(pos, clr, []float32{1, 1}, nil, Pick{})
	require.NoError(t, err)
	ls := buf.Layout()
	require.Len(t, ls, len(Cylinder.Roles()))
	for i, l := range ls {
		assert.Equal(t, gputypes.VertexStepModeInstance, l.StepMode)
		require.Len(t, l.Attributes, 1)
		assert.Equal(t, uint32(i), l.Attributes[0].ShaderLocation)
	}
	assert.Equal(t, uint64(12), ls[0].ArrayStride)
	assert.Equal(t, gputypes.VertexFormatFloat32, ls[4].Attributes[0].Format)
	assert.Equal(t, uint64(4), ls[4].ArrayStride)

	mb, err := b.CylinderStrip(pos, clr, []float32{1, 1}, &CylinderParams{DisableImpostor: true}, Pick{})
	require.NoError(t, err)
	ml := mb.Layout()
	require.Len(t, ml, 3)
	assert.Equal(t, gputypes.VertexStepModeVertex, ml[0].StepMode)
}

// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buffer

import (
	"github.com/gogpu/gputypes"
)

// Mesh roles, in layout order.
var meshRoles = []Role{Position, Normal, Color}

// format returns the vertex format of one element of the role.
func (r Role) format() gputypes.VertexFormat {
	if r.Stride() == 1 {
		return gputypes.VertexFormatFloat32
	}
	return gputypes.VertexFormatFloat32x3
}

// roleLayout returns a non-interleaved layout for one role array,
// bound at the given shader location.
func roleLayout(r Role, loc uint32, step gputypes.VertexStepMode) gputypes.VertexBufferLayout {
	f := r.format()
	return gputypes.VertexBufferLayout{
		ArrayStride: f.Size(),
		StepMode:    step,
		Attributes: []gputypes.VertexAttribute{
			{Format: f, Offset: 0, ShaderLocation: loc},
		},
	}
}

// Layout returns one vertex buffer layout per packed array, in the order
// of [Kind.Roles] (or position, normal, color for meshes). Impostor and
// line buffers step once per instance; meshes step once per vertex.
// Shader locations are assigned in order starting at 0.
func (b *Buffer) Layout() []gputypes.VertexBufferLayout {
	if b.Mesh != nil {
		ls := make([]gputypes.VertexBufferLayout, len(meshRoles))
		for i, r := range meshRoles {
			ls[i] = roleLayout(r, uint32(i), gputypes.VertexStepModeVertex)
		}
		return ls
	}
	step := gputypes.VertexStepModeInstance
	if b.Kind == Tube || b.Kind == Ribbon {
		step = gputypes.VertexStepModeVertex
	}
	roles := b.Kind.Roles()
	ls := make([]gputypes.VertexBufferLayout, len(roles))
	for i, r := range roles {
		ls[i] = roleLayout(r, uint32(i), step)
	}
	return ls
}

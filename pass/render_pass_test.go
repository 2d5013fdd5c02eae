// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

func TestRenderPassDefaults(t *testing.T) {
	p := NewRenderPass(&testScene{}, nil)
	assert.True(t, p.Clear)
	assert.False(t, p.ClearDepth)
	assert.False(t, p.NeedsSwap)
	assert.True(t, p.Enabled)

	p = NewRenderPass(&testScene{}, nil, WithClearDepth())
	assert.False(t, p.Clear)
	assert.True(t, p.ClearDepth)
}

func TestRenderPassDrawsIntoRead(t *testing.T) {
	dev := render.NewSoftwareDevice(4, 4)
	read := newTarget(t, dev, 4, 4)
	write := newTarget(t, dev, 4, 4)
	fill(read, shader.Vec4{0, 0, 1, 1})

	scn := &testScene{meshes: []*render.Mesh{solidMesh(t, rect(-1, -1, 0, 1), shader.Vec4{1, 0, 0, 1})}}
	p := NewRenderPass(scn, nil, WithClearColor(shader.Vec4{0, 1, 0, 0.5}))

	before := dev.State()
	require.NoError(t, p.Render(dev, write, read, 0, false))

	assert.Equal(t, shader.Vec4{1, 0, 0, 1}, read.At(0, 0), "mesh")
	assert.Equal(t, shader.Vec4{0, 1, 0, 0.5}, read.At(3, 0), "clear color")
	assert.Equal(t, shader.Vec4{}, write.At(0, 0), "write untouched")
	assert.Equal(t, before, dev.State(), "state restored")
}

func TestRenderPassNoClear(t *testing.T) {
	dev := render.NewSoftwareDevice(4, 4)
	read := newTarget(t, dev, 4, 4)
	fill(read, shader.Vec4{0, 0, 1, 1})

	scn := &testScene{meshes: []*render.Mesh{solidMesh(t, rect(-1, -1, 0, 1), shader.Vec4{1, 0, 0, 1})}}
	p := NewRenderPass(scn, nil)
	p.Clear = false
	require.NoError(t, p.Render(dev, nil, read, 0, false))

	assert.Equal(t, shader.Vec4{0, 0, 1, 1}, read.At(3, 0))
}

func TestRenderPassToScreen(t *testing.T) {
	dev := render.NewSoftwareDevice(4, 4)
	scn := &testScene{meshes: []*render.Mesh{solidMesh(t, rect(-1, -1, 1, 1), shader.Vec4{1, 1, 0, 1})}}
	p := NewRenderPass(scn, nil)
	p.RenderToScreen = true

	require.NoError(t, p.Render(dev, nil, nil, 0, false))
	assert.Equal(t, shader.Vec4{1, 1, 0, 1}, dev.Screen().At(1, 1))
}

func TestRenderPassOverrideRestored(t *testing.T) {
	dev := render.NewSoftwareDevice(4, 4)
	read := newTarget(t, dev, 4, 4)

	original, err := shader.NewBasicMaterial(shader.Vec4{0, 0, 0, 1}, nil)
	require.NoError(t, err)
	override, err := shader.NewBasicMaterial(shader.Vec4{1, 1, 1, 1}, nil)
	require.NoError(t, err)

	scn := &testScene{
		meshes:   []*render.Mesh{solidMesh(t, rect(-1, -1, 1, 1), shader.Vec4{1, 0, 0, 1})},
		override: original,
	}
	p := NewRenderPass(scn, nil, WithOverrideMaterial(override))
	require.NoError(t, p.Render(dev, nil, read, 0, false))

	assert.Equal(t, shader.Vec4{1, 1, 1, 1}, read.At(2, 2))
	assert.Same(t, original, scn.OverrideMaterial())
}

func TestRenderPassErrorRestoresState(t *testing.T) {
	dev := render.NewSoftwareDevice(4, 4)
	read := newTarget(t, dev, 4, 4)
	s := dev.State().StencilFunc(gputypes.CompareFunctionEqual, 1)
	dev.SetState(s)

	scn := &testScene{meshes: []*render.Mesh{{Geometry: rect(-1, -1, 1, 1)}}}
	p := NewRenderPass(scn, nil, WithClearColor(shader.Vec4{1, 1, 1, 1}))

	err := p.Render(dev, nil, read, 0, false)
	require.ErrorIs(t, err, postfx.ErrNilMaterial)
	assert.Contains(t, err.Error(), "pass render")
	assert.Equal(t, s, dev.State())

	assert.ErrorIs(t, p.Render(dev, nil, nil, 0, false), postfx.ErrInvalidBuffer)
}

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

func TestMaskPassWritesBothBuffers(t *testing.T) {
	dev := render.NewSoftwareDevice(4, 4)
	read := newTarget(t, dev, 4, 4)
	write := newTarget(t, dev, 4, 4)
	fill(read, shader.Vec4{0.5, 0.5, 0.5, 1})

	scn := &testScene{meshes: []*render.Mesh{solidMesh(t, rect(-1, -1, 0, 1), shader.Vec4{1, 0, 0, 1})}}
	p := NewMaskPass(scn, nil)
	assert.False(t, p.NeedsSwap)

	require.NoError(t, p.Render(dev, write, read, 0, false))

	for _, tg := range []*render.SoftwareTarget{read, write} {
		assert.Equal(t, uint8(1), tg.StencilAt(0, 0))
		assert.Equal(t, uint8(1), tg.StencilAt(1, 3))
		assert.Equal(t, uint8(0), tg.StencilAt(3, 0))
	}
	assert.Equal(t, shader.Vec4{0.5, 0.5, 0.5, 1}, read.At(0, 0), "color must not be written")

	s := dev.State()
	assert.True(t, s.Stencil.Test)
	assert.Equal(t, gputypes.CompareFunctionEqual, s.Stencil.Compare)
	assert.Equal(t, uint32(1), s.Stencil.Ref)
	assert.Equal(t, gputypes.StencilOperationKeep, s.Stencil.PassOp)
	assert.True(t, s.ColorWrite)
	assert.True(t, s.DepthWrite)
	assert.True(t, s.AutoClear)
}

func TestMaskPassInverse(t *testing.T) {
	dev := render.NewSoftwareDevice(4, 4)
	read := newTarget(t, dev, 4, 4)
	write := newTarget(t, dev, 4, 4)

	scn := &testScene{meshes: []*render.Mesh{solidMesh(t, rect(-1, -1, 0, 1), shader.Vec4{1, 0, 0, 1})}}
	p := NewMaskPass(scn, nil)
	p.Inverse = true
	require.NoError(t, p.Render(dev, write, read, 0, false))

	assert.Equal(t, uint8(0), write.StencilAt(0, 0))
	assert.Equal(t, uint8(1), write.StencilAt(3, 0))
	assert.Equal(t, uint8(0), dev.State().ClearStencil)
}

func TestMaskPassRequiresBuffers(t *testing.T) {
	dev := render.NewSoftwareDevice(4, 4)
	p := NewMaskPass(&testScene{}, nil)
	assert.ErrorIs(t, p.Render(dev, nil, newTarget(t, dev, 4, 4), 0, false), postfx.ErrInvalidBuffer)
}

func TestClearMaskPass(t *testing.T) {
	dev := render.NewSoftwareDevice(4, 4)
	dev.SetState(dev.State().StencilFunc(gputypes.CompareFunctionEqual, 1))

	p := NewClearMaskPass()
	assert.False(t, p.NeedsSwap)
	require.NoError(t, p.Render(dev, nil, nil, 0, true))
	assert.False(t, dev.State().Stencil.Test)
}

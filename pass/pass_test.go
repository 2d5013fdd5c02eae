// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

func TestBaseDefaults(t *testing.T) {
	b := NewBase("custom", RoleNormal)
	assert.True(t, b.Enabled)
	assert.True(t, b.NeedsSwap)
	assert.False(t, b.Clear)
	assert.False(t, b.RenderToScreen)
	assert.Equal(t, "custom", b.Name())
	assert.Same(t, &b, b.Flags())
}

func TestRoles(t *testing.T) {
	assert.Equal(t, RoleMaskBegin, NewMaskPass(&testScene{}, nil).Flags().Role())
	assert.Equal(t, RoleMaskEnd, NewClearMaskPass().Flags().Role())
	assert.Equal(t, RoleNormal, NewRenderPass(&testScene{}, nil).Flags().Role())
	assert.Equal(t, "mask-begin", RoleMaskBegin.String())
	assert.Equal(t, "Role(9)", Role(9).String())
}

func TestFullscreenQuad(t *testing.T) {
	dev := render.NewSoftwareDevice(8, 4)
	m, err := shader.NewBasicMaterial(shader.Vec4{1, 0, 0, 1}, nil)
	require.NoError(t, err)

	q1, q2 := NewFullscreenQuad(m), NewFullscreenQuad(nil)
	assert.Same(t, q1.geometry, q2.geometry, "geometry must be shared")

	require.NoError(t, q1.Render(dev))
	assert.Equal(t, 1, dev.DrawCalls())
	for y := range 4 {
		for x := range 8 {
			require.Equal(t, shader.Vec4{1, 0, 0, 1}, dev.Screen().At(x, y))
		}
	}

	assert.ErrorIs(t, q2.Render(dev), postfx.ErrNilMaterial)
	assert.ErrorIs(t, q1.Render(nil), postfx.ErrInvalidBuffer)

	q1.Dispose()
	q1.Dispose()
	assert.ErrorIs(t, q1.Render(dev), postfx.ErrDisposed)
	assert.NotNil(t, sharedQuad(), "dispose must not free the shared geometry")
}

func TestShaderPassMissingUniform(t *testing.T) {
	_, err := NewShaderPass(shader.Copy(), "colorTexture")
	assert.ErrorIs(t, err, postfx.ErrMissingUniform)

	_, err = NewShaderPass(shader.Basic(), "")
	assert.ErrorIs(t, err, postfx.ErrMissingUniform)

	_, err = NewShaderPassFromMaterial(nil, "")
	assert.ErrorIs(t, err, postfx.ErrNilMaterial)
}

func TestShaderPassUniformsAreCopies(t *testing.T) {
	s := shader.Copy()
	p, err := NewShaderPass(s, "")
	require.NoError(t, err)
	require.NoError(t, p.Uniforms().SetFloat("opacity", 0.25))

	assert.Equal(t, float32(1), s.Uniforms.Float("opacity"))

	other, err := NewShaderPass(s, "")
	require.NoError(t, err)
	assert.Equal(t, float32(1), other.Uniforms().Float("opacity"))
}

func TestShaderPassRender(t *testing.T) {
	dev := render.NewSoftwareDevice(6, 4)
	read := newTarget(t, dev, 6, 4)
	write := newTarget(t, dev, 6, 4)
	fill(read, shader.Vec4{0.8, 0.4, 0.2, 1})

	p, err := NewShaderPass(shader.Copy(), "")
	require.NoError(t, err)
	require.NoError(t, p.Uniforms().SetFloat("opacity", 0.5))

	require.NoError(t, p.Render(dev, write, read, 0, false))
	assert.Equal(t, shader.Vec4{0.4, 0.2, 0.1, 1}, write.At(2, 2))
	assert.Same(t, read.Texture(), p.Uniforms().Texture(DefaultTextureID))

	p.RenderToScreen = true
	require.NoError(t, p.Render(dev, write, read, 0, false))
	assert.Equal(t, shader.Vec4{0.4, 0.2, 0.1, 1}, dev.Screen().At(5, 3))

	assert.ErrorIs(t, p.Render(dev, write, nil, 0, false), postfx.ErrInvalidBuffer)
	assert.ErrorIs(t, p.Render(nil, write, read, 0, false), postfx.ErrInvalidBuffer)
}

func TestShaderPassDisposeWithoutRender(t *testing.T) {
	p, err := NewShaderPass(shader.Copy(), "")
	require.NoError(t, err)
	m := p.Material()

	assert.NotPanics(t, func() {
		p.Dispose()
		p.Dispose()
	})
	assert.True(t, m.Disposed())

	dev := render.NewSoftwareDevice(2, 2)
	assert.ErrorIs(t, p.Render(dev, newTarget(t, dev, 2, 2), newTarget(t, dev, 2, 2), 0, false), postfx.ErrDisposed)
}

func TestShaderPassFromMaterial(t *testing.T) {
	dev := render.NewSoftwareDevice(2, 2)
	m, err := shader.NewBasicMaterial(shader.Vec4{0, 1, 0, 1}, nil)
	require.NoError(t, err)

	p, err := NewShaderPassFromMaterial(m, "")
	require.NoError(t, err)
	assert.Same(t, m, p.Material())

	write := newTarget(t, dev, 2, 2)
	require.NoError(t, p.Render(dev, write, nil, 0, false), "no texture uniform, so no read buffer needed")
	assert.Equal(t, shader.Vec4{0, 1, 0, 1}, write.At(0, 0))
}

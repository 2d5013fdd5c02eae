// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"fmt"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

// DefaultTextureID is the uniform the read buffer is bound to by default.
const DefaultTextureID = "tDiffuse"

// ShaderPass draws one full-screen shader sampling the read buffer.
type ShaderPass struct {
	Base

	textureID string
	material  *shader.Material
	quad      *FullscreenQuad
}

// NewShaderPass returns a pass running s. The read buffer is bound to the
// texture uniform textureID ("" selects DefaultTextureID), which s must
// declare. The pass owns a private material with a deep copy of s's
// default uniforms.
func NewShaderPass(s *shader.Shader, textureID string) (*ShaderPass, error) {
	if s == nil {
		return nil, fmt.Errorf("pass shader: nil shader")
	}
	if textureID == "" {
		textureID = DefaultTextureID
	}
	if !s.HasTexture(textureID) {
		return nil, fmt.Errorf("pass shader(%s): texture %q: %w", s.Name, textureID, postfx.ErrMissingUniform)
	}
	m, err := shader.NewMaterial(s)
	if err != nil {
		return nil, fmt.Errorf("pass shader(%s): %w", s.Name, err)
	}
	m.DepthTest = false
	m.DepthWrite = false
	return newShaderPass(m, textureID), nil
}

// NewShaderPassFromMaterial returns a pass drawing m with its uniforms used
// as they are. When m declares textureID ("" selects DefaultTextureID) the
// read buffer is bound to it.
func NewShaderPassFromMaterial(m *shader.Material, textureID string) (*ShaderPass, error) {
	if m == nil {
		return nil, fmt.Errorf("pass shader: %w", postfx.ErrNilMaterial)
	}
	if textureID == "" {
		textureID = DefaultTextureID
	}
	return newShaderPass(m, textureID), nil
}

func newShaderPass(m *shader.Material, textureID string) *ShaderPass {
	return &ShaderPass{
		Base:      NewBase("shader("+m.Name+")", RoleNormal),
		textureID: textureID,
		material:  m,
		quad:      NewFullscreenQuad(m),
	}
}

// Material returns the pass material.
func (p *ShaderPass) Material() *shader.Material { return p.material }

// Uniforms returns the pass material's uniforms.
func (p *ShaderPass) Uniforms() *shader.Uniforms { return p.material.Uniforms }

// TextureID returns the uniform the read buffer is bound to.
func (p *ShaderPass) TextureID() string { return p.textureID }

// SetSize is a no-op: ShaderPass owns no targets.
func (p *ShaderPass) SetSize(int, int) error { return nil }

// Render draws the shader over the destination.
func (p *ShaderPass) Render(dev render.Device, write, read render.RenderTarget, _ float64, _ bool) error {
	if err := p.check(dev); err != nil {
		return err
	}
	if p.material == nil {
		return p.errorf("%w", postfx.ErrDisposed)
	}
	if p.material.Uniforms.Has(p.textureID, shader.KindTexture) {
		if read == nil {
			return p.errorf("%w: nil read buffer", postfx.ErrInvalidBuffer)
		}
		if err := p.material.Uniforms.SetTexture(p.textureID, read.Texture()); err != nil {
			return p.errorf("%w", err)
		}
	}
	if err := p.output(dev, write); err != nil {
		return err
	}
	if p.Clear {
		if err := dev.Clear(true, true, true); err != nil {
			return p.errorf("%w", err)
		}
	}
	if err := p.quad.Render(dev); err != nil {
		return p.errorf("%w", err)
	}
	return nil
}

// Dispose releases the material and the quad. Safe without a prior Render.
func (p *ShaderPass) Dispose() {
	if p.material != nil {
		p.material.Dispose()
		p.material = nil
	}
	if p.quad != nil {
		p.quad.Dispose()
		p.quad = nil
	}
}

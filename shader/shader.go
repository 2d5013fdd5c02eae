// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"fmt"

	"github.com/gogpu/postfx"
)

// Fragment computes the color of one fragment from its interpolated uv.
type Fragment func(uv Vec2) Vec4

// Program prepares a Fragment for a material. It runs once per draw, so
// uniform lookups belong here rather than in the returned Fragment.
type Program func(m *Material) (Fragment, error)

// Shader is a shader definition. It is never drawn directly: materials are
// created from it with NewMaterial and own a deep copy of its uniforms.
type Shader struct {
	Name string

	// Uniforms holds the default values, in GPU layout order.
	Uniforms *Uniforms

	// Source is WGSL with entry points vs_main and fs_main.
	Source string

	// Program is the CPU implementation of fs_main.
	Program Program
}

// HasTexture reports whether the shader declares a texture uniform named name.
func (s *Shader) HasTexture(name string) bool {
	return s != nil && s.Uniforms != nil && s.Uniforms.Has(name, KindTexture)
}

// Material is an instance of a Shader with private uniform values and the
// fixed-function state used to draw it.
type Material struct {
	Name     string
	Shader   *Shader
	Uniforms *Uniforms

	Blending    Blending
	DepthTest   bool
	DepthWrite  bool
	Transparent bool

	disposed  bool
	onDispose []func()
}

// NewMaterial instantiates s. The material's uniforms are a deep copy of
// the shader defaults.
func NewMaterial(s *Shader) (*Material, error) {
	if s == nil {
		return nil, fmt.Errorf("shader: nil shader")
	}
	uniforms := NewUniforms()
	if s.Uniforms != nil {
		var err error
		if uniforms, err = s.Uniforms.Clone(); err != nil {
			return nil, fmt.Errorf("material %s: %w", s.Name, err)
		}
	}
	return &Material{
		Name:       s.Name,
		Shader:     s,
		Uniforms:   uniforms,
		DepthTest:  true,
		DepthWrite: true,
	}, nil
}

// Fragment prepares the material's CPU fragment program for one draw.
func (m *Material) Fragment() (Fragment, error) {
	if m.disposed {
		return nil, fmt.Errorf("material %s: %w", m.Name, postfx.ErrDisposed)
	}
	if m.Shader == nil || m.Shader.Program == nil {
		return nil, fmt.Errorf("material %s: shader has no CPU program", m.Name)
	}
	return m.Shader.Program(m)
}

// OnDispose registers fn to run when the material is disposed. Devices use
// it to release pipelines and bind groups cached for the material.
func (m *Material) OnDispose(fn func()) {
	m.onDispose = append(m.onDispose, fn)
}

// Dispose releases the material. Texture handles are unbound; the textures
// themselves belong to whoever allocated them. Calling Dispose again is a
// no-op.
func (m *Material) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	for _, u := range m.Uniforms.Textures() {
		u.Texture = nil
	}
	hooks := m.onDispose
	m.onDispose = nil
	for _, fn := range hooks {
		fn()
	}
}

// Disposed reports whether Dispose has been called.
func (m *Material) Disposed() bool { return m.disposed }

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/postfx"
)

// Compile compiles WGSL source to SPIR-V words.
func Compile(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// ResourceKind classifies a reflected resource binding.
type ResourceKind uint8

const (
	ResourceOther ResourceKind = iota
	ResourceUniformBuffer
	ResourceTexture
	ResourceSampler
)

// Resource is a global resource declared by a WGSL module.
type Resource struct {
	Name    string
	Group   uint32
	Binding uint32
	Kind    ResourceKind
}

// Reflect parses WGSL source and lists its bound global resources.
func Reflect(source string) ([]Resource, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, err
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, err
	}

	var out []Resource
	for _, gv := range module.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		r := Resource{Name: gv.Name, Group: gv.Binding.Group, Binding: gv.Binding.Binding}
		switch {
		case gv.Space == ir.SpaceUniform:
			r.Kind = ResourceUniformBuffer
		case int(gv.Type) < len(module.Types):
			switch module.Types[gv.Type].Inner.(type) {
			case ir.ImageType:
				r.Kind = ResourceTexture
			case ir.SamplerType:
				r.Kind = ResourceSampler
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// Validate checks that the shader's WGSL declares each texture uniform, and
// its sampler, at the bindings the uniform layout assigns them.
func Validate(s *Shader) error {
	if s == nil || s.Uniforms == nil {
		return fmt.Errorf("shader: nil shader")
	}
	resources, err := Reflect(s.Source)
	if err != nil {
		return fmt.Errorf("shader %s: %w", s.Name, err)
	}
	byName := make(map[string]Resource, len(resources))
	for _, r := range resources {
		byName[r.Name] = r
	}
	for i, u := range s.Uniforms.Textures() {
		texBinding, samplerBinding := TextureBindings(i)
		tex, ok := byName[u.Name]
		if !ok || tex.Kind != ResourceTexture {
			return fmt.Errorf("shader %s: %w: WGSL has no texture %q", s.Name, postfx.ErrMissingUniform, u.Name)
		}
		if tex.Group != 0 || tex.Binding != texBinding {
			return fmt.Errorf("shader %s: texture %q at @group(%d) @binding(%d), want @group(0) @binding(%d)",
				s.Name, u.Name, tex.Group, tex.Binding, texBinding)
		}
		smp, ok := byName[u.Name+"_sampler"]
		if !ok || smp.Kind != ResourceSampler || smp.Binding != samplerBinding {
			return fmt.Errorf("shader %s: sampler %q must be at @binding(%d)", s.Name, u.Name+"_sampler", samplerBinding)
		}
	}
	return nil
}

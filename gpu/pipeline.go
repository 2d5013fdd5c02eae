// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

// vertexStride is the byte stride per vertex: clip position (vec4<f32>)
// followed by uv (vec2<f32>) = 24 bytes.
const vertexStride = 24

// Shader entry points.
const (
	vertexEntry   = "vs_main"
	fragmentEntry = "fs_main"
)

// program holds the per-shader GPU objects shared by all its pipelines.
type program struct {
	module     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	textures   int
}

func (p *program) destroy(device hal.Device) {
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
	}
	if p.bindLayout != nil {
		device.DestroyBindGroupLayout(p.bindLayout)
	}
	if p.module != nil {
		device.DestroyShaderModule(p.module)
	}
}

// program returns the cached program of s, compiling it on first use.
func (d *Device) program(s *shader.Shader) (*program, error) {
	if p, ok := d.programs[s]; ok {
		return p, nil
	}
	if err := shader.Validate(s); err != nil {
		return nil, err
	}

	p := &program{textures: len(s.Uniforms.Textures())}
	var err error
	p.module, err = d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  s.Name,
		Source: hal.ShaderSource{WGSL: s.Source},
	})
	if err != nil {
		return nil, fmt.Errorf("compile shader %s: %w", s.Name, err)
	}

	p.bindLayout, err = d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   s.Name + "_layout",
		Entries: layoutEntries(p.textures),
	})
	if err != nil {
		p.destroy(d.device)
		return nil, fmt.Errorf("create bind group layout %s: %w", s.Name, err)
	}

	p.pipeLayout, err = d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            s.Name + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		p.destroy(d.device)
		return nil, fmt.Errorf("create pipeline layout %s: %w", s.Name, err)
	}

	d.programs[s] = p
	postfx.Logger().Debug("gpu: compiled shader", "shader", s.Name, "textures", p.textures)
	return p, nil
}

// layoutEntries lists the group 0 bindings of a shader with n textures:
// the uniform buffer, then a texture and sampler pair per texture.
func layoutEntries(n int) []gputypes.BindGroupLayoutEntry {
	visibility := gputypes.ShaderStageVertex | gputypes.ShaderStageFragment
	entries := make([]gputypes.BindGroupLayoutEntry, 0, 1+2*n)
	entries = append(entries, gputypes.BindGroupLayoutEntry{
		Binding:    shader.UniformBinding,
		Visibility: visibility,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	})
	for i := range n {
		tex, smp := shader.TextureBindings(i)
		entries = append(entries,
			gputypes.BindGroupLayoutEntry{
				Binding:    tex,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			gputypes.BindGroupLayoutEntry{
				Binding:    smp,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		)
	}
	return entries
}

// pipelineKey identifies a render pipeline: everything fixed at pipeline
// creation that a draw may vary. The stencil reference is dynamic and is
// always zero here.
type pipelineKey struct {
	shader       *shader.Shader
	format       gputypes.TextureFormat
	depthStencil bool
	blending     shader.Blending
	depthTest    bool
	depthWrite   bool
	colorWrite   bool
	stencil      render.StencilState
}

// pipelineKey combines the material, the global state and the target
// attachments into the effective pipeline state.
func (d *Device) pipelineKey(m *shader.Material, t *Target) pipelineKey {
	key := pipelineKey{
		shader:       m.Shader,
		format:       t.opts.Format,
		depthStencil: t.HasDepthStencil(),
		blending:     m.Blending,
		colorWrite:   d.state.ColorWrite,
	}
	if key.depthStencil {
		key.depthTest = m.DepthTest
		key.depthWrite = m.DepthWrite && d.state.DepthWrite
		if d.state.Stencil.Test {
			key.stencil = d.state.Stencil
			key.stencil.Ref = 0
		}
	}
	return key
}

// pipeline returns the cached pipeline for key, creating it on first use.
func (d *Device) pipeline(p *program, key pipelineKey) (hal.RenderPipeline, error) {
	if rp, ok := d.pipelines[key]; ok {
		return rp, nil
	}

	writeMask := gputypes.ColorWriteMaskAll
	if !key.colorWrite {
		writeMask = gputypes.ColorWriteMaskNone
	}
	desc := &hal.RenderPipelineDescriptor{
		Label:  key.shader.Name + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.module,
			EntryPoint: vertexEntry,
			Buffers: []gputypes.VertexBufferLayout{{
				ArrayStride: vertexStride,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes: []gputypes.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
					{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 1},
				},
			}},
		},
		Fragment: &hal.FragmentState{
			Module:     p.module,
			EntryPoint: fragmentEntry,
			Targets: []gputypes.ColorTargetState{{
				Format:    key.format,
				Blend:     key.blending.State(),
				WriteMask: writeMask,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.DefaultMultisampleState(),
	}
	if key.depthStencil {
		desc.DepthStencil = depthStencilState(key)
	}

	rp, err := d.device.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("create pipeline %s: %w", key.shader.Name, err)
	}
	d.pipelines[key] = rp
	postfx.Logger().Debug("gpu: created pipeline",
		"shader", key.shader.Name, "format", key.format, "blending", key.blending,
		"stencil", key.stencil.Test, "pipelines", len(d.pipelines))
	return rp, nil
}

func depthStencilState(key pipelineKey) *hal.DepthStencilState {
	compare := gputypes.CompareFunctionAlways
	if key.depthTest {
		compare = gputypes.CompareFunctionLessEqual
	}
	ds := &hal.DepthStencilState{
		Format:            depthStencilFormat,
		DepthWriteEnabled: key.depthWrite,
		DepthCompare:      compare,
	}
	face := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	if s := key.stencil; s.Test {
		face = hal.StencilFaceState{
			Compare:     s.Compare,
			FailOp:      stencilOp(s.FailOp),
			DepthFailOp: stencilOp(s.DepthFailOp),
			PassOp:      stencilOp(s.PassOp),
		}
		ds.StencilReadMask = s.ReadMask
		ds.StencilWriteMask = s.WriteMask
	}
	ds.StencilFront = face
	ds.StencilBack = face
	return ds
}

// stencilOp maps a gputypes stencil operation to its HAL value.
func stencilOp(op gputypes.StencilOperation) hal.StencilOperation {
	switch op {
	case gputypes.StencilOperationZero:
		return hal.StencilOperationZero
	case gputypes.StencilOperationReplace:
		return hal.StencilOperationReplace
	case gputypes.StencilOperationInvert:
		return hal.StencilOperationInvert
	case gputypes.StencilOperationIncrementClamp:
		return hal.StencilOperationIncrementClamp
	case gputypes.StencilOperationDecrementClamp:
		return hal.StencilOperationDecrementClamp
	case gputypes.StencilOperationIncrementWrap:
		return hal.StencilOperationIncrementWrap
	case gputypes.StencilOperationDecrementWrap:
		return hal.StencilOperationDecrementWrap
	default:
		return hal.StencilOperationKeep
	}
}

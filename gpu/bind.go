// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

// uniformBuffer is a material's uniform buffer, rewritten before each draw.
type uniformBuffer struct {
	buffer hal.Buffer
	size   int
	data   []byte
}

// upload is a CPU texture copied to the GPU.
type upload struct {
	texture hal.Texture
	view    hal.TextureView
}

// uniformBuffer returns m's uniform buffer holding its current values.
// The buffer lives until the material is disposed or outgrows it.
func (d *Device) uniformBuffer(m *shader.Material) (hal.Buffer, error) {
	size := m.Uniforms.BufferSize()
	ub, ok := d.uniforms[m]
	if ok && ub.size != size {
		old := ub.buffer
		d.retire(func() { d.device.DestroyBuffer(old) })
		ok = false
	}
	if !ok {
		buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
			Label: m.Name + "_uniforms",
			Size:  uint64(size),
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("create uniform buffer %s: %w", m.Name, err)
		}
		if ub == nil {
			m.OnDispose(func() { d.releaseUniforms(m) })
		}
		ub = &uniformBuffer{buffer: buf, size: size}
		d.uniforms[m] = ub
	}
	ub.data = m.Uniforms.Pack(ub.data[:0])
	if err := d.queue.WriteBuffer(ub.buffer, 0, ub.data); err != nil {
		return nil, fmt.Errorf("write uniforms %s: %w", m.Name, err)
	}
	return ub.buffer, nil
}

func (d *Device) releaseUniforms(m *shader.Material) {
	ub, ok := d.uniforms[m]
	if !ok {
		return
	}
	delete(d.uniforms, m)
	d.retire(func() { d.device.DestroyBuffer(ub.buffer) })
}

// bindGroup creates the group 0 bind group of one draw of m into t.
func (d *Device) bindGroup(p *program, m *shader.Material, t *Target) (hal.BindGroup, error) {
	ubuf, err := d.uniformBuffer(m)
	if err != nil {
		return nil, err
	}
	textures := m.Uniforms.Textures()
	if len(textures) != p.textures {
		return nil, fmt.Errorf("material %s: %d texture uniforms, shader declares %d", m.Name, len(textures), p.textures)
	}

	entries := make([]gputypes.BindGroupEntry, 0, 1+2*len(textures))
	entries = append(entries, gputypes.BindGroupEntry{
		Binding:  shader.UniformBinding,
		Resource: gputypes.BufferBinding{Buffer: ubuf.NativeHandle(), Size: uint64(m.Uniforms.BufferSize())},
	})
	for i, u := range textures {
		view, err := d.textureView(u, t)
		if err != nil {
			return nil, fmt.Errorf("material %s: %w", m.Name, err)
		}
		tex, smp := shader.TextureBindings(i)
		entries = append(entries,
			gputypes.BindGroupEntry{Binding: tex, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			gputypes.BindGroupEntry{Binding: smp, Resource: gputypes.SamplerBinding{Sampler: d.sampler.NativeHandle()}},
		)
	}

	group, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   m.Name + "_bind_group",
		Layout:  p.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group %s: %w", m.Name, err)
	}
	return group, nil
}

// textureView resolves a texture uniform to a view. Unbound uniforms sample
// the fallback texel; CPU textures are uploaded on first use.
func (d *Device) textureView(u *shader.Uniform, bound *Target) (hal.TextureView, error) {
	switch tex := u.Texture.(type) {
	case nil:
		return d.fallbackView, nil
	case *Target:
		if tex.disposed || tex.owner != d {
			return nil, fmt.Errorf("texture %q: target %q: %w", u.Name, tex.opts.Label, postfx.ErrDisposed)
		}
		if tex == bound {
			return nil, fmt.Errorf("texture %q: target %q is also the render target", u.Name, tex.opts.Label)
		}
		return tex.colorView, nil
	case shader.Sampler:
		return d.upload(tex)
	default:
		postfx.Logger().Debug("gpu: texture is neither a GPU target nor CPU readable", "uniform", u.Name, "type", fmt.Sprintf("%T", tex))
		return d.fallbackView, nil
	}
}

// upload copies a CPU texture to an RGBA8 GPU texture, once per texture.
// Textures must be comparable, which pointer implementations are.
func (d *Device) upload(s shader.Sampler) (hal.TextureView, error) {
	if u, ok := d.uploads[s]; ok {
		return u.view, nil
	}
	w, h := s.Width(), s.Height()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("upload %dx%d texture: %w", w, h, postfx.ErrInvalidSize)
	}

	data := make([]byte, 0, w*h*4)
	for y := range h {
		for x := range w {
			c := s.Sample(shader.Vec2{(float32(x) + 0.5) / float32(w), (float32(y) + 0.5) / float32(h)})
			data = append(data, unorm8(c[0]), unorm8(c[1]), unorm8(c[2]), unorm8(c[3]))
		}
	}

	label := fmt.Sprintf("upload_%dx%d", w, h)
	tex, view, err := d.createTexture(label, w, h, gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
	if err != nil {
		return nil, err
	}
	if err := d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, Aspect: gputypes.TextureAspectAll},
		data,
		&hal.ImageDataLayout{BytesPerRow: uint32(4 * w), RowsPerImage: uint32(h)},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	); err != nil {
		d.device.DestroyTextureView(view)
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("upload %s: %w", label, err)
	}
	d.uploads[s] = &upload{texture: tex, view: view}
	postfx.Logger().Debug("gpu: uploaded CPU texture", "width", w, "height", h)
	return view, nil
}

// Invalidate drops the GPU copy of a CPU texture so the next draw uploads
// its current content.
func (d *Device) Invalidate(tex shader.Texture) {
	u, ok := d.uploads[tex]
	if !ok {
		return
	}
	delete(d.uploads, tex)
	d.retire(func() {
		d.device.DestroyTextureView(u.view)
		d.device.DestroyTexture(u.texture)
	})
}

func unorm8(v float32) uint8 {
	return uint8(math32.Round(math32.Min(math32.Max(v, 0), 1) * 255))
}

// vertexBuffer projects g with cam and uploads the interleaved vertices.
func (d *Device) vertexBuffer(g *render.Geometry, cam render.Camera) (hal.Buffer, error) {
	data := make([]byte, 0, len(g.Vertices)*vertexStride)
	for _, v := range g.Vertices {
		p := render.ClipPosition(cam, v)
		for _, f := range p {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(f))
		}
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v.UV[0]))
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v.UV[1]))
	}
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: g.Label + "_vertices",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create vertex buffer: %w", err)
	}
	if err := d.queue.WriteBuffer(buf, 0, data); err != nil {
		d.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("write vertex buffer: %w", err)
	}
	return buf, nil
}

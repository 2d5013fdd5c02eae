// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/render"
)

// copyRowAlignment is the row pitch alignment of texture-to-buffer copies.
const copyRowAlignment = 256

// ReadPixels copies the color attachment of t back to the CPU and waits for
// the GPU. A nil target reads the screen. Rows are tightly packed, top row
// first, in the target's format.
func (d *Device) ReadPixels(t render.RenderTarget) ([]byte, error) {
	if d.closed {
		return nil, fmt.Errorf("gpu: %w", postfx.ErrDisposed)
	}
	target := d.screen
	if t != nil {
		gt, ok := t.(*Target)
		if !ok {
			return nil, fmt.Errorf("gpu: %w: %T is not a GPU target", postfx.ErrInvalidBuffer, t)
		}
		if gt.disposed || gt.owner != d {
			return nil, fmt.Errorf("gpu: read target %q: %w", gt.opts.Label, postfx.ErrDisposed)
		}
		target = gt
	}
	bpp := bytesPerPixel(target.opts.Format)
	if bpp == 0 {
		return nil, fmt.Errorf("gpu: read target %q: unsupported format %v", target.opts.Label, target.opts.Format)
	}

	w, h := target.width, target.height
	rowBytes := w * bpp
	pitch := (rowBytes + copyRowAlignment - 1) / copyRowAlignment * copyRowAlignment
	size := uint64(pitch * h)

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: target.opts.Label + "_readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create readback buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	enc, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "readback"})
	if err != nil {
		return nil, fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := enc.BeginEncoding("readback"); err != nil {
		enc.Destroy()
		return nil, fmt.Errorf("gpu: begin encoding: %w", err)
	}
	enc.TransitionTextures([]hal.TextureBarrier{{
		Texture: target.color,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	enc.CopyTextureToBuffer(target.color, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{BytesPerRow: uint32(pitch), RowsPerImage: uint32(h)},
		TextureBase:  hal.ImageCopyTexture{Texture: target.color, Aspect: gputypes.TextureAspectAll},
		Size:         hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	}})
	enc.TransitionTextures([]hal.TextureBarrier{{
		Texture: target.color,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	if err := d.submit(enc, nil); err != nil {
		return nil, err
	}
	if err := d.device.WaitIdle(); err != nil {
		return nil, fmt.Errorf("gpu: wait for readback: %w", err)
	}
	d.collect()

	mapping, err := d.device.MapBuffer(staging, 0, size)
	if err != nil {
		return nil, fmt.Errorf("gpu: map readback buffer: %w", err)
	}
	src := unsafe.Slice((*byte)(mapping.Ptr), size)
	out := make([]byte, rowBytes*h)
	for y := range h {
		copy(out[y*rowBytes:(y+1)*rowBytes], src[y*pitch:])
	}
	if err := d.device.UnmapBuffer(staging); err != nil {
		postfx.Logger().Warn("gpu: unmap readback buffer", "err", err)
	}
	return out, nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

// depthStencilFormat is the format of every depth/stencil attachment.
const depthStencilFormat = gputypes.TextureFormatDepth24PlusStencil8

// Target is a GPU render target. Its color attachment is sampleable: Texture
// returns the target itself, and binding it to a texture uniform binds the
// color view.
type Target struct {
	width, height int
	opts          render.TargetOptions

	color     hal.Texture
	colorView hal.TextureView
	depth     hal.Texture
	depthView hal.TextureView

	owner    *Device
	screen   bool
	disposed bool
}

// Width returns the target width in pixels.
func (t *Target) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *Target) Height() int { return t.height }

// Format returns the color format.
func (t *Target) Format() gputypes.TextureFormat { return t.opts.Format }

// Options returns the allocation options.
func (t *Target) Options() render.TargetOptions { return t.opts }

// Texture returns t.
func (t *Target) Texture() shader.Texture { return t }

// Label returns the debug label.
func (t *Target) Label() string { return t.opts.Label }

// HasDepthStencil reports whether the target has a depth/stencil attachment.
func (t *Target) HasDepthStencil() bool { return t.depthView != nil }

// Disposed reports whether Dispose has been called.
func (t *Target) Disposed() bool { return t.disposed }

// Dispose releases the GPU textures once the queue is done with them.
// The screen target belongs to its device and ignores Dispose.
func (t *Target) Dispose() {
	if t.disposed || t.screen {
		return
	}
	t.disposed = true
	if t.owner != nil {
		t.owner.live--
		t.owner.releaseTarget(t)
	}
}

// newTarget allocates the textures of a target. On error nothing is leaked.
func (d *Device) newTarget(width, height int, opts render.TargetOptions) (*Target, error) {
	t := &Target{width: width, height: height, opts: opts, owner: d}

	var err error
	t.color, t.colorView, err = d.createTexture(opts.Label+".color", width, height, opts.Format,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopySrc)
	if err != nil {
		return nil, err
	}
	if opts.DepthStencil {
		t.depth, t.depthView, err = d.createTexture(opts.Label+".depth", width, height, depthStencilFormat,
			gputypes.TextureUsageRenderAttachment)
		if err != nil {
			d.device.DestroyTextureView(t.colorView)
			d.device.DestroyTexture(t.color)
			return nil, err
		}
	}
	return t, nil
}

// createTexture creates a 2D texture and its default view.
func (d *Device) createTexture(label string, width, height int, format gputypes.TextureFormat, usage gputypes.TextureUsage) (hal.Texture, hal.TextureView, error) {
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("gpu: create texture %q: %w", label, err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           label + ".view",
		Format:          format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("gpu: create texture view %q: %w", label, err)
	}
	return tex, view, nil
}

// releaseTarget schedules t's textures for destruction after the last
// submission that may reference them.
func (d *Device) releaseTarget(t *Target) {
	color, colorView, depth, depthView := t.color, t.colorView, t.depth, t.depthView
	t.color, t.colorView, t.depth, t.depthView = nil, nil, nil, nil
	d.retire(func() {
		if depthView != nil {
			d.device.DestroyTextureView(depthView)
			d.device.DestroyTexture(depth)
		}
		d.device.DestroyTextureView(colorView)
		d.device.DestroyTexture(color)
	})
}

// bytesPerPixel returns the texel size of the color formats postfx
// allocates, or 0 for others.
func bytesPerPixel(f gputypes.TextureFormat) int {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb, gputypes.TextureFormatBGRA8Unorm:
		return 4
	case gputypes.TextureFormatRGBA16Float:
		return 8
	case gputypes.TextureFormatRGBA32Float:
		return 16
	default:
		return 0
	}
}

var _ render.RenderTarget = (*Target)(nil)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package composer

import (
	"time"

	"github.com/gogpu/postfx/render"
)

// Option configures an EffectComposer.
type Option func(*options)

type options struct {
	target         render.RenderTarget
	width, height  int
	pixelRatio     float64
	renderToScreen bool
	clock          func() time.Time
	targetOpts     []render.TargetOption
}

func defaultOptions(dev render.Device) options {
	w, h := dev.Size()
	return options{
		width:          w,
		height:         h,
		pixelRatio:     dev.PixelRatio(),
		renderToScreen: true,
		clock:          time.Now,
	}
}

// WithRenderTarget uses t as the first buffer and a clone of it as the
// second. The logical size becomes t's size with a pixel ratio of 1.
// The composer takes ownership of t.
func WithRenderTarget(t render.RenderTarget) Option {
	return func(o *options) {
		o.target = t
	}
}

// WithSize sets the logical size. Default: the device size.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width, o.height = width, height
	}
}

// WithPixelRatio sets the pixel ratio. Default: the device ratio.
func WithPixelRatio(r float64) Option {
	return func(o *options) {
		o.pixelRatio = r
	}
}

// WithRenderToScreen controls whether the last enabled pass draws to the
// screen. Default: true. With false the final image stays in ReadBuffer.
func WithRenderToScreen(enabled bool) Option {
	return func(o *options) {
		o.renderToScreen = enabled
	}
}

// WithClock sets the time source used when Render is called with dt == 0.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithTargetOptions sets the allocation options of the ping-pong buffers.
func WithTargetOptions(opts ...render.TargetOption) Option {
	return func(o *options) {
		o.targetOpts = opts
	}
}

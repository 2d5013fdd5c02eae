// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/postfx/shader"
)

// RenderTarget is an off-screen color buffer, usually with a depth/stencil
// attachment. It is owned by whoever allocated it and must be released with
// Dispose when superseded.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the color format.
	Format() gputypes.TextureFormat

	// Options returns the options the target was allocated with, so that a
	// replacement of another size can be allocated alike.
	Options() TargetOptions

	// Texture returns the color attachment as a sampleable texture.
	Texture() shader.Texture

	// Dispose releases the target. Calling it again is a no-op.
	Dispose()
}

// TargetOptions describes a render target allocation.
type TargetOptions struct {
	// Label is an optional debug label.
	Label string

	// Format is the color format. Default: RGBA16Float, matching the
	// half-float buffers post-processing expects for values above 1.
	Format gputypes.TextureFormat

	// DepthStencil attaches a Depth24PlusStencil8 buffer. Default: true.
	DepthStencil bool
}

// TargetOption configures a render target allocation.
type TargetOption func(*TargetOptions)

// DefaultTargetOptions returns the options used when none are given.
func DefaultTargetOptions() TargetOptions {
	return TargetOptions{
		Format:       gputypes.TextureFormatRGBA16Float,
		DepthStencil: true,
	}
}

// NewTargetOptions applies opts over DefaultTargetOptions.
func NewTargetOptions(opts ...TargetOption) TargetOptions {
	o := DefaultTargetOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLabel sets the target's debug label.
func WithLabel(label string) TargetOption {
	return func(o *TargetOptions) {
		o.Label = label
	}
}

// WithFormat sets the color format.
func WithFormat(f gputypes.TextureFormat) TargetOption {
	return func(o *TargetOptions) {
		o.Format = f
	}
}

// WithDepthStencil enables or disables the depth/stencil attachment.
func WithDepthStencil(enabled bool) TargetOption {
	return func(o *TargetOptions) {
		o.DepthStencil = enabled
	}
}

// WithOptions copies every field of o, typically from another target's
// Options.
func WithOptions(o TargetOptions) TargetOption {
	return func(dst *TargetOptions) {
		*dst = o
	}
}

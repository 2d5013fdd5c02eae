// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import "github.com/gogpu/gputypes"

// config holds the Device options.
type config struct {
	width, height int
	pixelRatio    float64
	screenFormat  gputypes.TextureFormat
	limits        gputypes.Limits
	maxPixels     int
	label         string
}

func defaultConfig() config {
	return config{
		width:        1,
		height:       1,
		pixelRatio:   1,
		screenFormat: gputypes.TextureFormatRGBA8Unorm,
		limits:       gputypes.DefaultLimits(),
		label:        "postfx",
	}
}

// Option configures a Device.
type Option func(*config)

// WithSize sets the logical screen size. Default: 1x1.
func WithSize(width, height int) Option {
	return func(c *config) {
		c.width, c.height = max(width, 1), max(height, 1)
	}
}

// WithPixelRatio sets the physical-to-logical pixel ratio. Non-positive
// values are ignored.
func WithPixelRatio(r float64) Option {
	return func(c *config) {
		if r > 0 {
			c.pixelRatio = r
		}
	}
}

// WithScreenFormat sets the color format of the headless screen target.
// Default: RGBA8Unorm.
func WithScreenFormat(f gputypes.TextureFormat) Option {
	return func(c *config) {
		c.screenFormat = f
	}
}

// WithLimits sets the device limits target allocations are checked
// against. Default: gputypes.DefaultLimits.
func WithLimits(l gputypes.Limits) Option {
	return func(c *config) {
		c.limits = l
	}
}

// WithMaxTargetPixels limits the pixel count of a single render target.
// Zero means no limit beyond the texture dimension limit.
func WithMaxTargetPixels(n int) Option {
	return func(c *config) {
		c.maxPixels = n
	}
}

// WithLabel sets the prefix of the device's debug labels.
func WithLabel(label string) Option {
	return func(c *config) {
		c.label = label
	}
}

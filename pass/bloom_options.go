// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import "github.com/gogpu/postfx/shader"

// Bloom defaults.
const (
	DefaultBloomStrength    = 1.0
	DefaultBloomRadius      = 0.0
	DefaultBloomThreshold   = 0.0
	DefaultBloomSmoothWidth = 0.01
)

// bloomKernelRadii are the blur kernel radii of the cascade levels.
var bloomKernelRadii = [shader.MaxBloomLevels]int{3, 5, 7, 9, 11}

// bloomConfig holds BloomPass construction parameters.
type bloomConfig struct {
	strength    float32
	radius      float32
	threshold   float32
	smoothWidth float32
	levels      int

	clearColor shader.Vec3
	clearAlpha float32

	brightColor   shader.Vec3
	brightOpacity float32

	factors []float32
	tints   []shader.Vec3
}

func defaultBloomConfig() bloomConfig {
	return bloomConfig{
		strength:    DefaultBloomStrength,
		radius:      DefaultBloomRadius,
		threshold:   DefaultBloomThreshold,
		smoothWidth: DefaultBloomSmoothWidth,
		levels:      shader.MaxBloomLevels,
	}
}

// BloomOption configures a BloomPass.
//
// Example:
//
//	bloom, err := pass.NewBloomPass(dev, 800, 600,
//	    pass.WithStrength(1.5),
//	    pass.WithRadius(0.4),
//	    pass.WithThreshold(0.85),
//	)
type BloomOption func(*bloomConfig)

// WithStrength scales the composited bloom.
func WithStrength(s float32) BloomOption {
	return func(c *bloomConfig) {
		c.strength = s
	}
}

// WithRadius moves level weights toward their mirror image: 0 favors the
// sharp levels, 1 the wide ones.
func WithRadius(r float32) BloomOption {
	return func(c *bloomConfig) {
		c.radius = r
	}
}

// WithThreshold sets the luminance above which pixels bloom.
func WithThreshold(t float32) BloomOption {
	return func(c *bloomConfig) {
		c.threshold = t
	}
}

// WithSmoothWidth sets the half width of the soft threshold band.
func WithSmoothWidth(w float32) BloomOption {
	return func(c *bloomConfig) {
		c.smoothWidth = w
	}
}

// WithLevels sets the number of blur levels, clamped to
// [1, shader.MaxBloomLevels].
func WithLevels(n int) BloomOption {
	return func(c *bloomConfig) {
		c.levels = max(1, min(n, shader.MaxBloomLevels))
	}
}

// WithBloomClearColor sets the color internal targets are cleared to.
func WithBloomClearColor(rgb shader.Vec3, alpha float32) BloomOption {
	return func(c *bloomConfig) {
		c.clearColor = rgb
		c.clearAlpha = alpha
	}
}

// WithBrightDefault sets the color written by the bright pass below the
// threshold.
func WithBrightDefault(rgb shader.Vec3, opacity float32) BloomOption {
	return func(c *bloomConfig) {
		c.brightColor = rgb
		c.brightOpacity = opacity
	}
}

// WithBloomFactors overrides the per-level weights. Missing levels keep
// their defaults.
func WithBloomFactors(f ...float32) BloomOption {
	return func(c *bloomConfig) {
		c.factors = f
	}
}

// WithTintColors overrides the per-level tints. Missing levels stay white.
func WithTintColors(t ...shader.Vec3) BloomOption {
	return func(c *bloomConfig) {
		c.tints = t
	}
}

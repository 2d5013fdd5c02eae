// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import "github.com/chewxy/math32"

// Vec2 is a two-component float32 vector.
type Vec2 [2]float32

// Vec3 is a three-component float32 vector, used for RGB colors.
type Vec3 [3]float32

// Vec4 is a four-component float32 vector, used for RGBA colors.
type Vec4 [4]float32

// RGB returns the color components of v.
func (v Vec4) RGB() Vec3 { return Vec3{v[0], v[1], v[2]} }

// Scale returns v with every component multiplied by s.
func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{v[0] * s, v[1] * s, v[2] * s, v[3] * s}
}

// Add returns the component-wise sum of v and o.
func (v Vec4) Add(o Vec4) Vec4 {
	return Vec4{v[0] + o[0], v[1] + o[1], v[2] + o[2], v[3] + o[3]}
}

// Luminance returns the NTSC luma of an RGB color.
func Luminance(c Vec3) float32 {
	return 0.299*c[0] + 0.587*c[1] + 0.114*c[2]
}

// Smoothstep performs Hermite interpolation between 0 and 1 when e0 < x < e1.
func Smoothstep(e0, e1, x float32) float32 {
	t := Clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

// Mix linearly interpolates between a and b.
// Evaluated as a*(1-t) + b*t so that t=1 yields b exactly when a is zero.
func Mix(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

// MixVec4 applies Mix component-wise.
func MixVec4(a, b Vec4, t float32) Vec4 {
	return Vec4{Mix(a[0], b[0], t), Mix(a[1], b[1], t), Mix(a[2], b[2], t), Mix(a[3], b[3], t)}
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, x))
}

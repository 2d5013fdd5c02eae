// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import "github.com/gogpu/gputypes"

// Texture is a sampleable image handle bound to a texture uniform.
// Render targets expose their color attachment as a Texture.
type Texture interface {
	Width() int
	Height() int
	Format() gputypes.TextureFormat
}

// Sampler is implemented by textures readable on the CPU.
// Sample filters bilinearly with clamp-to-edge addressing; uv (0,0) is the
// top-left corner of the image.
type Sampler interface {
	Texture
	Sample(uv Vec2) Vec4
}

// Sample reads tex at uv. Textures that are not CPU-readable, and nil
// textures, sample as transparent black.
func Sample(tex Texture, uv Vec2) Vec4 {
	if s, ok := tex.(Sampler); ok && s != nil {
		return s.Sample(uv)
	}
	return Vec4{}
}

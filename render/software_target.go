// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/postfx/shader"
)

// texelSnap is the distance from a texel center within which sampling
// returns the texel exactly. Same-size copies through a full-screen quad
// are then lossless.
const texelSnap = 1.0 / 1024

// SoftwareTarget is a CPU render target. Color is stored as float32 RGBA
// whatever the declared format, so values above 1 survive like they do in
// half-float GPU targets.
//
// A SoftwareTarget is its own texture: Texture returns the target itself,
// which implements shader.Sampler.
type SoftwareTarget struct {
	width, height int
	opts          TargetOptions

	color   []float32
	depth   []float32
	stencil []uint8

	owner    *SoftwareDevice
	disposed bool
}

func newSoftwareTarget(width, height int, opts TargetOptions) *SoftwareTarget {
	t := &SoftwareTarget{
		width:  width,
		height: height,
		opts:   opts,
		color:  make([]float32, width*height*4),
	}
	if opts.DepthStencil {
		t.depth = make([]float32, width*height)
		t.stencil = make([]uint8, width*height)
		for i := range t.depth {
			t.depth[i] = 1
		}
	}
	return t
}

// NewImageTarget loads img into a standalone target without depth/stencil.
// It belongs to no device and serves as a CPU texture, for sprites or
// lookup tables, on any device.
func NewImageTarget(img image.Image, opts ...TargetOption) *SoftwareTarget {
	b := img.Bounds()
	o := NewTargetOptions(append([]TargetOption{WithFormat(gputypes.TextureFormatRGBA8Unorm)}, opts...)...)
	o.DepthStencil = false
	t := newSoftwareTarget(max(b.Dx(), 1), max(b.Dy(), 1), o)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			t.Set(x-b.Min.X, y-b.Min.Y, shader.Vec4{
				float32(c.R) / 255,
				float32(c.G) / 255,
				float32(c.B) / 255,
				float32(c.A) / 255,
			})
		}
	}
	return t
}

// Width returns the target width in pixels.
func (t *SoftwareTarget) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *SoftwareTarget) Height() int { return t.height }

// Format returns the declared color format.
func (t *SoftwareTarget) Format() gputypes.TextureFormat { return t.opts.Format }

// Options returns the allocation options.
func (t *SoftwareTarget) Options() TargetOptions { return t.opts }

// Texture returns t.
func (t *SoftwareTarget) Texture() shader.Texture { return t }

// Label returns the debug label.
func (t *SoftwareTarget) Label() string { return t.opts.Label }

// Disposed reports whether Dispose has been called.
func (t *SoftwareTarget) Disposed() bool { return t.disposed }

// Dispose releases the pixel buffers.
func (t *SoftwareTarget) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	t.color, t.depth, t.stencil = nil, nil, nil
	if t.owner != nil {
		t.owner.live--
	}
}

// At returns the color of pixel (x, y). Out-of-range or disposed reads
// return transparent black.
func (t *SoftwareTarget) At(x, y int) shader.Vec4 {
	if t.disposed || x < 0 || y < 0 || x >= t.width || y >= t.height {
		return shader.Vec4{}
	}
	i := (y*t.width + x) * 4
	return shader.Vec4{t.color[i], t.color[i+1], t.color[i+2], t.color[i+3]}
}

// Set writes the color of pixel (x, y).
func (t *SoftwareTarget) Set(x, y int, c shader.Vec4) {
	if t.disposed || x < 0 || y < 0 || x >= t.width || y >= t.height {
		return
	}
	i := (y*t.width + x) * 4
	copy(t.color[i:i+4], c[:])
}

// StencilAt returns the stencil value of pixel (x, y), 0 without a
// stencil buffer.
func (t *SoftwareTarget) StencilAt(x, y int) uint8 {
	if t.stencil == nil || x < 0 || y < 0 || x >= t.width || y >= t.height {
		return 0
	}
	return t.stencil[y*t.width+x]
}

// Sample filters bilinearly with clamp-to-edge addressing.
func (t *SoftwareTarget) Sample(uv shader.Vec2) shader.Vec4 {
	if t.disposed || t.width == 0 || t.height == 0 {
		return shader.Vec4{}
	}
	x0, fx := texelCoord(uv[0], t.width)
	y0, fy := texelCoord(uv[1], t.height)

	x1, y1 := clampIndex(x0+1, t.width), clampIndex(y0+1, t.height)
	x0, y0 = clampIndex(x0, t.width), clampIndex(y0, t.height)

	top := lerp4(t.at(x0, y0), t.at(x1, y0), fx)
	if fy == 0 {
		return top
	}
	bottom := lerp4(t.at(x0, y1), t.at(x1, y1), fy)
	return lerp4(top, bottom, fy)
}

func (t *SoftwareTarget) at(x, y int) shader.Vec4 {
	i := (y*t.width + x) * 4
	return shader.Vec4{t.color[i], t.color[i+1], t.color[i+2], t.color[i+3]}
}

// texelCoord maps a normalized coordinate to the lower texel index and the
// fractional weight of the next texel, snapping near texel centers.
func texelCoord(u float32, size int) (int, float32) {
	x := u*float32(size) - 0.5
	xf := math32.Floor(x)
	f := x - xf
	i := int(xf)
	switch {
	case f < texelSnap:
		f = 0
	case f > 1-texelSnap:
		f = 0
		i++
	}
	return i, f
}

func clampIndex(i, size int) int {
	return max(0, min(i, size-1))
}

// lerp4 evaluates a + (b-a)*f so that equal inputs, or f=0, return a
// exactly.
func lerp4(a, b shader.Vec4, f float32) shader.Vec4 {
	if f == 0 {
		return a
	}
	return shader.Vec4{
		a[0] + (b[0]-a[0])*f,
		a[1] + (b[1]-a[1])*f,
		a[2] + (b[2]-a[2])*f,
		a[3] + (b[3]-a[3])*f,
	}
}

// Image converts the target to 8-bit non-premultiplied RGBA, clamping each
// channel to [0, 1].
func (t *SoftwareTarget) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.width, t.height))
	if t.disposed {
		return img
	}
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			c := t.at(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: toByte(c[0]),
				G: toByte(c[1]),
				B: toByte(c[2]),
				A: toByte(c[3]),
			})
		}
	}
	return img
}

func toByte(v float32) uint8 {
	return uint8(shader.Clamp(v, 0, 1)*255 + 0.5)
}

// Ensure SoftwareTarget implements RenderTarget and shader.Sampler.
var (
	_ RenderTarget   = (*SoftwareTarget)(nil)
	_ shader.Sampler = (*SoftwareTarget)(nil)
)

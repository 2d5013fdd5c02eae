// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"math"

	"github.com/gogpu/postfx"
)

// SoftwareDevice is a CPU Device.
//
// It rasterizes triangle lists with a deterministic fill rule, samples
// textures bilinearly and implements the blend, depth and stencil state
// postfx uses. It is the reference device for tests and headless rendering:
// output is bit-for-bit reproducible.
//
// Example:
//
//	dev := render.NewSoftwareDevice(800, 600)
//	// ... run a composer against dev ...
//	img := dev.Screen().Image()
type SoftwareDevice struct {
	width, height int
	pixelRatio    float64
	maxPixels     int

	screen *SoftwareTarget
	target RenderTarget
	state  State

	drawCalls int
	live      int
}

// SoftwareOption configures a SoftwareDevice.
type SoftwareOption func(*SoftwareDevice)

// WithPixelRatio sets the physical-to-logical pixel ratio. The screen is
// allocated at the logical size times the ratio.
func WithPixelRatio(r float64) SoftwareOption {
	return func(d *SoftwareDevice) {
		if r > 0 {
			d.pixelRatio = r
		}
	}
}

// WithMaxTargetPixels limits the pixel count of a single render target.
// Larger allocations fail. Zero means no limit.
func WithMaxTargetPixels(n int) SoftwareOption {
	return func(d *SoftwareDevice) {
		d.maxPixels = n
	}
}

// NewSoftwareDevice creates a device whose screen has the given logical size.
func NewSoftwareDevice(width, height int, opts ...SoftwareOption) *SoftwareDevice {
	d := &SoftwareDevice{
		width:      max(width, 1),
		height:     max(height, 1),
		pixelRatio: 1,
		state:      DefaultState(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.allocateScreen()
	return d
}

func (d *SoftwareDevice) allocateScreen() {
	w, h := d.physical()
	d.screen = newSoftwareTarget(w, h, NewTargetOptions(WithLabel("screen")))
}

func (d *SoftwareDevice) physical() (int, int) {
	w := max(1, int(math.Round(float64(d.width)*d.pixelRatio)))
	h := max(1, int(math.Round(float64(d.height)*d.pixelRatio)))
	return w, h
}

// Screen returns the screen framebuffer. It is replaced by SetSize and
// SetPixelRatio.
func (d *SoftwareDevice) Screen() *SoftwareTarget { return d.screen }

// SetSize changes the logical screen size and reallocates the screen.
func (d *SoftwareDevice) SetSize(width, height int) {
	d.width, d.height = max(width, 1), max(height, 1)
	d.allocateScreen()
}

// SetPixelRatio changes the pixel ratio and reallocates the screen.
func (d *SoftwareDevice) SetPixelRatio(r float64) {
	if r <= 0 {
		return
	}
	d.pixelRatio = r
	d.allocateScreen()
}

// Size returns the logical screen size.
func (d *SoftwareDevice) Size() (int, int) { return d.width, d.height }

// PixelRatio returns the physical-to-logical pixel ratio.
func (d *SoftwareDevice) PixelRatio() float64 { return d.pixelRatio }

// DrawCalls returns the number of Draw calls issued so far.
func (d *SoftwareDevice) DrawCalls() int { return d.drawCalls }

// LiveTargets returns the number of targets allocated by NewRenderTarget
// and not yet disposed.
func (d *SoftwareDevice) LiveTargets() int { return d.live }

// SetRenderTarget binds t; nil binds the screen.
func (d *SoftwareDevice) SetRenderTarget(t RenderTarget) { d.target = t }

// RenderTarget returns the bound target, nil for the screen.
func (d *SoftwareDevice) RenderTarget() RenderTarget { return d.target }

// State returns a snapshot of the render state.
func (d *SoftwareDevice) State() State { return d.state }

// SetState replaces the render state.
func (d *SoftwareDevice) SetState(s State) { d.state = s }

// NewRenderTarget allocates a CPU render target.
func (d *SoftwareDevice) NewRenderTarget(width, height int, opts ...TargetOption) (RenderTarget, error) {
	o := NewTargetOptions(opts...)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: target %q %dx%d: %w", o.Label, width, height, postfx.ErrInvalidSize)
	}
	if d.maxPixels > 0 && width*height > d.maxPixels {
		return nil, fmt.Errorf("render: target %q %dx%d exceeds the %d pixel limit", o.Label, width, height, d.maxPixels)
	}
	t := newSoftwareTarget(width, height, o)
	t.owner = d
	d.live++
	postfx.Logger().Debug("render: allocated target", "label", o.Label, "width", width, "height", height)
	return t, nil
}

// bound resolves the bound target to a software target.
func (d *SoftwareDevice) bound() (*SoftwareTarget, error) {
	if d.target == nil {
		return d.screen, nil
	}
	t, ok := d.target.(*SoftwareTarget)
	if !ok {
		return nil, fmt.Errorf("render: %w: %T is not a software target", postfx.ErrInvalidBuffer, d.target)
	}
	if t.disposed {
		return nil, fmt.Errorf("render: target %q: %w", t.opts.Label, postfx.ErrDisposed)
	}
	return t, nil
}

// Clear clears the bound target.
func (d *SoftwareDevice) Clear(color, depth, stencil bool) error {
	t, err := d.bound()
	if err != nil {
		return err
	}
	if color {
		c := d.state.ClearColor
		a := d.state.ClearAlpha
		for i := 0; i < len(t.color); i += 4 {
			t.color[i], t.color[i+1], t.color[i+2], t.color[i+3] = c[0], c[1], c[2], a
		}
	}
	if depth {
		for i := range t.depth {
			t.depth[i] = 1
		}
	}
	if stencil {
		v := d.state.ClearStencil
		for i := range t.stencil {
			t.stencil[i] = v
		}
	}
	return nil
}

// Draw rasterizes one mesh into the bound target.
func (d *SoftwareDevice) Draw(m *Mesh, cam Camera) error {
	if err := CheckMesh(m); err != nil {
		return err
	}
	t, err := d.bound()
	if err != nil {
		return err
	}
	frag, err := m.Material.Fragment()
	if err != nil {
		return fmt.Errorf("render: draw %q: %w", m.Geometry.Label, err)
	}
	d.drawCalls++

	r := rasterizer{target: t, state: d.state, material: m.Material, fragment: frag}
	verts := m.Geometry.Vertices
	for i := 0; i+2 < len(verts); i += 3 {
		r.triangle(
			r.project(ClipPosition(cam, verts[i]), verts[i].UV),
			r.project(ClipPosition(cam, verts[i+1]), verts[i+1].UV),
			r.project(ClipPosition(cam, verts[i+2]), verts[i+2].UV),
		)
	}
	return nil
}

// Render draws a scene into the bound target.
func (d *SoftwareDevice) Render(s Scene, cam Camera) error {
	return DrawScene(d, s, cam)
}

// Ensure SoftwareDevice implements Device.
var _ Device = (*SoftwareDevice)(nil)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package composer

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/pass"
	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

// EffectComposer runs passes over two ping-pong buffers.
type EffectComposer struct {
	dev render.Device

	bufferA, bufferB render.RenderTarget
	write, read      render.RenderTarget

	passes   []pass.Pass
	copyPass *pass.ShaderPass

	// RenderToScreen sends the last enabled pass to the screen.
	RenderToScreen bool

	width, height int
	pixelRatio    float64
	targetOpts    render.TargetOptions

	clock func() time.Time
	last  time.Time
}

// New creates a composer drawing with dev. Buffers are allocated at the
// logical size times the pixel ratio.
func New(dev render.Device, opts ...Option) (*EffectComposer, error) {
	if dev == nil {
		return nil, fmt.Errorf("composer: %w: nil device", postfx.ErrInvalidBuffer)
	}
	o := defaultOptions(dev)
	for _, opt := range opts {
		opt(&o)
	}

	c := &EffectComposer{
		dev:            dev,
		RenderToScreen: o.renderToScreen,
		width:          o.width,
		height:         o.height,
		pixelRatio:     o.pixelRatio,
		targetOpts:     render.NewTargetOptions(o.targetOpts...),
		clock:          o.clock,
	}
	if c.pixelRatio <= 0 {
		return nil, fmt.Errorf("composer: pixel ratio %v: %w", c.pixelRatio, postfx.ErrInvalidSize)
	}

	if o.target != nil {
		c.width, c.height = o.target.Width(), o.target.Height()
		c.pixelRatio = 1
		c.targetOpts = o.target.Options()
		if err := c.adopt(o.target); err != nil {
			return nil, err
		}
	} else if err := c.allocate(); err != nil {
		return nil, err
	}

	cp, err := pass.NewShaderPass(shader.Copy(), "")
	if err != nil {
		c.releaseBuffers()
		return nil, fmt.Errorf("composer: %w", err)
	}
	c.copyPass = cp
	c.last = c.clock()
	return c, nil
}

// physical returns the buffer size for the current logical size and ratio.
func (c *EffectComposer) physical() (int, int) {
	return int(math.Round(float64(c.width) * c.pixelRatio)),
		int(math.Round(float64(c.height) * c.pixelRatio))
}

func (c *EffectComposer) newTarget(w, h int, label string) (render.RenderTarget, error) {
	opts := c.targetOpts
	opts.Label = label
	t, err := c.dev.NewRenderTarget(w, h, render.WithOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("composer: allocate %s: %w", label, err)
	}
	return t, nil
}

// allocate replaces both buffers with new ones at the physical size.
func (c *EffectComposer) allocate() error {
	w, h := c.physical()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("composer: buffers %dx%d: %w", w, h, postfx.ErrInvalidSize)
	}
	a, err := c.newTarget(w, h, "composer.a")
	if err != nil {
		return err
	}
	b, err := c.newTarget(w, h, "composer.b")
	if err != nil {
		a.Dispose()
		return err
	}
	c.setBuffers(a, b)
	return nil
}

// adopt uses t as bufferA and a clone of it as bufferB.
func (c *EffectComposer) adopt(t render.RenderTarget) error {
	clone, err := c.dev.NewRenderTarget(t.Width(), t.Height(), render.WithOptions(t.Options()))
	if err != nil {
		return fmt.Errorf("composer: clone target: %w", err)
	}
	c.setBuffers(t, clone)
	return nil
}

func (c *EffectComposer) setBuffers(a, b render.RenderTarget) {
	c.releaseBuffers()
	c.bufferA, c.bufferB = a, b
	c.write, c.read = a, b
}

func (c *EffectComposer) releaseBuffers() {
	if c.bufferA != nil {
		c.bufferA.Dispose()
	}
	if c.bufferB != nil {
		c.bufferB.Dispose()
	}
	c.bufferA, c.bufferB, c.write, c.read = nil, nil, nil, nil
}

// SwapBuffers exchanges the read and write roles.
func (c *EffectComposer) SwapBuffers() {
	c.write, c.read = c.read, c.write
}

// ReadBuffer returns the buffer holding the latest image.
func (c *EffectComposer) ReadBuffer() render.RenderTarget { return c.read }

// WriteBuffer returns the buffer the next pass writes into.
func (c *EffectComposer) WriteBuffer() render.RenderTarget { return c.write }

// Passes returns the pass list. The slice must not be modified.
func (c *EffectComposer) Passes() []pass.Pass { return c.passes }

// Size returns the logical size.
func (c *EffectComposer) Size() (int, int) { return c.width, c.height }

// PixelRatio returns the pixel ratio.
func (c *EffectComposer) PixelRatio() float64 { return c.pixelRatio }

// AddPass appends p and sizes it to the buffer size.
func (c *EffectComposer) AddPass(p pass.Pass) error {
	return c.InsertPass(p, len(c.passes))
}

// InsertPass inserts p at index, clamped to the list bounds, and sizes it
// to the buffer size. p is not inserted when sizing fails.
func (c *EffectComposer) InsertPass(p pass.Pass, index int) error {
	if p == nil {
		return fmt.Errorf("composer: nil pass")
	}
	w, h := c.physical()
	if err := p.SetSize(w, h); err != nil {
		return fmt.Errorf("composer: size pass %s: %w", p.Flags().Name(), err)
	}
	index = max(0, min(index, len(c.passes)))
	c.passes = slices.Insert(c.passes, index, p)
	return nil
}

// RemovePass removes p from the list without disposing it. Unknown passes
// are ignored.
func (c *EffectComposer) RemovePass(p pass.Pass) {
	if i := slices.Index(c.passes, p); i >= 0 {
		c.passes = slices.Delete(c.passes, i, i+1)
	}
}

// IsLastEnabledPass reports whether no pass after index i is enabled.
func (c *EffectComposer) IsLastEnabledPass(i int) bool {
	for _, p := range c.passes[min(max(i+1, 0), len(c.passes)):] {
		if p.Flags().Enabled {
			return false
		}
	}
	return true
}

// Render runs one frame. dt is the time since the previous frame in
// seconds; 0 measures it with the composer's clock.
//
// The render target and device state in effect before the call are
// restored on return, errors included, so a frame that fails inside a mask
// does not leave the stencil test on.
func (c *EffectComposer) Render(dt float64) error {
	if c.read == nil || c.write == nil {
		return fmt.Errorf("composer: %w", postfx.ErrDisposed)
	}
	now := c.clock()
	if dt == 0 {
		dt = now.Sub(c.last).Seconds()
	}
	c.last = now

	current := c.dev.RenderTarget()
	defer c.dev.SetRenderTarget(current)
	defer render.Acquire(c.dev)()

	maskActive := false
	for i, p := range c.passes {
		f := p.Flags()
		if !f.Enabled {
			continue
		}
		f.RenderToScreen = c.RenderToScreen && c.IsLastEnabledPass(i)
		postfx.Logger().Debug("composer: pass", "index", i, "pass", f.Name(), "screen", f.RenderToScreen, "mask", maskActive)

		if err := p.Render(c.dev, c.write, c.read, dt, maskActive); err != nil {
			return fmt.Errorf("composer: pass %d (%s): %w", i, f.Name(), err)
		}

		if f.NeedsSwap {
			if maskActive {
				if err := c.mergeUnmasked(dt); err != nil {
					return err
				}
			}
			c.SwapBuffers()
		}

		switch f.Role() {
		case pass.RoleMaskBegin:
			maskActive = true
		case pass.RoleMaskEnd:
			maskActive = false
		}
	}
	return nil
}

// mergeUnmasked copies read into write outside the mask, so write holds a
// complete image before the swap, then restores the Equal 1 test.
func (c *EffectComposer) mergeUnmasked(dt float64) error {
	s := c.dev.State()
	c.dev.SetState(s.StencilFunc(gputypes.CompareFunctionNotEqual, 1))
	err := c.copyPass.Render(c.dev, c.write, c.read, dt, false)
	c.dev.SetState(s.StencilFunc(gputypes.CompareFunctionEqual, 1))
	if err != nil {
		return fmt.Errorf("composer: masked copy: %w", err)
	}
	return nil
}

// Reset replaces both buffers. With a nil target the composer adopts the
// device's size and pixel ratio and allocates new buffers; otherwise it
// uses target and a clone of it. The old buffers are disposed.
func (c *EffectComposer) Reset(target render.RenderTarget) error {
	w, h, r, opts := c.width, c.height, c.pixelRatio, c.targetOpts
	var err error
	if target == nil {
		c.width, c.height = c.dev.Size()
		c.pixelRatio = c.dev.PixelRatio()
		err = c.allocate()
	} else {
		c.width, c.height = target.Width(), target.Height()
		c.pixelRatio = 1
		c.targetOpts = target.Options()
		err = c.adopt(target)
	}
	if err != nil {
		c.width, c.height, c.pixelRatio, c.targetOpts = w, h, r, opts
	}
	return err
}

// SetSize sets the logical size and resizes the buffers and every pass to
// the physical size. If the buffers cannot be allocated the previous size
// and buffers stay in effect.
func (c *EffectComposer) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("composer: size %dx%d: %w", width, height, postfx.ErrInvalidSize)
	}
	return c.resize(width, height, c.pixelRatio)
}

// SetPixelRatio sets the pixel ratio and resizes everything accordingly.
func (c *EffectComposer) SetPixelRatio(r float64) error {
	if !(r > 0) {
		return fmt.Errorf("composer: pixel ratio %v: %w", r, postfx.ErrInvalidSize)
	}
	return c.resize(c.width, c.height, r)
}

func (c *EffectComposer) resize(width, height int, ratio float64) error {
	oldW, oldH, oldRatio := c.width, c.height, c.pixelRatio
	c.width, c.height, c.pixelRatio = width, height, ratio
	if err := c.allocate(); err != nil {
		c.width, c.height, c.pixelRatio = oldW, oldH, oldRatio
		return err
	}
	w, h := c.physical()
	for _, p := range c.passes {
		if err := p.SetSize(w, h); err != nil {
			return fmt.Errorf("composer: size pass %s: %w", p.Flags().Name(), err)
		}
	}
	return nil
}

// Dispose releases both buffers, the internal copy pass and every pass.
func (c *EffectComposer) Dispose() {
	c.releaseBuffers()
	if c.copyPass != nil {
		c.copyPass.Dispose()
		c.copyPass = nil
	}
	for _, p := range c.passes {
		p.Dispose()
	}
	c.passes = nil
}

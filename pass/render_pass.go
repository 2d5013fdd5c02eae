// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

// RenderPass draws a scene into the read buffer, or onto the screen when it
// is the last pass. It is normally the first pass of a chain.
type RenderPass struct {
	Base

	Scene  render.Scene
	Camera render.Camera

	// OverrideMaterial, when set, replaces every mesh material for the
	// duration of the pass.
	OverrideMaterial *shader.Material

	// ClearColor, when set, overrides the device clear color and alpha.
	ClearColor *shader.Vec4

	// ClearDepth clears only the depth buffer before drawing. It applies
	// when Clear is false.
	ClearDepth bool
}

// RenderPassOption configures a RenderPass.
type RenderPassOption func(*RenderPass)

// WithOverrideMaterial draws every mesh with m.
func WithOverrideMaterial(m *shader.Material) RenderPassOption {
	return func(p *RenderPass) {
		p.OverrideMaterial = m
	}
}

// WithClearColor clears to c (rgb and alpha) instead of the device color.
func WithClearColor(c shader.Vec4) RenderPassOption {
	return func(p *RenderPass) {
		p.ClearColor = &c
	}
}

// WithClearDepth clears only depth before drawing.
func WithClearDepth() RenderPassOption {
	return func(p *RenderPass) {
		p.Clear = false
		p.ClearDepth = true
	}
}

// NewRenderPass returns a pass drawing scn through cam.
func NewRenderPass(scn render.Scene, cam render.Camera, opts ...RenderPassOption) *RenderPass {
	p := &RenderPass{
		Base:   NewBase("render", RoleNormal),
		Scene:  scn,
		Camera: cam,
	}
	p.NeedsSwap = false
	p.Clear = true
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetSize is a no-op: RenderPass owns no targets.
func (p *RenderPass) SetSize(int, int) error { return nil }

// Render draws the scene.
func (p *RenderPass) Render(dev render.Device, _, read render.RenderTarget, _ float64, _ bool) error {
	if err := p.check(dev); err != nil {
		return err
	}
	if p.Scene == nil {
		return p.errorf("nil scene")
	}

	defer render.Acquire(dev)()
	s := dev.State()
	s.AutoClear = false
	if p.ClearColor != nil {
		c := *p.ClearColor
		s.ClearColor = c.RGB()
		s.ClearAlpha = c[3]
	}
	dev.SetState(s)

	if p.OverrideMaterial != nil {
		prev := p.Scene.OverrideMaterial()
		p.Scene.SetOverrideMaterial(p.OverrideMaterial)
		defer p.Scene.SetOverrideMaterial(prev)
	}

	if p.RenderToScreen {
		dev.SetRenderTarget(nil)
	} else {
		if read == nil {
			return p.errorf("%w: nil read buffer", postfx.ErrInvalidBuffer)
		}
		dev.SetRenderTarget(read)
	}

	switch {
	case p.Clear:
		if err := dev.Clear(true, true, true); err != nil {
			return p.errorf("%w", err)
		}
	case p.ClearDepth:
		if err := dev.Clear(false, true, false); err != nil {
			return p.errorf("%w", err)
		}
	}
	if err := dev.Render(p.Scene, p.Camera); err != nil {
		return p.errorf("%w", err)
	}
	return nil
}

// Dispose is a no-op: the scene and materials belong to the caller.
func (p *RenderPass) Dispose() {}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/postfx/render"
)

// MaskPass draws a scene into the stencil buffer of both ping-pong buffers
// and leaves the stencil test at Equal 1, restricting later passes to the
// scene's silhouette. Color and depth are not written.
type MaskPass struct {
	Base

	Scene  render.Scene
	Camera render.Camera

	// Inverse restricts later passes to everything outside the silhouette.
	Inverse bool
}

// NewMaskPass returns a mask pass for scn seen through cam.
func NewMaskPass(scn render.Scene, cam render.Camera) *MaskPass {
	p := &MaskPass{
		Base:   NewBase("mask", RoleMaskBegin),
		Scene:  scn,
		Camera: cam,
	}
	p.NeedsSwap = false
	p.Clear = true
	return p
}

// SetSize is a no-op.
func (p *MaskPass) SetSize(int, int) error { return nil }

// Render writes the mask.
func (p *MaskPass) Render(dev render.Device, write, read render.RenderTarget, _ float64, _ bool) error {
	if err := p.check(dev, write, read); err != nil {
		return err
	}
	if p.Scene == nil {
		return p.errorf("nil scene")
	}

	var writeValue, clearValue uint32 = 1, 0
	if p.Inverse {
		writeValue, clearValue = 0, 1
	}

	restore := render.Acquire(dev)
	s := dev.State()
	s.AutoClear = false
	s.ColorWrite = false
	s.DepthWrite = false
	s.ClearStencil = uint8(clearValue)
	s = s.StencilFunc(gputypes.CompareFunctionAlways, writeValue)
	s.Stencil.ReadMask, s.Stencil.WriteMask = 0xFF, 0xFF
	s.Stencil.FailOp = gputypes.StencilOperationReplace
	s.Stencil.DepthFailOp = gputypes.StencilOperationReplace
	s.Stencil.PassOp = gputypes.StencilOperationReplace
	dev.SetState(s)

	for _, t := range []render.RenderTarget{read, write} {
		dev.SetRenderTarget(t)
		if p.Clear {
			if err := dev.Clear(false, false, true); err != nil {
				restore()
				return p.errorf("%w", err)
			}
		}
		if err := dev.Render(p.Scene, p.Camera); err != nil {
			restore()
			return p.errorf("%w", err)
		}
	}
	restore()

	dev.SetState(maskedState(dev.State()))
	return nil
}

// Dispose is a no-op.
func (p *MaskPass) Dispose() {}

// maskedState enables the stencil test Equal 1 with keep operations.
func maskedState(s render.State) render.State {
	s = s.StencilFunc(gputypes.CompareFunctionEqual, 1)
	s.Stencil.ReadMask = 0xFF
	s.Stencil.FailOp = gputypes.StencilOperationKeep
	s.Stencil.DepthFailOp = gputypes.StencilOperationKeep
	s.Stencil.PassOp = gputypes.StencilOperationKeep
	return s
}

// ClearMaskPass disables the stencil test enabled by a MaskPass.
type ClearMaskPass struct {
	Base
}

// NewClearMaskPass returns a pass ending the current mask.
func NewClearMaskPass() *ClearMaskPass {
	p := &ClearMaskPass{Base: NewBase("clear-mask", RoleMaskEnd)}
	p.NeedsSwap = false
	return p
}

// SetSize is a no-op.
func (p *ClearMaskPass) SetSize(int, int) error { return nil }

// Render turns the stencil test off.
func (p *ClearMaskPass) Render(dev render.Device, _, _ render.RenderTarget, _ float64, _ bool) error {
	if err := p.check(dev); err != nil {
		return err
	}
	s := dev.State()
	s.Stencil.Test = false
	dev.SetState(s)
	return nil
}

// Dispose is a no-op.
func (p *ClearMaskPass) Dispose() {}

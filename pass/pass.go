// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"fmt"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/render"
)

// Pass is one step of a post-processing chain.
type Pass interface {
	// SetSize resizes internal targets to width x height physical pixels.
	// Passes that own no targets ignore it.
	SetSize(width, height int) error

	// Render consumes read and writes into write, or onto the screen when
	// Flags().RenderToScreen is set. maskActive reports that a stencil mask
	// is in effect.
	Render(dev render.Device, write, read render.RenderTarget, dt float64, maskActive bool) error

	// Dispose releases owned resources. Calling it twice is safe.
	Dispose()

	// Flags returns the pass's mutable flags.
	Flags() *Base
}

// Role tells the composer how a pass affects the stencil mask.
type Role uint8

const (
	// RoleNormal passes leave the mask state unchanged.
	RoleNormal Role = iota
	// RoleMaskBegin passes activate the stencil mask.
	RoleMaskBegin
	// RoleMaskEnd passes deactivate it.
	RoleMaskEnd
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleNormal:
		return "normal"
	case RoleMaskBegin:
		return "mask-begin"
	case RoleMaskEnd:
		return "mask-end"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// Base holds the flags every pass carries. Embed it to implement Pass.
type Base struct {
	// Enabled passes take part in Render.
	Enabled bool

	// NeedsSwap makes the composer swap read and write after the pass.
	NeedsSwap bool

	// Clear clears the destination before drawing.
	Clear bool

	// RenderToScreen is set by the composer on the last enabled pass.
	RenderToScreen bool

	name string
	role Role
}

// NewBase returns flags with the defaults: enabled, swapping, no clear.
func NewBase(name string, role Role) Base {
	return Base{Enabled: true, NeedsSwap: true, name: name, role: role}
}

// Flags returns b.
func (b *Base) Flags() *Base { return b }

// Name returns the pass name used in errors and logs.
func (b *Base) Name() string { return b.name }

// Role returns the role fixed at construction.
func (b *Base) Role() Role { return b.role }

func (b *Base) errorf(format string, args ...any) error {
	return fmt.Errorf("pass %s: "+format, append([]any{b.name}, args...)...)
}

// check validates the device and, when needed, the buffers.
func (b *Base) check(dev render.Device, buffers ...render.RenderTarget) error {
	if dev == nil {
		return b.errorf("%w: nil device", postfx.ErrInvalidBuffer)
	}
	for _, t := range buffers {
		if t == nil {
			return b.errorf("%w: nil buffer", postfx.ErrInvalidBuffer)
		}
	}
	return nil
}

// output binds the pass's destination: the screen when RenderToScreen,
// write otherwise.
func (b *Base) output(dev render.Device, write render.RenderTarget) error {
	if b.RenderToScreen {
		dev.SetRenderTarget(nil)
		return nil
	}
	if write == nil {
		return b.errorf("%w: nil write buffer", postfx.ErrInvalidBuffer)
	}
	dev.SetRenderTarget(write)
	return nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
)

// Device is the renderer a pipeline draws with.
//
// All methods act on the currently bound target: nil binds the screen.
// Draw issues exactly one draw call.
type Device interface {
	// SetRenderTarget binds t for subsequent clears and draws. nil binds
	// the screen.
	SetRenderTarget(t RenderTarget)

	// RenderTarget returns the bound target, nil for the screen.
	RenderTarget() RenderTarget

	// NewRenderTarget allocates an off-screen target. Allocation failures
	// are returned, never masked.
	NewRenderTarget(width, height int, opts ...TargetOption) (RenderTarget, error)

	// Clear clears the selected buffers of the bound target using the
	// state's clear color and alpha; depth clears to 1 and stencil to 0.
	Clear(color, depth, stencil bool) error

	// Draw draws one mesh. A nil camera means the mesh positions are
	// already in clip space.
	Draw(m *Mesh, cam Camera) error

	// Render draws a scene: an automatic clear when AutoClear is set, then
	// every mesh, with the scene's override material if any.
	Render(s Scene, cam Camera) error

	// State returns a snapshot of the global render state.
	State() State

	// SetState replaces the global render state.
	SetState(s State)

	// PixelRatio returns the ratio of physical to logical pixels.
	PixelRatio() float64

	// Size returns the logical size of the screen.
	Size() (width, height int)
}

// DeviceHandle provides GPU device access from the host application.
//
// Key principle: postfx RECEIVES the device from the host, it does NOT
// create one. DeviceHandle is an alias for gpucontext.DeviceProvider; see
// gpu.NewDeviceFromProvider.
type DeviceHandle = gpucontext.DeviceProvider

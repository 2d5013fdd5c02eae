// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render defines the boundary between postfx and the renderer it
// post-processes.
//
// # Key Principle
//
// postfx never owns the renderer. Passes talk to a Device: they bind render
// targets, clear, issue draws and adjust a small amount of global state
// (clear color, auto-clear, stencil test, write masks). Anything that
// implements Device can host a pipeline.
//
// # Core Interfaces
//
//   - Device: target binding, clears, draw calls, global state
//   - RenderTarget: an off-screen color buffer with depth/stencil
//   - Scene and Camera: opaque collaborators passed to Device.Render
//
// # Device Implementations
//
//   - SoftwareDevice: a deterministic CPU reference rasterizer
//   - gpu.Device (package gpu): WebGPU through gogpu/wgpu HAL
//
// # State Discipline
//
// Passes that change global state acquire it first and restore it on every
// exit path:
//
//	defer render.Acquire(dev)()
//	st := dev.State()
//	st.AutoClear = false
//	dev.SetState(st)
//
// # Thread Safety
//
// Devices and targets are NOT safe for concurrent use. A pipeline runs on
// the goroutine that drives the frame loop.
package render

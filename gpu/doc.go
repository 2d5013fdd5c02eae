// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package gpu implements render.Device on a WebGPU HAL device.
//
// postfx does not create GPU devices. The host hands one over, either as a
// hal.Device and hal.Queue pair or through a gpucontext.DeviceProvider that
// exposes its HAL types:
//
//	dev, err := gpu.NewDeviceFromProvider(provider, gpu.WithSize(1280, 720))
//	if err != nil {
//	    return err
//	}
//	defer dev.Close()
//
//	c, err := composer.New(dev)
//
// Every Clear and Draw is encoded into its own render pass and submitted
// immediately, so device calls keep the order the passes issue them in.
// Per-draw resources are released once the queue reports their submission
// complete.
//
// Mesh positions are projected on the CPU and uploaded as clip-space
// vec4s at @location(0), with uv at @location(1). Shaders bind their
// uniform buffer at @binding(0) and the i-th texture and sampler at
// @binding(1+2i) and @binding(2+2i) of group 0.
//
// Build with the nogpu tag to leave the package out.
package gpu

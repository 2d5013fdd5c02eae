// Package postfx is a post-processing pipeline for real-time renderers.
//
// # Overview
//
// An effect composer chains passes over two ping-pong off-screen buffers.
// Each pass reads the previous pass's output and writes fresh output, and
// the last enabled pass writes straight to the screen. The module ships the
// standard passes: scene render, full-screen shader, stencil mask begin/end
// and a multi-level bloom.
//
// # Quick Start
//
//	dev := render.NewSoftwareDevice(800, 600)
//	c, err := composer.New(dev)
//	if err != nil {
//	    return err
//	}
//	defer c.Dispose()
//
//	bloom, err := pass.NewBloomPass(dev, 800, 600, pass.WithStrength(1.5))
//	if err != nil {
//	    return err
//	}
//	if err := c.AddPass(pass.NewRenderPass(scn, cam)); err != nil {
//	    return err
//	}
//	if err := c.AddPass(bloom); err != nil {
//	    return err
//	}
//
//	if err := c.Render(0); err != nil {
//	    return err
//	}
//
// # Architecture
//
// The module is organized into:
//   - render: the Device boundary, render targets, meshes and the CPU
//     reference device
//   - shader: uniform bags, materials and the built-in shaders
//   - pass: FullscreenQuad and the pass implementations
//   - composer: the EffectComposer
//   - gpu: a render.Device on top of gogpu/wgpu HAL
//   - scene: a minimal scene container, cameras and sprite textures
//
// This root package holds only what every sub-package shares: the logger
// and the sentinel errors.
package postfx

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"
	"math"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

// Device is a render.Device backed by a HAL device and queue.
//
// A Device is not safe for concurrent use. It does not own the HAL device:
// Close releases what the Device allocated and leaves the HAL device to
// the host.
type Device struct {
	cfg config

	device hal.Device
	queue  hal.Queue

	screen *Target
	target render.RenderTarget
	state  render.State

	sampler      hal.Sampler
	fallback     hal.Texture
	fallbackView hal.TextureView

	programs  map[*shader.Shader]*program
	pipelines map[pipelineKey]hal.RenderPipeline
	uniforms  map[*shader.Material]*uniformBuffer
	uploads   map[shader.Texture]*upload

	pending    []retired
	lastSubmit uint64

	drawCalls int
	live      int
	closed    bool
}

// retired is a release deferred until the queue completes a submission.
type retired struct {
	index   uint64
	release func()
}

// NewDevice wraps a HAL device and queue the host has opened.
func NewDevice(device hal.Device, queue hal.Queue, opts ...Option) (*Device, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("gpu: %w", postfx.ErrNoDevice)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	d := &Device{
		cfg:       cfg,
		device:    device,
		queue:     queue,
		state:     render.DefaultState(),
		programs:  make(map[*shader.Shader]*program),
		pipelines: make(map[pipelineKey]hal.RenderPipeline),
		uniforms:  make(map[*shader.Material]*uniformBuffer),
		uploads:   make(map[shader.Texture]*upload),
	}
	if err := d.init(); err != nil {
		d.Close()
		return nil, err
	}
	postfx.Logger().Info("gpu: device created", "label", cfg.label, "width", cfg.width, "height", cfg.height, "pixelRatio", cfg.pixelRatio)
	return d, nil
}

// NewDeviceFromProvider wraps the device of a host application. The
// provider must expose its HAL types through HalDevice() any and
// HalQueue() any, as gogpu does. The screen takes the provider's surface
// format unless opts set one.
func NewDeviceFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok || provider == nil {
		return nil, fmt.Errorf("gpu: %w: provider does not expose HAL types", postfx.ErrNoDevice)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpu: %w: provider HalDevice is not hal.Device", postfx.ErrNoDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpu: %w: provider HalQueue is not hal.Queue", postfx.ErrNoDevice)
	}
	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		opts = append([]Option{WithScreenFormat(f)}, opts...)
	}
	return NewDevice(device, queue, opts...)
}

func (d *Device) init() error {
	sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        d.cfg.label + ".sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
	})
	if err != nil {
		return fmt.Errorf("gpu: create sampler: %w", err)
	}
	d.sampler = sampler

	// Unbound texture uniforms sample this transparent black texel.
	d.fallback, d.fallbackView, err = d.createTexture(d.cfg.label+".fallback", 1, 1,
		gputypes.TextureFormatRGBA8Unorm, gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
	if err != nil {
		return err
	}
	if err := d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: d.fallback, Aspect: gputypes.TextureAspectAll},
		make([]byte, 4),
		&hal.ImageDataLayout{BytesPerRow: 4, RowsPerImage: 1},
		&hal.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	); err != nil {
		return fmt.Errorf("gpu: upload fallback texture: %w", err)
	}
	return d.allocateScreen()
}

func (d *Device) physical() (int, int) {
	w := max(1, int(math.Round(float64(d.cfg.width)*d.cfg.pixelRatio)))
	h := max(1, int(math.Round(float64(d.cfg.height)*d.cfg.pixelRatio)))
	return w, h
}

func (d *Device) allocateScreen() error {
	w, h := d.physical()
	screen, err := d.newTarget(w, h, render.NewTargetOptions(
		render.WithLabel(d.cfg.label+".screen"),
		render.WithFormat(d.cfg.screenFormat),
	))
	if err != nil {
		return err
	}
	screen.screen = true
	if d.screen != nil {
		d.screen.disposed = true
		d.releaseTarget(d.screen)
	}
	d.screen = screen
	return nil
}

// Screen returns the headless screen target. It is replaced by SetSize and
// SetPixelRatio.
func (d *Device) Screen() *Target { return d.screen }

// SetSize changes the logical screen size and reallocates the screen.
func (d *Device) SetSize(width, height int) error {
	d.cfg.width, d.cfg.height = max(width, 1), max(height, 1)
	return d.allocateScreen()
}

// SetPixelRatio changes the pixel ratio and reallocates the screen.
func (d *Device) SetPixelRatio(r float64) error {
	if r <= 0 {
		return fmt.Errorf("gpu: pixel ratio %v: %w", r, postfx.ErrInvalidSize)
	}
	d.cfg.pixelRatio = r
	return d.allocateScreen()
}

// Size returns the logical screen size.
func (d *Device) Size() (int, int) { return d.cfg.width, d.cfg.height }

// PixelRatio returns the physical-to-logical pixel ratio.
func (d *Device) PixelRatio() float64 { return d.cfg.pixelRatio }

// DrawCalls returns the number of draws submitted so far.
func (d *Device) DrawCalls() int { return d.drawCalls }

// LiveTargets returns the number of targets allocated by NewRenderTarget
// and not yet disposed.
func (d *Device) LiveTargets() int { return d.live }

// SetRenderTarget binds t; nil binds the screen.
func (d *Device) SetRenderTarget(t render.RenderTarget) { d.target = t }

// RenderTarget returns the bound target, nil for the screen.
func (d *Device) RenderTarget() render.RenderTarget { return d.target }

// State returns a snapshot of the render state.
func (d *Device) State() render.State { return d.state }

// SetState replaces the render state.
func (d *Device) SetState(s render.State) { d.state = s }

// NewRenderTarget allocates a GPU render target.
func (d *Device) NewRenderTarget(width, height int, opts ...render.TargetOption) (render.RenderTarget, error) {
	if d.closed {
		return nil, fmt.Errorf("gpu: %w", postfx.ErrDisposed)
	}
	o := render.NewTargetOptions(opts...)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gpu: target %q %dx%d: %w", o.Label, width, height, postfx.ErrInvalidSize)
	}
	if limit := int(d.cfg.limits.MaxTextureDimension2D); limit > 0 && (width > limit || height > limit) {
		return nil, fmt.Errorf("gpu: target %q %dx%d exceeds the %d texel dimension limit", o.Label, width, height, limit)
	}
	if d.cfg.maxPixels > 0 && width*height > d.cfg.maxPixels {
		return nil, fmt.Errorf("gpu: target %q %dx%d exceeds the %d pixel limit", o.Label, width, height, d.cfg.maxPixels)
	}
	t, err := d.newTarget(width, height, o)
	if err != nil {
		return nil, err
	}
	d.live++
	postfx.Logger().Debug("gpu: allocated target", "label", o.Label, "width", width, "height", height, "format", o.Format)
	return t, nil
}

// bound resolves the bound target to a GPU target.
func (d *Device) bound() (*Target, error) {
	if d.closed {
		return nil, fmt.Errorf("gpu: %w", postfx.ErrDisposed)
	}
	if d.target == nil {
		return d.screen, nil
	}
	t, ok := d.target.(*Target)
	if !ok {
		return nil, fmt.Errorf("gpu: %w: %T is not a GPU target", postfx.ErrInvalidBuffer, d.target)
	}
	if t.disposed || t.owner != d {
		return nil, fmt.Errorf("gpu: target %q: %w", t.opts.Label, postfx.ErrDisposed)
	}
	return t, nil
}

// Clear clears the selected buffers of the bound target. Depth and stencil
// are ignored on targets without a depth/stencil attachment.
func (d *Device) Clear(color, depth, stencil bool) error {
	t, err := d.bound()
	if err != nil {
		return err
	}
	if !color && (!t.HasDepthStencil() || (!depth && !stencil)) {
		return nil
	}
	ops := passOps{color: loadOp(color), depth: loadOp(depth), stencil: loadOp(stencil)}
	return d.renderPass("clear", t, ops, nil, nil)
}

// Draw draws one mesh into the bound target.
func (d *Device) Draw(m *render.Mesh, cam render.Camera) error {
	if err := render.CheckMesh(m); err != nil {
		return err
	}
	t, err := d.bound()
	if err != nil {
		return err
	}
	mat := m.Material
	if mat.Shader == nil {
		return fmt.Errorf("gpu: draw %q: material %s has no shader", m.Geometry.Label, mat.Name)
	}
	d.drawCalls++
	count := len(m.Geometry.Vertices)
	if count == 0 {
		return nil
	}

	prog, err := d.program(mat.Shader)
	if err != nil {
		return fmt.Errorf("gpu: draw %q: %w", m.Geometry.Label, err)
	}
	key := d.pipelineKey(mat, t)
	pipeline, err := d.pipeline(prog, key)
	if err != nil {
		return fmt.Errorf("gpu: draw %q: %w", m.Geometry.Label, err)
	}
	group, err := d.bindGroup(prog, mat, t)
	if err != nil {
		return fmt.Errorf("gpu: draw %q: %w", m.Geometry.Label, err)
	}
	vertices, err := d.vertexBuffer(m.Geometry, cam)
	if err != nil {
		d.device.DestroyBindGroup(group)
		return fmt.Errorf("gpu: draw %q: %w", m.Geometry.Label, err)
	}

	release := func() {
		d.device.DestroyBindGroup(group)
		d.device.DestroyBuffer(vertices)
	}
	return d.renderPass(m.Geometry.Label, t, passOps{}, release, func(rp hal.RenderPassEncoder) {
		rp.SetPipeline(pipeline)
		rp.SetBindGroup(0, group, nil)
		rp.SetVertexBuffer(0, vertices, 0)
		rp.SetViewport(0, 0, float32(t.width), float32(t.height), 0, 1)
		if key.stencil.Test {
			rp.SetStencilReference(d.state.Stencil.Ref)
		}
		rp.Draw(uint32(count), 1, 0, 0)
	})
}

// Render draws a scene into the bound target.
func (d *Device) Render(s render.Scene, cam render.Camera) error {
	return render.DrawScene(d, s, cam)
}

// passOps selects the load operation of each attachment.
type passOps struct {
	color, depth, stencil gputypes.LoadOp
}

func loadOp(clear bool) gputypes.LoadOp {
	if clear {
		return gputypes.LoadOpClear
	}
	return gputypes.LoadOpLoad
}

// renderPass encodes one render pass on t, runs record inside it and
// submits it. release frees the resources the pass references; it runs
// once the submission completes, or immediately on error.
func (d *Device) renderPass(label string, t *Target, ops passOps, release func(), record func(rp hal.RenderPassEncoder)) error {
	if ops.color == 0 {
		ops = passOps{color: gputypes.LoadOpLoad, depth: gputypes.LoadOpLoad, stencil: gputypes.LoadOpLoad}
	}
	enc, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		if release != nil {
			release()
		}
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := enc.BeginEncoding(label); err != nil {
		enc.Destroy()
		if release != nil {
			release()
		}
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	cc := d.state.ClearColor
	desc := &hal.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    t.colorView,
			LoadOp:  ops.color,
			StoreOp: gputypes.StoreOpStore,
			ClearValue: gputypes.Color{
				R: float64(cc[0]),
				G: float64(cc[1]),
				B: float64(cc[2]),
				A: float64(d.state.ClearAlpha),
			},
		}},
	}
	if t.HasDepthStencil() {
		desc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:              t.depthView,
			DepthLoadOp:       ops.depth,
			DepthStoreOp:      gputypes.StoreOpStore,
			DepthClearValue:   1,
			StencilLoadOp:     ops.stencil,
			StencilStoreOp:    gputypes.StoreOpStore,
			StencilClearValue: uint32(d.state.ClearStencil),
		}
	}
	rp := enc.BeginRenderPass(desc)
	if record != nil {
		record(rp)
	}
	rp.End()

	return d.submit(enc, release)
}

// submit ends enc and submits it. release, if any, is retired with the
// submission. Whatever completed meanwhile is released.
func (d *Device) submit(enc hal.CommandEncoder, release func()) error {
	cmd, err := enc.EndEncoding()
	if err != nil {
		enc.Destroy()
		if release != nil {
			release()
		}
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	index, err := d.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		d.device.FreeCommandBuffer(cmd)
		enc.Destroy()
		if release != nil {
			release()
		}
		return fmt.Errorf("gpu: submit: %w", err)
	}
	d.lastSubmit = index
	d.retire(func() {
		d.device.FreeCommandBuffer(cmd)
		enc.Destroy()
	})
	if release != nil {
		d.retire(release)
	}
	d.collect()
	return nil
}

// retire schedules release to run once the latest submission completes.
func (d *Device) retire(release func()) {
	d.pending = append(d.pending, retired{index: d.lastSubmit, release: release})
}

// collect runs the releases whose submission has completed.
func (d *Device) collect() {
	done := d.queue.PollCompleted()
	n := 0
	for _, r := range d.pending {
		if r.index <= done {
			r.release()
			continue
		}
		d.pending[n] = r
		n++
	}
	clear(d.pending[n:])
	d.pending = d.pending[:n]
}

// Pending returns the number of releases waiting for the GPU.
func (d *Device) Pending() int { return len(d.pending) }

// Close waits for the GPU and releases everything the device allocated.
// Targets allocated with NewRenderTarget and not yet disposed are left to
// their owners. Calling Close again is a no-op.
func (d *Device) Close() {
	if d.closed {
		return
	}
	d.closed = true
	if err := d.device.WaitIdle(); err != nil {
		postfx.Logger().Warn("gpu: wait idle on close", "err", err)
	}
	if d.screen != nil {
		d.screen.disposed = true
		d.releaseTarget(d.screen)
		d.screen = nil
	}
	for mat, ub := range d.uniforms {
		d.device.DestroyBuffer(ub.buffer)
		delete(d.uniforms, mat)
	}
	for tex, u := range d.uploads {
		d.device.DestroyTextureView(u.view)
		d.device.DestroyTexture(u.texture)
		delete(d.uploads, tex)
	}
	for key, p := range d.pipelines {
		d.device.DestroyRenderPipeline(p)
		delete(d.pipelines, key)
	}
	for s, p := range d.programs {
		p.destroy(d.device)
		delete(d.programs, s)
	}
	if d.fallbackView != nil {
		d.device.DestroyTextureView(d.fallbackView)
		d.device.DestroyTexture(d.fallback)
		d.fallback, d.fallbackView = nil, nil
	}
	if d.sampler != nil {
		d.device.DestroySampler(d.sampler)
		d.sampler = nil
	}
	for _, r := range d.pending {
		r.release()
	}
	d.pending = nil
	postfx.Logger().Info("gpu: device closed", "label", d.cfg.label)
}

// Ensure Device implements render.Device.
var _ render.Device = (*Device)(nil)

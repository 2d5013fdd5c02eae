// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"fmt"
	"math"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

var (
	blurDirectionX = shader.Vec4{1, 0}
	blurDirectionY = shader.Vec4{0, 1}
)

// BloomPass adds a multi-level glow around bright pixels.
//
// A frame runs four steps. A bright pass keeps pixels whose luminance
// exceeds the threshold, at half resolution. A cascade of separable
// Gaussian blurs, each level at half the previous resolution and with a
// wider kernel, spreads them. The levels are summed with per-level weights,
// and the sum is added onto the read buffer, or onto the screen when this
// is the last pass.
//
// BloomPass writes in place and leaves NeedsSwap false.
type BloomPass struct {
	Base

	cfg bloomConfig
	dev render.Device

	width, height int

	bright     render.RenderTarget
	horizontal []render.RenderTarget
	vertical   []render.RenderTarget

	highPass  *shader.Material
	blur      []*shader.Material
	composite *shader.Material
	blend     *shader.Material
	copy      *shader.Material
	quad      *FullscreenQuad

	disposed bool
}

// NewBloomPass creates a bloom pass for a width x height input and
// allocates its targets on dev.
func NewBloomPass(dev render.Device, width, height int, opts ...BloomOption) (*BloomPass, error) {
	if dev == nil {
		return nil, fmt.Errorf("pass bloom: %w: nil device", postfx.ErrInvalidBuffer)
	}
	cfg := defaultBloomConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &BloomPass{
		Base: NewBase("bloom", RoleNormal),
		cfg:  cfg,
		dev:  dev,
		quad: NewFullscreenQuad(nil),
	}
	p.NeedsSwap = false

	if err := p.buildMaterials(); err != nil {
		p.Dispose()
		return nil, err
	}
	if err := p.SetSize(width, height); err != nil {
		p.Dispose()
		return nil, err
	}
	return p, nil
}

func newPassMaterial(s *shader.Shader, b shader.Blending) (*shader.Material, error) {
	m, err := shader.NewMaterial(s)
	if err != nil {
		return nil, err
	}
	m.Blending = b
	m.DepthTest = false
	m.DepthWrite = false
	m.Transparent = b != shader.NoBlending
	return m, nil
}

func (p *BloomPass) buildMaterials() error {
	var err error
	cfg := p.cfg

	if p.highPass, err = newPassMaterial(shader.LuminosityHighPass(), shader.NoBlending); err != nil {
		return p.errorf("%w", err)
	}
	u := p.highPass.Uniforms
	if err := firstErr(
		u.SetFloat("luminosityThreshold", cfg.threshold),
		u.SetFloat("smoothWidth", cfg.smoothWidth),
		u.SetVec("defaultColor", shader.Vec4{cfg.brightColor[0], cfg.brightColor[1], cfg.brightColor[2], 1}),
		u.SetFloat("defaultOpacity", cfg.brightOpacity),
	); err != nil {
		return p.errorf("%w", err)
	}

	p.blur = make([]*shader.Material, cfg.levels)
	for i := range cfg.levels {
		if p.blur[i], err = newPassMaterial(shader.SeparableBlur(bloomKernelRadii[i]), shader.NoBlending); err != nil {
			return p.errorf("%w", err)
		}
	}

	if p.composite, err = newPassMaterial(shader.BloomComposite(cfg.levels), shader.NoBlending); err != nil {
		return p.errorf("%w", err)
	}
	u = p.composite.Uniforms
	factors := shader.DefaultBloomFactors[:cfg.levels]
	if len(cfg.factors) > 0 {
		factors = append([]float32(nil), factors...)
		copy(factors, cfg.factors)
	}
	if err := firstErr(
		u.SetFloat("bloomStrength", cfg.strength),
		u.SetFloat("bloomRadius", cfg.radius),
		u.SetFloats("bloomFactors", factors[:cfg.levels]...),
		u.SetVec3s("bloomTintColors", cfg.tints[:min(len(cfg.tints), cfg.levels)]...),
	); err != nil {
		return p.errorf("%w", err)
	}

	if p.blend, err = newPassMaterial(shader.Copy(), shader.AdditiveBlending); err != nil {
		return p.errorf("%w", err)
	}
	if p.copy, err = newPassMaterial(shader.Copy(), shader.NoBlending); err != nil {
		return p.errorf("%w", err)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// halve returns round(n/2), at least 1.
func halve(n int) int {
	return max(1, int(math.Round(float64(n)/2)))
}

// SetSize allocates the internal targets for a width x height input and
// disposes the previous ones. The bright target is half the input size and
// each blur level halves again. On failure the previous targets stay in
// use.
func (p *BloomPass) SetSize(width, height int) error {
	if p.disposed {
		return p.errorf("%w", postfx.ErrDisposed)
	}
	if width <= 0 || height <= 0 {
		return p.errorf("%dx%d: %w", width, height, postfx.ErrInvalidSize)
	}

	var (
		bright     render.RenderTarget
		horizontal = make([]render.RenderTarget, 0, p.cfg.levels)
		vertical   = make([]render.RenderTarget, 0, p.cfg.levels)
	)
	fail := func(err error) error {
		if bright != nil {
			bright.Dispose()
		}
		for _, t := range horizontal {
			t.Dispose()
		}
		for _, t := range vertical {
			t.Dispose()
		}
		return p.errorf("%w", err)
	}
	alloc := func(w, h int, label string) (render.RenderTarget, error) {
		return p.dev.NewRenderTarget(w, h, render.WithLabel(label), render.WithDepthStencil(false))
	}

	w, h := halve(width), halve(height)
	var err error
	if bright, err = alloc(w, h, "bloom.bright"); err != nil {
		return fail(err)
	}
	sizes := make([][2]int, p.cfg.levels)
	for i := range p.cfg.levels {
		ht, err := alloc(w, h, fmt.Sprintf("bloom.h%d", i))
		if err != nil {
			return fail(err)
		}
		horizontal = append(horizontal, ht)
		vt, err := alloc(w, h, fmt.Sprintf("bloom.v%d", i))
		if err != nil {
			return fail(err)
		}
		vertical = append(vertical, vt)
		sizes[i] = [2]int{w, h}
		w, h = halve(w), halve(h)
	}

	p.releaseTargets()
	p.width, p.height = width, height
	p.bright, p.horizontal, p.vertical = bright, horizontal, vertical

	for i, sz := range sizes {
		if err := p.blur[i].Uniforms.SetVec("invSize", shader.Vec4{1 / float32(sz[0]), 1 / float32(sz[1])}); err != nil {
			return p.errorf("%w", err)
		}
		if err := p.composite.Uniforms.SetTexture(shader.BloomTextureName(i), vertical[i].Texture()); err != nil {
			return p.errorf("%w", err)
		}
	}
	return nil
}

func (p *BloomPass) releaseTargets() {
	if p.bright != nil {
		p.bright.Dispose()
		p.bright = nil
	}
	for _, t := range p.horizontal {
		t.Dispose()
	}
	for _, t := range p.vertical {
		t.Dispose()
	}
	p.horizontal, p.vertical = nil, nil
}

// Size returns the input size the targets were allocated for.
func (p *BloomPass) Size() (int, int) { return p.width, p.height }

// Levels returns the number of blur levels.
func (p *BloomPass) Levels() int { return p.cfg.levels }

// BrightTarget returns the bright-pass target.
func (p *BloomPass) BrightTarget() render.RenderTarget { return p.bright }

// LevelTargets returns the horizontal and vertical blur targets of level i.
func (p *BloomPass) LevelTargets(i int) (h, v render.RenderTarget) {
	return p.horizontal[i], p.vertical[i]
}

// Strength returns the bloom strength.
func (p *BloomPass) Strength() float32 { return p.cfg.strength }

// SetStrength updates the bloom strength.
func (p *BloomPass) SetStrength(s float32) {
	p.cfg.strength = s
	if p.composite == nil {
		return
	}
	if err := p.composite.Uniforms.SetFloat("bloomStrength", s); err != nil {
		postfx.Logger().Warn("bloom: update uniform", "uniform", "bloomStrength", "err", err)
	}
}

// Radius returns the bloom radius.
func (p *BloomPass) Radius() float32 { return p.cfg.radius }

// SetRadius updates the bloom radius.
func (p *BloomPass) SetRadius(r float32) {
	p.cfg.radius = r
	if p.composite == nil {
		return
	}
	if err := p.composite.Uniforms.SetFloat("bloomRadius", r); err != nil {
		postfx.Logger().Warn("bloom: update uniform", "uniform", "bloomRadius", "err", err)
	}
}

// Threshold returns the luminance threshold.
func (p *BloomPass) Threshold() float32 { return p.cfg.threshold }

// SetThreshold updates the luminance threshold.
func (p *BloomPass) SetThreshold(t float32) {
	p.cfg.threshold = t
	if p.highPass == nil {
		return
	}
	if err := p.highPass.Uniforms.SetFloat("luminosityThreshold", t); err != nil {
		postfx.Logger().Warn("bloom: update uniform", "uniform", "luminosityThreshold", "err", err)
	}
}

// HighPassMaterial returns the bright-pass material.
func (p *BloomPass) HighPassMaterial() *shader.Material { return p.highPass }

// CompositeMaterial returns the material summing the blur levels.
func (p *BloomPass) CompositeMaterial() *shader.Material { return p.composite }

// Render runs the bloom on read.
func (p *BloomPass) Render(dev render.Device, _, read render.RenderTarget, _ float64, maskActive bool) error {
	if p.disposed {
		return p.errorf("%w", postfx.ErrDisposed)
	}
	if err := p.check(dev, read); err != nil {
		return err
	}

	defer render.Acquire(dev)()
	s := dev.State()
	s.AutoClear = false
	s.ClearColor = p.cfg.clearColor
	s.ClearAlpha = p.cfg.clearAlpha
	s.Stencil.Test = false
	dev.SetState(s)

	if p.RenderToScreen {
		if err := p.copy.Uniforms.SetTexture("tDiffuse", read.Texture()); err != nil {
			return p.errorf("%w", err)
		}
		if err := p.draw(dev, nil, p.copy, true); err != nil {
			return err
		}
	}

	if err := p.highPass.Uniforms.SetTexture("tDiffuse", read.Texture()); err != nil {
		return p.errorf("%w", err)
	}
	if err := p.draw(dev, p.bright, p.highPass, true); err != nil {
		return err
	}

	input := p.bright
	for i, m := range p.blur {
		if err := p.blurStep(dev, m, input, p.horizontal[i], blurDirectionX); err != nil {
			return err
		}
		if err := p.blurStep(dev, m, p.horizontal[i], p.vertical[i], blurDirectionY); err != nil {
			return err
		}
		input = p.vertical[i]
	}

	if err := p.draw(dev, p.horizontal[0], p.composite, true); err != nil {
		return err
	}

	if err := p.blend.Uniforms.SetTexture("tDiffuse", p.horizontal[0].Texture()); err != nil {
		return p.errorf("%w", err)
	}
	if maskActive {
		dev.SetState(maskedState(dev.State()))
	}
	dst := read
	if p.RenderToScreen {
		dst = nil
	}
	return p.draw(dev, dst, p.blend, false)
}

func (p *BloomPass) blurStep(dev render.Device, m *shader.Material, src, dst render.RenderTarget, dir shader.Vec4) error {
	if err := firstErr(
		m.Uniforms.SetTexture("colorTexture", src.Texture()),
		m.Uniforms.SetVec("direction", dir),
	); err != nil {
		return p.errorf("%w", err)
	}
	return p.draw(dev, dst, m, true)
}

// draw binds target (nil for the screen), optionally clears it, and draws
// m over it.
func (p *BloomPass) draw(dev render.Device, target render.RenderTarget, m *shader.Material, clear bool) error {
	dev.SetRenderTarget(target)
	if clear {
		if err := dev.Clear(true, true, true); err != nil {
			return p.errorf("%w", err)
		}
	}
	p.quad.SetMaterial(m)
	if err := p.quad.Render(dev); err != nil {
		return p.errorf("%s: %w", m.Name, err)
	}
	return nil
}

// Dispose releases every target and material. Calling it twice is safe.
func (p *BloomPass) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.releaseTargets()
	for _, m := range p.blur {
		if m != nil {
			m.Dispose()
		}
	}
	p.blur = nil
	for _, m := range []*shader.Material{p.highPass, p.composite, p.blend, p.copy} {
		if m != nil {
			m.Dispose()
		}
	}
	p.highPass, p.composite, p.blend, p.copy = nil, nil, nil, nil
	p.quad.Dispose()
	postfx.Logger().Debug("pass: bloom disposed")
}

// compile-time checks
var (
	_ Pass = (*BloomPass)(nil)
	_ Pass = (*RenderPass)(nil)
	_ Pass = (*ShaderPass)(nil)
	_ Pass = (*MaskPass)(nil)
	_ Pass = (*ClearMaskPass)(nil)
)

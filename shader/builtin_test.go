// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/postfx"
)

func near(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) <= float64(eps)
}

func TestHighPass(t *testing.T) {
	const threshold, width = 0.5, 0.25

	t.Run("at threshold", func(t *testing.T) {
		got := HighPass(Vec4{0.5, 0.5, 0.5, 1}, threshold, width, Vec3{}, 0)
		if !near(got[3], 0.5, 1e-5) {
			t.Errorf("alpha = %v, want 0.5", got[3])
		}
	})

	t.Run("above band", func(t *testing.T) {
		texel := Vec4{0.9, 0.8, 0.95, 1}
		got := HighPass(texel, threshold, width, Vec3{0.3, 0.2, 0.1}, 0.4)
		if got != texel {
			t.Errorf("HighPass() = %v, want texel %v unmodified", got, texel)
		}
	})

	t.Run("below band", func(t *testing.T) {
		got := HighPass(Vec4{0.1, 0.1, 0.1, 1}, threshold, width, Vec3{0.3, 0.2, 0.1}, 0.4)
		if got != (Vec4{0.3, 0.2, 0.1, 0.4}) {
			t.Errorf("HighPass() = %v, want default color", got)
		}
	})
}

func TestLuminosityHighPassProgram(t *testing.T) {
	m, err := NewMaterial(LuminosityHighPass())
	if err != nil {
		t.Fatal(err)
	}
	_ = m.Uniforms.SetFloat("luminosityThreshold", 0.85)
	_ = m.Uniforms.SetFloat("smoothWidth", 0.01)
	_ = m.Uniforms.SetTexture("tDiffuse", &solidTexture{c: Vec4{1, 1, 1, 1}, w: 4, h: 4})

	frag, err := m.Fragment()
	if err != nil {
		t.Fatalf("Fragment() = %v", err)
	}
	if got := frag(Vec2{0.5, 0.5}); got != (Vec4{1, 1, 1, 1}) {
		t.Errorf("bright texel = %v, want unmodified white", got)
	}

	_ = m.Uniforms.SetTexture("tDiffuse", &solidTexture{c: Vec4{0.2, 0.2, 0.2, 1}, w: 4, h: 4})
	frag, _ = m.Fragment()
	if got := frag(Vec2{0.5, 0.5}); got != (Vec4{}) {
		t.Errorf("dark texel = %v, want transparent black", got)
	}
}

func TestProgramUnboundTexture(t *testing.T) {
	m, err := NewMaterial(Copy())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Fragment(); err == nil {
		t.Error("Fragment() with unbound tDiffuse should fail")
	}
}

func TestCopyProgramOpacity(t *testing.T) {
	m, _ := NewMaterial(Copy())
	_ = m.Uniforms.SetTexture("tDiffuse", &solidTexture{c: Vec4{1, 0.5, 0.25, 0.75}, w: 1, h: 1})
	_ = m.Uniforms.SetFloat("opacity", 0.5)
	frag, err := m.Fragment()
	if err != nil {
		t.Fatal(err)
	}
	if got := frag(Vec2{}); got != (Vec4{0.5, 0.25, 0.125, 0.75}) {
		t.Errorf("copy = %v, want rgb*0.5 with alpha kept", got)
	}
}

func TestGaussianCoefficients(t *testing.T) {
	for _, r := range []int{3, 5, 7, 9, 11} {
		c := GaussianCoefficients(r)
		if len(c) != r {
			t.Fatalf("len(GaussianCoefficients(%d)) = %d", r, len(c))
		}
		for i := 1; i < len(c); i++ {
			if c[i] >= c[i-1] {
				t.Errorf("radius %d: weight %d (%v) not below weight %d (%v)", r, i, c[i], i-1, c[i-1])
			}
		}
		if want := float32(0.39894) / float32(r); !near(c[0], want, 1e-7) {
			t.Errorf("radius %d: center weight = %v, want %v", r, c[0], want)
		}
	}
	if got := GaussianCoefficients(0); len(got) != 1 || got[0] != 1 {
		t.Errorf("GaussianCoefficients(0) = %v, want [1]", got)
	}
	a, b := CachedGaussianCoefficients(7), CachedGaussianCoefficients(7)
	if &a[0] != &b[0] {
		t.Error("CachedGaussianCoefficients should return the shared table")
	}
}

func TestSeparableBlurPreservesConstant(t *testing.T) {
	m, _ := NewMaterial(SeparableBlur(9))
	_ = m.Uniforms.SetTexture("colorTexture", &solidTexture{c: Vec4{0.4, 0.6, 0.8, 0.3}, w: 8, h: 8})
	_ = m.Uniforms.SetVec("direction", Vec4{1, 0})
	_ = m.Uniforms.SetVec("invSize", Vec4{1.0 / 8, 1.0 / 8})
	frag, err := m.Fragment()
	if err != nil {
		t.Fatal(err)
	}
	got := frag(Vec2{0.5, 0.5})
	want := Vec4{0.4, 0.6, 0.8, 1}
	for i := range got {
		if !near(got[i], want[i], 1e-5) {
			t.Errorf("blur[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSeparableBlurZeroStaysZero(t *testing.T) {
	m, _ := NewMaterial(SeparableBlur(11))
	_ = m.Uniforms.SetTexture("colorTexture", &solidTexture{w: 4, h: 4})
	frag, _ := m.Fragment()
	if got := frag(Vec2{0.3, 0.7}); got != (Vec4{0, 0, 0, 1}) {
		t.Errorf("blur of black = %v, want exact zero rgb", got)
	}
}

func TestSeparableBlurClampsRadius(t *testing.T) {
	if got := SeparableBlur(40).Uniforms.Int("kernelRadius"); got != MaxKernelRadius {
		t.Errorf("kernelRadius = %d, want %d", got, MaxKernelRadius)
	}
	if got := SeparableBlur(0).Uniforms.Int("kernelRadius"); got != 1 {
		t.Errorf("kernelRadius = %d, want 1", got)
	}
}

func TestBloomComposite(t *testing.T) {
	s := BloomComposite(5)
	if got := len(s.Uniforms.Textures()); got != 5 {
		t.Fatalf("texture uniforms = %d, want 5", got)
	}
	m, _ := NewMaterial(s)
	for i := range 5 {
		_ = m.Uniforms.SetTexture(BloomTextureName(i), &solidTexture{c: Vec4{1, 1, 1, 1}, w: 2, h: 2})
	}
	_ = m.Uniforms.SetFloat("bloomStrength", 2)
	_ = m.Uniforms.SetFloat("bloomRadius", 0)

	frag, err := m.Fragment()
	if err != nil {
		t.Fatal(err)
	}
	// Radius 0 keeps the factors: 2 * (1.0+0.8+0.6+0.4+0.2).
	got := frag(Vec2{0.5, 0.5})
	if !near(got[0], 6, 1e-5) || !near(got[3], 6, 1e-5) {
		t.Errorf("composite = %v, want 6 per channel", got)
	}
}

func TestLerpBloomFactor(t *testing.T) {
	tests := []struct {
		factor, radius, want float32
	}{
		{1.0, 0, 1.0},
		{1.0, 1, 0.2},
		{0.2, 1, 1.0},
		{0.6, 0.4, 0.6},
	}
	for _, tt := range tests {
		if got := LerpBloomFactor(tt.factor, tt.radius); !near(got, tt.want, 1e-6) {
			t.Errorf("LerpBloomFactor(%v, %v) = %v, want %v", tt.factor, tt.radius, got, tt.want)
		}
	}
}

func TestBasicProgram(t *testing.T) {
	m, err := NewBasicMaterial(Vec4{0.5, 0.5, 0.5, 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	frag, err := m.Fragment()
	if err != nil {
		t.Fatal(err)
	}
	if got := frag(Vec2{}); got != (Vec4{0.5, 0.5, 0.5, 1}) {
		t.Errorf("untextured = %v", got)
	}

	m, _ = NewBasicMaterial(Vec4{1, 1, 1, 1}, &solidTexture{c: Vec4{0.25, 0.5, 1, 0.5}, w: 1, h: 1})
	frag, _ = m.Fragment()
	if got := frag(Vec2{}); got != (Vec4{0.25, 0.5, 1, 0.5}) {
		t.Errorf("textured = %v", got)
	}
}

func TestMaterialDispose(t *testing.T) {
	m, _ := NewMaterial(Copy())
	_ = m.Uniforms.SetTexture("tDiffuse", &solidTexture{w: 1, h: 1})
	calls := 0
	m.OnDispose(func() { calls++ })

	m.Dispose()
	m.Dispose()

	if calls != 1 {
		t.Errorf("dispose hook ran %d times, want 1", calls)
	}
	if !m.Disposed() {
		t.Error("Disposed() = false after Dispose")
	}
	if m.Uniforms.Texture("tDiffuse") != nil {
		t.Error("Dispose should unbind textures")
	}
	if _, err := m.Fragment(); !errors.Is(err, postfx.ErrDisposed) {
		t.Errorf("Fragment() after Dispose = %v, want ErrDisposed", err)
	}
}

func TestBlending(t *testing.T) {
	dst := Vec4{0.2, 0.3, 0.4, 0.7}

	if got := AdditiveBlending.Blend(Vec4{}, dst); got != dst {
		t.Errorf("additive zero = %v, want dst unchanged", got)
	}
	if got := AdditiveBlending.Blend(Vec4{0.1, 0.1, 0.1, 5}, dst); got[3] != dst[3] {
		t.Errorf("additive alpha = %v, want dst alpha %v", got[3], dst[3])
	}
	if got := NoBlending.Blend(Vec4{1, 1, 1, 1}, dst); got != (Vec4{1, 1, 1, 1}) {
		t.Errorf("no blending = %v, want src", got)
	}
	if got := NormalBlending.Blend(Vec4{1, 1, 1, 0}, dst); got != dst {
		t.Errorf("normal with transparent src = %v, want dst", got)
	}

	if NoBlending.State() != nil {
		t.Error("NoBlending.State() should be nil")
	}
	if s := AdditiveBlending.State(); s == nil || s.Alpha.SrcFactor == s.Color.SrcFactor {
		t.Errorf("AdditiveBlending.State() = %+v, want alpha to keep destination", s)
	}
}

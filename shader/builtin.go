// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/gogpu/postfx"
)

//go:embed shaders/copy.wgsl
var copySource string

//go:embed shaders/luminosity_high_pass.wgsl
var luminosityHighPassSource string

//go:embed shaders/separable_blur.wgsl
var separableBlurSource string

//go:embed shaders/bloom_composite.wgsl.tmpl
var bloomCompositeTemplate string

//go:embed shaders/basic.wgsl
var basicSource string

var compositeTmpl = template.Must(template.New("bloom_composite").Parse(bloomCompositeTemplate))

// Built-in shader names.
const (
	CopyName               = "copy"
	LuminosityHighPassName = "luminosity_high_pass"
	SeparableBlurName      = "separable_blur"
	BloomCompositeName     = "bloom_composite"
	BasicName              = "basic"
)

// MaxBloomLevels is the largest level count BloomComposite accepts.
const MaxBloomLevels = 5

// Copy returns the copy shader: texel.rgb*opacity with alpha preserved.
//
// Uniforms: tDiffuse (texture), opacity (float, 1).
func Copy() *Shader {
	return &Shader{
		Name: CopyName,
		Uniforms: NewUniforms(
			TextureSlot("tDiffuse"),
			Float("opacity", 1),
		),
		Source:  copySource,
		Program: copyProgram,
	}
}

func copyProgram(m *Material) (Fragment, error) {
	src, err := boundSampler(m, "tDiffuse")
	if err != nil {
		return nil, err
	}
	opacity := m.Uniforms.Float("opacity")
	return func(uv Vec2) Vec4 {
		t := src.Sample(uv)
		return Vec4{t[0] * opacity, t[1] * opacity, t[2] * opacity, t[3]}
	}, nil
}

// LuminosityHighPass returns the bright-pass shader.
//
// Uniforms: tDiffuse (texture), luminosityThreshold (1), smoothWidth (1),
// defaultColor (black), defaultOpacity (0).
func LuminosityHighPass() *Shader {
	return &Shader{
		Name: LuminosityHighPassName,
		Uniforms: NewUniforms(
			TextureSlot("tDiffuse"),
			Float("luminosityThreshold", 1),
			Float("smoothWidth", 1),
			Color("defaultColor", 0, 0, 0),
			Float("defaultOpacity", 0),
		),
		Source:  luminosityHighPassSource,
		Program: luminosityHighPassProgram,
	}
}

// HighPass is the bright-pass equation for one texel: the luma of texel is
// run through smoothstep(threshold-smoothWidth, threshold+smoothWidth) and
// the result mixes the default color toward texel.
func HighPass(texel Vec4, threshold, smoothWidth float32, defaultColor Vec3, defaultOpacity float32) Vec4 {
	alpha := Smoothstep(threshold-smoothWidth, threshold+smoothWidth, Luminance(texel.RGB()))
	base := Vec4{defaultColor[0], defaultColor[1], defaultColor[2], defaultOpacity}
	return MixVec4(base, texel, alpha)
}

func luminosityHighPassProgram(m *Material) (Fragment, error) {
	src, err := boundSampler(m, "tDiffuse")
	if err != nil {
		return nil, err
	}
	u := m.Uniforms
	threshold := u.Float("luminosityThreshold")
	width := u.Float("smoothWidth")
	color := u.Vec("defaultColor").RGB()
	opacity := u.Float("defaultOpacity")
	return func(uv Vec2) Vec4 {
		return HighPass(src.Sample(uv), threshold, width, color, opacity)
	}, nil
}

// SeparableBlur returns a one-direction Gaussian blur with the given kernel
// radius, clamped to [1, MaxKernelRadius].
//
// Uniforms: colorTexture (texture), invSize (vec2), direction (vec2, (0.5,
// 0.5)), kernelRadius (int), gaussianCoefficients (float[MaxKernelRadius]).
func SeparableBlur(kernelRadius int) *Shader {
	kernelRadius = max(1, min(kernelRadius, MaxKernelRadius))
	coeffs := make([]float32, MaxKernelRadius)
	copy(coeffs, CachedGaussianCoefficients(kernelRadius))
	return &Shader{
		Name: fmt.Sprintf("%s_%d", SeparableBlurName, kernelRadius),
		Uniforms: NewUniforms(
			TextureSlot("colorTexture"),
			Vector2("invSize", 0.5, 0.5),
			Vector2("direction", 0.5, 0.5),
			Int("kernelRadius", int32(kernelRadius)),
			FloatArray("gaussianCoefficients", coeffs...),
		),
		Source:  separableBlurSource,
		Program: separableBlurProgram,
	}
}

func separableBlurProgram(m *Material) (Fragment, error) {
	src, err := boundSampler(m, "colorTexture")
	if err != nil {
		return nil, err
	}
	u := m.Uniforms
	coeffs := u.Floats("gaussianCoefficients")
	radius := min(int(u.Int("kernelRadius")), len(coeffs))
	if radius < 1 {
		return nil, fmt.Errorf("material %s: kernel radius %d", m.Name, radius)
	}
	inv := u.Vec("invSize")
	dir := u.Vec("direction")
	step := Vec2{dir[0] * inv[0], dir[1] * inv[1]}
	return func(uv Vec2) Vec4 {
		weightSum := coeffs[0]
		c := src.Sample(uv)
		r, g, b := c[0]*weightSum, c[1]*weightSum, c[2]*weightSum
		for i := 1; i < radius; i++ {
			w := coeffs[i]
			x := float32(i)
			ox, oy := step[0]*x, step[1]*x
			s1 := src.Sample(Vec2{uv[0] + ox, uv[1] + oy})
			s2 := src.Sample(Vec2{uv[0] - ox, uv[1] - oy})
			r += (s1[0] + s2[0]) * w
			g += (s1[1] + s2[1]) * w
			b += (s1[2] + s2[2]) * w
			weightSum += 2 * w
		}
		return Vec4{r / weightSum, g / weightSum, b / weightSum, 1}
	}, nil
}

// BloomTextureName returns the composite shader's texture uniform name for
// level i (0-based).
func BloomTextureName(i int) string {
	return fmt.Sprintf("blurTexture%d", i+1)
}

// DefaultBloomFactors are the per-level weights of the composite, falling
// off with level.
var DefaultBloomFactors = [MaxBloomLevels]float32{1.0, 0.8, 0.6, 0.4, 0.2}

type compositeBinding struct {
	Name             string
	Texture, Sampler int
}

// BloomComposite returns the shader that sums levels blurred mip levels.
// levels is clamped to [1, MaxBloomLevels].
//
// Uniforms: blurTexture1..N (textures), bloomStrength (1), bloomRadius (0),
// bloomFactors (float[N]), bloomTintColors (vec3[N], white).
func BloomComposite(levels int) *Shader {
	levels = max(1, min(levels, MaxBloomLevels))

	decls := make([]Uniform, 0, levels+4)
	bindings := make([]compositeBinding, levels)
	tints := make([]Vec3, levels)
	for i := range levels {
		name := BloomTextureName(i)
		decls = append(decls, TextureSlot(name))
		bindings[i] = compositeBinding{Name: name, Texture: 1 + 2*i, Sampler: 2 + 2*i}
		tints[i] = Vec3{1, 1, 1}
	}
	decls = append(decls,
		Float("bloomStrength", 1),
		Float("bloomRadius", 0),
		FloatArray("bloomFactors", DefaultBloomFactors[:levels]...),
		Vec3Array("bloomTintColors", tints...),
	)

	var src strings.Builder
	// The template and its data are fixed; Execute cannot fail.
	_ = compositeTmpl.Execute(&src, struct {
		Levels   int
		Textures []compositeBinding
	}{levels, bindings})

	return &Shader{
		Name:     fmt.Sprintf("%s_%d", BloomCompositeName, levels),
		Uniforms: NewUniforms(decls...),
		Source:   src.String(),
		Program:  bloomCompositeProgram,
	}
}

// LerpBloomFactor mirrors a level weight around 0.6 by radius: radius 0
// keeps factor, radius 1 yields 1.2-factor.
func LerpBloomFactor(factor, radius float32) float32 {
	return Mix(factor, 1.2-factor, radius)
}

func bloomCompositeProgram(m *Material) (Fragment, error) {
	u := m.Uniforms
	factors := u.Floats("bloomFactors")
	tints := u.Vecs("bloomTintColors")
	levels := min(len(factors), len(tints))
	strength := u.Float("bloomStrength")
	radius := u.Float("bloomRadius")

	srcs := make([]Sampler, levels)
	weights := make([]Vec4, levels)
	for i := range levels {
		s, err := boundSampler(m, BloomTextureName(i))
		if err != nil {
			return nil, err
		}
		srcs[i] = s
		f := LerpBloomFactor(factors[i], radius)
		weights[i] = Vec4{f * tints[i][0], f * tints[i][1], f * tints[i][2], f}
	}
	return func(uv Vec2) Vec4 {
		var sum Vec4
		for i, s := range srcs {
			t := s.Sample(uv)
			w := weights[i]
			sum = sum.Add(Vec4{w[0] * t[0], w[1] * t[1], w[2] * t[2], w[3] * t[3]})
		}
		return sum.Scale(strength)
	}, nil
}

// Basic returns an unlit shader: color, optionally times a texture.
//
// Uniforms: colorMap (texture), color (vec4, white), useMap (float, 0).
func Basic() *Shader {
	return &Shader{
		Name: BasicName,
		Uniforms: NewUniforms(
			TextureSlot("colorMap"),
			Vector4("color", Vec4{1, 1, 1, 1}),
			Float("useMap", 0),
		),
		Source:  basicSource,
		Program: basicProgram,
	}
}

// NewBasicMaterial builds a Basic material with the given color and
// optional texture.
func NewBasicMaterial(color Vec4, tex Texture) (*Material, error) {
	m, err := NewMaterial(Basic())
	if err != nil {
		return nil, err
	}
	_ = m.Uniforms.SetVec("color", color)
	if tex != nil {
		_ = m.Uniforms.SetTexture("colorMap", tex)
		_ = m.Uniforms.SetFloat("useMap", 1)
	}
	return m, nil
}

func basicProgram(m *Material) (Fragment, error) {
	u := m.Uniforms
	color := u.Vec("color")
	if u.Float("useMap") == 0 {
		return func(Vec2) Vec4 { return color }, nil
	}
	src, err := boundSampler(m, "colorMap")
	if err != nil {
		return nil, err
	}
	return func(uv Vec2) Vec4 {
		t := src.Sample(uv)
		return Vec4{color[0] * t[0], color[1] * t[1], color[2] * t[2], color[3] * t[3]}
	}, nil
}

// boundSampler resolves a texture uniform to a CPU-readable texture.
func boundSampler(m *Material, name string) (Sampler, error) {
	un, ok := m.Uniforms.Get(name)
	if !ok || un.Kind != KindTexture {
		return nil, fmt.Errorf("material %s: %w: texture %q", m.Name, postfx.ErrMissingUniform, name)
	}
	if un.Texture == nil {
		return nil, fmt.Errorf("material %s: texture %q is not bound", m.Name, name)
	}
	s, ok := un.Texture.(Sampler)
	if !ok {
		return nil, fmt.Errorf("material %s: texture %q (%T) is not CPU-readable", m.Name, name, un.Texture)
	}
	return s, nil
}

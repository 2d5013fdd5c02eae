// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"strings"
	"testing"
)

func builtinShaders() []*Shader {
	return []*Shader{
		Copy(),
		LuminosityHighPass(),
		SeparableBlur(3),
		BloomComposite(5),
		BloomComposite(2),
		Basic(),
	}
}

func TestBuiltinShadersValidate(t *testing.T) {
	for _, s := range builtinShaders() {
		t.Run(s.Name, func(t *testing.T) {
			if err := Validate(s); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestReflectCopy(t *testing.T) {
	res, err := Reflect(Copy().Source)
	if err != nil {
		t.Fatalf("Reflect() = %v", err)
	}
	want := map[string]ResourceKind{
		"params":           ResourceUniformBuffer,
		"tDiffuse":         ResourceTexture,
		"tDiffuse_sampler": ResourceSampler,
	}
	if len(res) != len(want) {
		t.Fatalf("Reflect() found %d resources, want %d: %+v", len(res), len(want), res)
	}
	for _, r := range res {
		if want[r.Name] != r.Kind {
			t.Errorf("resource %q kind = %d, want %d", r.Name, r.Kind, want[r.Name])
		}
	}
}

func TestValidateMissingTexture(t *testing.T) {
	s := Copy()
	s.Uniforms = NewUniforms(TextureSlot("tInput"), Float("opacity", 1))
	if err := Validate(s); err == nil || !strings.Contains(err.Error(), "tInput") {
		t.Errorf("Validate() = %v, want missing tInput", err)
	}
}

func TestBloomCompositeSourceLevels(t *testing.T) {
	src := BloomComposite(3).Source
	if !strings.Contains(src, "array<vec4<f32>, 3>") {
		t.Error("composite source should size arrays to the level count")
	}
	if strings.Contains(src, "blurTexture4") {
		t.Error("composite source for 3 levels declares blurTexture4")
	}
}

func TestCompileCopy(t *testing.T) {
	words, err := Compile(Copy().Source)
	if err != nil {
		t.Fatalf("Compile() = %v", err)
	}
	if len(words) < 5 || words[0] != 0x07230203 {
		t.Errorf("Compile() did not produce a SPIR-V module (len %d)", len(words))
	}
}

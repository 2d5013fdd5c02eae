// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"fmt"
	"slices"

	"github.com/jinzhu/copier"

	"github.com/gogpu/postfx"
)

// Kind is the value type of a uniform.
type Kind uint8

const (
	KindFloat Kind = iota
	KindInt
	KindVec2
	KindVec3
	KindVec4
	KindColor
	KindFloatArray
	KindVec3Array
	KindTexture
)

var kindNames = [...]string{
	KindFloat:      "float",
	KindInt:        "int",
	KindVec2:       "vec2",
	KindVec3:       "vec3",
	KindVec4:       "vec4",
	KindColor:      "color",
	KindFloatArray: "float[]",
	KindVec3Array:  "vec3[]",
	KindTexture:    "texture",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Value holds the plain-data part of a uniform. Every field is a value or a
// slice of values, so a deep copy never shares memory with the source.
type Value struct {
	Float  float32
	Int    int32
	Vec    Vec4
	Floats []float32
	Vecs   []Vec4
}

// Uniform is one named entry of a uniform bag.
type Uniform struct {
	Name  string
	Kind  Kind
	Value Value

	// Texture is a handle, not data. Clones share the handle.
	Texture Texture
}

// Slots returns the number of 16-byte slots the uniform occupies in the GPU
// uniform buffer. Textures occupy none.
func (u *Uniform) Slots() int {
	switch u.Kind {
	case KindTexture:
		return 0
	case KindFloatArray:
		return len(u.Value.Floats)
	case KindVec3Array:
		return len(u.Value.Vecs)
	default:
		return 1
	}
}

func (u *Uniform) clone() (*Uniform, error) {
	c := &Uniform{Name: u.Name, Kind: u.Kind, Texture: u.Texture}
	if err := copier.CopyWithOption(&c.Value, &u.Value, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("clone uniform %q: %w", u.Name, err)
	}
	return c, nil
}

// Float declares a float uniform.
func Float(name string, v float32) Uniform {
	return Uniform{Name: name, Kind: KindFloat, Value: Value{Float: v}}
}

// Int declares an integer uniform.
func Int(name string, v int32) Uniform {
	return Uniform{Name: name, Kind: KindInt, Value: Value{Int: v}}
}

// Vector2 declares a vec2 uniform.
func Vector2(name string, x, y float32) Uniform {
	return Uniform{Name: name, Kind: KindVec2, Value: Value{Vec: Vec4{x, y}}}
}

// Vector3 declares a vec3 uniform.
func Vector3(name string, v Vec3) Uniform {
	return Uniform{Name: name, Kind: KindVec3, Value: Value{Vec: Vec4{v[0], v[1], v[2]}}}
}

// Vector4 declares a vec4 uniform.
func Vector4(name string, v Vec4) Uniform {
	return Uniform{Name: name, Kind: KindVec4, Value: Value{Vec: v}}
}

// Color declares an RGB color uniform.
func Color(name string, r, g, b float32) Uniform {
	return Uniform{Name: name, Kind: KindColor, Value: Value{Vec: Vec4{r, g, b, 1}}}
}

// FloatArray declares a float array uniform. The values are copied.
func FloatArray(name string, vs ...float32) Uniform {
	return Uniform{Name: name, Kind: KindFloatArray, Value: Value{Floats: slices.Clone(vs)}}
}

// Vec3Array declares a vec3 array uniform. The values are copied.
func Vec3Array(name string, vs ...Vec3) Uniform {
	vecs := make([]Vec4, len(vs))
	for i, v := range vs {
		vecs[i] = Vec4{v[0], v[1], v[2], 0}
	}
	return Uniform{Name: name, Kind: KindVec3Array, Value: Value{Vecs: vecs}}
}

// TextureSlot declares a texture uniform with no texture bound.
func TextureSlot(name string) Uniform {
	return Uniform{Name: name, Kind: KindTexture}
}

// Uniforms is an ordered, named uniform bag.
//
// Order is significant: it defines the GPU buffer layout and the texture
// binding indices. Uniforms is not safe for concurrent use.
type Uniforms struct {
	list  []*Uniform
	index map[string]int
}

// NewUniforms builds a bag from declarations. Later duplicates of a name
// replace earlier ones in place.
func NewUniforms(decls ...Uniform) *Uniforms {
	u := &Uniforms{index: make(map[string]int, len(decls))}
	for _, d := range decls {
		if i, ok := u.index[d.Name]; ok {
			u.list[i] = &d
			continue
		}
		u.index[d.Name] = len(u.list)
		u.list = append(u.list, &d)
	}
	return u
}

// Clone returns a deep copy. Value data is copied; texture handles are
// shared since they refer to device resources.
func (u *Uniforms) Clone() (*Uniforms, error) {
	c := &Uniforms{
		list:  make([]*Uniform, 0, len(u.list)),
		index: make(map[string]int, len(u.list)),
	}
	for _, src := range u.list {
		dst, err := src.clone()
		if err != nil {
			return nil, err
		}
		c.index[dst.Name] = len(c.list)
		c.list = append(c.list, dst)
	}
	return c, nil
}

// Len returns the number of uniforms.
func (u *Uniforms) Len() int { return len(u.list) }

// All returns the uniforms in declaration order.
func (u *Uniforms) All() []*Uniform { return u.list }

// Get looks up a uniform by name.
func (u *Uniforms) Get(name string) (*Uniform, bool) {
	i, ok := u.index[name]
	if !ok {
		return nil, false
	}
	return u.list[i], true
}

// Has reports whether a uniform named name of kind k is declared.
func (u *Uniforms) Has(name string, k Kind) bool {
	un, ok := u.Get(name)
	return ok && un.Kind == k
}

// Textures returns the texture uniforms in declaration order.
func (u *Uniforms) Textures() []*Uniform {
	var out []*Uniform
	for _, un := range u.list {
		if un.Kind == KindTexture {
			out = append(out, un)
		}
	}
	return out
}

func (u *Uniforms) lookup(name string, kinds ...Kind) (*Uniform, error) {
	un, ok := u.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", postfx.ErrMissingUniform, name)
	}
	if !slices.Contains(kinds, un.Kind) {
		return nil, fmt.Errorf("uniform %q is %s, want %v", name, un.Kind, kinds)
	}
	return un, nil
}

// SetFloat assigns a float uniform.
func (u *Uniforms) SetFloat(name string, v float32) error {
	un, err := u.lookup(name, KindFloat)
	if err != nil {
		return err
	}
	un.Value.Float = v
	return nil
}

// SetInt assigns an integer uniform.
func (u *Uniforms) SetInt(name string, v int32) error {
	un, err := u.lookup(name, KindInt)
	if err != nil {
		return err
	}
	un.Value.Int = v
	return nil
}

// SetVec assigns a vec2, vec3, vec4 or color uniform. Components beyond the
// uniform's width are ignored.
func (u *Uniforms) SetVec(name string, v Vec4) error {
	un, err := u.lookup(name, KindVec2, KindVec3, KindVec4, KindColor)
	if err != nil {
		return err
	}
	un.Value.Vec = v
	return nil
}

// SetFloats replaces the elements of a float array uniform. The array keeps
// its declared length; extra values are an error.
func (u *Uniforms) SetFloats(name string, vs ...float32) error {
	un, err := u.lookup(name, KindFloatArray)
	if err != nil {
		return err
	}
	if len(vs) > len(un.Value.Floats) {
		return fmt.Errorf("uniform %q holds %d floats, got %d", name, len(un.Value.Floats), len(vs))
	}
	copy(un.Value.Floats, vs)
	return nil
}

// SetVec3s replaces the elements of a vec3 array uniform.
func (u *Uniforms) SetVec3s(name string, vs ...Vec3) error {
	un, err := u.lookup(name, KindVec3Array)
	if err != nil {
		return err
	}
	if len(vs) > len(un.Value.Vecs) {
		return fmt.Errorf("uniform %q holds %d vectors, got %d", name, len(un.Value.Vecs), len(vs))
	}
	for i, v := range vs {
		un.Value.Vecs[i] = Vec4{v[0], v[1], v[2], 0}
	}
	return nil
}

// SetTexture binds a texture handle.
func (u *Uniforms) SetTexture(name string, tex Texture) error {
	un, err := u.lookup(name, KindTexture)
	if err != nil {
		return err
	}
	un.Texture = tex
	return nil
}

// Float returns a float uniform's value, or 0 when absent.
func (u *Uniforms) Float(name string) float32 {
	if un, ok := u.Get(name); ok {
		return un.Value.Float
	}
	return 0
}

// Int returns an integer uniform's value, or 0 when absent.
func (u *Uniforms) Int(name string) int32 {
	if un, ok := u.Get(name); ok {
		return un.Value.Int
	}
	return 0
}

// Vec returns a vector or color uniform's value, or zero when absent.
func (u *Uniforms) Vec(name string) Vec4 {
	if un, ok := u.Get(name); ok {
		return un.Value.Vec
	}
	return Vec4{}
}

// Floats returns a float array uniform's backing slice.
func (u *Uniforms) Floats(name string) []float32 {
	if un, ok := u.Get(name); ok {
		return un.Value.Floats
	}
	return nil
}

// Vecs returns a vec3 array uniform's backing slice.
func (u *Uniforms) Vecs(name string) []Vec4 {
	if un, ok := u.Get(name); ok {
		return un.Value.Vecs
	}
	return nil
}

// Texture returns the texture bound to name, or nil.
func (u *Uniforms) Texture(name string) Texture {
	if un, ok := u.Get(name); ok {
		return un.Texture
	}
	return nil
}

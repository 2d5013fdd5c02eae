package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

func TestDiscTexture(t *testing.T) {
	tex := NewDiscTexture(32, 0)
	assert.Equal(t, 32, tex.Width())
	assert.Equal(t, 32, tex.Height())

	center := tex.At(16, 16)
	assert.Equal(t, float32(1), center[0])
	assert.GreaterOrEqual(t, center[3], float32(0.98))
	assert.Zero(t, tex.At(0, 0)[3], "corner is outside the disc")
	assert.Zero(t, tex.At(31, 31)[3], "corner is outside the disc")
}

func TestDiscTextureSoftness(t *testing.T) {
	tex := NewDiscTexture(32, 1)
	center := tex.At(16, 16)[3]
	rim := tex.At(16, 1)[3]
	assert.Greater(t, center, rim)
	assert.Zero(t, tex.At(0, 0)[3])
}

func TestSpriteMesh(t *testing.T) {
	_, err := Sprite{Size: 0}.Mesh()
	assert.Error(t, err)

	tex := NewDiscTexture(16, 0)
	m, err := Sprite{
		Center:   [3]float32{2, 3, 0},
		Size:     2,
		Color:    shader.Vec4{4, 4, 4, 1},
		Texture:  tex,
		Additive: true,
	}.Mesh()
	require.NoError(t, err)

	assert.Equal(t, shader.AdditiveBlending, m.Material.Blending)
	assert.False(t, m.Material.DepthWrite)
	assert.Len(t, m.Geometry.Vertices, 6)
	assert.Equal(t, [3]float32{1, 2, 0}, m.Geometry.Vertices[0].Position)
	assert.Equal(t, [3]float32{3, 4, 0}, m.Geometry.Vertices[5].Position)
	assert.Same(t, tex, m.Material.Uniforms.Texture("colorMap").(*render.SoftwareTarget))
}

func TestSpriteRendersOverBackground(t *testing.T) {
	dev := render.NewSoftwareDevice(8, 8)
	cam := NewOrthographicCamera(0, 8, 8, 0, 0, 10)

	bg, err := NewRect(0, 0, 8, 8, -1, shader.Vec4{0, 0, 0.25, 1})
	require.NoError(t, err)
	star, err := Sprite{
		Center:   [3]float32{4, 4, 0},
		Size:     4,
		Color:    shader.Vec4{2, 2, 2, 1},
		Texture:  NewDiscTexture(16, 0),
		Additive: true,
	}.Mesh()
	require.NoError(t, err)

	s := New()
	s.Add(bg, star)
	require.NoError(t, dev.Render(s, cam))

	// Inside the disc the additive sprite pushes the color above 1.
	c := dev.Screen().At(4, 4)
	assert.Greater(t, c[0], float32(1.5))
	assert.Equal(t, float32(1), c[3], "additive blending keeps the background alpha")

	// Outside the sprite the background is untouched.
	assert.Equal(t, shader.Vec4{0, 0, 0.25, 1}, dev.Screen().At(0, 0))
}

package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

func TestSceneAddRemove(t *testing.T) {
	s := New()
	a, err := NewRect(0, 0, 1, 1, 0, shader.Vec4{1, 0, 0, 1})
	require.NoError(t, err)
	b, err := NewRect(0, 0, 1, 1, 0, shader.Vec4{0, 1, 0, 1})
	require.NoError(t, err)

	s.Add(a, nil, b)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []*render.Mesh{a, b}, s.Meshes())

	assert.True(t, s.Remove(a))
	assert.False(t, s.Remove(a))
	assert.Equal(t, []*render.Mesh{b}, s.Meshes())
}

func TestSceneOverride(t *testing.T) {
	s := New()
	assert.Nil(t, s.OverrideMaterial())
	m, err := shader.NewBasicMaterial(shader.Vec4{1, 1, 1, 1}, nil)
	require.NoError(t, err)
	s.SetOverrideMaterial(m)
	assert.Same(t, m, s.OverrideMaterial())
	s.SetOverrideMaterial(nil)
	assert.Nil(t, s.OverrideMaterial())
}

func TestSceneDispose(t *testing.T) {
	s := New()
	shared, err := shader.NewBasicMaterial(shader.Vec4{1, 1, 1, 1}, nil)
	require.NoError(t, err)
	g := rect("r", 0, 0, 1, 1, 0)
	s.Add(&render.Mesh{Geometry: g, Material: shared}, &render.Mesh{Geometry: g, Material: shared})

	s.Dispose()
	assert.True(t, shared.Disposed())
	assert.Zero(t, s.Len())
}

func TestSceneRendersInOrder(t *testing.T) {
	dev := render.NewSoftwareDevice(4, 4)
	red, err := NewRect(-1, -1, 1, 1, 0.5, shader.Vec4{1, 0, 0, 1})
	require.NoError(t, err)
	green, err := NewRect(-1, -1, 0, 1, 0.5, shader.Vec4{0, 1, 0, 1})
	require.NoError(t, err)

	s := New()
	s.Add(red, green)
	require.NoError(t, dev.Render(s, nil))

	assert.Equal(t, shader.Vec4{0, 1, 0, 1}, dev.Screen().At(0, 0))
	assert.Equal(t, shader.Vec4{1, 0, 0, 1}, dev.Screen().At(3, 0))
}

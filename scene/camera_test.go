package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gogpu/postfx/shader"
)

func TestOrthographicCamera(t *testing.T) {
	cam := NewOrthographicCamera(0, 800, 600, 0, 0, 10)
	cam.Position = [3]float32{0, 0, 5}

	tests := []struct {
		name string
		p    [3]float32
		want shader.Vec4
	}{
		{"bottom-left near", [3]float32{0, 0, 5}, shader.Vec4{-1, -1, 0, 1}},
		{"top-right far", [3]float32{800, 600, -5}, shader.Vec4{1, 1, 1, 1}},
		{"center mid", [3]float32{400, 300, 0}, shader.Vec4{0, 0, 0.5, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cam.Project(tt.p))
		})
	}
}

func TestPerspectiveCamera(t *testing.T) {
	cam := NewPerspectiveCamera(90, 1, 1, 100)

	near := cam.Project([3]float32{0, 0, -1})
	assert.InDelta(t, 0, near[2]/near[3], 1e-6)

	far := cam.Project([3]float32{0, 0, -100})
	assert.InDelta(t, 1, far[2]/far[3], 1e-6)

	// With a 90° field of view, x = -z lands on the right edge.
	edge := cam.Project([3]float32{10, 0, -10})
	assert.InDelta(t, 1, edge[0]/edge[3], 1e-5)

	cam.SetAspect(200, 100)
	assert.Equal(t, float32(2), cam.Aspect)
	edge = cam.Project([3]float32{10, 0, -10})
	assert.InDelta(t, 0.5, edge[0]/edge[3], 1e-5)

	cam.SetAspect(0, 100)
	assert.Equal(t, float32(2), cam.Aspect)
}

package scene

import (
	"fmt"

	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

// rect builds a two-triangle rectangle at depth z with uv (0,0) at the
// top-left corner.
func rect(label string, x0, y0, x1, y1, z float32) *render.Geometry {
	tl := render.Vertex{Position: [3]float32{x0, y1, z}, UV: shader.Vec2{0, 0}}
	tr := render.Vertex{Position: [3]float32{x1, y1, z}, UV: shader.Vec2{1, 0}}
	bl := render.Vertex{Position: [3]float32{x0, y0, z}, UV: shader.Vec2{0, 1}}
	br := render.Vertex{Position: [3]float32{x1, y0, z}, UV: shader.Vec2{1, 1}}
	return &render.Geometry{Label: label, Vertices: []render.Vertex{bl, br, tl, tl, br, tr}}
}

// NewRect creates an opaque axis-aligned rectangle from (x0,y0) to (x1,y1)
// at depth z, in world units.
func NewRect(x0, y0, x1, y1, z float32, color shader.Vec4) (*render.Mesh, error) {
	m, err := shader.NewBasicMaterial(color, nil)
	if err != nil {
		return nil, fmt.Errorf("scene: rect: %w", err)
	}
	return &render.Mesh{Geometry: rect("rect", x0, y0, x1, y1, z), Material: m}, nil
}

// Sprite describes a camera-facing textured square.
type Sprite struct {
	Center [3]float32
	Size   float32

	// Color multiplies the texture. Values above 1 make the sprite
	// brighter than white, which is what bloom thresholds pick up.
	Color   shader.Vec4
	Texture shader.Texture

	// Additive sprites add to what is behind them instead of covering it.
	Additive bool
}

// Mesh builds the sprite's mesh. Sprites don't write depth, so overlapping
// sprites blend in draw order.
func (s Sprite) Mesh() (*render.Mesh, error) {
	if s.Size <= 0 {
		return nil, fmt.Errorf("scene: sprite size %v must be positive", s.Size)
	}
	m, err := shader.NewBasicMaterial(s.Color, s.Texture)
	if err != nil {
		return nil, fmt.Errorf("scene: sprite: %w", err)
	}
	m.Transparent = true
	m.DepthWrite = false
	m.Blending = shader.NormalBlending
	if s.Additive {
		m.Blending = shader.AdditiveBlending
	}
	h := s.Size / 2
	c := s.Center
	return &render.Mesh{
		Geometry: rect("sprite", c[0]-h, c[1]-h, c[0]+h, c[1]+h, c[2]),
		Material: m,
	}, nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"fmt"
	"sync"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

var (
	quadOnce     sync.Once
	quadGeometry *render.Geometry
)

// sharedQuad returns the clip-space quad shared by every FullscreenQuad.
// UV (0,0) is the top-left corner.
func sharedQuad() *render.Geometry {
	quadOnce.Do(func() {
		bl := render.Vertex{Position: [3]float32{-1, -1, 0}, UV: shader.Vec2{0, 1}}
		br := render.Vertex{Position: [3]float32{1, -1, 0}, UV: shader.Vec2{1, 1}}
		tl := render.Vertex{Position: [3]float32{-1, 1, 0}, UV: shader.Vec2{0, 0}}
		tr := render.Vertex{Position: [3]float32{1, 1, 0}, UV: shader.Vec2{1, 0}}
		quadGeometry = &render.Geometry{
			Label:    "fullscreen-quad",
			Vertices: []render.Vertex{bl, br, tl, tl, br, tr},
		}
	})
	return quadGeometry
}

// FullscreenQuad draws a material over the whole bound target, independent
// of any camera.
type FullscreenQuad struct {
	geometry *render.Geometry
	material *shader.Material
}

// NewFullscreenQuad returns a quad drawing m. m may be nil and set later.
func NewFullscreenQuad(m *shader.Material) *FullscreenQuad {
	return &FullscreenQuad{geometry: sharedQuad(), material: m}
}

// Material returns the current material.
func (q *FullscreenQuad) Material() *shader.Material { return q.material }

// SetMaterial replaces the current material. The quad does not own it.
func (q *FullscreenQuad) SetMaterial(m *shader.Material) { q.material = m }

// Render issues exactly one draw call.
func (q *FullscreenQuad) Render(dev render.Device) error {
	if q.geometry == nil {
		return fmt.Errorf("fullscreen quad: %w", postfx.ErrDisposed)
	}
	if dev == nil {
		return fmt.Errorf("fullscreen quad: %w: nil device", postfx.ErrInvalidBuffer)
	}
	if q.material == nil {
		return fmt.Errorf("fullscreen quad: %w", postfx.ErrNilMaterial)
	}
	return dev.Draw(&render.Mesh{Geometry: q.geometry, Material: q.material}, nil)
}

// Dispose drops the references to the shared geometry and the material.
func (q *FullscreenQuad) Dispose() {
	q.geometry = nil
	q.material = nil
}

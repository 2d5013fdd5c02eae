// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package composer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

type testScene struct {
	meshes   []*render.Mesh
	override *shader.Material
}

func (s *testScene) Meshes() []*render.Mesh                 { return s.meshes }
func (s *testScene) OverrideMaterial() *shader.Material     { return s.override }
func (s *testScene) SetOverrideMaterial(m *shader.Material) { s.override = m }

func rectAt(x0, y0, x1, y1, z float32) *render.Geometry {
	bl := render.Vertex{Position: [3]float32{x0, y0, z}, UV: shader.Vec2{0, 1}}
	br := render.Vertex{Position: [3]float32{x1, y0, z}, UV: shader.Vec2{1, 1}}
	tl := render.Vertex{Position: [3]float32{x0, y1, z}, UV: shader.Vec2{0, 0}}
	tr := render.Vertex{Position: [3]float32{x1, y1, z}, UV: shader.Vec2{1, 0}}
	return &render.Geometry{Label: "rect", Vertices: []render.Vertex{bl, br, tl, tl, br, tr}}
}

func rect(x0, y0, x1, y1 float32) *render.Geometry {
	return rectAt(x0, y0, x1, y1, 0)
}

func solidMesh(t *testing.T, g *render.Geometry, c shader.Vec4) *render.Mesh {
	t.Helper()
	m, err := shader.NewBasicMaterial(c, nil)
	require.NoError(t, err)
	return &render.Mesh{Geometry: g, Material: m}
}

package scene

import (
	"slices"

	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

// Scene is an ordered list of meshes. Meshes draw in insertion order.
//
// Example:
//
//	s := scene.New()
//	s.Add(scene.NewRect(-1, -1, 1, 1, 0.5, bg), star)
//	rp := pass.NewRenderPass(s, scene.NewOrthographicCamera(-1, 1, 1, -1, 0, 10))
type Scene struct {
	meshes   []*render.Mesh
	override *shader.Material
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add appends meshes. Nil meshes are skipped.
func (s *Scene) Add(meshes ...*render.Mesh) {
	for _, m := range meshes {
		if m != nil {
			s.meshes = append(s.meshes, m)
		}
	}
}

// Remove removes m and reports whether it was present.
func (s *Scene) Remove(m *render.Mesh) bool {
	i := slices.Index(s.meshes, m)
	if i < 0 {
		return false
	}
	s.meshes = slices.Delete(s.meshes, i, i+1)
	return true
}

// Len returns the number of meshes.
func (s *Scene) Len() int { return len(s.meshes) }

// Meshes returns the meshes in draw order.
func (s *Scene) Meshes() []*render.Mesh { return s.meshes }

// OverrideMaterial returns the material replacing every mesh's material,
// or nil.
func (s *Scene) OverrideMaterial() *shader.Material { return s.override }

// SetOverrideMaterial sets the override material; nil clears it.
func (s *Scene) SetOverrideMaterial(m *shader.Material) { s.override = m }

// Dispose disposes the material of every mesh, once each, and empties the
// scene. Textures are left to their owners.
func (s *Scene) Dispose() {
	seen := make(map[*shader.Material]bool, len(s.meshes))
	for _, m := range s.meshes {
		if m.Material != nil && !seen[m.Material] {
			seen[m.Material] = true
			m.Material.Dispose()
		}
	}
	s.meshes = nil
	s.override = nil
}

var _ render.Scene = (*Scene)(nil)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/shader"
)

// Vertex is one mesh vertex. UV (0,0) is the top-left of a texture.
type Vertex struct {
	Position [3]float32
	UV       shader.Vec2
}

// Geometry is a triangle list. It holds CPU data only and is safe to share
// between meshes.
type Geometry struct {
	Label    string
	Vertices []Vertex
}

// Mesh pairs a geometry with a material.
type Mesh struct {
	Geometry *Geometry
	Material *shader.Material
}

// Camera projects world positions to clip space. Clip z/w is expected in
// [0, 1], WebGPU convention.
type Camera interface {
	Project(p [3]float32) shader.Vec4
}

// Scene is the content a RenderPass draws. postfx does not define what a
// scene contains beyond its meshes and the override material slot.
type Scene interface {
	Meshes() []*Mesh

	// OverrideMaterial, when non-nil, replaces every mesh's material.
	OverrideMaterial() *shader.Material
	SetOverrideMaterial(m *shader.Material)
}

// errNilScene is returned by Device.Render for a nil scene.
var errNilScene = errors.New("render: nil scene")

// ClipPosition returns the clip-space position of v under cam, or v's
// position with w=1 when cam is nil.
func ClipPosition(cam Camera, v Vertex) shader.Vec4 {
	if cam == nil {
		return shader.Vec4{v.Position[0], v.Position[1], v.Position[2], 1}
	}
	return cam.Project(v.Position)
}

// CheckMesh validates a mesh before drawing.
func CheckMesh(m *Mesh) error {
	if m == nil || m.Geometry == nil {
		return fmt.Errorf("render: %w: nil mesh", postfx.ErrInvalidBuffer)
	}
	if m.Material == nil {
		return fmt.Errorf("render: mesh %q: %w", m.Geometry.Label, postfx.ErrNilMaterial)
	}
	if m.Material.Disposed() {
		return fmt.Errorf("render: mesh %q: material %s: %w", m.Geometry.Label, m.Material.Name, postfx.ErrDisposed)
	}
	if len(m.Geometry.Vertices)%3 != 0 {
		return fmt.Errorf("render: mesh %q: %d vertices is not a triangle list", m.Geometry.Label, len(m.Geometry.Vertices))
	}
	return nil
}

// DrawScene implements Device.Render on top of Clear and Draw. Device
// implementations share it.
func DrawScene(d Device, s Scene, cam Camera) error {
	if s == nil {
		return errNilScene
	}
	if d.State().AutoClear {
		if err := d.Clear(true, true, true); err != nil {
			return err
		}
	}
	override := s.OverrideMaterial()
	for _, m := range s.Meshes() {
		if m == nil {
			continue
		}
		if override != nil {
			m = &Mesh{Geometry: m.Geometry, Material: override}
		}
		if err := d.Draw(m, cam); err != nil {
			return err
		}
	}
	return nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/postfx/shader"
)

// subpixelBits is the fixed-point precision of screen positions. Edge
// functions are evaluated exactly in integers, so two triangles sharing an
// edge never both cover, or both miss, a pixel on it.
const subpixelBits = 8

const subpixelScale = 1 << subpixelBits

// screenVertex is a vertex after perspective divide and viewport mapping.
type screenVertex struct {
	x, y   int64 // fixed point
	z      float32
	invW   float32
	uOverW float32
	vOverW float32
	valid  bool
}

type rasterizer struct {
	target   *SoftwareTarget
	state    State
	material *shader.Material
	fragment shader.Fragment
}

func (r *rasterizer) project(clip shader.Vec4, uv shader.Vec2) screenVertex {
	w := clip[3]
	if !(w > 0) {
		return screenVertex{}
	}
	invW := 1 / w
	ndcX, ndcY := clip[0]*invW, clip[1]*invW
	sx := (float64(ndcX) + 1) * 0.5 * float64(r.target.width)
	sy := (1 - float64(ndcY)) * 0.5 * float64(r.target.height)
	return screenVertex{
		x:      int64(math.Round(sx * subpixelScale)),
		y:      int64(math.Round(sy * subpixelScale)),
		z:      clip[2] * invW,
		invW:   invW,
		uOverW: uv[0] * invW,
		vOverW: uv[1] * invW,
		valid:  true,
	}
}

// edge is twice the signed area of (a, b, p).
func edge(ax, ay, bx, by, px, py int64) int64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// ownsEdge breaks ties for pixels exactly on an edge from a to b. A shared
// edge is traversed in opposite directions by its two triangles, so exactly
// one of them owns it.
func ownsEdge(ax, ay, bx, by int64) bool {
	dy := by - ay
	return dy < 0 || (dy == 0 && bx-ax > 0)
}

func covers(w int64, owns bool) bool {
	return w > 0 || (w == 0 && owns)
}

func (r *rasterizer) triangle(v0, v1, v2 screenVertex) {
	if !v0.valid || !v1.valid || !v2.valid {
		return
	}
	area := edge(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	t := r.target
	minX := max(0, int(floorDiv(min(v0.x, v1.x, v2.x), subpixelScale)))
	minY := max(0, int(floorDiv(min(v0.y, v1.y, v2.y), subpixelScale)))
	maxX := min(t.width-1, int(floorDiv(max(v0.x, v1.x, v2.x), subpixelScale)))
	maxY := min(t.height-1, int(floorDiv(max(v0.y, v1.y, v2.y), subpixelScale)))

	own0 := ownsEdge(v1.x, v1.y, v2.x, v2.y)
	own1 := ownsEdge(v2.x, v2.y, v0.x, v0.y)
	own2 := ownsEdge(v0.x, v0.y, v1.x, v1.y)
	invArea := 1 / float64(area)

	for py := minY; py <= maxY; py++ {
		cy := int64(py)*subpixelScale + subpixelScale/2
		for px := minX; px <= maxX; px++ {
			cx := int64(px)*subpixelScale + subpixelScale/2
			w0 := edge(v1.x, v1.y, v2.x, v2.y, cx, cy)
			w1 := edge(v2.x, v2.y, v0.x, v0.y, cx, cy)
			w2 := edge(v0.x, v0.y, v1.x, v1.y, cx, cy)
			if !covers(w0, own0) || !covers(w1, own1) || !covers(w2, own2) {
				continue
			}
			l0 := float32(float64(w0) * invArea)
			l1 := float32(float64(w1) * invArea)
			l2 := float32(float64(w2) * invArea)
			r.shade(px, py, v0, v1, v2, l0, l1, l2)
		}
	}
}

func (r *rasterizer) shade(px, py int, v0, v1, v2 screenVertex, l0, l1, l2 float32) {
	t := r.target
	idx := py*t.width + px
	st := r.state.Stencil
	stencilOn := st.Test && t.stencil != nil

	if stencilOn {
		stored := uint32(t.stencil[idx])
		if !Compare(st.Compare, st.Ref&st.ReadMask, stored&st.ReadMask) {
			r.writeStencil(idx, st.FailOp)
			return
		}
	}

	z := l0*v0.z + l1*v1.z + l2*v2.z
	if t.depth != nil && r.material.DepthTest && !(z <= t.depth[idx]) {
		if stencilOn {
			r.writeStencil(idx, st.DepthFailOp)
		}
		return
	}
	if stencilOn {
		r.writeStencil(idx, st.PassOp)
	}
	if t.depth != nil && r.material.DepthWrite && r.state.DepthWrite {
		t.depth[idx] = z
	}
	if !r.state.ColorWrite {
		return
	}

	invW := l0*v0.invW + l1*v1.invW + l2*v2.invW
	uv := shader.Vec2{
		(l0*v0.uOverW + l1*v1.uOverW + l2*v2.uOverW) / invW,
		(l0*v0.vOverW + l1*v1.vOverW + l2*v2.vOverW) / invW,
	}
	src := r.fragment(uv)
	i := idx * 4
	dst := shader.Vec4{t.color[i], t.color[i+1], t.color[i+2], t.color[i+3]}
	out := r.material.Blending.Blend(src, dst)
	copy(t.color[i:i+4], out[:])
}

func (r *rasterizer) writeStencil(idx int, op gputypes.StencilOperation) {
	st := r.state.Stencil
	cur := r.target.stencil[idx]
	next := applyStencilOp(op, cur, st.Ref)
	wm := uint8(st.WriteMask)
	r.target.stencil[idx] = (cur &^ wm) | (next & wm)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/postfx/pass"
	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

const (
	frameWidth  = 800
	frameHeight = 600
)

// bloomScene is a dim background with one small bright square around
// pixels (16..24, 16..24).
func bloomScene(t *testing.T) *testScene {
	t.Helper()
	px := func(x float32) float32 { return x/frameWidth*2 - 1 }
	py := func(y float32) float32 { return 1 - y/frameHeight*2 }
	return &testScene{meshes: []*render.Mesh{
		solidMesh(t, rectAt(-1, -1, 1, 1, 0.5), shader.Vec4{0.2, 0.3, 0.1, 1}),
		solidMesh(t, rectAt(px(16), py(24), px(24), py(16), 0.1), shader.Vec4{1, 1, 1, 1}),
	}}
}

func renderFrame(t *testing.T, withBloom bool) *render.SoftwareTarget {
	t.Helper()
	dev := render.NewSoftwareDevice(frameWidth, frameHeight)
	c := newComposer(t, dev)
	defer c.Dispose()

	require.NoError(t, c.AddPass(pass.NewRenderPass(bloomScene(t), nil)))
	if withBloom {
		bloom, err := pass.NewBloomPass(dev, frameWidth, frameHeight,
			pass.WithStrength(1.5), pass.WithRadius(0.4), pass.WithThreshold(0.85))
		require.NoError(t, err)
		require.NoError(t, c.AddPass(bloom))
	}
	require.NoError(t, c.Render(1.0/60))
	return dev.Screen()
}

func TestBloomEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("full-frame software render")
	}
	base := renderFrame(t, false)
	bloomed := renderFrame(t, true)

	src := base.At(20, 20)
	got := bloomed.At(20, 20)
	require.Equal(t, shader.Vec4{1, 1, 1, 1}, src)
	assert.Greater(t, got[0], src[0], "bright square gains bloom")
	assert.Equal(t, src[3], got[3])

	glow := bloomed.At(60, 20)
	assert.Greater(t, glow[0], base.At(60, 20)[0], "glow spreads into the dim background")

	for y := range frameHeight {
		for x := 760; x < frameWidth; x++ {
			if base.At(x, y) != bloomed.At(x, y) {
				t.Fatalf("pixel (%d,%d) = %v, want %v (below threshold, out of reach)", x, y, bloomed.At(x, y), base.At(x, y))
			}
		}
	}
}

package main

import (
	"fmt"
	"image"
	"math/rand/v2"

	"golang.org/x/image/draw"

	"github.com/gogpu/postfx/composer"
	"github.com/gogpu/postfx/pass"
	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/scene"
	"github.com/gogpu/postfx/shader"
)

// Depths in world units in front of the camera.
const (
	backgroundZ = -9
	starZ       = -5
	spriteZ     = -1
)

// buildScene creates the frame content in pixel coordinates, origin at the
// bottom-left.
func buildScene(cfg Config) (*scene.Scene, error) {
	s := scene.New()
	w, h := float32(cfg.Width), float32(cfg.Height)
	bg := cfg.Background
	background, err := scene.NewRect(0, 0, w, h, backgroundZ, shader.Vec4{bg[0], bg[1], bg[2], 1})
	if err != nil {
		return nil, err
	}
	s.Add(background)

	if cfg.Stars.Count > 0 {
		tex := scene.NewDiscTexture(16, 0.5)
		rng := rand.New(rand.NewPCG(cfg.Stars.Seed, cfg.Stars.Seed^0x9e3779b97f4a7c15))
		st := cfg.Stars
		for range st.Count {
			b := st.Brightness * (0.5 + rng.Float32())
			star, err := scene.Sprite{
				Center:   [3]float32{rng.Float32() * w, rng.Float32() * h, starZ},
				Size:     st.MinSize + rng.Float32()*(st.MaxSize-st.MinSize),
				Color:    shader.Vec4{b, b, b, 1},
				Texture:  tex,
				Additive: true,
			}.Mesh()
			if err != nil {
				return nil, err
			}
			s.Add(star)
		}
	}

	for i, sc := range cfg.Sprites {
		sprite, err := scene.Sprite{
			Center:   [3]float32{sc.X, sc.Y, spriteZ},
			Size:     sc.Size,
			Color:    shader.Vec4{sc.Color[0], sc.Color[1], sc.Color[2], 1},
			Texture:  scene.NewDiscTexture(64, sc.Softness),
			Additive: true,
		}.Mesh()
		if err != nil {
			return nil, fmt.Errorf("sprites[%d]: %w", i, err)
		}
		s.Add(sprite)
	}
	return s, nil
}

// camera maps pixel coordinates onto the frame.
func camera(cfg Config) *scene.OrthographicCamera {
	return scene.NewOrthographicCamera(0, float32(cfg.Width), float32(cfg.Height), 0, 0, 10)
}

// buildComposer chains the passes of the frame.
func buildComposer(dev render.Device, cfg Config, s *scene.Scene) (*composer.EffectComposer, error) {
	c, err := composer.New(dev)
	if err != nil {
		return nil, err
	}
	cam := camera(cfg)
	passes := []pass.Pass{pass.NewRenderPass(s, cam)}

	if cfg.Bloom.Enabled {
		if m := cfg.Mask; m != nil {
			mask, err := scene.NewRect(m.X, m.Y, m.X+m.Width, m.Y+m.Height, 0, shader.Vec4{1, 1, 1, 1})
			if err != nil {
				c.Dispose()
				return nil, err
			}
			maskScene := scene.New()
			maskScene.Add(mask)
			passes = append(passes, pass.NewMaskPass(maskScene, cam))
		}

		bloom, err := pass.NewBloomPass(dev, cfg.Width, cfg.Height,
			pass.WithStrength(cfg.Bloom.Strength),
			pass.WithRadius(cfg.Bloom.Radius),
			pass.WithThreshold(cfg.Bloom.Threshold),
			pass.WithLevels(cfg.Bloom.Levels),
		)
		if err != nil {
			c.Dispose()
			return nil, err
		}
		passes = append(passes, bloom)

		if cfg.Mask != nil {
			output, err := pass.NewShaderPass(shader.Copy(), pass.DefaultTextureID)
			if err != nil {
				c.Dispose()
				return nil, err
			}
			passes = append(passes, pass.NewClearMaskPass(), output)
		}
	}

	for _, p := range passes {
		if err := c.AddPass(p); err != nil {
			c.Dispose()
			return nil, err
		}
	}
	return c, nil
}

// renderFrame renders cfg on the reference device and returns the image to
// write.
func renderFrame(cfg Config) (image.Image, error) {
	s, err := buildScene(cfg)
	if err != nil {
		return nil, err
	}
	defer s.Dispose()

	dev := render.NewSoftwareDevice(cfg.Width, cfg.Height, render.WithPixelRatio(cfg.PixelRatio))
	c, err := buildComposer(dev, cfg, s)
	if err != nil {
		return nil, err
	}
	defer c.Dispose()

	if err := c.Render(1.0 / 60); err != nil {
		return nil, err
	}
	return scale(dev.Screen().Image(), cfg.Scale), nil
}

// scale resizes img by f with bilinear filtering.
func scale(img *image.NRGBA, f float64) image.Image {
	if f == 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*f+0.5))
	h := max(1, int(float64(b.Dy())*f+0.5))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

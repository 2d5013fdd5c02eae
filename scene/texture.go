package scene

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/chewxy/math32"
	"golang.org/x/image/vector"

	"github.com/gogpu/postfx/render"
)

// kappa is the cubic Bézier control distance approximating a quarter circle.
const kappa = 0.5522847498

// NewDiscTexture rasterizes a white anti-aliased disc filling a size×size
// texture, for star and particle sprites. softness in [0, 1] fades the
// alpha from the center outward; 0 gives a hard-edged disc.
func NewDiscTexture(size int, softness float32) *render.SoftwareTarget {
	size = max(size, 1)
	softness = math32.Min(math32.Max(softness, 0), 1)

	mask := image.NewAlpha(image.Rect(0, 0, size, size))
	ras := vector.NewRasterizer(size, size)

	c := float32(size) / 2
	rings := 1
	if softness > 0 {
		rings = max(2, size/4)
	}
	// Concentric discs stack their alpha: the center receives every ring,
	// the rim only the outermost.
	alpha := uint8(255)
	if rings > 1 {
		alpha = uint8(math32.Ceil(255 / float32(rings)))
	}
	src := image.NewUniform(color.Alpha{A: alpha})
	for i := range rings {
		r := c * (1 - softness*float32(i)/float32(rings))
		ras.Reset(size, size)
		ras.DrawOp = draw.Over
		circle(ras, c, c, r)
		ras.Draw(mask, mask.Bounds(), src, image.Point{})
	}

	img := image.NewNRGBA(mask.Bounds())
	for i, a := range mask.Pix {
		img.Pix[4*i+0] = 255
		img.Pix[4*i+1] = 255
		img.Pix[4*i+2] = 255
		img.Pix[4*i+3] = a
	}
	return render.NewImageTarget(img, render.WithLabel("disc"))
}

// circle adds a closed circle path of radius r around (cx, cy).
func circle(ras *vector.Rasterizer, cx, cy, r float32) {
	k := r * kappa
	ras.MoveTo(cx+r, cy)
	ras.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	ras.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	ras.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	ras.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	ras.ClosePath()
}

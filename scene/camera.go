package scene

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/postfx/render"
	"github.com/gogpu/postfx/shader"
)

// OrthographicCamera projects a box of view space onto clip space. The
// camera sits at Position looking down -Z with +Y up. Depth maps Near to 0
// and Far to 1.
type OrthographicCamera struct {
	Left, Right, Top, Bottom float32
	Near, Far                float32
	Position                 [3]float32
}

// NewOrthographicCamera creates a camera at the origin.
func NewOrthographicCamera(left, right, top, bottom, near, far float32) *OrthographicCamera {
	return &OrthographicCamera{Left: left, Right: right, Top: top, Bottom: bottom, Near: near, Far: far}
}

// Project maps a world position to clip space, with w = 1.
func (c *OrthographicCamera) Project(p [3]float32) shader.Vec4 {
	x := p[0] - c.Position[0]
	y := p[1] - c.Position[1]
	dist := c.Position[2] - p[2]
	return shader.Vec4{
		2*(x-c.Left)/(c.Right-c.Left) - 1,
		2*(y-c.Bottom)/(c.Top-c.Bottom) - 1,
		(dist - c.Near) / (c.Far - c.Near),
		1,
	}
}

// PerspectiveCamera is a symmetric frustum camera at Position looking down
// -Z with +Y up.
type PerspectiveCamera struct {
	// Fov is the vertical field of view in degrees.
	Fov    float32
	Aspect float32
	Near   float32
	Far    float32

	Position [3]float32
}

// NewPerspectiveCamera creates a camera at the origin.
func NewPerspectiveCamera(fov, aspect, near, far float32) *PerspectiveCamera {
	return &PerspectiveCamera{Fov: fov, Aspect: aspect, Near: near, Far: far}
}

// SetAspect updates the aspect ratio, typically from the composer size.
func (c *PerspectiveCamera) SetAspect(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// Project maps a world position to clip space. Points at distance Near
// get depth 0 and points at Far get depth 1 after the divide by w.
func (c *PerspectiveCamera) Project(p [3]float32) shader.Vec4 {
	x := p[0] - c.Position[0]
	y := p[1] - c.Position[1]
	z := p[2] - c.Position[2]

	f := 1 / math32.Tan(c.Fov*math32.Pi/360)
	depth := c.Far / (c.Near - c.Far)
	return shader.Vec4{
		x * f / c.Aspect,
		y * f,
		z*depth + c.Near*depth,
		-z,
	}
}

var (
	_ render.Camera = (*OrthographicCamera)(nil)
	_ render.Camera = (*PerspectiveCamera)(nil)
)

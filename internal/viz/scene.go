package viz

import (
	"math"

	"github.com/san-kum/mcsim/internal/box"
	"github.com/san-kum/mcsim/internal/vec"
)

// Camera orients the box view. Yaw turns about the vertical axis, Pitch
// tilts toward the viewer.
type Camera struct {
	Yaw, Pitch float64
	Zoom       float64
}

func NewCamera() Camera {
	return Camera{Yaw: 0.6, Pitch: 0.4, Zoom: 1}
}

func (c *Camera) Rotate(dyaw, dpitch float64) {
	c.Yaw += dyaw
	c.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch+dpitch))
}

func (c *Camera) ZoomBy(f float64) { c.Zoom = math.Max(0.2, math.Min(5, c.Zoom*f)) }

// rotate turns p about the origin, yaw first.
func (c Camera) rotate(p vec.Vec3) vec.Vec3 {
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	p.Y, p.Z = p.Y*cp-p.Z*sp, p.Y*sp+p.Z*cp
	return p
}

// project maps a point of a box centered at the origin with half-diagonal
// radius onto canvas pixels, orthographically.
func (c Camera) project(p vec.Vec3, radius float64, w, h int) (int, int) {
	r := c.rotate(p)
	scale := c.Zoom * float64(min(w, h)) / (2 * radius)
	return int(math.Round(r.X*scale)) + w/2, int(math.Round(-r.Y*scale)) + h/2
}

// DrawBox draws the periodic cell's edges and one dot per particle, with
// particles folded into the primary cell first.
func DrawBox(cv *Canvas, cam Camera, b box.Box, ps []vec.Vec3) {
	w, h := cv.PixelWidth(), cv.PixelHeight()
	half := b.L / 2
	radius := half * math.Sqrt(3)
	center := vec.New(half, half, half)

	var corners [8][2]int
	for i := range corners {
		corner := vec.New(
			float64(i&1)*b.L,
			float64(i>>1&1)*b.L,
			float64(i>>2&1)*b.L,
		)
		corners[i][0], corners[i][1] = cam.project(corner.Sub(center), radius, w, h)
	}
	for i := range corners {
		for _, bit := range []int{1, 2, 4} {
			if j := i | bit; j != i {
				cv.Line(corners[i][0], corners[i][1], corners[j][0], corners[j][1])
			}
		}
	}

	for _, p := range ps {
		x, y := cam.project(b.Wrap(p).Sub(center), radius, w, h)
		cv.Set(x, y)
	}
}

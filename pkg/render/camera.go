// Package render projects the flock to the screen and draws it with ebiten.
package render

import (
	"math"

	"github.com/lao-tseu-is-alive/go-boids3d/pkg/geometry"
)

// Camera orbits around Target at Distance. Yaw turns around the Y axis,
// Pitch tilts up and down, both in radians.
type Camera struct {
	Target   geometry.Vector3
	Distance float64
	Yaw      float64
	Pitch    float64
	// FOV is the vertical field of view in radians.
	FOV  float64
	Near float64
}

// maxPitch keeps the camera off the poles, where the up vector degenerates.
const maxPitch = math.Pi/2 - 0.01

// NewCamera returns a camera looking at the origin from distance,
// slightly above the XZ plane.
func NewCamera(distance float64) *Camera {
	return &Camera{
		Distance: distance,
		Yaw:      math.Pi / 4,
		Pitch:    math.Pi / 8,
		FOV:      math.Pi / 3,
		Near:     0.1,
	}
}

// Orbit rotates the camera around its target.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = geometry.Clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Zoom scales the orbit distance, never closer than twice the near plane.
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.Distance = math.Max(c.Distance*factor, 2*c.Near)
}

// Eye returns the camera position in world space.
func (c *Camera) Eye() geometry.Vector3 {
	cp := math.Cos(c.Pitch)
	return c.Target.Add(geometry.Vector3{
		X: c.Distance * cp * math.Sin(c.Yaw),
		Y: c.Distance * math.Sin(c.Pitch),
		Z: c.Distance * cp * math.Cos(c.Yaw),
	})
}

// basis returns the right, up and forward unit vectors of the view.
func (c *Camera) basis() (right, up, forward geometry.Vector3) {
	forward = c.Target.Sub(c.Eye()).Normalize()
	right = forward.Cross(geometry.Vector3{Y: 1}).Normalize()
	up = right.Cross(forward)
	return right, up, forward
}

// Projection is a world point mapped to the screen.
type Projection struct {
	X, Y float64
	// Depth is the distance along the view direction, used for painter ordering
	// and size attenuation.
	Depth float64
}

// Project maps p to pixel coordinates of a width x height viewport.
// ok is false for points behind the near plane.
func (c *Camera) Project(p geometry.Vector3, width, height int) (Projection, bool) {
	if width <= 0 || height <= 0 {
		return Projection{}, false
	}
	right, up, forward := c.basis()
	rel := p.Sub(c.Eye())
	z := rel.Dot(forward)
	if z <= c.Near {
		return Projection{}, false
	}

	f := 1 / math.Tan(c.FOV/2)
	aspect := float64(width) / float64(height)
	ndcX := rel.Dot(right) * f / aspect / z
	ndcY := rel.Dot(up) * f / z

	return Projection{
		X:     (ndcX + 1) / 2 * float64(width),
		Y:     (1 - ndcY) / 2 * float64(height),
		Depth: z,
	}, true
}

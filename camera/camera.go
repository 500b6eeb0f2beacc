// Package camera provides an orbit camera around the tree axis.
package camera

import (
	"math"

	"github.com/pthm-cable/evergreen/config"
)

// Camera orbits a target point on a sphere. Angles follow the usual
// spherical convention with +Y up: Polar is measured from +Y, Azimuth
// around Y starting at +Z.
type Camera struct {
	// Target is the orbit center in world coordinates
	TargetX, TargetY, TargetZ float32

	Azimuth  float32
	Polar    float32
	Distance float32

	// Vertical field of view in degrees
	Fov float32

	// Orbit constraints
	MinDistance, MaxDistance float32
	MinPolar, MaxPolar       float32

	// AutoRotateSpeed is in orbits per minute divided by two, so 2.0
	// is one full orbit every 30 seconds.
	AutoRotateSpeed float32

	// Input scaling
	Sensitivity float32 // radians per dragged pixel
	ZoomStep    float32 // distance per wheel notch

	home struct{ azimuth, polar, distance float32 }
}

// New creates a camera at the configured position looking at the origin.
func New(cfg *config.CameraConfig) *Camera {
	x, y, z := float32(cfg.Position.X), float32(cfg.Position.Y), float32(cfg.Position.Z)
	c := &Camera{
		Fov:             float32(cfg.Fov),
		MinDistance:     float32(cfg.MinDistance),
		MaxDistance:     float32(cfg.MaxDistance),
		MinPolar:        float32(cfg.MinPolar),
		MaxPolar:        float32(cfg.MaxPolar),
		AutoRotateSpeed: float32(cfg.AutoRotateSpeed),
		Sensitivity:     float32(cfg.OrbitSensitivity),
		ZoomStep:        float32(cfg.ZoomStep),
	}

	r := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	c.Distance = r
	if r > 0 {
		c.Azimuth = float32(math.Atan2(float64(x), float64(z)))
		c.Polar = float32(math.Acos(float64(clamp(y/r, -1, 1))))
	} else {
		c.Polar = math.Pi / 2
	}
	c.constrain()

	c.home.azimuth, c.home.polar, c.home.distance = c.Azimuth, c.Polar, c.Distance
	return c
}

// Update advances auto-rotation by dt seconds when enabled.
func (c *Camera) Update(dt float32, autoRotate bool) {
	if !autoRotate || dt <= 0 || c.AutoRotateSpeed == 0 {
		return
	}
	c.Azimuth = wrapAngle(c.Azimuth - 2*math.Pi/60*c.AutoRotateSpeed*dt)
}

// Orbit rotates the camera by a drag of (dx, dy) screen pixels.
// Dragging right moves the camera left around the target.
func (c *Camera) Orbit(dx, dy float32) {
	c.Azimuth = wrapAngle(c.Azimuth - dx*c.Sensitivity)
	c.Polar -= dy * c.Sensitivity
	c.constrain()
}

// Zoom moves the camera toward the target by notches wheel steps.
func (c *Camera) Zoom(notches float32) {
	c.Distance -= notches * c.ZoomStep
	c.constrain()
}

// Position returns the camera eye in world coordinates.
func (c *Camera) Position() (x, y, z float32) {
	sinP, cosP := math.Sincos(float64(c.Polar))
	sinA, cosA := math.Sincos(float64(c.Azimuth))
	r := float64(c.Distance)
	return c.TargetX + float32(r*sinP*sinA),
		c.TargetY + float32(r*cosP),
		c.TargetZ + float32(r*sinP*cosA)
}

// Reset returns the camera to its initial orbit.
func (c *Camera) Reset() {
	c.Azimuth, c.Polar, c.Distance = c.home.azimuth, c.home.polar, c.home.distance
}

func (c *Camera) constrain() {
	c.Polar = clamp(c.Polar, c.MinPolar, c.MaxPolar)
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// wrapAngle keeps an angle in [-pi, pi].
func wrapAngle(a float32) float32 {
	a = float32(math.Mod(float64(a)+math.Pi, 2*math.Pi))
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

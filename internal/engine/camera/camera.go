// Package camera provides the free-fly camera driving the voxel renderer.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

// FreeCamera flies through the scene: a position in renderer units and a
// yaw/pitch pair from which the world-to-camera orientation is derived.
// The orientation matrix is orthonormal, so its inverse is its transpose.
type FreeCamera struct {
	Position mgl64.Vec3
	Yaw      float64 // horizontal angle, radians; 0 looks along +z
	Pitch    float64 // vertical angle, radians, clamped to ±~89°

	// Movement speed in units per second, stepped by the scroll wheel.
	Speed float64

	LookSensitivity float64
	SpeedFactor     float64
}

// New returns a camera at the origin with defaults scaled for a scene of
// the given side length.
func New(sceneSize int) *FreeCamera {
	return &FreeCamera{
		Speed:           float64(sceneSize) / 4,
		LookSensitivity: 0.005,
		SpeedFactor:     1.5,
	}
}

const maxPitch = gomath.Pi/2 - 0.01

// Orientation returns the world-to-camera rotation.
func (c *FreeCamera) Orientation() mgl64.Mat3 {
	return mgl64.Rotate3DX(c.Pitch).Mul3(mgl64.Rotate3DY(-c.Yaw))
}

// Forward returns the camera's view direction in world space.
func (c *FreeCamera) Forward() mgl64.Vec3 {
	cp := gomath.Cos(c.Pitch)
	return mgl64.Vec3{
		gomath.Sin(c.Yaw) * cp,
		gomath.Sin(c.Pitch),
		gomath.Cos(c.Yaw) * cp,
	}
}

// Right returns the camera's right direction on the horizontal plane.
func (c *FreeCamera) Right() mgl64.Vec3 {
	return mgl64.Vec3{gomath.Cos(c.Yaw), 0, -gomath.Sin(c.Yaw)}
}

// HandleDrag updates yaw and pitch from a mouse drag delta in pixels.
func (c *FreeCamera) HandleDrag(deltaX, deltaY float64) {
	c.Yaw += deltaX * c.LookSensitivity
	c.Pitch -= deltaY * c.LookSensitivity
	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	}
	if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}
}

// HandleWheel steps the movement speed up or down.
func (c *FreeCamera) HandleWheel(delta float64) {
	if delta > 0 {
		c.Speed *= c.SpeedFactor
	} else if delta < 0 {
		c.Speed /= c.SpeedFactor
	}
}

// Move translates the camera by the given axis amounts (each typically in
// -1..1) over dt seconds.
func (c *FreeCamera) Move(forward, right, up, dt float64) {
	step := c.Speed * dt
	d := c.Forward().Mul(forward * step)
	d = d.Add(c.Right().Mul(right * step))
	d = d.Add(mgl64.Vec3{0, up * step, 0})
	c.Position = c.Position.Add(d)
}

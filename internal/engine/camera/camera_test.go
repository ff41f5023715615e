package camera

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-9

func vecNear(a, b mgl64.Vec3) bool {
	return a.Sub(b).Len() < 1e-9
}

func TestOrientationOrthonormal(t *testing.T) {
	c := New(1 << 20)
	c.Yaw = 0.7
	c.Pitch = -0.3
	m := c.Orientation()

	// inverse == transpose
	p := m.Mul3(m.Transpose())
	id := mgl64.Ident3()
	for i := 0; i < 9; i++ {
		if gomath.Abs(p[i]-id[i]) > eps {
			t.Fatalf("M*M^T != I at element %d: %v", i, p)
		}
	}
	if gomath.Abs(m.Det()-1) > eps {
		t.Errorf("det = %v, want 1", m.Det())
	}
}

func TestOrientationMapsForwardToCameraZ(t *testing.T) {
	c := New(1 << 20)
	for _, pose := range [][2]float64{{0, 0}, {gomath.Pi / 2, 0}, {1.2, 0.4}, {-2.1, -0.9}} {
		c.Yaw, c.Pitch = pose[0], pose[1]
		got := c.Orientation().Mul3x1(c.Forward())
		if !vecNear(got, mgl64.Vec3{0, 0, 1}) {
			t.Errorf("yaw %.2f pitch %.2f: forward maps to %v, want +z", pose[0], pose[1], got)
		}
	}
}

func TestForwardAxes(t *testing.T) {
	c := New(1 << 20)
	if !vecNear(c.Forward(), mgl64.Vec3{0, 0, 1}) {
		t.Errorf("yaw 0 forward = %v, want +z", c.Forward())
	}
	c.Yaw = gomath.Pi / 2
	if !vecNear(c.Forward(), mgl64.Vec3{1, 0, 0}) {
		t.Errorf("yaw pi/2 forward = %v, want +x", c.Forward())
	}
}

func TestMoveFollowsForward(t *testing.T) {
	c := New(1 << 20)
	c.Speed = 10
	c.Yaw = gomath.Pi / 2
	c.Move(1, 0, 0, 2)
	if !vecNear(c.Position, mgl64.Vec3{20, 0, 0}) {
		t.Errorf("position = %v, want (20,0,0)", c.Position)
	}
	c.Move(0, 0, -1, 1)
	if !vecNear(c.Position, mgl64.Vec3{20, -10, 0}) {
		t.Errorf("position = %v, want (20,-10,0)", c.Position)
	}
}

func TestDragClampsPitch(t *testing.T) {
	c := New(1 << 20)
	c.HandleDrag(0, -1e6)
	if c.Pitch > maxPitch+eps {
		t.Errorf("pitch %v above clamp", c.Pitch)
	}
	c.HandleDrag(0, 1e6)
	if c.Pitch < -maxPitch-eps {
		t.Errorf("pitch %v below clamp", c.Pitch)
	}
}

func TestWheelStepsSpeed(t *testing.T) {
	c := New(1 << 20)
	s := c.Speed
	c.HandleWheel(1)
	if c.Speed <= s {
		t.Error("wheel up did not raise speed")
	}
	c.HandleWheel(-1)
	if gomath.Abs(c.Speed-s) > s*1e-12 {
		t.Errorf("wheel down did not restore speed: %v vs %v", c.Speed, s)
	}
}

package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/isomesh/pkg/math"
)

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

func TestPositionDistance(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: 1, Y: 2, Z: 3}
	c.RotationX, c.RotationY = 0.3, 1.1
	if d := c.Position().Distance(c.Center); !near(d, c.Distance) {
		t.Errorf("distance from center = %v, want %v", d, c.Distance)
	}
}

func TestViewMatrixLooksAtCenter(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: -2, Y: 0, Z: 1}
	p := c.ViewMatrix().TransformPoint(c.Center)
	if !near(p.X, 0) || !near(p.Y, 0) || !near(p.Z, -c.Distance) {
		t.Errorf("center in view space = %v, want (0, 0, %v)", p, -c.Distance)
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 1e6)
	if c.RotationX != c.MaxPitch {
		t.Errorf("RotationX = %v, want %v", c.RotationX, c.MaxPitch)
	}
	c.HandleDrag(0, -1e6)
	if c.RotationX != c.MinPitch {
		t.Errorf("RotationX = %v, want %v", c.RotationX, c.MinPitch)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewOrbitCamera()
	for i := 0; i < 200; i++ {
		c.HandleZoom(1)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("Distance = %v, want %v", c.Distance, c.MinDistance)
	}
	for i := 0; i < 200; i++ {
		c.HandleZoom(-1)
	}
	if c.Distance != c.MaxDistance {
		t.Errorf("Distance = %v, want %v", c.Distance, c.MaxDistance)
	}
}

func TestSpinWraps(t *testing.T) {
	c := NewOrbitCamera()
	c.Spin(1, 7)
	if c.RotationY < 0 || c.RotationY >= 2*gomath.Pi {
		t.Errorf("RotationY = %v, want within [0, 2pi)", c.RotationY)
	}
	if !near(c.RotationY, float32(7-2*gomath.Pi)) {
		t.Errorf("RotationY = %v, want %v", c.RotationY, 7-2*gomath.Pi)
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 3, Y: 1, Z: 1}, gomath.Pi/2)
	if c.Center != (math.Vec3{X: 1, Y: 0, Z: 0}) {
		t.Errorf("Center = %v", c.Center)
	}
	// radius sqrt(6), sin(pi/4)
	want := float32(gomath.Sqrt(6) / gomath.Sin(gomath.Pi/4))
	if !near(c.Distance, want) {
		t.Errorf("Distance = %v, want %v", c.Distance, want)
	}

	before := *c
	c.FitToBounds(math.Vec3{X: 5}, math.Vec3{X: 5}, 1)
	if c.Distance != before.Distance {
		t.Error("a degenerate box should keep the distance")
	}
}

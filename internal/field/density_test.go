package field

import (
	"testing"

	"github.com/Faultbox/isomesh/pkg/math"
)

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			fn, err := Lookup(name, Params{Radius: 1, Seed: 7})
			if err != nil {
				t.Fatalf("Lookup(%q): %v", name, err)
			}
			p := math.Vec3{X: 0.3, Y: -0.2, Z: 0.1}
			if fn(p, 1.5, 0.5) != fn(p, 1.5, 0.5) {
				t.Error("density must be deterministic for fixed (p, t)")
			}
		})
	}

	if _, err := Lookup("teapot", Params{Radius: 1}); err == nil {
		t.Error("expected error for unknown field")
	}
	if _, err := Lookup("sphere", Params{}); err == nil {
		t.Error("expected error for zero radius")
	}
}

func TestSphereSurfaceAtHalf(t *testing.T) {
	c := math.Vec3{X: 1, Y: 2, Z: 3}
	fn := Sphere(c, 2)

	if got := fn(c.Add(math.Vec3{X: 2}), 0, 0); got != 0.5 {
		t.Errorf("density on the surface = %v, want 0.5", got)
	}
	if fn(c, 0, 0) >= 0.5 {
		t.Error("center should be inside (below 0.5)")
	}
	if fn(c.Add(math.Vec3{Y: 5}), 0, 0) <= 0.5 {
		t.Error("far point should be outside (above 0.5)")
	}
}

func TestTorusSurface(t *testing.T) {
	fn := Torus(math.Vec3{}, 2, 0.5)
	if got := fn(math.Vec3{X: 2.5}, 0, 0); got != 0.5 {
		t.Errorf("density on the tube surface = %v, want 0.5", got)
	}
	if fn(math.Vec3{}, 0, 0) <= 0.5 {
		t.Error("the hole of the torus should be outside")
	}
}

func TestGyroidAnimates(t *testing.T) {
	fn := Gyroid(math.Vec3{}, 1)
	p := math.Vec3{X: 0.1, Y: 0.2, Z: 0.3}
	if fn(p, 0, 1) == fn(p, 1, 1) {
		t.Error("gyroid should change over time")
	}
	if fn(p, 0, 0) != fn(p, 5, 0) {
		t.Error("zero interval should freeze the field")
	}
}

func TestNoiseDeterministic(t *testing.T) {
	a := NewNoise(42)
	b := NewNoise(42)
	for _, p := range [][3]float64{{0.1, 0.2, 0.3}, {5.5, -3.25, 7.75}, {100.1, 0, -0.5}} {
		if a.Eval(p[0], p[1], p[2]) != b.Eval(p[0], p[1], p[2]) {
			t.Errorf("same seed should give same noise at %v", p)
		}
	}
}

func TestNoiseZeroAtLatticePoints(t *testing.T) {
	n := NewNoise(1)
	for _, p := range [][3]float64{{0, 0, 0}, {1, 2, 3}, {-4, 5, -6}} {
		if v := n.Eval(p[0], p[1], p[2]); v != 0 {
			t.Errorf("noise at integer point %v = %v, want 0", p, v)
		}
	}
}

func TestNoiseRange(t *testing.T) {
	n := NewNoise(3)
	for i := 0; i < 1000; i++ {
		f := float64(i) * 0.137
		v := n.Octaves(f, f*0.61, -f*1.3, 3)
		if v < -1.1 || v > 1.1 {
			t.Fatalf("octave noise out of range at step %d: %v", i, v)
		}
	}
}

func TestNoiseBlobAnimates(t *testing.T) {
	fn := NoiseBlob(math.Vec3{}, 1, NewNoise(9))
	p := math.Vec3{X: 0.37, Y: 0.41, Z: -0.23}
	if fn(p, 0, 0.5) == fn(p, 3, 0.5) {
		t.Error("noise blob should change over time")
	}
}

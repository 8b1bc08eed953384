package field

import (
	"fmt"
	gomath "math"
	"sort"

	"github.com/Faultbox/isomesh/pkg/math"
)

// DensityFunc returns the density at a world position for animation time t.
// interval scales how fast the field evolves with t. Implementations must be
// deterministic for a fixed (p, t) and safe for concurrent use.
//
// The built-in fields are calibrated so their surface sits at density 0.5,
// with lower values inside.
type DensityFunc func(p math.Vec3, t, interval float32) float32

// Params configures the built-in density fields.
type Params struct {
	Center math.Vec3
	Radius float32
	Seed   int64
}

var builtins = map[string]func(Params) DensityFunc{
	"noise":  func(p Params) DensityFunc { return NoiseBlob(p.Center, p.Radius, NewNoise(p.Seed)) },
	"sphere": func(p Params) DensityFunc { return Sphere(p.Center, p.Radius) },
	"torus":  func(p Params) DensityFunc { return Torus(p.Center, p.Radius, p.Radius/3) },
	"gyroid": func(p Params) DensityFunc { return Gyroid(p.Center, p.Radius) },
}

// Lookup returns the built-in density field registered under name.
func Lookup(name string, p Params) (DensityFunc, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown density field %q (have %v)", name, Names())
	}
	if p.Radius <= 0 {
		return nil, fmt.Errorf("density field %q: radius must be positive, got %v", name, p.Radius)
	}
	return build(p), nil
}

// Names lists the built-in density fields.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Constant returns a field with the same density everywhere.
func Constant(v float32) DensityFunc {
	return func(math.Vec3, float32, float32) float32 { return v }
}

// Sphere is a static ball of the given radius.
func Sphere(center math.Vec3, radius float32) DensityFunc {
	return func(p math.Vec3, _, _ float32) float32 {
		return p.Distance(center) / (2 * radius)
	}
}

// Torus is a static ring in the XZ plane.
func Torus(center math.Vec3, major, minor float32) DensityFunc {
	return func(p math.Vec3, _, _ float32) float32 {
		q := p.Sub(center)
		ring := float32(gomath.Hypot(float64(q.X), float64(q.Z))) - major
		d := float32(gomath.Hypot(float64(ring), float64(q.Y)))
		return d / (2 * minor)
	}
}

// Gyroid is a periodic minimal-surface lattice with the given period,
// drifting along its diagonal as t advances.
func Gyroid(center math.Vec3, period float32) DensityFunc {
	k := 2 * gomath.Pi / float64(period)
	return func(p math.Vec3, t, interval float32) float32 {
		phase := float64(t * interval)
		q := p.Sub(center)
		x := float64(q.X)*k + phase
		y := float64(q.Y)*k + phase
		z := float64(q.Z)*k + phase
		g := gomath.Sin(x)*gomath.Cos(y) + gomath.Sin(y)*gomath.Cos(z) + gomath.Sin(z)*gomath.Cos(x)
		return float32(0.5 + g/6)
	}
}

// NoiseBlob is a ball whose surface is displaced by animated gradient
// noise. Noise coordinates are measured in radii and scroll through the
// noise volume at interval units per second.
func NoiseBlob(center math.Vec3, radius float32, n *Noise) DensityFunc {
	const amplitude = 0.35
	return func(p math.Vec3, t, interval float32) float32 {
		q := p.Sub(center).Scale(1.5 / radius)
		drift := float64(t * interval)
		d := n.Octaves(float64(q.X)+drift, float64(q.Y)+drift*0.7, float64(q.Z)-drift*0.3, 3)
		return p.Distance(center)/(2*radius) + float32(d)*amplitude
	}
}

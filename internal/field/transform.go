package field

import "github.com/Faultbox/isomesh/pkg/math"

// Transform maps lattice coordinates to world space. The lattice is centred
// on Center and spans Width world units along each axis, so one lattice step
// is Width/Res.
type Transform struct {
	Res    int
	Width  float32
	Center math.Vec3
}

// CellSize returns the world size of one lattice step.
func (t Transform) CellSize() float32 {
	return t.Width / float32(t.Res)
}

// Matrix returns the lattice-to-world matrix.
func (t Transform) Matrix() math.Mat4 {
	cs := t.CellSize()
	origin := t.Center.Sub(math.Vec3{X: 1, Y: 1, Z: 1}.Scale(float32(t.Res) / 2 * cs))
	return math.Translate(origin).Mul(math.Scale(cs, cs, cs))
}

// Apply maps a lattice coordinate to world space.
func (t Transform) Apply(p math.Vec3) math.Vec3 {
	half := float32(t.Res) / 2
	return t.Center.Add(p.Sub(math.Vec3{X: half, Y: half, Z: half}).Scale(t.CellSize()))
}

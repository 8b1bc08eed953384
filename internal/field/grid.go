// Package field holds the sampled density lattice and the density functions
// that fill it each frame.
package field

import (
	"fmt"

	"github.com/Faultbox/isomesh/pkg/math"
)

// WrapMode controls how lattice reads outside [0, Res) are resolved.
type WrapMode int

const (
	// WrapClamp clamps out-of-range coordinates to the border. Only cells
	// fully inside the lattice are extracted.
	WrapClamp WrapMode = iota
	// WrapRepeat wraps coordinates modulo Res, like a repeating volume
	// texture. Every lattice point owns a cell.
	WrapRepeat
)

// ParseWrapMode converts a config string to a WrapMode.
func ParseWrapMode(s string) (WrapMode, error) {
	switch s {
	case "", "clamp":
		return WrapClamp, nil
	case "repeat":
		return WrapRepeat, nil
	default:
		return WrapClamp, fmt.Errorf("unknown wrap mode %q", s)
	}
}

// String returns the config name of the mode.
func (w WrapMode) String() string {
	if w == WrapRepeat {
		return "repeat"
	}
	return "clamp"
}

// Grid is a cubic lattice of densities, x varying fastest.
type Grid struct {
	res    int
	wrap   WrapMode
	values []float32
}

// NewGrid allocates a res×res×res grid of zeros.
func NewGrid(res int, wrap WrapMode) *Grid {
	return &Grid{
		res:    res,
		wrap:   wrap,
		values: make([]float32, res*res*res),
	}
}

// NewGridFromValues wraps existing densities. len(values) must be res³.
func NewGridFromValues(res int, wrap WrapMode, values []float32) (*Grid, error) {
	if len(values) != res*res*res {
		return nil, fmt.Errorf("grid of resolution %d needs %d values, got %d", res, res*res*res, len(values))
	}
	return &Grid{res: res, wrap: wrap, values: values}, nil
}

// Res returns the number of lattice points along each axis.
func (g *Grid) Res() int { return g.res }

// Wrap returns the grid's wrap mode.
func (g *Grid) Wrap() WrapMode { return g.wrap }

// Values exposes the backing slice.
func (g *Grid) Values() []float32 { return g.values }

// Index returns the flat index of an in-range lattice point.
func (g *Grid) Index(x, y, z int) int {
	return x + g.res*(y+g.res*z)
}

// Set writes the density at an in-range lattice point.
func (g *Grid) Set(x, y, z int, v float32) {
	g.values[g.Index(x, y, z)] = v
}

// Fill sets every lattice point to v.
func (g *Grid) Fill(v float32) {
	for i := range g.values {
		g.values[i] = v
	}
}

// At returns the density at a lattice point, resolving out-of-range
// coordinates according to the wrap mode.
func (g *Grid) At(x, y, z int) float32 {
	return g.values[g.Index(g.resolve(x), g.resolve(y), g.resolve(z))]
}

// CellCount returns the number of cells along each axis.
func (g *Grid) CellCount() int {
	if g.wrap == WrapRepeat {
		return g.res
	}
	return g.res - 1
}

// Gradient returns the central-difference density gradient at a lattice
// point. Clamped borders fall back to one-sided differences.
func (g *Grid) Gradient(x, y, z int) math.Vec3 {
	return math.Vec3{
		X: g.diff(x, func(i int) float32 { return g.At(i, y, z) }),
		Y: g.diff(y, func(i int) float32 { return g.At(x, i, z) }),
		Z: g.diff(z, func(i int) float32 { return g.At(x, y, i) }),
	}
}

func (g *Grid) diff(i int, at func(int) float32) float32 {
	lo, hi := i-1, i+1
	if g.wrap == WrapClamp {
		lo = max(lo, 0)
		hi = min(hi, g.res-1)
	}
	if hi == lo {
		return 0
	}
	return (at(hi) - at(lo)) / float32(hi-lo)
}

func (g *Grid) resolve(i int) int {
	if g.wrap == WrapRepeat {
		i %= g.res
		if i < 0 {
			i += g.res
		}
		return i
	}
	return min(max(i, 0), g.res-1)
}

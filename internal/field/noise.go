package field

import (
	gomath "math"
	"math/rand"
)

// Noise is 3D gradient noise (improved Perlin). Output lies roughly in
// [-1, 1] and is zero at integer lattice points.
type Noise struct {
	perm [512]uint8
}

// NewNoise builds a noise source whose permutation is derived from seed.
func NewNoise(seed int64) *Noise {
	n := &Noise{}
	p := rand.New(rand.NewSource(seed)).Perm(256)
	for i := 0; i < 512; i++ {
		n.perm[i] = uint8(p[i&255])
	}
	return n
}

// Eval samples the noise at (x, y, z).
func (n *Noise) Eval(x, y, z float64) float64 {
	xf, yf, zf := gomath.Floor(x), gomath.Floor(y), gomath.Floor(z)
	xi, yi, zi := int(xf)&255, int(yf)&255, int(zf)&255
	x, y, z = x-xf, y-yf, z-zf
	u, v, w := fade(x), fade(y), fade(z)

	p := &n.perm
	a := int(p[xi]) + yi
	aa := int(p[a]) + zi
	ab := int(p[a+1]) + zi
	b := int(p[xi+1]) + yi
	ba := int(p[b]) + zi
	bb := int(p[b+1]) + zi

	return lerp(w,
		lerp(v,
			lerp(u, grad(p[aa], x, y, z), grad(p[ba], x-1, y, z)),
			lerp(u, grad(p[ab], x, y-1, z), grad(p[bb], x-1, y-1, z))),
		lerp(v,
			lerp(u, grad(p[aa+1], x, y, z-1), grad(p[ba+1], x-1, y, z-1)),
			lerp(u, grad(p[ab+1], x, y-1, z-1), grad(p[bb+1], x-1, y-1, z-1))))
}

// Octaves sums count octaves of noise, each at double the frequency and
// half the amplitude of the previous one, normalised back to roughly [-1, 1].
func (n *Noise) Octaves(x, y, z float64, count int) float64 {
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for i := 0; i < count; i++ {
		sum += amp * n.Eval(x*freq, y*freq, z*freq)
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad(hash uint8, x, y, z float64) float64 {
	h := hash & 15
	u := y
	if h < 8 {
		u = x
	}
	var v float64
	switch {
	case h < 4:
		v = y
	case h == 12 || h == 14:
		v = x
	default:
		v = z
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

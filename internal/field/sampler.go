package field

import (
	"context"
	"fmt"

	"github.com/Faultbox/isomesh/internal/parallel"
	"github.com/Faultbox/isomesh/pkg/math"
)

// Sampler evaluates a density function at every lattice point.
type Sampler struct {
	fn        DensityFunc
	transform Transform
	interval  float32
	workers   int
}

// NewSampler creates a sampler. workers <= 0 uses one worker per CPU.
func NewSampler(fn DensityFunc, transform Transform, interval float32, workers int) *Sampler {
	return &Sampler{
		fn:        fn,
		transform: transform,
		interval:  interval,
		workers:   workers,
	}
}

// SetFunc replaces the density function used by later Sample calls.
func (s *Sampler) SetFunc(fn DensityFunc) {
	s.fn = fn
}

// Sample overwrites g with the density at time t. Each lattice point is
// evaluated exactly once; z-slabs run in parallel and all writes are done
// when Sample returns.
func (s *Sampler) Sample(ctx context.Context, g *Grid, t float32) error {
	res := g.Res()
	if res != s.transform.Res {
		return fmt.Errorf("grid resolution %d does not match sampler resolution %d", res, s.transform.Res)
	}
	values := g.Values()

	return parallel.For(ctx, res, 1, s.workers, func(lo, hi int) error {
		for z := lo; z < hi; z++ {
			for y := 0; y < res; y++ {
				row := res * (y + res*z)
				for x := 0; x < res; x++ {
					p := s.transform.Apply(math.Vec3{X: float32(x), Y: float32(y), Z: float32(z)})
					values[row+x] = s.fn(p, t, s.interval)
				}
			}
		}
		return nil
	})
}

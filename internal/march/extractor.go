package march

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/Faultbox/isomesh/internal/field"
	"github.com/Faultbox/isomesh/internal/parallel"
	"github.com/Faultbox/isomesh/pkg/math"
)

// Options configures an Extractor.
type Options struct {
	// IsoLevel is the density of the surface. Densities below it are inside.
	IsoLevel float32
	// Smooth selects per-vertex gradient normals instead of flat face normals.
	Smooth bool
	// GroupSize is the edge length, in cells, of the cubic blocks handed to
	// workers.
	GroupSize int
	// Workers bounds the number of concurrent blocks. Zero means one per CPU.
	Workers int
}

// Stats describes one extraction pass.
type Stats struct {
	// Cells is the number of cells classified.
	Cells int
	// ActiveCells is the number of cells that produced triangles.
	ActiveCells int
	// Degenerate counts crossed edges whose densities were too close to
	// interpolate and were placed at the midpoint.
	Degenerate int
	// Overflow counts triangles that did not fit in the list.
	Overflow int
}

// Extractor turns a sampled grid into triangles.
type Extractor struct {
	opts      Options
	transform field.Transform
	smooth    atomic.Bool
}

// NewExtractor creates an extractor emitting positions through transform.
func NewExtractor(opts Options, transform field.Transform) *Extractor {
	if opts.GroupSize <= 0 {
		opts.GroupSize = 1
	}
	e := &Extractor{opts: opts, transform: transform}
	e.smooth.Store(opts.Smooth)
	return e
}

// SetSmooth switches between smooth and flat normals for later passes.
func (e *Extractor) SetSmooth(smooth bool) { e.smooth.Store(smooth) }

// Smooth reports whether smooth normals are enabled.
func (e *Extractor) Smooth() bool { return e.smooth.Load() }

// Extract classifies every cell of g and appends the resulting triangles to
// list. Cells are processed in parallel blocks and in no particular order.
// The caller resets the list beforehand; when Extract returns, all
// reservations are final and list.Count() is safe to read.
func (e *Extractor) Extract(ctx context.Context, g *field.Grid, list *TriangleList) (Stats, error) {
	cells := g.CellCount()
	gs := e.opts.GroupSize
	blocks := (cells + gs - 1) / gs
	smooth := e.Smooth()

	var active, degenerate, overflow atomic.Int64
	err := parallel.For(ctx, blocks*blocks*blocks, 1, e.opts.Workers, func(lo, hi int) error {
		var st Stats
		for b := lo; b < hi; b++ {
			bx, by, bz := b%blocks, (b/blocks)%blocks, b/(blocks*blocks)
			for z := bz * gs; z < min((bz+1)*gs, cells); z++ {
				for y := by * gs; y < min((by+1)*gs, cells); y++ {
					for x := bx * gs; x < min((bx+1)*gs, cells); x++ {
						e.marchCell(g, x, y, z, smooth, list, &st)
					}
				}
			}
		}
		active.Add(int64(st.ActiveCells))
		degenerate.Add(int64(st.Degenerate))
		overflow.Add(int64(st.Overflow))
		return nil
	})

	stats := Stats{
		Cells:       cells * cells * cells,
		ActiveCells: int(active.Load()),
		Degenerate:  int(degenerate.Load()),
		Overflow:    int(overflow.Load()),
	}
	if err != nil {
		return stats, err
	}
	if stats.Overflow > 0 {
		return stats, fmt.Errorf("%w: %d triangles for capacity %d", ErrCapacityExceeded, list.Count(), list.Cap())
	}
	return stats, nil
}

// marchCell triangulates the cell whose minimum corner is (x, y, z).
func (e *Extractor) marchCell(g *field.Grid, x, y, z int, smooth bool, list *TriangleList, st *Stats) {
	iso := e.opts.IsoLevel

	var d [8]float32
	for i, o := range cornerOffsets {
		d[i] = g.At(x+o[0], y+o[1], z+o[2])
	}
	code := ConfigCode(d, iso)
	mask := edgeTable[code]
	if mask == 0 {
		return
	}
	st.ActiveCells++

	var grads [8]math.Vec3
	for i, o := range cornerOffsets {
		grads[i] = g.Gradient(x+o[0], y+o[1], z+o[2])
	}

	base := math.Vec3{X: float32(x), Y: float32(y), Z: float32(z)}
	var pos, grad [12]math.Vec3
	for edge, c := range edgeCorners {
		if mask&(1<<edge) == 0 {
			continue
		}
		a, b := c[0], c[1]
		t, degen := crossing(d[a], d[b], iso)
		if degen {
			st.Degenerate++
		}
		p := base.Add(cornerVec(a)).Lerp(base.Add(cornerVec(b)), t)
		pos[edge] = e.transform.Apply(p)
		grad[edge] = grads[a].Lerp(grads[b], t)
	}

	row := &triTable[code]
	for k := 0; row[k] >= 0; k += 3 {
		tri := buildTriangle(pos, grad, row[k], row[k+1], row[k+2], smooth)
		if !list.Append(tri) {
			st.Overflow++
		}
	}
}

// buildTriangle assembles a triangle from three crossed edges. The winding
// is made counter-clockwise around the outward normal, outward being the
// direction of increasing density.
func buildTriangle(pos, grad [12]math.Vec3, e0, e1, e2 int8, smooth bool) Triangle {
	p := [3]math.Vec3{pos[e0], pos[e1], pos[e2]}
	g := [3]math.Vec3{grad[e0], grad[e1], grad[e2]}

	outward := g[0].Add(g[1]).Add(g[2])
	face := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
	if face.Dot(outward) < 0 {
		p[1], p[2] = p[2], p[1]
		g[1], g[2] = g[2], g[1]
		face = face.Neg()
	}

	flat := face.Normalize()
	if flat == (math.Vec3{}) {
		flat = outward.Normalize()
	}

	tri := Triangle{Pos: p}
	for i := range tri.Normal {
		n := flat
		if smooth {
			if gn := g[i].Normalize(); gn != (math.Vec3{}) {
				n = gn
			}
		}
		tri.Normal[i] = n
	}
	return tri
}

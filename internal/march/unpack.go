package march

import (
	"context"
	"fmt"

	"github.com/Faultbox/isomesh/internal/parallel"
	"github.com/Faultbox/isomesh/pkg/math"
)

// unpackBatch is the number of triangles each unpack task expands.
const unpackBatch = 256

// Arrays holds unpacked, renderer-ready vertex data. Triangle i uses
// Indices[3i:3i+3]; vertices are never shared between triangles.
type Arrays struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	Indices   []uint32
}

// Unpack expands the first count triangles of list into flat arrays sized
// exactly count*3. Triangles are expanded in parallel batches. A zero count
// returns empty arrays without starting any workers.
func Unpack(ctx context.Context, list *TriangleList, count, workers int) (Arrays, error) {
	if count < 0 || count > list.Cap() {
		return Arrays{}, fmt.Errorf("%w: unpacking %d triangles from capacity %d", ErrCapacityExceeded, count, list.Cap())
	}

	out := Arrays{
		Positions: make([]math.Vec3, count*3),
		Normals:   make([]math.Vec3, count*3),
		Indices:   make([]uint32, count*3),
	}
	if count == 0 {
		return out, ctx.Err()
	}

	tris := list.tris[:count]
	err := parallel.For(ctx, count, unpackBatch, workers, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			t := &tris[i]
			for k := 0; k < 3; k++ {
				j := 3*i + k
				out.Positions[j] = t.Pos[k]
				out.Normals[j] = t.Normal[k]
				out.Indices[j] = uint32(j)
			}
		}
		return nil
	})
	if err != nil {
		return Arrays{}, err
	}
	return out, nil
}

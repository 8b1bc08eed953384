// Package march implements parallel marching-cubes triangulation: per-cell
// classification, lock-free compaction into a bounded triangle list, and
// unpacking into flat vertex and index arrays.
package march

import "github.com/Faultbox/isomesh/pkg/math"

// MaxCellTriangles is the most triangles any configuration produces.
const MaxCellTriangles = 5

// degenerateTolerance is the relative density difference along an edge
// below which the two corners count as equal. It scales with the corner
// magnitudes, so fields of any amplitude interpolate normally.
const degenerateTolerance = 1e-6

// cornerOffsets gives the lattice offset of each cell corner. Corners 0-3
// lie on the bottom face (y), 4-7 on the top face (y+1).
var cornerOffsets = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1},
	{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {0, 1, 1},
}

// edgeCorners gives the two corners joined by each cell edge.
var edgeCorners = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// ConfigCode classifies a cell. Bit i is set when corner i is inside the
// surface, i.e. its density is below iso.
func ConfigCode(d [8]float32, iso float32) uint8 {
	var code uint8
	for i, v := range d {
		if v < iso {
			code |= 1 << i
		}
	}
	return code
}

// CellTriangles returns how many triangles a configuration produces.
func CellTriangles(code uint8) int {
	n := 0
	for _, e := range triTable[code] {
		if e < 0 {
			break
		}
		n++
	}
	return n / 3
}

// CrossedEdges returns the bit mask of edges the surface crosses for code.
func CrossedEdges(code uint8) uint16 {
	return edgeTable[code]
}

// crossing returns the interpolation fraction of iso between d0 and d1.
// Densities equal to within degenerateTolerance of their magnitude resolve
// to the midpoint and report degenerate.
func crossing(d0, d1, iso float32) (t float32, degenerate bool) {
	den := d1 - d0
	if abs32(den) <= degenerateTolerance*max(abs32(d0), abs32(d1)) {
		return 0.5, true
	}
	t = (iso - d0) / den
	return min(max(t, 0), 1), false
}

func cornerVec(i int) math.Vec3 {
	o := cornerOffsets[i]
	return math.Vec3{X: float32(o[0]), Y: float32(o[1]), Z: float32(o[2])}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

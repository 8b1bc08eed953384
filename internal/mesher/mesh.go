package mesher

import (
	"time"

	"github.com/Faultbox/isomesh/pkg/math"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max math.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Lerp(b.Max, 0.5)
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Mesh is one frame's triangle soup, ready for upload. Triangle i uses
// Indices[3i:3i+3]. A Mesh is immutable once published.
type Mesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	Indices   []uint32

	// Bounds encloses Positions. It is zero for an empty mesh.
	Bounds Bounds
	// Frame is the sequence number of the frame that built the mesh.
	Frame uint64
	// Time is the animation time the field was sampled at.
	Time float32
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Empty reports whether the mesh has no triangles.
func (m *Mesh) Empty() bool {
	return len(m.Indices) == 0
}

// Interleave packs each vertex as x, y, z, nx, ny, nz into dst, reusing its
// storage when large enough, and returns the packed slice.
func (m *Mesh) Interleave(dst []float32) []float32 {
	n := len(m.Positions) * 6
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]
	for i, p := range m.Positions {
		nm := m.Normals[i]
		v := dst[6*i : 6*i+6]
		v[0], v[1], v[2] = p.X, p.Y, p.Z
		v[3], v[4], v[5] = nm.X, nm.Y, nm.Z
	}
	return dst
}

func boundsOf(positions []math.Vec3) Bounds {
	if len(positions) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// FrameStats describes the last frame an Assembler ran.
type FrameStats struct {
	Frame       uint64
	Triangles   int
	Cells       int
	ActiveCells int
	Degenerate  int
	Overflow    int
	SinkErrors  int

	Sample  time.Duration
	Extract time.Duration
	Unpack  time.Duration
	Total   time.Duration
}

// Sink receives every published mesh. Present runs on the goroutine that
// called Frame, after the mesh has become Current. A returned error is
// reported by Frame but does not withdraw the mesh from other sinks.
type Sink interface {
	Present(m *Mesh) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(m *Mesh) error

// Present calls f(m).
func (f SinkFunc) Present(m *Mesh) error { return f(m) }

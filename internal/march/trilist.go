package march

import (
	"errors"
	"sync/atomic"

	"github.com/Faultbox/isomesh/pkg/math"
)

// ErrCapacityExceeded reports that more triangles were produced than the
// triangle list can hold. It indicates a sizing bug, never a data problem.
var ErrCapacityExceeded = errors.New("triangle list capacity exceeded")

// Triangle is one extracted triangle with per-vertex normals.
type Triangle struct {
	Pos    [3]math.Vec3
	Normal [3]math.Vec3
}

// Counter is the shared append cursor. Producers call Next concurrently;
// Load is only meaningful once every producer has finished.
type Counter struct {
	n atomic.Uint64
}

// Reset sets the counter back to zero.
func (c *Counter) Reset() { c.n.Store(0) }

// Next reserves one slot and returns its index.
func (c *Counter) Next() uint64 { return c.n.Add(1) - 1 }

// Load returns the number of reservations made since the last Reset.
func (c *Counter) Load() uint64 { return c.n.Load() }

// TriangleList is a fixed-capacity append buffer written concurrently by
// extractor workers. Each slot is written by exactly one producer.
type TriangleList struct {
	tris    []Triangle
	counter Counter
}

// NewTriangleList allocates a list that holds up to capacity triangles.
func NewTriangleList(capacity int) *TriangleList {
	return &TriangleList{tris: make([]Triangle, capacity)}
}

// Cap returns the fixed capacity.
func (l *TriangleList) Cap() int { return len(l.tris) }

// Reset empties the list for the next frame. Storage is kept.
func (l *TriangleList) Reset() { l.counter.Reset() }

// Reserve claims the next free slot. ok is false once the list is full;
// the reservation is still counted so overflow can be measured.
func (l *TriangleList) Reserve() (slot int, ok bool) {
	i := l.counter.Next()
	if i >= uint64(len(l.tris)) {
		return 0, false
	}
	return int(i), true
}

// Put writes a triangle into a reserved slot.
func (l *TriangleList) Put(slot int, t Triangle) {
	l.tris[slot] = t
}

// Append reserves a slot and writes t into it.
func (l *TriangleList) Append(t Triangle) bool {
	slot, ok := l.Reserve()
	if ok {
		l.tris[slot] = t
	}
	return ok
}

// Count returns the number of reservations, which may exceed Cap after an
// overflow. Call only after all producers are done.
func (l *TriangleList) Count() int { return int(l.counter.Load()) }

// Triangles returns the occupied prefix. Call only after all producers
// are done.
func (l *TriangleList) Triangles() []Triangle {
	return l.tris[:min(l.Count(), len(l.tris))]
}

package mesher

import (
	"testing"

	"github.com/Faultbox/isomesh/pkg/math"
)

func TestBoundsOf(t *testing.T) {
	tests := []struct {
		name string
		in   []math.Vec3
		want Bounds
	}{
		{"empty", nil, Bounds{}},
		{"single", []math.Vec3{{X: 1, Y: 2, Z: 3}}, Bounds{Min: math.Vec3{X: 1, Y: 2, Z: 3}, Max: math.Vec3{X: 1, Y: 2, Z: 3}}},
		{"spread", []math.Vec3{{X: 1, Y: -2, Z: 0}, {X: -1, Y: 4, Z: 2}}, Bounds{Min: math.Vec3{X: -1, Y: -2, Z: 0}, Max: math.Vec3{X: 1, Y: 4, Z: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := boundsOf(tt.in); got != tt.want {
				t.Errorf("boundsOf() = %+v, want %+v", got, tt.want)
			}
		})
	}

	b := Bounds{Min: math.Vec3{X: -1, Y: 0, Z: 2}, Max: math.Vec3{X: 1, Y: 4, Z: 2}}
	if b.Center() != (math.Vec3{X: 0, Y: 2, Z: 2}) {
		t.Errorf("Center() = %v", b.Center())
	}
	if b.Size() != (math.Vec3{X: 2, Y: 4, Z: 0}) {
		t.Errorf("Size() = %v", b.Size())
	}
}

func TestInterleave(t *testing.T) {
	m := &Mesh{
		Positions: []math.Vec3{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}, {X: 7, Y: 8, Z: 9}},
		Normals:   []math.Vec3{{X: 0, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}},
		Indices:   []uint32{0, 1, 2},
	}
	got := m.Interleave(nil)
	want := []float32{1, 2, 3, 0, 1, 0, 4, 5, 6, 1, 0, 0, 7, 8, 9, 0, 0, 1}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Interleave()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	buf := make([]float32, 0, 64)
	reused := m.Interleave(buf)
	if &reused[0] != &buf[:1][0] {
		t.Error("Interleave should reuse a large enough buffer")
	}
	if m.TriangleCount() != 1 || m.Empty() {
		t.Errorf("TriangleCount() = %d", m.TriangleCount())
	}
}

package field

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Faultbox/isomesh/pkg/math"
)

func TestSamplerEvaluatesEachPointOnce(t *testing.T) {
	const res = 8
	tr := Transform{Res: res, Width: res, Center: math.Vec3{X: res / 2, Y: res / 2, Z: res / 2}}

	var mu sync.Mutex
	seen := make(map[math.Vec3]int)
	fn := func(p math.Vec3, t, interval float32) float32 {
		mu.Lock()
		seen[p]++
		mu.Unlock()
		return p.X + 10*p.Y + 100*p.Z
	}

	g := NewGrid(res, WrapClamp)
	s := NewSampler(fn, tr, 0.5, 3)
	if err := s.Sample(context.Background(), g, 1); err != nil {
		t.Fatalf("Sample: %v", err)
	}

	if len(seen) != res*res*res {
		t.Fatalf("expected %d distinct points, got %d", res*res*res, len(seen))
	}
	for p, n := range seen {
		if n != 1 {
			t.Errorf("point %v evaluated %d times", p, n)
		}
	}
	if got := g.At(3, 2, 1); got != 3+20+100 {
		t.Errorf("At(3,2,1) = %v, want 123", got)
	}
}

func TestSamplerPassesTimeAndInterval(t *testing.T) {
	var gotT, gotInterval float32
	var once sync.Once
	fn := func(p math.Vec3, t, interval float32) float32 {
		once.Do(func() { gotT, gotInterval = t, interval })
		return 0
	}
	tr := Transform{Res: 2, Width: 1}
	if err := NewSampler(fn, tr, 0.05, 1).Sample(context.Background(), NewGrid(2, WrapClamp), 2.5); err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if gotT != 2.5 || gotInterval != 0.05 {
		t.Errorf("got t=%v interval=%v, want 2.5 and 0.05", gotT, gotInterval)
	}
}

func TestSamplerResolutionMismatch(t *testing.T) {
	s := NewSampler(Constant(1), Transform{Res: 4, Width: 1}, 1, 1)
	if err := s.Sample(context.Background(), NewGrid(8, WrapClamp), 0); err == nil {
		t.Error("expected error for mismatched resolution")
	}
}

func TestSamplerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewSampler(Constant(1), Transform{Res: 4, Width: 1}, 1, 1)
	err := s.Sample(ctx, NewGrid(4, WrapClamp), 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

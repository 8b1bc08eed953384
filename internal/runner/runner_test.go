package runner

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Faultbox/isomesh/internal/field"
	"github.com/Faultbox/isomesh/internal/mesher"
	"github.com/Faultbox/isomesh/pkg/math"
)

func newAssembler(t *testing.T, fn field.DensityFunc) *mesher.Assembler {
	t.Helper()
	cfg := mesher.DefaultConfig()
	cfg.GridRes = 16
	cfg.GroupSize = 4
	a, err := mesher.New(cfg, fn, mesher.WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("mesher.New: %v", err)
	}
	return a
}

func TestRun(t *testing.T) {
	var times []float32
	sink := mesher.SinkFunc(func(m *mesher.Mesh) error {
		times = append(times, m.Time)
		return nil
	})
	cfg := mesher.DefaultConfig()
	cfg.GridRes = 16
	cfg.GroupSize = 4
	a, err := mesher.New(cfg, field.Sphere(math.Vec3{}, 0.6), mesher.WithSink(sink), mesher.WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("mesher.New: %v", err)
	}

	sum, err := Run(context.Background(), a, Options{Frames: 4, TimeStep: 0.5, Start: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Frames != 4 || sum.Last == nil || sum.Last.Frame != 4 {
		t.Fatalf("summary = %+v", sum)
	}
	// A static sphere gives the same count every frame.
	if sum.MinTriangles != sum.MaxTriangles || sum.Triangles != 4*sum.MinTriangles || sum.MinTriangles == 0 {
		t.Errorf("triangles min %d max %d total %d", sum.MinTriangles, sum.MaxTriangles, sum.Triangles)
	}
	want := []float32{1, 1.5, 2, 2.5}
	for i := range want {
		if times[i] != want[i] {
			t.Errorf("frame %d sampled at t=%v, want %v", i, times[i], want[i])
		}
	}
	if sum.MeanFrame() <= 0 {
		t.Error("MeanFrame should be positive")
	}
}

func TestRunAnimatedField(t *testing.T) {
	a := newAssembler(t, field.NoiseBlob(math.Vec3{}, 0.6, field.NewNoise(3)))
	sum, err := Run(context.Background(), a, Options{Frames: 3, TimeStep: 0.25})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.MaxTriangles == 0 {
		t.Error("noise blob produced no surface")
	}
}

func TestRunCancelled(t *testing.T) {
	a := newAssembler(t, field.Sphere(math.Vec3{}, 0.6))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := Run(ctx, a, Options{Frames: 3, TimeStep: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if sum.Frames != 0 || sum.MeanFrame() != 0 {
		t.Errorf("summary = %+v, want no frames", sum)
	}
}

func TestRunRejectsZeroFrames(t *testing.T) {
	a := newAssembler(t, field.Sphere(math.Vec3{}, 0.6))
	if _, err := Run(context.Background(), a, Options{}); err == nil {
		t.Error("expected error for zero frames")
	}
}

// Package runner drives an Assembler for a fixed number of frames without a
// display, for benchmarking and batch export.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/isomesh/internal/logger"
	"github.com/Faultbox/isomesh/internal/mesher"
)

// Options controls a run.
type Options struct {
	Frames   int
	TimeStep float32 // Animation time between frames
	Start    float32 // Animation time of the first frame
}

// Summary aggregates the frames of a run.
type Summary struct {
	Frames       int
	Triangles    int // Total over all frames
	MinTriangles int
	MaxTriangles int
	Elapsed      time.Duration
	Last         *mesher.Mesh
}

// MeanFrame returns the average wall time per frame.
func (s Summary) MeanFrame() time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(s.Frames)
}

// Run renders opts.Frames frames at times Start, Start+TimeStep, ... and
// stops early when ctx is cancelled. The summary covers the frames that
// completed.
func Run(ctx context.Context, a *mesher.Assembler, opts Options) (Summary, error) {
	if opts.Frames <= 0 {
		return Summary{}, errors.New("frame count must be positive")
	}
	log := logger.Named("runner")

	var sum Summary
	start := time.Now()
	for i := 0; i < opts.Frames; i++ {
		t := opts.Start + float32(i)*opts.TimeStep
		m, err := a.Frame(ctx, t)
		if err != nil {
			sum.Elapsed = time.Since(start)
			return sum, fmt.Errorf("frame %d of %d: %w", i+1, opts.Frames, err)
		}

		n := m.TriangleCount()
		if sum.Frames == 0 || n < sum.MinTriangles {
			sum.MinTriangles = n
		}
		sum.MaxTriangles = max(sum.MaxTriangles, n)
		sum.Triangles += n
		sum.Frames++
		sum.Last = m

		if st := a.Stats(); i == 0 || (i+1)%30 == 0 {
			log.Info("frame",
				zap.Int("index", i+1),
				zap.Float32("t", t),
				zap.Int("triangles", n),
				zap.Duration("elapsed", st.Total))
		}
	}
	sum.Elapsed = time.Since(start)
	return sum, nil
}

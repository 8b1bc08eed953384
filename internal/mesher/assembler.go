// Package mesher runs the per-frame isosurface pipeline: sample the density
// field, extract triangles, unpack them into flat arrays and publish the
// resulting Mesh.
package mesher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/isomesh/internal/field"
	"github.com/Faultbox/isomesh/internal/logger"
	"github.com/Faultbox/isomesh/internal/march"
	"github.com/Faultbox/isomesh/internal/parallel"
)

// Option configures an Assembler.
type Option func(*options)

type options struct {
	sinks   []Sink
	workers int
	list    *march.TriangleList
	log     *zap.Logger
}

// WithSink registers a consumer of published meshes. Sinks run in
// registration order.
func WithSink(s Sink) Option {
	return func(o *options) { o.sinks = append(o.sinks, s) }
}

// WithWorkers overrides Config.Workers.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithTriangleList supplies the triangle storage instead of allocating it.
// Its capacity must be at least MaxTriangles(GridRes).
func WithTriangleList(l *march.TriangleList) Option {
	return func(o *options) { o.list = l }
}

// WithLogger sets the logger. The default is the global logger named
// "mesher".
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// Assembler owns the persistent grid and triangle list and turns them into
// a new Mesh on every Frame.
type Assembler struct {
	cfg       Config
	transform field.Transform
	workers   int
	grid      *field.Grid
	list      *march.TriangleList
	sampler   *field.Sampler
	extractor *march.Extractor
	sinks     []Sink
	log       *zap.Logger

	mu    sync.Mutex // serializes Frame
	frame uint64

	current atomic.Pointer[Mesh]
	stats   atomic.Pointer[FrameStats]
}

// New validates cfg and allocates the frame storage.
func New(cfg Config, fn field.DensityFunc, opts ...Option) (*Assembler, error) {
	o := options{workers: cfg.Workers}
	for _, opt := range opts {
		opt(&o)
	}
	cfg.Workers = o.workers
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: nil density function", ErrConfig)
	}

	need := MaxTriangles(cfg.GridRes)
	list := o.list
	if list == nil {
		list = march.NewTriangleList(need)
	} else if list.Cap() < need {
		return nil, fmt.Errorf("%w: triangle list holds %d, grid_res %d needs %d", ErrConfig, list.Cap(), cfg.GridRes, need)
	}
	log := o.log
	if log == nil {
		log = logger.Named("mesher")
	}

	workers := parallel.Workers(cfg.Workers)
	tr := cfg.Transform()
	a := &Assembler{
		cfg:       cfg,
		transform: tr,
		workers:   workers,
		grid:      field.NewGrid(cfg.GridRes, cfg.Wrap),
		list:      list,
		sampler:   field.NewSampler(fn, tr, cfg.NoiseInterval, workers),
		extractor: march.NewExtractor(march.Options{
			IsoLevel:  cfg.IsoLevel,
			Smooth:    cfg.EnableSmooth,
			GroupSize: cfg.GroupSize,
			Workers:   workers,
		}, tr),
		sinks: o.sinks,
		log:   log,
	}

	log.Info("mesher ready",
		zap.Int("grid_res", cfg.GridRes),
		zap.Int("group_size", cfg.GroupSize),
		zap.Stringer("wrap", cfg.Wrap),
		zap.Int("workers", workers),
		zap.Int("max_triangles", need))
	return a, nil
}

// Config returns the validated configuration.
func (a *Assembler) Config() Config { return a.cfg }

// Transform returns the lattice-to-world mapping.
func (a *Assembler) Transform() field.Transform { return a.transform }

// SetSmooth switches between smooth and flat normals from the next frame.
func (a *Assembler) SetSmooth(smooth bool) { a.extractor.SetSmooth(smooth) }

// Smooth reports whether smooth normals are enabled.
func (a *Assembler) Smooth() bool { return a.extractor.Smooth() }

// SetField replaces the density function from the next frame.
func (a *Assembler) SetField(fn field.DensityFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sampler.SetFunc(fn)
}

// Current returns the last published mesh, or nil before the first
// successful frame. Safe for concurrent use.
func (a *Assembler) Current() *Mesh { return a.current.Load() }

// Stats returns the statistics of the last frame attempted, or the zero
// value before any frame.
func (a *Assembler) Stats() FrameStats {
	if s := a.stats.Load(); s != nil {
		return *s
	}
	return FrameStats{}
}

// Frame samples the field at animation time t, extracts the surface and
// publishes the mesh. Publishing makes the mesh Current and then hands it
// to every sink, so all outputs agree on the latest frame. If the pipeline
// fails nothing is published and the previous mesh stays current. If only
// delivery fails, the mesh is still returned along with an error wrapping
// ErrDelivery and each sink's error. Concurrent calls run one at a time.
func (a *Assembler) Frame(ctx context.Context, t float32) (*Mesh, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.frame++
	start := time.Now()
	mesh, stats, err := a.build(ctx, t)
	stats.Total = time.Since(start)
	if err != nil {
		a.stats.Store(&stats)
		a.logFailure(err, stats)
		return nil, err
	}

	a.current.Store(mesh)
	err = a.deliver(mesh, &stats)
	a.stats.Store(&stats)

	a.log.Debug("frame",
		zap.Uint64("frame", stats.Frame),
		zap.Int("triangles", stats.Triangles),
		zap.Int("active_cells", stats.ActiveCells),
		zap.Int("degenerate", stats.Degenerate),
		zap.Duration("sample", stats.Sample),
		zap.Duration("extract", stats.Extract),
		zap.Duration("unpack", stats.Unpack),
		zap.Duration("total", stats.Total))
	return mesh, err
}

// deliver presents mesh to every sink, including those after a failing
// one, and combines their errors.
func (a *Assembler) deliver(mesh *Mesh, stats *FrameStats) error {
	var errs error
	for i, s := range a.sinks {
		if err := s.Present(mesh); err != nil {
			stats.SinkErrors++
			a.log.Error("sink failed",
				zap.Uint64("frame", mesh.Frame),
				zap.Int("sink", i),
				zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return fmt.Errorf("%w: frame %d: %w", ErrDelivery, mesh.Frame, errs)
	}
	return nil
}

// build runs the pipeline stages. Each stage returns only after all of its
// workers have finished, so the next stage sees complete data.
func (a *Assembler) build(ctx context.Context, t float32) (*Mesh, FrameStats, error) {
	stats := FrameStats{Frame: a.frame}
	start := time.Now()

	a.list.Reset()
	if err := a.sampler.Sample(ctx, a.grid, t); err != nil {
		return nil, stats, fmt.Errorf("sampling frame %d: %w", a.frame, err)
	}
	stats.Sample = time.Since(start)

	mark := time.Now()
	es, err := a.extractor.Extract(ctx, a.grid, a.list)
	stats.Extract = time.Since(mark)
	stats.Cells = es.Cells
	stats.ActiveCells = es.ActiveCells
	stats.Degenerate = es.Degenerate
	stats.Overflow = es.Overflow
	if err != nil {
		return nil, stats, fmt.Errorf("extracting frame %d: %w", a.frame, err)
	}

	count := a.list.Count()
	stats.Triangles = count

	mark = time.Now()
	arrays, err := march.Unpack(ctx, a.list, count, a.workers)
	stats.Unpack = time.Since(mark)
	if err != nil {
		return nil, stats, fmt.Errorf("unpacking frame %d: %w", a.frame, err)
	}

	mesh := &Mesh{
		Positions: arrays.Positions,
		Normals:   arrays.Normals,
		Indices:   arrays.Indices,
		Bounds:    boundsOf(arrays.Positions),
		Frame:     a.frame,
		Time:      t,
	}
	return mesh, stats, nil
}

func (a *Assembler) logFailure(err error, stats FrameStats) {
	fields := []zap.Field{zap.Uint64("frame", stats.Frame), zap.Error(err)}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		a.log.Warn("frame aborted", fields...)
	case errors.Is(err, march.ErrCapacityExceeded):
		a.log.Error("triangle list overflow", append(fields, zap.Int("overflow", stats.Overflow))...)
	default:
		a.log.Error("frame failed", fields...)
	}
}

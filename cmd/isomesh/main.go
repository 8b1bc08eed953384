// Command isomesh runs the isosurface pipeline headless for a fixed number
// of frames, logging per-frame statistics and optionally saving each frame
// as an STL file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/unixpickle/essentials"
	"go.uber.org/zap"

	"github.com/Faultbox/isomesh/internal/config"
	"github.com/Faultbox/isomesh/internal/export"
	"github.com/Faultbox/isomesh/internal/logger"
	"github.com/Faultbox/isomesh/internal/mesher"
	"github.com/Faultbox/isomesh/internal/runner"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	essentials.Must(logger.Init(cfg.Logging.Level, cfg.Logging.LogFile))
	defer logger.Sync()

	logger.Info("=== isomesh ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	mc, fn, err := mesher.FromConfig(cfg)
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	var opts []mesher.Option
	var stl *export.STLSink
	if cfg.Export.STLDir != "" {
		stl, err = export.NewSTLSink(cfg.Export.STLDir, cfg.Export.Every)
		essentials.Must(err)
		opts = append(opts, mesher.WithSink(stl))
	}
	a, err := mesher.New(mc, fn, opts...)
	essentials.Must(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := runner.Run(ctx, a, runner.Options{
		Frames:   cfg.Pipeline.Frames,
		TimeStep: cfg.Pipeline.TimeStep,
	})
	switch {
	case errors.Is(err, context.Canceled):
		logger.Warn("interrupted", zap.Int("frames", sum.Frames))
	case err != nil:
		logger.Error("run failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	fields := []zap.Field{
		zap.Int("frames", sum.Frames),
		zap.Int("min_triangles", sum.MinTriangles),
		zap.Int("max_triangles", sum.MaxTriangles),
		zap.Duration("mean_frame", sum.MeanFrame()),
		zap.Duration("elapsed", sum.Elapsed),
	}
	if stl != nil {
		fields = append(fields, zap.Int("stl_files", stl.Written()), zap.String("stl_dir", cfg.Export.STLDir))
	}
	logger.Info("done", fields...)
}

// Command isoviewer shows the animated isosurface in an OpenGL window.
//
// Controls: drag with the left button to orbit, scroll to zoom, S toggles
// smooth normals, W toggles wireframe, F cycles density fields, P saves a
// screenshot, Space pauses, F11 toggles fullscreen and Escape quits.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/isomesh/internal/config"
	"github.com/Faultbox/isomesh/internal/field"
	"github.com/Faultbox/isomesh/internal/logger"
	"github.com/Faultbox/isomesh/internal/mesher"
	"github.com/Faultbox/isomesh/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== isoviewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	mc, fn, err := mesher.FromConfig(cfg)
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	params := field.Params{
		Center: mc.CenterPos,
		Radius: cfg.Field.Radius,
		Seed:   cfg.Field.Seed,
	}
	fields := make(map[string]field.DensityFunc)
	for _, name := range field.Names() {
		f, err := field.Lookup(name, params)
		if err != nil {
			logger.Error("density field", zap.String("name", name), zap.Error(err))
			os.Exit(1)
		}
		fields[name] = f
	}

	v, err := viewer.New(viewer.Config{
		Title:      "isoviewer",
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
		Samples:    cfg.Viewer.Samples,
		Spin:       cfg.Viewer.Spin,
		TimeStep:   1,
		Fields:     fields,
		Field:      cfg.Field.Name,
		ShotDir:    "screenshots",
	}, mc, fn)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := v.Run(ctx); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

package config

import (
	"flag"
	"math"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagRes        = flag.Int("res", 0, "Lattice points per axis")
	flagIso        = flag.Float64("iso", math.NaN(), "Iso level of the surface")
	flagSmooth     = flag.Bool("smooth", false, "Use smooth gradient normals")
	flagFlat       = flag.Bool("flat", false, "Use flat face normals")
	flagField      = flag.String("field", "", "Density function name")
	flagWorkers    = flag.Int("workers", 0, "Worker goroutines per stage")
	flagFrames     = flag.Int("frames", 0, "Frames to run (headless)")
	flagSTL        = flag.String("stl", "", "Directory for per-frame STL export")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagRes > 0 {
		cfg.Surface.GridRes = *flagRes
	}
	if !math.IsNaN(*flagIso) {
		cfg.Surface.IsoLevel = float32(*flagIso)
	}
	if *flagSmooth {
		cfg.Surface.Smooth = true
	}
	if *flagFlat {
		cfg.Surface.Smooth = false
	}
	if *flagField != "" {
		cfg.Field.Name = *flagField
	}
	if *flagWorkers > 0 {
		cfg.Pipeline.Workers = *flagWorkers
	}
	if *flagFrames > 0 {
		cfg.Pipeline.Frames = *flagFrames
	}
	if *flagSTL != "" {
		cfg.Export.STLDir = *flagSTL
	}
	if *flagWindowed {
		cfg.Viewer.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
}

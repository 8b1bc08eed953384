// Package config handles isomesh configuration loading and management.
package config

// Config holds all isomesh settings.
type Config struct {
	Surface  SurfaceConfig  `yaml:"surface"`
	Field    FieldConfig    `yaml:"field"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Export   ExportConfig   `yaml:"export"`
	Viewer   ViewerConfig   `yaml:"viewer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SurfaceConfig holds the lattice and extraction settings.
type SurfaceConfig struct {
	GridRes   int        `yaml:"grid_res"`   // Lattice points per axis
	GroupSize int        `yaml:"group_size"` // Cells per worker block edge
	GridW     float32    `yaml:"grid_w"`     // World extent of the lattice
	Center    [3]float32 `yaml:"center"`
	IsoLevel  float32    `yaml:"iso_level"`
	Smooth    bool       `yaml:"smooth"`
	Wrap      string     `yaml:"wrap"` // clamp or repeat
}

// FieldConfig selects and parameterises the density function.
type FieldConfig struct {
	Name          string  `yaml:"name"`
	NoiseInterval float32 `yaml:"noise_interval"`
	Radius        float32 `yaml:"radius"`
	Seed          int64   `yaml:"seed"`
}

// PipelineConfig holds frame loop settings.
type PipelineConfig struct {
	Workers  int     `yaml:"workers"` // 0 means one per CPU
	Frames   int     `yaml:"frames"`  // Headless runner only
	TimeStep float32 `yaml:"time_step"`
}

// ExportConfig holds STL export settings.
type ExportConfig struct {
	STLDir string `yaml:"stl_dir"` // Empty disables export
	Every  int    `yaml:"every"`
}

// ViewerConfig holds window settings for the interactive viewer.
type ViewerConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	Samples    int     `yaml:"samples"` // MSAA samples, 0 disables
	Spin       float32 `yaml:"spin"`    // Radians per second of automatic orbit
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Surface: SurfaceConfig{
			GridRes:   64,
			GroupSize: 8,
			GridW:     2,
			IsoLevel:  0.5,
			Smooth:    true,
			Wrap:      "clamp",
		},
		Field: FieldConfig{
			Name:          "noise",
			NoiseInterval: 1,
			Radius:        0.6,
			Seed:          1,
		},
		Pipeline: PipelineConfig{
			Workers:  0,
			Frames:   120,
			TimeStep: 1.0 / 60,
		},
		Export: ExportConfig{
			STLDir: "",
			Every:  1,
		},
		Viewer: ViewerConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Samples:    4,
			Spin:       0.3,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

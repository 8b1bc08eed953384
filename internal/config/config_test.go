package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Surface defaults
	if cfg.Surface.GridRes != 64 {
		t.Errorf("expected grid_res 64, got %d", cfg.Surface.GridRes)
	}
	if cfg.Surface.GroupSize != 8 {
		t.Errorf("expected group_size 8, got %d", cfg.Surface.GroupSize)
	}
	if cfg.Surface.GridRes%cfg.Surface.GroupSize != 0 {
		t.Error("default grid_res should be a multiple of group_size")
	}
	if cfg.Surface.IsoLevel != 0.5 {
		t.Errorf("expected iso_level 0.5, got %f", cfg.Surface.IsoLevel)
	}
	if cfg.Surface.Wrap != "clamp" {
		t.Errorf("expected wrap 'clamp', got %s", cfg.Surface.Wrap)
	}

	// Field defaults
	if cfg.Field.Name != "noise" {
		t.Errorf("expected field 'noise', got %s", cfg.Field.Name)
	}
	if cfg.Field.NoiseInterval != 1 {
		t.Errorf("expected noise_interval 1, got %f", cfg.Field.NoiseInterval)
	}

	// Viewer defaults
	if cfg.Viewer.Width != 1280 || cfg.Viewer.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Viewer.Width, cfg.Viewer.Height)
	}
	if cfg.Viewer.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if cfg.Viewer.Samples != 4 {
		t.Errorf("expected 4 MSAA samples, got %d", cfg.Viewer.Samples)
	}
	if !cfg.Viewer.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
surface:
  grid_res: 32
  group_size: 4
  grid_w: 4
  center: [1, 2, 3]
  iso_level: 0.25
  smooth: false
  wrap: repeat

field:
  name: gyroid
  noise_interval: 2.5
  radius: 0.8
  seed: 42

pipeline:
  workers: 3
  frames: 10
  time_step: 0.5

export:
  stl_dir: out
  every: 5

viewer:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

logging:
  level: "debug"
  log_file: "isomesh.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Surface.GridRes != 32 || cfg.Surface.GroupSize != 4 {
		t.Errorf("expected res 32 group 4, got %d %d", cfg.Surface.GridRes, cfg.Surface.GroupSize)
	}
	if cfg.Surface.Center != [3]float32{1, 2, 3} {
		t.Errorf("expected center [1 2 3], got %v", cfg.Surface.Center)
	}
	if cfg.Surface.IsoLevel != 0.25 {
		t.Errorf("expected iso_level 0.25, got %f", cfg.Surface.IsoLevel)
	}
	if cfg.Surface.Smooth {
		t.Error("expected smooth to be false")
	}
	if cfg.Surface.Wrap != "repeat" {
		t.Errorf("expected wrap 'repeat', got %s", cfg.Surface.Wrap)
	}
	if cfg.Field.Name != "gyroid" || cfg.Field.NoiseInterval != 2.5 || cfg.Field.Seed != 42 {
		t.Errorf("unexpected field config %+v", cfg.Field)
	}
	if cfg.Pipeline.Workers != 3 || cfg.Pipeline.Frames != 10 || cfg.Pipeline.TimeStep != 0.5 {
		t.Errorf("unexpected pipeline config %+v", cfg.Pipeline)
	}
	if cfg.Export.STLDir != "out" || cfg.Export.Every != 5 {
		t.Errorf("unexpected export config %+v", cfg.Export)
	}
	if !cfg.Viewer.Fullscreen || cfg.Viewer.VSync {
		t.Errorf("unexpected viewer config %+v", cfg.Viewer)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Viewer.Spin != 0.3 {
		t.Errorf("expected default spin 0.3, got %f", cfg.Viewer.Spin)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "isomesh.log" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "surface:\n  grid_res: not a number\n  invalid syntax here\n"},
		{"unknown key", "surface:\n  grid_resolution: 32\n"},
		{"center length", "surface:\n  center: [1, 2]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file should load, got %v", err)
	}
	if cfg.Surface.GridRes != 64 {
		t.Errorf("expected defaults to survive, got grid_res %d", cfg.Surface.GridRes)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("surface:\n  grid_res: 16\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestResolveConfigPathEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "from-env.yaml")
	t.Setenv(EnvConfig, path)

	if got := resolveConfigPath(); got != path {
		t.Errorf("resolveConfigPath() = %q, want %q", got, path)
	}

	*flagConfig = "explicit.yaml"
	defer func() { *flagConfig = "" }()
	if got := resolveConfigPath(); got != "explicit.yaml" {
		t.Errorf("resolveConfigPath() with -config = %q, want explicit.yaml", got)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "surface flags",
			setup: func() {
				*flagRes = 128
				*flagIso = 0.3
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Surface.GridRes != 128 {
					t.Errorf("expected grid_res 128, got %d", cfg.Surface.GridRes)
				}
				if cfg.Surface.IsoLevel != 0.3 {
					t.Errorf("expected iso_level 0.3, got %f", cfg.Surface.IsoLevel)
				}
			},
			teardown: func() {
				*flagRes = 0
				*flagIso = math.NaN()
			},
		},
		{
			name:  "zero iso flag",
			setup: func() { *flagIso = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Surface.IsoLevel != 0 {
					t.Errorf("expected iso_level 0, got %f", cfg.Surface.IsoLevel)
				}
			},
			teardown: func() { *flagIso = math.NaN() },
		},
		{
			name:  "flat flag",
			setup: func() { *flagFlat = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Surface.Smooth {
					t.Error("expected smooth to be false with flat flag")
				}
			},
			teardown: func() { *flagFlat = false },
		},
		{
			name: "pipeline flags",
			setup: func() {
				*flagField = "sphere"
				*flagFrames = 7
				*flagWorkers = 2
				*flagSTL = "frames"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Field.Name != "sphere" {
					t.Errorf("expected field 'sphere', got %s", cfg.Field.Name)
				}
				if cfg.Pipeline.Frames != 7 || cfg.Pipeline.Workers != 2 {
					t.Errorf("unexpected pipeline config %+v", cfg.Pipeline)
				}
				if cfg.Export.STLDir != "frames" {
					t.Errorf("expected stl_dir 'frames', got %s", cfg.Export.STLDir)
				}
			},
			teardown: func() {
				*flagField = ""
				*flagFrames = 0
				*flagWorkers = 0
				*flagSTL = ""
			},
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Viewer.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewer.Width != 2560 || cfg.Viewer.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Viewer.Width, cfg.Viewer.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
surface:
  grid_res: 48
  group_size: 4
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagRes = 96
	defer func() {
		*flagConfig = ""
		*flagRes = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// grid_res from flag, group_size from file
	if cfg.Surface.GridRes != 96 {
		t.Errorf("expected grid_res 96 from flag, got %d", cfg.Surface.GridRes)
	}
	if cfg.Surface.GroupSize != 4 {
		t.Errorf("expected group_size 4 from file, got %d", cfg.Surface.GroupSize)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Surface.Center = [3]float32{0.5, -1, 2}
	cfg.Field.Name = "torus"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

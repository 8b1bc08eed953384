package mesher

import (
	"errors"
	"fmt"
	stdmath "math"

	"github.com/Faultbox/isomesh/internal/config"
	"github.com/Faultbox/isomesh/internal/field"
	"github.com/Faultbox/isomesh/internal/march"
	"github.com/Faultbox/isomesh/pkg/math"
)

// ErrConfig reports an invalid Config or caller-supplied storage. It is
// returned by New before any frame runs.
var ErrConfig = errors.New("invalid mesher config")

// ErrDelivery reports that a published mesh could not be presented by one
// or more sinks. The mesh is still current.
var ErrDelivery = errors.New("mesh delivery failed")

// Config describes the lattice and extraction settings of an Assembler.
type Config struct {
	GridRes       int
	GroupSize     int
	GridW         float32
	CenterPos     math.Vec3
	IsoLevel      float32
	EnableSmooth  bool
	NoiseInterval float32
	Wrap          field.WrapMode
	Workers       int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		GridRes:       64,
		GroupSize:     8,
		GridW:         2,
		IsoLevel:      0.5,
		EnableSmooth:  true,
		NoiseInterval: 1,
		Wrap:          field.WrapClamp,
	}
}

// MaxTriangles returns the triangle capacity needed for a lattice of res
// points per axis.
func MaxTriangles(res int) int {
	return res * res * res * march.MaxCellTriangles
}

// Transform returns the lattice-to-world mapping of c.
func (c Config) Transform() field.Transform {
	return field.Transform{Res: c.GridRes, Width: c.GridW, Center: c.CenterPos}
}

// Validate checks c and returns an error wrapping ErrConfig.
func (c Config) Validate() error {
	switch {
	case c.GridRes < 2:
		return fmt.Errorf("%w: grid_res %d, need at least 2", ErrConfig, c.GridRes)
	case c.GroupSize <= 0:
		return fmt.Errorf("%w: group_size %d must be positive", ErrConfig, c.GroupSize)
	case c.GridRes%c.GroupSize != 0:
		return fmt.Errorf("%w: grid_res %d is not a multiple of group_size %d", ErrConfig, c.GridRes, c.GroupSize)
	case c.GridRes > maxGridRes:
		return fmt.Errorf("%w: grid_res %d exceeds %d", ErrConfig, c.GridRes, maxGridRes)
	case !(c.GridW > 0):
		return fmt.Errorf("%w: grid_w %v must be positive", ErrConfig, c.GridW)
	case c.NoiseInterval < 0:
		return fmt.Errorf("%w: noise_interval %v is negative", ErrConfig, c.NoiseInterval)
	case c.Wrap != field.WrapClamp && c.Wrap != field.WrapRepeat:
		return fmt.Errorf("%w: unknown wrap mode %d", ErrConfig, c.Wrap)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d is negative", ErrConfig, c.Workers)
	}
	return nil
}

// maxGridRes is the largest lattice whose vertex indices fit in uint32.
var maxGridRes = func() int {
	r := 2
	for MaxTriangles(r+1)*3 <= stdmath.MaxUint32 {
		r++
	}
	return r
}()

// FromConfig builds a Config and the density function it animates from the
// loaded settings.
func FromConfig(cfg *config.Config) (Config, field.DensityFunc, error) {
	wrap, err := field.ParseWrapMode(cfg.Surface.Wrap)
	if err != nil {
		return Config{}, nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	c := Config{
		GridRes:       cfg.Surface.GridRes,
		GroupSize:     cfg.Surface.GroupSize,
		GridW:         cfg.Surface.GridW,
		CenterPos:     math.Vec3FromArray(cfg.Surface.Center),
		IsoLevel:      cfg.Surface.IsoLevel,
		EnableSmooth:  cfg.Surface.Smooth,
		NoiseInterval: cfg.Field.NoiseInterval,
		Wrap:          wrap,
		Workers:       cfg.Pipeline.Workers,
	}
	if err := c.Validate(); err != nil {
		return Config{}, nil, err
	}
	fn, err := field.Lookup(cfg.Field.Name, field.Params{
		Center: c.CenterPos,
		Radius: cfg.Field.Radius,
		Seed:   cfg.Field.Seed,
	})
	if err != nil {
		return Config{}, nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return c, fn, nil
}

// Package viewer implements the interactive loop: it regenerates the mesh
// every frame, uploads it and draws it under an orbit camera.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"maps"
	gomath "math"
	"slices"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/isomesh/internal/engine/camera"
	"github.com/Faultbox/isomesh/internal/engine/input"
	"github.com/Faultbox/isomesh/internal/engine/renderer"
	"github.com/Faultbox/isomesh/internal/engine/window"
	"github.com/Faultbox/isomesh/internal/export"
	"github.com/Faultbox/isomesh/internal/field"
	"github.com/Faultbox/isomesh/internal/logger"
	"github.com/Faultbox/isomesh/internal/mesher"
	"github.com/Faultbox/isomesh/pkg/math"
)

const fovY = 45 * gomath.Pi / 180

// Config holds viewer configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Samples    int
	Spin       float32 // Radians per second; 0 disables the automatic orbit
	TimeStep   float32 // Animation time per second of wall clock
	Fields     map[string]field.DensityFunc
	Field      string
	ShotDir    string // Screenshot directory
}

// Viewer is the interactive isosurface viewer.
type Viewer struct {
	config   Config
	running  bool
	paused   bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	mesher   *mesher.Assembler
	fields   []string
	field    int
	shots    *export.Screenshots
	capture  bool
	log      *zap.Logger
}

// New creates the window and renderer and builds an Assembler that
// presents every frame to the renderer.
func New(cfg Config, mc mesher.Config, fn field.DensityFunc) (*Viewer, error) {
	v := &Viewer{
		config: cfg,
		camera: camera.NewOrbitCamera(),
		fields: slices.Sorted(maps.Keys(cfg.Fields)),
		shots:  export.NewScreenshots(cfg.ShotDir, "isoviewer"),
		log:    logger.Named("viewer"),
	}
	for i, name := range v.fields {
		if name == cfg.Field {
			v.field = i
		}
	}

	var err error
	// Window first: the renderer needs its OpenGL context.
	v.window, err = window.New(window.Config{
		Title:      cfg.Title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Fullscreen: cfg.Fullscreen,
		VSync:      cfg.VSync,
		Samples:    cfg.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	fbw, fbh := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{Width: fbw, Height: fbh, FovY: fovY})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.mesher, err = mesher.New(mc, fn, mesher.WithSink(v.renderer))
	if err != nil {
		v.Close()
		return nil, err
	}
	v.input = input.New()

	half := mc.GridW / 2
	ext := math.Vec3{X: half, Y: half, Z: half}
	v.camera.FitToBounds(mc.CenterPos.Sub(ext), mc.CenterPos.Add(ext), fovY)

	v.log.Info("viewer initialized", zap.Strings("fields", v.fields))
	return v, nil
}

// Run drives the frame loop until the window closes or Escape is pressed.
func (v *Viewer) Run(ctx context.Context) error {
	v.running = true

	lastTime := time.Now()
	var animTime float32
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting viewer loop")
	for v.running {
		if ctx.Err() != nil {
			return nil
		}
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			break
		}
		v.handleEvents()

		if !v.paused {
			animTime += dt * v.config.TimeStep
			v.camera.Spin(v.config.Spin, dt)
		}

		// A failed frame keeps the previous mesh on screen. Sink failures are
		// already logged by the assembler and do not stop the loop.
		if _, err := v.mesher.Frame(ctx, animTime); err != nil && ctx.Err() == nil &&
			!errors.Is(err, mesher.ErrDelivery) {
			return fmt.Errorf("frame error: %w", err)
		}

		v.renderer.Draw(v.camera.ViewMatrix(), v.camera.Position())
		if v.capture {
			v.capture = false
			v.screenshot()
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			st := v.mesher.Stats()
			v.window.SetTitle(fmt.Sprintf("%s - %d fps, %d triangles", v.config.Title, frameCount, st.Triangles))
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("mesh", st.Total))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(v.window.DrawableSize())
		case input.EventMouseMove:
			if v.input.IsButtonDown(sdl.BUTTON_LEFT) {
				v.camera.HandleDrag(event.DeltaX, event.DeltaY)
			}
		case input.EventMouseWheel:
			v.camera.HandleZoom(event.DeltaY)
		case input.EventKeyDown:
			v.handleKey(event.Key)
		}
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_S:
		v.mesher.SetSmooth(!v.mesher.Smooth())
		v.log.Info("normals", zap.Bool("smooth", v.mesher.Smooth()))
	case sdl.SCANCODE_W:
		v.renderer.SetWireframe(!v.renderer.Wireframe())
	case sdl.SCANCODE_P:
		v.capture = true
	case sdl.SCANCODE_F11:
		v.window.ToggleFullscreen()
	case sdl.SCANCODE_SPACE:
		v.paused = !v.paused
	case sdl.SCANCODE_F:
		if len(v.fields) > 1 {
			v.field = (v.field + 1) % len(v.fields)
			name := v.fields[v.field]
			v.mesher.SetField(v.config.Fields[name])
			v.log.Info("field", zap.String("name", name))
		}
	}
}

func (v *Viewer) screenshot() {
	m := v.mesher.Current()
	if m == nil {
		return
	}
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.Save(m.Frame, pixels, w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases the renderer and window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

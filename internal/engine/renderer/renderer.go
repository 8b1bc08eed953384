// Package renderer draws the extracted isosurface with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/isomesh/internal/engine/shader"
	"github.com/Faultbox/isomesh/internal/logger"
	"github.com/Faultbox/isomesh/internal/mesher"
	"github.com/Faultbox/isomesh/pkg/math"
)

const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;
out vec3 vWorldPos;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vWorldPos = world.xyz;
	vNormal = mat3(uModel) * aNormal;
	gl_Position = uProjection * uView * world;
}
`

const fragmentShader = `
#version 410 core

in vec3 vNormal;
in vec3 vWorldPos;

uniform vec3 uLightDir;
uniform vec3 uEye;
uniform vec3 uColor;

out vec4 FragColor;

void main() {
	vec3 n = normalize(vNormal);
	if (!gl_FrontFacing) {
		n = -n;
	}
	vec3 l = normalize(-uLightDir);
	vec3 v = normalize(uEye - vWorldPos);
	vec3 h = normalize(l + v);

	float hemi = 0.5 + 0.5 * n.y;
	vec3 ambient = mix(vec3(0.08, 0.07, 0.06), vec3(0.20, 0.22, 0.28), hemi);
	float diffuse = max(dot(n, l), 0.0);
	float specular = pow(max(dot(n, h), 0.0), 48.0) * 0.25;

	vec3 color = uColor * (ambient + diffuse) + vec3(specular);
	FragColor = vec4(pow(color, vec3(1.0 / 2.2)), 1.0);
}
`

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	FovY   float32 // Vertical field of view in radians
}

// Renderer draws the most recently presented mesh. All methods, including
// Present, must run on the thread that owns the OpenGL context.
//
// Meshes are double-buffered: Present fills the back buffer and only swaps
// it to the front once the upload succeeded, so a failed upload leaves the
// previous frame on screen.
type Renderer struct {
	config  Config
	program *shader.Program
	meshes  [2]DynamicMesh
	front   int
	upload  func(*DynamicMesh, *mesher.Mesh) error
	log     *zap.Logger

	wireframe bool
	color     math.Vec3
	lightDir  math.Vec3
}

// New initializes OpenGL and creates the surface shader.
// Must be called after the OpenGL context is created.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{
		config:   cfg,
		log:      logger.Named("renderer"),
		color:    math.Vec3{X: 0.85, Y: 0.55, Z: 0.3},
		lightDir: math.Vec3{X: -0.4, Y: -1, Z: -0.3}.Normalize(),
		upload:   (*DynamicMesh).upload,
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	var err error
	r.program, err = shader.New(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create surface shader: %w", err)
	}
	for i := range r.meshes {
		r.meshes[i].init()
	}
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for i := range r.meshes {
		r.meshes[i].delete()
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Projection returns the perspective matrix for the current viewport.
func (r *Renderer) Projection() math.Mat4 {
	aspect := float32(r.config.Width) / float32(max(r.config.Height, 1))
	return math.Perspective(r.config.FovY, aspect, 0.01, 1000)
}

// SetWireframe toggles line rendering.
func (r *Renderer) SetWireframe(on bool) { r.wireframe = on }

// Wireframe reports whether line rendering is enabled.
func (r *Renderer) Wireframe() bool { return r.wireframe }

// Present uploads m and makes it the mesh Draw renders. On error the
// previously presented mesh stays on screen. It implements mesher.Sink.
func (r *Renderer) Present(m *mesher.Mesh) error {
	back := &r.meshes[1-r.front]
	if err := r.upload(back, m); err != nil {
		return fmt.Errorf("uploading frame %d: %w", m.Frame, err)
	}
	r.front = 1 - r.front
	return nil
}

// Shown returns the frame number of the mesh Draw renders, or 0 before the
// first successful Present.
func (r *Renderer) Shown() uint64 { return r.meshes[r.front].frame }

// Draw renders the last presented mesh from the given eye.
func (r *Renderer) Draw(view math.Mat4, eye math.Vec3) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	mesh := &r.meshes[r.front]
	if mesh.count == 0 {
		return
	}

	mode := uint32(gl.FILL)
	if r.wireframe {
		mode = gl.LINE
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, mode)

	r.program.Use()
	r.program.SetMat4("uModel", math.Identity())
	r.program.SetMat4("uView", view)
	r.program.SetMat4("uProjection", r.Projection())
	r.program.SetVec3("uLightDir", r.lightDir)
	r.program.SetVec3("uEye", eye)
	r.program.SetVec3("uColor", r.color)

	mesh.draw()
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// DynamicMesh is a VAO whose buffers are replaced every frame. Buffers
// only grow, so steady-state frames reuse their GPU storage.
type DynamicMesh struct {
	vao, vbo, ebo uint32
	vboCap        int // bytes
	eboCap        int // bytes
	count         int32
	frame         uint64
	scratch       []float32
}

const vertexStride = 6 * 4

func (d *DynamicMesh) init() {
	gl.GenVertexArrays(1, &d.vao)
	gl.GenBuffers(1, &d.vbo)
	gl.GenBuffers(1, &d.ebo)

	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, d.ebo)

	// Position attribute (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexStride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal attribute (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexStride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
}

// upload replaces the buffer contents with m. count and frame change only
// when the driver reports no error.
func (d *DynamicMesh) upload(m *mesher.Mesh) error {
	clearGLErrors()
	if len(m.Indices) > 0 {
		d.scratch = m.Interleave(d.scratch)

		gl.BindVertexArray(d.vao)

		gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
		vbytes := len(d.scratch) * 4
		if vbytes > d.vboCap {
			d.vboCap = vbytes * 3 / 2
			gl.BufferData(gl.ARRAY_BUFFER, d.vboCap, nil, gl.DYNAMIC_DRAW)
		}
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, vbytes, unsafe.Pointer(&d.scratch[0]))

		ibytes := len(m.Indices) * 4
		if ibytes > d.eboCap {
			d.eboCap = ibytes * 3 / 2
			gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, d.eboCap, nil, gl.DYNAMIC_DRAW)
		}
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, ibytes, unsafe.Pointer(&m.Indices[0]))

		gl.BindVertexArray(0)

		if code := gl.GetError(); code != gl.NO_ERROR {
			// Storage may be partly written; force reallocation next time.
			d.vboCap, d.eboCap, d.count = 0, 0, 0
			return fmt.Errorf("gl error 0x%x", code)
		}
	}
	d.count = int32(len(m.Indices))
	d.frame = m.Frame
	return nil
}

// clearGLErrors discards errors left by earlier calls so the next check
// only sees the upload's own. The loop is bounded because a lost context
// may keep reporting.
func clearGLErrors() {
	for i := 0; i < 8 && gl.GetError() != gl.NO_ERROR; i++ {
	}
}

func (d *DynamicMesh) draw() {
	gl.BindVertexArray(d.vao)
	gl.DrawElements(gl.TRIANGLES, d.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (d *DynamicMesh) delete() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
	}
	if d.vbo != 0 {
		gl.DeleteBuffers(1, &d.vbo)
	}
	if d.ebo != 0 {
		gl.DeleteBuffers(1, &d.ebo)
	}
}

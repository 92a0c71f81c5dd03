// Package glgfx implements gfx.Device on OpenGL 4.1 core.
//
// Matrices coming from pkg/math are left-handed with a [0,1] depth range.
// Clip-space depth in [0,1] is a subset of GL's [-1,1], so depth testing
// works unchanged; triangles are wound clockwise like the mesh files.
package glgfx

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/n3mesh-editor/internal/engine/gfx"
	"github.com/Faultbox/n3mesh-editor/internal/engine/shader"
	"github.com/Faultbox/n3mesh-editor/internal/logger"
)

// glContextLost is GL_CONTEXT_LOST from KHR_robustness, not exported by the
// 4.1 core bindings.
const glContextLost = 0x0507

// constantsBinding is the uniform block binding point used for the
// per-frame constant buffer.
const constantsBinding = 0

type rasterState struct {
	fill gfx.FillMode
	cull gfx.CullMode
}

// Device is an OpenGL implementation of gfx.Device. It must be created and
// used on the thread that owns the GL context.
type Device struct {
	swap func()

	layouts map[gfx.InputLayout][]gfx.VertexAttribute
	rasters map[gfx.RasterizerState]rasterState
	nextRS  gfx.RasterizerState

	buffers  map[gfx.Buffer]struct{}
	shaders  map[gfx.Shader]struct{}
	programs map[gfx.Program]struct{}

	topology uint32
	lost     bool
}

var _ gfx.Device = (*Device)(nil)

// New initializes GL function pointers and default state. swap presents the
// back buffer; it is usually the window's SwapBuffers.
// IMPORTANT: Must be called AFTER the OpenGL context is created.
func New(swap func()) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.FrontFace(gl.CW)

	return &Device{
		swap:     swap,
		layouts:  make(map[gfx.InputLayout][]gfx.VertexAttribute),
		rasters:  make(map[gfx.RasterizerState]rasterState),
		buffers:  make(map[gfx.Buffer]struct{}),
		shaders:  make(map[gfx.Shader]struct{}),
		programs: make(map[gfx.Program]struct{}),
		topology: gl.TRIANGLES,
	}, nil
}

// Close deletes every resource still owned by the device.
func (d *Device) Close() {
	logger.Info("closing graphics device",
		zap.Int("buffers", len(d.buffers)),
		zap.Int("programs", len(d.programs)),
	)
	for b := range d.buffers {
		d.ReleaseBuffer(b)
	}
	for p := range d.programs {
		gl.DeleteProgram(uint32(p))
		delete(d.programs, p)
	}
	for s := range d.shaders {
		gl.DeleteShader(uint32(s))
		delete(d.shaders, s)
	}
	for l := range d.layouts {
		vao := uint32(l)
		gl.DeleteVertexArrays(1, &vao)
		delete(d.layouts, l)
	}
}

func (d *Device) createBuffer(target uint32, size int, data []byte, usage uint32) (gfx.Buffer, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%w: empty buffer", gfx.ErrGraphicsResource)
	}
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("%w: glGenBuffers returned 0", gfx.ErrGraphicsResource)
	}
	gl.BindBuffer(target, id)
	if data != nil {
		gl.BufferData(target, size, gl.Ptr(data), usage)
	} else {
		gl.BufferData(target, size, nil, usage)
	}
	gl.BindBuffer(target, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &id)
		return 0, fmt.Errorf("%w: glBufferData error 0x%04X", gfx.ErrGraphicsResource, code)
	}

	b := gfx.Buffer(id)
	d.buffers[b] = struct{}{}
	return b, nil
}

// CreateVertexBuffer uploads immutable vertex data.
func (d *Device) CreateVertexBuffer(data []byte) (gfx.Buffer, error) {
	return d.createBuffer(gl.ARRAY_BUFFER, len(data), data, gl.STATIC_DRAW)
}

// CreateIndexBuffer uploads 16-bit indices.
func (d *Device) CreateIndexBuffer(indices []uint16) (gfx.Buffer, error) {
	if len(indices) == 0 {
		return 0, fmt.Errorf("%w: empty index buffer", gfx.ErrGraphicsResource)
	}
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("%w: glGenBuffers returned 0", gfx.ErrGraphicsResource)
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, id)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*2, gl.Ptr(indices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &id)
		return 0, fmt.Errorf("%w: index upload error 0x%04X", gfx.ErrGraphicsResource, code)
	}
	b := gfx.Buffer(id)
	d.buffers[b] = struct{}{}
	return b, nil
}

// CreateConstantBuffer allocates a dynamic uniform buffer of size bytes.
func (d *Device) CreateConstantBuffer(size int) (gfx.Buffer, error) {
	return d.createBuffer(gl.UNIFORM_BUFFER, size, nil, gl.DYNAMIC_DRAW)
}

// UpdateConstantBuffer overwrites the start of a uniform buffer.
func (d *Device) UpdateConstantBuffer(buf gfx.Buffer, data []byte) error {
	if _, ok := d.buffers[buf]; !ok || len(data) == 0 {
		return fmt.Errorf("%w: invalid constant buffer %d", gfx.ErrGraphicsResource, buf)
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, uint32(buf))
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return nil
}

// ReleaseBuffer deletes a buffer. Unknown or already released handles are ignored.
func (d *Device) ReleaseBuffer(buf gfx.Buffer) {
	if _, ok := d.buffers[buf]; !ok {
		return
	}
	id := uint32(buf)
	gl.DeleteBuffers(1, &id)
	delete(d.buffers, buf)
}

// CompileShader compiles GLSL source. GLSL entry points are always main, so
// entryPoint only labels errors.
func (d *Device) CompileShader(source, entryPoint string, stage gfx.ShaderStage) (gfx.Shader, error) {
	kind := uint32(gl.VERTEX_SHADER)
	if stage == gfx.StagePixel {
		kind = gl.FRAGMENT_SHADER
	}
	id, err := shader.Compile(source, kind, stage.String()+" "+entryPoint)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", gfx.ErrGraphicsResource, err)
	}
	s := gfx.Shader(id)
	d.shaders[s] = struct{}{}
	return s, nil
}

// LinkProgram links a vertex and pixel shader and binds the Constants block.
func (d *Device) LinkProgram(vs, ps gfx.Shader) (gfx.Program, error) {
	id, err := shader.Link(uint32(vs), uint32(ps))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", gfx.ErrGraphicsResource, err)
	}
	if !shader.BindUniformBlock(id, "Constants", constantsBinding) {
		logger.Warn("shader program has no Constants block", zap.Uint32("program", id))
	}
	p := gfx.Program(id)
	d.programs[p] = struct{}{}
	return p, nil
}

// CreateInputLayout creates a vertex array object. Attribute pointers are
// specified at bind time because they depend on the bound vertex buffer.
func (d *Device) CreateInputLayout(attrs []gfx.VertexAttribute) (gfx.InputLayout, error) {
	if len(attrs) == 0 {
		return 0, fmt.Errorf("%w: input layout without attributes", gfx.ErrGraphicsResource)
	}
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return 0, fmt.Errorf("%w: glGenVertexArrays returned 0", gfx.ErrGraphicsResource)
	}
	l := gfx.InputLayout(vao)
	d.layouts[l] = append([]gfx.VertexAttribute(nil), attrs...)
	return l, nil
}

// CreateRasterizerState records a fill/cull combination.
func (d *Device) CreateRasterizerState(fill gfx.FillMode, cull gfx.CullMode) (gfx.RasterizerState, error) {
	d.nextRS++
	d.rasters[d.nextRS] = rasterState{fill: fill, cull: cull}
	return d.nextRS, nil
}

// BeginFrame sets the viewport and clears color and depth.
func (d *Device) BeginFrame(width, height int, clear [4]float32) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(clear[0], clear[1], clear[2], clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Bind applies the pipeline state for subsequent draws.
func (d *Device) Bind(s gfx.DrawState) error {
	attrs, ok := d.layouts[s.Layout]
	if !ok {
		return fmt.Errorf("%w: unknown input layout %d", gfx.ErrGraphicsResource, s.Layout)
	}
	rs, ok := d.rasters[s.Rasterizer]
	if !ok {
		return fmt.Errorf("%w: unknown rasterizer state %d", gfx.ErrGraphicsResource, s.Rasterizer)
	}

	gl.UseProgram(uint32(s.Program))
	gl.BindVertexArray(uint32(s.Layout))
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(s.VertexBuffer))
	for _, a := range attrs {
		gl.EnableVertexAttribArray(a.Location)
		switch a.Format {
		case gfx.FormatFloat3:
			gl.VertexAttribPointerWithOffset(a.Location, 3, gl.FLOAT, false, int32(s.Stride), uintptr(a.Offset))
		case gfx.FormatBGRA8Unorm:
			gl.VertexAttribPointerWithOffset(a.Location, gl.BGRA, gl.UNSIGNED_BYTE, true, int32(s.Stride), uintptr(a.Offset))
		}
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(s.IndexBuffer))
	if s.Constants != 0 {
		gl.BindBufferBase(gl.UNIFORM_BUFFER, constantsBinding, uint32(s.Constants))
	}

	if rs.fill == gfx.FillWireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	switch rs.cull {
	case gfx.CullNone:
		gl.Disable(gl.CULL_FACE)
	case gfx.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	case gfx.CullBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	d.topology = gl.TRIANGLES
	if s.Topology == gfx.TopologyLineList {
		d.topology = gl.LINES
	}
	return nil
}

// Draw issues a non-indexed draw.
func (d *Device) Draw(vertexCount int) error {
	if vertexCount <= 0 {
		return nil
	}
	gl.DrawArrays(d.topology, 0, int32(vertexCount))
	return nil
}

// DrawIndexed issues an indexed draw with 16-bit indices.
func (d *Device) DrawIndexed(indexCount int) error {
	if indexCount <= 0 {
		return nil
	}
	gl.DrawElements(d.topology, int32(indexCount), gl.UNSIGNED_SHORT, nil)
	return nil
}

// Present swaps buffers. A lost context is reported once as gfx.ErrDeviceLost
// and on every later call.
func (d *Device) Present() error {
	gl.BindVertexArray(0)
	if d.lost {
		return gfx.ErrDeviceLost
	}
	if code := gl.GetError(); code == glContextLost {
		d.lost = true
		logger.Error("graphics context lost")
		return gfx.ErrDeviceLost
	}
	if d.swap != nil {
		d.swap()
	}
	return nil
}

// Package gfx defines the graphics device the viewer renders through.
// Implementations wrap a concrete API (see glgfx); the rest of the engine
// only sees opaque handles and this interface.
package gfx

import "errors"

// Device errors.
var (
	// ErrGraphicsResource reports a failed buffer, shader or state creation.
	ErrGraphicsResource = errors.New("graphics resource creation failed")
	// ErrDeviceLost is returned by Present when the device or context is gone.
	ErrDeviceLost = errors.New("graphics device lost")
)

// Opaque resource handles. Zero is never a valid handle.
type (
	Buffer          uint32
	Shader          uint32
	Program         uint32
	InputLayout     uint32
	RasterizerState uint32
)

// ShaderStage selects the pipeline stage a shader is compiled for.
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StagePixel
)

// String returns the stage name.
func (s ShaderStage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "pixel"
}

// FillMode selects solid or wireframe rasterization.
type FillMode int

const (
	FillSolid FillMode = iota
	FillWireframe
)

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

// Topology is the primitive type used by draw calls.
type Topology int

const (
	TopologyTriangleList Topology = iota
	TopologyLineList
)

// Format describes one vertex attribute's storage.
type Format int

const (
	FormatFloat3     Format = iota // 3 x float32
	FormatBGRA8Unorm               // packed 0xAARRGGBB, normalized to [0,1]
)

// VertexAttribute describes one attribute of an input layout.
type VertexAttribute struct {
	Name     string
	Location uint32
	Format   Format
	Offset   int
}

// DrawState is everything a draw call needs bound. IndexBuffer may be zero
// for non-indexed draws.
type DrawState struct {
	Program      Program
	Layout       InputLayout
	VertexBuffer Buffer
	Stride       int
	IndexBuffer  Buffer
	Constants    Buffer
	Rasterizer   RasterizerState
	Topology     Topology
}

// Device is the graphics collaborator used by the mesh slot and renderer.
type Device interface {
	CreateVertexBuffer(data []byte) (Buffer, error)
	CreateIndexBuffer(indices []uint16) (Buffer, error)
	CreateConstantBuffer(size int) (Buffer, error)
	UpdateConstantBuffer(buf Buffer, data []byte) error
	ReleaseBuffer(buf Buffer)

	CompileShader(source, entryPoint string, stage ShaderStage) (Shader, error)
	LinkProgram(vs, ps Shader) (Program, error)
	CreateInputLayout(attrs []VertexAttribute) (InputLayout, error)
	CreateRasterizerState(fill FillMode, cull CullMode) (RasterizerState, error)

	BeginFrame(width, height int, clear [4]float32)
	Bind(state DrawState) error
	Draw(vertexCount int) error
	DrawIndexed(indexCount int) error
	Present() error
}

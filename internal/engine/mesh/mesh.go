// Package mesh holds the single active mesh shown in the viewport and its
// device buffers.
package mesh

import (
	"github.com/Faultbox/n3mesh-editor/internal/engine/gfx"
	"github.com/Faultbox/n3mesh-editor/pkg/formats"
	"github.com/Faultbox/n3mesh-editor/pkg/math"
)

// Kind identifies which variant occupies the slot.
type Kind int

const (
	None Kind = iota
	Collision
	N3
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Collision:
		return "collision"
	case N3:
		return "n3"
	default:
		return "none"
	}
}

// Mesh is the renderable view of a loaded mesh.
type Mesh interface {
	Kind() Kind
	VertexCount() int
	IndexCount() int
	Center() math.Vec3
	Radius() float32
	Bounds() (min, max math.Vec3)
	VertexBuffer() gfx.Buffer
	IndexBuffer() gfx.Buffer
}

// VertexStride is the size of one uploaded vertex.
const VertexStride = formats.VertexColorSize

// buffers holds the device resources shared by both variants.
type buffers struct {
	vb, ib      gfx.Buffer
	vertexCount int
	indexCount  int
}

func (b *buffers) VertexCount() int         { return b.vertexCount }
func (b *buffers) IndexCount() int          { return b.indexCount }
func (b *buffers) VertexBuffer() gfx.Buffer { return b.vb }
func (b *buffers) IndexBuffer() gfx.Buffer  { return b.ib }

// release frees the buffers once; later calls do nothing.
func (b *buffers) release(dev gfx.Device) {
	if b.ib != 0 {
		dev.ReleaseBuffer(b.ib)
		b.ib = 0
	}
	if b.vb != 0 {
		dev.ReleaseBuffer(b.vb)
		b.vb = 0
	}
}

// CollisionMesh is a loaded .n3vmesh file.
type CollisionMesh struct {
	buffers
	Data *formats.N3VMesh
}

// Kind implements Mesh.
func (m *CollisionMesh) Kind() Kind { return Collision }

// Center returns the sphere center stored in the file.
func (m *CollisionMesh) Center() math.Vec3 { return math.V3(m.Data.Center) }

// Radius returns the sphere radius stored in the file.
func (m *CollisionMesh) Radius() float32 { return m.Data.Radius }

// Bounds returns the box computed from the vertices.
func (m *CollisionMesh) Bounds() (min, max math.Vec3) {
	return math.V3(m.Data.Min), math.V3(m.Data.Max)
}

// N3Mesh is a loaded .n3mesh file.
type N3Mesh struct {
	buffers
	Data *formats.N3Mesh
}

// Kind implements Mesh.
func (m *N3Mesh) Kind() Kind { return N3 }

// Center returns the midpoint of the stored bounds.
func (m *N3Mesh) Center() math.Vec3 { return math.V3(m.Data.Center()) }

// Radius returns the radius stored in the file.
func (m *N3Mesh) Radius() float32 { return m.Data.Radius }

// Bounds returns the box stored in the file.
func (m *N3Mesh) Bounds() (min, max math.Vec3) {
	return math.V3(m.Data.Min), math.V3(m.Data.Max)
}

var (
	_ Mesh = (*CollisionMesh)(nil)
	_ Mesh = (*N3Mesh)(nil)
)

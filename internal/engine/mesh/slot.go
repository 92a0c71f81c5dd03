package mesh

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/n3mesh-editor/internal/engine/gfx"
	"github.com/Faultbox/n3mesh-editor/internal/logger"
	"github.com/Faultbox/n3mesh-editor/pkg/formats"
)

// Slot holds zero or one active mesh.
type Slot struct {
	dev    gfx.Device
	active Mesh
}

// NewSlot creates an empty slot that uploads through dev.
func NewSlot(dev gfx.Device) *Slot {
	return &Slot{dev: dev}
}

// Active returns the loaded mesh, or nil.
func (s *Slot) Active() Mesh { return s.active }

// Kind returns the active variant.
func (s *Slot) Kind() Kind {
	if s.active == nil {
		return None
	}
	return s.active.Kind()
}

// Release frees the active mesh's buffers and empties the slot.
func (s *Slot) Release() {
	switch m := s.active.(type) {
	case *CollisionMesh:
		m.release(s.dev)
	case *N3Mesh:
		m.release(s.dev)
	}
	s.active = nil
}

// Load replaces the active mesh with the file at path. The previous mesh is
// released first, even when the new load fails; on failure the slot is
// empty and no buffers stay allocated.
func (s *Slot) Load(path string) error {
	s.Release()

	var (
		m   Mesh
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case formats.ExtN3VMesh:
		m, err = s.loadCollision(path)
	case formats.ExtN3Mesh:
		m, err = s.loadN3(path)
	default:
		err = &LoadError{Path: path, Kind: FormatError, Err: fmt.Errorf("unrecognized extension %q", ext)}
	}
	if err != nil {
		logger.Error("mesh load failed", zap.String("path", path), zap.Error(err))
		return err
	}

	s.active = m
	minB, maxB := m.Bounds()
	lo, hi := minB.Array(), maxB.Array()
	logger.Info("mesh loaded",
		zap.String("path", path),
		zap.Stringer("kind", m.Kind()),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("indices", m.IndexCount()),
		zap.Float32s("min", lo[:]),
		zap.Float32s("max", hi[:]),
		zap.Float32("radius", m.Radius()),
	)
	return nil
}

func (s *Slot) loadCollision(path string) (Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: FileOpenError, Err: err}
	}
	vm, err := formats.ParseN3VMesh(data)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: parseErrorKind(err), Err: err}
	}
	if err := vm.CheckIndices(); err != nil {
		logger.Warn("index out of range", zap.String("path", path), zap.Error(err))
	}

	b, err := s.upload(formats.EncodeVertices(vm.Vertices), vm.Indices)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: GraphicsResourceError, Err: err}
	}
	b.vertexCount = vm.VertexCount()
	return &CollisionMesh{buffers: b, Data: vm}, nil
}

func (s *Slot) loadN3(path string) (Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: FileOpenError, Err: err}
	}
	nm, err := formats.ParseN3Mesh(data)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: parseErrorKind(err), Err: err}
	}
	logger.Debug("n3 mesh header",
		zap.String("path", path),
		zap.Float32("version", nm.Version),
		zap.Stringer("fvf", nm.FVF),
		zap.Int("stride", nm.Stride()),
		zap.Int32("faces", nm.FaceCount),
	)
	if nm.VertexCount == 0 {
		return nil, &LoadError{Path: path, Kind: EmptyMeshError, Err: formats.ErrEmptyMesh}
	}

	verts, err := nm.ColorVertices()
	if err != nil {
		return nil, &LoadError{Path: path, Kind: parseErrorKind(err), Err: err}
	}
	if err := nm.CheckIndices(); err != nil {
		logger.Warn("index out of range", zap.String("path", path), zap.Error(err))
	}

	b, err := s.upload(formats.EncodeVertices(verts), nm.Indices)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: GraphicsResourceError, Err: err}
	}
	b.vertexCount = nm.VertexCount
	return &N3Mesh{buffers: b, Data: nm}, nil
}

// upload creates the vertex buffer and, for indexed meshes, the index
// buffer. A failed index upload releases the vertex buffer.
func (s *Slot) upload(vertices []byte, indices []uint16) (buffers, error) {
	vb, err := s.dev.CreateVertexBuffer(vertices)
	if err != nil {
		return buffers{}, fmt.Errorf("vertex buffer: %w", err)
	}
	b := buffers{vb: vb}
	if len(indices) == 0 {
		return b, nil
	}
	ib, err := s.dev.CreateIndexBuffer(indices)
	if err != nil {
		s.dev.ReleaseBuffer(vb)
		return buffers{}, fmt.Errorf("index buffer: %w", err)
	}
	b.ib = ib
	b.indexCount = len(indices)
	return b, nil
}

func parseErrorKind(err error) ErrorKind {
	switch {
	case errors.Is(err, formats.ErrEmptyMesh):
		return EmptyMeshError
	case errors.Is(err, formats.ErrUnsupportedFVF):
		return UnsupportedFormatError
	default:
		return FormatError
	}
}

package formats

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// N3MeshMagic is the 4-byte tag at the start of every .n3mesh file.
const N3MeshMagic = "N3MX"

// N3Mesh is a parsed .n3mesh file. Vertex data is kept raw in the layout
// described by FVF; use ConvertN3Vertices to obtain renderable vertices.
type N3Mesh struct {
	Version     float32
	FVF         FVF
	VertexCount int
	Vertices    []byte   // VertexCount * FVF.Stride() bytes
	Indices     []uint16 // Empty for non-indexed meshes
	FaceCount   int32    // Informational, usually len(Indices)/3

	Min    [3]float32
	Max    [3]float32
	Radius float32
}

// LoadN3Mesh reads and parses an .n3mesh file from disk.
func LoadN3Mesh(path string) (*N3Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseN3Mesh(data)
}

// ReadN3Mesh parses an .n3mesh stream. The reader is consumed but not closed.
func ReadN3Mesh(r io.Reader) (*N3Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading n3mesh: %w", err)
	}
	return ParseN3Mesh(data)
}

// ParseN3Mesh parses N3 mesh data from a byte slice.
func ParseN3Mesh(data []byte) (*N3Mesh, error) {
	if len(data) < 4 {
		return nil, ErrTruncatedN3Data
	}
	if string(data[:4]) != N3MeshMagic {
		return nil, ErrInvalidN3Magic
	}
	r := bytes.NewReader(data[4:])

	var header struct {
		Version     float32
		FVF         uint32
		VertexCount int32
	}
	if err := readLE(r, &header); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	m := &N3Mesh{
		Version:     header.Version,
		FVF:         FVF(header.FVF),
		VertexCount: int(header.VertexCount),
	}
	if header.VertexCount < 0 {
		return nil, fmt.Errorf("%w: vertex count %d", ErrInvalidN3Count, header.VertexCount)
	}

	stride := m.FVF.Stride()
	if m.VertexCount > 0 && stride == 0 {
		return nil, fmt.Errorf("%w: fvf %s", ErrZeroVertexStride, m.FVF)
	}

	// Vertex block
	size := m.VertexCount * stride
	if r.Len() < size {
		return nil, fmt.Errorf("%w: vertices need %d bytes, have %d", ErrTruncatedN3Data, size, r.Len())
	}
	m.Vertices = make([]byte, size)
	if _, err := io.ReadFull(r, m.Vertices); err != nil {
		return nil, fmt.Errorf("vertices: %w", ErrTruncatedN3Data)
	}

	// Index block
	var indexCount int32
	if err := readLE(r, &indexCount); err != nil {
		return nil, fmt.Errorf("index count: %w", err)
	}
	if indexCount < 0 {
		return nil, fmt.Errorf("%w: index count %d", ErrInvalidN3Count, indexCount)
	}
	if r.Len() < int(indexCount)*2 {
		return nil, fmt.Errorf("%w: indices need %d bytes, have %d", ErrTruncatedN3Data, int(indexCount)*2, r.Len())
	}
	if indexCount > 0 {
		m.Indices = make([]uint16, indexCount)
		if err := readLE(r, m.Indices); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	var trailer struct {
		FaceCount int32
		Min       [3]float32
		Max       [3]float32
		Radius    float32
	}
	if err := readLE(r, &trailer); err != nil {
		return nil, fmt.Errorf("bounds: %w", err)
	}
	m.FaceCount = trailer.FaceCount
	m.Min = trailer.Min
	m.Max = trailer.Max
	m.Radius = trailer.Radius

	return m, nil
}

// Stride returns the size of one raw vertex in bytes.
func (m *N3Mesh) Stride() int {
	return m.FVF.Stride()
}

// IndexCount returns the number of indices.
func (m *N3Mesh) IndexCount() int {
	return len(m.Indices)
}

// Center returns the midpoint of the stored bounding box.
func (m *N3Mesh) Center() [3]float32 {
	return [3]float32{
		(m.Min[0] + m.Max[0]) / 2,
		(m.Min[1] + m.Max[1]) / 2,
		(m.Min[2] + m.Max[2]) / 2,
	}
}

// ColorVertices converts the raw vertex data into canonical vertices.
func (m *N3Mesh) ColorVertices() ([]VertexColor, error) {
	return ConvertN3Vertices(m.Vertices, m.VertexCount, m.FVF)
}

// RecomputeBounds derives bounds from the vertex positions instead of the
// values stored in the file.
func (m *N3Mesh) RecomputeBounds() (Bounds, error) {
	positions, err := PositionsFromRaw(m.Vertices, m.VertexCount, m.FVF)
	if err != nil {
		return Bounds{}, err
	}
	return ComputeBounds(positions), nil
}

// CheckIndices reports the first index that does not address a vertex.
func (m *N3Mesh) CheckIndices() error {
	return checkIndices(m.Indices, m.VertexCount)
}

// Save is not implemented and always fails.
func (m *N3Mesh) Save(path string) error {
	return fmt.Errorf("%s: %w", path, ErrSaveNotImplemented)
}

func checkIndices(indices []uint16, vertexCount int) error {
	for i, idx := range indices {
		if int(idx) >= vertexCount {
			return fmt.Errorf("index %d at position %d out of range (vertex count %d)", idx, i, vertexCount)
		}
	}
	return nil
}

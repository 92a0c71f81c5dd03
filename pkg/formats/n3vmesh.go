package formats

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// N3VMesh is a parsed .n3vmesh collision mesh. Its vertices are already in
// the canonical VertexColor layout.
//
// File layout (little-endian):
//
//	uint32      vertex count
//	uint32      index count
//	VertexColor vertices[vertex count]
//	uint16      indices[index count]
//	float32[3]  center
//	float32     radius
type N3VMesh struct {
	Vertices []VertexColor
	Indices  []uint16
	Center   [3]float32
	Radius   float32

	// Min and Max are not stored in the file; they are computed from Vertices.
	Min [3]float32
	Max [3]float32
}

// LoadN3VMesh reads and parses an .n3vmesh file from disk.
func LoadN3VMesh(path string) (*N3VMesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseN3VMesh(data)
}

// ReadN3VMesh parses an .n3vmesh stream. The reader is consumed but not closed.
func ReadN3VMesh(r io.Reader) (*N3VMesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading n3vmesh: %w", err)
	}
	return ParseN3VMesh(data)
}

// ParseN3VMesh parses collision mesh data from a byte slice.
func ParseN3VMesh(data []byte) (*N3VMesh, error) {
	r := bytes.NewReader(data)

	var counts struct {
		Vertices uint32
		Indices  uint32
	}
	if err := readLE(r, &counts); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if counts.Vertices == 0 {
		return nil, ErrEmptyMesh
	}

	need := uint64(counts.Vertices)*VertexColorSize + uint64(counts.Indices)*2
	if uint64(r.Len()) < need {
		return nil, fmt.Errorf("%w: body needs %d bytes, have %d", ErrTruncatedN3Data, need, r.Len())
	}

	m := &N3VMesh{
		Vertices: make([]VertexColor, counts.Vertices),
	}
	if err := readLE(r, m.Vertices); err != nil {
		return nil, fmt.Errorf("vertices: %w", err)
	}
	if counts.Indices > 0 {
		m.Indices = make([]uint16, counts.Indices)
		if err := readLE(r, m.Indices); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	var sphere struct {
		Center [3]float32
		Radius float32
	}
	if err := readLE(r, &sphere); err != nil {
		return nil, fmt.Errorf("bounding sphere: %w", err)
	}
	m.Center = sphere.Center
	m.Radius = sphere.Radius

	b := ComputeBounds(VertexPositions(m.Vertices))
	m.Min, m.Max = b.Min, b.Max

	return m, nil
}

// VertexCount returns the number of vertices.
func (m *N3VMesh) VertexCount() int {
	return len(m.Vertices)
}

// IndexCount returns the number of indices.
func (m *N3VMesh) IndexCount() int {
	return len(m.Indices)
}

// CheckIndices reports the first index that does not address a vertex.
func (m *N3VMesh) CheckIndices() error {
	return checkIndices(m.Indices, len(m.Vertices))
}

// Save is not implemented and always fails.
func (m *N3VMesh) Save(path string) error {
	return fmt.Errorf("%s: %w", path, ErrSaveNotImplemented)
}

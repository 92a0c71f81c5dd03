// Package formats provides parsers for Knight Online N3 mesh file formats.
package formats

import (
	"encoding/binary"
	"errors"
	"io"
)

// Errors shared by the mesh parsers.
var (
	ErrInvalidN3Magic     = errors.New("invalid N3 mesh magic: expected 'N3MX'")
	ErrTruncatedN3Data    = errors.New("truncated N3 mesh data")
	ErrInvalidN3Count     = errors.New("invalid N3 mesh element count")
	ErrZeroVertexStride   = errors.New("vertex stride is zero for non-empty vertex data")
	ErrEmptyMesh          = errors.New("mesh has no vertices")
	ErrUnsupportedFVF     = errors.New("unsupported vertex format")
	ErrSaveNotImplemented = errors.New("saving meshes is not implemented")
)

// File extensions for the supported formats.
const (
	ExtN3Mesh  = ".n3mesh"
	ExtN3VMesh = ".n3vmesh"
)

// readLE reads little-endian binary data, mapping short reads to ErrTruncatedN3Data.
func readLE(r io.Reader, v any) error {
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrTruncatedN3Data
		}
		return err
	}
	return nil
}

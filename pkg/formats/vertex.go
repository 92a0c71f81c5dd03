package formats

import (
	"encoding/binary"
	"fmt"
	"math"
)

// VertexColorSize is the encoded size of a VertexColor in bytes.
const VertexColorSize = 16

// VertexColor is the canonical renderable vertex: a position followed by a
// packed 0xAARRGGBB color. Collision meshes store vertices in this layout
// directly; N3 meshes are converted into it.
type VertexColor struct {
	Pos   [3]float32
	Color uint32
}

// ConvertN3Vertices converts raw N3 vertex data into canonical vertices.
// Only FVFXYZColor data can be converted; each 16-byte block yields the
// position from bytes 0-11 and the color from bytes 12-15.
func ConvertN3Vertices(raw []byte, count int, fvf FVF) ([]VertexColor, error) {
	if fvf != FVFXYZColor {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFVF, fvf)
	}
	stride := fvf.Stride()
	if len(raw) < count*stride {
		return nil, fmt.Errorf("%w: have %d vertex bytes, need %d", ErrTruncatedN3Data, len(raw), count*stride)
	}

	out := make([]VertexColor, count)
	for i := range out {
		block := raw[i*stride : (i+1)*stride]
		out[i] = VertexColor{
			Pos:   readPosition(block),
			Color: binary.LittleEndian.Uint32(block[12:16]),
		}
	}
	return out, nil
}

// EncodeVertices serializes vertices in the little-endian layout expected by
// the vertex input layout.
func EncodeVertices(vertices []VertexColor) []byte {
	buf := make([]byte, len(vertices)*VertexColorSize)
	for i, v := range vertices {
		b := buf[i*VertexColorSize:]
		binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v.Pos[0]))
		binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Pos[1]))
		binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Pos[2]))
		binary.LittleEndian.PutUint32(b[12:], v.Color)
	}
	return buf
}

// VertexPositions returns the position of every vertex.
func VertexPositions(vertices []VertexColor) [][3]float32 {
	out := make([][3]float32, len(vertices))
	for i, v := range vertices {
		out[i] = v.Pos
	}
	return out
}

func readPosition(b []byte) [3]float32 {
	return [3]float32{
		math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}

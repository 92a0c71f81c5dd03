// Package grid builds the ground reference grid drawn under the mesh.
package grid

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/n3mesh-editor/pkg/formats"
)

// Line colors, 0xAARRGGBB.
const (
	MinorColor uint32 = 0xFF505050
	MajorColor uint32 = 0xFF646464
	AxisColor  uint32 = 0xFF969696
)

// MajorEvery is the number of subdivisions between major lines.
const MajorEvery = 10

// Config describes the grid extent.
type Config struct {
	Size         float32 // edge length in world units
	Subdivisions int     // cells per edge
}

// DefaultConfig returns a 100x100 grid with unit cells.
func DefaultConfig() Config {
	return Config{Size: 100, Subdivisions: 100}
}

// Lines returns a line list on the Y=0 plane centered on the origin: one
// line parallel to Z and one parallel to X at each subdivision, two
// vertices per line.
func Lines(cfg Config) []formats.VertexColor {
	if cfg.Subdivisions <= 0 || cfg.Size <= 0 {
		return nil
	}
	half := cfg.Size / 2
	step := cfg.Size / float32(cfg.Subdivisions)

	out := make([]formats.VertexColor, 0, (cfg.Subdivisions+1)*4)
	for i := 0; i <= cfg.Subdivisions; i++ {
		p := -half + float32(i)*step

		color := MinorColor
		switch {
		case math32.Abs(p) < 0.001:
			color = AxisColor
		case i%MajorEvery == 0:
			color = MajorColor
		}

		out = append(out,
			formats.VertexColor{Pos: [3]float32{p, 0, -half}, Color: color},
			formats.VertexColor{Pos: [3]float32{p, 0, half}, Color: color},
			formats.VertexColor{Pos: [3]float32{-half, 0, p}, Color: color},
			formats.VertexColor{Pos: [3]float32{half, 0, p}, Color: color},
		)
	}
	return out
}

package formats

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/n3mesh-editor/pkg/math"
)

// Bounds is an axis-aligned box with its enclosing sphere.
type Bounds struct {
	Min    [3]float32
	Max    [3]float32
	Center [3]float32 // (Min+Max)/2
	Radius float32    // Half the box diagonal
}

// ComputeBounds returns the bounds of the given positions.
// An empty slice yields zero bounds.
func ComputeBounds(positions [][3]float32) Bounds {
	if len(positions) == 0 {
		return Bounds{}
	}

	lo := math.Vec3{X: gomath.MaxFloat32, Y: gomath.MaxFloat32, Z: gomath.MaxFloat32}
	hi := math.Vec3{X: -gomath.MaxFloat32, Y: -gomath.MaxFloat32, Z: -gomath.MaxFloat32}
	for _, p := range positions {
		v := math.V3(p)
		lo = lo.Min(v)
		hi = hi.Max(v)
	}

	return Bounds{
		Min:    lo.Array(),
		Max:    hi.Array(),
		Center: lo.Midpoint(hi).Array(),
		Radius: hi.Sub(lo).Length() / 2,
	}
}

// PositionsFromRaw extracts vertex positions from FVF-laid-out vertex data.
// Position is always the first attribute when present.
func PositionsFromRaw(raw []byte, count int, fvf FVF) ([][3]float32, error) {
	if !fvf.Has(FVFXYZ) {
		return nil, fmt.Errorf("%w: no position in %s", ErrUnsupportedFVF, fvf)
	}
	stride := fvf.Stride()
	if len(raw) < count*stride {
		return nil, fmt.Errorf("%w: have %d vertex bytes, need %d", ErrTruncatedN3Data, len(raw), count*stride)
	}

	out := make([][3]float32, count)
	for i := range out {
		out[i] = readPosition(raw[i*stride:])
	}
	return out, nil
}

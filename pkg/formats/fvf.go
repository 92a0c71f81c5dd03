package formats

import (
	"fmt"
	"strings"
)

// FVF is a Direct3D 9 style flexible vertex format bitmask. It lists which
// attributes each vertex carries and thereby fixes the vertex stride.
type FVF uint32

// FVF attribute flags.
const (
	FVFXYZ      FVF = 0x002 // Position (3 x float32)
	FVFNormal   FVF = 0x010 // Normal (3 x float32)
	FVFDiffuse  FVF = 0x040 // Diffuse color (packed uint32)
	FVFSpecular FVF = 0x080 // Specular color (packed uint32)
	FVFTex1     FVF = 0x100 // One UV set (2 x float32)
	FVFTex2     FVF = 0x200 // Two UV sets (4 x float32)
)

// Common flag combinations found in N3 assets.
const (
	FVFXYZColor      = FVFXYZ | FVFDiffuse
	FVFXYZNormalTex1 = FVFXYZ | FVFNormal | FVFTex1
	FVFXYZNormalTex2 = FVFXYZ | FVFNormal | FVFTex2
)

var fvfSizes = []struct {
	flag FVF
	size int
	name string
}{
	{FVFXYZ, 12, "XYZ"},
	{FVFNormal, 12, "NORMAL"},
	{FVFDiffuse, 4, "DIFFUSE"},
	{FVFSpecular, 4, "SPECULAR"},
	{FVFTex1, 8, "TEX1"},
	{FVFTex2, 16, "TEX2"},
}

// Stride returns the size in bytes of one vertex laid out with these flags.
// Unknown bits contribute nothing.
func (f FVF) Stride() int {
	size := 0
	for _, s := range fvfSizes {
		if f&s.flag != 0 {
			size += s.size
		}
	}
	return size
}

// Has reports whether all bits of flag are set.
func (f FVF) Has(flag FVF) bool {
	return f&flag == flag
}

// String returns the flags as "XYZ|DIFFUSE (0x00000042)".
func (f FVF) String() string {
	var names []string
	for _, s := range fvfSizes {
		if f&s.flag != 0 {
			names = append(names, s.name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("NONE (0x%08x)", uint32(f))
	}
	return fmt.Sprintf("%s (0x%08x)", strings.Join(names, "|"), uint32(f))
}

package formats

import "testing"

func TestFVF_Stride(t *testing.T) {
	tests := []struct {
		name string
		fvf  FVF
		want int
	}{
		{"none", 0, 0},
		{"xyz", FVFXYZ, 12},
		{"xyz color", FVFXYZColor, 16},
		{"xyz normal tex1", FVFXYZNormalTex1, 32},
		{"xyz normal tex2", FVFXYZNormalTex2, 40},
		{"everything", FVFXYZ | FVFNormal | FVFDiffuse | FVFSpecular | FVFTex1 | FVFTex2, 56},
		{"unknown bits only", 0x8000, 0},
		{"specular only", FVFSpecular, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fvf.Stride(); got != tt.want {
				t.Errorf("Stride() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFVF_String(t *testing.T) {
	tests := []struct {
		fvf  FVF
		want string
	}{
		{FVFXYZColor, "XYZ|DIFFUSE (0x00000042)"},
		{0, "NONE (0x00000000)"},
		{FVFXYZNormalTex1, "XYZ|NORMAL|TEX1 (0x00000112)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.fvf.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFVF_Has(t *testing.T) {
	if !FVFXYZColor.Has(FVFXYZ) {
		t.Error("XYZ|DIFFUSE should have XYZ")
	}
	if FVFXYZ.Has(FVFXYZColor) {
		t.Error("XYZ should not have XYZ|DIFFUSE")
	}
}

package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/n3mesh-editor/pkg/formats"
)

func writeMesh(t *testing.T, name string, fvf formats.FVF, indices []uint16) string {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString(formats.N3MeshMagic)
	w := func(v any) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("binary.Write: %v", err)
		}
	}
	verts := []formats.VertexColor{
		{Pos: [3]float32{0, 0, 0}, Color: 0xFFFF0000},
		{Pos: [3]float32{2, 0, 0}, Color: 0xFF00FF00},
		{Pos: [3]float32{0, 4, 0}, Color: 0xFF0000FF},
	}
	w(float32(2))
	w(uint32(fvf))
	w(int32(len(verts)))
	pad := make([]byte, fvf.Stride()-formats.VertexColorSize)
	for _, v := range verts {
		w(v)
		buf.Write(pad)
	}
	w(int32(len(indices)))
	w(indices)
	w(int32(len(indices) / 3))
	w([3]float32{-1, -1, -1})
	w([3]float32{1, 1, 1})
	w(float32(1.7))

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInfo(t *testing.T) {
	path := writeMesh(t, "tri.n3mesh", formats.FVFXYZColor, []uint16{0, 1, 2})

	var out bytes.Buffer
	if err := run(&out, "info", []string{path}); err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"N3 mesh", "FVF:          XYZ|DIFFUSE (0x00000042)\n", "Vertices:     3", "Indices:      3", "Renderable:   yes"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestBounds(t *testing.T) {
	path := writeMesh(t, "tri.n3mesh", formats.FVFXYZColor, []uint16{0, 1, 2})

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"stored", []string{path}, "Max:          (1.0000, 1.0000, 1.0000)"},
		{"recomputed", []string{"-recompute", path}, "Max:          (2.0000, 4.0000, 0.0000)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(&out, "bounds", tt.args); err != nil {
				t.Fatalf("bounds: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestCheck(t *testing.T) {
	good := writeMesh(t, "good.n3mesh", formats.FVFXYZColor, []uint16{0, 1, 2})
	bad := writeMesh(t, "bad.n3mesh", formats.FVFXYZColor, []uint16{0, 1, 9})

	var out bytes.Buffer
	if err := run(&out, "check", []string{good}); err != nil {
		t.Errorf("check good: %v", err)
	}
	if !strings.Contains(out.String(), "OK") {
		t.Errorf("output = %q, want OK", out.String())
	}

	out.Reset()
	if err := run(&out, "check", []string{bad}); err == nil {
		t.Error("check bad: expected error")
	}
	if !strings.Contains(out.String(), "out of range") {
		t.Errorf("output = %q, want out of range report", out.String())
	}
}

func TestDump(t *testing.T) {
	path := writeMesh(t, "tri.n3mesh", formats.FVFXYZColor, nil)

	var out bytes.Buffer
	if err := run(&out, "dump", []string{"-n", "2", path}); err != nil {
		t.Fatalf("dump: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "#FFFF0000") {
		t.Errorf("first vertex = %q", lines[0])
	}
	if lines[2] != "... 1 more" {
		t.Errorf("last line = %q", lines[2])
	}
}

func TestDumpUnsupportedFormat(t *testing.T) {
	path := writeMesh(t, "tri.n3mesh", formats.FVFXYZColor|formats.FVFTex1, nil)

	err := run(&bytes.Buffer{}, "dump", []string{path})
	if !errors.Is(err, formats.ErrUnsupportedFVF) {
		t.Errorf("err = %v, want ErrUnsupportedFVF", err)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		command string
		args    []string
	}{
		{"nope", nil},
		{"info", nil},
		{"bounds", []string{"a.n3mesh", "b.n3mesh"}},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			err := run(&bytes.Buffer{}, tt.command, tt.args)
			if !errors.Is(err, errUsage) {
				t.Errorf("err = %v, want usage error", err)
			}
		})
	}
}

func TestUnknownExtension(t *testing.T) {
	err := run(&bytes.Buffer{}, "info", []string{"mesh.obj"})
	if err == nil || errors.Is(err, errUsage) {
		t.Errorf("err = %v, want extension error", err)
	}
}

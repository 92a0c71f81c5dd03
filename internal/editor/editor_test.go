package editor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/n3mesh-editor/internal/engine/camera"
	"github.com/Faultbox/n3mesh-editor/internal/engine/gfx/gfxtest"
	"github.com/Faultbox/n3mesh-editor/internal/engine/grid"
	"github.com/Faultbox/n3mesh-editor/internal/engine/mesh"
	"github.com/Faultbox/n3mesh-editor/internal/engine/picking"
	"github.com/Faultbox/n3mesh-editor/internal/engine/renderer"
	"github.com/Faultbox/n3mesh-editor/pkg/formats"
)

const (
	width  = 800
	height = 600
)

// writeCube writes a collision mesh with an 8-vertex box around the origin.
func writeCube(t *testing.T, name string) string {
	t.Helper()
	var verts []formats.VertexColor
	for _, x := range []float32{-1, 1} {
		for _, y := range []float32{-1, 1} {
			for _, z := range []float32{-1, 1} {
				verts = append(verts, formats.VertexColor{Pos: [3]float32{x, y, z}, Color: 0xFFFFFFFF})
			}
		}
	}
	indices := []uint16{0, 1, 2, 2, 1, 3}

	var buf bytes.Buffer
	for _, v := range []any{
		uint32(len(verts)), uint32(len(indices)), verts, indices,
		[3]float32{0, 0, 0}, float32(math32.Sqrt(3)),
	} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("binary.Write: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func newEditor(t *testing.T) (*Editor, *gfxtest.Device) {
	t.Helper()
	dev := gfxtest.New()
	e, err := New(dev, Options{
		Width:    width,
		Height:   height,
		Camera:   camera.DefaultSettings(),
		Grid:     grid.DefaultConfig(),
		ShowGrid: true,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, dev
}

func TestLoadFramesMesh(t *testing.T) {
	e, _ := newEditor(t)
	path := writeCube(t, "cube.n3vmesh")

	if err := e.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := e.Snapshot()
	if s.Path != path || s.Kind != mesh.Collision || s.VertexCount != 8 || s.IndexCount != 6 {
		t.Errorf("snapshot = %+v", s)
	}
	want := math32.Sqrt(12) / 2 / math32.Tan(camera.DefaultSettings().FOV/2) * 1.5
	if math32.Abs(s.Radius-want) > 1e-4 {
		t.Errorf("Radius = %v, want framed radius %v", s.Radius, want)
	}
}

func TestLoadFailureResetsCamera(t *testing.T) {
	e, _ := newEditor(t)
	if err := e.Load(writeCube(t, "cube.n3vmesh")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	e.Pan(200, 100)

	err := e.Load(filepath.Join(t.TempDir(), "cube.png"))
	var le *mesh.LoadError
	if !errors.As(err, &le) || le.Kind != mesh.FormatError {
		t.Fatalf("error = %v, want format LoadError", err)
	}
	s := e.Snapshot()
	if s.Kind != mesh.None || s.Path != "" {
		t.Errorf("after failed load kind=%v path=%q", s.Kind, s.Path)
	}
	if s.Target != [3]float32{} || s.Radius != camera.DefaultRadius {
		t.Errorf("camera target=%v radius=%v, want default", s.Target, s.Radius)
	}
}

func TestPointerDragMovesMesh(t *testing.T) {
	e, _ := newEditor(t)
	if err := e.Load(writeCube(t, "cube.n3vmesh")); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !e.PointerDown(width/2, height/2) {
		t.Fatal("PointerDown at center missed the mesh")
	}
	if got := e.Snapshot().State; got != picking.Dragging {
		t.Fatalf("State = %v, want dragging", got)
	}

	e.PointerMove(width/2+100, height/2)
	e.PointerUp()

	s := e.Snapshot()
	if s.State != picking.Selected {
		t.Errorf("State after PointerUp = %v, want selected", s.State)
	}
	if s.Translation[0] <= 0 || math32.Abs(s.Translation[1]) > 1e-4 {
		t.Errorf("Translation = %v, want +X only", s.Translation)
	}

	// Moving without a drag does nothing.
	before := s.Translation
	e.PointerMove(10, 10)
	if e.Snapshot().Translation != before {
		t.Error("PointerMove changed translation without a drag")
	}
}

func TestPointerMissDeselects(t *testing.T) {
	e, _ := newEditor(t)
	if err := e.Load(writeCube(t, "cube.n3vmesh")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	e.PointerDown(width/2, height/2)
	e.PointerUp()

	if e.PointerDown(1, 1) {
		t.Fatal("corner pick hit")
	}
	if got := e.Snapshot().State; got != picking.Idle {
		t.Errorf("State = %v, want idle", got)
	}
}

func TestPointerDownWithoutMesh(t *testing.T) {
	e, _ := newEditor(t)
	if e.PointerDown(width/2, height/2) {
		t.Error("pick hit with no mesh loaded")
	}
}

func TestTranslationSurvivesReload(t *testing.T) {
	e, _ := newEditor(t)
	if err := e.Load(writeCube(t, "cube.n3vmesh")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	e.PointerDown(width/2, height/2)
	e.PointerMove(width/2+50, height/2-50)
	e.PointerUp()
	moved := e.Snapshot().Translation

	if err := e.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	s := e.Snapshot()
	if s.Translation != moved {
		t.Errorf("Translation after reload = %v, want %v", s.Translation, moved)
	}
	if s.State != picking.Idle {
		t.Errorf("State after reload = %v, want idle", s.State)
	}
}

func TestRenderModes(t *testing.T) {
	e, dev := newEditor(t)
	if err := e.Load(writeCube(t, "cube.n3vmesh")); err != nil {
		t.Fatalf("Load: %v", err)
	}

	meshMode := func() renderer.Mode {
		t.Helper()
		dev.Reset()
		if err := e.Render(); err != nil {
			t.Fatalf("Render: %v", err)
		}
		if len(dev.Draws) != 2 {
			t.Fatalf("draws = %d, want grid + mesh", len(dev.Draws))
		}
		c := dev.Draws[1].Constants
		return renderer.Mode(int32(binary.LittleEndian.Uint32(c[192:196])))
	}

	if m := meshMode(); m != renderer.ModeVertexColor {
		t.Errorf("default mode = %v, want vertex color", m)
	}
	e.ToggleWireframe()
	if m := meshMode(); m != renderer.ModeWireframe {
		t.Errorf("wireframe mode = %v, want wireframe", m)
	}
	e.PointerDown(width/2, height/2)
	if m := meshMode(); m != renderer.ModeSelected {
		t.Errorf("selected mode = %v, want selected", m)
	}
	e.PointerUp()
	e.SetWireframe(false)
	if m := meshMode(); m != renderer.ModeSelected {
		t.Errorf("selected solid mode = %v, want selected", m)
	}
}

func TestRenderWithoutMesh(t *testing.T) {
	e, dev := newEditor(t)
	if err := e.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(dev.Draws) != 1 || dev.Presents != 1 {
		t.Errorf("draws=%d presents=%d, want grid only", len(dev.Draws), dev.Presents)
	}
}

func TestSave(t *testing.T) {
	e, _ := newEditor(t)
	if err := e.Save("out.n3vmesh"); !errors.Is(err, ErrNoMesh) {
		t.Errorf("Save without mesh = %v, want ErrNoMesh", err)
	}
	if err := e.Load(writeCube(t, "cube.n3vmesh")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := e.Save("out.n3vmesh"); !errors.Is(err, formats.ErrSaveNotImplemented) {
		t.Errorf("Save = %v, want ErrSaveNotImplemented", err)
	}
}

func TestReleaseAndClose(t *testing.T) {
	e, dev := newEditor(t)
	if err := e.Load(writeCube(t, "cube.n3vmesh")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	e.Release()
	if e.Snapshot().Kind != mesh.None {
		t.Error("mesh still active after Release")
	}
	if err := e.Reload(); !errors.Is(err, ErrNoMesh) {
		t.Errorf("Reload after Release = %v, want ErrNoMesh", err)
	}
	e.Close()
	if dev.Live() != 0 {
		t.Errorf("live buffers after Close = %d", dev.Live())
	}
}

func TestResetCamera(t *testing.T) {
	e, _ := newEditor(t)
	e.Rotate(300, 100)
	e.Zoom(50)
	e.ResetCamera()

	s := e.Snapshot()
	if s.Yaw != 0 || s.Pitch != 0 || s.Radius != camera.DefaultRadius {
		t.Errorf("after reset yaw=%v pitch=%v radius=%v", s.Yaw, s.Pitch, s.Radius)
	}
}

func TestResizeIgnoresZero(t *testing.T) {
	e, dev := newEditor(t)
	e.Resize(0, 0)
	e.Resize(1024, 512)
	if err := e.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if dev.Viewport != [2]int{1024, 512} {
		t.Errorf("Viewport = %v, want 1024x512", dev.Viewport)
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		snap Snapshot
		want string
	}{
		{Snapshot{}, "n3meshedit"},
		{
			Snapshot{Path: "/x/a.n3mesh", Kind: mesh.N3, VertexCount: 3},
			"n3meshedit - a.n3mesh (n3, 3 vertices)",
		},
		{
			Snapshot{Path: "b.n3vmesh", Kind: mesh.Collision, VertexCount: 8, State: picking.Selected, Wireframe: true},
			"n3meshedit - b.n3vmesh (collision, 8 vertices) [selected] [wireframe]",
		},
	}
	for _, tt := range tests {
		if got := tt.snap.Title("n3meshedit"); got != tt.want {
			t.Errorf("Title = %q, want %q", got, tt.want)
		}
	}
}

func TestLoadRelativePath(t *testing.T) {
	e, _ := newEditor(t)
	path := writeCube(t, "cube.n3vmesh")
	chdir(t, filepath.Dir(path))

	if err := e.Load("cube.n3vmesh"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	want, err := filepath.Abs("cube.n3vmesh")
	if err != nil {
		t.Fatalf("Abs: %v", err)
	}
	if got := e.Path(); got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}

	// Still reloadable after the working directory changes.
	chdir(t, t.TempDir())
	if err := e.Reload(); err != nil {
		t.Errorf("Reload from another directory: %v", err)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

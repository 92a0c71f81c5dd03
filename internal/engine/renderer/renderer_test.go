package renderer

import (
	"encoding/binary"
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/n3mesh-editor/internal/engine/gfx"
	"github.com/Faultbox/n3mesh-editor/internal/engine/gfx/gfxtest"
	"github.com/Faultbox/n3mesh-editor/internal/engine/grid"
	"github.com/Faultbox/n3mesh-editor/internal/engine/mesh"
	"github.com/Faultbox/n3mesh-editor/pkg/math"
)

type fakeMesh struct {
	vb, ib      gfx.Buffer
	vertexCount int
	indexCount  int
}

func (m *fakeMesh) Kind() mesh.Kind              { return mesh.N3 }
func (m *fakeMesh) VertexCount() int             { return m.vertexCount }
func (m *fakeMesh) IndexCount() int              { return m.indexCount }
func (m *fakeMesh) Center() math.Vec3            { return math.Vec3{} }
func (m *fakeMesh) Radius() float32              { return 1 }
func (m *fakeMesh) Bounds() (min, max math.Vec3) { return }
func (m *fakeMesh) VertexBuffer() gfx.Buffer     { return m.vb }
func (m *fakeMesh) IndexBuffer() gfx.Buffer      { return m.ib }

func newFakeMesh(t *testing.T, dev *gfxtest.Device, indexed bool) *fakeMesh {
	t.Helper()
	vb, err := dev.CreateVertexBuffer(make([]byte, 3*mesh.VertexStride))
	if err != nil {
		t.Fatalf("CreateVertexBuffer: %v", err)
	}
	m := &fakeMesh{vb: vb, vertexCount: 3}
	if indexed {
		if m.ib, err = dev.CreateIndexBuffer([]uint16{0, 1, 2, 2, 1, 0}); err != nil {
			t.Fatalf("CreateIndexBuffer: %v", err)
		}
		m.indexCount = 6
	}
	return m
}

func newRenderer(t *testing.T, dev *gfxtest.Device, showGrid bool) *Renderer {
	t.Helper()
	r, err := New(dev, Config{Width: 640, Height: 480, Grid: grid.DefaultConfig(), ShowGrid: showGrid})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func modeOf(call gfxtest.DrawCall) Mode {
	return Mode(int32(binary.LittleEndian.Uint32(call.Constants[192:196])))
}

func TestModeFor(t *testing.T) {
	tests := []struct {
		selected, wireframe bool
		want                Mode
	}{
		{false, false, ModeVertexColor},
		{false, true, ModeWireframe},
		{true, false, ModeSelected},
		{true, true, ModeSelected},
	}
	for _, tt := range tests {
		if got := ModeFor(tt.selected, tt.wireframe); got != tt.want {
			t.Errorf("ModeFor(%v, %v) = %v, want %v", tt.selected, tt.wireframe, got, tt.want)
		}
	}
}

func TestEncodeConstants(t *testing.T) {
	world := math.Translate(1, 2, 3)
	b := EncodeConstants(world, math.Identity(), math.Identity(), ModeSelected)
	if len(b) != ConstantsSize {
		t.Fatalf("len = %d, want %d", len(b), ConstantsSize)
	}
	// World translation lives in elements 12..14.
	if x := gomath.Float32frombits(binary.LittleEndian.Uint32(b[48:52])); x != 1 {
		t.Errorf("world[12] = %v, want 1", x)
	}
	if got := binary.LittleEndian.Uint32(b[192:196]); got != 2 {
		t.Errorf("RenderMode = %d, want 2", got)
	}
	for i := 196; i < ConstantsSize; i++ {
		if b[i] != 0 {
			t.Fatalf("padding byte %d = %d, want 0", i, b[i])
		}
	}
}

func TestNewCreatesPipeline(t *testing.T) {
	dev := gfxtest.New()
	newRenderer(t, dev, true)

	// Constant buffer and grid vertex buffer.
	if dev.Live() != 2 {
		t.Errorf("live buffers = %d, want 2", dev.Live())
	}
	var solid, wire int
	for _, rs := range dev.Rasters {
		if rs.Cull != gfx.CullBack {
			t.Errorf("rasterizer cull = %v, want back", rs.Cull)
		}
		if rs.Fill == gfx.FillWireframe {
			wire++
		} else {
			solid++
		}
	}
	if solid != 1 || wire != 1 {
		t.Errorf("rasterizers solid=%d wire=%d, want 1/1", solid, wire)
	}
}

func TestNewShaderFailure(t *testing.T) {
	dev := gfxtest.New()
	dev.FailShader = true
	if _, err := New(dev, Config{}); !errors.Is(err, gfx.ErrGraphicsResource) {
		t.Errorf("error = %v, want gfx.ErrGraphicsResource", err)
	}
}

func TestFrameGridOnly(t *testing.T) {
	dev := gfxtest.New()
	r := newRenderer(t, dev, true)

	if err := r.Frame(math.Identity(), math.Identity(), math.Identity(), nil, ModeVertexColor); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if dev.Frames != 1 || dev.Presents != 1 {
		t.Errorf("frames=%d presents=%d, want 1/1", dev.Frames, dev.Presents)
	}
	if dev.Clear != ClearColor || dev.Viewport != [2]int{640, 480} {
		t.Errorf("clear=%v viewport=%v", dev.Clear, dev.Viewport)
	}
	if len(dev.Draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(dev.Draws))
	}
	g := dev.Draws[0]
	if g.Indexed || g.State.Topology != gfx.TopologyLineList || g.Count != len(grid.Lines(grid.DefaultConfig())) {
		t.Errorf("grid draw = %+v", g)
	}
	if modeOf(g) != ModeVertexColor {
		t.Errorf("grid mode = %v, want vertex color", modeOf(g))
	}
}

func TestFrameMeshModes(t *testing.T) {
	tests := []struct {
		name      string
		mode      Mode
		wantFill  gfx.FillMode
		indexed   bool
		wantCount int
	}{
		{"solid indexed", ModeVertexColor, gfx.FillSolid, true, 6},
		{"wireframe", ModeWireframe, gfx.FillWireframe, true, 6},
		{"selected non-indexed", ModeSelected, gfx.FillWireframe, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gfxtest.New()
			r := newRenderer(t, dev, false)
			m := newFakeMesh(t, dev, tt.indexed)

			world := math.Translate(0, 5, 0)
			if err := r.Frame(math.Identity(), math.Identity(), world, m, tt.mode); err != nil {
				t.Fatalf("Frame: %v", err)
			}
			if len(dev.Draws) != 1 {
				t.Fatalf("draws = %d, want 1", len(dev.Draws))
			}
			d := dev.Draws[0]
			if d.Indexed != tt.indexed || d.Count != tt.wantCount {
				t.Errorf("draw indexed=%v count=%d, want %v/%d", d.Indexed, d.Count, tt.indexed, tt.wantCount)
			}
			if fill := dev.Rasters[d.State.Rasterizer].Fill; fill != tt.wantFill {
				t.Errorf("fill = %v, want %v", fill, tt.wantFill)
			}
			if modeOf(d) != tt.mode {
				t.Errorf("mode = %v, want %v", modeOf(d), tt.mode)
			}
			if d.State.Stride != mesh.VertexStride {
				t.Errorf("stride = %d, want %d", d.State.Stride, mesh.VertexStride)
			}
		})
	}
}

func TestFrameDeviceLost(t *testing.T) {
	dev := gfxtest.New()
	dev.PresentErr = gfx.ErrDeviceLost
	r := newRenderer(t, dev, true)

	err := r.Frame(math.Identity(), math.Identity(), math.Identity(), nil, ModeVertexColor)
	if !errors.Is(err, gfx.ErrDeviceLost) {
		t.Errorf("error = %v, want gfx.ErrDeviceLost", err)
	}
}

func TestFrameSkipsOnBindFailure(t *testing.T) {
	dev := gfxtest.New()
	r := newRenderer(t, dev, false)
	m := &fakeMesh{vb: 999, vertexCount: 3}

	if err := r.Frame(math.Identity(), math.Identity(), math.Identity(), m, ModeVertexColor); !errors.Is(err, gfx.ErrGraphicsResource) {
		t.Fatalf("error = %v, want gfx.ErrGraphicsResource", err)
	}
	if len(dev.Draws) != 0 || dev.Presents != 0 {
		t.Errorf("draws=%d presents=%d after failed bind, want 0/0", len(dev.Draws), dev.Presents)
	}
}

func TestClose(t *testing.T) {
	dev := gfxtest.New()
	r := newRenderer(t, dev, true)
	r.Close()
	r.Close()
	if dev.Live() != 0 {
		t.Errorf("live buffers = %d after Close, want 0", dev.Live())
	}
}

// Package renderer draws the ground grid and the active mesh each frame.
package renderer

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/n3mesh-editor/internal/engine/gfx"
	"github.com/Faultbox/n3mesh-editor/internal/engine/grid"
	"github.com/Faultbox/n3mesh-editor/internal/engine/mesh"
	"github.com/Faultbox/n3mesh-editor/internal/engine/shaders"
	"github.com/Faultbox/n3mesh-editor/internal/logger"
	"github.com/Faultbox/n3mesh-editor/pkg/formats"
	"github.com/Faultbox/n3mesh-editor/pkg/math"
)

// Mode selects how the fragment shader colors a draw.
type Mode int32

const (
	ModeVertexColor Mode = 0
	ModeWireframe   Mode = 1 // flat red
	ModeSelected    Mode = 2 // flat green
)

// ModeFor picks the mesh render mode. Selection wins over the wireframe flag.
func ModeFor(selected, wireframe bool) Mode {
	switch {
	case selected:
		return ModeSelected
	case wireframe:
		return ModeWireframe
	default:
		return ModeVertexColor
	}
}

// ConstantsSize is the std140 size of the Constants block: three matrices
// and RenderMode padded to 16 bytes.
const ConstantsSize = 3*64 + 16

// ClearColor is the viewport background.
var ClearColor = [4]float32{61.0 / 255, 61.0 / 255, 61.0 / 255, 1}

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	Grid   grid.Config
	// ShowGrid disables the ground grid when false.
	ShowGrid bool
}

// Renderer owns the pipeline objects shared by every frame.
type Renderer struct {
	dev    gfx.Device
	config Config

	program   gfx.Program
	layout    gfx.InputLayout
	constants gfx.Buffer
	solid     gfx.RasterizerState
	wireframe gfx.RasterizerState

	gridVB    gfx.Buffer
	gridCount int
}

// New creates shaders, input layout, constant buffer, rasterizer states and
// the grid buffer on dev.
func New(dev gfx.Device, cfg Config) (*Renderer, error) {
	r := &Renderer{dev: dev, config: cfg}

	vs, err := dev.CompileShader(shaders.MeshVertexShader, shaders.VertexEntry, gfx.StageVertex)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	ps, err := dev.CompileShader(shaders.MeshFragmentShader, shaders.FragmentEntry, gfx.StagePixel)
	if err != nil {
		return nil, fmt.Errorf("pixel shader: %w", err)
	}
	if r.program, err = dev.LinkProgram(vs, ps); err != nil {
		return nil, fmt.Errorf("link: %w", err)
	}

	r.layout, err = dev.CreateInputLayout([]gfx.VertexAttribute{
		{Name: "POSITION", Location: 0, Format: gfx.FormatFloat3, Offset: 0},
		{Name: "COLOR", Location: 1, Format: gfx.FormatBGRA8Unorm, Offset: 12},
	})
	if err != nil {
		return nil, fmt.Errorf("input layout: %w", err)
	}

	if r.constants, err = dev.CreateConstantBuffer(ConstantsSize); err != nil {
		return nil, fmt.Errorf("constant buffer: %w", err)
	}
	if r.solid, err = dev.CreateRasterizerState(gfx.FillSolid, gfx.CullBack); err != nil {
		return nil, fmt.Errorf("solid rasterizer: %w", err)
	}
	if r.wireframe, err = dev.CreateRasterizerState(gfx.FillWireframe, gfx.CullBack); err != nil {
		return nil, fmt.Errorf("wireframe rasterizer: %w", err)
	}

	if cfg.ShowGrid {
		lines := grid.Lines(cfg.Grid)
		if len(lines) > 0 {
			if r.gridVB, err = dev.CreateVertexBuffer(formats.EncodeVertices(lines)); err != nil {
				r.Close()
				return nil, fmt.Errorf("grid buffer: %w", err)
			}
			r.gridCount = len(lines)
		}
	}

	logger.Debug("renderer created",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("gridVertices", r.gridCount),
	)
	return r, nil
}

// Close releases the renderer's buffers.
func (r *Renderer) Close() {
	if r.gridVB != 0 {
		r.dev.ReleaseBuffer(r.gridVB)
		r.gridVB = 0
	}
	if r.constants != 0 {
		r.dev.ReleaseBuffer(r.constants)
		r.constants = 0
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	logger.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// EncodeConstants lays out the Constants block in std140 order.
func EncodeConstants(world, view, proj math.Mat4, mode Mode) []byte {
	var buf bytes.Buffer
	buf.Grow(ConstantsSize)
	block := struct {
		World, View, Projection math.Mat4
		RenderMode              int32
		_                       [3]float32
	}{world, view, proj, int32(mode), [3]float32{}}
	// Writes to a bytes.Buffer cannot fail for fixed-size data.
	_ = binary.Write(&buf, binary.LittleEndian, &block)
	return buf.Bytes()
}

// Frame clears the viewport, draws the grid and the mesh (when m is not
// nil), and presents. Errors are logged and the rest of the frame is skipped.
func (r *Renderer) Frame(view, proj, world math.Mat4, m mesh.Mesh, mode Mode) error {
	if err := r.frame(view, proj, world, m, mode); err != nil {
		logger.Error("frame skipped", zap.Error(err))
		return err
	}
	return nil
}

func (r *Renderer) frame(view, proj, world math.Mat4, m mesh.Mesh, mode Mode) error {
	r.dev.BeginFrame(r.config.Width, r.config.Height, ClearColor)

	if r.gridVB != 0 {
		if err := r.dev.UpdateConstantBuffer(r.constants, EncodeConstants(math.Identity(), view, proj, ModeVertexColor)); err != nil {
			return fmt.Errorf("grid constants: %w", err)
		}
		err := r.dev.Bind(gfx.DrawState{
			Program:      r.program,
			Layout:       r.layout,
			VertexBuffer: r.gridVB,
			Stride:       mesh.VertexStride,
			Constants:    r.constants,
			Rasterizer:   r.solid,
			Topology:     gfx.TopologyLineList,
		})
		if err != nil {
			return fmt.Errorf("grid bind: %w", err)
		}
		if err := r.dev.Draw(r.gridCount); err != nil {
			return fmt.Errorf("grid draw: %w", err)
		}
	}

	if m != nil {
		if err := r.drawMesh(view, proj, world, m, mode); err != nil {
			return err
		}
	}

	return r.dev.Present()
}

func (r *Renderer) drawMesh(view, proj, world math.Mat4, m mesh.Mesh, mode Mode) error {
	if err := r.dev.UpdateConstantBuffer(r.constants, EncodeConstants(world, view, proj, mode)); err != nil {
		return fmt.Errorf("mesh constants: %w", err)
	}

	raster := r.solid
	if mode != ModeVertexColor {
		raster = r.wireframe
	}
	err := r.dev.Bind(gfx.DrawState{
		Program:      r.program,
		Layout:       r.layout,
		VertexBuffer: m.VertexBuffer(),
		Stride:       mesh.VertexStride,
		IndexBuffer:  m.IndexBuffer(),
		Constants:    r.constants,
		Rasterizer:   raster,
		Topology:     gfx.TopologyTriangleList,
	})
	if err != nil {
		return fmt.Errorf("mesh bind: %w", err)
	}

	if m.IndexCount() > 0 {
		err = r.dev.DrawIndexed(m.IndexCount())
	} else {
		err = r.dev.Draw(m.VertexCount())
	}
	if err != nil {
		return fmt.Errorf("mesh draw: %w", err)
	}
	return nil
}

// Package gfxtest provides a recording gfx.Device for tests.
package gfxtest

import (
	"fmt"

	"github.com/Faultbox/n3mesh-editor/internal/engine/gfx"
)

// DrawCall is one recorded Draw or DrawIndexed.
type DrawCall struct {
	State   gfx.DrawState
	Count   int
	Indexed bool
	// Constants is a copy of the bound constant buffer at draw time.
	Constants []byte
}

// Raster is the fill/cull pair recorded for a rasterizer state.
type Raster struct {
	Fill gfx.FillMode
	Cull gfx.CullMode
}

// Device records every call. Set the Fail* fields to make the matching
// creation call fail with gfx.ErrGraphicsResource.
type Device struct {
	FailVertexBuffer   bool
	FailIndexBuffer    bool
	FailConstantBuffer bool
	FailShader         bool
	// PresentErr is returned by Present when non-nil.
	PresentErr error

	Buffers  map[gfx.Buffer][]byte
	Released []gfx.Buffer
	Rasters  map[gfx.RasterizerState]Raster
	Draws    []DrawCall
	Frames   int
	Presents int
	Viewport [2]int
	Clear    [4]float32

	next  uint32
	bound gfx.DrawState
}

var _ gfx.Device = (*Device)(nil)

// New returns an empty recording device.
func New() *Device {
	return &Device{
		Buffers: make(map[gfx.Buffer][]byte),
		Rasters: make(map[gfx.RasterizerState]Raster),
	}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

// Live returns the number of buffers not yet released.
func (d *Device) Live() int { return len(d.Buffers) }

// CreateVertexBuffer implements gfx.Device.
func (d *Device) CreateVertexBuffer(data []byte) (gfx.Buffer, error) {
	if d.FailVertexBuffer || len(data) == 0 {
		return 0, fmt.Errorf("%w: vertex buffer", gfx.ErrGraphicsResource)
	}
	b := gfx.Buffer(d.handle())
	d.Buffers[b] = append([]byte(nil), data...)
	return b, nil
}

// CreateIndexBuffer implements gfx.Device.
func (d *Device) CreateIndexBuffer(indices []uint16) (gfx.Buffer, error) {
	if d.FailIndexBuffer || len(indices) == 0 {
		return 0, fmt.Errorf("%w: index buffer", gfx.ErrGraphicsResource)
	}
	b := gfx.Buffer(d.handle())
	raw := make([]byte, 0, len(indices)*2)
	for _, i := range indices {
		raw = append(raw, byte(i), byte(i>>8))
	}
	d.Buffers[b] = raw
	return b, nil
}

// CreateConstantBuffer implements gfx.Device.
func (d *Device) CreateConstantBuffer(size int) (gfx.Buffer, error) {
	if d.FailConstantBuffer || size <= 0 {
		return 0, fmt.Errorf("%w: constant buffer", gfx.ErrGraphicsResource)
	}
	b := gfx.Buffer(d.handle())
	d.Buffers[b] = make([]byte, size)
	return b, nil
}

// UpdateConstantBuffer implements gfx.Device.
func (d *Device) UpdateConstantBuffer(buf gfx.Buffer, data []byte) error {
	dst, ok := d.Buffers[buf]
	if !ok || len(data) > len(dst) {
		return fmt.Errorf("%w: update of buffer %d", gfx.ErrGraphicsResource, buf)
	}
	copy(dst, data)
	return nil
}

// ReleaseBuffer implements gfx.Device. Releasing an unknown handle panics so
// tests catch double releases.
func (d *Device) ReleaseBuffer(buf gfx.Buffer) {
	if _, ok := d.Buffers[buf]; !ok {
		panic(fmt.Sprintf("gfxtest: release of unknown buffer %d", buf))
	}
	delete(d.Buffers, buf)
	d.Released = append(d.Released, buf)
}

// CompileShader implements gfx.Device.
func (d *Device) CompileShader(source, entryPoint string, stage gfx.ShaderStage) (gfx.Shader, error) {
	if d.FailShader || source == "" {
		return 0, fmt.Errorf("%w: %s shader %s", gfx.ErrGraphicsResource, stage, entryPoint)
	}
	return gfx.Shader(d.handle()), nil
}

// LinkProgram implements gfx.Device.
func (d *Device) LinkProgram(vs, ps gfx.Shader) (gfx.Program, error) {
	return gfx.Program(d.handle()), nil
}

// CreateInputLayout implements gfx.Device.
func (d *Device) CreateInputLayout(attrs []gfx.VertexAttribute) (gfx.InputLayout, error) {
	return gfx.InputLayout(d.handle()), nil
}

// CreateRasterizerState implements gfx.Device.
func (d *Device) CreateRasterizerState(fill gfx.FillMode, cull gfx.CullMode) (gfx.RasterizerState, error) {
	rs := gfx.RasterizerState(d.handle())
	d.Rasters[rs] = Raster{Fill: fill, Cull: cull}
	return rs, nil
}

// BeginFrame implements gfx.Device.
func (d *Device) BeginFrame(width, height int, clear [4]float32) {
	d.Frames++
	d.Viewport = [2]int{width, height}
	d.Clear = clear
}

// Bind implements gfx.Device.
func (d *Device) Bind(state gfx.DrawState) error {
	if _, ok := d.Buffers[state.VertexBuffer]; !ok {
		return fmt.Errorf("%w: bind of unknown vertex buffer %d", gfx.ErrGraphicsResource, state.VertexBuffer)
	}
	d.bound = state
	return nil
}

// Draw implements gfx.Device.
func (d *Device) Draw(vertexCount int) error {
	d.record(vertexCount, false)
	return nil
}

// DrawIndexed implements gfx.Device.
func (d *Device) DrawIndexed(indexCount int) error {
	d.record(indexCount, true)
	return nil
}

func (d *Device) record(count int, indexed bool) {
	call := DrawCall{State: d.bound, Count: count, Indexed: indexed}
	if cb, ok := d.Buffers[d.bound.Constants]; ok {
		call.Constants = append([]byte(nil), cb...)
	}
	d.Draws = append(d.Draws, call)
}

// Present implements gfx.Device.
func (d *Device) Present() error {
	if d.PresentErr != nil {
		return d.PresentErr
	}
	d.Presents++
	return nil
}

// Reset clears recorded draws, keeping resources.
func (d *Device) Reset() {
	d.Draws = nil
}

// Package editor is the viewer's core state: the active mesh, camera,
// selection and render settings. Hosts drive it only through intent methods
// and read it through Snapshot.
package editor

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/n3mesh-editor/internal/engine/camera"
	"github.com/Faultbox/n3mesh-editor/internal/engine/gfx"
	"github.com/Faultbox/n3mesh-editor/internal/engine/grid"
	"github.com/Faultbox/n3mesh-editor/internal/engine/mesh"
	"github.com/Faultbox/n3mesh-editor/internal/engine/picking"
	"github.com/Faultbox/n3mesh-editor/internal/engine/renderer"
	"github.com/Faultbox/n3mesh-editor/internal/logger"
)

// ErrNoMesh is returned by operations that need a loaded mesh.
var ErrNoMesh = errors.New("no mesh loaded")

// Options configures a new Editor.
type Options struct {
	Width, Height int
	Camera        camera.Settings
	Grid          grid.Config
	ShowGrid      bool
	Wireframe     bool
}

// Editor owns all viewer state. It is not safe for concurrent use; hosts
// call it from their UI loop.
type Editor struct {
	slot     *mesh.Slot
	rig      *camera.Rig
	sel      picking.Selection
	renderer *renderer.Renderer

	wireframe bool
	path      string
}

// New creates an editor rendering through dev.
func New(dev gfx.Device, opts Options) (*Editor, error) {
	r, err := renderer.New(dev, renderer.Config{
		Width:    opts.Width,
		Height:   opts.Height,
		Grid:     opts.Grid,
		ShowGrid: opts.ShowGrid,
	})
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	return &Editor{
		slot:      mesh.NewSlot(dev),
		rig:       camera.New(opts.Camera, opts.Width, opts.Height),
		renderer:  r,
		wireframe: opts.Wireframe,
	}, nil
}

// Close releases the mesh and renderer resources.
func (e *Editor) Close() {
	e.Release()
	e.renderer.Close()
}

// Load replaces the active mesh. Selection flags are cleared; the drag
// translation is kept. On success the camera frames the mesh bounds, on
// failure it returns to the default view. Relative paths are made absolute.
func (e *Editor) Load(path string) error {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	err := e.slot.Load(path)
	e.sel.Clear()
	if err != nil {
		e.path = ""
		e.rig.FrameDefault()
		return err
	}
	e.path = path
	min, max := e.slot.Active().Bounds()
	e.rig.FrameBounds(min, max)
	return nil
}

// Reload loads the current path again.
func (e *Editor) Reload() error {
	if e.path == "" {
		return ErrNoMesh
	}
	return e.Load(e.path)
}

// Save writes the active mesh to path. Saving is not implemented by the
// mesh formats, so this always fails.
func (e *Editor) Save(path string) error {
	var err error
	switch m := e.slot.Active().(type) {
	case *mesh.N3Mesh:
		err = m.Data.Save(path)
	case *mesh.CollisionMesh:
		err = m.Data.Save(path)
	default:
		err = ErrNoMesh
	}
	logger.Warn("save failed", zap.String("path", path), zap.Error(err))
	return err
}

// Release unloads the active mesh.
func (e *Editor) Release() {
	e.slot.Release()
	e.sel.Clear()
	e.path = ""
}

// Resize updates the viewport size.
func (e *Editor) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.rig.SetViewport(width, height)
	e.renderer.Resize(width, height)
}

// Zoom moves the camera toward the target for positive delta.
func (e *Editor) Zoom(delta float32) { e.rig.Zoom(delta) }

// Rotate orbits the camera by a pointer delta in pixels.
func (e *Editor) Rotate(dx, dy float32) { e.rig.Rotate(dx, dy) }

// Pan slides the camera target by a pointer delta in pixels.
func (e *Editor) Pan(dx, dy float32) { e.rig.Pan(dx, dy) }

// SetTargetY moves the camera target vertically.
func (e *Editor) SetTargetY(y float32) { e.rig.SetTargetY(y) }

// TargetY returns the camera target height.
func (e *Editor) TargetY() float32 { return e.rig.Target.Y }

func (e *Editor) ray(x, y float32) picking.Ray {
	w, h := e.rig.Viewport()
	return picking.RayFromCursor(x, y, w, h, e.rig.View(), e.rig.Projection(), e.rig.Eye())
}

// PointerDown picks at the cursor. A hit selects the mesh, captures the
// drag depth and starts dragging. It reports whether the mesh was hit.
func (e *Editor) PointerDown(x, y float32) bool {
	ray := e.ray(x, y)

	var target *picking.Sphere
	m := e.slot.Active()
	if m != nil {
		s := e.sel.WorldSphere(m.Center(), m.Radius())
		target = &s
	}
	if !e.sel.Pick(ray, target) {
		logger.Debug("pick missed", zap.Float32("x", x), zap.Float32("y", y))
		return false
	}

	e.sel.CaptureDepth(ray, m.Center().Add(e.sel.Translation()))
	e.sel.BeginDrag()
	logger.Debug("pick hit", zap.Float32("depth", e.sel.Depth()))
	return true
}

// PointerMove drags the mesh while a drag is in progress.
func (e *Editor) PointerMove(x, y float32) {
	if !e.sel.IsDragging() {
		return
	}
	e.sel.Drag(e.ray(x, y))
}

// PointerUp ends a drag. The mesh stays selected.
func (e *Editor) PointerUp() {
	if e.sel.IsDragging() {
		t := e.sel.Translation()
		logger.Debug("drag ended", zap.Float32s("translation", []float32{t.X, t.Y, t.Z}))
	}
	e.sel.EndDrag()
}

// SetWireframe sets the wireframe flag.
func (e *Editor) SetWireframe(on bool) { e.wireframe = on }

// ToggleWireframe flips the wireframe flag.
func (e *Editor) ToggleWireframe() { e.wireframe = !e.wireframe }

// ResetCamera zeroes the orbit angles and frames the active mesh, or the
// origin when none is loaded.
func (e *Editor) ResetCamera() {
	e.rig.ResetOrientation()
	if m := e.slot.Active(); m != nil {
		min, max := m.Bounds()
		e.rig.FrameBounds(min, max)
		return
	}
	e.rig.FrameDefault()
}

// Render draws one frame. Errors have already been logged by the renderer;
// the frame is skipped and the next Render tries again.
func (e *Editor) Render() error {
	mode := renderer.ModeFor(e.sel.IsSelected(), e.wireframe)
	return e.renderer.Frame(e.rig.View(), e.rig.Projection(), e.sel.World(), e.slot.Active(), mode)
}

// Path returns the loaded file path, or "".
func (e *Editor) Path() string { return e.path }

// Snapshot is a read-only copy of editor state.
type Snapshot struct {
	Path        string
	Kind        mesh.Kind
	VertexCount int
	IndexCount  int

	State       picking.State
	Translation [3]float32
	Wireframe   bool

	Target [3]float32
	Eye    [3]float32
	Radius float32
	Yaw    float32
	Pitch  float32
}

// Snapshot returns the current state.
func (e *Editor) Snapshot() Snapshot {
	s := Snapshot{
		Path:        e.path,
		Kind:        e.slot.Kind(),
		State:       e.sel.State(),
		Translation: e.sel.Translation().Array(),
		Wireframe:   e.wireframe,
		Target:      e.rig.Target.Array(),
		Eye:         e.rig.Eye().Array(),
		Radius:      e.rig.Radius,
		Yaw:         e.rig.Yaw,
		Pitch:       e.rig.Pitch,
	}
	if m := e.slot.Active(); m != nil {
		s.VertexCount = m.VertexCount()
		s.IndexCount = m.IndexCount()
	}
	return s
}

// Title formats a window title for the snapshot.
func (s Snapshot) Title(app string) string {
	if s.Kind == mesh.None {
		return app
	}
	title := fmt.Sprintf("%s - %s (%s, %d vertices)", app, filepath.Base(s.Path), s.Kind, s.VertexCount)
	if s.State != picking.Idle {
		title += " [" + s.State.String() + "]"
	}
	if s.Wireframe {
		title += " [wireframe]"
	}
	return title
}

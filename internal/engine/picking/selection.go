package picking

import (
	"github.com/Faultbox/n3mesh-editor/pkg/math"
)

// State is the selection state machine position.
type State int

const (
	Idle State = iota
	Selected
	Dragging
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Selection tracks whether the active mesh is selected or being dragged and
// accumulates the world translation applied by dragging. The translation
// survives deselection and mesh reloads.
type Selection struct {
	selected bool
	dragging bool

	translation math.Vec3
	depth       float32
	previous    math.Vec3
}

// State reports the current state.
func (s *Selection) State() State {
	switch {
	case s.selected && s.dragging:
		return Dragging
	case s.selected:
		return Selected
	default:
		return Idle
	}
}

// IsSelected reports whether the mesh is selected.
func (s *Selection) IsSelected() bool { return s.selected }

// IsDragging reports whether a drag is in progress.
func (s *Selection) IsDragging() bool { return s.dragging }

// Translation returns the accumulated world translation.
func (s *Selection) Translation() math.Vec3 { return s.translation }

// Depth returns the ray distance captured at drag start.
func (s *Selection) Depth() float32 { return s.depth }

// WorldSphere offsets a mesh-local bounding sphere by the translation.
func (s *Selection) WorldSphere(center math.Vec3, radius float32) Sphere {
	return Sphere{Center: center.Add(s.translation), Radius: radius}
}

// World returns the world matrix for the current translation.
func (s *Selection) World() math.Mat4 {
	return math.TranslateVec3(s.translation)
}

// Pick selects when the ray hits target and deselects otherwise. A nil
// target means no mesh is loaded. Any miss also ends dragging.
func (s *Selection) Pick(ray Ray, target *Sphere) bool {
	if target == nil {
		s.Clear()
		return false
	}
	if _, hit := ray.IntersectSphere(*target); hit {
		s.selected = true
		return true
	}
	s.Clear()
	return false
}

// Clear deselects and stops dragging. The translation is kept.
func (s *Selection) Clear() {
	s.selected = false
	s.dragging = false
}

// CaptureDepth records the distance along ray to the plane through center
// perpendicular to the ray, and the point at that depth. It does nothing
// unless the mesh is selected.
func (s *Selection) CaptureDepth(ray Ray, center math.Vec3) bool {
	if !s.selected {
		return false
	}
	s.depth = center.Sub(ray.Origin).Dot(ray.Direction)
	s.previous = ray.At(s.depth)
	return true
}

// BeginDrag starts dragging. It requires a selection.
func (s *Selection) BeginDrag() bool {
	if !s.selected {
		return false
	}
	s.dragging = true
	return true
}

// EndDrag stops dragging.
func (s *Selection) EndDrag() {
	s.dragging = false
}

// Drag moves the translation by the motion of the captured-depth point
// between the previous ray and this one, and returns that motion. It does
// nothing unless selected and dragging.
func (s *Selection) Drag(ray Ray) (math.Vec3, bool) {
	if !s.selected || !s.dragging {
		return math.Vec3{}, false
	}
	p := ray.At(s.depth)
	delta := p.Sub(s.previous)
	s.translation = s.translation.Add(delta)
	s.previous = p
	return delta, true
}

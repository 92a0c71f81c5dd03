// Package camera provides the orbit camera used by the mesh viewport.
package camera

import (
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/n3mesh-editor/pkg/math"
)

// Radius and pitch limits.
const (
	MinRadius = 0.1
	MaxRadius = 1000.0
	MaxPitch  = 0.95 * gomath.Pi / 2

	// DefaultRadius is the orbit radius used when no mesh is framed.
	DefaultRadius = 10.0

	// frameMargin leaves room around a framed mesh.
	frameMargin = 1.5
)

// Settings holds projection parameters and input speeds.
type Settings struct {
	FOV       float32 // vertical field of view, radians
	Near, Far float32

	ZoomSpeed float32 // radius units per zoom unit
	RotateX   float32 // yaw radians per pixel
	RotateY   float32 // pitch radians per pixel
	PanSpeed  float32 // target units per pixel, scaled by radius
}

// DefaultSettings returns 45 degree FOV, near 0.01, far 1000.
func DefaultSettings() Settings {
	return Settings{
		FOV:       gomath.Pi / 4,
		Near:      0.01,
		Far:       1000,
		ZoomSpeed: 0.05,
		RotateX:   0.005,
		RotateY:   0.005,
		PanSpeed:  0.001,
	}
}

// Rig orbits a target point. Eye, view and projection are derived state and
// are rebuilt by Recompute after every mutation.
type Rig struct {
	Target math.Vec3
	Radius float32
	Yaw    float32
	Pitch  float32

	settings Settings
	width    int
	height   int

	eye  math.Vec3
	view math.Mat4
	proj math.Mat4
}

// Up is the fixed world up vector.
var Up = math.Vec3{Y: 1}

// New creates a rig looking at the origin from DefaultRadius.
func New(s Settings, width, height int) *Rig {
	r := &Rig{
		Radius:   DefaultRadius,
		settings: s,
		width:    width,
		height:   height,
	}
	r.Recompute()
	return r
}

// Settings returns the rig's projection and speed settings.
func (r *Rig) Settings() Settings { return r.settings }

// Eye returns the camera position.
func (r *Rig) Eye() math.Vec3 { return r.eye }

// View returns the left-handed view matrix.
func (r *Rig) View() math.Mat4 { return r.view }

// Projection returns the left-handed perspective matrix.
func (r *Rig) Projection() math.Mat4 { return r.proj }

// Viewport returns the current viewport size in pixels.
func (r *Rig) Viewport() (width, height int) { return r.width, r.height }

// Forward returns the unit vector from eye to target.
func (r *Rig) Forward() math.Vec3 {
	return r.Target.Sub(r.eye).Normalize()
}

// Recompute rederives eye, view and projection from the orbit parameters.
// Calling it twice without a mutation in between yields identical results.
func (r *Rig) Recompute() {
	rot := math.RotationPitchYawRoll(r.Pitch, r.Yaw, 0)
	offset := rot.TransformDirection(math.Vec3{Z: -r.Radius})
	r.eye = r.Target.Add(offset)
	r.view = math.LookAtLH(r.eye, r.Target, Up)

	aspect := float32(1)
	if r.width > 0 && r.height > 0 {
		aspect = float32(r.width) / float32(r.height)
	}
	r.proj = math.PerspectiveLH(r.settings.FOV, aspect, r.settings.Near, r.settings.Far)
}

// SetViewport updates the aspect ratio. Zero sizes (minimized windows) are ignored.
func (r *Rig) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	r.Recompute()
}

// Zoom moves the eye toward the target for positive delta.
func (r *Rig) Zoom(delta float32) {
	r.Radius = clampRadius(r.Radius - delta*r.settings.ZoomSpeed)
	r.Recompute()
}

// Rotate orbits by a pointer delta in pixels.
func (r *Rig) Rotate(dx, dy float32) {
	r.Yaw += dx * r.settings.RotateX
	r.Pitch += dy * r.settings.RotateY
	if r.Pitch > MaxPitch {
		r.Pitch = MaxPitch
	}
	if r.Pitch < -MaxPitch {
		r.Pitch = -MaxPitch
	}
	r.Recompute()
}

// Pan slides the target in the view plane by a pointer delta in pixels.
// Pan speed scales with radius so distant views move proportionally.
func (r *Rig) Pan(dx, dy float32) {
	forward := r.Forward()
	right := Up.Cross(forward).Normalize()
	actualUp := forward.Cross(right).Normalize()

	speed := r.settings.PanSpeed * r.Radius
	delta := right.Scale(-dx * speed).Add(actualUp.Scale(dy * speed))
	r.Target = r.Target.Add(delta)
	r.Recompute()
}

// SetTargetY moves the orbit target vertically.
func (r *Rig) SetTargetY(y float32) {
	r.Target.Y = y
	r.Recompute()
}

// FrameBounds centers the target on a box and backs off so the whole box
// fits the vertical field of view.
func (r *Rig) FrameBounds(min, max math.Vec3) {
	r.Target = min.Midpoint(max)
	halfDiag := max.Sub(min).Length() / 2
	r.Radius = clampRadius(halfDiag / math32.Tan(r.settings.FOV/2) * frameMargin)
	r.Recompute()
}

// FrameDefault looks at the origin from DefaultRadius.
func (r *Rig) FrameDefault() {
	r.Target = math.Vec3{}
	r.Radius = DefaultRadius
	r.Recompute()
}

// ResetOrientation zeroes yaw and pitch.
func (r *Rig) ResetOrientation() {
	r.Yaw, r.Pitch = 0, 0
	r.Recompute()
}

func clampRadius(v float32) float32 {
	if v < MinRadius {
		return MinRadius
	}
	if v > MaxRadius {
		return MaxRadius
	}
	return v
}

// Package picking provides ray casting, mesh selection and drag utilities.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/n3mesh-editor/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Sphere is a bounding sphere in world space.
type Sphere struct {
	Center math.Vec3
	Radius float32
}

// RayFromCursor converts a pixel position to a world-space ray starting at
// the eye. x and y are pixel coordinates with the origin at the top-left;
// width and height are the viewport size. Projection depth runs from 0 at the
// near plane to 1 at the far plane.
func RayFromCursor(x, y float32, width, height int, view, proj math.Mat4, eye math.Vec3) Ray {
	w, h := float32(width), float32(height)
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}

	// Screen to normalized device coords, Y flipped
	ndcX := 2*x/w - 1
	ndcY := 1 - 2*y/h

	farClip := math.Vec4{ndcX, ndcY, 1, 1}
	farView := proj.Inverse().MulVec4(farClip).PerspectiveDivide()
	farWorld := view.Inverse().TransformPoint(farView.XYZ())

	return Ray{
		Origin:    eye,
		Direction: farWorld.Sub(eye).Normalize(),
	}
}

// IntersectSphere tests the ray against a sphere. It returns the distance to
// the first intersection in front of the origin. A ray starting inside the
// sphere hits and reports the exit distance.
func (r Ray) IntersectSphere(s Sphere) (t float32, hit bool) {
	l := s.Center.Sub(r.Origin)
	proj := l.Dot(r.Direction)
	l2 := l.Dot(l)
	r2 := s.Radius * s.Radius

	// Sphere behind the origin and origin outside
	if proj < 0 && l2 > r2 {
		return 0, false
	}

	m2 := l2 - proj*proj
	if m2 > r2 {
		return 0, false
	}

	q := math32.Sqrt(r2 - m2)
	if l2 > r2 {
		return proj - q, true
	}
	return proj + q, true
}

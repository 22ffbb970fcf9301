package phys

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind tags the collision geometry of a Shape.
type Kind int

const (
	// KindPlane is an infinite static half-space n.x = offset.
	KindPlane Kind = iota
	// KindBox is a box centered on its owning body.
	KindBox
)

func (k Kind) String() string {
	switch k {
	case KindPlane:
		return "plane"
	case KindBox:
		return "box"
	}
	return "unknown"
}

// Shape is a collision geometry. A plane is static and has no owning
// body; a box derives its world pose entirely from the body it is
// attached to and never stores one of its own.
type Shape struct {
	Kind Kind

	// Plane parameters: points x on the plane satisfy Normal.x = Offset.
	Normal mgl64.Vec3
	Offset float64

	// Box parameters.
	HalfExtents mgl64.Vec3

	// Body owning this shape, nil for planes.
	Body *Body
}

// NewPlane creates a static plane shape. The normal must be unit length.
func NewPlane(normal mgl64.Vec3, offset float64) (*Shape, error) {
	if math.Abs(normal.Len()-1.0) > 1e-9 {
		return nil, ErrBadNormal
	}

	return &Shape{Kind: KindPlane, Normal: normal, Offset: offset}, nil
}

// NewBox creates a box shape attached to body. The shape is appended to
// the body's shape list.
func NewBox(body *Body, halfExtents mgl64.Vec3) (*Shape, error) {
	if halfExtents.X() <= 0 || halfExtents.Y() <= 0 || halfExtents.Z() <= 0 {
		return nil, ErrBadExtents
	}

	s := &Shape{Kind: KindBox, HalfExtents: halfExtents, Body: body}
	body.Shapes = append(body.Shapes, s)
	return s, nil
}

// Static reports whether the shape has no owning body.
func (s *Shape) Static() bool { return s.Body == nil }

// WorldVertices returns the 8 corners of a box shape in world space,
// derived from the owning body's pose.
func (s *Shape) WorldVertices() [8]mgl64.Vec3 {
	h := s.HalfExtents
	local := [8]mgl64.Vec3{
		{-h.X(), -h.Y(), -h.Z()},
		{+h.X(), -h.Y(), -h.Z()},
		{-h.X(), +h.Y(), -h.Z()},
		{+h.X(), +h.Y(), -h.Z()},
		{-h.X(), -h.Y(), +h.Z()},
		{+h.X(), -h.Y(), +h.Z()},
		{-h.X(), +h.Y(), +h.Z()},
		{+h.X(), +h.Y(), +h.Z()},
	}

	var out [8]mgl64.Vec3
	for i, v := range local {
		out[i] = s.Body.Position.Add(s.Body.Orientation.Rotate(v))
	}
	return out
}

// AABB returns the world-space axis-aligned bounds of the shape. Planes
// are unbounded half-spaces and report infinite bounds; the narrow
// phase filters the resulting false positives.
func (s *Shape) AABB() (min, max mgl64.Vec3) {
	switch s.Kind {
	case KindPlane:
		inf := math.Inf(1)
		return mgl64.Vec3{-inf, -inf, -inf}, mgl64.Vec3{inf, inf, inf}
	case KindBox:
		// Extent of the rotated box along each world axis is the
		// absolute rotation matrix applied to the half-extents.
		r := s.Body.Orientation.Mat4().Mat3()
		h := s.HalfExtents
		var ext mgl64.Vec3
		for axis := 0; axis < 3; axis++ {
			ext[axis] = math.Abs(r.At(axis, 0))*h.X() +
				math.Abs(r.At(axis, 1))*h.Y() +
				math.Abs(r.At(axis, 2))*h.Z()
		}
		return s.Body.Position.Sub(ext), s.Body.Position.Add(ext)
	}
	return mgl64.Vec3{}, mgl64.Vec3{}
}

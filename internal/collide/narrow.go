package collide

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/phys"
)

const parallelAxisEpsilon = 1e-10

// Generate runs the exact narrow-phase test for a shape pair and
// returns up to max contacts stamped with the given surface parameters.
// Zero contacts is a normal result, not a failure. When more true
// contacts exist than max, the deepest points are kept.
func Generate(a, b *phys.Shape, max int, surface Surface) []Contact {
	if max <= 0 {
		return nil
	}

	var contacts []Contact
	switch {
	case a.Kind == phys.KindPlane && b.Kind == phys.KindBox:
		contacts = collidePlaneBox(a, b, surface)
	case a.Kind == phys.KindBox && b.Kind == phys.KindPlane:
		contacts = collidePlaneBox(b, a, surface)
	case a.Kind == phys.KindBox && b.Kind == phys.KindBox:
		contacts = collideBoxBox(a, b, surface)
	}

	if len(contacts) > max {
		sort.Slice(contacts, func(i, j int) bool {
			return contacts[i].Depth > contacts[j].Depth
		})
		contacts = contacts[:max]
	}
	return contacts
}

// collidePlaneBox tests each of the box's 8 world-space corners against
// the plane equation. A corner at signed distance <= 0 yields a contact
// at that corner with the plane normal and the unsigned penetration.
func collidePlaneBox(plane, box *phys.Shape, surface Surface) []Contact {
	var contacts []Contact
	for _, v := range box.WorldVertices() {
		dist := plane.Normal.Dot(v) - plane.Offset
		if dist > 0 {
			continue
		}
		contacts = append(contacts, Contact{
			Position: v,
			Normal:   plane.Normal,
			Depth:    -dist,
			Surface:  surface,
			A:        plane,
			B:        box,
		})
	}
	return contacts
}

// collideBoxBox runs a separating-axis test over the 15 candidate axes
// (3 face normals per box plus the 9 edge cross products). If no
// separating axis exists, contacts are emitted at the corners of each
// box that lie inside the other, along the axis of minimum overlap.
func collideBoxBox(a, b *phys.Shape, surface Surface) []Contact {
	ra := a.Body.Orientation.Mat4().Mat3()
	rb := b.Body.Orientation.Mat4().Mat3()

	axes := make([]mgl64.Vec3, 0, 15)
	for i := 0; i < 3; i++ {
		axes = append(axes, ra.Col(i))
	}
	for i := 0; i < 3; i++ {
		axes = append(axes, rb.Col(i))
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cross := ra.Col(i).Cross(rb.Col(j))
			// Near-parallel edges produce a degenerate axis already
			// covered by the face normals.
			if cross.LenSqr() < parallelAxisEpsilon {
				continue
			}
			axes = append(axes, cross.Normalize())
		}
	}

	d := b.Body.Position.Sub(a.Body.Position)

	minOverlap := math.Inf(1)
	var minAxis mgl64.Vec3
	for _, axis := range axes {
		overlap := projectedRadius(ra, a.HalfExtents, axis) +
			projectedRadius(rb, b.HalfExtents, axis) -
			math.Abs(d.Dot(axis))
		if overlap <= 0 {
			return nil // separating axis found
		}
		if overlap < minOverlap {
			minOverlap = overlap
			minAxis = axis
		}
	}

	// Orient the minimum-overlap axis from a toward b.
	if d.Dot(minAxis) < 0 {
		minAxis = minAxis.Mul(-1)
	}

	var contacts []Contact
	for _, v := range b.WorldVertices() {
		if pointInBox(a, v) {
			contacts = append(contacts, Contact{
				Position: v,
				Normal:   minAxis,
				Depth:    minOverlap,
				Surface:  surface,
				A:        a,
				B:        b,
			})
		}
	}
	for _, v := range a.WorldVertices() {
		if pointInBox(b, v) {
			contacts = append(contacts, Contact{
				Position: v,
				Normal:   minAxis,
				Depth:    minOverlap,
				Surface:  surface,
				A:        a,
				B:        b,
			})
		}
	}

	// Shallow overlap can leave no corner inside either box; fall back
	// to a single contact between the centers so the solver still
	// separates the pair.
	if len(contacts) == 0 {
		mid := a.Body.Position.Add(d.Mul(0.5))
		contacts = append(contacts, Contact{
			Position: mid,
			Normal:   minAxis,
			Depth:    minOverlap,
			Surface:  surface,
			A:        a,
			B:        b,
		})
	}
	return contacts
}

// projectedRadius is the half-extent of an oriented box projected onto
// the unit axis.
func projectedRadius(rot mgl64.Mat3, half mgl64.Vec3, axis mgl64.Vec3) float64 {
	return math.Abs(rot.Col(0).Dot(axis))*half.X() +
		math.Abs(rot.Col(1).Dot(axis))*half.Y() +
		math.Abs(rot.Col(2).Dot(axis))*half.Z()
}

func pointInBox(box *phys.Shape, p mgl64.Vec3) bool {
	local := box.Body.Orientation.Conjugate().Rotate(p.Sub(box.Body.Position))
	h := box.HalfExtents
	const eps = 1e-9
	return math.Abs(local.X()) <= h.X()+eps &&
		math.Abs(local.Y()) <= h.Y()+eps &&
		math.Abs(local.Z()) <= h.Z()+eps
}

package collide

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/phys"
)

// Surface holds the contact surface parameters stamped onto every
// generated contact. These are simulation tuning constants, not
// derived from body material.
type Surface struct {
	// Friction is the Coulomb friction coefficient. +Inf means the
	// contact never slides.
	Friction float64
	// Bounce is the restitution coefficient.
	Bounce float64
	// BounceVel is the minimum closing speed for restitution to apply;
	// slower impacts are treated as inelastic to suppress jitter.
	BounceVel float64
	// SoftCFM is the per-contact constraint force mixing override.
	SoftCFM float64
}

// DefaultSurface returns the default contact parameters: non-sliding
// friction with a slightly bouncy, soft contact.
func DefaultSurface() Surface {
	return Surface{
		Friction:  math.Inf(1),
		Bounce:    0.01,
		BounceVel: 0.1,
		SoftCFM:   0.01,
	}
}

// Contact is a single narrow-phase contact point. Contacts are created
// fresh each tick and never persisted across ticks.
type Contact struct {
	// Position of the contact in world space.
	Position mgl64.Vec3
	// Normal is unit length and points from shape A toward shape B.
	Normal mgl64.Vec3
	// Depth is the penetration depth, >= 0.
	Depth float64

	Surface Surface

	A, B *phys.Shape
}

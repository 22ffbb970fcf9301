package phys

import "errors"

// Construction errors. These are rejected at creation time, never
// silently clamped.
var (
	// ErrBadMass indicates a non-positive or non-finite mass.
	ErrBadMass = errors.New("phys: mass must be positive and finite")

	// ErrBadInertia indicates an inertia tensor that is not positive-definite.
	ErrBadInertia = errors.New("phys: inertia tensor must be positive-definite")

	// ErrBadNormal indicates a plane normal that is not unit length.
	ErrBadNormal = errors.New("phys: plane normal must be unit length")

	// ErrBadExtents indicates non-positive box half-extents.
	ErrBadExtents = errors.New("phys: box half-extents must be positive")
)

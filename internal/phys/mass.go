package phys

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MassProperties holds the mass and body-frame inertia tensor of a body.
// For a box the tensor is diagonal.
type MassProperties struct {
	Mass    float64
	Inertia mgl64.Mat3
}

// BoxMass computes the mass properties of a solid box from its density
// and half-extents: m = 8*density*hx*hy*hz, Ixx = m/3*(hy^2+hz^2), etc.
func BoxMass(density float64, halfExtents mgl64.Vec3) (MassProperties, error) {
	if density <= 0 || math.IsNaN(density) || math.IsInf(density, 0) {
		return MassProperties{}, ErrBadMass
	}
	hx, hy, hz := halfExtents.X(), halfExtents.Y(), halfExtents.Z()
	if hx <= 0 || hy <= 0 || hz <= 0 {
		return MassProperties{}, ErrBadExtents
	}

	m := 8.0 * density * hx * hy * hz
	third := m / 3.0
	inertia := mgl64.Diag3(mgl64.Vec3{
		third * (hy*hy + hz*hz),
		third * (hx*hx + hz*hz),
		third * (hx*hx + hy*hy),
	})

	return MassProperties{Mass: m, Inertia: inertia}, nil
}

// Validate rejects degenerate mass properties. The inertia tensor must
// be symmetric positive-definite, checked via its leading principal minors.
func (mp MassProperties) Validate() error {
	if mp.Mass <= 0 || math.IsNaN(mp.Mass) || math.IsInf(mp.Mass, 0) {
		return ErrBadMass
	}

	i := mp.Inertia
	d1 := i.At(0, 0)
	d2 := i.At(0, 0)*i.At(1, 1) - i.At(0, 1)*i.At(1, 0)
	d3 := i.Det()
	if d1 <= 0 || d2 <= 0 || d3 <= 0 || math.IsNaN(d3) || math.IsInf(d3, 0) {
		return ErrBadInertia
	}

	return nil
}

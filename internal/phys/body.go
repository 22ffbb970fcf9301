package phys

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body represents a rigid body in the simulation.
type Body struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat

	LinearVel  mgl64.Vec3
	AngularVel mgl64.Vec3

	mass       float64
	invMass    float64
	inertia    mgl64.Mat3
	invInertia mgl64.Mat3

	enabled  bool
	idleTime float64

	// Shapes attached to this body. Their world pose mirrors the body pose.
	Shapes []*Shape
}

// NewBody creates a dynamic body at the given pose. Degenerate mass
// properties are rejected here rather than silently simulated.
func NewBody(position mgl64.Vec3, orientation mgl64.Quat, mp MassProperties) (*Body, error) {
	if err := mp.Validate(); err != nil {
		return nil, err
	}

	return &Body{
		Position:    position,
		Orientation: orientation.Normalize(),
		mass:        mp.Mass,
		invMass:     1.0 / mp.Mass,
		inertia:     mp.Inertia,
		invInertia:  mp.Inertia.Inv(),
		enabled:     true,
	}, nil
}

func (b *Body) Mass() float64    { return b.mass }
func (b *Body) InvMass() float64 { return b.invMass }
func (b *Body) Enabled() bool    { return b.enabled }

// Wake re-enables a body and resets its idle timer.
func (b *Body) Wake() {
	b.enabled = true
	b.idleTime = 0
}

// Disable puts the body to rest. Its velocities are zeroed so it stays
// exactly where it settled.
func (b *Body) Disable() {
	b.enabled = false
	b.idleTime = 0
	b.LinearVel = mgl64.Vec3{}
	b.AngularVel = mgl64.Vec3{}
}

// InvInertiaWorld returns the inverse inertia tensor in world space:
// R * I_local^-1 * R^T.
func (b *Body) InvInertiaWorld() mgl64.Mat3 {
	r := b.Orientation.Mat4().Mat3()
	return r.Mul3(b.invInertia).Mul3(r.Transpose())
}

// VelocityAt returns the velocity of the body material point at the
// world-space position p.
func (b *Body) VelocityAt(p mgl64.Vec3) mgl64.Vec3 {
	return b.LinearVel.Add(b.AngularVel.Cross(p.Sub(b.Position)))
}

// IntegratePose advances position and orientation by dt using the
// current (already solved) velocities. The quaternion is renormalized
// every step so the orientation stays a valid rotation.
func (b *Body) IntegratePose(dt float64) {
	if !b.enabled {
		return
	}

	b.Position = b.Position.Add(b.LinearVel.Mul(dt))

	omega := mgl64.Quat{W: 0, V: b.AngularVel}
	qDot := omega.Mul(b.Orientation).Scale(0.5)
	b.Orientation = b.Orientation.Add(qDot.Scale(dt)).Normalize()
}

// UpdateIdle accumulates time spent below the rest thresholds and
// disables the body once it has been idle for holdTime seconds.
func (b *Body) UpdateIdle(dt, linThreshold, angThreshold, holdTime float64) {
	if !b.enabled {
		return
	}

	if b.LinearVel.Len() < linThreshold && b.AngularVel.Len() < angThreshold {
		b.idleTime += dt
		if b.idleTime >= holdTime {
			b.Disable()
		}
	} else {
		b.idleTime = 0
	}
}

// Valid reports whether the body state is free of NaN and Inf.
func (b *Body) Valid() bool {
	vals := []float64{
		b.Position.X(), b.Position.Y(), b.Position.Z(),
		b.LinearVel.X(), b.LinearVel.Y(), b.LinearVel.Z(),
		b.AngularVel.X(), b.AngularVel.Y(), b.AngularVel.Z(),
		b.Orientation.W, b.Orientation.X(), b.Orientation.Y(), b.Orientation.Z(),
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/collide"
	"github.com/san-kum/rigidsim/internal/phys"
)

// Constraint is a velocity constraint between two bodies (or one body
// and a static anchor). The solver calls Init once per step to
// precompute effective masses and bias terms, then Iterate once per
// Gauss-Seidel sweep. New constraint kinds plug into the same solver
// loop by implementing this interface.
type Constraint interface {
	Init(params Params, dt float64)
	Iterate()
}

// contactConstraint is the tick-scoped non-penetration constraint for a
// single contact point, with two tangential friction rows.
type contactConstraint struct {
	bodyA *phys.Body // nil for a static shape
	bodyB *phys.Body

	position mgl64.Vec3
	normal   mgl64.Vec3 // unit, from A toward B
	depth    float64
	surface  collide.Surface

	// Precomputed by Init.
	rA, rB       mgl64.Vec3
	tangent1     mgl64.Vec3
	tangent2     mgl64.Vec3
	normalMass   float64
	tangentMass1 float64
	tangentMass2 float64
	bias         float64

	// Accumulated impulses across sweeps.
	impulseN  float64
	impulseT1 float64
	impulseT2 float64
}

func newContactConstraint(c collide.Contact) contactConstraint {
	return contactConstraint{
		bodyA:    c.A.Body,
		bodyB:    c.B.Body,
		position: c.Position,
		normal:   c.Normal,
		depth:    c.Depth,
		surface:  c.Surface,
	}
}

// invMass treats static shapes (nil body) and disabled bodies as
// immovable.
func invMass(b *phys.Body) float64 {
	if b == nil || !b.Enabled() {
		return 0
	}
	return b.InvMass()
}

func invInertiaWorld(b *phys.Body) mgl64.Mat3 {
	if b == nil || !b.Enabled() {
		return mgl64.Mat3{}
	}
	return b.InvInertiaWorld()
}

// relativeVelocity is the velocity of B relative to A at the contact
// point. Static shapes contribute zero.
func (c *contactConstraint) relativeVelocity() mgl64.Vec3 {
	var vA, vB mgl64.Vec3
	if c.bodyA != nil {
		vA = c.bodyA.VelocityAt(c.position)
	}
	if c.bodyB != nil {
		vB = c.bodyB.VelocityAt(c.position)
	}
	return vB.Sub(vA)
}

// effectiveMass returns 1/k for a unit impulse along dir at the contact
// point, including the angular terms of both bodies.
func (c *contactConstraint) effectiveMass(dir mgl64.Vec3) float64 {
	k := invMass(c.bodyA) + invMass(c.bodyB)
	if c.bodyA != nil {
		rn := c.rA.Cross(dir)
		k += invInertiaWorld(c.bodyA).Mul3x1(rn).Dot(rn)
	}
	if c.bodyB != nil {
		rn := c.rB.Cross(dir)
		k += invInertiaWorld(c.bodyB).Mul3x1(rn).Dot(rn)
	}
	return k
}

func (c *contactConstraint) Init(params Params, dt float64) {
	if c.bodyA != nil {
		c.rA = c.position.Sub(c.bodyA.Position)
	}
	if c.bodyB != nil {
		c.rB = c.position.Sub(c.bodyB.Position)
	}

	c.tangent1, c.tangent2 = tangentBasis(c.normal)

	// CFM softens each row by adding to the diagonal of the effective
	// mass, same role as in the reference formulation. The per-contact
	// SoftCFM override applies to the normal row.
	cfmN := params.CFM + c.surface.SoftCFM
	kn := c.effectiveMass(c.normal)
	c.normalMass = 1.0 / (kn + cfmN/dt)

	kt1 := c.effectiveMass(c.tangent1)
	kt2 := c.effectiveMass(c.tangent2)
	c.tangentMass1 = 1.0 / (kt1 + params.CFM/dt)
	c.tangentMass2 = 1.0 / (kt2 + params.CFM/dt)

	// Positional error beyond the surface layer is corrected by a
	// fraction ERP per step, with the correction velocity capped so
	// deep penetrations separate gradually instead of popping.
	pen := c.depth - params.SurfaceLayer
	if pen < 0 {
		pen = 0
	}
	bias := params.ERP * pen / dt
	if bias > params.MaxCorrectingVel {
		bias = params.MaxCorrectingVel
	}

	// Restitution applies only when the pre-solve closing speed exceeds
	// the bounce threshold; slower impacts are inelastic so resting
	// contacts do not jitter.
	closing := -c.relativeVelocity().Dot(c.normal)
	if closing > c.surface.BounceVel {
		if restitution := c.surface.Bounce * closing; restitution > bias {
			bias = restitution
		}
	}
	c.bias = bias

	c.impulseN = 0
	c.impulseT1 = 0
	c.impulseT2 = 0
}

// Iterate runs one Gauss-Seidel sweep over the three rows of this
// contact: the non-penetration row, then the two friction rows clamped
// to the Coulomb cone.
func (c *contactConstraint) Iterate() {
	// Normal row: relative normal velocity must not fall below the bias
	// velocity, and the accumulated impulse may only push, never pull.
	vn := c.relativeVelocity().Dot(c.normal)
	lambda := -(vn - c.bias) * c.normalMass
	newImpulse := c.impulseN + lambda
	if newImpulse < 0 {
		newImpulse = 0
	}
	lambda = newImpulse - c.impulseN
	c.impulseN = newImpulse
	c.apply(c.normal.Mul(lambda))

	// Friction rows. An infinite coefficient means the contact never
	// slides and the cone clamp is skipped.
	maxFriction := math.Inf(1)
	if !math.IsInf(c.surface.Friction, 1) {
		maxFriction = c.surface.Friction * c.impulseN
	}

	vt1 := c.relativeVelocity().Dot(c.tangent1)
	lambda1 := -vt1 * c.tangentMass1
	c.impulseT1, lambda1 = clampAccumulated(c.impulseT1, lambda1, maxFriction)
	c.apply(c.tangent1.Mul(lambda1))

	vt2 := c.relativeVelocity().Dot(c.tangent2)
	lambda2 := -vt2 * c.tangentMass2
	c.impulseT2, lambda2 = clampAccumulated(c.impulseT2, lambda2, maxFriction)
	c.apply(c.tangent2.Mul(lambda2))
}

// apply applies the impulse p to body B and -p to body A at the contact
// point.
func (c *contactConstraint) apply(p mgl64.Vec3) {
	if c.bodyA != nil && c.bodyA.Enabled() {
		c.bodyA.LinearVel = c.bodyA.LinearVel.Sub(p.Mul(invMass(c.bodyA)))
		c.bodyA.AngularVel = c.bodyA.AngularVel.Sub(invInertiaWorld(c.bodyA).Mul3x1(c.rA.Cross(p)))
	}
	if c.bodyB != nil && c.bodyB.Enabled() {
		c.bodyB.LinearVel = c.bodyB.LinearVel.Add(p.Mul(invMass(c.bodyB)))
		c.bodyB.AngularVel = c.bodyB.AngularVel.Add(invInertiaWorld(c.bodyB).Mul3x1(c.rB.Cross(p)))
	}
}

// clampAccumulated clamps an accumulated impulse to [-limit, limit] and
// returns the new total and the delta actually applied.
func clampAccumulated(total, delta, limit float64) (float64, float64) {
	newTotal := total + delta
	if newTotal > limit {
		newTotal = limit
	} else if newTotal < -limit {
		newTotal = -limit
	}
	return newTotal, newTotal - total
}

// tangentBasis builds two unit vectors orthogonal to each other and to
// the unit normal.
func tangentBasis(n mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var t1 mgl64.Vec3
	if math.Abs(n.X()) < 0.57735 {
		t1 = mgl64.Vec3{1, 0, 0}.Cross(n).Normalize()
	} else {
		t1 = mgl64.Vec3{0, 1, 0}.Cross(n).Normalize()
	}
	return t1, n.Cross(t1)
}

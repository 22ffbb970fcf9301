package engine

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/collide"
	"github.com/san-kum/rigidsim/internal/phys"
)

// Params holds the global simulation tuning parameters.
type Params struct {
	Gravity mgl64.Vec3

	// ERP is the fraction of positional constraint error corrected per
	// step. CFM softens constraints, trading rigidity for stability.
	ERP float64
	CFM float64

	// MaxCorrectingVel caps the velocity at which interpenetration is
	// corrected, preventing explosive separation.
	MaxCorrectingVel float64

	// SurfaceLayer is the penetration depth contacts are allowed to
	// sink into before positional correction kicks in.
	SurfaceLayer float64

	// Iterations is the number of Gauss-Seidel sweeps per step.
	Iterations int

	// MaxContacts bounds the contacts generated per shape pair.
	MaxContacts int

	AutoDisable         bool
	DisableLinThreshold float64
	DisableAngThreshold float64
	DisableTime         float64

	// Surface parameters stamped onto every generated contact.
	Surface collide.Surface
}

// DefaultParams returns the standard tuning for the drop scenario.
func DefaultParams() Params {
	return Params{
		Gravity:             mgl64.Vec3{0, -1.0, 0},
		ERP:                 0.2,
		CFM:                 1e-5,
		MaxCorrectingVel:    0.9,
		SurfaceLayer:        0.001,
		Iterations:          20,
		MaxContacts:         10,
		AutoDisable:         true,
		DisableLinThreshold: 0.01,
		DisableAngThreshold: 0.01,
		DisableTime:         0.1,
		Surface:             collide.DefaultSurface(),
	}
}

// World is the global simulation state: parameters, bodies and
// persistent constraints, plus the tick-scoped contact group.
type World struct {
	Params Params

	bodies      []*phys.Body
	constraints []Constraint

	// Tick-scoped contact constraints. The backing array is reused
	// across steps so the hot path does not allocate per contact.
	contactGroup []contactConstraint
	solveList    []Constraint
	lastContacts int

	step int
	time float64
}

// NewWorld creates an empty world with the given parameters.
func NewWorld(params Params) *World {
	return &World{Params: params}
}

// CreateBody creates a dynamic body at the given pose and adds it to
// the world. Degenerate mass properties are rejected.
func (w *World) CreateBody(position mgl64.Vec3, orientation mgl64.Quat, mp phys.MassProperties) (*phys.Body, error) {
	b, err := phys.NewBody(position, orientation, mp)
	if err != nil {
		return nil, err
	}
	w.bodies = append(w.bodies, b)
	return b, nil
}

// AddBody adds an existing body to the world.
func (w *World) AddBody(b *phys.Body) {
	w.bodies = append(w.bodies, b)
}

// RemoveBody removes a body from the world.
func (w *World) RemoveBody(b *phys.Body) {
	for i, body := range w.bodies {
		if body == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

// Bodies returns the bodies in the world.
func (w *World) Bodies() []*phys.Body {
	return w.bodies
}

// AddConstraint registers a persistent constraint. Unlike contact
// constraints it survives across steps until removed.
func (w *World) AddConstraint(c Constraint) {
	w.constraints = append(w.constraints, c)
}

// RemoveConstraint removes a persistent constraint.
func (w *World) RemoveConstraint(c Constraint) {
	for i, cc := range w.constraints {
		if cc == c {
			w.constraints = append(w.constraints[:i], w.constraints[i+1:]...)
			return
		}
	}
}

// ContactCount returns the number of contact constraints generated by
// the most recent step. The constraints themselves are discarded when
// the step ends; only the count survives for reporting.
func (w *World) ContactCount() int {
	return w.lastContacts
}

// Time returns the accumulated simulation time.
func (w *World) Time() float64 { return w.time }

// StepCount returns the number of completed steps.
func (w *World) StepCount() int { return w.step }

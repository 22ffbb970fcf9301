package engine

import (
	"github.com/san-kum/rigidsim/internal/collide"
	"github.com/san-kum/rigidsim/internal/phys"
)

// Step advances the world by dt seconds against the shapes in space:
// gravity, broad phase, narrow phase, constraint solve, pose
// integration, auto-disable, contact teardown. It rejects dt <= 0 and
// returns ErrUnstable (wrapped in a StepError) if any body ends the
// step with NaN or Inf in its state.
func (w *World) Step(space *collide.Space, dt float64) error {
	if dt <= 0 {
		return ErrInvalidTimestep
	}

	// 1. External forces: gravity goes straight into linear velocity.
	g := w.Params.Gravity.Mul(dt)
	for _, b := range w.bodies {
		if b.Enabled() {
			b.LinearVel = b.LinearVel.Add(g)
		}
	}

	// 2. Broad phase, then narrow phase per candidate pair. The contact
	// group's backing array is reused across steps.
	w.contactGroup = w.contactGroup[:0]
	for _, pair := range space.Pairs() {
		contacts := collide.Generate(pair.A, pair.B, w.Params.MaxContacts, w.Params.Surface)
		if len(contacts) == 0 {
			continue
		}

		wakeOnContact(pair.A.Body, pair.B.Body)

		for _, c := range contacts {
			if !contactActive(c.A.Body, c.B.Body) {
				continue
			}
			w.contactGroup = append(w.contactGroup, newContactConstraint(c))
		}
	}

	// 3. Solve persistent and temporary constraints together. Pointers
	// into the contact group are taken only after it is fully built.
	w.solveList = w.solveList[:0]
	w.solveList = append(w.solveList, w.constraints...)
	for i := range w.contactGroup {
		w.solveList = append(w.solveList, &w.contactGroup[i])
	}

	for _, c := range w.solveList {
		c.Init(w.Params, dt)
	}
	for it := 0; it < w.Params.Iterations; it++ {
		for _, c := range w.solveList {
			c.Iterate()
		}
	}

	// 4. Integrate poses with the solved velocities (semi-implicit
	// Euler) and catch numerical blow-ups.
	for _, b := range w.bodies {
		b.IntegratePose(dt)
		if !b.Valid() {
			return &StepError{Step: w.step, Time: w.time, Wrapped: ErrUnstable}
		}
	}

	// 5. Auto-disable bodies that have been at rest long enough.
	if w.Params.AutoDisable {
		for _, b := range w.bodies {
			b.UpdateIdle(dt, w.Params.DisableLinThreshold, w.Params.DisableAngThreshold, w.Params.DisableTime)
		}
	}

	// 6. Discard the tick's contact constraints. Contacts are not valid
	// across poses that have since changed.
	w.lastContacts = len(w.contactGroup)
	w.contactGroup = w.contactGroup[:0]

	w.step++
	w.time += dt
	return nil
}

// wakeOnContact wakes a disabled body touched by an enabled dynamic
// body. Contact with static geometry alone leaves a resting body
// asleep, otherwise nothing would ever stay disabled on the ground.
func wakeOnContact(a, b *phys.Body) {
	if a != nil && b != nil {
		if a.Enabled() && !b.Enabled() {
			b.Wake()
		} else if b.Enabled() && !a.Enabled() {
			a.Wake()
		}
	}
}

// contactActive reports whether at least one side of the contact is an
// enabled dynamic body; only then is a constraint worth solving.
func contactActive(a, b *phys.Body) bool {
	return (a != nil && a.Enabled()) || (b != nil && b.Enabled())
}

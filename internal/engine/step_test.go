package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/collide"
	"github.com/san-kum/rigidsim/internal/phys"
)

// dropWorld builds the standard scenario: ground plane at y=0 and a
// unit-half-extent box of density 0.5 dropped from the given pose.
func dropWorld(t *testing.T, pos mgl64.Vec3, orient mgl64.Quat) (*World, *collide.Space, *phys.Body) {
	t.Helper()

	w := NewWorld(DefaultParams())
	space := collide.NewSpace()

	plane, err := phys.NewPlane(mgl64.Vec3{0, 1, 0}, 0)
	if err != nil {
		t.Fatalf("NewPlane failed: %v", err)
	}
	space.Add(plane)

	mp, err := phys.BoxMass(0.5, mgl64.Vec3{1, 1, 1})
	if err != nil {
		t.Fatalf("BoxMass failed: %v", err)
	}
	box, err := w.CreateBody(pos, orient, mp)
	if err != nil {
		t.Fatalf("CreateBody failed: %v", err)
	}
	shape, err := phys.NewBox(box, mgl64.Vec3{1, 1, 1})
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}
	space.Add(shape)

	return w, space, box
}

func lowestPoint(b *phys.Body) float64 {
	low := math.Inf(1)
	for _, s := range b.Shapes {
		for _, v := range s.WorldVertices() {
			if v.Y() < low {
				low = v.Y()
			}
		}
	}
	return low
}

func TestStepRejectsNonPositiveDt(t *testing.T) {
	w, space, _ := dropWorld(t, mgl64.Vec3{0, 10, -5}, mgl64.QuatIdent())

	for _, dt := range []float64{0, -0.01} {
		if err := w.Step(space, dt); !errors.Is(err, ErrInvalidTimestep) {
			t.Errorf("Step(dt=%g) error = %v, want ErrInvalidTimestep", dt, err)
		}
	}
}

func TestFreeFallMatchesClosedForm(t *testing.T) {
	w, space, box := dropWorld(t, mgl64.Vec3{0, 10, -5}, mgl64.QuatIdent())
	dt := 0.01
	g := 1.0

	// The box reaches the plane near step 424; stay in free fall.
	prevY := box.Position.Y()
	for n := 1; n <= 400; n++ {
		if err := w.Step(space, dt); err != nil {
			t.Fatalf("Step failed at %d: %v", n, err)
		}

		y := box.Position.Y()
		if y >= prevY {
			t.Fatalf("height not strictly decreasing at step %d: %.9f -> %.9f", n, prevY, y)
		}
		prevY = y

		// Semi-implicit Euler: y_n = y0 - g*dt^2 * n(n+1)/2.
		want := 10.0 - g*dt*dt*float64(n)*float64(n+1)/2.0
		if math.Abs(y-want) > 1e-9 {
			t.Fatalf("step %d: y = %.12f, want %.12f", n, y, want)
		}

		// Within discretization error of the continuous y0 - g*t^2/2.
		tm := float64(n) * dt
		if math.Abs(y-(10.0-0.5*g*tm*tm)) > g*dt*tm/2+1e-9 {
			t.Fatalf("step %d: y = %.9f too far from continuous free fall", n, y)
		}
	}

	// x and z are untouched by a fall straight down.
	if box.Position.X() != 0 || box.Position.Z() != -5 {
		t.Errorf("lateral drift during free fall: %v", box.Position)
	}
}

func TestDropSettlesOnPlane(t *testing.T) {
	w, space, box := dropWorld(t, mgl64.Vec3{0, 10, -5}, mgl64.QuatIdent())
	dt := 0.01

	firstContactY := math.Inf(1)
	minLow := math.Inf(1)
	maxYAfterContact := math.Inf(-1)
	inContact := false

	for n := 0; n < 1000; n++ {
		if err := w.Step(space, dt); err != nil {
			t.Fatalf("Step failed at %d: %v", n, err)
		}

		if low := lowestPoint(box); low < minLow {
			minLow = low
		}
		if !inContact && w.ContactCount() > 0 {
			inContact = true
			firstContactY = box.Position.Y()
		}
		if inContact && box.Position.Y() > maxYAfterContact {
			maxYAfterContact = box.Position.Y()
		}
	}

	if !inContact {
		t.Fatal("box never touched the plane")
	}
	if math.Abs(firstContactY-1.0) > 0.1 {
		t.Errorf("first contact at y = %.4f, want near 1.0", firstContactY)
	}

	// Impact speed bounds how deep the box can sink in one step; after
	// that the solver must not push it deeper.
	impactSpeed := math.Sqrt(2 * 9.0)
	if minLow < -(impactSpeed*dt + w.Params.SurfaceLayer) {
		t.Errorf("box tunneled to %.5f below the plane", minLow)
	}

	// Rebounds are driven by the capped correction velocity, so the box
	// can rise at most MaxCorrectingVel^2/(2g) above its rest height.
	maxRebound := 1.0 + w.Params.MaxCorrectingVel*w.Params.MaxCorrectingVel/2 + 0.05
	if maxYAfterContact > maxRebound {
		t.Errorf("box popped to y = %.4f, rebound bound %.4f", maxYAfterContact, maxRebound)
	}

	if math.Abs(box.Position.Y()-1.0) > 0.02 {
		t.Errorf("settled height = %.4f, want 1.0 +- 0.02", box.Position.Y())
	}
	if box.Enabled() {
		t.Error("box should have auto-disabled after settling")
	}

	// Once disabled it stays put absent external perturbation.
	rest := box.Position
	for n := 0; n < 100; n++ {
		if err := w.Step(space, dt); err != nil {
			t.Fatalf("Step failed post-settle: %v", err)
		}
		if box.Enabled() {
			t.Fatal("settled box woke up without perturbation")
		}
	}
	if box.Position != rest {
		t.Errorf("disabled box moved from %v to %v", rest, box.Position)
	}
}

func TestStepDeterministic(t *testing.T) {
	orient := mgl64.QuatRotate(1.3, mgl64.Vec3{0.2, 0.7, -0.4}.Normalize())

	w1, s1, b1 := dropWorld(t, mgl64.Vec3{0, 10, -5}, orient)
	w2, s2, b2 := dropWorld(t, mgl64.Vec3{0, 10, -5}, orient)

	for n := 0; n < 600; n++ {
		if err := w1.Step(s1, 0.01); err != nil {
			t.Fatalf("run 1 failed at %d: %v", n, err)
		}
		if err := w2.Step(s2, 0.01); err != nil {
			t.Fatalf("run 2 failed at %d: %v", n, err)
		}

		if b1.Position != b2.Position || b1.Orientation != b2.Orientation {
			t.Fatalf("trajectories diverged at step %d: %v vs %v", n, b1.Position, b2.Position)
		}
	}
}

func TestStepDetectsInstability(t *testing.T) {
	w, space, box := dropWorld(t, mgl64.Vec3{0, 10, -5}, mgl64.QuatIdent())

	box.LinearVel = mgl64.Vec3{math.NaN(), 0, 0}

	err := w.Step(space, 0.01)
	if !errors.Is(err, ErrUnstable) {
		t.Fatalf("Step error = %v, want ErrUnstable", err)
	}

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatal("error should wrap a StepError")
	}
	if stepErr.Step != 0 {
		t.Errorf("StepError.Step = %d, want 0", stepErr.Step)
	}
}

func TestContactGroupClearedEveryStep(t *testing.T) {
	w, space, _ := dropWorld(t, mgl64.Vec3{0, 0.5, 0}, mgl64.QuatIdent())

	for n := 0; n < 10; n++ {
		if err := w.Step(space, 0.01); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
		if len(w.contactGroup) != 0 {
			t.Fatalf("contact group survived step %d with %d constraints", n, len(w.contactGroup))
		}
		if w.ContactCount() == 0 {
			t.Fatalf("penetrating box produced no contacts at step %d", n)
		}
	}
}

func TestZeroContactTickStillIntegrates(t *testing.T) {
	w, space, box := dropWorld(t, mgl64.Vec3{0, 10, -5}, mgl64.QuatIdent())

	if err := w.Step(space, 0.01); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	if w.ContactCount() != 0 {
		t.Fatalf("box at y=10 should have no contacts, got %d", w.ContactCount())
	}
	if box.Position.Y() >= 10 {
		t.Error("gravity and integration should run on zero-contact ticks")
	}
	if box.LinearVel.Y() >= 0 {
		t.Error("gravity not applied on zero-contact tick")
	}
}

package collide

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/phys"
)

func dynamicBox(t *testing.T, pos mgl64.Vec3) (*phys.Body, *phys.Shape) {
	t.Helper()
	mp, err := phys.BoxMass(0.5, mgl64.Vec3{1, 1, 1})
	if err != nil {
		t.Fatalf("BoxMass failed: %v", err)
	}
	b, err := phys.NewBody(pos, mgl64.QuatIdent(), mp)
	if err != nil {
		t.Fatalf("NewBody failed: %v", err)
	}
	s, err := phys.NewBox(b, mgl64.Vec3{1, 1, 1})
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}
	return b, s
}

func groundPlane(t *testing.T) *phys.Shape {
	t.Helper()
	p, err := phys.NewPlane(mgl64.Vec3{0, 1, 0}, 0)
	if err != nil {
		t.Fatalf("NewPlane failed: %v", err)
	}
	return p
}

func TestPairsReportsOverlap(t *testing.T) {
	space := NewSpace()
	plane := groundPlane(t)
	_, box := dynamicBox(t, mgl64.Vec3{0, 10, -5})
	space.Add(plane)
	space.Add(box)

	pairs := space.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	if pairs[0].A != plane || pairs[0].B != box {
		t.Error("pair does not hold the expected shapes")
	}
}

func TestPairsPrunesDistantBoxes(t *testing.T) {
	space := NewSpace()
	_, a := dynamicBox(t, mgl64.Vec3{0, 0, 0})
	_, b := dynamicBox(t, mgl64.Vec3{10, 0, 0})
	space.Add(a)
	space.Add(b)

	if pairs := space.Pairs(); len(pairs) != 0 {
		t.Errorf("distant boxes should not pair, got %d pairs", len(pairs))
	}
}

func TestPairsExcludesSameBody(t *testing.T) {
	space := NewSpace()
	body, a := dynamicBox(t, mgl64.Vec3{0, 0, 0})
	b, err := phys.NewBox(body, mgl64.Vec3{0.5, 0.5, 0.5})
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}
	space.Add(a)
	space.Add(b)

	if pairs := space.Pairs(); len(pairs) != 0 {
		t.Errorf("shapes on the same body should not pair, got %d pairs", len(pairs))
	}
}

func TestPairsExcludesStaticStatic(t *testing.T) {
	space := NewSpace()
	space.Add(groundPlane(t))
	space.Add(groundPlane(t))

	if pairs := space.Pairs(); len(pairs) != 0 {
		t.Errorf("two static shapes should not pair, got %d pairs", len(pairs))
	}
}

func TestPairsIdempotent(t *testing.T) {
	space := NewSpace()
	space.Add(groundPlane(t))
	_, a := dynamicBox(t, mgl64.Vec3{0, 0.5, 0})
	_, b := dynamicBox(t, mgl64.Vec3{1, 0.5, 0})
	space.Add(a)
	space.Add(b)

	first := space.Pairs()
	second := space.Pairs()

	if len(first) != len(second) {
		t.Fatalf("pair counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("pair %d differs between calls", i)
		}
	}
}

func TestRemove(t *testing.T) {
	space := NewSpace()
	plane := groundPlane(t)
	_, box := dynamicBox(t, mgl64.Vec3{0, 0.5, 0})
	space.Add(plane)
	space.Add(box)

	space.Remove(box)
	if pairs := space.Pairs(); len(pairs) != 0 {
		t.Errorf("removed shape still pairing, got %d pairs", len(pairs))
	}

	// Removing a shape that is not in the space is a no-op.
	space.Remove(box)
	if got := len(space.Shapes()); got != 1 {
		t.Errorf("space holds %d shapes, want 1", got)
	}
}

package collide

import "github.com/san-kum/rigidsim/internal/phys"

// Pair is a candidate shape pair reported by the broad phase.
type Pair struct {
	A, B *phys.Shape
}

// Space is the broad-phase structure holding every collidable shape.
//
// The pair query is a flat O(n^2) scan over bounding boxes. For the
// handful of shapes this simulation carries that is simpler and faster
// than a hierarchical structure; it is a deliberate trade-off, not an
// oversight. The scan never misses a true intersection; bounding-box
// false positives are filtered by the narrow phase.
type Space struct {
	shapes []*phys.Shape
}

func NewSpace() *Space {
	return &Space{}
}

// Add inserts a shape into the space.
func (s *Space) Add(shape *phys.Shape) {
	s.shapes = append(s.shapes, shape)
}

// Remove deletes a shape from the space. Removing a shape that was
// never added is a no-op.
func (s *Space) Remove(shape *phys.Shape) {
	for i, sh := range s.shapes {
		if sh == shape {
			s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
			return
		}
	}
}

// Shapes returns the shapes currently in the space.
func (s *Space) Shapes() []*phys.Shape {
	return s.shapes
}

// Pairs returns every shape pair whose bounding boxes overlap,
// excluding pairs on the same body and pairs where both shapes are
// static. With no intervening mutation, repeated calls return the
// same pair set in the same order.
func (s *Space) Pairs() []Pair {
	var pairs []Pair
	for i := 0; i < len(s.shapes); i++ {
		for j := i + 1; j < len(s.shapes); j++ {
			a, b := s.shapes[i], s.shapes[j]
			if a.Static() && b.Static() {
				continue
			}
			if a.Body != nil && a.Body == b.Body {
				continue
			}
			if !aabbOverlap(a, b) {
				continue
			}
			pairs = append(pairs, Pair{A: a, B: b})
		}
	}
	return pairs
}

func aabbOverlap(a, b *phys.Shape) bool {
	aMin, aMax := a.AABB()
	bMin, bMax := b.AABB()
	for axis := 0; axis < 3; axis++ {
		if aMax[axis] < bMin[axis] || bMax[axis] < aMin[axis] {
			return false
		}
	}
	return true
}

// Package scene assembles a ready-to-step world from a configuration:
// the ground plane, the collision space, and the dropped box with its
// optional seeded random initial rotation.
package scene

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/collide"
	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/engine"
	"github.com/san-kum/rigidsim/internal/phys"
)

// Scene is a fully constructed simulation: world, collision space, and
// the tracked box body.
type Scene struct {
	World *engine.World
	Space *collide.Space
	Box   *phys.Body
}

// Build constructs the scene described by cfg. The same config and seed
// always produce the same scene, so runs are reproducible.
func Build(cfg *config.Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	world := engine.NewWorld(cfg.Params())
	space := collide.NewSpace()

	ground, err := phys.NewPlane(cfg.Ground.Normal.Vec(), cfg.Ground.Offset)
	if err != nil {
		return nil, err
	}
	space.Add(ground)

	half := cfg.Box.HalfExtents.Vec()
	mp, err := phys.BoxMass(cfg.Box.Density, half)
	if err != nil {
		return nil, err
	}

	orientation := mgl64.QuatIdent()
	if cfg.Box.RandomSpin {
		orientation = randomOrientation(cfg.Seed)
	}

	box, err := world.CreateBody(cfg.Box.Position.Vec(), orientation, mp)
	if err != nil {
		return nil, err
	}

	shape, err := phys.NewBox(box, half)
	if err != nil {
		return nil, err
	}
	space.Add(shape)

	return &Scene{World: world, Space: space, Box: box}, nil
}

// Step advances the scene by one fixed timestep.
func (s *Scene) Step(dt float64) error {
	return s.World.Step(s.Space, dt)
}

// randomOrientation draws a rotation from a random axis and an angle in
// [-5, 5) radians, the way the classic drop demo spins its box.
func randomOrientation(seed int64) mgl64.Quat {
	rng := rand.New(rand.NewSource(seed))

	axis := mgl64.Vec3{
		rng.Float64()*2 - 1,
		rng.Float64()*2 - 1,
		rng.Float64()*2 - 1,
	}
	if axis.Len() < 1e-9 {
		axis = mgl64.Vec3{0, 1, 0}
	}
	angle := rng.Float64()*10 - 5

	return mgl64.QuatRotate(angle, axis.Normalize())
}

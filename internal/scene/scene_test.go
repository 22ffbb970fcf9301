package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/config"
)

func TestBuildDefaultScene(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seed = 7

	sc, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if sc.Box.Position != cfg.Box.Position.Vec() {
		t.Errorf("box position = %v, want %v", sc.Box.Position, cfg.Box.Position.Vec())
	}
	if m := sc.Box.Mass(); math.Abs(m-4.0) > 1e-12 {
		t.Errorf("box mass = %g, want 4 for a 2x2x2 box of density 0.5", m)
	}
	if n := len(sc.Space.Shapes()); n != 2 {
		t.Errorf("space holds %d shapes, want plane and box", n)
	}

	// Random spin still yields a unit quaternion.
	if d := math.Abs(sc.Box.Orientation.Len() - 1); d > 1e-12 {
		t.Errorf("initial orientation norm off by %g", d)
	}
}

func TestBuildDeterministicPerSeed(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seed = 99

	a, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	b, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if a.Box.Orientation != b.Box.Orientation {
		t.Errorf("same seed gave different orientations: %v vs %v", a.Box.Orientation, b.Box.Orientation)
	}

	cfg.Seed = 100
	c, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if a.Box.Orientation == c.Box.Orientation {
		t.Error("different seeds gave identical orientations")
	}
}

func TestBuildNoSpin(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Box.RandomSpin = false

	sc, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	q := sc.Box.Orientation
	if q.W != 1 || q.V != (mgl64.Vec3{}) {
		t.Errorf("orientation = %v, want identity", q)
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad dt", func(c *config.Config) { c.Dt = 0 }},
		{"bad density", func(c *config.Config) { c.Box.Density = -1 }},
		{"non-unit ground normal", func(c *config.Config) { c.Ground.Normal = config.Vec3Config{Y: 2} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			if _, err := Build(cfg); err == nil {
				t.Error("Build should have failed")
			}
		})
	}
}

func TestSceneStep(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Box.RandomSpin = false

	sc, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if err := sc.Step(cfg.Dt); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if sc.Box.Position.Y() >= 10 {
		t.Error("box did not fall after one step")
	}
}

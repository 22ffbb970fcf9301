package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	if cfg.Dt != 0.01 || cfg.Steps != 1000 {
		t.Errorf("default dt/steps = %g/%d, want 0.01/1000", cfg.Dt, cfg.Steps)
	}
	if g := cfg.World.Gravity.Vec(); g.Y() != -1.0 || g.X() != 0 || g.Z() != 0 {
		t.Errorf("default gravity = %v, want (0, -1, 0)", g)
	}
	if !math.IsInf(cfg.Surface.Friction, 1) {
		t.Errorf("default friction = %g, want +Inf", cfg.Surface.Friction)
	}
	if !cfg.World.AutoDisable {
		t.Error("auto-disable should default to on")
	}
	if !cfg.Box.RandomSpin {
		t.Error("random spin should default to on")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")

	cfg := DefaultConfig()
	cfg.Dt = 0.005
	cfg.Steps = 250
	cfg.Seed = 42
	cfg.Box.Position = Vec3Config{X: 1, Y: 8, Z: 2}
	cfg.Surface.Bounce = 0.5

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Dt != 0.005 || loaded.Steps != 250 || loaded.Seed != 42 {
		t.Errorf("dt/steps/seed = %g/%d/%d, want 0.005/250/42", loaded.Dt, loaded.Steps, loaded.Seed)
	}
	if loaded.Box.Position != cfg.Box.Position {
		t.Errorf("box position = %v, want %v", loaded.Box.Position, cfg.Box.Position)
	}
	if loaded.Surface.Bounce != 0.5 {
		t.Errorf("bounce = %g, want 0.5", loaded.Surface.Bounce)
	}

	// Infinite friction must survive yaml encoding.
	if !math.IsInf(loaded.Surface.Friction, 1) {
		t.Errorf("friction after round trip = %g, want +Inf", loaded.Surface.Friction)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("dt: 0.02\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Dt != 0.02 {
		t.Errorf("dt = %g, want 0.02", cfg.Dt)
	}
	if cfg.Steps != DefaultSteps {
		t.Errorf("steps = %d, want default %d", cfg.Steps, DefaultSteps)
	}
	if cfg.World.ERP != 0.2 || cfg.World.Iterations != 20 {
		t.Errorf("world params lost defaults: erp=%g iterations=%d", cfg.World.ERP, cfg.World.Iterations)
	}
	if !cfg.World.AutoDisable {
		t.Error("auto-disable default lost on partial load")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load of a missing file should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -0.01 }},
		{"zero steps", func(c *Config) { c.Steps = 0 }},
		{"zero density", func(c *Config) { c.Box.Density = 0 }},
		{"negative extent", func(c *Config) { c.Box.HalfExtents.Y = -1 }},
		{"zero iterations", func(c *Config) { c.World.Iterations = 0 }},
		{"zero max contacts", func(c *Config) { c.World.MaxContacts = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should have failed")
			}
		})
	}
}

func TestParamsConversion(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.Params()

	if p.Gravity.Y() != -1.0 {
		t.Errorf("params gravity y = %g, want -1", p.Gravity.Y())
	}
	if p.ERP != 0.2 || p.CFM != 1e-5 || p.Iterations != 20 || p.MaxContacts != 10 {
		t.Error("params do not match config values")
	}
	if !math.IsInf(p.Surface.Friction, 1) || p.Surface.Bounce != 0.01 {
		t.Errorf("surface params = %+v, want defaults", p.Surface)
	}
}

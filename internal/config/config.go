package config

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/rigidsim/internal/collide"
	"github.com/san-kum/rigidsim/internal/engine"
)

const (
	DefaultDt    = 0.01
	DefaultSteps = 1000
)

type Config struct {
	Dt    float64 `yaml:"dt"`
	Steps int     `yaml:"steps"`
	Seed  int64   `yaml:"seed"`

	World   WorldConfig   `yaml:"world"`
	Ground  GroundConfig  `yaml:"ground"`
	Box     BoxConfig     `yaml:"box"`
	Surface SurfaceConfig `yaml:"surface"`
}

type Vec3Config struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Config) Vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

type WorldConfig struct {
	Gravity          Vec3Config `yaml:"gravity"`
	ERP              float64    `yaml:"erp"`
	CFM              float64    `yaml:"cfm"`
	MaxCorrectingVel float64    `yaml:"max_correcting_vel"`
	SurfaceLayer     float64    `yaml:"surface_layer"`
	Iterations       int        `yaml:"iterations"`
	MaxContacts      int        `yaml:"max_contacts"`

	AutoDisable         bool    `yaml:"auto_disable"`
	DisableLinThreshold float64 `yaml:"disable_lin_threshold"`
	DisableAngThreshold float64 `yaml:"disable_ang_threshold"`
	DisableTime         float64 `yaml:"disable_time"`
}

type BoxConfig struct {
	HalfExtents Vec3Config `yaml:"half_extents"`
	Density     float64    `yaml:"density"`
	Position    Vec3Config `yaml:"position"`
	// RandomSpin gives the box a seeded random initial rotation, like
	// the classic drop demo.
	RandomSpin bool `yaml:"random_spin"`
}

type GroundConfig struct {
	// Normal must be unit length; points p on the plane satisfy
	// dot(normal, p) = offset.
	Normal Vec3Config `yaml:"normal"`
	Offset float64    `yaml:"offset"`
}

type SurfaceConfig struct {
	// Friction of .inf never slides.
	Friction  float64 `yaml:"friction"`
	Bounce    float64 `yaml:"bounce"`
	BounceVel float64 `yaml:"bounce_vel"`
	SoftCFM   float64 `yaml:"soft_cfm"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:    DefaultDt,
		Steps: DefaultSteps,
		World: WorldConfig{
			Gravity:             Vec3Config{Y: -1.0},
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
		},
		Ground: GroundConfig{
			Normal: Vec3Config{Y: 1},
		},
		Box: BoxConfig{
			HalfExtents: Vec3Config{X: 1, Y: 1, Z: 1},
			Density:     0.5,
			Position:    Vec3Config{X: 0, Y: 10, Z: -5},
			RandomSpin:  true,
		},
		Surface: SurfaceConfig{
			Friction:  math.Inf(1),
			Bounce:    0.01,
			BounceVel: 0.1,
			SoftCFM:   0.01,
		},
	}
}

// Load reads a yaml config file over the defaults, so absent fields
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("config: steps must be positive, got %d", c.Steps)
	}
	if c.Box.Density <= 0 {
		return fmt.Errorf("config: box density must be positive, got %g", c.Box.Density)
	}
	h := c.Box.HalfExtents
	if h.X <= 0 || h.Y <= 0 || h.Z <= 0 {
		return fmt.Errorf("config: box half-extents must be positive, got (%g, %g, %g)", h.X, h.Y, h.Z)
	}
	if c.World.Iterations <= 0 {
		return fmt.Errorf("config: solver iterations must be positive, got %d", c.World.Iterations)
	}
	if c.World.MaxContacts <= 0 {
		return fmt.Errorf("config: max contacts must be positive, got %d", c.World.MaxContacts)
	}
	return nil
}

// Params converts the config to engine parameters.
func (c *Config) Params() engine.Params {
	return engine.Params{
		Gravity:             c.World.Gravity.Vec(),
		ERP:                 c.World.ERP,
		CFM:                 c.World.CFM,
		MaxCorrectingVel:    c.World.MaxCorrectingVel,
		SurfaceLayer:        c.World.SurfaceLayer,
		Iterations:          c.World.Iterations,
		MaxContacts:         c.World.MaxContacts,
		AutoDisable:         c.World.AutoDisable,
		DisableLinThreshold: c.World.DisableLinThreshold,
		DisableAngThreshold: c.World.DisableAngThreshold,
		DisableTime:         c.World.DisableTime,
		Surface: collide.Surface{
			Friction:  c.Surface.Friction,
			Bounce:    c.Surface.Bounce,
			BounceVel: c.Surface.BounceVel,
			SoftCFM:   c.Surface.SoftCFM,
		},
	}
}

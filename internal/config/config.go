package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/physics"
)

const (
	DefaultIntegrator      = "varstep"
	DefaultPosition        = 0.1
	DefaultDt              = 0.01
	DefaultMaxDisplacement = 0.02
	DefaultDuration        = 1.0
	DefaultForceScale      = 50.0
)

type Config struct {
	Integrator      string  `yaml:"integrator" env:"PHYSLAB_INTEGRATOR"`
	Mass            float64 `yaml:"mass" env:"PHYSLAB_MASS"`
	Period          float64 `yaml:"period" env:"PHYSLAB_PERIOD"`
	SpringConstant  float64 `yaml:"spring_constant,omitempty" env:"PHYSLAB_SPRING_CONSTANT"`
	InitialPosition float64 `yaml:"initial_position" env:"PHYSLAB_INITIAL_POSITION"`
	InitialVelocity float64 `yaml:"initial_velocity" env:"PHYSLAB_INITIAL_VELOCITY"`
	NominalDt       float64 `yaml:"nominal_dt" env:"PHYSLAB_NOMINAL_DT"`
	MaxDisplacement float64 `yaml:"max_displacement" env:"PHYSLAB_MAX_DISPLACEMENT"`
	Duration        float64 `yaml:"duration" env:"PHYSLAB_DURATION"`
	MaxSteps        int     `yaml:"max_steps,omitempty" env:"PHYSLAB_MAX_STEPS"`

	Puck PuckConfig `yaml:"puck"`
	LJ   LJConfig   `yaml:"lennard_jones"`
	Log  LogConfig  `yaml:"log"`
}

type PuckConfig struct {
	Mass     float64 `yaml:"mass" env:"PHYSLAB_PUCK_MASS"`
	Friction float64 `yaml:"friction" env:"PHYSLAB_PUCK_FRICTION"`
	Drag     float64 `yaml:"drag" env:"PHYSLAB_PUCK_DRAG"`
	Gravity  float64 `yaml:"gravity" env:"PHYSLAB_PUCK_GRAVITY"`
	Ticks    int     `yaml:"ticks" env:"PHYSLAB_PUCK_TICKS"`
}

type LJConfig struct {
	Epsilon    float64 `yaml:"epsilon" env:"PHYSLAB_LJ_EPSILON"`
	Sigma      float64 `yaml:"sigma" env:"PHYSLAB_LJ_SIGMA"`
	RMin       float64 `yaml:"r_min" env:"PHYSLAB_LJ_RMIN"`
	RMax       float64 `yaml:"r_max" env:"PHYSLAB_LJ_RMAX"`
	Points     int     `yaml:"points" env:"PHYSLAB_LJ_POINTS"`
	ForceScale float64 `yaml:"force_scale" env:"PHYSLAB_LJ_FORCE_SCALE"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"PHYSLAB_LOG_LEVEL"`
	Format string `yaml:"format" env:"PHYSLAB_LOG_FORMAT"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator:      DefaultIntegrator,
		Mass:            physics.DefaultMass,
		Period:          physics.DefaultPeriod,
		InitialPosition: DefaultPosition,
		NominalDt:       DefaultDt,
		MaxDisplacement: DefaultMaxDisplacement,
		Duration:        DefaultDuration,
		Puck: PuckConfig{
			Mass:     physics.DefaultPuckMass,
			Friction: physics.DefaultIceFriction,
			Drag:     physics.DefaultAirDrag,
			Gravity:  physics.DefaultGravity,
			Ticks:    physics.DefaultPuckTicks,
		},
		LJ: LJConfig{
			Epsilon:    physics.DefaultEpsilon,
			Sigma:      physics.DefaultSigma,
			RMin:       physics.DefaultLJMin,
			RMax:       physics.DefaultLJMax,
			Points:     physics.DefaultLJN,
			ForceScale: DefaultForceScale,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a yaml file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the keys present in a yaml file onto cfg.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from PHYSLAB_* environment variables. Unset
// variables leave the current values untouched.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Harmonic builds the oscillator. A positive spring constant takes
// precedence over the period.
func (c *Config) Harmonic() *physics.Harmonic {
	if c.SpringConstant > 0 {
		return physics.NewHarmonic(c.Mass, c.SpringConstant)
	}
	return physics.HarmonicFromPeriod(c.Mass, c.Period)
}

func (c *Config) Dynamo() dynamo.Config {
	return dynamo.Config{
		Dt:              c.NominalDt,
		MaxDisplacement: c.MaxDisplacement,
		Duration:        c.Duration,
		MaxSteps:        c.MaxSteps,
	}
}

// PuckModel builds the puck from the puck section.
func (c *Config) PuckModel() *physics.Puck {
	return &physics.Puck{
		Mass:     c.Puck.Mass,
		Friction: c.Puck.Friction,
		Drag:     c.Puck.Drag,
		Gravity:  c.Puck.Gravity,
	}
}

func (c *Config) LennardJones() *physics.LennardJones {
	return &physics.LennardJones{Epsilon: c.LJ.Epsilon, Sigma: c.LJ.Sigma}
}

// Validate checks the oscillator section; puck and Lennard-Jones
// parameters are checked by their models when used.
func (c *Config) Validate() error {
	if !(c.Mass > 0) {
		return dynamo.BoundsError("mass", c.Mass, "must be positive")
	}
	if c.SpringConstant < 0 {
		return dynamo.BoundsError("spring_constant", c.SpringConstant, "must not be negative")
	}
	if c.SpringConstant == 0 && !(c.Period > 0) {
		return dynamo.BoundsError("period", c.Period, "must be positive when spring_constant is unset")
	}
	if err := c.Harmonic().Validate(); err != nil {
		return err
	}
	return c.Dynamo().Validate()
}

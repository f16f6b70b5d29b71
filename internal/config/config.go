package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	DefaultSteps       = 3000
	DefaultSampleEvery = 10
)

var (
	ErrNoBodies        = errors.New("config: no bodies defined")
	ErrMultipleCentral = errors.New("config: more than one central body")
)

// Config describes one simulated system: constants, run length and the
// initial-condition table of its bodies.
type Config struct {
	Name          string       `yaml:"name"`
	G             float64      `yaml:"g"`
	Dt            float64      `yaml:"dt"`
	Steps         int          `yaml:"steps"`
	TrailCapacity int          `yaml:"trail_capacity"`
	MinSeparation float64      `yaml:"min_separation"`
	Strict        bool         `yaml:"strict"`
	SampleEvery   int          `yaml:"sample_every"`
	Bodies        []BodyConfig `yaml:"bodies"`
}

// BodyConfig is one row of the initial-condition table.
// If no row sets Central, the first row is the central body.
type BodyConfig struct {
	Name       string     `yaml:"name"`
	Mass       float64    `yaml:"mass"`
	Position   [2]float64 `yaml:"position,flow"`
	Velocity   [2]float64 `yaml:"velocity,flow"`
	Color      string     `yaml:"color,omitempty"`
	TrackTrail bool       `yaml:"track_trail,omitempty"`
	Central    bool       `yaml:"central,omitempty"`
	// Circular replaces Velocity with the counter-clockwise circular orbit
	// velocity at the body's current distance.
	Circular bool `yaml:"circular,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:          "custom",
		G:             orbit.GravitationalConstant,
		Dt:            orbit.DefaultTimestep,
		Steps:         DefaultSteps,
		TrailCapacity: orbit.DefaultTrailCapacity,
		MinSeparation: orbit.DefaultMinSeparation,
		Strict:        true,
		SampleEvery:   DefaultSampleEvery,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes yaml over DefaultConfig and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
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

// Validate checks run-level settings. Per-body physics checks happen in
// orbit.NewRegistry when the config is built.
func (c *Config) Validate() error {
	if !(c.G > 0) || math.IsInf(c.G, 0) {
		return fmt.Errorf("config: g must be positive, got %v", c.G)
	}
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("config: dt must be positive, got %v", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("config: steps must be positive, got %d", c.Steps)
	}
	if c.TrailCapacity < 1 {
		return fmt.Errorf("config: trail_capacity must be at least 1, got %d", c.TrailCapacity)
	}
	if len(c.Bodies) == 0 {
		return ErrNoBodies
	}
	central := 0
	for _, b := range c.Bodies {
		if b.Central {
			central++
		}
	}
	if central > 1 {
		return ErrMultipleCentral
	}
	return nil
}

// Specs splits the body table into the central body and its orbiters,
// resolving circular velocities.
func (c *Config) Specs() (orbit.BodySpec, []orbit.BodySpec, error) {
	if err := c.Validate(); err != nil {
		return orbit.BodySpec{}, nil, err
	}

	ci := 0
	for i, b := range c.Bodies {
		if b.Central {
			ci = i
			break
		}
	}

	central := c.Bodies[ci].spec()
	orbiters := make([]orbit.BodySpec, 0, len(c.Bodies)-1)
	for i, b := range c.Bodies {
		if i == ci {
			continue
		}
		s := b.spec()
		if b.Circular {
			s.Velocity = circularVelocity(c.G, central, s.Position)
		}
		orbiters = append(orbiters, s)
	}
	return central, orbiters, nil
}

func (b BodyConfig) spec() orbit.BodySpec {
	return orbit.BodySpec{
		Name:       b.Name,
		Mass:       b.Mass,
		Position:   r2.Vec{X: b.Position[0], Y: b.Position[1]},
		Velocity:   r2.Vec{X: b.Velocity[0], Y: b.Velocity[1]},
		Color:      b.Color,
		TrackTrail: b.TrackTrail,
	}
}

func circularVelocity(g float64, central orbit.BodySpec, p r2.Vec) r2.Vec {
	d := r2.Sub(p, central.Position)
	r := r2.Norm(d)
	if r == 0 {
		// left for NewRegistry to reject as degenerate
		return r2.Vec{}
	}
	v := orbit.CircularSpeed(g, central.Mass, r)
	return r2.Vec{X: -d.Y / r * v, Y: d.X / r * v}
}

// Build constructs the registry and integrator described by c.
func (c *Config) Build() (*orbit.Registry, *orbit.Integrator, error) {
	central, orbiters, err := c.Specs()
	if err != nil {
		return nil, nil, err
	}
	reg, err := orbit.NewRegistry(central, orbiters,
		orbit.WithTrailCapacity(c.TrailCapacity),
		orbit.WithMinSeparation(c.MinSeparation),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("config %q: %w", c.Name, err)
	}
	integ := orbit.NewIntegrator(reg,
		orbit.WithGravitationalConstant(c.G),
		orbit.WithStrict(c.Strict),
	)
	return reg, integ, nil
}

func (c *Config) RunConfig() sim.Config {
	return sim.Config{Dt: c.Dt, Steps: c.Steps, SampleEvery: c.SampleEvery}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Bodies = append([]BodyConfig(nil), c.Bodies...)
	return &cp
}

package sim

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/orbit"
)

type Metric interface {
	Name() string
	Observe(reg *orbit.Registry, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(reg *orbit.Registry, step int, t float64)
}

type Config struct {
	Dt          float64
	Steps       int
	SampleEvery int
}

func DefaultConfig() Config {
	return Config{
		Dt:          orbit.DefaultTimestep,
		Steps:       3000,
		SampleEvery: 10,
	}
}

// Duration is the simulated time covered by cfg.
func (c Config) Duration() float64 { return float64(c.Steps) * c.Dt }

type BodyState struct {
	Name     string
	Position r2.Vec
	Velocity r2.Vec
}

// Snapshot is the state of every body at one step; the central body comes first.
type Snapshot struct {
	Step   int
	Time   float64
	Bodies []BodyState
}

// Capture copies the current state of reg.
func Capture(reg *orbit.Registry, step int, t float64) Snapshot {
	bodies := reg.Bodies()
	s := Snapshot{Step: step, Time: t, Bodies: make([]BodyState, len(bodies))}
	for i, b := range bodies {
		s.Bodies[i] = BodyState{Name: b.Name(), Position: b.Position, Velocity: b.Velocity}
	}
	return s
}

// Series extracts one body's samples from a run, or nil if the body is unknown.
func (r *Result) Series(name string) []BodyState {
	idx := -1
	if len(r.Samples) > 0 {
		for i, b := range r.Samples[0].Bodies {
			if b.Name == name {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]BodyState, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Bodies[idx]
	}
	return out
}

type Result struct {
	Samples    []Snapshot
	Metrics    map[string]float64
	StepsTaken int
	Elapsed    time.Duration
	Errors     []error
}

type ConfigError struct {
	Field string
	Value any
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("invalid run config: %s = %v", e.Field, e.Value)
}

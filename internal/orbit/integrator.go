package orbit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Integrator advances a Registry with fixed-step Euler-Cromer updates under
// the gravity of the central body alone. Orbiters do not attract each other.
type Integrator struct {
	reg    *Registry
	g      float64
	strict bool

	steps int
	t     float64
}

// IntegratorOption configures NewIntegrator.
type IntegratorOption func(*Integrator)

// WithGravitationalConstant overrides G. It must match the unit system of the
// registry's masses, distances and the dt passed to Step.
func WithGravitationalConstant(g float64) IntegratorOption {
	return func(in *Integrator) { in.g = g }
}

// WithStrict toggles the separation check in Step. With strict off a body
// reaching the central body yields non-finite positions instead of an error.
func WithStrict(strict bool) IntegratorOption {
	return func(in *Integrator) { in.strict = strict }
}

func NewIntegrator(reg *Registry, opts ...IntegratorOption) *Integrator {
	in := &Integrator{reg: reg, g: GravitationalConstant, strict: true}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

func (in *Integrator) Registry() *Registry { return in.reg }
func (in *Integrator) G() float64          { return in.g }
func (in *Integrator) Strict() bool        { return in.strict }

// Steps is the number of successful Step calls.
func (in *Integrator) Steps() int { return in.steps }

// Time is the accumulated simulated time.
func (in *Integrator) Time() float64 { return in.t }

// Force returns the gravitational force of the central body on b.
//
// The r³ denominator is applied to the raw displacement, which folds the unit
// vector dx/r into G·M·m/r². The caller guarantees r > 0.
func (in *Integrator) Force(b *Body) r2.Vec {
	c := in.reg.central
	dx := r2.Sub(c.Position, b.Position)
	r := r2.Norm(dx)
	return r2.Scale(in.g*c.mass*b.mass/(r*r*r), dx)
}

// Acceleration returns Force(b) / b.Mass().
func (in *Integrator) Acceleration(b *Body) r2.Vec {
	f := in.Force(b)
	return r2.Vec{X: f.X / b.mass, Y: f.Y / b.mass}
}

// Step advances every orbiter by dt. Velocity is updated first from the
// current position, then position from the new velocity, then the new
// position is appended to the body's trail. The central body is never
// touched.
//
// A failed step leaves the registry unchanged.
func (in *Integrator) Step(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return &StepError{Step: in.steps, Time: in.t, Wrapped: ErrInvalidTimestep}
	}

	c := in.reg.central
	if in.strict {
		for _, b := range in.reg.orbiters {
			if r := r2.Norm(r2.Sub(c.Position, b.Position)); !(r > in.reg.minSep) {
				return &StepError{
					Step:       in.steps,
					Time:       in.t,
					Body:       b.name,
					Separation: r,
					Wrapped:    ErrDegenerateConfiguration,
				}
			}
		}
	}

	for _, b := range in.reg.orbiters {
		f := in.Force(b)
		b.Velocity = r2.Add(b.Velocity, r2.Vec{X: f.X / b.mass * dt, Y: f.Y / b.mass * dt})
		b.Position = r2.Add(b.Position, r2.Scale(dt, b.Velocity))
		b.AppendTrailSample(b.Position)
	}

	in.steps++
	in.t += dt
	return nil
}

// Reset rewinds the registry and the step counter.
func (in *Integrator) Reset() {
	in.reg.Reset()
	in.steps = 0
	in.t = 0
}

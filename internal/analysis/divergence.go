package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/sim"
)

// Divergence describes how two runs that start a small distance apart
// separate over time.
type Divergence struct {
	Initial float64
	Final   float64
	MaxSep  float64
	// Rate is ln(Final/Initial)/t. Kepler orbits separate roughly linearly,
	// so the rate falls toward zero as the run gets longer.
	Rate float64
}

// Growth is the ratio of final to initial separation.
func (d Divergence) Growth() float64 {
	if d.Initial == 0 {
		return 0
	}
	return d.Final / d.Initial
}

// MeasureDivergence builds two systems from factory, displaces body in the
// second one by perturbation along x and steps both for steps*dt.
func MeasureDivergence(factory sim.Factory, body string, perturbation, dt float64, steps int) (Divergence, error) {
	if !(perturbation > 0) {
		return Divergence{}, fmt.Errorf("analysis: perturbation must be positive, got %v", perturbation)
	}

	a, err := factory()
	if err != nil {
		return Divergence{}, err
	}
	b, err := factory()
	if err != nil {
		return Divergence{}, err
	}

	ba, ok := a.Registry().Lookup(body)
	if !ok || ba == a.Registry().Central() {
		return Divergence{}, fmt.Errorf("analysis: %q is not an orbiting body", body)
	}
	bb, _ := b.Registry().Lookup(body)
	bb.Position = r2.Add(bb.Position, r2.Vec{X: perturbation})

	d := Divergence{Initial: perturbation}
	for i := 0; i < steps; i++ {
		if err := a.Step(dt); err != nil {
			return d, err
		}
		if err := b.Step(dt); err != nil {
			return d, err
		}
		sep := r2.Norm(r2.Sub(bb.Position, ba.Position))
		d.MaxSep = math.Max(d.MaxSep, sep)
		d.Final = sep
	}

	if t := a.Time(); t > 0 && d.Final > 0 {
		d.Rate = math.Log(d.Final/d.Initial) / t
	}
	return d, nil
}

package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/orbit"
)

// relDrift tracks the largest relative deviation of a per-body quantity from
// the value first observed for that body.
type relDrift struct {
	name     string
	initial  map[string]float64
	maxDrift float64
	quantity func(central, b *orbit.Body) float64
}

func (d *relDrift) Name() string { return d.name }

func (d *relDrift) Observe(reg *orbit.Registry, t float64) {
	c := reg.Central()
	for _, b := range reg.Orbiters() {
		q := d.quantity(c, b)
		q0, seen := d.initial[b.Name()]
		if !seen {
			d.initial[b.Name()] = q
			continue
		}
		if q0 == 0 {
			continue
		}
		d.maxDrift = math.Max(d.maxDrift, math.Abs(q-q0)/math.Abs(q0))
	}
}

func (d *relDrift) Value() float64 { return d.maxDrift }

func (d *relDrift) Reset() {
	d.initial = make(map[string]float64)
	d.maxDrift = 0
}

// RadiusDrift is the largest |r − r₀| / r₀ over all orbiters.
type RadiusDrift struct{ relDrift }

func NewRadiusDrift() *RadiusDrift {
	return &RadiusDrift{relDrift{
		name:     "radius_drift",
		initial:  make(map[string]float64),
		quantity: Radius,
	}}
}

// EnergyDrift is the largest relative change of specific orbital energy.
type EnergyDrift struct{ relDrift }

func NewEnergyDrift(g float64) *EnergyDrift {
	return &EnergyDrift{relDrift{
		name:    "energy_drift",
		initial: make(map[string]float64),
		quantity: func(c, b *orbit.Body) float64 {
			return SpecificEnergy(g, c, b)
		},
	}}
}

// AngularMomentumDrift is the largest relative change of specific angular momentum.
type AngularMomentumDrift struct{ relDrift }

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{relDrift{
		name:     "angular_momentum_drift",
		initial:  make(map[string]float64),
		quantity: SpecificAngularMomentum,
	}}
}

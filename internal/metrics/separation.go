package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/orbit"
)

// MinSeparation records the closest approach of any orbiter to the central body.
type MinSeparation struct {
	name    string
	min     float64
	samples int
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{name: "min_separation", min: math.Inf(1)}
}

func (m *MinSeparation) Name() string { return m.name }

func (m *MinSeparation) Observe(reg *orbit.Registry, t float64) {
	c := reg.Central()
	for _, b := range reg.Orbiters() {
		m.min = math.Min(m.min, Radius(c, b))
	}
	m.samples++
}

func (m *MinSeparation) Value() float64 {
	if m.samples == 0 || math.IsInf(m.min, 1) {
		return 0
	}
	return m.min
}

func (m *MinSeparation) Reset() {
	m.min = math.Inf(1)
	m.samples = 0
}

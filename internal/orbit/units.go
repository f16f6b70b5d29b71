package orbit

import "math"

const (
	// GravitationalConstant is G in AU³ yr⁻² Msun⁻¹.
	GravitationalConstant = 4 * math.Pi * math.Pi

	// DefaultTimestep is the reference step in years.
	DefaultTimestep = 0.002

	// DefaultTrailCapacity bounds the number of samples kept per body.
	DefaultTrailCapacity = 500

	// DefaultMinSeparation is the smallest accepted distance to the central body.
	DefaultMinSeparation = 1e-9
)

// CircularSpeed returns the speed of a circular orbit of radius r around mass m.
func CircularSpeed(g, m, r float64) float64 {
	return math.Sqrt(g * m / r)
}

// KeplerPeriod returns the period of an orbit with semi-major axis a around mass m.
func KeplerPeriod(g, m, a float64) float64 {
	return 2 * math.Pi * math.Sqrt(a*a*a/(g*m))
}

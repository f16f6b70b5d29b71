package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/orbit"
)

// SpecificEnergy is v²/2 − GM/r of b relative to the central body.
func SpecificEnergy(g float64, central, b *orbit.Body) float64 {
	rel := r2.Sub(b.Position, central.Position)
	v := r2.Norm(b.Velocity)
	return 0.5*v*v - g*central.Mass()/r2.Norm(rel)
}

// SpecificAngularMomentum is the z component of r × v relative to the central body.
func SpecificAngularMomentum(central, b *orbit.Body) float64 {
	return r2.Cross(r2.Sub(b.Position, central.Position), b.Velocity)
}

// Radius is the distance from b to the central body.
func Radius(central, b *orbit.Body) float64 {
	return r2.Norm(r2.Sub(b.Position, central.Position))
}

// SemiMajorAxis derives a from the vis-viva equation. It is +Inf for
// parabolic and negative for hyperbolic motion.
func SemiMajorAxis(g float64, central, b *orbit.Body) float64 {
	return -g * central.Mass() / (2 * SpecificEnergy(g, central, b))
}

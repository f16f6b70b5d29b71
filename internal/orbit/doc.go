// Package orbit implements a central-mass gravitational simulator.
//
// The package has two parts:
//
//   - [Registry]: the fixed set of bodies, one of which is the central body,
//     together with each body's bounded position [Trail]
//   - [Integrator]: advances every non-central body by one fixed time step
//     using the Euler-Cromer scheme under the central body's gravity
//
// # Units
//
// The default gravitational constant is 4π², which is exact when mass is in
// solar masses, distance in astronomical units and time in years. Callers that
// use another unit system must pass the matching constant with
// [WithGravitationalConstant].
//
// # Example
//
//	reg, _ := orbit.NewRegistry(sun, []orbit.BodySpec{earth})
//	integ := orbit.NewIntegrator(reg)
//	for i := 0; i < 3000; i++ {
//	    if err := integ.Step(orbit.DefaultTimestep); err != nil {
//	        return err
//	    }
//	}
//
// # Thread Safety
//
// Neither type is safe for concurrent use. A single driver goroutine calls
// [Integrator.Step]; between calls the same goroutine may read positions and
// trails for rendering.
package orbit

// Package analysis extracts orbital properties from finished runs.
//
//   - [DominantPeriod]: period of the strongest oscillation via FFT
//   - [FindApsides]: periapsis, apoapsis and passage times
//   - [RadialPhase]: (r, dr/dt) phase portrait of one body
//   - [MeasureDivergence]: separation growth of two nearby runs
//
// # Period Check
//
// An orbiting body's x coordinate oscillates with its orbital period, which
// can be compared to Kepler's third law:
//
//	xs := make([]float64, 0, len(series))
//	for _, s := range res.Series("Mars") {
//	    xs = append(xs, s.Position.X)
//	}
//	measured, _ := analysis.DominantPeriod(xs, cfg.Dt*float64(cfg.SampleEvery))
//	expected := analysis.KeplerPeriod(orbit.GravitationalConstant, 1, 1.52)
package analysis

package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/orbitsim/internal/orbit"
)

var ErrTooFewSamples = errors.New("analysis: need at least 4 samples")

// PowerSpectrum returns the magnitudes of the non-negative frequency bins of
// data, zero-padded to the next power of two.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	padded := make([]float64, dsputils.NextPowerOf2(len(data)))
	copy(padded, data)

	spec := fft.FFTReal(padded)
	ps := make([]float64, len(spec)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantPeriod estimates the period of the strongest oscillation in
// samples taken every sampleDt. The mean is removed before the transform and
// the peak bin is refined by parabolic interpolation.
func DominantPeriod(samples []float64, sampleDt float64) (float64, error) {
	if len(samples) < 4 {
		return 0, ErrTooFewSamples
	}
	if !(sampleDt > 0) {
		return 0, orbit.ErrInvalidTimestep
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	centered := make([]float64, len(samples))
	for i, v := range samples {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	n := 2 * (len(ps) - 1)

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return math.Inf(1), nil
	}

	k := float64(peak)
	if peak > 1 && peak < len(ps)-1 {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if d := a - 2*b + c; d != 0 {
			k += 0.5 * (a - c) / d
		}
	}
	return float64(n) * sampleDt / k, nil
}

// KeplerPeriod is the period of an orbit with semi-major axis a around mass m.
func KeplerPeriod(g, m, a float64) float64 {
	return orbit.KeplerPeriod(g, m, a)
}

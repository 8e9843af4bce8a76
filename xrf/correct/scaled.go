package correct

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-xrf/dsp/interp"
	"github.com/cwbudde/algo-xrf/dsp/snip"
	"github.com/cwbudde/algo-xrf/xrf/spectrum"
)

// Stage names used in diagnostics and reports.
const (
	StageScaledSNIP = "scaledsnip"
	StageCapillary  = "capillary"
)

// SCALEDSNIP defaults for the fast SNIP estimator.
const (
	DefaultFWHM       = 13
	DefaultReductions = 10
	DefaultIterations = 1000
)

// ErrNilSpectrum is returned when a stage is given no spectrum.
var ErrNilSpectrum = errors.New("correct: nil spectrum")

// DefaultEstimator returns the fast SNIP estimator used by ScaledSNIP when
// none is given.
func DefaultEstimator() snip.Estimator {
	e, err := snip.NewFastConvolution(
		snip.WithFWHM(DefaultFWHM),
		snip.WithReductions(DefaultReductions),
		snip.WithIterations(DefaultIterations),
	)
	if err != nil {
		panic(err)
	}
	return e
}

// ScaledSNIP subtracts the SNIP background from the positive-energy channels
// of s in place. The channels are resampled onto a grid uniform in √E,
// stripped with est (DefaultEstimator when nil), and the difference is
// interpolated back onto the original energies and clipped to be
// non-negative. Channels at or below zero energy keep their counts; on
// success every channel of s is non-negative.
func ScaledSNIP(s *spectrum.Spectrum, est snip.Estimator) (spectrum.Diagnostics, error) {
	if s == nil {
		return nil, ErrNilSpectrum
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if est == nil {
		est = DefaultEstimator()
	}

	diags, err := scaledSNIP(s, est)
	if err != nil {
		return nil, err
	}
	s.ClipNonNegative()
	return diags, nil
}

func scaledSNIP(s *spectrum.Spectrum, est snip.Estimator) (spectrum.Diagnostics, error) {
	var diags spectrum.Diagnostics

	first := s.FirstPositiveEnergy()
	if first < 0 {
		diags.Addf(StageScaledSNIP, "no positive-energy channels")
		return diags, nil
	}

	energy := s.Energy[first:]
	counts := s.Channels[first:]
	n := len(counts)
	if n < 2 {
		diags.Addf(StageScaledSNIP, "%d positive-energy channel, need at least 2", n)
		return diags, nil
	}

	rootE := make([]float64, n)
	for i, e := range energy {
		rootE[i] = math.Sqrt(e)
	}

	// Uniform √E grid: g[k] = k·√Emax/n.
	top := math.Sqrt(floats.Max(energy))
	grid := make([]float64, n)
	for k := range grid {
		grid[k] = float64(k) * top / float64(n)
	}

	scaled, err := interp.Resample(rootE, counts, grid, 0)
	if err != nil {
		return nil, fmt.Errorf("correct: resample to √E: %w", err)
	}

	bg, err := est.Estimate(scaled)
	if err != nil {
		return nil, fmt.Errorf("correct: estimate background: %w", err)
	}
	if len(bg) != n {
		return nil, fmt.Errorf("correct: estimator returned %d channels, want %d", len(bg), n)
	}
	floats.Sub(scaled, bg)

	for k, g := range grid {
		grid[k] = g * g
	}
	back, err := interp.Resample(grid, scaled, energy, 0)
	if err != nil {
		return nil, fmt.Errorf("correct: resample to E: %w", err)
	}

	copy(counts, back)
	return diags, nil
}

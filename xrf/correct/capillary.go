package correct

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-xrf/dsp/core"
	"github.com/cwbudde/algo-xrf/dsp/interp"
	"github.com/cwbudde/algo-xrf/xrf/spectrum"
)

const (
	defaultCapillaryPoints = 40
	defaultCapillaryMargin = 50
	minCapillaryPoints     = 4
)

type capillaryConfig struct {
	points int
	margin int
}

// CapillaryOption configures RemoveCapillary.
type CapillaryOption func(*capillaryConfig) error

// WithPoints sets the number of sampling windows (default 40, at least 4).
func WithPoints(n int) CapillaryOption {
	return func(cfg *capillaryConfig) error {
		if n < minCapillaryPoints {
			return fmt.Errorf("correct: capillary points must be >= %d: %d", minCapillaryPoints, n)
		}

		cfg.points = n

		return nil
	}
}

// WithMargin sets the number of channels skipped at each end of the
// spectrum (default 50, must be >= 0).
func WithMargin(channels int) CapillaryOption {
	return func(cfg *capillaryConfig) error {
		if channels < 0 {
			return fmt.Errorf("correct: capillary margin must be >= 0: %d", channels)
		}

		cfg.margin = channels

		return nil
	}
}

func newCapillaryConfig(opts []CapillaryOption) (capillaryConfig, error) {
	cfg := capillaryConfig{points: defaultCapillaryPoints, margin: defaultCapillaryMargin}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return capillaryConfig{}, err
		}
	}
	return cfg, nil
}

// CapillaryKnots returns the spline knots used by RemoveCapillary: for each
// of the evenly spaced windows between the margins, the energy of the window
// centre and the minimum count inside the window. ok is false when the
// spectrum is too short for the configured windows.
func CapillaryKnots(s *spectrum.Spectrum, opts ...CapillaryOption) (energy, counts []float64, ok bool, err error) {
	if s == nil {
		return nil, nil, false, ErrNilSpectrum
	}
	cfg, err := newCapillaryConfig(opts)
	if err != nil {
		return nil, nil, false, err
	}

	step := (s.Len() - 2*cfg.margin) / cfg.points
	if step < 1 {
		return nil, nil, false, nil
	}

	energy = make([]float64, cfg.points)
	counts = make([]float64, cfg.points)
	for i := range cfg.points {
		lo := cfg.margin + i*step
		energy[i] = s.Energy[lo+step/2]
		counts[i] = floats.Min(s.Channels[lo : lo+step])
	}
	return energy, counts, true, nil
}

// RemoveCapillary subtracts the polycapillary background from s in place.
// A not-a-knot cubic spline through CapillaryKnots is evaluated over the
// whole energy axis (zero outside the knot range), clipped to be
// non-negative and subtracted; the result is clipped to be non-negative.
// Spectra too short for the windows are left unchanged with a diagnostic.
func RemoveCapillary(s *spectrum.Spectrum, opts ...CapillaryOption) (spectrum.Diagnostics, error) {
	if s == nil {
		return nil, ErrNilSpectrum
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var diags spectrum.Diagnostics

	xs, ys, ok, err := CapillaryKnots(s, opts...)
	if err != nil {
		return nil, err
	}
	if !ok {
		diags.Addf(StageCapillary, "%d channels too few for the sampling windows; spectrum unchanged", s.Len())
		return diags, nil
	}

	spline, err := interp.NewCubic(xs, ys, 0)
	if err != nil {
		return nil, fmt.Errorf("correct: capillary spline: %w", err)
	}

	bg := make([]float64, s.Len())
	spline.PredictTo(bg, s.Energy)
	core.ClipNonNegative(bg)

	floats.Sub(s.Channels, bg)
	s.ClipNonNegative()
	return diags, nil
}

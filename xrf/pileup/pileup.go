// Package pileup removes first-order pulse pile-up from XRF spectra.
//
// Two photons arriving within the amplifier shaping time are recorded as a
// single event with the summed energy. For a count rate r per channel the
// expected pile-up rate in channel i is proportional to the self-convolution
// Σ_{k<i} r[k]·r[i-1-k]; the proportionality is shape/shaping time.
package pileup

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-xrf/dsp/conv"
	"github.com/cwbudde/algo-xrf/xrf/spectrum"
)

// Stage names pile-up diagnostics.
const Stage = "pileup"

const (
	defaultWarmup        = 100
	defaultShapeConstant = 0.006
)

// ErrNilSpectrum is returned when no spectrum is given.
var ErrNilSpectrum = errors.New("pileup: nil spectrum")

type config struct {
	warmup int
	shape  float64
}

// Option configures the corrector.
type Option func(*config) error

// WithWarmup sets the number of leading positive-energy channels left
// uncorrected (default 100).
func WithWarmup(n int) Option {
	return func(cfg *config) error {
		if n < 0 {
			return fmt.Errorf("pileup: warmup must be >= 0: %d", n)
		}

		cfg.warmup = n

		return nil
	}
}

// WithShapeConstant sets the numerator of the shape factor
// constant/shaping time (default 0.006).
func WithShapeConstant(c float64) Option {
	return func(cfg *config) error {
		if !(c > 0) || math.IsInf(c, 0) {
			return fmt.Errorf("pileup: shape constant must be > 0 and finite: %f", c)
		}

		cfg.shape = c

		return nil
	}
}

func newConfig(opts []Option) (config, error) {
	cfg := config{warmup: defaultWarmup, shape: defaultShapeConstant}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}
	return cfg, nil
}

// Estimate returns the pile-up counts of every channel without modifying s.
// Channels below the first positive energy and inside the warm-up are zero.
func Estimate(s *spectrum.Spectrum, opts ...Option) ([]float64, spectrum.Diagnostics, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	if s == nil {
		return nil, nil, ErrNilSpectrum
	}
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	if err := s.ValidateTiming(); err != nil {
		return nil, nil, err
	}

	var diags spectrum.Diagnostics
	out := make([]float64, s.Len())

	first := s.FirstPositiveEnergy()
	if first < 0 {
		diags.Addf(Stage, "no positive-energy channels")
		return out, diags, nil
	}

	pos := s.Channels[first:]
	if len(pos) <= cfg.warmup {
		diags.Addf(Stage, "%d positive-energy channels do not exceed the warm-up of %d", len(pos), cfg.warmup)
		return out, diags, nil
	}

	seconds := s.LiveTimeMS / 1000
	rate := make([]float64, len(pos))
	vecmath.ScaleBlock(rate, pos, 1/seconds)

	self, err := conv.SelfConvolve(rate)
	if err != nil {
		return nil, nil, fmt.Errorf("pileup: %w", err)
	}

	factor := cfg.shape / s.ShapingTime * seconds
	dst := out[first:]
	for i := max(cfg.warmup, 1); i < len(pos); i++ {
		dst[i] = factor * self[i-1]
	}
	return out, diags, nil
}

// Correct subtracts the estimated pile-up from the positive-energy channels
// of s in place and clips every channel to be non-negative. The spectrum
// must carry a positive live time and shaping time.
func Correct(s *spectrum.Spectrum, opts ...Option) (spectrum.Diagnostics, error) {
	pile, diags, err := Estimate(s, opts...)
	if err != nil {
		return nil, err
	}

	floats.Sub(s.Channels, pile)
	s.ClipNonNegative()
	return diags, nil
}

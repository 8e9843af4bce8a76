package snip

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrEmptyInput is returned when estimating the background of an empty
// spectrum.
var ErrEmptyInput = errors.New("snip: empty input")

// Estimator computes a background estimate with the same length as the
// input spectrum.
type Estimator interface {
	Estimate(spectrum []float64) ([]float64, error)
}

// Variant names an Estimator implementation.
type Variant int

const (
	// VariantReference selects [Reference].
	VariantReference Variant = iota
	// VariantFastConvolution selects [FastConvolution].
	VariantFastConvolution

	variantCount
)

var variantNames = [variantCount]string{"reference", "fast"}

// String returns the name of the variant.
func (v Variant) String() string {
	if v.Valid() {
		return variantNames[v]
	}
	return fmt.Sprintf("Variant(%d)", v)
}

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	return v >= 0 && v < variantCount
}

// ParseVariant returns the variant named s ("reference" or "fast",
// case-insensitive).
func ParseVariant(s string) (Variant, error) {
	for i, name := range variantNames {
		if strings.EqualFold(s, name) {
			return Variant(i), nil
		}
	}
	return 0, fmt.Errorf("snip: unknown variant: %q", s)
}

// New returns the Estimator for variant v configured with opts.
func New(v Variant, opts ...Option) (Estimator, error) {
	switch v {
	case VariantReference:
		r, err := NewReference(opts...)
		if err != nil {
			return nil, err
		}
		return r, nil
	case VariantFastConvolution:
		f, err := NewFastConvolution(opts...)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("snip: invalid variant: %d", v)
	}
}

// schedule yields the half window for every iteration: fwhm until the last
// reductions iterations, then shrinking by √2 per iteration, never below 1.
type schedule struct {
	fwhm       int
	reductions int
	iterations int
	factor     float64
}

func newSchedule(fwhm, reductions, iterations int) *schedule {
	return &schedule{fwhm: fwhm, reductions: reductions, iterations: iterations, factor: 1}
}

// window returns the half window for zero-based iteration n. Calls must be
// made in increasing order of n.
func (s *schedule) window(n int) int {
	if n+1 > s.iterations-s.reductions {
		s.factor /= math.Sqrt2
	}
	return max(int(s.factor*float64(s.fwhm)), 1)
}

// HalfWindows returns the half window used by each iteration for the given
// parameters.
func HalfWindows(fwhm, reductions, iterations int) []int {
	s := newSchedule(fwhm, reductions, iterations)
	out := make([]int, iterations)
	for n := range out {
		out[n] = s.window(n)
	}
	return out
}

package interp

import (
	"errors"
	"fmt"
	"math"

	gonuminterp "gonum.org/v1/gonum/interp"
)

// Errors returned when fitting an interpolant.
var (
	ErrLengthMismatch = errors.New("interp: xs and ys must have the same length")
	ErrTooFewPoints   = errors.New("interp: too few points")
	ErrNotIncreasing  = errors.New("interp: xs must be strictly increasing")
	ErrNonFinite      = errors.New("interp: non-finite knot")
)

// Bounded evaluates a fitted interpolant inside its knot range and returns
// Fill outside of it.
type Bounded struct {
	pred   gonuminterp.Predictor
	lo, hi float64
	fill   float64
}

// NewLinear fits a piecewise linear interpolant through (xs, ys).
// At least two knots are required.
func NewLinear(xs, ys []float64, fill float64) (*Bounded, error) {
	if err := validateKnots(xs, ys, 2); err != nil {
		return nil, err
	}

	var pl gonuminterp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("interp: linear fit: %w", err)
	}

	return &Bounded{pred: pl, lo: xs[0], hi: xs[len(xs)-1], fill: fill}, nil
}

// NewCubic fits a not-a-knot cubic spline through (xs, ys).
// At least four knots are required.
func NewCubic(xs, ys []float64, fill float64) (*Bounded, error) {
	if err := validateKnots(xs, ys, 4); err != nil {
		return nil, err
	}

	var nak gonuminterp.NotAKnotCubic
	if err := nak.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("interp: cubic fit: %w", err)
	}

	return &Bounded{pred: &nak, lo: xs[0], hi: xs[len(xs)-1], fill: fill}, nil
}

// Predict returns the interpolated value at x, or the fill value when x lies
// outside the knot range.
func (b *Bounded) Predict(x float64) float64 {
	if !(x >= b.lo && x <= b.hi) {
		return b.fill
	}
	return b.pred.Predict(x)
}

// PredictTo evaluates the interpolant at every xs[i] into dst.
// dst must have the same length as xs.
func (b *Bounded) PredictTo(dst, xs []float64) {
	_ = dst[len(xs)-1] // bounds check hint
	for i, x := range xs {
		dst[i] = b.Predict(x)
	}
}

// Range returns the knot range [lo, hi].
func (b *Bounded) Range() (lo, hi float64) {
	return b.lo, b.hi
}

// Resample linearly interpolates (xs, ys) at every point of at, using fill
// outside the range of xs.
func Resample(xs, ys, at []float64, fill float64) ([]float64, error) {
	b, err := NewLinear(xs, ys, fill)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(at))
	if len(at) > 0 {
		b.PredictTo(out, at)
	}
	return out, nil
}

func validateKnots(xs, ys []float64, minPoints int) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(xs), len(ys))
	}
	if len(xs) < minPoints {
		return fmt.Errorf("%w: %d < %d", ErrTooFewPoints, len(xs), minPoints)
	}
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsInf(xs[i], 0) || math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			return fmt.Errorf("%w at index %d", ErrNonFinite, i)
		}
		if i > 0 && !(xs[i] > xs[i-1]) {
			return fmt.Errorf("%w at index %d", ErrNotIncreasing, i)
		}
	}
	return nil
}

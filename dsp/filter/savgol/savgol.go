package savgol

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-xrf/dsp/core"
)

// MaxWidth is the largest window accepted by Smooth.
const MaxWidth = 51

// Coefficients returns the normalised quadratic smoothing kernel for the given
// width. The width is coerced to an odd value and capped at MaxWidth.
//
//	c[j] = 3*(3m²+3m-1-5(j-m)²) / ((2m-1)(2m+1)(2m+3)),  j = 0..2m
func Coefficients(width int) []float64 {
	w := min(core.OddWidth(width), MaxWidth)
	m := (w - 1) / 2

	norm := float64((2*m - 1) * (2*m + 1) * (2*m + 3))
	c := make([]float64, w)
	for j := range c {
		d := j - m
		c[j] = float64(3*(3*m*m+3*m-1-5*d*d)) / norm
	}
	return c
}

// Smooth returns y smoothed over the inclusive region [first, last].
// The output has len(y) channels; only [max(first, m), min(last, len(y)-1-m)]
// is defined, all other channels are zero.
func Smooth(y []float64, first, last, width int) []float64 {
	out := make([]float64, len(y))
	SmoothTo(out, y, first, last, width)
	return out
}

// SmoothTo is like Smooth but writes into dst, which must have len(y) channels.
func SmoothTo(dst, y []float64, first, last, width int) {
	core.Zero(dst)

	c := Coefficients(width)
	m := (len(c) - 1) / 2

	lo := max(first, m)
	hi := min(last, len(y)-1-m)
	for i := lo; i <= hi; i++ {
		dst[i] = vecmath.DotProduct(c, y[i-m:i+m+1])
	}
}

package savgol

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-xrf/dsp/conv"
	"github.com/cwbudde/algo-xrf/dsp/core"
)

// ErrEmptyInput is returned by Filter for an empty signal.
var ErrEmptyInput = errors.New("savgol: empty input")

// Filter smooths y with a least-squares polynomial of the given order over a
// sliding window. The width is coerced to an odd value and clipped to the
// largest odd width that fits len(y); the order is clipped to width-1.
//
// Interior channels are a "same" convolution with the central kernel; the
// first and last width/2 channels are evaluated from the polynomial fitted to
// the first and last full window.
func Filter(y []float64, width, order int) ([]float64, error) {
	n := len(y)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	w := core.OddWidth(width)
	if w > n {
		w = n
		if w%2 == 0 {
			w--
		}
	}
	if order < 0 {
		order = 0
	}
	if order > w-1 {
		order = w - 1
	}

	if w == 1 {
		return core.Clone(y), nil
	}

	m := (w - 1) / 2
	center, err := FitKernel(w, order, 0)
	if err != nil {
		return nil, err
	}

	out, err := conv.ConvolveMode(y, center, conv.ModeSame)
	if err != nil {
		return nil, fmt.Errorf("savgol: %w", err)
	}

	for i := 0; i < m; i++ {
		h, err := FitKernel(w, order, i-m)
		if err != nil {
			return nil, err
		}
		out[i] = vecmath.DotProduct(h, y[:w])

		// Mirror position in the last window.
		j := n - 1 - i
		hr, err := FitKernel(w, order, m-i)
		if err != nil {
			return nil, err
		}
		out[j] = vecmath.DotProduct(hr, y[n-w:])
	}

	return out, nil
}

// FitKernel returns the weights h such that Σ h[j]·y[j] is the value at
// offset t (relative to the window centre) of the order-degree polynomial
// least-squares fit to a window of width samples.
func FitKernel(width, order, t int) ([]float64, error) {
	w := core.OddWidth(width)
	m := (w - 1) / 2
	p := order + 1
	if p > w {
		p = w
	}

	a := mat.NewDense(w, p, nil)
	for i := 0; i < w; i++ {
		x := float64(i - m)
		for k := 0; k < p; k++ {
			a.Set(i, k, math.Pow(x, float64(k)))
		}
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)

	e := mat.NewVecDense(p, nil)
	for k := 0; k < p; k++ {
		e.SetVec(k, math.Pow(float64(t), float64(k)))
	}

	var z mat.VecDense
	if err := z.SolveVec(&ata, e); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("savgol: normal equations: %w", err)
		}
	}

	var h mat.VecDense
	h.MulVec(a, &z)

	return mat.Col(nil, 0, &h), nil
}

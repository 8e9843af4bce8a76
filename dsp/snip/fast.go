package snip

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-xrf/dsp/conv"
	"github.com/cwbudde/algo-xrf/dsp/core"
)

// FastConvolution is the vectorised SNIP estimator. Every iteration compares
// the whole region against half the "same"-length convolution of the
// previous iterate with the two-tap kernel [1, 0, …, 0, 1]. Samples beyond
// the array ends count as zero. An even fwhm is widened to the next odd value.
type FastConvolution struct {
	cfg config
}

// NewFastConvolution returns a FastConvolution estimator configured with opts.
func NewFastConvolution(opts ...Option) (*FastConvolution, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	cfg.fwhm = core.OddWidth(cfg.fwhm)
	return &FastConvolution{cfg: cfg}, nil
}

// Estimate returns the background of y. The input is not modified.
func (f *FastConvolution) Estimate(y []float64) ([]float64, error) {
	n := len(y)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	cfg := f.cfg
	first, last := cfg.bounds(n)

	est := make([]float64, n)
	core.SqrtNonNegative(est, y)

	if first <= last {
		sched := newSchedule(cfg.fwhm, cfg.reductions, cfg.iterations)
		var kernel []float64
		for it := 0; it < cfg.iterations; it++ {
			iw := sched.window(it)
			kernel = straddle(kernel, iw)

			sum, err := conv.ConvolveMode(est, kernel, conv.ModeSame)
			if err != nil {
				return nil, fmt.Errorf("snip: %w", err)
			}
			vecmath.ScaleBlockInPlace(sum[first:last+1], 0.5)

			for i := first; i <= last; i++ {
				if sum[i] < est[i] {
					est[i] = sum[i]
				}
			}
			if cfg.hook != nil {
				cfg.hook(it, est)
			}
		}
	}

	core.SquareInPlace(est)
	return est, nil
}

// straddle returns the kernel [1, 0, …, 0, 1] of length 2*iw+1, reusing buf.
func straddle(buf []float64, iw int) []float64 {
	k := core.EnsureLen(buf, 2*iw+1)
	core.Zero(k)
	k[0] = 1
	k[len(k)-1] = 1
	return k
}

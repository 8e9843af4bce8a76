package snip

import (
	"github.com/cwbudde/algo-xrf/dsp/core"
	"github.com/cwbudde/algo-xrf/dsp/filter/savgol"
)

// Reference is the classic SNIP estimator: Savitzky–Golay pre-smoothing
// followed by in-place, ascending channel updates.
type Reference struct {
	cfg config
}

// NewReference returns a Reference estimator configured with opts.
func NewReference(opts ...Option) (*Reference, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Reference{cfg: cfg}, nil
}

// Estimate returns the background of y. The input is not modified.
//
// The spectrum is smoothed with width fwhm over the region widened by fwhm
// on both sides; channels beyond that are zero in the estimate.
func (r *Reference) Estimate(y []float64) ([]float64, error) {
	n := len(y)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	cfg := r.cfg
	first, last := cfg.bounds(n)

	est := savgol.Smooth(y, max(first-cfg.fwhm, 0), min(last+cfg.fwhm, n-1), cfg.fwhm)
	core.SqrtNonNegative(est, est)

	if first <= last {
		sched := newSchedule(cfg.fwhm, cfg.reductions, cfg.iterations)
		for it := 0; it < cfg.iterations; it++ {
			iw := sched.window(it)
			for i := first; i <= last; i++ {
				mean := 0.5 * (est[max(i-iw, 0)] + est[min(i+iw, n-1)])
				if mean < est[i] {
					est[i] = mean
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

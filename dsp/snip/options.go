package snip

import "fmt"

const (
	defaultFWHM       = 8
	defaultReductions = 10
	defaultIterations = 100
)

type config struct {
	fwhm        int
	reductions  int
	iterations  int
	first, last int
	region      bool
	hook        func(iter int, estimate []float64)
}

func defaultConfig() config {
	return config{
		fwhm:       defaultFWHM,
		reductions: defaultReductions,
		iterations: defaultIterations,
	}
}

func applyOptions(opts []Option) (config, error) {
	cfg := defaultConfig()
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

// bounds returns the inclusive region clipped to n channels.
func (c config) bounds(n int) (first, last int) {
	if !c.region {
		return 0, n - 1
	}
	return max(c.first, 0), min(c.last, n-1)
}

// Option configures an [Estimator].
type Option func(*config) error

// WithFWHM sets the stripping width in channels, normally the average FWHM
// of the peaks (default 8, must be >= 1).
func WithFWHM(fwhm int) Option {
	return func(cfg *config) error {
		if fwhm < 1 {
			return fmt.Errorf("snip: fwhm must be >= 1: %d", fwhm)
		}

		cfg.fwhm = fwhm

		return nil
	}
}

// WithReductions sets how many of the final iterations shrink the window by
// √2 each (default 10, must be >= 0).
func WithReductions(n int) Option {
	return func(cfg *config) error {
		if n < 0 {
			return fmt.Errorf("snip: reductions must be >= 0: %d", n)
		}

		cfg.reductions = n

		return nil
	}
}

// WithIterations sets the number of stripping iterations (default 100, must
// be >= 0). Zero iterations return the transformed input.
func WithIterations(n int) Option {
	return func(cfg *config) error {
		if n < 0 {
			return fmt.Errorf("snip: iterations must be >= 0: %d", n)
		}

		cfg.iterations = n

		return nil
	}
}

// WithRegion restricts stripping to the inclusive channel range
// [first, last] (default: the whole spectrum). Ranges reaching past the
// array are clipped.
func WithRegion(first, last int) Option {
	return func(cfg *config) error {
		if first > last {
			return fmt.Errorf("snip: region first > last: [%d, %d]", first, last)
		}

		cfg.first = first
		cfg.last = last
		cfg.region = true

		return nil
	}
}

// WithIterationHook registers fn to observe the square-root domain estimate
// after every iteration. The slice is only valid for the duration of the call.
func WithIterationHook(fn func(iter int, estimate []float64)) Option {
	return func(cfg *config) error {
		cfg.hook = fn

		return nil
	}
}

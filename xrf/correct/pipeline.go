package correct

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-xrf/dsp/snip"
	"github.com/cwbudde/algo-xrf/xrf/pileup"
	"github.com/cwbudde/algo-xrf/xrf/spectrum"
)

// ErrNilEstimator is returned by WithEstimator for a nil estimator.
var ErrNilEstimator = errors.New("correct: nil estimator")

// Pipeline runs the correction stages in data flow order: optional pile-up
// correction, SCALEDSNIP background removal, optional capillary removal.
// A Pipeline is immutable and safe for concurrent use on distinct spectra
// provided its estimator is.
type Pipeline struct {
	pileup     bool
	pileupOpts []pileup.Option
	capillary  bool
	capOpts    []CapillaryOption
	estimator  snip.Estimator
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPileup enables or disables pile-up correction (default disabled).
func WithPileup(enabled bool, opts ...pileup.Option) Option {
	return func(p *Pipeline) error {
		p.pileup = enabled
		p.pileupOpts = opts

		return nil
	}
}

// WithCapillary enables or disables polycapillary background removal
// (default disabled).
func WithCapillary(enabled bool, opts ...CapillaryOption) Option {
	return func(p *Pipeline) error {
		if _, err := newCapillaryConfig(opts); err != nil {
			return err
		}

		p.capillary = enabled
		p.capOpts = opts

		return nil
	}
}

// WithEstimator sets the SNIP estimator used by SCALEDSNIP.
func WithEstimator(e snip.Estimator) Option {
	return func(p *Pipeline) error {
		if e == nil {
			return ErrNilEstimator
		}

		p.estimator = e

		return nil
	}
}

// WithSNIP replaces the SCALEDSNIP parameters of the default fast estimator.
func WithSNIP(fwhm, reductions, iterations int) Option {
	return func(p *Pipeline) error {
		e, err := snip.NewFastConvolution(
			snip.WithFWHM(fwhm),
			snip.WithReductions(reductions),
			snip.WithIterations(iterations),
		)
		if err != nil {
			return fmt.Errorf("correct: %w", err)
		}

		p.estimator = e

		return nil
	}
}

// NewPipeline returns a Pipeline configured with opts.
func NewPipeline(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if p.estimator == nil {
		p.estimator = DefaultEstimator()
	}
	return p, nil
}

// Stages returns the names of the enabled stages in execution order.
func (p *Pipeline) Stages() []string {
	var stages []string
	if p.pileup {
		stages = append(stages, pileup.Stage)
	}
	stages = append(stages, StageScaledSNIP)
	if p.capillary {
		stages = append(stages, StageCapillary)
	}
	return stages
}

// Report summarises a pipeline run.
type Report struct {
	// Stages lists the stages that ran, in order.
	Stages []string
	// Diagnostics merges the diagnostics of every stage.
	Diagnostics spectrum.Diagnostics
}

// Run corrects s in place. The spectrum is validated before any stage runs;
// with pile-up enabled its live and shaping times must be known.
func (p *Pipeline) Run(s *spectrum.Spectrum) (Report, error) {
	var rep Report
	if s == nil {
		return rep, ErrNilSpectrum
	}
	if err := s.Validate(); err != nil {
		return rep, err
	}
	if p.pileup {
		if err := s.ValidateTiming(); err != nil {
			return rep, err
		}
	}

	for _, stage := range p.Stages() {
		var (
			diags spectrum.Diagnostics
			err   error
		)
		switch stage {
		case pileup.Stage:
			diags, err = pileup.Correct(s, p.pileupOpts...)
		case StageScaledSNIP:
			diags, err = ScaledSNIP(s, p.estimator)
		case StageCapillary:
			diags, err = RemoveCapillary(s, p.capOpts...)
		}
		if err != nil {
			return rep, fmt.Errorf("correct: %s: %w", stage, err)
		}
		rep.Stages = append(rep.Stages, stage)
		rep.Diagnostics.Merge(diags)
	}
	return rep, nil
}

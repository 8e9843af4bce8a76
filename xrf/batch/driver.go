package batch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-xrf/xrf/correct"
	"github.com/cwbudde/algo-xrf/xrf/spectrum"
)

const (
	defaultFitter = "leastsq"
	defaultMethod = "ls"
)

var (
	// ErrNilPipeline is returned by NewDriver without a pipeline.
	ErrNilPipeline = errors.New("batch: nil pipeline")
	// ErrDuplicateName is returned when two items share a name.
	ErrDuplicateName = errors.New("batch: duplicate item name")
)

// Item is one named spectrum of a batch. The driver corrects Spectrum in
// place.
type Item struct {
	Name     string
	Spectrum *spectrum.Spectrum
}

// FitRequest is passed to the Modeler for every corrected spectrum.
type FitRequest struct {
	Name        string
	Spectrum    *spectrum.Spectrum
	Calibration spectrum.Calibration
	Elements    []string
	Fitter      string
	Method      string
}

// LineIntensity is the fitted intensity of one element line.
type LineIntensity struct {
	Line     string  `json:"line" yaml:"line"`
	Measured float64 `json:"measured" yaml:"measured"`
	Modeled  float64 `json:"modeled" yaml:"modeled"`
}

// Modeler fits element lines to a corrected spectrum.
type Modeler interface {
	Fit(ctx context.Context, req FitRequest) ([]LineIntensity, error)
}

// ModelerFunc adapts a function to the Modeler interface.
type ModelerFunc func(ctx context.Context, req FitRequest) ([]LineIntensity, error)

// Fit calls f.
func (f ModelerFunc) Fit(ctx context.Context, req FitRequest) ([]LineIntensity, error) {
	return f(ctx, req)
}

// Driver runs a correction pipeline and an optional Modeler over a batch.
type Driver struct {
	pipeline    *correct.Pipeline
	modeler     Modeler
	concurrency int
	logger      log.FieldLogger
	fitter      string
	method      string
}

// DriverOption configures a Driver.
type DriverOption func(*Driver) error

// WithConcurrency bounds the number of spectra processed at once (default
// GOMAXPROCS).
func WithConcurrency(n int) DriverOption {
	return func(d *Driver) error {
		if n < 1 {
			return fmt.Errorf("batch: concurrency must be >= 1: %d", n)
		}

		d.concurrency = n

		return nil
	}
}

// WithLogger sets the logger (default the logrus standard logger).
func WithLogger(l log.FieldLogger) DriverOption {
	return func(d *Driver) error {
		if l != nil {
			d.logger = l
		}

		return nil
	}
}

// WithFitter sets the fitter name passed to the Modeler (default "leastsq").
func WithFitter(name string) DriverOption {
	return func(d *Driver) error {
		d.fitter = name

		return nil
	}
}

// WithMethod sets the fit method name passed to the Modeler (default "ls").
func WithMethod(name string) DriverOption {
	return func(d *Driver) error {
		d.method = name

		return nil
	}
}

// NewDriver returns a Driver. A nil modeler runs correction only.
func NewDriver(pipeline *correct.Pipeline, modeler Modeler, opts ...DriverOption) (*Driver, error) {
	if pipeline == nil {
		return nil, ErrNilPipeline
	}

	d := &Driver{
		pipeline:    pipeline,
		modeler:     modeler,
		concurrency: runtime.GOMAXPROCS(0),
		logger:      log.StandardLogger(),
		fitter:      defaultFitter,
		method:      defaultMethod,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Result holds the output of one batch run.
type Result struct {
	RunID string
	// Lines lists the fitted element lines in Modeler order.
	Lines []string
	// ROI holds the measured line intensities per file.
	ROI *Table
	// Model holds the modelled line intensities per file.
	Model *Table
	// Diagnostics maps file names to the correction diagnostics.
	Diagnostics map[string]spectrum.Diagnostics
}

type itemResult struct {
	report correct.Report
	lines  []LineIntensity
}

// Run corrects every item and, with a Modeler, fits the given elements.
// Items are processed concurrently; tables keep the input order. The first
// failing item cancels the run and its error names the item.
func (d *Driver) Run(ctx context.Context, items []Item, elements []string) (*Result, error) {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if seen[it.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, it.Name)
		}
		seen[it.Name] = true
	}

	runID := uuid.NewString()
	logger := d.logger.WithField("run_id", runID)
	logger.WithFields(log.Fields{
		"items":       len(items),
		"concurrency": d.concurrency,
	}).Info("batch started")

	results := make([]itemResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, it := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := d.process(gctx, logger.WithField("file", it.Name), it, elements)
			if err != nil {
				return fmt.Errorf("batch: %s: %w", it.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("batch failed")
		return nil, err
	}

	res := d.collect(runID, items, results)
	logger.Info("batch finished")
	return res, nil
}

func (d *Driver) process(ctx context.Context, logger log.FieldLogger, it Item, elements []string) (itemResult, error) {
	start := time.Now()

	rep, err := d.pipeline.Run(it.Spectrum)
	if err != nil {
		return itemResult{}, err
	}
	for _, diag := range rep.Diagnostics {
		logger.WithField("stage", diag.Stage).Warn(diag.Message)
	}

	r := itemResult{report: rep}
	if d.modeler != nil {
		r.lines, err = d.modeler.Fit(ctx, FitRequest{
			Name:        it.Name,
			Spectrum:    it.Spectrum,
			Calibration: it.Spectrum.Calibration,
			Elements:    elements,
			Fitter:      d.fitter,
			Method:      d.method,
		})
		if err != nil {
			return itemResult{}, fmt.Errorf("fit: %w", err)
		}
	}

	logger.WithFields(log.Fields{
		"stages":  rep.Stages,
		"elapsed": time.Since(start),
	}).Debug("spectrum processed")
	return r, nil
}

// collect assembles the tables. The line order follows the first item that
// returned lines; lines missing for a file are NaN.
func (d *Driver) collect(runID string, items []Item, results []itemResult) *Result {
	var lines []string
	index := map[string]int{}
	for _, r := range results {
		for _, li := range r.lines {
			if _, ok := index[li.Line]; !ok {
				index[li.Line] = len(lines)
				lines = append(lines, li.Line)
			}
		}
	}

	res := &Result{
		RunID:       runID,
		Lines:       lines,
		ROI:         &Table{Columns: lines},
		Model:       &Table{Columns: lines},
		Diagnostics: make(map[string]spectrum.Diagnostics, len(items)),
	}
	for i, it := range items {
		roi := nanRow(len(lines))
		model := nanRow(len(lines))
		for _, li := range results[i].lines {
			roi[index[li.Line]] = li.Measured
			model[index[li.Line]] = li.Modeled
		}
		live := it.Spectrum.LiveTimeMS
		res.ROI.Rows = append(res.ROI.Rows, Row{File: it.Name, Values: roi, LiveTimeMS: live})
		res.Model.Rows = append(res.Model.Rows, Row{File: it.Name, Values: model, LiveTimeMS: live})
		if diags := results[i].report.Diagnostics; !diags.Empty() {
			res.Diagnostics[it.Name] = diags
		}
	}
	return res
}

func nanRow(n int) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = math.NaN()
	}
	return row
}

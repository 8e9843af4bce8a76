// Package batch corrects and fits many spectra in one run.
//
// A [Driver] pushes every spectrum through a correction pipeline and, when a
// [Modeler] is configured, hands the corrected spectrum to the external
// spectral model for line intensity fitting. Results are collected into
// per-run tables keyed by file name and element line.
package batch

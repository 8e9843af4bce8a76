// Package correct removes the continuum background from XRF spectra.
//
// [ScaledSNIP] strips the background in a √E domain where detector
// resolution is roughly constant, so a single SNIP width suits the whole
// spectrum. [RemoveCapillary] subtracts the broad hump produced by
// polycapillary optics using a spline through windowed minima. [Pipeline]
// chains pile-up correction, SCALEDSNIP and the capillary remover in data
// flow order after validating the input.
//
// Every stage modifies the spectrum channels in place, keeps them
// non-negative and returns recoverable problems as diagnostics.
package correct

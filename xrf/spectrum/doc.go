// Package spectrum defines the XRF spectrum entity shared by the correction
// stages: per-channel counts, the calibrated energy axis and the acquisition
// metadata needed for dead-time and pile-up handling.
//
// A Spectrum carries no scratch state. Correction stages take a *Spectrum,
// mutate Channels in place and report recoverable problems as Diagnostics.
package spectrum

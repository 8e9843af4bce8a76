// Package snip estimates the continuum background of a spectrum with the
// Statistics-sensitive Non-linear Iterative Peak-clipping (SNIP) algorithm.
//
// Stripping runs in a square-root (variance stabilising) domain. Each
// iteration replaces a channel by the mean of its two neighbours at distance
// iw whenever that mean is lower, so peaks are clipped away while the smooth
// continuum survives. During the last reductions iterations the window
// shrinks by a factor of √2 per iteration, down to a minimum of one channel.
//
// Two interchangeable [Estimator] implementations are provided:
//
//   - [Reference] pre-smooths with a Savitzky–Golay filter of width fwhm and
//     updates channels in place in ascending order, so later channels in an
//     iteration see already clipped neighbours.
//   - [FastConvolution] skips pre-smoothing and updates all channels at once
//     from a two-tap convolution of the previous iterate.
//
// Both honour an inclusive channel region; channels outside it keep their
// (transformed) input value. The returned background is never above the
// non-negative stripping input.
package snip

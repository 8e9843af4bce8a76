// Package tophat implements the top-hat band-pass filter used to isolate
// narrow spectral peaks from a slowly varying continuum.
//
// The kernel has a central positive lobe of width w (forced odd, minimum 3)
// with weight 1/w, flanked on each side by a negative lobe of 2*(w/2)
// channels whose weights sum to -1/2. A linear continuum therefore filters
// to zero while a peak of width close to w gives a strong positive response.
//
// Two forms are provided:
//
//   - [Apply]: direct windowed sums over an inclusive channel region, with
//     indices clamped to the array so edge channels repeat.
//   - [ApplyFast]: quadratic Savitzky–Golay pre-smoothing followed by a
//     "same"-length linear convolution with the pre-computed [Kernel].
//
// Both produce either the filtered spectrum ([ModeFilter]) or a per-channel
// weight 1/max(variance, 1) ([ModeWeight]) derived from Poisson counting
// statistics. [FindPeaks] combines the two to locate significant peaks.
package tophat

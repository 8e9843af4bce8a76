// Package conv provides linear convolution routines used by the spectrum filters.
//
// Two strategies are offered:
//
//   - Direct convolution: O(N*M) time-domain convolution, best for short kernels
//     such as the SNIP straddle kernel or the top-hat kernel.
//   - Overlap-add (OLA): FFT-based block convolution for long kernels.
//
// # Usage
//
//	result, err := conv.Convolve(signal, kernel)                  // auto-selects
//	same, err := conv.ConvolveMode(signal, kernel, conv.ModeSame) // len(signal) output
//
// [ModeSame] centres the full result exactly like a "same" linear convolution:
// the output sample i is aligned with input sample i, and samples beyond the
// array ends are treated as zero.
//
// For repeated convolution with the same kernel, create a reusable convolver:
//
//	c, err := conv.NewOverlapAdd(kernel, blockSize)
//	result, err := c.Process(signal)
//
// [SelfConvolve] computes x*x with one forward and one inverse transform.
//
// # Algorithm Selection
//
// [Convolve] selects direct convolution for kernels of up to 64 samples and
// overlap-add above that. The crossover is approximately 64-128 samples for a
// 4096-channel spectrum.
package conv

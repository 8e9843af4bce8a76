// Package savgol implements Savitzky–Golay polynomial smoothing of channel
// arrays.
//
// [Smooth] is the fixed quadratic smoother used ahead of SNIP background
// stripping. It only produces output where a full window fits inside both the
// requested region and the array, and leaves every other channel at zero:
//
//	s := savgol.Smooth(counts, first, last, 9)
//
// [Filter] is a general least-squares smoother of any polynomial order that
// returns a full-length result. Channels closer than half a window to either
// end are taken from a polynomial fitted to the first or last full window.
//
// Widths are coerced to odd values. [Smooth] caps the width at [MaxWidth];
// [Filter] clips it to the signal length.
package savgol

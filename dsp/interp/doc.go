// Package interp provides bounded 1-D interpolation used to move spectra between
// energy grids.
//
// Available interpolants:
//
//   - [NewLinear]: piecewise linear (gonum PiecewiseLinear)
//   - [NewCubic]:  not-a-knot cubic spline (gonum NotAKnotCubic)
//
// Both return a [Bounded] predictor that yields a fixed fill value outside the
// fitted knot range instead of extrapolating. [Resample] is a convenience
// wrapper for one-shot linear resampling onto a new grid.
package interp

package tophat

import "math"

// DefaultSensitivity is the significance threshold used when FindPeaks is
// called with a non-positive sensitivity.
const DefaultSensitivity = 3.0

// Peak is a local maximum of the top-hat filtered spectrum.
type Peak struct {
	Channel      int
	Position     float64 // parabolic refinement of Channel
	Height       float64 // filtered value at Channel
	Significance float64 // Height / standard deviation
}

// FindPeaks returns the channels at which the top-hat filtered spectrum has a
// local maximum whose height exceeds sensitivity standard deviations. The
// width should be close to the FWHM of the peaks in channels; the sensitivity
// is typically 2 to 4.
func FindPeaks(in []float64, width int, sensitivity float64) []Peak {
	n := len(in)
	if n < 3 {
		return nil
	}
	if sensitivity <= 0 {
		sensitivity = DefaultSensitivity
	}

	filtered := Apply(in, 0, n-1, width, ModeFilter)
	weights := Apply(in, 0, n-1, width, ModeWeight)

	var peaks []Peak
	for i := 1; i < n-1; i++ {
		f := filtered[i]
		if f <= 0 || f <= filtered[i-1] || f < filtered[i+1] {
			continue
		}
		sigma := math.Sqrt(1 / weights[i])
		sig := f / sigma
		if sig <= sensitivity {
			continue
		}
		peaks = append(peaks, Peak{
			Channel:      i,
			Position:     float64(i) + vertexOffset(filtered[i-1], f, filtered[i+1]),
			Height:       f,
			Significance: sig,
		})
	}
	return peaks
}

// vertexOffset returns the offset of the vertex of the parabola through
// (-1, a), (0, b), (1, c), limited to [-0.5, 0.5].
func vertexOffset(a, b, c float64) float64 {
	den := a - 2*b + c
	if den == 0 {
		return 0
	}
	return math.Max(-0.5, math.Min(0.5, 0.5*(a-c)/den))
}

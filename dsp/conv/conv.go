package conv

import (
	"errors"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrEmptyKernel    = errors.New("conv: empty kernel")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
)

// Mode specifies the output mode for convolution.
type Mode int

const (
	// ModeFull returns the full convolution result with length len(a)+len(b)-1.
	ModeFull Mode = iota

	// ModeSame returns output with the same length as the first input.
	ModeSame

	// ModeValid returns only the portion where signals fully overlap,
	// with length max(len(a), len(b)) - min(len(a), len(b)) + 1.
	ModeValid
)

const directThreshold = 64

// Direct performs direct time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]float64, len(a)+len(b)-1)
	DirectTo(result, a, b)
	return result, nil
}

// DirectTo performs direct convolution, writing to a pre-allocated destination.
// dst must have length len(a) + len(b) - 1.
func DirectTo(dst, a, b []float64) {
	n := len(a)
	m := len(b)

	for i := range dst {
		dst[i] = 0
	}

	const simdThreshold = 4
	if m >= simdThreshold {
		directToSIMD(dst, a, b, n, m)
	} else {
		directToScalar(dst, a, b, n, m)
	}
}

func directToScalar(dst, a, b []float64, n, m int) {
	for i := 0; i < n; i++ {
		if a[i] == 0 {
			continue
		}
		for j := 0; j < m; j++ {
			dst[i+j] += a[i] * b[j]
		}
	}
}

// directToSIMD vectorises the inner loop: dst[i:i+m] += b * a[i].
func directToSIMD(dst, a, b []float64, n, m int) {
	temp := make([]float64, m)

	for i := 0; i < n; i++ {
		if a[i] == 0 {
			continue
		}
		vecmath.ScaleBlock(temp, b, a[i])
		vecmath.AddBlockInPlace(dst[i:i+m], temp)
	}
}

// Convolve performs linear convolution with automatic algorithm selection.
// Kernels of up to 64 samples use direct convolution, longer kernels use
// FFT-based overlap-add.
func Convolve(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	// Ensure a is the longer signal for efficient processing
	if len(b) > len(a) {
		a, b = b, a
	}

	if len(b) <= directThreshold {
		return Direct(a, b)
	}

	return OverlapAddConvolve(a, b)
}

// ConvolveMode performs convolution with specified output mode.
func ConvolveMode(a, b []float64, mode Mode) ([]float64, error) {
	full, err := Convolve(a, b)
	if err != nil {
		return nil, err
	}

	return trimToMode(full, len(a), len(b), mode), nil
}

// trimToMode extracts the appropriate portion of a full convolution result.
func trimToMode(full []float64, lenA, lenB int, mode Mode) []float64 {
	switch mode {
	case ModeFull:
		return full
	case ModeSame:
		start := (lenB - 1) / 2
		return full[start : start+lenA]
	case ModeValid:
		if lenA >= lenB {
			return full[lenB-1 : lenA]
		}
		return full[lenA-1 : lenB]
	default:
		return full
	}
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

package core

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// OddWidth coerces a filter width to an odd value of at least 1.
// Even widths are rounded up to the next odd value.
func OddWidth(width int) int {
	if width < 1 {
		return 1
	}
	if width%2 == 0 {
		return width + 1
	}
	return width
}

// ClipNonNegative replaces negative (and NaN) values in buf with 0.
func ClipNonNegative(buf []float64) {
	for i, v := range buf {
		if !(v > 0) {
			buf[i] = 0
		}
	}
}

// SqrtNonNegative writes sqrt(max(src[i], 0)) into dst.
// dst and src may alias. Panics if lengths differ.
func SqrtNonNegative(dst, src []float64) {
	if len(dst) != len(src) {
		panic("core: SqrtNonNegative length mismatch")
	}
	for i, v := range src {
		if v > 0 {
			dst[i] = math.Sqrt(v)
		} else {
			dst[i] = 0
		}
	}
}

// SquareInPlace squares every element of buf.
func SquareInPlace(buf []float64) {
	for i, v := range buf {
		buf[i] = v * v
	}
}

package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Clone returns a copy of src. A nil src yields an empty, non-nil slice.
func Clone(src []float64) []float64 {
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

// ClipRegion clamps the inclusive channel range [first, last] to [0, n-1].
// ok is false when the clamped range is empty.
func ClipRegion(first, last, n int) (lo, hi int, ok bool) {
	lo = max(first, 0)
	hi = min(last, n-1)
	return lo, hi, lo <= hi
}

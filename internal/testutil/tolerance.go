package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireNonNegative fails t if any element is negative or NaN.
func RequireNonNegative(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if !(v >= 0) {
			t.Fatalf("index %d: value %v is negative", i, v)
		}
	}
}

// RequireAtMost fails t unless got[i] <= limit[i] + eps for every index.
func RequireAtMost(t *testing.T, got, limit []float64, eps float64) {
	t.Helper()
	if len(got) != len(limit) {
		t.Fatalf("length mismatch: got %d, limit %d", len(got), len(limit))
	}
	for i := range got {
		if got[i] > limit[i]+eps {
			t.Fatalf("index %d: %v exceeds %v (eps %v)", i, got[i], limit[i], eps)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}

// MaxRelDiff returns the maximum of |a-b|/max(|b|, floor) over the slices.
func MaxRelDiff(a, b []float64, floor float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		d := math.Abs(a[i]-b[i]) / math.Max(math.Abs(b[i]), floor)
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}

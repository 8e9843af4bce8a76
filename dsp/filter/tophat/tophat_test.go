package tophat

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-xrf/internal/testutil"
)

func TestWidth(t *testing.T) {
	tests := []struct {
		width, want int
	}{
		{width: -2, want: 3},
		{width: 0, want: 3},
		{width: 1, want: 3},
		{width: 3, want: 3},
		{width: 4, want: 5},
		{width: 9, want: 9},
	}

	for _, tt := range tests {
		if got := Width(tt.width); got != tt.want {
			t.Errorf("Width(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestKernelGeometry(t *testing.T) {
	k := Kernel(5)
	if len(k) != 13 {
		t.Fatalf("len(Kernel(5)) = %d, want 13", len(k))
	}

	want := []float64{
		-0.125, -0.125, -0.125, -0.125,
		0.2, 0.2, 0.2, 0.2, 0.2,
		-0.125, -0.125, -0.125, -0.125,
	}
	testutil.RequireSliceNearlyEqual(t, k, want, 1e-15)
}

func TestKernelSumsToZero(t *testing.T) {
	for _, w := range []int{1, 3, 4, 7, 13, 21} {
		sum := 0.0
		for _, v := range Kernel(w) {
			sum += v
		}
		if math.Abs(sum) > 1e-12 {
			t.Errorf("width %d: kernel sum = %v, want 0", w, sum)
		}
	}
}

func TestVarianceKernelIsSquare(t *testing.T) {
	k := Kernel(7)
	v := VarianceKernel(7)
	for i := range k {
		if v[i] != k[i]*k[i] {
			t.Fatalf("VarianceKernel[%d] = %v, want %v", i, v[i], k[i]*k[i])
		}
	}
}

func TestApplyZeros(t *testing.T) {
	in := make([]float64, 64)

	filtered := Apply(in, 0, len(in)-1, 5, ModeFilter)
	testutil.RequireSliceNearlyEqual(t, filtered, in, 0)

	weights := Apply(in, 0, len(in)-1, 5, ModeWeight)
	for i, w := range weights {
		if w != 1 {
			t.Fatalf("weight[%d] = %v, want 1", i, w)
		}
	}
}

func TestApplyFlatIsZero(t *testing.T) {
	in := testutil.Flat(100, 50)
	got := Apply(in, 0, len(in)-1, 7, ModeFilter)
	testutil.RequireSliceNearlyEqual(t, got, make([]float64, len(in)), 1e-9)
}

func TestApplyLinearInteriorIsZero(t *testing.T) {
	n := 80
	in := make([]float64, n)
	for i := range in {
		in[i] = 3*float64(i) + 20
	}

	got := Apply(in, 0, n-1, 5, ModeFilter)
	reach := len(Kernel(5)) / 2
	for i := reach; i < n-reach; i++ {
		if math.Abs(got[i]) > 1e-9 {
			t.Fatalf("channel %d: filtered ramp = %v, want 0", i, got[i])
		}
	}
}

func TestApplyRegion(t *testing.T) {
	in := testutil.GaussianPeak(100, 20, 50, 200, 2)
	got := Apply(in, 30, 70, 5, ModeFilter)
	for i, v := range got {
		if (i < 30 || i > 70) && v != 0 {
			t.Fatalf("channel %d outside region = %v, want 0", i, v)
		}
	}
	if got[50] <= 0 {
		t.Fatalf("peak response = %v, want > 0", got[50])
	}

	weights := Apply(in, 30, 70, 5, ModeWeight)
	if weights[29] != 0 || weights[71] != 0 {
		t.Fatalf("weights outside region not zero: %v %v", weights[29], weights[71])
	}

	empty := Apply(in, 80, 20, 5, ModeFilter)
	testutil.RequireSliceNearlyEqual(t, empty, make([]float64, len(in)), 0)
}

func TestApplyEdgesClampIndices(t *testing.T) {
	in := testutil.Flat(7, 10)
	got := Apply(in, 0, len(in)-1, 9, ModeFilter)
	testutil.RequireSliceNearlyEqual(t, got, make([]float64, len(in)), 1e-12)
}

func TestApplyWeightIsInverseVariance(t *testing.T) {
	in := testutil.Flat(400, 60)
	got := Apply(in, 0, len(in)-1, 5, ModeWeight)
	// var = 5*400/25 + 8*400/64
	want := 1 / (80.0 + 50.0)
	for i, w := range got {
		if math.Abs(w-want) > 1e-15 {
			t.Fatalf("weight[%d] = %v, want %v", i, w, want)
		}
	}
}

func TestNonZeroModeSelectsWeights(t *testing.T) {
	in := testutil.SyntheticXRF(1, 128)
	a := Apply(in, 0, len(in)-1, 5, ModeWeight)
	b := Apply(in, 0, len(in)-1, 5, Mode(7))
	testutil.RequireSliceNearlyEqual(t, b, a, 0)
}

func TestApplyFastMatchesApplyOnQuadratic(t *testing.T) {
	n := 120
	in := make([]float64, n)
	for i := range in {
		x := float64(i - 60)
		in[i] = 0.01*x*x + 10
	}

	slow := Apply(in, 0, n-1, 5, ModeFilter)
	fast, err := ApplyFast(in, 5, ModeFilter)
	if err != nil {
		t.Fatalf("ApplyFast() error = %v", err)
	}
	if len(fast) != n {
		t.Fatalf("len = %d, want %d", len(fast), n)
	}

	reach := len(Kernel(5))/2 + 2
	for i := reach; i < n-reach; i++ {
		if math.Abs(fast[i]-slow[i]) > 1e-8 {
			t.Fatalf("channel %d: fast=%v slow=%v", i, fast[i], slow[i])
		}
	}
}

func TestApplyFastWeights(t *testing.T) {
	in := make([]float64, 40)
	got, err := ApplyFast(in, 3, ModeWeight)
	if err != nil {
		t.Fatalf("ApplyFast() error = %v", err)
	}
	for i, w := range got {
		if w != 1 {
			t.Fatalf("weight[%d] = %v, want 1", i, w)
		}
	}

	counts := testutil.SyntheticXRF(2, 256)
	got, err = ApplyFast(counts, 7, ModeWeight)
	if err != nil {
		t.Fatalf("ApplyFast() error = %v", err)
	}
	for i, w := range got {
		if w <= 0 || w > 1 {
			t.Fatalf("weight[%d] = %v, want in (0, 1]", i, w)
		}
	}
}

func TestApplyFastEmpty(t *testing.T) {
	if _, err := ApplyFast(nil, 5, ModeFilter); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("error = %v, want ErrEmptyInput", err)
	}
}

func TestApplyFastShortInput(t *testing.T) {
	got, err := ApplyFast([]float64{4, 9}, 11, ModeFilter)
	if err != nil {
		t.Fatalf("ApplyFast() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	testutil.RequireFinite(t, got)
}

func BenchmarkApply(b *testing.B) {
	in := testutil.SyntheticXRF(1, 2048)
	dst := make([]float64, len(in))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ApplyTo(dst, in, 0, len(in)-1, 9, ModeFilter)
	}
}

func BenchmarkApplyFast(b *testing.B) {
	in := testutil.SyntheticXRF(1, 2048)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ApplyFast(in, 9, ModeFilter); err != nil {
			b.Fatal(err)
		}
	}
}

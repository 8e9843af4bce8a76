package conv

import (
	"errors"
	"math"
	"testing"
)

func TestDirect(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected []float64
	}{
		{
			name:     "simple 3x3",
			a:        []float64{1, 2, 3},
			b:        []float64{1, 1, 1},
			expected: []float64{1, 3, 6, 5, 3},
		},
		{
			name:     "impulse",
			a:        []float64{1, 2, 3, 4, 5},
			b:        []float64{1},
			expected: []float64{1, 2, 3, 4, 5},
		},
		{
			name:     "delayed impulse",
			a:        []float64{1, 2, 3, 4, 5},
			b:        []float64{0, 0, 1},
			expected: []float64{0, 0, 1, 2, 3, 4, 5},
		},
		{
			name:     "symmetric",
			a:        []float64{1, 2, 1},
			b:        []float64{1, 2, 1},
			expected: []float64{1, 4, 6, 4, 1},
		},
		{
			name:     "straddle kernel uses simd path",
			a:        []float64{1, 2, 3, 4, 5},
			b:        []float64{1, 0, 0, 0, 1},
			expected: []float64{1, 2, 3, 4, 6, 2, 3, 4, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Direct(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(result) != len(tt.expected) {
				t.Fatalf("length mismatch: got %d, expected %d", len(result), len(tt.expected))
			}

			for i := range result {
				if math.Abs(result[i]-tt.expected[i]) > 1e-10 {
					t.Errorf("result[%d] = %v, expected %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestDirectErrors(t *testing.T) {
	_, err := Direct([]float64{}, []float64{1, 2})
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}

	_, err = Direct([]float64{1, 2}, []float64{})
	if !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("expected ErrEmptyKernel, got %v", err)
	}
}

func TestOverlapAddConvolve(t *testing.T) {
	signal := make([]float64, 1000)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * float64(i) / 100)
	}

	kernel := []float64{0.25, 0.5, 0.25}

	directResult, err := Direct(signal, kernel)
	if err != nil {
		t.Fatalf("direct convolution failed: %v", err)
	}

	oaResult, err := OverlapAddConvolve(signal, kernel)
	if err != nil {
		t.Fatalf("overlap-add convolution failed: %v", err)
	}

	if len(directResult) != len(oaResult) {
		t.Fatalf("length mismatch: direct=%d, oa=%d", len(directResult), len(oaResult))
	}

	for i := range directResult {
		if math.Abs(directResult[i]-oaResult[i]) > 1e-10 {
			t.Errorf("mismatch at index %d: direct=%v, oa=%v", i, directResult[i], oaResult[i])
		}
	}
}

func TestConvolveAutoSelection(t *testing.T) {
	signal := make([]float64, 1000)
	for i := range signal {
		signal[i] = float64(i % 10)
	}

	shortKernel := []float64{1, 2, 1}

	result1, err := Convolve(signal, shortKernel)
	if err != nil {
		t.Fatalf("convolution failed: %v", err)
	}

	directResult, _ := Direct(signal, shortKernel)

	for i := range result1 {
		if math.Abs(result1[i]-directResult[i]) > 1e-10 {
			t.Errorf("short kernel mismatch at %d", i)
			break
		}
	}

	longKernel := make([]float64, 100)
	for i := range longKernel {
		longKernel[i] = math.Exp(-float64(i) / 20)
	}

	result2, err := Convolve(signal, longKernel)
	if err != nil {
		t.Fatalf("convolution failed: %v", err)
	}

	directResult2, _ := Direct(signal, longKernel)

	maxDiff := 0.0
	for i := range result2 {
		diff := math.Abs(result2[i] - directResult2[i])
		if diff > maxDiff {
			maxDiff = diff
		}
	}

	if maxDiff > 1e-8 {
		t.Errorf("long kernel max difference %v exceeds tolerance", maxDiff)
	}
}

func TestConvolveSelf(t *testing.T) {
	// Self-convolution of a long spectrum-like ramp goes through overlap-add.
	rate := make([]float64, 300)
	for i := range rate {
		rate[i] = 1 + float64(i%7)
	}

	got, err := Convolve(rate, rate)
	if err != nil {
		t.Fatalf("Convolve failed: %v", err)
	}

	for _, i := range []int{0, 1, 99, 298, 450} {
		want := 0.0
		for k := 0; k <= i; k++ {
			if k < len(rate) && i-k < len(rate) {
				want += rate[k] * rate[i-k]
			}
		}
		if math.Abs(got[i]-want) > 1e-7*math.Max(1, want) {
			t.Errorf("self-convolution[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestConvolveMode(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{1, 2, 3}

	full, _ := ConvolveMode(a, b, ModeFull)
	if len(full) != len(a)+len(b)-1 {
		t.Errorf("full mode length: got %d, expected %d", len(full), len(a)+len(b)-1)
	}

	same, _ := ConvolveMode(a, b, ModeSame)
	if len(same) != len(a) {
		t.Errorf("same mode length: got %d, expected %d", len(same), len(a))
	}

	valid, _ := ConvolveMode(a, b, ModeValid)
	if len(valid) != len(a)-len(b)+1 {
		t.Errorf("valid mode length: got %d, expected %d", len(valid), len(a)-len(b)+1)
	}
}

func TestConvolveModeSameCentersSymmetricKernel(t *testing.T) {
	// A symmetric two-tap kernel of half-width 2 sums x[i-2] + x[i+2],
	// treating samples outside the array as zero.
	x := []float64{1, 2, 3, 4, 5, 6, 7}
	kernel := []float64{1, 0, 0, 0, 1}

	same, err := ConvolveMode(x, kernel, ModeSame)
	if err != nil {
		t.Fatalf("ConvolveMode failed: %v", err)
	}

	want := []float64{3, 4, 6, 8, 10, 4, 5}
	for i := range want {
		if math.Abs(same[i]-want[i]) > 1e-12 {
			t.Errorf("same[%d] = %v, want %v", i, same[i], want[i])
		}
	}
}

func TestOverlapAddReuse(t *testing.T) {
	kernel := []float64{0.25, 0.5, 0.25}

	signal := make([]float64, 100)
	for i := range signal {
		signal[i] = float64(i % 10)
	}

	oa, err := NewOverlapAdd(kernel, 32)
	if err != nil {
		t.Fatalf("failed to create overlap-add: %v", err)
	}
	if oa.KernelLen() != len(kernel) {
		t.Fatalf("KernelLen = %d, want %d", oa.KernelLen(), len(kernel))
	}

	want, _ := Direct(signal, kernel)
	for run := range 2 {
		got, err := oa.Process(signal)
		if err != nil {
			t.Fatalf("Process failed: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("run %d: length %d, want %d", run, len(got), len(want))
		}
		for i := range want {
			if math.Abs(got[i]-want[i]) > 1e-10 {
				t.Errorf("run %d: mismatch at %d: got %v, want %v", run, i, got[i], want[i])
			}
		}
	}

	if _, err := oa.Process(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestSelfConvolve(t *testing.T) {
	for _, n := range []int{1, 5, 64, 65, 300} {
		x := make([]float64, n)
		for i := range x {
			x[i] = float64((i*7)%13) + 1
		}

		want, _ := Direct(x, x)
		got, err := SelfConvolve(x)
		if err != nil {
			t.Fatalf("n=%d: SelfConvolve failed: %v", n, err)
		}
		if len(got) != 2*n-1 {
			t.Fatalf("n=%d: length %d, want %d", n, len(got), 2*n-1)
		}
		for i := range want {
			if math.Abs(got[i]-want[i]) > 1e-9*math.Max(1, math.Abs(want[i])) {
				t.Errorf("n=%d: mismatch at %d: got %v, want %v", n, i, got[i], want[i])
			}
		}
	}

	if _, err := SelfConvolve(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestNewOverlapAddEmptyKernel(t *testing.T) {
	if _, err := NewOverlapAdd(nil, 0); !errors.Is(err, ErrEmptyKernel) {
		t.Fatalf("expected ErrEmptyKernel, got %v", err)
	}
}

func TestConvolveCommutative(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 5}

	ab, _ := Convolve(a, b)
	ba, _ := Convolve(b, a)

	if len(ab) != len(ba) {
		t.Fatalf("lengths differ: %d vs %d", len(ab), len(ba))
	}

	for i := range ab {
		if math.Abs(ab[i]-ba[i]) > 1e-10 {
			t.Errorf("convolution not commutative at %d: %v vs %v", i, ab[i], ba[i])
		}
	}
}

func TestNextPowerOf2(t *testing.T) {
	for _, tc := range []struct{ in, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {4096, 4096}, {4097, 8192},
	} {
		if got := nextPowerOf2(tc.in); got != tc.want {
			t.Errorf("nextPowerOf2(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

package tophat

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-xrf/internal/testutil"
)

func TestFindPeaksSingle(t *testing.T) {
	in := testutil.GaussianPeak(200, 50, 100, 500, 2)
	peaks := FindPeaks(in, 5, 3)
	if len(peaks) != 1 {
		t.Fatalf("found %d peaks, want 1: %+v", len(peaks), peaks)
	}

	p := peaks[0]
	if p.Channel != 100 {
		t.Fatalf("Channel = %d, want 100", p.Channel)
	}
	if math.Abs(p.Position-100) > 0.01 {
		t.Fatalf("Position = %v, want ~100", p.Position)
	}
	if p.Significance <= 3 || p.Height <= 0 {
		t.Fatalf("peak = %+v, want significant positive height", p)
	}
}

func TestFindPeaksTwo(t *testing.T) {
	in := testutil.GaussianPeak(200, 50, 60, 400, 2)
	testutil.AddGaussian(in, 140, 300, 2)

	peaks := FindPeaks(in, 5, 0)
	if len(peaks) != 2 {
		t.Fatalf("found %d peaks, want 2: %+v", len(peaks), peaks)
	}
	if peaks[0].Channel != 60 || peaks[1].Channel != 140 {
		t.Fatalf("channels = %d, %d, want 60, 140", peaks[0].Channel, peaks[1].Channel)
	}
}

func TestFindPeaksFlat(t *testing.T) {
	if peaks := FindPeaks(testutil.Flat(1000, 256), 7, 3); len(peaks) != 0 {
		t.Fatalf("found %d peaks in flat spectrum, want 0", len(peaks))
	}
	if peaks := FindPeaks([]float64{1, 2}, 3, 3); peaks != nil {
		t.Fatalf("short input returned %v, want nil", peaks)
	}
}

func TestFindPeaksSensitivity(t *testing.T) {
	in := testutil.GaussianPeak(200, 50, 100, 500, 2)
	if peaks := FindPeaks(in, 5, 1e6); len(peaks) != 0 {
		t.Fatalf("found %d peaks above huge threshold, want 0", len(peaks))
	}
}

func TestVertexOffset(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
		want    float64
	}{
		{name: "symmetric", a: 1, b: 2, c: 1, want: 0},
		{name: "flat", a: 2, b: 2, c: 2, want: 0},
		{name: "right", a: 0, b: 3, c: 2, want: 0.5 * (0 - 2) / (0 - 6 + 2)},
		{name: "clamped", a: 0, b: 1, c: 1, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vertexOffset(tt.a, tt.b, tt.c); math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("vertexOffset(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.c, got, tt.want)
			}
		})
	}
}

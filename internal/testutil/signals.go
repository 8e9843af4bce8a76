package testutil

import (
	"math"
	"math/rand"
)

// Flat returns n channels of the constant value.
func Flat(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// Spike returns a flat baseline with a single channel set to height.
func Spike(n int, baseline float64, pos int, height float64) []float64 {
	out := Flat(baseline, n)
	if pos >= 0 && pos < n {
		out[pos] = height
	}
	return out
}

// GaussianPeak returns a flat baseline plus a Gaussian peak of the given
// amplitude and standard deviation (in channels) centred on center.
func GaussianPeak(n int, baseline, center, amplitude, sigma float64) []float64 {
	out := Flat(baseline, n)
	AddGaussian(out, center, amplitude, sigma)
	return out
}

// AddGaussian adds a Gaussian peak to buf in place.
func AddGaussian(buf []float64, center, amplitude, sigma float64) {
	for i := range buf {
		d := (float64(i) - center) / sigma
		buf[i] += amplitude * math.Exp(-0.5*d*d)
	}
}

// LinearEnergy returns n energies offset + slope*i.
func LinearEnergy(offset, slope float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = offset + slope*float64(i)
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// SyntheticXRF builds an n-channel spectrum with an exponentially decaying
// continuum, a few Gaussian lines and seeded noise. Values are non-negative.
func SyntheticXRF(seed int64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		x := float64(i) / float64(n)
		out[i] = 200*math.Exp(-3*x) + 20
	}
	lines := []struct{ center, amp, sigma float64 }{
		{0.12, 900, 4}, {0.31, 2500, 5}, {0.34, 400, 5}, {0.55, 1200, 6}, {0.8, 300, 7},
	}
	for _, l := range lines {
		AddGaussian(out, l.center*float64(n), l.amp, l.sigma*float64(n)/1024)
	}
	noise := DeterministicNoise(seed, 1, n)
	for i := range out {
		out[i] += noise[i] * math.Sqrt(out[i])
		if out[i] < 0 {
			out[i] = 0
		}
	}
	return out
}

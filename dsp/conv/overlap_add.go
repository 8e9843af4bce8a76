package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// minBlockSize is the smallest input block used by overlap-add.
const minBlockSize = 256

// fftScratch is a complex FFT plan with a padded work buffer.
type fftScratch struct {
	plan *algofft.Plan[complex128]
	buf  []complex128
}

func newFFTScratch(size int) (*fftScratch, error) {
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan of size %d: %w", size, err)
	}
	return &fftScratch{plan: plan, buf: make([]complex128, size)}, nil
}

// load zero-pads src into the work buffer and transforms it in place.
func (s *fftScratch) load(src []float64) error {
	clear(s.buf)
	for i, v := range src {
		s.buf[i] = complex(v, 0)
	}
	if err := s.plan.Forward(s.buf, s.buf); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}
	return nil
}

// inverse transforms the work buffer back in place.
func (s *fftScratch) inverse() error {
	if err := s.plan.Inverse(s.buf, s.buf); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}
	return nil
}

// OverlapAdd is an FFT convolver for a fixed kernel. The input is cut into
// blocks, each block is multiplied with the kernel spectrum and the block
// results, which overlap by len(kernel)-1 samples, are summed.
//
// An OverlapAdd holds scratch buffers and is not safe for concurrent use.
type OverlapAdd struct {
	kernelLen int
	blockSize int
	spectrum  []complex128
	scratch   *fftScratch
}

// NewOverlapAdd returns a convolver for kernel. A blockSize of 0 or less
// selects max(256, next power of two of len(kernel)).
func NewOverlapAdd(kernel []float64, blockSize int) (*OverlapAdd, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if blockSize <= 0 {
		blockSize = max(nextPowerOf2(len(kernel)), minBlockSize)
	}

	scratch, err := newFFTScratch(nextPowerOf2(blockSize + len(kernel) - 1))
	if err != nil {
		return nil, err
	}
	if err := scratch.load(kernel); err != nil {
		return nil, err
	}

	return &OverlapAdd{
		kernelLen: len(kernel),
		blockSize: blockSize,
		spectrum:  append([]complex128(nil), scratch.buf...),
		scratch:   scratch,
	}, nil
}

// KernelLen returns the kernel length.
func (oa *OverlapAdd) KernelLen() int { return oa.kernelLen }

// Process returns the full linear convolution of input with the kernel,
// of length len(input)+KernelLen()-1.
func (oa *OverlapAdd) Process(input []float64) ([]float64, error) {
	if len(input) == 0 {
		return nil, ErrEmptyInput
	}

	out := make([]float64, len(input)+oa.kernelLen-1)
	for start := 0; start < len(input); start += oa.blockSize {
		block := input[start:min(start+oa.blockSize, len(input))]
		if err := oa.scratch.load(block); err != nil {
			return nil, err
		}
		for i, k := range oa.spectrum {
			oa.scratch.buf[i] *= k
		}
		if err := oa.scratch.inverse(); err != nil {
			return nil, err
		}
		tail := out[start:min(start+len(block)+oa.kernelLen-1, len(out))]
		for i := range tail {
			tail[i] += real(oa.scratch.buf[i])
		}
	}
	return out, nil
}

// OverlapAddConvolve convolves signal with kernel using a temporary
// OverlapAdd.
func OverlapAddConvolve(signal, kernel []float64) ([]float64, error) {
	oa, err := NewOverlapAdd(kernel, 0)
	if err != nil {
		return nil, err
	}
	return oa.Process(signal)
}

// SelfConvolve returns the linear convolution of x with itself, of length
// 2*len(x)-1. Inputs longer than 64 samples are squared in the frequency
// domain with a single transform pair.
func SelfConvolve(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if len(x) <= directThreshold {
		return Direct(x, x)
	}

	n := 2*len(x) - 1
	scratch, err := newFFTScratch(nextPowerOf2(n))
	if err != nil {
		return nil, err
	}
	if err := scratch.load(x); err != nil {
		return nil, err
	}
	for i, v := range scratch.buf {
		scratch.buf[i] = v * v
	}
	if err := scratch.inverse(); err != nil {
		return nil, err
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = real(scratch.buf[i])
	}
	return out, nil
}

package tophat

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-xrf/dsp/conv"
	"github.com/cwbudde/algo-xrf/dsp/core"
	"github.com/cwbudde/algo-xrf/dsp/filter/savgol"
)

// MinWidth is the narrowest central lobe; narrower widths are widened to it.
const MinWidth = 3

// ErrEmptyInput is returned by ApplyFast for an empty spectrum.
var ErrEmptyInput = errors.New("tophat: empty input")

// Mode selects the filter output.
type Mode int

const (
	// ModeFilter returns the filtered spectrum.
	ModeFilter Mode = iota
	// ModeWeight returns 1/max(variance, 1) per channel. Any non-zero Mode
	// selects weights.
	ModeWeight
)

func (m Mode) weights() bool { return m != ModeFilter }

// geometry describes the three lobes for a given width.
type geometry struct {
	width     int     // central lobe width (odd)
	half      int     // central lobe half width
	negFirst  int     // first offset of the negative lobes
	negLast   int     // last offset of the negative lobes
	posWeight float64 // 1/width
	negWeight float64 // per-channel negative weight
}

func newGeometry(width int) geometry {
	w := max(core.OddWidth(width), MinWidth)
	half := (w - 1) / 2
	v := 2 * half
	return geometry{
		width:     w,
		half:      half,
		negFirst:  half + 1,
		negLast:   half + v,
		posWeight: 1 / float64(w),
		negWeight: -1 / float64(2*v),
	}
}

// Width returns the effective (odd, at least MinWidth) central lobe width.
func Width(width int) int {
	return newGeometry(width).width
}

// Kernel returns the tri-lobe filter kernel for the given width. The kernel
// has length 2*negLast+1 and sums to zero.
func Kernel(width int) []float64 {
	g := newGeometry(width)
	k := make([]float64, 2*g.negLast+1)
	c := g.negLast
	for x := -g.half; x <= g.half; x++ {
		k[c+x] = g.posWeight
	}
	for x := g.negFirst; x <= g.negLast; x++ {
		k[c-x] = g.negWeight
		k[c+x] = g.negWeight
	}
	return k
}

// VarianceKernel returns the element-wise square of Kernel(width), which
// propagates Poisson variance through the filter.
func VarianceKernel(width int) []float64 {
	k := Kernel(width)
	for i, v := range k {
		k[i] = v * v
	}
	return k
}

// Apply filters in over the inclusive region [first, last] using direct
// windowed sums. Channels outside the region are zero. Window indices are
// clamped to [0, len(in)-1].
func Apply(in []float64, first, last, width int, mode Mode) []float64 {
	out := make([]float64, len(in))
	ApplyTo(out, in, first, last, width, mode)
	return out
}

// ApplyTo is like Apply but writes into dst, which must have len(in) channels.
func ApplyTo(dst, in []float64, first, last, width int, mode Mode) {
	core.Zero(dst)

	n := len(in)
	lo, hi, ok := core.ClipRegion(first, last, n)
	if !ok {
		return
	}

	g := newGeometry(width)
	at := func(i int) float64 {
		return in[min(max(i, 0), n-1)]
	}

	for ch := lo; ch <= hi; ch++ {
		var pos, neg float64
		for x := -g.half; x <= g.half; x++ {
			pos += at(ch + x)
		}
		for x := g.negFirst; x <= g.negLast; x++ {
			neg += at(ch-x) + at(ch+x)
		}

		if !mode.weights() {
			dst[ch] = g.posWeight*pos + g.negWeight*neg
			continue
		}
		variance := g.posWeight*g.posWeight*pos + g.negWeight*g.negWeight*neg
		dst[ch] = 1 / max(variance, 1)
	}
}

// ApplyFast filters the whole spectrum by convolving a quadratic
// Savitzky–Golay smoothed copy (window = width) with Kernel(width). Samples
// beyond the array ends count as zero. In ModeWeight the convolved variance
// is clamped to at least 1 before inverting.
func ApplyFast(in []float64, width int, mode Mode) ([]float64, error) {
	if len(in) == 0 {
		return nil, ErrEmptyInput
	}

	w := Width(width)
	smoothed, err := savgol.Filter(in, w, 2)
	if err != nil {
		return nil, fmt.Errorf("tophat: %w", err)
	}

	kernel := Kernel(w)
	if mode.weights() {
		kernel = VarianceKernel(w)
	}

	out, err := conv.ConvolveMode(smoothed, kernel, conv.ModeSame)
	if err != nil {
		return nil, fmt.Errorf("tophat: %w", err)
	}

	if mode.weights() {
		for i, v := range out {
			out[i] = 1 / max(v, 1)
		}
	}
	return out, nil
}

package spectrum

import (
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-xrf/dsp/core"
)

// Spectrum is a fixed-length multichannel analyser spectrum.
type Spectrum struct {
	// Channels holds the counts per detector channel.
	Channels []float64
	// Energy holds the strictly increasing energy of every channel.
	Energy []float64
	// Calibration is the linear channel-to-energy mapping. It is zero when
	// the spectrum was built from an explicit energy axis.
	Calibration Calibration

	LiveTimeMS  float64
	RealTimeMS  float64
	ShapingTime float64
}

// Option sets acquisition metadata on a new Spectrum.
type Option func(*Spectrum)

// WithLiveTime sets the live time in milliseconds.
func WithLiveTime(ms float64) Option {
	return func(s *Spectrum) { s.LiveTimeMS = ms }
}

// WithRealTime sets the real time in milliseconds.
func WithRealTime(ms float64) Option {
	return func(s *Spectrum) { s.RealTimeMS = ms }
}

// WithShapingTime sets the amplifier shaping time.
func WithShapingTime(t float64) Option {
	return func(s *Spectrum) { s.ShapingTime = t }
}

// New returns a validated spectrum whose energy axis is derived from cal.
// The channels are copied.
func New(channels []float64, cal Calibration, opts ...Option) (*Spectrum, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	cal.Unit = cal.unit()

	s := &Spectrum{
		Channels:    core.Clone(channels),
		Energy:      cal.Axis(len(channels)),
		Calibration: cal,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// FromArrays returns a validated spectrum with an explicit energy axis. Both
// slices are copied.
func FromArrays(channels, energy []float64, opts ...Option) (*Spectrum, error) {
	s := &Spectrum{
		Channels: core.Clone(channels),
		Energy:   core.Clone(energy),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Len returns the number of channels.
func (s *Spectrum) Len() int { return len(s.Channels) }

// Validate checks the structural invariants: at least one channel, equal
// channel and energy lengths, finite values, a strictly increasing energy
// axis and non-negative, finite acquisition times. A zero live or shaping
// time means "unknown" and is accepted here; see ValidateTiming.
func (s *Spectrum) Validate() error {
	n := len(s.Channels)
	if n == 0 {
		return invalid(ErrEmpty, "%d channels", n)
	}
	if len(s.Energy) != n {
		return invalid(ErrLengthMismatch, "%d channels, %d energies", n, len(s.Energy))
	}
	for i, v := range s.Channels {
		if !finite(v) {
			return invalid(ErrNonFinite, "channel %d = %v", i, v)
		}
	}
	for i, e := range s.Energy {
		if !finite(e) {
			return invalid(ErrNonFinite, "energy %d = %v", i, e)
		}
		if i > 0 && e <= s.Energy[i-1] {
			return invalid(ErrNotMonotonic, "energy %d = %g after %g", i, e, s.Energy[i-1])
		}
	}
	if !finite(s.LiveTimeMS) || s.LiveTimeMS < 0 {
		return invalid(ErrInvalidLiveTime, "%v ms", s.LiveTimeMS)
	}
	if !finite(s.RealTimeMS) || s.RealTimeMS < 0 {
		return invalid(ErrInvalidRealTime, "%v ms", s.RealTimeMS)
	}
	if !finite(s.ShapingTime) || s.ShapingTime < 0 {
		return invalid(ErrInvalidShapingTime, "%v", s.ShapingTime)
	}
	return nil
}

// ValidateTiming reports an error unless both the live time and the shaping
// time are known (positive).
func (s *Spectrum) ValidateTiming() error {
	if !(s.LiveTimeMS > 0) || !finite(s.LiveTimeMS) {
		return invalid(ErrInvalidLiveTime, "%v ms", s.LiveTimeMS)
	}
	if !(s.ShapingTime > 0) || !finite(s.ShapingTime) {
		return invalid(ErrInvalidShapingTime, "%v", s.ShapingTime)
	}
	return nil
}

// FirstPositiveEnergy returns the index of the first channel with a positive
// energy, or -1 if there is none. Channels from that index onward form the
// positive-energy portion.
func (s *Spectrum) FirstPositiveEnergy() int {
	for i, e := range s.Energy {
		if e > 0 {
			return i
		}
	}
	return -1
}

// EnergyAt returns the energy of channel i.
func (s *Spectrum) EnergyAt(i int) float64 {
	return s.Energy[i]
}

// Clone returns a deep copy of s.
func (s *Spectrum) Clone() *Spectrum {
	c := *s
	c.Channels = slices.Clone(s.Channels)
	c.Energy = slices.Clone(s.Energy)
	return &c
}

// ClipNonNegative sets negative channel counts to zero.
func (s *Spectrum) ClipNonNegative() {
	core.ClipNonNegative(s.Channels)
}

// TotalCounts returns the sum of all channel counts.
func (s *Spectrum) TotalCounts() float64 {
	return floats.Sum(s.Channels)
}

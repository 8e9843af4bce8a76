package spectrum

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty indicates a spectrum without channels.
	ErrEmpty = errors.New("spectrum: no channels")
	// ErrLengthMismatch indicates that channels and energies differ in length.
	ErrLengthMismatch = errors.New("spectrum: channel and energy length mismatch")
	// ErrNotMonotonic indicates an energy axis that is not strictly increasing.
	ErrNotMonotonic = errors.New("spectrum: energy axis not strictly increasing")
	// ErrNonFinite indicates a NaN or infinite count or energy.
	ErrNonFinite = errors.New("spectrum: non-finite value")
	// ErrInvalidLiveTime indicates a missing, negative or non-finite live time.
	ErrInvalidLiveTime = errors.New("spectrum: invalid live time")
	// ErrInvalidRealTime indicates a negative or non-finite real time.
	ErrInvalidRealTime = errors.New("spectrum: invalid real time")
	// ErrInvalidShapingTime indicates a missing, negative or non-finite
	// amplifier shaping time.
	ErrInvalidShapingTime = errors.New("spectrum: invalid shaping time")
	// ErrInvalidCalibration indicates a zero, negative or non-finite slope.
	ErrInvalidCalibration = errors.New("spectrum: invalid calibration")
)

// ValidationError reports which invariant a spectrum violates. It wraps one
// of the package sentinel errors.
type ValidationError struct {
	Invariant error
	Detail    string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Invariant.Error()
	}
	return fmt.Sprintf("%v: %s", e.Invariant, e.Detail)
}

func (e *ValidationError) Unwrap() error { return e.Invariant }

func invalid(sentinel error, format string, args ...any) error {
	return &ValidationError{Invariant: sentinel, Detail: fmt.Sprintf(format, args...)}
}

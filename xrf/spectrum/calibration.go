package spectrum

import "math"

// DefaultUnit is the energy unit assumed when a calibration names none.
const DefaultUnit = "keV"

// Calibration maps channel indices linearly to energies:
// energy = Offset + Slope*channel.
type Calibration struct {
	Offset float64
	Slope  float64
	Unit   string
}

// Validate reports an error unless the slope is positive and both
// coefficients are finite.
func (c Calibration) Validate() error {
	if !finite(c.Offset) || !finite(c.Slope) || c.Slope <= 0 {
		return invalid(ErrInvalidCalibration, "offset %g, slope %g", c.Offset, c.Slope)
	}
	return nil
}

// EnergyAt returns the energy of channel i.
func (c Calibration) EnergyAt(i int) float64 {
	return c.Offset + c.Slope*float64(i)
}

// Channel returns the fractional channel of energy e.
func (c Calibration) Channel(e float64) float64 {
	return (e - c.Offset) / c.Slope
}

// Axis returns the energies of n channels.
func (c Calibration) Axis(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = c.EnergyAt(i)
	}
	return out
}

// unit returns Unit or DefaultUnit.
func (c Calibration) unit() string {
	if c.Unit == "" {
		return DefaultUnit
	}
	return c.Unit
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-xrf/xrf/spectrum"
)

// Header keys of the text spectrum format.
const (
	keyLiveTime    = "live_time_ms"
	keyRealTime    = "real_time_ms"
	keyShapingTime = "shaping_time"
	keyOffset      = "calibration_offset"
	keySlope       = "calibration_slope"
	keyUnit        = "unit"
)

var errNoCalibration = errors.New("single-column spectrum needs calibration_offset and calibration_slope")

// readSpectrumFile reads a text spectrum from path.
func readSpectrumFile(path string) (*spectrum.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := readSpectrum(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// readSpectrum parses "# key: value" header lines and one "energy counts"
// or "counts" record per line. Blank lines are skipped.
func readSpectrum(r io.Reader) (*spectrum.Spectrum, error) {
	header := map[string]string{}
	var energy, counts []float64
	columns := 0

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "#") {
			key, value, ok := strings.Cut(strings.TrimSpace(text[1:]), ":")
			if ok {
				header[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
			}
			continue
		}

		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ','
		})
		if columns == 0 {
			columns = len(fields)
		}
		if len(fields) != columns || columns > 2 {
			return nil, fmt.Errorf("line %d: expected %d columns, got %d", line, min(columns, 2), len(fields))
		}

		vals := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			vals[i] = v
		}
		if columns == 2 {
			energy = append(energy, vals[0])
			counts = append(counts, vals[1])
		} else {
			counts = append(counts, vals[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	var opts []spectrum.Option
	for key, opt := range map[string]func(float64) spectrum.Option{
		keyLiveTime:    spectrum.WithLiveTime,
		keyRealTime:    spectrum.WithRealTime,
		keyShapingTime: spectrum.WithShapingTime,
	} {
		if raw, ok := header[key]; ok {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("header %s: %w", key, err)
			}
			opts = append(opts, opt(v))
		}
	}

	cal, hasCal, err := headerCalibration(header)
	if err != nil {
		return nil, err
	}

	if columns == 2 {
		s, err := spectrum.FromArrays(counts, energy, opts...)
		if err != nil {
			return nil, err
		}
		if hasCal {
			s.Calibration = cal
		} else {
			s.Calibration = fitCalibration(s.Energy, header[keyUnit])
		}
		return s, nil
	}
	if !hasCal {
		return nil, errNoCalibration
	}
	return spectrum.New(counts, cal, opts...)
}

func headerCalibration(header map[string]string) (spectrum.Calibration, bool, error) {
	rawOffset, okOffset := header[keyOffset]
	rawSlope, okSlope := header[keySlope]
	if !okOffset || !okSlope {
		return spectrum.Calibration{}, false, nil
	}
	offset, err := strconv.ParseFloat(rawOffset, 64)
	if err != nil {
		return spectrum.Calibration{}, false, fmt.Errorf("header %s: %w", keyOffset, err)
	}
	slope, err := strconv.ParseFloat(rawSlope, 64)
	if err != nil {
		return spectrum.Calibration{}, false, fmt.Errorf("header %s: %w", keySlope, err)
	}
	return spectrum.Calibration{Offset: offset, Slope: slope, Unit: header[keyUnit]}, true, nil
}

// fitCalibration derives a linear calibration from the end points of an
// explicit energy axis.
func fitCalibration(energy []float64, unit string) spectrum.Calibration {
	if unit == "" {
		unit = spectrum.DefaultUnit
	}
	cal := spectrum.Calibration{Offset: energy[0], Unit: unit}
	if n := len(energy); n > 1 {
		cal.Slope = (energy[n-1] - energy[0]) / float64(n-1)
	}
	return cal
}

// writeSpectrum writes s in the format read by readSpectrum.
func writeSpectrum(w io.Writer, s *spectrum.Spectrum) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s: %s\n", keyLiveTime, formatFloat(s.LiveTimeMS))
	fmt.Fprintf(bw, "# %s: %s\n", keyRealTime, formatFloat(s.RealTimeMS))
	fmt.Fprintf(bw, "# %s: %s\n", keyShapingTime, formatFloat(s.ShapingTime))
	fmt.Fprintf(bw, "# %s: %s\n", keyOffset, formatFloat(s.Calibration.Offset))
	fmt.Fprintf(bw, "# %s: %s\n", keySlope, formatFloat(s.Calibration.Slope))
	if s.Calibration.Unit != "" {
		fmt.Fprintf(bw, "# %s: %s\n", keyUnit, s.Calibration.Unit)
	}
	for i, c := range s.Channels {
		fmt.Fprintf(bw, "%s %s\n", formatFloat(s.Energy[i]), formatFloat(c))
	}
	return bw.Flush()
}

func writeSpectrumFile(path string, s *spectrum.Spectrum) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeSpectrum(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

package main

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-xrf/xrf/spectrum"
)

var (
	rawColor        = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	backgroundColor = color.RGBA{R: 220, G: 50, B: 47, A: 255}
	correctedColor  = color.RGBA{R: 38, G: 139, B: 210, A: 255}
)

// plotCorrection saves a PNG with the raw spectrum, the removed background
// and the corrected spectrum against energy.
func plotCorrection(path, title string, raw, corrected *spectrum.Spectrum) error {
	if raw.Len() != corrected.Len() {
		return fmt.Errorf("%d raw channels, %d corrected", raw.Len(), corrected.Len())
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = fmt.Sprintf("Energy [%s]", raw.Calibration.Unit)
	p.Y.Label.Text = "Counts"

	n := raw.Len()
	rawPts := make(plotter.XYs, n)
	bgPts := make(plotter.XYs, n)
	corrPts := make(plotter.XYs, n)
	for i := range n {
		e := raw.Energy[i]
		rawPts[i] = plotter.XY{X: e, Y: raw.Channels[i]}
		bgPts[i] = plotter.XY{X: e, Y: raw.Channels[i] - corrected.Channels[i]}
		corrPts[i] = plotter.XY{X: e, Y: corrected.Channels[i]}
	}

	for _, series := range []struct {
		label string
		pts   plotter.XYs
		color color.Color
	}{
		{"raw", rawPts, rawColor},
		{"background", bgPts, backgroundColor},
		{"corrected", corrPts, correctedColor},
	} {
		line, err := plotter.NewLine(series.pts)
		if err != nil {
			return fmt.Errorf("%s line: %w", series.label, err)
		}
		line.Color = series.color
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(series.label, line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p.Save(14*vg.Inch, 6*vg.Inch, path)
}

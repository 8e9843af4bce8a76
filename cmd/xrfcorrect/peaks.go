package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-xrf/dsp/filter/tophat"
	"github.com/cwbudde/algo-xrf/xrf/spectrum"
)

func newPeaksCmd(a *app) *cobra.Command {
	var (
		width       int
		sensitivity float64
	)

	cmd := &cobra.Command{
		Use:   "peaks [flags] file ...",
		Short: "List peaks found with the top-hat filter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				s, err := readSpectrumFile(path)
				if err != nil {
					return err
				}
				peaks := tophat.FindPeaks(s.Channels, width, sensitivity)
				a.logger.WithField("file", path).Debugf("%d peaks", len(peaks))
				if len(args) > 1 {
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", path); err != nil {
						return err
					}
				}
				if err := printPeaks(cmd.OutOrStdout(), s, peaks); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 7, "top-hat width in channels, about the peak FWHM")
	cmd.Flags().Float64Var(&sensitivity, "sensitivity", tophat.DefaultSensitivity,
		"minimum peak height in standard deviations")
	return cmd
}

func printPeaks(w io.Writer, s *spectrum.Spectrum, peaks []tophat.Peak) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Channel\tEnergy [%s]\tHeight\tSignificance\n", s.Calibration.Unit); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "-------\t------\t------\t------------\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range peaks {
		energy := s.Calibration.Offset + s.Calibration.Slope*p.Position
		if _, err := fmt.Fprintf(tw, "%d\t%.4f\t%.1f\t%.1f\n",
			p.Channel, energy, p.Height, p.Significance); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return tw.Flush()
}

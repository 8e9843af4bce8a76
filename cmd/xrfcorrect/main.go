// Command xrfcorrect removes pile-up and continuum background from XRF
// spectra and locates peaks.
//
// Usage:
//
//	xrfcorrect correct [flags] <file|dir> ...
//	xrfcorrect peaks [flags] <file>
//	xrfcorrect version
//
// Spectra are plain text: optional "# key: value" header lines followed by
// one "energy counts" pair (or a bare count with a calibration header) per
// channel.
//
// Examples:
//
//	xrfcorrect correct --out corrected --plot scans/
//	xrfcorrect correct --variant reference --fwhm 9 --capillary=false a.txt
//	xrfcorrect peaks --width 9 --sensitivity 4 a.txt
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

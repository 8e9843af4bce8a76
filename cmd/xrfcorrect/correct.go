package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-xrf/dsp/snip"
	"github.com/cwbudde/algo-xrf/xrf/batch"
	"github.com/cwbudde/algo-xrf/xrf/correct"
	"github.com/cwbudde/algo-xrf/xrf/spectrum"
)

// correctedSuffix is inserted before the extension of corrected files.
const correctedSuffix = ".corrected"

// summaryName is the base name of the summary written into --out.
const summaryName = "xrfcorrect-summary"

func newCorrectCmd(a *app) *cobra.Command {
	var ext string

	cmd := &cobra.Command{
		Use:   "correct [flags] file|dir ...",
		Short: "Remove pile-up and background from spectra",
		Long: `correct runs the correction pipeline (pile-up, scaled SNIP, polycapillary
background) over every spectrum file given. Directories are read
non-recursively for files with the --ext extension. Each corrected spectrum
is written next to its input, or into --out, as <name>.corrected<ext>.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCorrect(cmd, args, ext)
		},
	}

	f := cmd.Flags()
	f.String("variant", snip.VariantFastConvolution.String(), "SNIP variant (reference, fast)")
	f.Int("fwhm", correct.DefaultFWHM, "SNIP clipping width in channels")
	f.Int("reductions", correct.DefaultReductions, "SNIP window reduction steps")
	f.Int("iterations", correct.DefaultIterations, "SNIP iterations")
	f.Bool("pileup", true, "apply pile-up correction (needs live and shaping time)")
	f.Bool("capillary", true, "remove the polycapillary background")
	f.Int("points", 40, "polycapillary knot count")
	f.Int("margin", 50, "channels skipped at both ends by the polycapillary remover")
	f.Int("warmup", 100, "channels without pile-up correction")
	f.Int("concurrency", 0, "spectra processed at once (0 = one per CPU)")
	f.String("format", "csv", "summary format (csv, yaml)")
	f.String("out", "", "output directory (default next to each input)")
	f.Bool("plot", false, "write a PNG plot per spectrum")
	f.StringVar(&ext, "ext", ".txt", "spectrum file extension used when reading directories")

	return cmd
}

func (a *app) runCorrect(cmd *cobra.Command, args []string, ext string) error {
	paths, err := collectFiles(args, ext)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s files found", ext)
	}

	items := make([]batch.Item, len(paths))
	raw := make(map[string]*spectrum.Spectrum, len(paths))
	for i, p := range paths {
		s, err := readSpectrumFile(p)
		if err != nil {
			return err
		}
		items[i] = batch.Item{Name: p, Spectrum: s}
		raw[p] = s.Clone()
	}

	pipe, err := a.cfg.BuildPipeline()
	if err != nil {
		return err
	}
	opts := []batch.DriverOption{batch.WithLogger(a.logger)}
	if n := a.cfg.Batch.Concurrency; n > 0 {
		opts = append(opts, batch.WithConcurrency(n))
	}
	driver, err := batch.NewDriver(pipe, nil, opts...)
	if err != nil {
		return err
	}

	res, err := driver.Run(cmd.Context(), items, nil)
	if err != nil {
		return err
	}

	outDir := a.cfg.Output.Dir
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
	}

	sum := summary{RunID: res.RunID, Stages: pipe.Stages()}
	if len(res.Lines) > 0 {
		sum.ROI, sum.Model = res.ROI, res.Model
	}
	for _, it := range items {
		out := outputPath(outDir, it.Name, correctedSuffix)
		if err := writeSpectrumFile(out, it.Spectrum); err != nil {
			return err
		}
		entry := a.logger.WithFields(log.Fields{"file": it.Name, "output": out})
		entry.Debug("corrected spectrum written")

		if a.cfg.Output.Plot {
			png := strings.TrimSuffix(out, filepath.Ext(out)) + ".png"
			if err := plotCorrection(png, filepath.Base(it.Name), raw[it.Name], it.Spectrum); err != nil {
				return fmt.Errorf("plot %s: %w", it.Name, err)
			}
			entry.WithField("plot", png).Debug("plot written")
		}

		sum.Files = append(sum.Files, fileSummary{
			File:        it.Name,
			Output:      out,
			Before:      raw[it.Name].Stats(),
			After:       it.Spectrum.Stats(),
			Diagnostics: res.Diagnostics[it.Name],
		})
	}

	return a.emitSummary(cmd.OutOrStdout(), outDir, &sum)
}

// emitSummary writes the summary to stdout, or into outDir when set.
func (a *app) emitSummary(stdout io.Writer, outDir string, sum *summary) error {
	format := a.cfg.Output.Format
	if outDir == "" {
		return sum.write(stdout, format)
	}

	path := filepath.Join(outDir, summaryName+"."+format)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := sum.write(f, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.logger.WithField("summary", path).Info("summary written")
	return nil
}

// collectFiles expands directories to the files with extension ext they
// contain. Files named explicitly are kept whatever their extension.
// Previously corrected files are skipped.
func collectFiles(args []string, ext string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ext) {
				continue
			}
			if strings.HasSuffix(strings.TrimSuffix(name, filepath.Ext(name)), correctedSuffix) {
				continue
			}
			paths = append(paths, filepath.Join(arg, name))
		}
	}
	return slices.Compact(paths), nil
}

// outputPath returns <dir>/<base><suffix><ext>, using the directory of in
// when dir is empty.
func outputPath(dir, in, suffix string) string {
	if dir == "" {
		dir = filepath.Dir(in)
	}
	base := filepath.Base(in)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+suffix+ext)
}

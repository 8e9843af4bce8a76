package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-xrf/xrf/batch"
	"github.com/cwbudde/algo-xrf/xrf/spectrum"
)

// fileSummary describes the correction of one file.
type fileSummary struct {
	File        string               `yaml:"file"`
	Output      string               `yaml:"output"`
	Before      spectrum.Stats       `yaml:"before"`
	After       spectrum.Stats       `yaml:"after"`
	Diagnostics spectrum.Diagnostics `yaml:"diagnostics,omitempty"`
}

// summary is the report of one correct run.
type summary struct {
	RunID  string        `yaml:"run_id"`
	Stages []string      `yaml:"stages"`
	Files  []fileSummary `yaml:"files"`
	ROI    *batch.Table  `yaml:"roi,omitempty"`
	Model  *batch.Table  `yaml:"model,omitempty"`
}

// statsColumns names the per-spectrum statistics columns of the CSV summary.
var statsColumns = []string{"total", "mean", "variance", "max", "max_channel", "max_energy", "zero_channels"}

// summaryHeader returns the CSV header: file and output, the statistics
// before and after correction, and the diagnostics.
func summaryHeader() []string {
	header := []string{"file", "output"}
	for _, prefix := range []string{"before_", "after_"} {
		for _, c := range statsColumns {
			header = append(header, prefix+c)
		}
	}
	return append(header, "diagnostics")
}

func statsRecord(st spectrum.Stats) []string {
	return []string{
		formatFloat(st.Total),
		formatFloat(st.Mean),
		formatFloat(st.Variance),
		formatFloat(st.Max),
		strconv.Itoa(st.MaxChannel),
		formatFloat(st.MaxEnergy),
		strconv.Itoa(st.Zero),
	}
}

func (s *summary) write(w io.Writer, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		return enc.Close()
	case "csv":
		return s.writeCSV(w)
	default:
		return fmt.Errorf("summary: unknown format %q", format)
	}
}

func (s *summary) writeCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader()); err != nil {
		return err
	}
	for _, f := range s.Files {
		rec := []string{f.File, f.Output}
		rec = append(rec, statsRecord(f.Before)...)
		rec = append(rec, statsRecord(f.After)...)
		rec = append(rec, f.Diagnostics.String())
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	if s.ROI != nil {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		return s.ROI.WriteCSV(w)
	}
	return nil
}

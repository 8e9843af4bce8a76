package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// LiveTimeColumn is the header of the trailing live time column.
const LiveTimeColumn = "live time in ms"

// Row is one file of a Table.
type Row struct {
	File       string    `yaml:"file"`
	Values     []float64 `yaml:"values"`
	LiveTimeMS float64   `yaml:"live_time_ms"`
}

// Table holds one value per file and element line.
type Table struct {
	Columns []string `yaml:"columns"`
	Rows    []Row    `yaml:"rows"`
}

// Value returns the value for file and line.
func (t *Table) Value(file, line string) (float64, bool) {
	col := -1
	for i, c := range t.Columns {
		if c == line {
			col = i
			break
		}
	}
	if col < 0 {
		return 0, false
	}
	for _, r := range t.Rows {
		if r.File == file {
			return r.Values[col], true
		}
	}
	return 0, false
}

// WriteCSV writes the table as "filename,<lines...>,live time in ms".
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(t.Columns)+2)
	header = append(header, "filename")
	header = append(header, t.Columns...)
	header = append(header, LiveTimeColumn)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("batch: write header: %w", err)
	}

	for _, r := range t.Rows {
		rec := make([]string, 0, len(header))
		rec = append(rec, r.File)
		for _, v := range r.Values {
			rec = append(rec, formatFloat(v))
		}
		rec = append(rec, formatFloat(r.LiveTimeMS))
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("batch: write %s: %w", r.File, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

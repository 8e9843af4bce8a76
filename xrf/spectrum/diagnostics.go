package spectrum

import (
	"fmt"
	"strings"
)

// Diagnostic is a recoverable condition reported by a correction stage.
type Diagnostic struct {
	Stage   string `json:"stage" yaml:"stage"`
	Message string `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	return d.Stage + ": " + d.Message
}

// Diagnostics is an ordered list of Diagnostic values.
type Diagnostics []Diagnostic

// Addf appends a diagnostic for stage.
func (d *Diagnostics) Addf(stage, format string, args ...any) {
	*d = append(*d, Diagnostic{Stage: stage, Message: fmt.Sprintf(format, args...)})
}

// Merge appends other to d.
func (d *Diagnostics) Merge(other Diagnostics) {
	*d = append(*d, other...)
}

// Empty reports whether d holds no diagnostics.
func (d Diagnostics) Empty() bool { return len(d) == 0 }

func (d Diagnostics) String() string {
	parts := make([]string, len(d))
	for i, diag := range d {
		parts[i] = diag.String()
	}
	return strings.Join(parts, "; ")
}

// Package output provides report formatters for optimization results.
package output

import (
	"github.com/inodb/codon-optimizer/internal/metrics"
	"github.com/inodb/codon-optimizer/internal/optimize"
)

// Row is one organism's line in a report.
type Row struct {
	Organism   string
	Metrics    metrics.Result
	Satisfied  bool
	Score      float64
	MaxScore   float64
	Iterations int
	WindowMin  float64 // lowest windowed GC, percent
	WindowMax  float64 // highest windowed GC, percent
	Err        error
}

// ReportWriter is implemented by every report format.
type ReportWriter interface {
	WriteHeader() error
	Write(r Row) error
	Flush() error
}

// NewRow builds a report row from a runner result. window is the GC window
// width in nucleotides used for the windowed GC columns.
func NewRow(rr optimize.RunResult, window int) Row {
	row := Row{Organism: rr.Organism, Err: rr.Err}
	if rr.Result == nil {
		return row
	}
	row.Metrics = rr.Metrics
	row.Satisfied = rr.Result.Satisfied
	row.Score = rr.Result.Score
	row.MaxScore = rr.Result.MaxScore
	row.Iterations = rr.Result.Iterations
	row.WindowMin, row.WindowMax = metrics.WindowGC(rr.Result.Sequence, window)
	return row
}

func status(r Row) string {
	switch {
	case r.Err != nil:
		return "error"
	case r.Satisfied:
		return "yes"
	default:
		return "no"
	}
}

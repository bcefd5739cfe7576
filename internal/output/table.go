package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
)

// TableWriter writes an aligned, human-readable report followed by a summary
// line. The Satisfied column is coloured when the terminal supports it.
type TableWriter struct {
	w         *tabwriter.Writer
	total     int
	satisfied int
	failed    int

	yes, no, fail *color.Color
}

// NewTableWriter creates a new aligned table writer.
func NewTableWriter(w io.Writer) *TableWriter {
	return &TableWriter{
		w:    tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		yes:  color.New(color.FgGreen),
		no:   color.New(color.FgYellow),
		fail: color.New(color.FgRed, color.Bold),
	}
}

// WriteHeader writes the column titles.
func (t *TableWriter) WriteHeader() error {
	_, err := fmt.Fprintln(t.w, "Species\tCodon Match %\tNucleotide Match %\tGC ratio %\tWindow GC %\tScore\tIterations\tSatisfied")
	return err
}

// Write writes a single row.
func (t *TableWriter) Write(r Row) error {
	t.total++
	if r.Err != nil {
		t.failed++
		_, err := fmt.Fprintf(t.w, "%s\t-\t-\t-\t-\t-\t-\t%s\n", r.Organism, t.fail.Sprint(r.Err.Error()))
		return err
	}

	st := t.no.Sprint(status(r))
	if r.Satisfied {
		t.satisfied++
		st = t.yes.Sprint(status(r))
	}
	_, err := fmt.Fprintf(t.w, "%s\t%.2f\t%.2f\t%.2f\t%.2f-%.2f\t%.2f/%.2f\t%d\t%s\n",
		r.Organism,
		r.Metrics.CodonMatch,
		r.Metrics.NucleotideMatch,
		r.Metrics.GC,
		r.WindowMin, r.WindowMax,
		r.Score, r.MaxScore,
		r.Iterations,
		st)
	return err
}

// Flush aligns and writes buffered rows, then the summary line.
func (t *TableWriter) Flush() error {
	if err := t.w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(t.w, "\n%d organisms: %d satisfied, %d unsatisfied, %d failed\n",
		t.total, t.satisfied, t.total-t.satisfied-t.failed, t.failed)
	if err != nil {
		return err
	}
	return t.w.Flush()
}

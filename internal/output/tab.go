package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TabWriter writes report rows in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"organism",
			"codon_match_pct",
			"nucleotide_match_pct",
			"gc_pct",
			"window_gc_min_pct",
			"window_gc_max_pct",
			"score",
			"max_score",
			"iterations",
			"satisfied",
			"error",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single row. Rows with an error carry "-" in every metric column.
func (tw *TabWriter) Write(r Row) error {
	errMsg := "-"
	if r.Err != nil {
		errMsg = strings.ReplaceAll(r.Err.Error(), "\t", " ")
	}

	values := []string{r.Organism, "-", "-", "-", "-", "-", "-", "-", "-", status(r), errMsg}
	if r.Err == nil {
		values = []string{
			r.Organism,
			fmt.Sprintf("%.2f", r.Metrics.CodonMatch),
			fmt.Sprintf("%.2f", r.Metrics.NucleotideMatch),
			fmt.Sprintf("%.2f", r.Metrics.GC),
			fmt.Sprintf("%.2f", r.WindowMin),
			fmt.Sprintf("%.2f", r.WindowMax),
			fmt.Sprintf("%.4f", r.Score),
			fmt.Sprintf("%.4f", r.MaxScore),
			fmt.Sprintf("%d", r.Iterations),
			status(r),
			errMsg,
		}
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

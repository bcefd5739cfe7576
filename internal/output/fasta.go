package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/inodb/codon-optimizer/internal/codon"
)

// DefaultLineWidth is the FASTA sequence line width.
const DefaultLineWidth = 60

// SequenceWriter writes optimized strands as FASTA records.
type SequenceWriter struct {
	w     *bufio.Writer
	width int
}

// NewSequenceWriter creates a FASTA writer wrapping lines at width
// nucleotides. A width of 0 or less writes each strand on one line.
func NewSequenceWriter(w io.Writer, width int) *SequenceWriter {
	return &SequenceWriter{w: bufio.NewWriter(w), width: width}
}

// Write writes one record with the given identifier and description.
func (sw *SequenceWriter) Write(id, desc string, seq codon.Sequence) error {
	header := ">" + id
	if desc != "" {
		header += " " + desc
	}
	if _, err := fmt.Fprintln(sw.w, header); err != nil {
		return err
	}

	strand := seq.String()
	if sw.width <= 0 {
		_, err := fmt.Fprintln(sw.w, strand)
		return err
	}
	for len(strand) > 0 {
		n := min(sw.width, len(strand))
		if _, err := fmt.Fprintln(sw.w, strand[:n]); err != nil {
			return err
		}
		strand = strand[n:]
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (sw *SequenceWriter) Flush() error {
	return sw.w.Flush()
}

// Package pairs loads side-by-side original/reference codon files.
package pairs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/inodb/codon-optimizer/internal/codon"
	"github.com/inodb/codon-optimizer/internal/input"
)

// ErrMissingColumn is returned when a required header column is absent.
var ErrMissingColumn = errors.New("missing column")

// Default column names used by side-by-side.csv.
const (
	DefaultOriginalColumn  = "codonOrig"
	DefaultReferenceColumn = "codonVaccine"
)

// Columns names the header columns holding each codon.
type Columns struct {
	Original  string
	Reference string
}

// DefaultColumns returns the side-by-side.csv column names.
func DefaultColumns() Columns {
	return Columns{Original: DefaultOriginalColumn, Reference: DefaultReferenceColumn}
}

// Pairs holds the parallel original and reference sequences.
type Pairs struct {
	Original  codon.Sequence
	Reference codon.Sequence
}

// Len returns the number of codon pairs.
func (p *Pairs) Len() int {
	return len(p.Original)
}

// Load reads a codon pair file. Delimiter is chosen from the file name and
// gzip input is detected automatically. Use "-" for stdin.
func Load(path string, cols Columns) (*Pairs, error) {
	f, err := input.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open codon pairs: %w", err)
	}
	defer f.Close()

	return Parse(f, input.Delimiter(path), cols)
}

// Parse reads codon pairs from r. Both columns must hold valid codons on
// every row; blank lines are skipped.
func Parse(r io.Reader, delim rune, cols Columns) (*Pairs, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = delim != '\t'

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("codon pairs: empty file")
		}
		return nil, fmt.Errorf("read codon pairs header: %w", err)
	}

	origIdx, refIdx := -1, -1
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		switch col {
		case cols.Original:
			origIdx = i
		case cols.Reference:
			refIdx = i
		}
	}
	if origIdx < 0 {
		return nil, fmt.Errorf("codon pairs: %w %q", ErrMissingColumn, cols.Original)
	}
	if refIdx < 0 {
		return nil, fmt.Errorf("codon pairs: %w %q", ErrMissingColumn, cols.Reference)
	}

	p := &Pairs{}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read codon pairs line %d: %w", line, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) <= origIdx || len(rec) <= refIdx {
			return nil, fmt.Errorf("codon pairs line %d: expected %d fields, got %d", line, len(header), len(rec))
		}

		orig, err := codon.Parse(rec[origIdx])
		if err != nil {
			return nil, fmt.Errorf("codon pairs line %d: original: %w", line, err)
		}
		ref, err := codon.Parse(rec[refIdx])
		if err != nil {
			return nil, fmt.Errorf("codon pairs line %d: reference: %w", line, err)
		}

		p.Original = append(p.Original, orig)
		p.Reference = append(p.Reference, ref)
	}

	return p, nil
}

// Validate checks that every original codon translates under m, so unknown
// codons surface at load time instead of during optimization.
func (p *Pairs) Validate(m *codon.Map) error {
	if _, err := p.Original.Translate(m); err != nil {
		return fmt.Errorf("original sequence: %w", err)
	}
	if _, err := p.Reference.Translate(m); err != nil {
		return fmt.Errorf("reference sequence: %w", err)
	}
	return nil
}

package codon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/inodb/codon-optimizer/internal/input"
)

// DefaultStopSymbol is the stop marker used by grouped codon table files.
const DefaultStopSymbol = "s"

// LoadMap loads an amino acid map from a codon,aminoacid file.
func LoadMap(path, stopSymbol string) (*Map, error) {
	f, err := input.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open amino acid map: %w", err)
	}
	defer f.Close()

	return ParseMap(f, input.Delimiter(path), stopSymbol)
}

// ParseMap reads rows with "codon" and "aminoacid" header columns. Rows whose
// amino acid equals stopSymbol (or "*") are mapped to Stop.
func ParseMap(r io.Reader, delim rune, stopSymbol string) (*Map, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = delim != '\t'

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("amino acid map: empty file")
		}
		return nil, fmt.Errorf("read amino acid map header: %w", err)
	}

	codonIdx, aaIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "codon":
			codonIdx = i
		case "aminoacid", "amino_acid":
			aaIdx = i
		}
	}
	if codonIdx < 0 {
		return nil, fmt.Errorf("amino acid map: missing 'codon' column")
	}
	if aaIdx < 0 {
		return nil, fmt.Errorf("amino acid map: missing 'aminoacid' column")
	}

	pairs := make(map[Codon]AminoAcid, 64)
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read amino acid map line %d: %w", line, err)
		}
		if len(rec) <= codonIdx || len(rec) <= aaIdx {
			continue
		}
		c, err := Parse(rec[codonIdx])
		if err != nil {
			return nil, fmt.Errorf("amino acid map line %d: %w", line, err)
		}
		sym := strings.TrimSpace(rec[aaIdx])
		if (stopSymbol != "" && sym == stopSymbol) || sym == string(Stop) {
			pairs[c] = Stop
			continue
		}
		if len(sym) != 1 {
			return nil, fmt.Errorf("amino acid map line %d: bad symbol %q", line, sym)
		}
		pairs[c] = AminoAcid(strings.ToUpper(sym)[0])
	}

	return NewMap(pairs)
}

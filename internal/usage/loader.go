package usage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/codon-optimizer/internal/codon"
	"github.com/inodb/codon-optimizer/internal/input"
)

// LoadTable loads a codon usage table file in
// amino_acid,codon,relative_frequency format. An empty organism is taken
// from the file name.
func LoadTable(path, organism string, m *codon.Map) (*Table, error) {
	if organism == "" {
		organism = organismFromPath(path)
	}

	f, err := input.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open codon usage table: %w", err)
	}
	defer f.Close()

	return ParseTable(f, input.Delimiter(path), organism, m)
}

func parseFile(r io.Reader, name, organism string, m *codon.Map) (*Table, error) {
	f, err := input.FromReader(r)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", name, err)
	}
	defer f.Close()

	return ParseTable(f, input.Delimiter(name), organism, m)
}

// ParseTable reads a codon usage table. The header must name an amino acid
// column, a codon column and a frequency column.
func ParseTable(r io.Reader, delim rune, organism string, m *codon.Map) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = delim != '\t'
	cr.Comment = '#'

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("codon usage table %s: empty file", organism)
		}
		return nil, fmt.Errorf("read codon usage table header: %w", err)
	}

	aaIdx, codonIdx, freqIdx := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "amino_acid", "aminoacid":
			aaIdx = i
		case "codon":
			codonIdx = i
		case "relative_frequency", "frequency", "freq":
			freqIdx = i
		}
	}
	if aaIdx < 0 || codonIdx < 0 || freqIdx < 0 {
		return nil, fmt.Errorf("codon usage table %s: header needs amino_acid, codon and relative_frequency columns", organism)
	}

	weights := make(map[codon.AminoAcid]map[codon.Codon]float64)
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read codon usage table line %d: %w", line, err)
		}
		if len(rec) <= aaIdx || len(rec) <= codonIdx || len(rec) <= freqIdx {
			continue
		}

		sym := strings.TrimSpace(rec[aaIdx])
		if len(sym) != 1 {
			return nil, fmt.Errorf("codon usage table line %d: bad amino acid %q", line, sym)
		}
		aa := codon.AminoAcid(strings.ToUpper(sym)[0])

		c, err := codon.Parse(rec[codonIdx])
		if err != nil {
			return nil, fmt.Errorf("codon usage table line %d: %w", line, err)
		}

		w, err := strconv.ParseFloat(strings.TrimSpace(rec[freqIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("codon usage table line %d: parse frequency: %w", line, err)
		}

		if weights[aa] == nil {
			weights[aa] = make(map[codon.Codon]float64)
		}
		weights[aa][c] = w
	}

	return NewTable(organism, m, weights)
}

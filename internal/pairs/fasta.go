package pairs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/inodb/codon-optimizer/internal/codon"
	"github.com/inodb/codon-optimizer/internal/input"
)

// ErrNoRecords is returned for FASTA input without a sequence.
var ErrNoRecords = errors.New("no FASTA records")

// Record is one FASTA entry framed into codons.
type Record struct {
	ID          string
	Description string
	Sequence    codon.Sequence
}

// IsFASTA reports whether path names a FASTA file (optionally gzipped).
func IsFASTA(path string) bool {
	lower := strings.TrimSuffix(strings.ToLower(path), ".gz")
	switch filepath.Ext(lower) {
	case ".fa", ".fasta", ".fna", ".ffn":
		return true
	}
	return false
}

// LoadFASTA reads every record of a FASTA file. Gzip input is detected
// automatically. Use "-" for stdin.
func LoadFASTA(path string) ([]Record, error) {
	f, err := input.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	return ReadFASTA(f)
}

// ReadFASTA parses FASTA content. Sequence lines may be wrapped, mixed case
// or RNA; each record must hold a whole number of codons.
func ReadFASTA(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for long unwrapped sequences
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var (
		records []Record
		header  string
		strand  strings.Builder
		started bool
	)

	flush := func() error {
		if !started {
			return nil
		}
		id, desc, _ := strings.Cut(header, " ")
		seq, err := codon.Split(strand.String())
		if err != nil {
			return fmt.Errorf("FASTA record %q: %w", id, err)
		}
		records = append(records, Record{ID: id, Description: strings.TrimSpace(desc), Sequence: seq})
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, ">") {
			if err := flush(); err != nil {
				return nil, err
			}
			header = strings.TrimSpace(line[1:])
			strand.Reset()
			started = true
			continue
		}
		if !started {
			return nil, fmt.Errorf("FASTA: sequence data before first header")
		}
		strand.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read FASTA: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// FromRecords builds pairs from FASTA records: the first record is the
// original and the second, if present, the reference. A lone record is
// compared with itself.
func FromRecords(records []Record) (*Pairs, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	orig := records[0].Sequence
	ref := orig.Clone()
	if len(records) > 1 {
		ref = records[1].Sequence
		if len(ref) != len(orig) {
			return nil, fmt.Errorf("FASTA reference %q has %d codons, original %q has %d",
				records[1].ID, len(ref), records[0].ID, len(orig))
		}
	}
	return &Pairs{Original: orig, Reference: ref}, nil
}

// Open loads pairs from a codon pair table or, for FASTA file names, from
// the first two FASTA records.
func Open(path string, cols Columns) (*Pairs, error) {
	if !IsFASTA(path) {
		return Load(path, cols)
	}
	records, err := LoadFASTA(path)
	if err != nil {
		return nil, err
	}
	return FromRecords(records)
}

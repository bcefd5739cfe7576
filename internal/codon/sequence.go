package codon

import (
	"fmt"
	"strings"
)

// Sequence is a reading-frame-aligned coding region.
type Sequence []Codon

// String joins the codons into a single strand.
func (s Sequence) String() string {
	var b strings.Builder
	b.Grow(3 * len(s))
	for _, c := range s {
		b.WriteString(string(c))
	}
	return b.String()
}

// Clone returns an independent copy of s.
func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Translate translates every codon with m. The first unknown codon
// aborts translation with ErrUnknownCodon and its 1-based position.
func (s Sequence) Translate(m *Map) ([]AminoAcid, error) {
	out := make([]AminoAcid, len(s))
	for i, c := range s {
		a, err := m.Translate(c)
		if err != nil {
			return nil, fmt.Errorf("codon %d: %w", i+1, err)
		}
		out[i] = a
	}
	return out, nil
}

// Protein translates s and renders it as a single-letter string.
func (s Sequence) Protein(m *Map) (string, error) {
	aas, err := s.Translate(m)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(aas))
	for _, a := range aas {
		b.WriteByte(byte(a))
	}
	return b.String(), nil
}

// GC returns the number of G or C bases in s.
func (s Sequence) GC() int {
	n := 0
	for _, c := range s {
		n += c.GC()
	}
	return n
}

// Split re-frames a nucleotide strand into codons.
func Split(strand string) (Sequence, error) {
	if len(strand)%3 != 0 {
		return nil, fmt.Errorf("%w: length %d", ErrFrame, len(strand))
	}
	out := make(Sequence, 0, len(strand)/3)
	for i := 0; i < len(strand); i += 3 {
		c, err := Parse(strand[i : i+3])
		if err != nil {
			return nil, fmt.Errorf("codon %d: %w", i/3+1, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseSequence parses each string as a codon.
func ParseSequence(codons []string) (Sequence, error) {
	out := make(Sequence, len(codons))
	for i, s := range codons {
		c, err := Parse(s)
		if err != nil {
			return nil, fmt.Errorf("codon %d: %w", i+1, err)
		}
		out[i] = c
	}
	return out, nil
}

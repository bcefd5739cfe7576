package codon

import (
	"fmt"
	"sort"
)

// Standard genetic code: DNA codon to amino acid (single letter).
var standardCode = map[Codon]AminoAcid{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// Map is an immutable codon to amino acid lookup. It is safe for
// concurrent use once built.
type Map struct {
	aa       map[Codon]AminoAcid
	synonyms map[AminoAcid][]Codon
}

var standard = mustMap(standardCode)

// Standard returns the standard genetic code.
func Standard() *Map {
	return standard
}

// NewMap builds a Map from codon/amino acid pairs.
func NewMap(pairs map[Codon]AminoAcid) (*Map, error) {
	m := &Map{
		aa:       make(map[Codon]AminoAcid, len(pairs)),
		synonyms: make(map[AminoAcid][]Codon),
	}
	for c, a := range pairs {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCodon, string(c))
		}
		m.aa[c] = a
		m.synonyms[a] = append(m.synonyms[a], c)
	}
	for _, set := range m.synonyms {
		sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	}
	return m, nil
}

func mustMap(pairs map[Codon]AminoAcid) *Map {
	m, err := NewMap(pairs)
	if err != nil {
		panic(err)
	}
	return m
}

// Translate returns the amino acid encoded by c.
func (m *Map) Translate(c Codon) (AminoAcid, error) {
	if a, ok := m.aa[c]; ok {
		return a, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCodon, string(c))
}

// Synonyms returns the codons encoding a, sorted lexicographically.
// The returned slice must not be modified.
func (m *Map) Synonyms(a AminoAcid) []Codon {
	return m.synonyms[a]
}

// Len returns the number of codons in the map.
func (m *Map) Len() int {
	return len(m.aa)
}

// AminoAcids returns every amino acid symbol in the map, sorted.
func (m *Map) AminoAcids() []AminoAcid {
	out := make([]AminoAcid, 0, len(m.synonyms))
	for a := range m.synonyms {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

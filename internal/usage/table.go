// Package usage provides per-organism codon usage tables.
package usage

import (
	"errors"
	"fmt"
	"sort"

	"github.com/inodb/codon-optimizer/internal/codon"
)

var (
	// ErrUnknownOrganism is returned when no provider has a table for an organism.
	ErrUnknownOrganism = errors.New("unknown organism")
	// ErrTableMismatch is returned when a codon is listed under an amino acid
	// the genetic code does not assign it to.
	ErrTableMismatch = errors.New("codon listed under wrong amino acid")
	// ErrNegativeWeight is returned for negative usage frequencies.
	ErrNegativeWeight = errors.New("negative codon weight")
)

// Table maps amino acid -> codon -> relative usage frequency for one organism.
// A Table is read-only after construction and safe for concurrent use.
type Table struct {
	organism string
	weights  map[codon.AminoAcid]map[codon.Codon]float64
	max      map[codon.AminoAcid]float64
}

// NewTable validates weights against the genetic code m and builds a Table.
func NewTable(organism string, m *codon.Map, weights map[codon.AminoAcid]map[codon.Codon]float64) (*Table, error) {
	t := &Table{
		organism: organism,
		weights:  make(map[codon.AminoAcid]map[codon.Codon]float64, len(weights)),
		max:      make(map[codon.AminoAcid]float64, len(weights)),
	}
	for aa, codons := range weights {
		inner := make(map[codon.Codon]float64, len(codons))
		for c, w := range codons {
			got, err := m.Translate(c)
			if err != nil {
				return nil, fmt.Errorf("table %s: %w", organism, err)
			}
			if got != aa {
				return nil, fmt.Errorf("table %s: %w: %s encodes %s, listed under %s",
					organism, ErrTableMismatch, c, got, aa)
			}
			if w < 0 {
				return nil, fmt.Errorf("table %s: %w: %s=%g", organism, ErrNegativeWeight, c, w)
			}
			inner[c] = w
			if w > t.max[aa] {
				t.max[aa] = w
			}
		}
		t.weights[aa] = inner
	}
	return t, nil
}

// Organism returns the organism identifier the table was loaded for.
func (t *Table) Organism() string {
	return t.organism
}

// Weight returns the raw usage weight of c for aa, or 0 if absent.
func (t *Table) Weight(aa codon.AminoAcid, c codon.Codon) float64 {
	return t.weights[aa][c]
}

// Relative returns the weight of c normalized by the best codon for aa,
// in [0, 1]. Amino acids without any positive weight score 0.
func (t *Table) Relative(aa codon.AminoAcid, c codon.Codon) float64 {
	best := t.max[aa]
	if best == 0 {
		return 0
	}
	return t.weights[aa][c] / best
}

// Ranked returns the synonyms of aa under m ordered by descending weight,
// ties broken by lexicographic codon.
func (t *Table) Ranked(m *codon.Map, aa codon.AminoAcid) []codon.Codon {
	syn := m.Synonyms(aa)
	out := make([]codon.Codon, len(syn))
	copy(out, syn)
	w := t.weights[aa]
	sort.SliceStable(out, func(i, j int) bool {
		wi, wj := w[out[i]], w[out[j]]
		if wi != wj {
			return wi > wj
		}
		return out[i] < out[j]
	})
	return out
}

// Best returns the highest-ranked synonym of aa, or false if aa has none.
func (t *Table) Best(m *codon.Map, aa codon.AminoAcid) (codon.Codon, bool) {
	ranked := t.Ranked(m, aa)
	if len(ranked) == 0 {
		return "", false
	}
	return ranked[0], true
}

// AminoAcids returns the amino acids present in the table, sorted.
func (t *Table) AminoAcids() []codon.AminoAcid {
	out := make([]codon.AminoAcid, 0, len(t.weights))
	for aa := range t.weights {
		out = append(out, aa)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Codons returns the codons listed for aa, sorted lexicographically.
func (t *Table) Codons(aa codon.AminoAcid) []codon.Codon {
	out := make([]codon.Codon, 0, len(t.weights[aa]))
	for c := range t.weights[aa] {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

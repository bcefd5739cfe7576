package optimize

import (
	"fmt"

	"github.com/inodb/codon-optimizer/internal/codon"
	"github.com/inodb/codon-optimizer/internal/usage"
)

// Greedy maps each codon to the synonym with the highest usage weight in
// table, ties broken by lexicographic codon. The input is not modified.
func Greedy(seq codon.Sequence, table *usage.Table, code *codon.Map) (codon.Sequence, error) {
	best := make(map[codon.AminoAcid]codon.Codon)
	out := make(codon.Sequence, len(seq))
	for i, c := range seq {
		aa, err := code.Translate(c)
		if err != nil {
			return nil, fmt.Errorf("codon %d: %w", i+1, err)
		}
		b, ok := best[aa]
		if !ok {
			b, ok = table.Best(code, aa)
			if !ok {
				b = c
			}
			best[aa] = b
		}
		out[i] = b
	}
	return out, nil
}

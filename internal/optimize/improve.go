package optimize

import (
	"context"

	"github.com/inodb/codon-optimizer/internal/codon"
)

// Improve replaces codons with strictly higher-usage synonyms, in position
// order, whenever every window touching the position stays in the GC band.
// Passes repeat until no position improves, so calling Improve again is a
// no-op. It returns the number of substitutions made.
func (p *Problem) Improve(ctx context.Context) (int, error) {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n := p.improvePass()
		total += n
		if n == 0 {
			return total, nil
		}
	}
}

func (p *Problem) improvePass() int {
	n := 0
	for pos := range p.seq {
		if !p.mutable(pos) {
			continue
		}
		aa := p.aas[pos]
		cur := p.table.Relative(aa, p.seq[pos])
		for _, c := range p.candidates(pos) {
			if p.table.Relative(aa, c) <= cur {
				break
			}
			if p.fits(pos, c) {
				p.set(pos, c, PhaseImprove)
				n++
				break
			}
		}
	}
	return n
}

// fits reports whether substituting c at pos keeps every touching window in
// the band. Only those windows are evaluated.
func (p *Problem) fits(pos int, c codon.Codon) bool {
	if p.numWindows() == 0 {
		return true
	}
	first, last := p.touched(pos)
	counts := p.windowCounts(first, last)
	for t := first; t <= last; t++ {
		if !p.inBounds(counts[t-first] + p.delta(pos, c, t)) {
			return false
		}
	}
	return true
}

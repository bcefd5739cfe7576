package optimize

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/inodb/codon-optimizer/internal/codon"
)

// stallScans is the number of consecutive scans without fewer violations
// after which resolution is considered stuck.
const stallScans = 8

// fix is a candidate substitution for a violating window.
type fix struct {
	pos    int
	codon  codon.Codon
	dist   int // window distance from the band after substitution
	broken int // other windows pushed out of the band
	weight float64
}

func (a fix) better(b fix) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	if a.weight != b.weight {
		return a.weight > b.weight
	}
	if a.broken != b.broken {
		return a.broken < b.broken
	}
	if a.codon != b.codon {
		return a.codon < b.codon
	}
	return a.pos < b.pos
}

// ResolveConstraints repairs GC windows in position order until every window
// is in the band. It returns ErrUnsatisfiableConstraint when the iteration
// budget runs out or the scans stop reducing violations; the working sequence
// is then the best one seen (fewest violating windows).
func (p *Problem) ResolveConstraints(ctx context.Context) error {
	if p.numWindows() == 0 {
		return nil
	}
	if p.lo > p.hi {
		return fmt.Errorf("%w: no GC count fits [%g, %g] in a %d nt window",
			ErrUnsatisfiableConstraint, p.cons.GCMin, p.cons.GCMax, p.width)
	}

	v := p.Violations()
	if v == 0 {
		return nil
	}
	best, bestV := p.seq.Clone(), v

	var rng *rand.Rand
	escapes, stalled := 0, 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		progress := p.resolveScan()
		v = p.Violations()
		if v < bestV {
			best, bestV = p.seq.Clone(), v
			stalled = 0
		} else {
			stalled++
		}
		if v == 0 {
			return nil
		}
		if p.iterations >= p.opts.MaxIterations {
			break
		}
		if !progress || stalled >= stallScans {
			if !p.opts.Escape || escapes >= p.opts.EscapeRounds {
				break
			}
			if rng == nil {
				rng = rand.New(rand.NewSource(p.opts.Seed))
			}
			if !p.escape(rng) {
				break
			}
			escapes++
			stalled = 0
		}
	}

	p.restore(best)
	return fmt.Errorf("%w: %d windows outside [%g, %g] after %d iterations",
		ErrUnsatisfiableConstraint, bestV, p.cons.GCMin, p.cons.GCMax, p.iterations)
}

// resolveScan makes one pass over all windows and reports whether any
// substitution was made.
func (p *Problem) resolveScan() bool {
	progress := false
	nw := p.numWindows()
	count := p.windowCount(0)
	for s := 0; s < nw; s++ {
		if s > 0 {
			if p.gc[s-1] {
				count--
			}
			if p.gc[s+p.width-1] {
				count++
			}
		}
		for !p.inBounds(count) && p.iterations < p.opts.MaxIterations {
			f, ok := p.bestFix(s, count)
			if !ok {
				break
			}
			p.set(f.pos, f.codon, PhaseResolve)
			p.iterations++
			progress = true
			count = p.windowCount(s)
		}
	}
	return progress
}

// bestFix picks the substitution inside window s that moves its G/C count
// closest to the band. Among equally close candidates it prefers higher
// usage weight, then those leaving other windows intact.
func (p *Problem) bestFix(s, count int) (fix, bool) {
	cur := p.distance(count)
	var best fix
	found := false

	for pos := s / 3; pos <= (s+p.width-1)/3; pos++ {
		if !p.mutable(pos) {
			continue
		}
		first, last := p.touched(pos)
		counts := p.windowCounts(first, last)
		aa := p.aas[pos]

		for _, c := range p.candidates(pos) {
			if c == p.seq[pos] {
				continue
			}
			dist := p.distance(count + p.delta(pos, c, s))
			if dist >= cur {
				continue
			}
			broken := 0
			for t := first; t <= last; t++ {
				if t == s {
					continue
				}
				before := counts[t-first]
				if p.inBounds(before) && !p.inBounds(before+p.delta(pos, c, t)) {
					broken++
				}
			}
			f := fix{pos: pos, codon: c, dist: dist, broken: broken, weight: p.table.Relative(aa, c)}
			if !found || f.better(best) {
				best, found = f, true
			}
		}
	}
	return best, found
}

// escape randomly re-encodes up to EscapeSteps positions of the first
// violating window. It reports whether anything changed.
func (p *Problem) escape(rng *rand.Rand) bool {
	nw := p.numWindows()
	counts := p.windowCounts(0, nw-1)
	s := -1
	for i, n := range counts {
		if !p.inBounds(n) {
			s = i
			break
		}
	}
	if s < 0 {
		return false
	}

	var positions []int
	for pos := s / 3; pos <= (s+p.width-1)/3; pos++ {
		if p.mutable(pos) && len(p.candidates(pos)) > 1 {
			positions = append(positions, pos)
		}
	}
	rng.Shuffle(len(positions), func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	})

	changed := false
	for _, pos := range positions[:min(len(positions), p.opts.EscapeSteps)] {
		syn := p.candidates(pos)
		c := syn[rng.Intn(len(syn))]
		if c == p.seq[pos] {
			continue
		}
		p.set(pos, c, PhaseEscape)
		p.iterations++
		changed = true
	}
	return changed
}

// restore resets the working sequence to seq.
func (p *Problem) restore(seq codon.Sequence) {
	for pos, c := range seq {
		if p.seq[pos] != c {
			p.set(pos, c, PhaseResolve)
		}
	}
}

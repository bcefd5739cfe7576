// Package optimize re-encodes coding sequences toward a target organism's
// codon usage under a pinned start codon and a sliding-window GC band.
package optimize

import (
	"errors"
	"fmt"
	"math"

	"github.com/inodb/codon-optimizer/internal/codon"
	"github.com/inodb/codon-optimizer/internal/usage"
)

var (
	// ErrUnsatisfiableConstraint is reported when GC windows could not all be
	// brought into the band within the iteration budget.
	ErrUnsatisfiableConstraint = errors.New("GC constraint not satisfied")
	// ErrStartCodonMismatch is returned when the first codon does not encode
	// the same amino acid as the designated start codon.
	ErrStartCodonMismatch = errors.New("first codon does not match start codon")
	// ErrInvalidConstraints is returned for malformed constraint parameters.
	ErrInvalidConstraints = errors.New("invalid constraints")
)

// Constraints are the biochemical constraints every recoding must satisfy.
type Constraints struct {
	GCMin      float64     // lower GC fraction bound, inclusive
	GCMax      float64     // upper GC fraction bound, inclusive
	Window     int         // window width in nucleotides
	StartCodon codon.Codon // pinned at position 0; empty disables pinning
}

// DefaultConstraints returns the vaccine design defaults: GC in [0.54, 0.90]
// over 120 nt windows, starting with ATG.
func DefaultConstraints() Constraints {
	return Constraints{
		GCMin:      0.54,
		GCMax:      0.90,
		Window:     120,
		StartCodon: "ATG",
	}
}

// Validate checks the constraint parameters.
func (c Constraints) Validate() error {
	if c.GCMin < 0 || c.GCMax > 1 || c.GCMin > c.GCMax {
		return fmt.Errorf("%w: GC band [%g, %g]", ErrInvalidConstraints, c.GCMin, c.GCMax)
	}
	if c.Window <= 0 {
		return fmt.Errorf("%w: window %d", ErrInvalidConstraints, c.Window)
	}
	if c.StartCodon != "" && !c.StartCodon.Valid() {
		return fmt.Errorf("%w: start codon %q", ErrInvalidConstraints, string(c.StartCodon))
	}
	return nil
}

// Options tune the search.
type Options struct {
	// MaxIterations bounds the number of substitutions made while resolving
	// GC violations.
	MaxIterations int

	// Escape enables random perturbation when resolution stalls.
	Escape bool
	// EscapeSteps is the number of positions perturbed per escape.
	EscapeSteps int
	// EscapeRounds bounds the number of escapes.
	EscapeRounds int
	// Seed seeds the escape step's random source.
	Seed int64
}

// DefaultOptions returns deterministic search options.
func DefaultOptions() Options {
	return Options{
		MaxIterations: 10000,
		EscapeSteps:   3,
		EscapeRounds:  20,
		Seed:          10110,
	}
}

// Phase names the step that made a Change.
type Phase string

const (
	PhasePin     Phase = "pin"
	PhaseResolve Phase = "resolve"
	PhaseEscape  Phase = "escape"
	PhaseImprove Phase = "improve"
)

// Change records a single codon substitution.
type Change struct {
	Position int
	From     codon.Codon
	To       codon.Codon
	Phase    Phase
}

// Problem owns the working sequence during optimization. It is not safe for
// concurrent use; the table and genetic code it references are shared
// read-only.
type Problem struct {
	seq   codon.Sequence
	aas   []codon.AminoAcid
	table *usage.Table
	code  *codon.Map
	cons  Constraints
	opts  Options

	gc     []bool // per-nucleotide G/C flag
	width  int    // effective window width
	lo, hi int    // GC count bounds per window
	pinned bool

	ranked     map[codon.AminoAcid][]codon.Codon
	iterations int
	changes    []Change
}

// NewProblem builds a problem from a starting sequence, typically the greedy
// recoding. The sequence is copied and the start codon pinned.
func NewProblem(start codon.Sequence, table *usage.Table, code *codon.Map, cons Constraints, opts Options) (*Problem, error) {
	if err := cons.Validate(); err != nil {
		return nil, err
	}
	aas, err := start.Translate(code)
	if err != nil {
		return nil, err
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}

	p := &Problem{
		seq:    start.Clone(),
		aas:    aas,
		table:  table,
		code:   code,
		cons:   cons,
		opts:   opts,
		ranked: make(map[codon.AminoAcid][]codon.Codon),
	}

	if cons.StartCodon != "" && len(p.seq) > 0 {
		startAA, err := code.Translate(cons.StartCodon)
		if err != nil {
			return nil, fmt.Errorf("start codon: %w", err)
		}
		if startAA != aas[0] {
			return nil, fmt.Errorf("%w: %s encodes %s, start codon %s encodes %s",
				ErrStartCodonMismatch, p.seq[0], aas[0], cons.StartCodon, startAA)
		}
		if p.seq[0] != cons.StartCodon {
			p.changes = append(p.changes, Change{Position: 0, From: p.seq[0], To: cons.StartCodon, Phase: PhasePin})
			p.seq[0] = cons.StartCodon
		}
		p.pinned = true
	}

	strand := p.seq.String()
	p.gc = make([]bool, len(strand))
	for i := 0; i < len(strand); i++ {
		p.gc[i] = codon.IsGC(strand[i])
	}

	p.width = cons.Window
	if p.width > len(strand) {
		p.width = len(strand)
	}
	p.lo = int(math.Ceil(cons.GCMin*float64(p.width) - 1e-9))
	p.hi = int(math.Floor(cons.GCMax*float64(p.width) + 1e-9))

	return p, nil
}

// Sequence returns a copy of the current working sequence.
func (p *Problem) Sequence() codon.Sequence {
	return p.seq.Clone()
}

// Iterations returns the number of resolution substitutions made so far.
func (p *Problem) Iterations() int {
	return p.iterations
}

// Changes returns the substitutions made so far, in order.
func (p *Problem) Changes() []Change {
	return p.changes
}

// Score returns the sum of relative usage weights of the current codons.
func (p *Problem) Score() float64 {
	s := 0.0
	for i, c := range p.seq {
		s += p.table.Relative(p.aas[i], c)
	}
	return s
}

// MaxScore returns the score of the unconstrained best recoding.
func (p *Problem) MaxScore() float64 {
	s := 0.0
	for i, aa := range p.aas {
		if i == 0 && p.pinned {
			s += p.table.Relative(aa, p.cons.StartCodon)
			continue
		}
		if best, ok := p.table.Best(p.code, aa); ok {
			s += p.table.Relative(aa, best)
		}
	}
	return s
}

func (p *Problem) numWindows() int {
	if len(p.gc) == 0 {
		return 0
	}
	return len(p.gc) - p.width + 1
}

// windowCount counts G/C bases in the window starting at nucleotide s.
func (p *Problem) windowCount(s int) int {
	n := 0
	for _, g := range p.gc[s : s+p.width] {
		if g {
			n++
		}
	}
	return n
}

// touched returns the first and last window starts overlapping codon pos.
func (p *Problem) touched(pos int) (first, last int) {
	first = max(0, 3*pos-p.width+1)
	last = min(p.numWindows()-1, 3*pos+2)
	return first, last
}

// windowCounts returns G/C counts for windows first..last, sliding.
func (p *Problem) windowCounts(first, last int) []int {
	if last < first {
		return nil
	}
	counts := make([]int, last-first+1)
	n := p.windowCount(first)
	counts[0] = n
	for s := first + 1; s <= last; s++ {
		if p.gc[s-1] {
			n--
		}
		if p.gc[s+p.width-1] {
			n++
		}
		counts[s-first] = n
	}
	return counts
}

// delta returns the G/C count change inside window s if codon pos became c.
func (p *Problem) delta(pos int, c codon.Codon, s int) int {
	d := 0
	for j := 0; j < 3; j++ {
		i := 3*pos + j
		if i < s || i >= s+p.width {
			continue
		}
		was, now := p.gc[i], codon.IsGC(c[j])
		switch {
		case now && !was:
			d++
		case was && !now:
			d--
		}
	}
	return d
}

// distance returns how far a G/C count lies outside the band.
func (p *Problem) distance(n int) int {
	switch {
	case n < p.lo:
		return p.lo - n
	case n > p.hi:
		return n - p.hi
	}
	return 0
}

func (p *Problem) inBounds(n int) bool {
	return n >= p.lo && n <= p.hi
}

// Violations counts windows whose GC lies outside the band.
func (p *Problem) Violations() int {
	nw := p.numWindows()
	if nw == 0 {
		return 0
	}
	v := 0
	for _, n := range p.windowCounts(0, nw-1) {
		if !p.inBounds(n) {
			v++
		}
	}
	return v
}

// set substitutes codon c at pos and updates the G/C flags.
func (p *Problem) set(pos int, c codon.Codon, phase Phase) {
	p.changes = append(p.changes, Change{Position: pos, From: p.seq[pos], To: c, Phase: phase})
	p.seq[pos] = c
	for j := 0; j < 3; j++ {
		p.gc[3*pos+j] = codon.IsGC(c[j])
	}
}

// mutable reports whether pos may be substituted.
func (p *Problem) mutable(pos int) bool {
	return !(p.pinned && pos == 0)
}

// candidates returns the synonyms for pos by descending weight then codon.
func (p *Problem) candidates(pos int) []codon.Codon {
	aa := p.aas[pos]
	r, ok := p.ranked[aa]
	if !ok {
		r = p.table.Ranked(p.code, aa)
		p.ranked[aa] = r
	}
	return r
}

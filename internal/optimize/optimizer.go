package optimize

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/inodb/codon-optimizer/internal/codon"
	"github.com/inodb/codon-optimizer/internal/usage"
)

// Result is the outcome of one optimization run.
type Result struct {
	Sequence   codon.Sequence
	Satisfied  bool  // every GC window is in the band
	Err        error // wraps ErrUnsatisfiableConstraint when !Satisfied
	Score      float64
	MaxScore   float64
	Iterations int
	Violations int
	Improved   int
	Changes    []Change
}

// Optimizer runs the greedy recoding followed by constraint resolution and
// objective improvement.
type Optimizer struct {
	code   *codon.Map
	cons   Constraints
	opts   Options
	logger *zap.Logger
}

// NewOptimizer creates an optimizer for the given genetic code and constraints.
func NewOptimizer(code *codon.Map, cons Constraints, opts Options) *Optimizer {
	return &Optimizer{
		code:   code,
		cons:   cons,
		opts:   opts,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and warning messages.
func (o *Optimizer) SetLogger(l *zap.Logger) {
	o.logger = l
}

// Constraints returns the configured constraints.
func (o *Optimizer) Constraints() Constraints {
	return o.cons
}

// Code returns the genetic code used for translation.
func (o *Optimizer) Code() *codon.Map {
	return o.code
}

// Optimize recodes original toward table. A nil error with Satisfied false
// means the GC band could not be met; the best-effort sequence is returned.
func (o *Optimizer) Optimize(ctx context.Context, original codon.Sequence, table *usage.Table) (*Result, error) {
	seed, err := Greedy(original, table, o.code)
	if err != nil {
		return nil, err
	}
	p, err := NewProblem(seed, table, o.code, o.cons, o.opts)
	if err != nil {
		return nil, err
	}
	return o.Solve(ctx, p)
}

// Solve runs both phases on an existing problem.
func (o *Optimizer) Solve(ctx context.Context, p *Problem) (*Result, error) {
	res := &Result{Satisfied: true}

	if err := p.ResolveConstraints(ctx); err != nil {
		if !errors.Is(err, ErrUnsatisfiableConstraint) {
			return nil, err
		}
		res.Satisfied = false
		res.Err = err
		o.logger.Warn("GC constraint not satisfied",
			zap.String("organism", p.table.Organism()),
			zap.Error(err))
	}

	improved, err := p.Improve(ctx)
	if err != nil {
		return nil, err
	}

	res.Sequence = p.Sequence()
	res.Score = p.Score()
	res.MaxScore = p.MaxScore()
	res.Iterations = p.Iterations()
	res.Violations = p.Violations()
	res.Improved = improved
	res.Changes = p.Changes()

	o.logger.Debug("optimization finished",
		zap.String("organism", p.table.Organism()),
		zap.Int("codons", len(res.Sequence)),
		zap.Int("iterations", res.Iterations),
		zap.Int("improved", improved),
		zap.Float64("score", res.Score),
		zap.Float64("max_score", res.MaxScore),
		zap.Bool("satisfied", res.Satisfied))

	return res, nil
}

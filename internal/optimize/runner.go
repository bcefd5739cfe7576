package optimize

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/codon-optimizer/internal/codon"
	"github.com/inodb/codon-optimizer/internal/metrics"
	"github.com/inodb/codon-optimizer/internal/usage"
)

// RunResult holds the outcome for one organism.
type RunResult struct {
	Organism string
	Result   *Result
	Metrics  metrics.Result
	Err      error // table lookup or recoding failure for this organism
	Duration time.Duration
}

// Runner optimizes one sequence against several organisms.
type Runner struct {
	optimizer *Optimizer
	provider  usage.Provider
	workers   int
	logger    *zap.Logger
}

// NewRunner creates a runner using opt for every organism.
func NewRunner(opt *Optimizer, provider usage.Provider) *Runner {
	return &Runner{
		optimizer: opt,
		provider:  provider,
		logger:    zap.NewNop(),
	}
}

// SetWorkers sets the number of organisms optimized concurrently.
// If workers is 0, runtime.NumCPU() is used.
func (r *Runner) SetWorkers(workers int) {
	r.workers = workers
}

// SetLogger sets the logger for progress and warning messages.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Run optimizes original for each organism and evaluates the result against
// reference. Results are returned in organism order. Per-organism loading
// errors are reported in RunResult.Err; metric errors abort the run.
func (r *Runner) Run(ctx context.Context, original, reference codon.Sequence, organisms []string) ([]RunResult, error) {
	workers := r.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]RunResult, len(organisms))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, org := range organisms {
		g.Go(func() error {
			rr, err := r.runOne(ctx, original, reference, org)
			if err != nil {
				return err
			}
			results[i] = rr
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, original, reference codon.Sequence, organism string) (RunResult, error) {
	start := time.Now()
	rr := RunResult{Organism: organism}

	table, err := r.provider.Table(organism)
	if err != nil {
		rr.Err = err
		r.logger.Warn("skipping organism", zap.String("organism", organism), zap.Error(err))
		return rr, nil
	}

	res, err := r.optimizer.Optimize(ctx, original, table)
	if err != nil {
		if ctx.Err() != nil {
			return rr, ctx.Err()
		}
		rr.Err = err
		r.logger.Warn("optimization failed", zap.String("organism", organism), zap.Error(err))
		return rr, nil
	}
	rr.Result = res

	m, err := metrics.Evaluate(res.Sequence, reference)
	if err != nil {
		return rr, fmt.Errorf("evaluate %s: %w", organism, err)
	}
	rr.Metrics = m
	rr.Duration = time.Since(start)

	r.logger.Info("organism optimized",
		zap.String("organism", organism),
		zap.Float64("codon_match", m.CodonMatch),
		zap.Float64("nucleotide_match", m.NucleotideMatch),
		zap.Float64("gc", m.GC),
		zap.Bool("satisfied", res.Satisfied),
		zap.Duration("duration", rr.Duration))

	return rr, nil
}

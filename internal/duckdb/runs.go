package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/codon-optimizer/internal/optimize"
)

// Run is one organism's stored optimization outcome.
type Run struct {
	ID              string
	CreatedAt       time.Time
	Organism        string
	Input           FileFingerprint
	Codons          int64
	GCMin           float64
	GCMax           float64
	Window          int64
	StartCodon      string
	CodonMatch      float64
	NucleotideMatch float64
	GC              float64
	Satisfied       bool
	Score           float64
	MaxScore        float64
	Iterations      int64
	Sequence        string
	Error           string // empty when the organism was optimized
}

// OrganismSummary aggregates stored runs for one organism.
type OrganismSummary struct {
	Organism      string
	Runs          int64
	Satisfied     int64
	AvgCodonMatch float64
	AvgGC         float64
}

// NewRunID returns a fresh identifier grouping the organisms of one invocation.
func NewRunID() string {
	return uuid.NewString()
}

// RunsFromResults converts runner output into storable runs sharing id.
func RunsFromResults(id string, at time.Time, input FileFingerprint, cons optimize.Constraints, results []optimize.RunResult) []Run {
	runs := make([]Run, 0, len(results))
	for _, rr := range results {
		r := Run{
			ID:         id,
			CreatedAt:  at.UTC(),
			Organism:   rr.Organism,
			Input:      input,
			GCMin:      cons.GCMin,
			GCMax:      cons.GCMax,
			Window:     int64(cons.Window),
			StartCodon: string(cons.StartCodon),
		}
		if rr.Err != nil {
			r.Error = rr.Err.Error()
		}
		if res := rr.Result; res != nil {
			r.Codons = int64(len(res.Sequence))
			r.CodonMatch = rr.Metrics.CodonMatch
			r.NucleotideMatch = rr.Metrics.NucleotideMatch
			r.GC = rr.Metrics.GC
			r.Satisfied = res.Satisfied
			r.Score = res.Score
			r.MaxScore = res.MaxScore
			r.Iterations = int64(res.Iterations)
			r.Sequence = res.Sequence.String()
		}
		runs = append(runs, r)
	}
	return runs
}

// runKey is the composite key for deduplicating runs before writing.
type runKey struct {
	id, organism string
}

// WriteRuns batch-inserts runs into DuckDB using the Appender API.
// Duplicate (run_id, organism) entries keep the first occurrence.
func (s *Store) WriteRuns(runs []Run) error {
	if len(runs) == 0 {
		return nil
	}

	seen := make(map[runKey]bool, len(runs))
	deduped := make([]Run, 0, len(runs))
	for _, r := range runs {
		k := runKey{r.ID, r.Organism}
		if !seen[k] {
			seen[k] = true
			deduped = append(deduped, r)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "optimization_runs")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range deduped {
		if err := appender.AppendRow(
			r.ID, r.CreatedAt.UTC(), r.Organism,
			r.Input.Path, r.Input.Size, r.Input.mtimeMicros(),
			r.Codons, r.GCMin, r.GCMax, r.Window, r.StartCodon,
			r.CodonMatch, r.NucleotideMatch, r.GC,
			r.Satisfied, r.Score, r.MaxScore, r.Iterations,
			r.Sequence, r.Error,
		); err != nil {
			return fmt.Errorf("append run: %w", err)
		}
	}

	return appender.Flush()
}

// ClearRuns removes all stored runs.
func (s *Store) ClearRuns() error {
	_, err := s.db.Exec("DELETE FROM optimization_runs")
	return err
}

const runColumns = `run_id, created_at, organism,
	input_path, input_size, input_mtime,
	codons, gc_min, gc_max, window_size, start_codon,
	codon_match, nucleotide_match, gc,
	satisfied, score, max_score, iterations,
	sequence, error`

// LookupRun returns every organism stored under a run identifier.
func (s *Store) LookupRun(id string) ([]Run, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+`
		FROM optimization_runs
		WHERE run_id=?
		ORDER BY organism`, id)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// RunsByOrganism returns stored runs for an organism, newest first.
func (s *Store) RunsByOrganism(organism string) ([]Run, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+`
		FROM optimization_runs
		WHERE organism=?
		ORDER BY created_at DESC, run_id`, organism)
	if err != nil {
		return nil, fmt.Errorf("query by organism: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// RecentRuns returns up to limit stored runs, newest first. A limit of 0 or
// less returns all runs.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + `
		FROM optimization_runs
		ORDER BY created_at DESC, run_id, organism`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, int64(limit))
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// RunsForInput returns runs whose input file matches fp by path, size and
// modification time.
func (s *Store) RunsForInput(fp FileFingerprint) ([]Run, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+`
		FROM optimization_runs
		WHERE input_path=? AND input_size=? AND input_mtime=?
		ORDER BY created_at DESC, organism`,
		fp.Path, fp.Size, fp.mtimeMicros())
	if err != nil {
		return nil, fmt.Errorf("query by input: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Summaries aggregates stored runs per organism.
func (s *Store) Summaries() ([]OrganismSummary, error) {
	rows, err := s.db.Query(`SELECT
		organism,
		COUNT(*),
		COUNT(*) FILTER (WHERE satisfied),
		COALESCE(AVG(codon_match) FILTER (WHERE error = ''), 0),
		COALESCE(AVG(gc) FILTER (WHERE error = ''), 0)
		FROM optimization_runs
		GROUP BY organism
		ORDER BY organism`)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []OrganismSummary
	for rows.Next() {
		var sum OrganismSummary
		if err := rows.Scan(&sum.Organism, &sum.Runs, &sum.Satisfied, &sum.AvgCodonMatch, &sum.AvgGC); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}
	return out, nil
}

// scanRuns scans rows into Run slices.
func scanRuns(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		var mtime int64
		if err := rows.Scan(
			&r.ID, &r.CreatedAt, &r.Organism,
			&r.Input.Path, &r.Input.Size, &mtime,
			&r.Codons, &r.GCMin, &r.GCMax, &r.Window, &r.StartCodon,
			&r.CodonMatch, &r.NucleotideMatch, &r.GC,
			&r.Satisfied, &r.Score, &r.MaxScore, &r.Iterations,
			&r.Sequence, &r.Error,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Input.ModTime = mtimeFromMicros(mtime)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

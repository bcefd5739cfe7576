// Package duckdb keeps a queryable history of optimization runs in DuckDB.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding optimization runs.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS optimization_runs (
		run_id VARCHAR,
		created_at TIMESTAMP,
		organism VARCHAR,
		input_path VARCHAR,
		input_size BIGINT,
		input_mtime BIGINT,
		codons BIGINT,
		gc_min DOUBLE,
		gc_max DOUBLE,
		window_size BIGINT,
		start_codon VARCHAR,
		codon_match DOUBLE,
		nucleotide_match DOUBLE,
		gc DOUBLE,
		satisfied BOOLEAN,
		score DOUBLE,
		max_score DOUBLE,
		iterations BIGINT,
		sequence VARCHAR,
		error VARCHAR,
		PRIMARY KEY (run_id, organism)
	)`)
	return err
}

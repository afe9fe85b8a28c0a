// Package history is a queryable, append-only run history: one row per
// generation in a SQLite database, additive to the gob checkpoints and CSV
// reports rather than a replacement for either. Grounded on
// wizardbeard-protogonos's internal/storage SQLiteStore, wired in through
// reporting.HistoryReporter wherever a caller wants queryable run history
// alongside checkpoints and CSV reports.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one generation's row in the history store.
type Record struct {
	RunID          string
	Generation     int
	BestFitness    float64
	SpeciesCount   int
	PopulationSize int
	Timestamp      time.Time
}

// Store is a SQLite-backed append-only log of Records.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates (or reuses) a SQLite database at path and ensures its schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database %q: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history database %q: %w", path, err)
	}
	if err := createSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS generations (
			run_id          TEXT NOT NULL,
			generation      INTEGER NOT NULL,
			best_fitness    REAL NOT NULL,
			species_count   INTEGER NOT NULL,
			population_size INTEGER NOT NULL,
			timestamp       TEXT NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
	`)
	if err != nil {
		return fmt.Errorf("create history schema: %w", err)
	}
	return nil
}

// Append inserts one generation's record, replacing any prior row for the
// same (run_id, generation) pair.
func (s *Store) Append(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generations (run_id, generation, best_fitness, species_count, population_size, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			best_fitness    = excluded.best_fitness,
			species_count   = excluded.species_count,
			population_size = excluded.population_size,
			timestamp       = excluded.timestamp
	`, r.RunID, r.Generation, r.BestFitness, r.SpeciesCount, r.PopulationSize, r.Timestamp.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("append history record: %w", err)
	}
	return nil
}

// Records returns every row recorded for runID, ordered by generation.
func (s *Store) Records(ctx context.Context, runID string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, generation, best_fitness, species_count, population_size, timestamp
		FROM generations WHERE run_id = ? ORDER BY generation ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query history for run %q: %w", runID, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var ts string
		if err := rows.Scan(&r.RunID, &r.Generation, &r.BestFitness, &r.SpeciesCount, &r.PopulationSize, &ts); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		r.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse history timestamp: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

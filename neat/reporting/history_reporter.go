package reporting

import (
	"context"
	"time"

	"github.com/arcadvance/neat-go/neat"
	"github.com/arcadvance/neat-go/neat/history"
)

// HistoryReporter appends one row per generation to a SQLite history.Store,
// giving a training run a queryable log alongside its CSV/gob artifacts.
type HistoryReporter struct {
	store *history.Store
}

// NewHistoryReporter wraps an already-open history.Store.
func NewHistoryReporter(store *history.Store) *HistoryReporter {
	return &HistoryReporter{store: store}
}

func (r *HistoryReporter) OnGeneration(s neat.Stats) error {
	return r.store.Append(context.Background(), history.Record{
		RunID:          s.RunID,
		Generation:     s.Generation,
		BestFitness:    s.BestFitness,
		SpeciesCount:   s.SpeciesCount,
		PopulationSize: s.PopulationSize,
		Timestamp:      time.Now(),
	})
}

// OnNewBestGenome is a no-op: best-genome events live in the slog reporter;
// the history store only tracks per-generation aggregates.
func (r *HistoryReporter) OnNewBestGenome(genome *neat.Genome, generation int) error {
	return nil
}

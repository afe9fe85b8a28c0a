package reporting

import (
	"log/slog"
	"time"

	"github.com/arcadvance/neat-go/neat"
	"github.com/dustin/go-humanize"
)

// SlogReporter is the default reporter: a structured-logging rendition of
// original_source/NEAT/Reporters.cpp's PopulationReporter/NewBestGenomeReporter
// text dumps.
type SlogReporter struct {
	Logger *slog.Logger
}

// NewSlogReporter returns a SlogReporter using slog.Default() when logger is nil.
func NewSlogReporter(logger *slog.Logger) *SlogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogReporter{Logger: logger}
}

func (r *SlogReporter) OnGeneration(s neat.Stats) error {
	r.Logger.Info("generation report",
		"run_id", s.RunID,
		"generation", s.Generation,
		"species", s.SpeciesCount,
		"population", humanize.Comma(int64(s.PopulationSize)),
		"best_fitness", s.BestFitness,
		"average_distance", s.AverageDistance,
		"elapsed", humanize.RelTime(time.Now().Add(-time.Duration(s.Elapsed*float64(time.Second))), time.Now(), "ago", "from now"))

	for _, sp := range s.Species {
		r.Logger.Info("species report",
			"run_id", s.RunID,
			"generation", s.Generation,
			"species_id", sp.ID,
			"size", sp.Size,
			"best_fitness", sp.BestFitness,
			"adjusted_fitness", sp.AdjustedFitness,
			"stagnation", sp.Stagnation)
	}
	return nil
}

func (r *SlogReporter) OnNewBestGenome(genome *neat.Genome, generation int) error {
	if genome == nil {
		return nil
	}
	r.Logger.Info("new best genome found",
		"generation", generation,
		"genome_id", genome.ID,
		"species_id", genome.SpeciesID,
		"fitness", genome.Fitness)
	return nil
}

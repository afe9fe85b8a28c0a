package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arcadvance/neat-go/neat"
	"github.com/gocarina/gocsv"
)

// generationRow is one row of generations.csv.
type generationRow struct {
	RunID           string  `csv:"run_id"`
	Generation      int     `csv:"generation"`
	PopulationSize  int     `csv:"population_size"`
	SpeciesCount    int     `csv:"species_count"`
	BestFitness     float64 `csv:"best_fitness"`
	AverageDistance float64 `csv:"average_distance"`
	ElapsedSeconds  float64 `csv:"elapsed_seconds"`
}

// speciesRow is one row of species.csv, one per species per generation.
type speciesRow struct {
	RunID           string  `csv:"run_id"`
	Generation      int     `csv:"generation"`
	SpeciesID       uint64  `csv:"species_id"`
	Size            int     `csv:"size"`
	BestFitness     float64 `csv:"best_fitness"`
	AdjustedFitness float64 `csv:"adjusted_fitness"`
	Stagnation      int     `csv:"stagnation"`
}

// CSVReporter appends one row per generation to generations.csv and one row
// per species per generation to species.csv, grounded on pthm-soup's
// telemetry.OutputManager header-then-headerless incremental write pattern.
type CSVReporter struct {
	dir string

	generationsFile *os.File
	speciesFile     *os.File

	generationsHeaderWritten bool
	speciesHeaderWritten     bool
}

// NewCSVReporter creates dir if needed and opens generations.csv/species.csv inside it.
func NewCSVReporter(dir string) (*CSVReporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create csv report directory %q: %w", dir, err)
	}

	gf, err := os.Create(filepath.Join(dir, "generations.csv"))
	if err != nil {
		return nil, fmt.Errorf("create generations.csv: %w", err)
	}
	sf, err := os.Create(filepath.Join(dir, "species.csv"))
	if err != nil {
		gf.Close()
		return nil, fmt.Errorf("create species.csv: %w", err)
	}

	return &CSVReporter{dir: dir, generationsFile: gf, speciesFile: sf}, nil
}

func (r *CSVReporter) OnGeneration(s neat.Stats) error {
	row := []generationRow{{
		RunID:           s.RunID,
		Generation:      s.Generation,
		PopulationSize:  s.PopulationSize,
		SpeciesCount:    s.SpeciesCount,
		BestFitness:     s.BestFitness,
		AverageDistance: s.AverageDistance,
		ElapsedSeconds:  s.Elapsed,
	}}
	if err := r.writeGenerations(row); err != nil {
		return err
	}

	rows := make([]speciesRow, 0, len(s.Species))
	for _, sp := range s.Species {
		rows = append(rows, speciesRow{
			RunID:           s.RunID,
			Generation:      s.Generation,
			SpeciesID:       sp.ID,
			Size:            sp.Size,
			BestFitness:     sp.BestFitness,
			AdjustedFitness: sp.AdjustedFitness,
			Stagnation:      sp.Stagnation,
		})
	}
	return r.writeSpecies(rows)
}

func (r *CSVReporter) writeGenerations(rows []generationRow) error {
	var err error
	if !r.generationsHeaderWritten {
		err = gocsv.Marshal(rows, r.generationsFile)
		r.generationsHeaderWritten = true
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, r.generationsFile)
	}
	if err != nil {
		return fmt.Errorf("write generations.csv: %w", err)
	}
	return nil
}

func (r *CSVReporter) writeSpecies(rows []speciesRow) error {
	if len(rows) == 0 {
		return nil
	}
	var err error
	if !r.speciesHeaderWritten {
		err = gocsv.Marshal(rows, r.speciesFile)
		r.speciesHeaderWritten = true
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, r.speciesFile)
	}
	if err != nil {
		return fmt.Errorf("write species.csv: %w", err)
	}
	return nil
}

// OnNewBestGenome is a no-op: the best-genome text dump is the slog
// reporter's concern, not the CSV reporter's.
func (r *CSVReporter) OnNewBestGenome(genome *neat.Genome, generation int) error {
	return nil
}

// Close flushes and closes both CSV files.
func (r *CSVReporter) Close() error {
	var firstErr error
	if err := r.generationsFile.Close(); err != nil {
		firstErr = err
	}
	if err := r.speciesFile.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

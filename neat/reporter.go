package neat

// SpeciesStats is one species' row in a generation snapshot.
type SpeciesStats struct {
	ID              uint64
	Size            int
	BestFitness     float64
	AdjustedFitness float64
	Stagnation      int
}

// Stats is the population-health snapshot passed to Reporter.OnGeneration
// every generation, modeled on original_source/NEAT/Reporters.cpp's
// PopulationReporter::Report text dump.
type Stats struct {
	RunID           string
	Generation      int
	PopulationSize  int
	SpeciesCount    int
	AverageDistance float64
	BestFitness     float64
	Elapsed         float64 // seconds
	Species         []SpeciesStats
}

// Reporter observes a training run, grounded on
// original_source/NEAT/Reporters.h's Reporter/NewBestGenomeReporter split.
// The trainer calls every registered reporter once per generation and again
// whenever the running best genome improves; implementations are never
// called concurrently with themselves.
type Reporter interface {
	OnGeneration(Stats) error
	OnNewBestGenome(genome *Genome, generation int) error
}

// Reporters fans a single call out to every reporter in order, stopping at
// (and returning) the first error.
type Reporters []Reporter

func (rs Reporters) OnGeneration(s Stats) error {
	for _, r := range rs {
		if err := r.OnGeneration(s); err != nil {
			return err
		}
	}
	return nil
}

func (rs Reporters) OnNewBestGenome(genome *Genome, generation int) error {
	for _, r := range rs {
		if err := r.OnNewBestGenome(genome, generation); err != nil {
			return err
		}
	}
	return nil
}

package neat

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"path/filepath"
	"sync"

	"github.com/arcadvance/neat-go/neat/internal/clock"
)

// FitnessFunc scores one genome. Higher is better; a NaN or infinite result
// is sanitized to 0 before it reaches the rest of the pipeline.
type FitnessFunc func(*Genome) float64

// TaskTrainer is the adaptor a caller implements to plug a task into a
// Population: it exposes the network's input/output shape and a per-genome
// scoring rule, and the caller wires TaskTrainer.Evaluate into a
// FitnessFunc.
type TaskTrainer interface {
	NumInputs() int
	NumOutputs() int
	Evaluate(*Genome) float64
}

// Initializer is implemented by a TaskTrainer that needs one-time setup
// (loading a dataset, seeding a synthetic series) before the first generation.
type Initializer interface {
	Initialize() error
}

// Population is the training driver: it owns the live genome pool and the
// current species partition, and RunGeneration advances both by one full
// evaluate/speciate/reproduce cycle.
type Population struct {
	Config   *Config
	Registry *InnovationRegistry
	Species  *SpeciesSet

	Population []*Genome
	byID       map[uint64]*Genome

	Generation int
	Best       *Genome

	// RunID is copied into every Stats passed to Reporters (and so into CSV
	// and history rows); checkpoint paths do not include it. Callers
	// typically set it to uuid.New().String().
	RunID     string
	Reporters Reporters

	rng          *rand.Rand
	nextGenomeID uint64
}

// NewPopulation validates cfg and seeds an initial generation from its
// configured topology.
func NewPopulation(cfg *Config) (*Population, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Population{
		Config:       cfg,
		Registry:     NewInnovationRegistry(1),
		Species:      NewSpeciesSet(),
		rng:          rand.New(rand.NewSource(cfg.Population.RandomSeed)),
		nextGenomeID: 1,
	}
	p.Population = p.freshPopulation()
	return p, nil
}

func (p *Population) freshPopulation() []*Genome {
	size := p.Config.Population.PopulationSize
	pop := make([]*Genome, 0, size)
	p.byID = make(map[uint64]*Genome, size)
	for i := 0; i < size; i++ {
		gt := BuildInitialGenotype(p.rng, &p.Config.Topology, &p.Config.Mutation, p.Registry)
		g := &Genome{ID: p.nextGenomeID, Genotype: gt}
		p.nextGenomeID++
		pop = append(pop, g)
		p.byID[g.ID] = g
	}
	return pop
}

// Run drives RunGeneration until max_generations is exhausted or a winner is
// found, returning the winning genome (nil if the budget ran out first).
func (p *Population) Run(fn FitnessFunc) (*Genome, error) {
	for p.Generation < p.Config.Population.MaxGenerations {
		winner, err := p.RunGeneration(fn)
		if err != nil {
			return nil, err
		}
		if winner != nil {
			return winner, nil
		}
	}
	return nil, nil
}

// RunGeneration executes one full cycle: evaluate, track the best, update
// adjusted fitness, detect stagnation, speciate, allocate offspring, promote
// elites, cull, reproduce and mutate. It returns the best genome, non-nil,
// once stopping_fitness is met.
func (p *Population) RunGeneration(fn FitnessFunc) (*Genome, error) {
	sw := clock.New()

	p.evaluate(fn)

	improved := p.updateBest()
	if improved {
		if p.Config.Observability.Verbose {
			slog.Info("new best genome", "generation", p.Generation, "genome_id", p.Best.ID, "fitness", p.Best.Fitness)
		}
		if err := p.Reporters.OnNewBestGenome(p.Best, p.Generation); err != nil {
			return nil, err
		}
	}

	if p.Config.Population.StoppingFitness > 0 && p.Best != nil && p.Best.Fitness >= p.Config.Population.StoppingFitness {
		if p.Config.Observability.Verbose {
			slog.Info("stopping fitness reached", "generation", p.Generation, "fitness", p.Best.Fitness)
		}
		return p.Best, nil
	}

	for _, s := range p.Species.Species {
		members := s.Genomes(p.byID)
		if len(members) == 0 {
			s.AdjustedFitness = 0
			continue
		}
		sum := 0.0
		for _, g := range members {
			sum += g.Fitness
		}
		s.AdjustedFitness = sum / float64(len(members))
	}

	detectStagnation(p.Species.Species, p.byID, len(p.Population), p.Config.Population.PopulationSize, p.Config.Species.MaxStagnation)
	if removed := purgeStagnant(p.Species); len(removed) > 0 {
		dead := make(map[uint64]bool, len(removed))
		for _, id := range removed {
			dead[id] = true
			delete(p.byID, id)
		}
		kept := p.Population[:0]
		for _, g := range p.Population {
			if !dead[g.ID] {
				kept = append(kept, g)
			}
		}
		p.Population = kept
		if p.Config.Observability.Verbose {
			slog.Info("purged stagnant species", "generation", p.Generation, "removed_genomes", len(removed))
		}
	}

	if len(p.Population) == 0 {
		if p.Config.Observability.Verbose {
			slog.Info("population extinct, reinitializing", "generation", p.Generation)
		}
		p.Population = p.freshPopulation()
		p.Species = NewSpeciesSet()
	}

	p.Species.Speciate(p.rng, p.Population, p.byID, &p.Config.Distance, p.Config.Species.ChooseBestRepresentative)
	AllocateOffspring(p.Species.Species, p.Config.Population.PopulationSize, p.Config.Species.MinSpeciesSize)

	membersBySpecies := make(map[uint64][]*Genome, len(p.Species.Species))
	for _, s := range p.Species.Species {
		membersBySpecies[s.ID] = s.Genomes(p.byID)
	}
	promoteElites(p.Population, membersBySpecies, p.Config.Species.SpeciesElitism)

	best, worst := populationExtremes(p.Population)

	newPopulation := make([]*Genome, 0, p.Config.Population.PopulationSize)
	for _, s := range p.Species.Species {
		roster := reproduceSpecies(p.rng, p.Config, p.Registry, s, membersBySpecies[s.ID], best, worst, &p.nextGenomeID)
		ids := make([]uint64, len(roster))
		for i, g := range roster {
			ids[i] = g.ID
			newPopulation = append(newPopulation, g)
		}
		s.Members = ids
	}

	if p.Config.Reproduction.ReintroduceBestGenome && p.Config.Reproduction.ReintroductionPeriod > 0 &&
		p.Best != nil && p.Generation%p.Config.Reproduction.ReintroductionPeriod == 0 {
		clone := p.Best.Clone()
		clone.ID = p.nextGenomeID
		p.nextGenomeID++
		clone.SpeciesID = 0
		clone.Elite = false
		newPopulation = append(newPopulation, clone)
	}

	p.byID = make(map[uint64]*Genome, len(newPopulation))
	for _, g := range newPopulation {
		p.byID[g.ID] = g
	}
	p.Population = newPopulation

	elapsed := sw.Stop()
	if p.Config.Observability.Verbose {
		slog.Info("generation complete",
			"generation", p.Generation,
			"species", len(p.Species.Species),
			"population", len(p.Population),
			"elapsed", elapsed)
	}

	bestFitness := 0.0
	if p.Best != nil {
		bestFitness = p.Best.Fitness
	}
	speciesStats := make([]SpeciesStats, 0, len(p.Species.Species))
	for _, s := range p.Species.Species {
		best, _ := populationExtremes(s.Genomes(p.byID))
		sBest := 0.0
		if best != nil {
			sBest = best.Fitness
		}
		speciesStats = append(speciesStats, SpeciesStats{
			ID:              s.ID,
			Size:            len(s.Members),
			BestFitness:     sBest,
			AdjustedFitness: s.AdjustedFitness,
			Stagnation:      s.Stagnation,
		})
	}
	if err := p.Reporters.OnGeneration(Stats{
		RunID:           p.RunID,
		Generation:      p.Generation,
		PopulationSize:  len(p.Population),
		SpeciesCount:    len(p.Species.Species),
		AverageDistance: p.Species.LastMeanDistance,
		BestFitness:     bestFitness,
		Elapsed:         elapsed.Seconds(),
		Species:         speciesStats,
	}); err != nil {
		return nil, err
	}

	if cfg := p.Config.Observability; cfg.OutputDir != "" && cfg.CheckpointInterval > 0 && p.Generation%cfg.CheckpointInterval == 0 {
		path := filepath.Join(cfg.OutputDir, fmt.Sprintf("checkpoint-gen%d.gob.gz", p.Generation))
		if err := p.SaveCheckpoint(path); err != nil {
			return nil, err
		}
	}

	p.Generation++
	return nil, nil
}

// evaluate scores every genome, splitting the population into
// Config.Population.NumThreads disjoint index ranges: each worker only
// ever writes the Fitness field of the genomes in its own range.
func (p *Population) evaluate(fn FitnessFunc) {
	n := len(p.Population)
	if n == 0 {
		return
	}
	workers := p.Config.Population.NumThreads
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		for _, g := range p.Population {
			g.Fitness = sanitizeFitness(fn(g))
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= n {
			break
		}
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				p.Population[i].Fitness = sanitizeFitness(fn(p.Population[i]))
			}
		}(lo, hi)
	}
	wg.Wait()
}

func sanitizeFitness(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// updateBest replaces Best with a deep copy of this generation's fittest
// genome whenever it improves on the remembered best, keeping the invariant
// that Best is monotonically non-decreasing and immune to later mutation.
func (p *Population) updateBest() bool {
	var genBest *Genome
	for _, g := range p.Population {
		if genBest == nil || g.Fitness > genBest.Fitness {
			genBest = g
		}
	}
	if genBest == nil {
		return false
	}
	if p.Best == nil || genBest.Fitness > p.Best.Fitness {
		p.Best = genBest.Clone()
		return true
	}
	return false
}

func populationExtremes(population []*Genome) (best, worst *Genome) {
	for _, g := range population {
		if best == nil || g.Fitness > best.Fitness {
			best = g
		}
		if worst == nil || g.Fitness < worst.Fitness {
			worst = g
		}
	}
	return best, worst
}

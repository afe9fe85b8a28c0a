package neat

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	yamlv3 "gopkg.in/yaml.v3"
)

// checkpointState is the binary payload written by SaveCheckpoint. It holds
// everything RunGeneration needs to resume: the live population, the species
// partition, the innovation registry (so new mutations keep assigning ids
// consistent with history), and the trainer's own bookkeeping counters.
type checkpointState struct {
	Population   []*Genome
	Species      *SpeciesSet
	Registry     *InnovationRegistry
	Generation   int
	Best         *Genome
	NextGenomeID uint64
}

// checkpointSummary is the human-readable YAML sidecar written alongside the
// gob checkpoint, grounded on Config.WriteYAML's pattern of a readable
// companion to a binary/ini primary format.
type checkpointSummary struct {
	Generation    int     `yaml:"generation"`
	PopulationSz  int     `yaml:"population_size"`
	SpeciesCount  int     `yaml:"species_count"`
	BestFitness   float64 `yaml:"best_fitness"`
	BestGenomeID  uint64  `yaml:"best_genome_id,omitempty"`
	BestNodeCount int     `yaml:"best_node_count,omitempty"`
	BestConnCount int     `yaml:"best_connection_count,omitempty"`
}

// SaveCheckpoint writes a gzip-compressed gob snapshot of the trainer plus a
// ".yaml" human-readable summary sidecar alongside it, so a checkpoint can be
// inspected without decoding the binary.
func (p *Population) SaveCheckpoint(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create checkpoint file %q: %w", path, err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	defer gz.Close()

	state := checkpointState{
		Population:   p.Population,
		Species:      p.Species,
		Registry:     p.Registry,
		Generation:   p.Generation,
		Best:         p.Best,
		NextGenomeID: p.nextGenomeID,
	}

	if err := gob.NewEncoder(gz).Encode(state); err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("flush checkpoint gzip stream: %w", err)
	}

	summary := checkpointSummary{
		Generation:   p.Generation,
		PopulationSz: len(p.Population),
		SpeciesCount: len(p.Species.Species),
	}
	if p.Best != nil {
		summary.BestFitness = p.Best.Fitness
		summary.BestGenomeID = p.Best.ID
		summary.BestNodeCount = len(p.Best.Genotype.Nodes)
		summary.BestConnCount = len(p.Best.Genotype.Connections)
	}
	sidecarPath := summaryPath(path)
	data, err := yamlv3.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal checkpoint summary: %w", err)
	}
	if err := os.WriteFile(sidecarPath, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint summary %q: %w", sidecarPath, err)
	}

	if p.Config.Observability.Verbose {
		slog.Info("checkpoint saved",
			"path", path,
			"generation", p.Generation,
			"population", humanize.Comma(int64(len(p.Population))))
	}
	return nil
}

// LoadCheckpoint reconstructs a Population from a gob checkpoint previously
// written by SaveCheckpoint, re-attaching the supplied (freshly loaded)
// Config -- the config itself is never part of the binary payload, since it
// is the caller's source of truth on resume. The random number generator is
// reseeded from cfg.Population.RandomSeed; its position at save time is not
// restored.
func LoadCheckpoint(path string, cfg *Config) (*Population, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint file %q: %w", path, err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint gzip stream: %w", err)
	}
	defer gz.Close()

	var state checkpointState
	if err := gob.NewDecoder(gz).Decode(&state); err != nil {
		return nil, fmt.Errorf("decode checkpoint: %w", err)
	}

	byID := make(map[uint64]*Genome, len(state.Population))
	for _, g := range state.Population {
		byID[g.ID] = g
	}
	if state.Species != nil {
		// gob skips the unexported id index, so rebuild it from the species list.
		state.Species.byID = make(map[uint64]*Species, len(state.Species.Species))
		for _, s := range state.Species.Species {
			state.Species.byID[s.ID] = s
		}
	}

	p := &Population{
		Config:       cfg,
		Registry:     state.Registry,
		Species:      state.Species,
		Population:   state.Population,
		byID:         byID,
		Generation:   state.Generation,
		Best:         state.Best,
		rng:          rand.New(rand.NewSource(cfg.Population.RandomSeed)),
		nextGenomeID: state.NextGenomeID,
	}
	return p, nil
}

func summaryPath(checkpointPath string) string {
	if strings.HasSuffix(checkpointPath, ".gob.gz") {
		return strings.TrimSuffix(checkpointPath, ".gob.gz") + ".yaml"
	}
	return checkpointPath + ".yaml"
}

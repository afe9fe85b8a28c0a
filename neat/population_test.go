package neat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallPopulationConfig() *Config {
	cfg := DefaultConfig()
	cfg.Population.PopulationSize = 10
	cfg.Population.MaxGenerations = 5
	cfg.Population.NumThreads = 2
	cfg.Topology.NumInputs = 2
	cfg.Topology.NumOutputs = 1
	return cfg
}

func TestNewPopulationSeedsConfiguredSize(t *testing.T) {
	cfg := smallPopulationConfig()
	p, err := NewPopulation(cfg)
	require.NoError(t, err)
	require.Len(t, p.Population, cfg.Population.PopulationSize)
	for _, g := range p.Population {
		_, ok := p.byID[g.ID]
		assert.Truef(t, ok, "genome %d missing from byID index", g.ID)
	}
}

func TestRunGenerationAdvancesGenerationCounter(t *testing.T) {
	cfg := smallPopulationConfig()
	p, err := NewPopulation(cfg)
	require.NoError(t, err)

	constantFitness := func(g *Genome) float64 { return 1.0 }
	_, err = p.RunGeneration(constantFitness)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Generation)
	require.NotNil(t, p.Best)
	assert.Equal(t, 1.0, p.Best.Fitness)
	assert.NotEmpty(t, p.Population)
}

func TestRunStopsEarlyOnceStoppingFitnessReached(t *testing.T) {
	cfg := smallPopulationConfig()
	cfg.Population.StoppingFitness = 1.0
	cfg.Population.MaxGenerations = 50
	p, err := NewPopulation(cfg)
	require.NoError(t, err)

	winner, err := p.Run(func(g *Genome) float64 { return 1.0 })
	require.NoError(t, err)
	require.NotNil(t, winner, "expected a winner once every genome meets stopping_fitness immediately")
	assert.Less(t, p.Generation, cfg.Population.MaxGenerations)
}

func TestRunReturnsNilWhenBudgetExhaustedWithoutWinner(t *testing.T) {
	cfg := smallPopulationConfig()
	cfg.Population.StoppingFitness = 1000 // unreachable
	cfg.Population.MaxGenerations = 3
	p, err := NewPopulation(cfg)
	require.NoError(t, err)

	winner, err := p.Run(func(g *Genome) float64 { return 0.1 })
	require.NoError(t, err)
	assert.Nil(t, winner)
	assert.Equal(t, cfg.Population.MaxGenerations, p.Generation)
}

func TestSanitizeFitnessReplacesNaNAndInf(t *testing.T) {
	assert.Zero(t, sanitizeFitness(math.NaN()))
	assert.Zero(t, sanitizeFitness(math.Inf(1)))
	assert.Equal(t, 0.5, sanitizeFitness(0.5))
}

package neat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateOffspringSumsToTarget(t *testing.T) {
	species := []*Species{
		{ID: 1, AdjustedFitness: 10},
		{ID: 2, AdjustedFitness: 1},
		{ID: 3, AdjustedFitness: 4},
	}
	AllocateOffspring(species, 100, 2)

	total := 0
	for _, s := range species {
		assert.GreaterOrEqualf(t, s.DesiredPopulation, 2, "species %d below minSpeciesSize", s.ID)
		total += s.DesiredPopulation
	}
	assert.Equal(t, 100, total)
}

func TestAllocateOffspringFallsBackToMinWhenOversubscribed(t *testing.T) {
	species := []*Species{{ID: 1, AdjustedFitness: 1}, {ID: 2, AdjustedFitness: 5}}
	AllocateOffspring(species, 3, 5)

	for _, s := range species {
		assert.Equal(t, 5, s.DesiredPopulation)
	}
}

func TestAllocateOffspringHandlesZeroAdjustedFitness(t *testing.T) {
	species := []*Species{{ID: 1, AdjustedFitness: 0}, {ID: 2, AdjustedFitness: 0}}
	AllocateOffspring(species, 20, 2)

	total := 0
	for _, s := range species {
		total += s.DesiredPopulation
	}
	assert.GreaterOrEqual(t, total, len(species)*2)
}

func TestPromoteElitesMarksTopPerformersOnly(t *testing.T) {
	members := []*Genome{
		{ID: 1, Fitness: 3.0, Elite: true},
		{ID: 2, Fitness: 1.0},
		{ID: 3, Fitness: 5.0},
	}
	population := append([]*Genome{}, members...)
	promoteElites(population, map[uint64][]*Genome{1: members}, 1)

	var eliteCount int
	for _, g := range population {
		if g.Elite {
			eliteCount++
			assert.Equal(t, uint64(3), g.ID, "expected genome 3 (highest fitness) to be elite")
		}
	}
	assert.Equal(t, 1, eliteCount)
}

func TestCullSpeciesElitismKeepsTopSurvivalRate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	members := []*Genome{
		{ID: 1, Fitness: 5}, {ID: 2, Fitness: 4}, {ID: 3, Fitness: 3}, {ID: 4, Fitness: 2}, {ID: 5, Fitness: 1},
	}
	sortByFitnessDesc(members)
	survivors := cullSpecies(rng, members, CullElitism, 0.4, 1, 0)
	require.Len(t, survivors, 2, "floor(5*0.4)=2 survivors expected")
	assert.Equal(t, uint64(1), survivors[0].ID)
	assert.Equal(t, uint64(2), survivors[1].ID)
}

func TestCullSpeciesAlwaysKeepsElites(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	members := []*Genome{
		{ID: 1, Fitness: 1, Elite: true}, {ID: 2, Fitness: 5}, {ID: 3, Fitness: 4}, {ID: 4, Fitness: 3},
	}
	sortByFitnessDesc(members)
	survivors := cullSpecies(rng, members, CullRandom, 0.25, 1, 1)

	var found bool
	for _, g := range survivors {
		if g.ID == 1 {
			found = true
		}
	}
	assert.True(t, found, "expected elite genome to survive culling regardless of fitness rank")
}

func TestCrossoverUniformInheritsEveryGeneID(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := NewGenotype()
	a.Nodes[1] = NodeGene{ID: 1, Kind: NodeInput, Enabled: true}
	a.Connections[10] = ConnectionGene{ID: 10, Src: 1, Dst: 2, Weight: 1, Enabled: true}

	b := NewGenotype()
	b.Nodes[1] = NodeGene{ID: 1, Kind: NodeInput, Enabled: true}
	b.Nodes[2] = NodeGene{ID: 2, Kind: NodeOutput, Enabled: true}
	b.Connections[11] = ConnectionGene{ID: 11, Src: 1, Dst: 2, Weight: 2, Enabled: true}

	child := crossoverUniform(rng, a, b)
	assert.Len(t, child.Nodes, 2, "expected child to inherit union of node ids")
	assert.Len(t, child.Connections, 2, "expected child to inherit union of connection ids")
}

// TestCrossoverUniformNoAveragingNoIDDrift checks that a matching connection
// id comes from exactly one parent, never an average, and that ids absent
// from both parents never appear in the child.
func TestCrossoverUniformNoAveragingNoIDDrift(t *testing.T) {
	a := NewGenotype()
	a.Connections[7] = ConnectionGene{ID: 7, Src: 1, Dst: 2, Weight: 1.0, Enabled: true}

	b := NewGenotype()
	b.Connections[7] = ConnectionGene{ID: 7, Src: 1, Dst: 2, Weight: 3.0, Enabled: true}

	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		child := crossoverUniform(rng, a, b)
		require.Contains(t, child.Connections, uint64(7))
		w := child.Connections[7].Weight
		assert.Truef(t, w == 1.0 || w == 3.0, "expected inherited weight 1.0 or 3.0 (no averaging), got %f", w)
		assert.NotContains(t, child.Connections, uint64(5))
		assert.NotContains(t, child.Connections, uint64(9))
	}
}

func TestCrossoverBandedProducesValidChild(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := NewGenotype()
	a.Nodes[1] = NodeGene{ID: 1, Kind: NodeInput, Enabled: true}
	a.Connections[10] = ConnectionGene{ID: 10, Src: 1, Dst: 5, Weight: 1, Enabled: true}

	b := NewGenotype()
	b.Nodes[1] = NodeGene{ID: 1, Kind: NodeInput, Enabled: true}
	b.Connections[10] = ConnectionGene{ID: 10, Src: 1, Dst: 5, Weight: -1, Enabled: true}

	child := crossoverBanded(rng, a, b, 2)
	require.Len(t, child.Nodes, 1)
	require.Len(t, child.Connections, 1)
}

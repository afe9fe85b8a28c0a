package neat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func speciesTestDistanceConfig(threshold float64) *DistanceConfig {
	return &DistanceConfig{
		ExcessCoefficient:           1.0,
		DisjointCoefficient:         1.0,
		MatchingCoefficient:         0.4,
		DistanceExponent:            1.0,
		DistanceMethod:              DistanceEuclidean,
		SpeciationDistanceThreshold: threshold,
	}
}

func genomeWithWeight(id uint64, weight float64) *Genome {
	gt := NewGenotype()
	gt.Connections[1] = ConnectionGene{ID: 1, Src: 1, Dst: 2, Weight: weight, Enabled: true}
	return &Genome{ID: id, Genotype: gt}
}

func TestSpeciateGroupsSimilarGenomesTogether(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pop := []*Genome{
		genomeWithWeight(1, 0.0),
		genomeWithWeight(2, 0.01),
		genomeWithWeight(3, 10.0),
	}
	byID := map[uint64]*Genome{1: pop[0], 2: pop[1], 3: pop[2]}

	ss := NewSpeciesSet()
	ss.Speciate(rng, pop, byID, speciesTestDistanceConfig(1.0), false)

	require.Len(t, ss.Species, 2, "two similar genomes + one distant")
	assert.Equal(t, pop[0].SpeciesID, pop[1].SpeciesID, "expected genomes 1 and 2 in the same species")
	assert.NotEqual(t, pop[0].SpeciesID, pop[2].SpeciesID, "expected the distant genome 3 in a separate species")
}

func TestSpeciateDropsEmptyUnresolvableSpecies(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ss := NewSpeciesSet()
	// A stale species whose representative no longer exists and gets no new members.
	ss.Species = []*Species{{ID: 1, Representative: 999, Members: []uint64{999}}}
	ss.byID[1] = ss.Species[0]

	pop := []*Genome{genomeWithWeight(1, 0.0)}
	byID := map[uint64]*Genome{1: pop[0]}

	ss.Speciate(rng, pop, byID, speciesTestDistanceConfig(1.0), false)

	for _, s := range ss.Species {
		assert.NotEqual(t, uint64(1), s.ID, "expected stale species with unresolvable representative dropped")
	}
}

func TestSpeciesGenomesSkipsMissingMembers(t *testing.T) {
	s := &Species{Members: []uint64{1, 2, 3}}
	byID := map[uint64]*Genome{1: {ID: 1}, 3: {ID: 3}}

	genomes := s.Genomes(byID)
	assert.Len(t, genomes, 2, "id 2 purged")
}

func TestSpeciesSetGetAndRemove(t *testing.T) {
	ss := NewSpeciesSet()
	s := ss.newSpecies(1)
	require.Same(t, s, ss.Get(s.ID))
	ss.Remove(s.ID)
	assert.Nil(t, ss.Get(s.ID))
	assert.Empty(t, ss.Species)
}

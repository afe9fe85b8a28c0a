package neat

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// randSource adapts *rand.Rand to the golang.org/x/exp/rand.Source interface
// expected by sampleuv.NewWeighted, which uses a uint64 Seed signature while
// math/rand.Rand uses int64.
type randSource struct {
	rng *rand.Rand
}

func (s randSource) Uint64() uint64 { return s.rng.Uint64() }

func (s randSource) Seed(seed uint64) { s.rng.Seed(int64(seed)) }

// weightedSampleWithoutReplacement draws up to k distinct genomes from pool,
// each pick's odds proportional to weight(g), never repeating a pick. It
// backs the RouletteWheel, Rank, and Boltzmann culling methods, each of
// which differs only in how it assigns weight to a pool member.
func weightedSampleWithoutReplacement(rng *rand.Rand, pool []*Genome, weight func(*Genome) float64, k int) []*Genome {
	if k <= 0 || len(pool) == 0 {
		return nil
	}
	if k >= len(pool) {
		out := make([]*Genome, len(pool))
		copy(out, pool)
		return out
	}

	weights := make([]float64, len(pool))
	total := 0.0
	for i, g := range pool {
		w := weight(g)
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}
	if total == 0 {
		// Every candidate weighs nothing; fall back to a uniform draw so the
		// method still returns k survivors instead of none.
		idx := rng.Perm(len(pool))[:k]
		out := make([]*Genome, k)
		for i, p := range idx {
			out[i] = pool[p]
		}
		return out
	}

	sampler := sampleuv.NewWeighted(weights, randSource{rng: rng})
	out := make([]*Genome, 0, k)
	for len(out) < k {
		idx, ok := sampler.Take()
		if !ok {
			break
		}
		out = append(out, pool[idx])
	}
	return out
}

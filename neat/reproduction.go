package neat

import (
	"math"
	"math/rand"
	"sort"
)

// AllocateOffspring turns each species' adjusted fitness into a target
// population for the next generation, summing to targetPopulation (barring
// the oversubscribed early-exit). Quotas are written back onto each
// species' DesiredPopulation field.
func AllocateOffspring(species []*Species, targetPopulation, minSpeciesSize int) {
	n := len(species)
	if n == 0 {
		return
	}

	if n*minSpeciesSize > targetPopulation {
		for _, s := range species {
			s.DesiredPopulation = minSpeciesSize
		}
		return
	}

	minAdjusted := math.Inf(1)
	for _, s := range species {
		if s.AdjustedFitness < minAdjusted {
			minAdjusted = s.AdjustedFitness
		}
	}
	shift := 0.0
	if minAdjusted < 0 {
		shift = -minAdjusted
	}

	shifted := make([]float64, n)
	total := 0.0
	for i, s := range species {
		shifted[i] = s.AdjustedFitness + shift
		total += shifted[i]
	}

	quotas := make([]int, n)
	for i := range species {
		if total == 0 {
			quotas[i] = minSpeciesSize
			continue
		}
		q := int(math.Floor(shifted[i] / total * float64(targetPopulation)))
		if q < minSpeciesSize {
			q = minSpeciesSize
		}
		quotas[i] = q
	}

	assigned := 0
	for _, q := range quotas {
		assigned += q
	}
	slack := targetPopulation - assigned
	for i := 0; slack > 0; i++ {
		quotas[i%n]++
		slack--
	}

	assigned = 0
	for _, q := range quotas {
		assigned += q
	}
	excess := assigned - targetPopulation
	for i := 0; excess > 0; i++ {
		idx := i % n
		if quotas[idx] > minSpeciesSize {
			quotas[idx]--
			excess--
		}
		if i > n*targetPopulation+n {
			break // every quota is already pinned at the floor; nothing left to trim
		}
	}

	for i, s := range species {
		s.DesiredPopulation = quotas[i]
	}
}

// promoteElites clears the elite flag across the whole population, then
// marks the fittest speciesElitism members of each species as elite.
// membersBySpecies must already contain every live genome grouped by its
// current species.
func promoteElites(population []*Genome, membersBySpecies map[uint64][]*Genome, speciesElitism int) {
	for _, g := range population {
		g.Elite = false
	}
	for _, members := range membersBySpecies {
		sortByFitnessDesc(members)
		for i := 0; i < speciesElitism && i < len(members); i++ {
			members[i].Elite = true
		}
	}
}

// cullSpecies trims a fitness-sorted (descending, id-descending tie-break)
// species roster down to its survivors for the next generation. Elites are
// always retained regardless of method.
func cullSpecies(rng *rand.Rand, sorted []*Genome, method CullingMethod, survivalRate float64, minSpeciesSize, speciesElitism int) []*Genome {
	n := len(sorted)
	if n == 0 {
		return nil
	}

	k := int(math.Floor(float64(n) * survivalRate))
	if k < minSpeciesSize {
		k = minSpeciesSize
	}
	if k < speciesElitism {
		k = speciesElitism
	}
	if k > n {
		k = n
	}

	if method == CullElitism {
		out := make([]*Genome, k)
		copy(out, sorted[:k])
		return out
	}

	survivors := make([]*Genome, 0, k)
	kept := make(map[uint64]bool, k)
	for _, g := range sorted {
		if g.Elite {
			survivors = append(survivors, g)
			kept[g.ID] = true
		}
	}

	pool := make([]*Genome, 0, n)
	rank := make(map[uint64]int, n)
	for i, g := range sorted {
		rank[g.ID] = i
		if !kept[g.ID] {
			pool = append(pool, g)
		}
	}

	remaining := k - len(survivors)
	if remaining <= 0 {
		return survivors[:k]
	}

	switch method {
	case CullRandom:
		perm := rng.Perm(len(pool))
		for i := 0; i < remaining && i < len(perm); i++ {
			survivors = append(survivors, pool[perm[i]])
		}
	case CullRouletteWheel:
		survivors = append(survivors, weightedSampleWithoutReplacement(rng, pool, func(g *Genome) float64 {
			return math.Max(g.Fitness, 0)
		}, remaining)...)
	case CullRank:
		survivors = append(survivors, weightedSampleWithoutReplacement(rng, pool, func(g *Genome) float64 {
			return float64(n - rank[g.ID])
		}, remaining)...)
	case CullBoltzmann:
		survivors = append(survivors, weightedSampleWithoutReplacement(rng, pool, func(g *Genome) float64 {
			return math.Exp(g.Fitness)
		}, remaining)...)
	default:
		perm := rng.Perm(len(pool))
		for i := 0; i < remaining && i < len(perm); i++ {
			survivors = append(survivors, pool[perm[i]])
		}
	}
	return survivors
}

// selectParents implements the eight pairing strategies of the Glossary.
// pool is the candidate parent set within the reproducing species; best and
// worst are the fittest/least-fit genome across the whole population (used
// by Fittest/Weakest/Alternating, which cross a within-species partner with a
// global extreme rather than staying species-local).
func selectParents(rng *rand.Rand, strategy PairingStrategy, pool []*Genome, best, worst *Genome, dcfg *DistanceConfig, offspringIndex int) (*Genome, *Genome) {
	if len(pool) == 1 {
		return pool[0], pool[0]
	}

	switch strategy {
	case PairFittest:
		return best, pool[rng.Intn(len(pool))]
	case PairWeakest:
		return worst, pool[rng.Intn(len(pool))]
	case PairAlternating:
		if offspringIndex%2 == 0 {
			return best, pool[rng.Intn(len(pool))]
		}
		return worst, pool[rng.Intn(len(pool))]
	case PairSimilarFitness, PairDissimilarFitness:
		p1 := pool[rng.Intn(len(pool))]
		partner := p1
		haveCandidate := false
		for _, cand := range pool {
			if cand.ID == p1.ID {
				continue
			}
			d := math.Abs(cand.Fitness - p1.Fitness)
			pd := math.Abs(partner.Fitness - p1.Fitness)
			if !haveCandidate ||
				(strategy == PairSimilarFitness && d < pd) ||
				(strategy == PairDissimilarFitness && d > pd) {
				partner = cand
				haveCandidate = true
			}
		}
		return p1, partner
	case PairProximity, PairDiversity:
		p1 := pool[rng.Intn(len(pool))]
		partner := p1
		bestDist := -1.0
		for _, cand := range pool {
			if cand.ID == p1.ID {
				continue
			}
			d := Distance(p1.Genotype, cand.Genotype, dcfg)
			if bestDist < 0 ||
				(strategy == PairProximity && d < bestDist) ||
				(strategy == PairDiversity && d > bestDist) {
				partner = cand
				bestDist = d
			}
		}
		return p1, partner
	default: // PairRandom
		return pool[rng.Intn(len(pool))], pool[rng.Intn(len(pool))]
	}
}

// crossover dispatches to the configured gene-combination rule.
func crossover(rng *rand.Rand, a, b *Genotype, kind CrossoverKind, points int) *Genotype {
	switch kind {
	case CrossoverSinglePoint:
		return crossoverBanded(rng, a, b, 1)
	case CrossoverTwoPoint:
		return crossoverBanded(rng, a, b, 2)
	case CrossoverMultipoint:
		if points < 1 {
			points = 1
		}
		return crossoverBanded(rng, a, b, points)
	default: // CrossoverUniform
		return crossoverUniform(rng, a, b)
	}
}

// crossoverUniform: every gene id present in either parent is copied from
// whichever parent has it; ids present in both are a 50/50 coin flip.
func crossoverUniform(rng *rand.Rand, a, b *Genotype) *Genotype {
	child := NewGenotype()
	for id, na := range a.Nodes {
		if nb, ok := b.Nodes[id]; ok {
			if rng.Float64() < 0.5 {
				child.Nodes[id] = na
			} else {
				child.Nodes[id] = nb
			}
		} else {
			child.Nodes[id] = na
		}
	}
	for id, nb := range b.Nodes {
		if _, ok := a.Nodes[id]; !ok {
			child.Nodes[id] = nb
		}
	}
	for id, ca := range a.Connections {
		if cb, ok := b.Connections[id]; ok {
			if rng.Float64() < 0.5 {
				child.Connections[id] = ca
			} else {
				child.Connections[id] = cb
			}
		} else {
			child.Connections[id] = ca
		}
	}
	for id, cb := range b.Connections {
		if _, ok := a.Connections[id]; !ok {
			child.Connections[id] = cb
		}
	}
	return child
}

// crossoverBanded implements SinglePoint/TwoPoint/Multipoint: numPoints
// random cut points over the shared gene-id space divide it into bands that
// alternate between parent A (even bands) and parent B (odd bands); a gene
// present only on the off-parent for its band is still inherited from
// whichever parent actually carries it.
func crossoverBanded(rng *rand.Rand, a, b *Genotype, numPoints int) *Genotype {
	maxID := a.MaxGeneID()
	if m := b.MaxGeneID(); m > maxID {
		maxID = m
	}

	cuts := make([]uint64, numPoints)
	for i := range cuts {
		cuts[i] = uint64(rng.Int63n(int64(maxID) + 1))
	}
	sort.Slice(cuts, func(i, j int) bool { return cuts[i] < cuts[j] })

	bandOf := func(id uint64) int {
		band := 0
		for _, c := range cuts {
			if id >= c {
				band++
			}
		}
		return band % 2
	}

	ids := make(map[uint64]bool)
	for id := range a.Nodes {
		ids[id] = true
	}
	for id := range b.Nodes {
		ids[id] = true
	}
	for id := range a.Connections {
		ids[id] = true
	}
	for id := range b.Connections {
		ids[id] = true
	}

	child := NewGenotype()
	for id := range ids {
		primary, secondary := a, b
		if bandOf(id) == 1 {
			primary, secondary = b, a
		}
		if n, ok := primary.Nodes[id]; ok {
			child.Nodes[id] = n
			continue
		}
		if n, ok := secondary.Nodes[id]; ok {
			child.Nodes[id] = n
			continue
		}
		if c, ok := primary.Connections[id]; ok {
			child.Connections[id] = c
			continue
		}
		if c, ok := secondary.Connections[id]; ok {
			child.Connections[id] = c
		}
	}
	return child
}

// reproduceSpecies runs culling then pairing/crossover/mutation for one
// species, returning its full next-generation roster (survivors plus fresh
// offspring). best/worst are the population-wide fitness extremes used by
// the Fittest/Weakest/Alternating pairing strategies.
func reproduceSpecies(rng *rand.Rand, cfg *Config, reg *InnovationRegistry, s *Species, members []*Genome, best, worst *Genome, nextID *uint64) []*Genome {
	if len(members) == 0 {
		return nil
	}
	sortByFitnessDesc(members)
	survivors := cullSpecies(rng, members, cfg.Reproduction.CullingMethod, cfg.Species.SurvivalRate, cfg.Species.MinSpeciesSize, cfg.Species.SpeciesElitism)

	want := s.DesiredPopulation
	if want <= len(survivors) {
		if want < 1 {
			want = 1
		}
		sortByFitnessDesc(survivors)
		return survivors[:want]
	}

	next := make([]*Genome, len(survivors))
	copy(next, survivors)

	needed := want - len(survivors)
	for i := 0; i < needed; i++ {
		var child *Genome
		switch {
		case rng.Float64() < cfg.Reproduction.CrossoverRate && len(survivors) >= 2:
			p1, p2 := selectParents(rng, cfg.Reproduction.PairingStrategy, survivors, best, worst, &cfg.Distance, i)
			gt := crossover(rng, p1.Genotype, p2.Genotype, cfg.Reproduction.CrossoverKind, cfg.Reproduction.CrossoverPoints)
			sid := p1.SpeciesID
			if rng.Float64() < 0.5 {
				sid = p2.SpeciesID
			}
			child = &Genome{ID: *nextID, SpeciesID: sid, Genotype: gt}
		case rng.Float64() < 0.5:
			parent := survivors[rng.Intn(len(survivors))]
			child = parent.Clone()
			child.ID = *nextID
			child.Elite = false
		default:
			gt := BuildInitialGenotype(rng, &cfg.Topology, &cfg.Mutation, reg)
			child = &Genome{ID: *nextID, SpeciesID: s.ID, Genotype: gt}
		}
		*nextID++

		if rng.Float64() < cfg.Mutation.MutationRate {
			child.Genotype.Mutate(rng, &cfg.Mutation, reg)
		}
		next = append(next, child)
	}
	return next
}

package neat

// detectStagnation compares each species' current generation's adjusted
// fitness against its running best; a species that
// hasn't improved in max_stagnation generations (or max_stagnation/3 once the
// population has overgrown twice the target) is flagged stagnant. A species
// left with neither a resolvable representative nor members is stagnant
// regardless of its counter.
func detectStagnation(species []*Species, byID map[uint64]*Genome, populationSize, targetPopulation, maxStagnation int) {
	for _, s := range species {
		if s.AdjustedFitness > s.BestAdjustedFitness {
			s.BestAdjustedFitness = s.AdjustedFitness
			s.Stagnation = 0
		} else {
			s.Stagnation++
		}

		stagnant := false
		if populationSize > 2*targetPopulation && s.Stagnation >= maxStagnation/3 {
			stagnant = true
		} else if s.Stagnation >= maxStagnation {
			stagnant = true
		}
		if len(s.Members) == 0 && byID[s.Representative] == nil {
			stagnant = true
		}
		s.IsStagnant = stagnant
	}
}

// purgeStagnant removes every stagnant species from ss, returning the ids of
// the genomes that belonged to them so the caller can drop them from the
// population too. The purge is skipped when the set holds only one species
// (or none), so a lone stagnant species is never eliminated; when several
// species are all stagnant, every one of them is removed.
func purgeStagnant(ss *SpeciesSet) []uint64 {
	if len(ss.Species) <= 1 {
		return nil
	}

	var removedMembers []uint64
	kept := ss.Species[:0]
	newByID := make(map[uint64]*Species)
	for _, s := range ss.Species {
		if s.IsStagnant {
			removedMembers = append(removedMembers, s.Members...)
			continue
		}
		kept = append(kept, s)
		newByID[s.ID] = s
	}
	ss.Species = kept
	ss.byID = newByID
	return removedMembers
}

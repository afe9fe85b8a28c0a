package neat

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Species is a bucket of genomes grouped by genetic similarity; it tracks
// stagnation bookkeeping and the offspring quota the allocator assigns it.
type Species struct {
	ID                 uint64
	Representative      uint64 // genome id
	Members             []uint64
	AdjustedFitness     float64
	BestAdjustedFitness float64
	Stagnation          int
	IsStagnant          bool
	DesiredPopulation   int
}

// SpeciesSet owns the current generation's species partition.
type SpeciesSet struct {
	NextID   uint64
	Species  []*Species // ordered by declaration (id order), decisive for tie-breaks
	byID     map[uint64]*Species
	LastMeanDistance float64
	LastStdDevDistance float64
}

// NewSpeciesSet creates an empty species set; the first species created will have id 1.
func NewSpeciesSet() *SpeciesSet {
	return &SpeciesSet{NextID: 1, byID: make(map[uint64]*Species)}
}

func (ss *SpeciesSet) newSpecies(rep uint64) *Species {
	s := &Species{ID: ss.NextID, Representative: rep, Members: []uint64{rep}}
	ss.NextID++
	ss.Species = append(ss.Species, s)
	ss.byID[s.ID] = s
	return s
}

// Speciate picks a representative per existing species, then places each
// genome, in population order, into the first species whose representative
// it matches within the distance threshold, else founds a new species.
func (ss *SpeciesSet) Speciate(rng *rand.Rand, population []*Genome, byID map[uint64]*Genome, dcfg *DistanceConfig, chooseBest bool) {
	if len(ss.Species) == 0 && len(population) > 0 {
		ss.newSpecies(population[0].ID)
	}

	for _, s := range ss.Species {
		var rep uint64
		if chooseBest {
			var best *Genome
			for _, mid := range s.Members {
				m := byID[mid]
				if m == nil {
					continue
				}
				if best == nil || m.Fitness > best.Fitness {
					best = m
				}
			}
			if best != nil {
				rep = best.ID
			}
		} else if len(s.Members) > 0 {
			rep = s.Members[rng.Intn(len(s.Members))]
		}
		s.Representative = rep
		s.Members = nil
	}

	var distances []float64
	for _, g := range population {
		placed := false
		for _, s := range ss.Species {
			repGenome := byID[s.Representative]
			if repGenome == nil {
				continue
			}
			d := Distance(g.Genotype, repGenome.Genotype, dcfg)
			distances = append(distances, d)
			if d < dcfg.SpeciationDistanceThreshold {
				s.Members = append(s.Members, g.ID)
				g.SpeciesID = s.ID
				placed = true
				break
			}
		}
		if !placed {
			s := ss.newSpecies(g.ID)
			g.SpeciesID = s.ID
		}
	}

	// drop species left with no representative and no members
	kept := ss.Species[:0]
	newByID := make(map[uint64]*Species)
	for _, s := range ss.Species {
		if len(s.Members) == 0 && byID[s.Representative] == nil {
			continue
		}
		kept = append(kept, s)
		newByID[s.ID] = s
	}
	ss.Species = kept
	ss.byID = newByID

	if len(distances) > 0 {
		ss.LastMeanDistance = stat.Mean(distances, nil)
		if len(distances) > 1 {
			ss.LastStdDevDistance = stat.StdDev(distances, nil)
		}
	}
}

// Genomes resolves the species' member ids against byID, skipping any id no
// longer present (e.g. purged by an earlier stagnation pass).
func (s *Species) Genomes(byID map[uint64]*Genome) []*Genome {
	out := make([]*Genome, 0, len(s.Members))
	for _, id := range s.Members {
		if g := byID[id]; g != nil {
			out = append(out, g)
		}
	}
	return out
}

// Get returns the species with the given id, or nil.
func (ss *SpeciesSet) Get(id uint64) *Species {
	return ss.byID[id]
}

// Remove drops a species from the set by id.
func (ss *SpeciesSet) Remove(id uint64) {
	delete(ss.byID, id)
	out := ss.Species[:0]
	for _, s := range ss.Species {
		if s.ID != id {
			out = append(out, s)
		}
	}
	ss.Species = out
}

// sortByFitnessDesc orders members by fitness descending, breaking ties by
// id descending; elite promotion, culling and reproduction rely on it.
func sortByFitnessDesc(members []*Genome) {
	sort.Slice(members, func(i, j int) bool {
		if members[i].Fitness != members[j].Fitness {
			return members[i].Fitness > members[j].Fitness
		}
		return members[i].ID > members[j].ID
	})
}

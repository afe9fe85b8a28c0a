package neat

import (
	"math"
	"math/rand"
	"sort"
)

// Genotype is the pair of gene maps that make up one candidate network's
// hereditary material, keyed by id rather than position.
type Genotype struct {
	Nodes       map[uint64]NodeGene
	Connections map[uint64]ConnectionGene
}

// NewGenotype returns an empty genotype.
func NewGenotype() *Genotype {
	return &Genotype{
		Nodes:       make(map[uint64]NodeGene),
		Connections: make(map[uint64]ConnectionGene),
	}
}

// Clone deep-copies a genotype so that mutating the copy never touches the original.
func (g *Genotype) Clone() *Genotype {
	out := &Genotype{
		Nodes:       make(map[uint64]NodeGene, len(g.Nodes)),
		Connections: make(map[uint64]ConnectionGene, len(g.Connections)),
	}
	for id, n := range g.Nodes {
		out.Nodes[id] = n
	}
	for id, c := range g.Connections {
		out.Connections[id] = c
	}
	return out
}

// Prune removes connections whose endpoints are missing or disabled, restoring
// the invariant that every connection's endpoints resolve to enabled nodes,
// after a node removal.
func (g *Genotype) Prune() {
	for id, c := range g.Connections {
		src, srcOK := g.Nodes[c.Src]
		dst, dstOK := g.Nodes[c.Dst]
		if !srcOK || !dstOK || !src.Enabled || !dst.Enabled {
			delete(g.Connections, id)
		}
	}
}

// Compact renumbers node and connection ids to a contiguous range, an opt-in
// checkpoint-time maintenance step; it must never run on the hot evolutionary
// path since it would break innovation-id alignment across live genomes.
func (g *Genotype) Compact() {
	nodeIDs := g.sortedNodeIDs()
	nodeRemap := make(map[uint64]uint64, len(nodeIDs))
	newNodes := make(map[uint64]NodeGene, len(nodeIDs))
	for i, id := range nodeIDs {
		newID := uint64(i)
		nodeRemap[id] = newID
		n := g.Nodes[id]
		n.ID = newID
		newNodes[newID] = n
	}

	connIDs := g.sortedConnectionIDs()
	newConns := make(map[uint64]ConnectionGene, len(connIDs))
	for i, id := range connIDs {
		c := g.Connections[id]
		c.ID = uint64(i)
		c.Src = nodeRemap[c.Src]
		c.Dst = nodeRemap[c.Dst]
		newConns[c.ID] = c
	}

	g.Nodes = newNodes
	g.Connections = newConns
}

func (g *Genotype) sortedNodeIDs() []uint64 {
	ids := make([]uint64, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (g *Genotype) sortedConnectionIDs() []uint64 {
	ids := make([]uint64, 0, len(g.Connections))
	for id := range g.Connections {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Mutate applies the nine mutation operators per the mode configured
// (Single: one operator chosen uniformly then gated by its own rate; Multi:
// every operator gated independently), using reg to mint ids for any new
// structural genes.
func (g *Genotype) Mutate(rng *rand.Rand, cfg *MutationConfig, reg *InnovationRegistry) {
	kinds := []MutationKind{
		MutateAddNode, MutateAddConnection, MutateRemoveNode, MutateRemoveConnection,
		MutateWeight, MutateBias, MutateActivation, MutateAggregation, MutateToggleConnection,
	}

	apply := func(k MutationKind) {
		switch k {
		case MutateAddNode:
			if rng.Float64() < cfg.AddNodeRate {
				g.mutateAddNode(rng, reg)
			}
		case MutateAddConnection:
			if rng.Float64() < cfg.AddConnectionRate {
				g.mutateAddConnection(rng, reg)
			}
		case MutateRemoveNode:
			if rng.Float64() < cfg.RemoveNodeRate {
				g.mutateRemoveNode(rng)
			}
		case MutateRemoveConnection:
			if rng.Float64() < cfg.RemoveConnectionRate {
				g.mutateRemoveConnection(rng)
			}
		case MutateWeight:
			if rng.Float64() < cfg.WeightRate {
				g.mutateWeight(rng, cfg)
			}
		case MutateBias:
			if rng.Float64() < cfg.BiasRate {
				g.mutateBias(rng, cfg)
			}
		case MutateActivation:
			if rng.Float64() < cfg.ActivationRate {
				g.mutateActivation(rng, cfg)
			}
		case MutateAggregation:
			if rng.Float64() < cfg.AggregationRate {
				g.mutateAggregation(rng, cfg)
			}
		case MutateToggleConnection:
			if rng.Float64() < cfg.ToggleConnectionRate {
				g.mutateToggleConnection(rng)
			}
		}
	}

	if cfg.Mode == MutationSingle {
		apply(kinds[rng.Intn(len(kinds))])
		return
	}
	for _, k := range kinds {
		apply(k)
	}
}

func (g *Genotype) randomConnectionID(rng *rand.Rand) (uint64, bool) {
	if len(g.Connections) == 0 {
		return 0, false
	}
	ids := g.sortedConnectionIDs()
	return ids[rng.Intn(len(ids))], true
}

func (g *Genotype) randomNodeID(rng *rand.Rand) (uint64, bool) {
	if len(g.Nodes) == 0 {
		return 0, false
	}
	ids := g.sortedNodeIDs()
	return ids[rng.Intn(len(ids))], true
}

func (g *Genotype) mutateAddNode(rng *rand.Rand, reg *InnovationRegistry) {
	connID, ok := g.randomConnectionID(rng)
	if !ok {
		return
	}
	conn := g.Connections[connID]
	conn.Enabled = false
	g.Connections[connID] = conn

	newID, err := reg.Acquire(MutateAddNode, GeneNode, conn.Src, conn.Dst)
	if err != nil {
		return
	}
	if _, exists := g.Nodes[newID]; exists {
		return
	}
	g.Nodes[newID] = NodeGene{
		ID:          newID,
		Kind:        NodeHidden,
		Activation:  ActivationSigmoid,
		Aggregation: AggregateSum,
		Bias:        0,
		Enabled:     true,
	}

	inID, err := reg.Acquire(MutateAddConnection, GeneConnection, conn.Src, newID)
	if err == nil {
		if _, exists := g.Connections[inID]; !exists {
			g.Connections[inID] = ConnectionGene{ID: inID, Src: conn.Src, Dst: newID, Weight: 1.0, Enabled: true}
		}
	}
	outID, err := reg.Acquire(MutateAddConnection, GeneConnection, newID, conn.Dst)
	if err == nil {
		if _, exists := g.Connections[outID]; !exists {
			g.Connections[outID] = ConnectionGene{ID: outID, Src: newID, Dst: conn.Dst, Weight: conn.Weight, Enabled: true}
		}
	}
}

func (g *Genotype) mutateAddConnection(rng *rand.Rand, reg *InnovationRegistry) {
	if len(g.Nodes) < 2 {
		return
	}
	var nonOutput, nonInput []uint64
	for id, n := range g.Nodes {
		if n.Kind != NodeOutput {
			nonOutput = append(nonOutput, id)
		}
		if n.Kind != NodeInput {
			nonInput = append(nonInput, id)
		}
	}
	if len(nonOutput) == 0 || len(nonInput) == 0 {
		return
	}
	src := nonOutput[rng.Intn(len(nonOutput))]
	dst := nonInput[rng.Intn(len(nonInput))]
	if src == dst {
		return
	}
	id, err := reg.Acquire(MutateAddConnection, GeneConnection, src, dst)
	if err != nil {
		return
	}
	if _, exists := g.Connections[id]; exists {
		return
	}
	g.Connections[id] = ConnectionGene{ID: id, Src: src, Dst: dst, Weight: 1.0, Enabled: true}
}

func (g *Genotype) mutateRemoveNode(rng *rand.Rand) {
	var hidden []uint64
	for id, n := range g.Nodes {
		if n.Kind == NodeHidden {
			hidden = append(hidden, id)
		}
	}
	if len(hidden) == 0 {
		return
	}
	sort.Slice(hidden, func(i, j int) bool { return hidden[i] < hidden[j] })
	victim := hidden[rng.Intn(len(hidden))]
	delete(g.Nodes, victim)
	g.Prune()
}

func (g *Genotype) mutateRemoveConnection(rng *rand.Rand) {
	id, ok := g.randomConnectionID(rng)
	if !ok {
		return
	}
	delete(g.Connections, id)
}

func (g *Genotype) mutateWeight(rng *rand.Rand, cfg *MutationConfig) {
	id, ok := g.randomConnectionID(rng)
	if !ok {
		return
	}
	c := g.Connections[id]
	delta := (rng.Float64()*2 - 1) * cfg.WeightVariance
	c.Weight = clamp(c.Weight+delta, cfg.WeightMin, cfg.WeightMax)
	g.Connections[id] = c
}

func (g *Genotype) mutateBias(rng *rand.Rand, cfg *MutationConfig) {
	id, ok := g.randomNodeID(rng)
	if !ok {
		return
	}
	n := g.Nodes[id]
	delta := (rng.Float64()*2 - 1) * cfg.BiasVariance
	n.Bias = clamp(n.Bias+delta, cfg.BiasMin, cfg.BiasMax)
	g.Nodes[id] = n
}

func (g *Genotype) mutateActivation(rng *rand.Rand, cfg *MutationConfig) {
	var candidates []uint64
	for id, n := range g.Nodes {
		if n.Kind != NodeInput {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 || len(cfg.AllowedActivations) == 0 {
		return
	}
	id := candidates[rng.Intn(len(candidates))]
	n := g.Nodes[id]
	n.Activation = cfg.AllowedActivations[rng.Intn(len(cfg.AllowedActivations))]
	g.Nodes[id] = n
}

func (g *Genotype) mutateAggregation(rng *rand.Rand, cfg *MutationConfig) {
	var candidates []uint64
	for id, n := range g.Nodes {
		if n.Kind != NodeInput {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 || len(cfg.AllowedAggregations) == 0 {
		return
	}
	id := candidates[rng.Intn(len(candidates))]
	n := g.Nodes[id]
	n.Aggregation = cfg.AllowedAggregations[rng.Intn(len(cfg.AllowedAggregations))]
	g.Nodes[id] = n
}

func (g *Genotype) mutateToggleConnection(rng *rand.Rand) {
	id, ok := g.randomConnectionID(rng)
	if !ok {
		return
	}
	c := g.Connections[id]
	c.Enabled = !c.Enabled
	g.Connections[id] = c
}

// MaxGeneID returns the largest node/connection id present, used as the
// upper bound of crossover-point selection.
func (g *Genotype) MaxGeneID() uint64 {
	var max uint64
	for id := range g.Nodes {
		if id > max {
			max = id
		}
	}
	for id := range g.Connections {
		if id > max {
			max = id
		}
	}
	return max
}

// poweredAbs is a small helper used by the distance metric for the
// configurable exponent term; math.Pow with exponent 1 degenerates to |x|.
func poweredAbs(x, exponent float64) float64 {
	return math.Pow(math.Abs(x), exponent)
}

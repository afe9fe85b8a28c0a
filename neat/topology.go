package neat

import "math/rand"

// BuildInitialGenotype seeds a genotype with num_inputs+1 input nodes (the
// last one is the bias neuron), num_outputs output nodes, num_hidden hidden
// nodes, and connections per the configured InitialTopologyKind.
func BuildInitialGenotype(rng *rand.Rand, topo *TopologyConfig, mut *MutationConfig, reg *InnovationRegistry) *Genotype {
	g := NewGenotype()

	var inputIDs, outputIDs, hiddenIDs []uint64

	for i := 0; i <= topo.NumInputs; i++ {
		id, _ := reg.Acquire(MutateAddNode, GeneNode, 0, uint64(i)+1)
		act := mut.DefaultActivation
		if i == topo.NumInputs {
			act = ActivationLinear // bias neuron
		}
		g.Nodes[id] = NodeGene{ID: id, Kind: NodeInput, Activation: act, Aggregation: mut.DefaultAggregation, Bias: 0, Enabled: true}
		inputIDs = append(inputIDs, id)
	}
	for i := 0; i < topo.NumOutputs; i++ {
		id, _ := reg.Acquire(MutateAddNode, GeneNode, 1, uint64(i)+1)
		g.Nodes[id] = NodeGene{ID: id, Kind: NodeOutput, Activation: mut.DefaultActivation, Aggregation: mut.DefaultAggregation, Bias: 0, Enabled: true}
		outputIDs = append(outputIDs, id)
	}
	for i := 0; i < topo.NumHidden; i++ {
		id, _ := reg.Acquire(MutateAddNode, GeneNode, 2, uint64(i)+1)
		g.Nodes[id] = NodeGene{ID: id, Kind: NodeHidden, Activation: mut.DefaultActivation, Aggregation: mut.DefaultAggregation, Bias: 0, Enabled: true}
		hiddenIDs = append(hiddenIDs, id)
	}

	connect := func(src, dst uint64, p float64) {
		if rng.Float64() >= p {
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

	switch topo.InitialTopology {
	case TopologyNone:
		// no connections
	case TopologySparse:
		p := topo.InitialConnectionProbability
		for _, in := range inputIDs {
			for _, h := range hiddenIDs {
				connect(in, h, p)
			}
			for _, out := range outputIDs {
				connect(in, out, p)
			}
		}
		for _, h := range hiddenIDs {
			for _, out := range outputIDs {
				connect(h, out, p)
			}
		}
	case TopologyFull:
		for _, in := range inputIDs {
			for _, h := range hiddenIDs {
				connect(in, h, 1.0)
			}
			for _, out := range outputIDs {
				connect(in, out, 1.0)
			}
		}
		for _, h := range hiddenIDs {
			for _, out := range outputIDs {
				connect(h, out, 1.0)
			}
		}
	case TopologyTree:
		for _, in := range inputIDs {
			for _, h := range hiddenIDs {
				connect(in, h, 1.0)
			}
		}
		for _, h := range hiddenIDs {
			for _, out := range outputIDs {
				connect(h, out, 1.0)
			}
		}
	}

	return g
}

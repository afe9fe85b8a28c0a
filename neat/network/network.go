// Package network builds runnable phenotypes from a genome and evaluates
// them with a single activation sweep, tolerating cycles via stale reads
// rather than rejecting or topologically sorting them.
package network

import (
	"sort"

	"github.com/arcadvance/neat-go/neat"
)

type edge struct {
	src    uint64
	weight float64
}

type neuron struct {
	id          uint64
	kind        neat.NodeKind
	activation  neat.ActivationKind
	aggregation neat.AggregationKind
	bias        float64
	incoming    []edge
}

// Network is a built phenotype: ascending-id-ordered input/hidden/output
// neuron lists plus each neuron's incoming weighted edges.
type Network struct {
	inputs  []uint64
	hidden  []uint64
	outputs []uint64
	biasID  uint64
	neurons map[uint64]*neuron

	resetActivations bool
	activations      map[uint64]float64
}

// Build constructs a Network from a genome's genotype, dropping edges whose
// endpoints are missing or disabled.
func Build(g *neat.Genome, resetActivations bool) *Network {
	gt := g.Genotype
	n := &Network{
		neurons:          make(map[uint64]*neuron),
		activations:      make(map[uint64]float64),
		resetActivations: resetActivations,
	}

	var inputIDs []uint64
	for id, node := range gt.Nodes {
		if !node.Enabled {
			continue
		}
		n.neurons[id] = &neuron{
			id:          id,
			kind:        node.Kind,
			activation:  node.Activation,
			aggregation: node.Aggregation,
			bias:        node.Bias,
		}
		switch node.Kind {
		case neat.NodeInput:
			inputIDs = append(inputIDs, id)
		case neat.NodeHidden:
			n.hidden = append(n.hidden, id)
		case neat.NodeOutput:
			n.outputs = append(n.outputs, id)
		}
	}
	sort.Slice(inputIDs, func(i, j int) bool { return inputIDs[i] < inputIDs[j] })
	sort.Slice(n.hidden, func(i, j int) bool { return n.hidden[i] < n.hidden[j] })
	sort.Slice(n.outputs, func(i, j int) bool { return n.outputs[i] < n.outputs[j] })

	if len(inputIDs) > 0 {
		n.biasID = inputIDs[len(inputIDs)-1]
		n.inputs = inputIDs[:len(inputIDs)-1]
	}

	for _, conn := range gt.Connections {
		if !conn.Enabled {
			continue
		}
		src, srcOK := n.neurons[conn.Src]
		dst, dstOK := n.neurons[conn.Dst]
		if !srcOK || !dstOK || src == nil || dst == nil {
			continue
		}
		dst.incoming = append(dst.incoming, edge{src: conn.Src, weight: conn.Weight})
	}
	for _, nr := range n.neurons {
		sort.Slice(nr.incoming, func(i, j int) bool { return nr.incoming[i].src < nr.incoming[j].src })
	}

	return n
}

// NumInputs reports the number of true (non-bias) input neurons.
func (n *Network) NumInputs() int { return len(n.inputs) }

// NumOutputs reports the number of output neurons.
func (n *Network) NumOutputs() int { return len(n.outputs) }

// Activate runs one single-sweep forward pass: inputs are pinned, the bias
// neuron is pinned to 1.0, then hidden then output neurons are evaluated in
// ascending-id order, reading whatever activation is currently stored for
// each incoming edge's source (stale if that source hasn't fired yet this
// sweep -- cycles are tolerated this way rather than rejected).
func (n *Network) Activate(inputs []float64) ([]float64, error) {
	if len(inputs) != len(n.inputs) {
		return nil, &neat.Error{Kind: neat.ErrInvalidInputShape}
	}

	if n.resetActivations {
		n.activations = make(map[uint64]float64)
	}

	for i, id := range n.inputs {
		n.activations[id] = inputs[i]
	}
	if _, ok := n.neurons[n.biasID]; ok {
		n.activations[n.biasID] = 1.0
	}

	evalOne := func(id uint64) {
		nr := n.neurons[id]
		if nr == nil {
			return
		}
		weighted := make([]float64, 0, len(nr.incoming))
		for _, e := range nr.incoming {
			weighted = append(weighted, (n.activations[e.src]+n.neurons[e.src].bias)*e.weight)
		}
		agg := neat.Aggregate(nr.aggregation, weighted)
		n.activations[id] = neat.Activate(nr.activation, agg)
	}

	for _, id := range n.hidden {
		evalOne(id)
	}
	for _, id := range n.outputs {
		evalOne(id)
	}

	out := make([]float64, len(n.outputs))
	for i, id := range n.outputs {
		out[i] = n.activations[id]
	}
	return out, nil
}

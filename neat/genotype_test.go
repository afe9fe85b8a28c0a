package neat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenotypeCloneIsIndependent(t *testing.T) {
	g := NewGenotype()
	g.Nodes[1] = NodeGene{ID: 1, Kind: NodeInput, Enabled: true}
	g.Connections[10] = ConnectionGene{ID: 10, Src: 1, Dst: 2, Weight: 0.5, Enabled: true}

	clone := g.Clone()
	clone.Nodes[1] = NodeGene{ID: 1, Kind: NodeInput, Enabled: false}
	clone.Connections[10] = ConnectionGene{ID: 10, Src: 1, Dst: 2, Weight: 99, Enabled: true}

	assert.True(t, g.Nodes[1].Enabled, "mutating clone leaked into original node")
	assert.Equal(t, 0.5, g.Connections[10].Weight, "mutating clone leaked into original connection weight")
}

func TestBuildInitialGenotypeFullTopologyConnectsEveryPair(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	reg := NewInnovationRegistry(1)
	topo := &TopologyConfig{NumInputs: 2, NumOutputs: 1, NumHidden: 0, InitialTopology: TopologyFull}
	mut := &MutationConfig{DefaultActivation: ActivationSigmoid, DefaultAggregation: AggregateSum}

	g := BuildInitialGenotype(rng, topo, mut, reg)

	require.Len(t, g.Nodes, 4, "2 inputs + bias + 1 output")
	require.Len(t, g.Connections, 3, "each input node to the single output")
}

func TestBuildInitialGenotypeNoneTopologyHasNoConnections(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	reg := NewInnovationRegistry(1)
	topo := &TopologyConfig{NumInputs: 3, NumOutputs: 2, NumHidden: 1, InitialTopology: TopologyNone}
	mut := &MutationConfig{DefaultActivation: ActivationSigmoid, DefaultAggregation: AggregateSum}

	g := BuildInitialGenotype(rng, topo, mut, reg)

	assert.Empty(t, g.Connections)
	assert.Len(t, g.Nodes, 3+1+2+1) // inputs + bias + outputs + hidden
}

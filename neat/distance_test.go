package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func distanceConfig() *DistanceConfig {
	return &DistanceConfig{
		ExcessCoefficient:   1.0,
		DisjointCoefficient: 1.0,
		MatchingCoefficient: 0.4,
		DistanceExponent:    1.0,
		DistanceMethod:      DistanceEuclidean,
	}
}

func TestDistanceIdenticalGenotypesIsZero(t *testing.T) {
	g := NewGenotype()
	g.Nodes[1] = NodeGene{ID: 1, Kind: NodeInput, Activation: ActivationLinear, Aggregation: AggregateSum, Bias: 0.2}
	g.Connections[10] = ConnectionGene{ID: 10, Src: 1, Dst: 2, Weight: 0.7, Enabled: true}

	d := Distance(g, g.Clone(), distanceConfig())
	assert.Zero(t, d)
}

func TestDistanceGrowsWithWeightDifference(t *testing.T) {
	a := NewGenotype()
	a.Connections[1] = ConnectionGene{ID: 1, Src: 10, Dst: 11, Weight: 0.0, Enabled: true}

	near := a.Clone()
	nc := near.Connections[1]
	nc.Weight = 0.1
	near.Connections[1] = nc

	far := a.Clone()
	fc := far.Connections[1]
	fc.Weight = 5.0
	far.Connections[1] = fc

	cfg := distanceConfig()
	dNear := Distance(a, near, cfg)
	dFar := Distance(a, far, cfg)
	assert.Greater(t, dFar, dNear)
}

func TestDistanceStubMethodsReturnZero(t *testing.T) {
	a := NewGenotype()
	a.Connections[1] = ConnectionGene{ID: 1, Src: 10, Dst: 11, Weight: 3.0, Enabled: true}
	b := NewGenotype()

	cfg := distanceConfig()
	cfg.DistanceMethod = DistanceManhattan
	assert.Zero(t, Distance(a, b, cfg), "Manhattan distance is a documented stub")

	cfg.DistanceMethod = DistanceChebyshev
	assert.Zero(t, Distance(a, b, cfg), "Chebyshev distance is a documented stub")
}

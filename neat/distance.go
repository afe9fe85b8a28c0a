package neat

// Distance computes the genetic distance between two genotypes: the summed
// powered differences of matching connection weights and matching node
// biases, scaled by MatchingCoefficient, plus the disjoint-node count and the
// excess-node plus unmatched-connection count, each divided by the larger
// genome's gene count and scaled by ExcessCoefficient (DisjointCoefficient is
// not used). Only the Euclidean method is fully implemented; Manhattan and
// Chebyshev are stubs that return 0.
func Distance(a, b *Genotype, cfg *DistanceConfig) float64 {
	switch cfg.DistanceMethod {
	case DistanceEuclidean:
		return euclideanDistance(a, b, cfg)
	case DistanceManhattan, DistanceChebyshev:
		return 0
	default:
		return euclideanDistance(a, b, cfg)
	}
}

func euclideanDistance(a, b *Genotype, cfg *DistanceConfig) float64 {
	var connDiff, nodeDiff float64
	var disjointNodes, excessNodes, disjointConns int

	for id, ca := range a.Connections {
		if cb, ok := b.Connections[id]; ok {
			connDiff += poweredAbs(ca.Weight-cb.Weight, cfg.DistanceExponent)
		} else {
			disjointConns++
		}
	}
	for id := range b.Connections {
		if _, ok := a.Connections[id]; !ok {
			disjointConns++
		}
	}

	for id, na := range a.Nodes {
		nb, ok := b.Nodes[id]
		if !ok {
			excessNodes++
			continue
		}
		if na.Activation == nb.Activation && na.Aggregation == nb.Aggregation {
			nodeDiff += poweredAbs(na.Bias-nb.Bias, cfg.DistanceExponent)
		} else {
			disjointNodes++
		}
	}
	for id := range b.Nodes {
		if _, ok := a.Nodes[id]; !ok {
			excessNodes++
		}
	}

	m := float64(len(a.Nodes) + len(a.Connections))
	if nb := float64(len(b.Nodes) + len(b.Connections)); nb > m {
		m = nb
	}
	if m < 1 {
		m = 1
	}

	dConn := cfg.MatchingCoefficient * connDiff
	dNode := cfg.MatchingCoefficient * nodeDiff
	dDisjoint := cfg.ExcessCoefficient * float64(disjointNodes) / m
	dExcess := cfg.ExcessCoefficient * float64(excessNodes+disjointConns) / m

	return dConn + dNode + dDisjoint + dExcess
}

package neat

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// AggregationKind enumerates the fixed catalog of vector-reduction functions
// a node gene may carry to combine its weighted incoming values.
type AggregationKind int

const (
	AggregateMean AggregationKind = iota
	AggregateMedian
	AggregateMax
	AggregateMin
	AggregateSum
	AggregateCount
	AggregateProduct
	AggregateVariance
	AggregateStdDev
	AggregatePercentile25
	AggregatePercentile75
)

var aggregationNames = map[AggregationKind]string{
	AggregateMean:          "mean",
	AggregateMedian:        "median",
	AggregateMax:           "max",
	AggregateMin:           "min",
	AggregateSum:           "sum",
	AggregateCount:         "count",
	AggregateProduct:       "product",
	AggregateVariance:      "variance",
	AggregateStdDev:        "stddev",
	AggregatePercentile25:  "percentile25",
	AggregatePercentile75:  "percentile75",
}

func (a AggregationKind) String() string {
	if s, ok := aggregationNames[a]; ok {
		return s
	}
	return "unknown"
}

// ParseAggregationKind resolves a configuration name to its AggregationKind.
func ParseAggregationKind(name string) (AggregationKind, error) {
	for k, v := range aggregationNames {
		if v == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("neat: unknown aggregation kind %q", name)
}

// AllAggregationKinds lists every catalog entry.
func AllAggregationKinds() []AggregationKind {
	out := make([]AggregationKind, 0, len(aggregationNames))
	for k := range aggregationNames {
		out = append(out, k)
	}
	return out
}

// Aggregate reduces inputs to a scalar per kind. An empty input list yields 0
// for every kind, matching the Glossary's "empty input yields 0" rule.
func Aggregate(kind AggregationKind, inputs []float64) float64 {
	if len(inputs) == 0 {
		return 0.0
	}
	switch kind {
	case AggregateMean:
		return stat.Mean(inputs, nil)
	case AggregateMedian:
		return medianOf(inputs)
	case AggregateMax:
		m := inputs[0]
		for _, v := range inputs[1:] {
			if v > m {
				m = v
			}
		}
		return m
	case AggregateMin:
		m := inputs[0]
		for _, v := range inputs[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case AggregateSum:
		s := 0.0
		for _, v := range inputs {
			s += v
		}
		return s
	case AggregateCount:
		return float64(len(inputs))
	case AggregateProduct:
		p := 1.0
		for _, v := range inputs {
			p *= v
		}
		return p
	case AggregateVariance:
		if len(inputs) < 2 {
			return 0.0
		}
		return stat.Variance(inputs, nil)
	case AggregateStdDev:
		if len(inputs) < 2 {
			return 0.0
		}
		return stat.StdDev(inputs, nil)
	case AggregatePercentile25:
		return quantileOf(inputs, 0.25)
	case AggregatePercentile75:
		return quantileOf(inputs, 0.75)
	default:
		return 0.0
	}
}

func medianOf(inputs []float64) float64 {
	return quantileOf(inputs, 0.5)
}

// quantileOf computes the empirical quantile via gonum's CDF-inverse, which
// requires a sorted copy of the sample.
func quantileOf(inputs []float64, p float64) float64 {
	sorted := make([]float64, len(inputs))
	copy(sorted, inputs)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

package information

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/KeSeaman/deep-causality/domain/measure"
)

// UnknownBin marks an excluded sample: either the value was Unknown or no
// bin edges could be derived. Estimators skip it, never impute it.
const UnknownBin = -1

// Discretize applies deterministic equal-frequency binning to one feature
// column. Bin edges are the (i/bins)-quantiles of the Known values, so the
// same rule holds for every feature and bit estimates stay comparable.
// Unknown values map to UnknownBin.
func Discretize(values []measure.Value, bins int) []int {
	known := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := v.Float(); ok {
			known = append(known, f)
		}
	}

	out := make([]int, len(values))
	if len(known) == 0 {
		for i := range out {
			out[i] = UnknownBin
		}
		return out
	}

	edges := binEdges(known, bins)
	for i, v := range values {
		f, ok := v.Float()
		if !ok {
			out[i] = UnknownBin
			continue
		}
		out[i] = assignBin(f, edges)
	}
	return out
}

// binEdges computes the bins-1 interior quantile edges of the known values.
func binEdges(known []float64, bins int) []float64 {
	sorted := make([]float64, len(known))
	copy(sorted, known)
	sort.Float64s(sorted)

	edges := make([]float64, 0, bins-1)
	for i := 1; i < bins; i++ {
		pct := float64(i) / float64(bins) * 100
		edge, err := stats.Percentile(sorted, pct)
		if err != nil {
			// Percentile only fails on empty input, guarded by the caller.
			continue
		}
		edges = append(edges, edge)
	}
	return edges
}

// assignBin places a value into the first bin whose upper edge is not
// exceeded. Values above the last edge land in the final bin.
func assignBin(v float64, edges []float64) int {
	for i, edge := range edges {
		if v <= edge {
			return i
		}
	}
	return len(edges)
}

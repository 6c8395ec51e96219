package information

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/KeSeaman/deep-causality/domain/core"
)

// Estimate carries one information estimate in bits together with the count
// of Known samples it was built from, so callers can reject low-confidence
// results by their own threshold.
type Estimate struct {
	Bits        float64
	SampleCount int
}

// Estimator computes entropy and mutual information from empirical joint
// frequency tables over discretized categories. Samples with UnknownBin in
// any involved column are excluded from that estimate, not imputed.
// Stateless per call; safe for concurrent use.
type Estimator struct {
	MinSamples int
}

// NewEstimator returns an estimator that rejects estimates built from fewer
// than minSamples Known(-pair) samples.
func NewEstimator(minSamples int) *Estimator {
	return &Estimator{MinSamples: minSamples}
}

// Entropy returns H(X) in bits over the Known categories of xs.
func (e *Estimator) Entropy(xs []int) (Estimate, error) {
	counts := make(map[int]int)
	n := 0
	for _, x := range xs {
		if x == UnknownBin {
			continue
		}
		counts[x]++
		n++
	}
	if n < e.MinSamples {
		return Estimate{SampleCount: n},
			fmt.Errorf("%w: %d known samples, need %d", core.ErrInsufficientData, n, e.MinSamples)
	}
	return Estimate{Bits: entropyBits(counts, n), SampleCount: n}, nil
}

// MutualInformation returns I(X;Y) in bits over samples where both columns
// are Known. Result is non-negative (clamped against float noise).
func (e *Estimator) MutualInformation(xs, ys []int) (Estimate, error) {
	if len(xs) != len(ys) {
		return Estimate{}, fmt.Errorf("column length mismatch: %d vs %d", len(xs), len(ys))
	}

	cx := make(map[int]int)
	cy := make(map[int]int)
	cxy := make(map[[2]int]int)
	n := 0
	for i := range xs {
		if xs[i] == UnknownBin || ys[i] == UnknownBin {
			continue
		}
		cx[xs[i]]++
		cy[ys[i]]++
		cxy[[2]int{xs[i], ys[i]}]++
		n++
	}
	if n < e.MinSamples {
		return Estimate{SampleCount: n},
			fmt.Errorf("%w: %d known-pair samples, need %d", core.ErrInsufficientData, n, e.MinSamples)
	}

	mi := entropyBits(cx, n) + entropyBits(cy, n) - jointEntropyBits(cxy, n)
	if mi < 0 {
		mi = 0
	}
	return Estimate{Bits: mi, SampleCount: n}, nil
}

// JointMutualInformation returns I({X,Z};Y) in bits, treating the (X,Z) pair
// as a single composite variable. Used for the synergy term of the SURD
// decomposition.
func (e *Estimator) JointMutualInformation(xs, zs, ys []int) (Estimate, error) {
	if len(xs) != len(zs) || len(xs) != len(ys) {
		return Estimate{}, fmt.Errorf("column length mismatch: %d, %d, %d", len(xs), len(zs), len(ys))
	}
	return e.MutualInformation(Combine(xs, zs), ys)
}

// Combine encodes two discretized columns into one composite column.
// The pair is Unknown when either side is. Codes are assigned in sorted pair
// order, so identical inputs always produce identical encodings.
func Combine(xs, zs []int) []int {
	pairs := make(map[[2]int]int)
	var keys [][2]int
	for i := range xs {
		if xs[i] == UnknownBin || zs[i] == UnknownBin {
			continue
		}
		k := [2]int{xs[i], zs[i]}
		if _, seen := pairs[k]; !seen {
			pairs[k] = 0
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	for code, k := range keys {
		pairs[k] = code
	}

	out := make([]int, len(xs))
	for i := range xs {
		if xs[i] == UnknownBin || zs[i] == UnknownBin {
			out[i] = UnknownBin
			continue
		}
		out[i] = pairs[[2]int{xs[i], zs[i]}]
	}
	return out
}

// entropyBits computes H over a marginal frequency table. Probabilities are
// assembled in sorted category order so summation is bit-for-bit
// reproducible.
func entropyBits(counts map[int]int, n int) float64 {
	cats := make([]int, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Ints(cats)

	p := make([]float64, len(cats))
	for i, c := range cats {
		p[i] = float64(counts[c]) / float64(n)
	}
	return stat.Entropy(p) / math.Ln2
}

func jointEntropyBits(counts map[[2]int]int, n int) float64 {
	keys := make([][2]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	p := make([]float64, len(keys))
	for i, k := range keys {
		p[i] = float64(counts[k]) / float64(n)
	}
	return stat.Entropy(p) / math.Ln2
}

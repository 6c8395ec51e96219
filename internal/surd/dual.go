package surd

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/sample"
)

// Subset identifiers for the dual run.
const (
	SubsetPositive = "sepsis"
	SubsetNegative = "non-sepsis"
)

// topDriverCount bounds the per-subset driver ranking used for the
// disjoint/shared comparison.
const topDriverCount = 15

// DualResult compares the outcome-positive and outcome-negative
// decompositions: which drivers are specific to the positive subset, which
// are shared, and how different the unique-information profiles are.
type DualResult struct {
	Positive *Result
	Negative *Result

	DisjointDrivers  []core.FeatureName // top drivers of the positive subset absent from the negative one
	SharedDrivers    []core.FeatureName // top drivers present in both
	SpecificityScore float64            // |uniqueRatio(pos) - uniqueRatio(neg)|
}

// DecomposeDual runs the decomposition independently over both subsets.
// The two runs share no mutable state and execute concurrently.
func (d *Decomposer) DecomposeDual(ctx context.Context, pos, neg *sample.Set) (*DualResult, error) {
	dual := &DualResult{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := d.Decompose(gctx, pos, SubsetPositive)
		if err != nil {
			return err
		}
		dual.Positive = res
		return nil
	})
	g.Go(func() error {
		res, err := d.Decompose(gctx, neg, SubsetNegative)
		if err != nil {
			return err
		}
		dual.Negative = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	posTop := topDrivers(dual.Positive, topDriverCount)
	negTop := make(map[core.FeatureName]struct{})
	for _, f := range topDrivers(dual.Negative, topDriverCount) {
		negTop[f] = struct{}{}
	}

	for _, f := range posTop {
		if _, shared := negTop[f]; shared {
			dual.SharedDrivers = append(dual.SharedDrivers, f)
		} else {
			dual.DisjointDrivers = append(dual.DisjointDrivers, f)
		}
	}
	sort.Slice(dual.SharedDrivers, func(i, j int) bool { return dual.SharedDrivers[i] < dual.SharedDrivers[j] })
	sort.Slice(dual.DisjointDrivers, func(i, j int) bool { return dual.DisjointDrivers[i] < dual.DisjointDrivers[j] })

	dual.SpecificityScore = math.Abs(uniqueRatio(dual.Positive) - uniqueRatio(dual.Negative))
	return dual, nil
}

func topDrivers(r *Result, k int) []core.FeatureName {
	ordered := r.SortedFeatures()
	if len(ordered) > k {
		ordered = ordered[:k]
	}
	return ordered
}

// uniqueRatio is the subset's summed unique information over its summed
// total information, 0 when the subset carries no information at all.
func uniqueRatio(r *Result) float64 {
	var unique, total float64
	for _, dec := range r.Features {
		unique += dec.Unique
		total += dec.Total
	}
	if total == 0 {
		return 0
	}
	return unique / total
}

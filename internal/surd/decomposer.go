package surd

import (
	"context"
	"sort"

	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/sample"
	"github.com/KeSeaman/deep-causality/internal"
	"github.com/KeSeaman/deep-causality/internal/information"
)

// Decomposition splits the mutual information between one feature and the
// outcome into unique, redundant, and synergistic bits. Produced once per
// (feature, subset) pair; immutable thereafter.
type Decomposition struct {
	Feature     core.FeatureName `json:"feature"`
	Subset      string           `json:"subset"`
	Unique      float64          `json:"unique_info"`
	Redundant   float64          `json:"redundant_info"`
	Synergistic float64          `json:"synergistic_info"`
	Total       float64          `json:"total_info"`
	SampleCount int              `json:"sample_count"`
}

// FeatureFailure records a feature the decomposer could not estimate.
type FeatureFailure struct {
	Feature core.FeatureName
	Err     error
}

// Result is the best-effort output of one subset run: partial results plus
// the features that failed, never an aborted batch.
type Result struct {
	Subset   string
	Features map[core.FeatureName]Decomposition
	Failed   []FeatureFailure
}

// Decomposer runs the SURD decomposition over one sample subset. The exact
// multi-feature formulation is combinatorial; this implementation fixes one
// deterministic pairwise approximation: redundancy is measured against the
// single most-informative co-feature (ties by name ascending) via the
// interaction information I(f;Y) + I(co;Y) - I({f,co};Y). A positive
// interaction is redundancy, a negative one synergy, and Total is defined as
// the component sum so the additivity invariant holds exactly.
//
// Stateless per call: two Decompose calls over disjoint subsets share no
// mutable state and may run concurrently.
type Decomposer struct {
	est  *information.Estimator
	bins int
	log  *internal.Logger
}

// NewDecomposer wires a decomposer over the given estimator and bin count.
func NewDecomposer(est *information.Estimator, bins int) *Decomposer {
	return &Decomposer{est: est, bins: bins, log: internal.DefaultLogger}
}

// Decompose computes a FeatureDecomposition per candidate feature of the
// subset against its outcome column. Per-feature estimation failures land in
// Result.Failed; only an empty candidate set or cancellation fails the call.
func (d *Decomposer) Decompose(ctx context.Context, set *sample.Set, subset string) (*Result, error) {
	features := set.Features()
	if len(features) == 0 {
		return nil, core.ErrEmptyCandidateSet
	}

	outcome := set.OutcomeColumn()
	cols := make(map[core.FeatureName][]int, len(features))
	for _, f := range features {
		cols[f] = information.Discretize(set.Column(f), d.bins)
	}

	res := &Result{Subset: subset, Features: make(map[core.FeatureName]Decomposition, len(features))}

	// Relevance pass: I(f;Y) per feature, partial failures collected.
	relevance := make(map[core.FeatureName]information.Estimate, len(features))
	for _, f := range features {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		est, err := d.est.MutualInformation(cols[f], outcome)
		if err != nil {
			res.Failed = append(res.Failed, FeatureFailure{Feature: f, Err: err})
			continue
		}
		relevance[f] = est
	}

	// Decomposition pass against the strongest co-feature.
	for _, f := range features {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel, ok := relevance[f]
		if !ok {
			continue
		}
		res.Features[f] = d.decomposeFeature(f, subset, rel, cols, outcome, relevance, features)
	}

	d.log.Info("SURD subset %s: %d features decomposed, %d failed",
		subset, len(res.Features), len(res.Failed))
	return res, nil
}

func (d *Decomposer) decomposeFeature(
	f core.FeatureName,
	subset string,
	rel information.Estimate,
	cols map[core.FeatureName][]int,
	outcome []int,
	relevance map[core.FeatureName]information.Estimate,
	features []core.FeatureName,
) Decomposition {
	mi := rel.Bits

	co, found := strongestCoFeature(f, relevance, features)
	if !found {
		// Single-feature subset: everything the feature knows is unique.
		return Decomposition{
			Feature: f, Subset: subset,
			Unique: mi, Total: mi, SampleCount: rel.SampleCount,
		}
	}

	interaction := 0.0
	joint, err := d.est.JointMutualInformation(cols[f], cols[co], outcome)
	if err != nil {
		// Too few joint samples to split the estimate; fall back to unique.
		d.log.Debug("SURD %s/%s: joint estimate unavailable (%v)", f, co, err)
	} else {
		interaction = mi + relevance[co].Bits - joint.Bits
	}

	redundant := interaction
	if redundant < 0 {
		redundant = 0
	}
	if redundant > mi {
		redundant = mi
	}
	synergistic := -interaction
	if synergistic < 0 {
		synergistic = 0
	}
	unique := mi - redundant

	return Decomposition{
		Feature:     f,
		Subset:      subset,
		Unique:      unique,
		Redundant:   redundant,
		Synergistic: synergistic,
		Total:       unique + redundant + synergistic,
		SampleCount: rel.SampleCount,
	}
}

// strongestCoFeature picks the other feature with maximal relevance, ties
// broken by name ascending.
func strongestCoFeature(
	f core.FeatureName,
	relevance map[core.FeatureName]information.Estimate,
	features []core.FeatureName,
) (core.FeatureName, bool) {
	var best core.FeatureName
	bestBits := -1.0
	for _, g := range features { // features is sorted ascending
		if g == f {
			continue
		}
		est, ok := relevance[g]
		if !ok {
			continue
		}
		if est.Bits > bestBits {
			best, bestBits = g, est.Bits
		}
	}
	return best, bestBits >= 0
}

// SortedFeatures returns the decomposed feature names ordered by total
// information descending, ties by name ascending.
func (r *Result) SortedFeatures() []core.FeatureName {
	out := make([]core.FeatureName, 0, len(r.Features))
	for f := range r.Features {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := r.Features[out[i]], r.Features[out[j]]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return out[i] < out[j]
	})
	return out
}

package surd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/measure"
	"github.com/KeSeaman/deep-causality/domain/sample"
	"github.com/KeSeaman/deep-causality/internal/information"
	"github.com/KeSeaman/deep-causality/internal/testkit"
)

func cohortSets(t *testing.T) (pos, neg *sample.Set) {
	t.Helper()
	gen := testkit.NewCohortGenerator(testkit.DefaultCohortConfig())
	set, err := gen.Generate()
	require.NoError(t, err)
	return set.SplitByOutcome()
}

func TestDecomposeAdditivityInvariant(t *testing.T) {
	pos, _ := cohortSets(t)
	dec := NewDecomposer(information.NewEstimator(30), 8)

	res, err := dec.Decompose(context.Background(), pos, SubsetPositive)
	require.NoError(t, err)
	require.NotEmpty(t, res.Features)

	for f, d := range res.Features {
		assert.GreaterOrEqualf(t, d.Unique, 0.0, "unique for %s", f)
		assert.GreaterOrEqualf(t, d.Redundant, 0.0, "redundant for %s", f)
		assert.GreaterOrEqualf(t, d.Synergistic, 0.0, "synergistic for %s", f)
		assert.InDeltaf(t, d.Total, d.Unique+d.Redundant+d.Synergistic, 1e-9,
			"additivity for %s", f)
		assert.Equal(t, SubsetPositive, d.Subset)
		assert.Greater(t, d.SampleCount, 0)
	}
}

func TestDecomposeEmptyCandidateSet(t *testing.T) {
	empty := sample.MustNewSet(nil)
	dec := NewDecomposer(information.NewEstimator(30), 8)

	_, err := dec.Decompose(context.Background(), empty, SubsetPositive)
	assert.ErrorIs(t, err, core.ErrEmptyCandidateSet)
}

func TestDecomposeCollectsPartialFailures(t *testing.T) {
	// "sparse" is Known in too few rows for the estimator; the other feature
	// must still decompose.
	rows := make([]sample.Sample, 0, 40)
	for i := 0; i < 40; i++ {
		features := map[core.FeatureName]measure.Value{
			"dense": measure.Known(float64(i % 7)),
		}
		if i < 5 {
			features["sparse"] = measure.Known(float64(i))
		}
		rows = append(rows, sample.Sample{
			Subject:  "p1",
			Time:     core.RelTime(i),
			Features: features,
			Outcome:  i%2 == 0,
		})
	}
	set := sample.MustNewSet(rows)

	dec := NewDecomposer(information.NewEstimator(10), 4)
	res, err := dec.Decompose(context.Background(), set, SubsetNegative)
	require.NoError(t, err)

	require.Len(t, res.Failed, 1)
	assert.Equal(t, core.FeatureName("sparse"), res.Failed[0].Feature)
	assert.ErrorIs(t, res.Failed[0].Err, core.ErrInsufficientData)

	_, ok := res.Features["dense"]
	assert.True(t, ok)
	_, ok = res.Features["sparse"]
	assert.False(t, ok)
}

func TestDecomposeHonorsCancellation(t *testing.T) {
	pos, _ := cohortSets(t)
	dec := NewDecomposer(information.NewEstimator(30), 8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dec.Decompose(ctx, pos, SubsetPositive)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecomposeDualIsDeterministic(t *testing.T) {
	pos, neg := cohortSets(t)
	dec := NewDecomposer(information.NewEstimator(30), 8)

	first, err := dec.DecomposeDual(context.Background(), pos, neg)
	require.NoError(t, err)
	second, err := dec.DecomposeDual(context.Background(), pos, neg)
	require.NoError(t, err)

	// Bit-for-bit: concurrency must not leak into the numbers.
	assert.Equal(t, first.Positive.Features, second.Positive.Features)
	assert.Equal(t, first.Negative.Features, second.Negative.Features)
	assert.Equal(t, first.DisjointDrivers, second.DisjointDrivers)
	assert.Equal(t, first.SharedDrivers, second.SharedDrivers)
	assert.Equal(t, first.SpecificityScore, second.SpecificityScore)
}

func TestDecomposeDualMatchesSequentialRuns(t *testing.T) {
	pos, neg := cohortSets(t)
	dec := NewDecomposer(information.NewEstimator(30), 8)

	dual, err := dec.DecomposeDual(context.Background(), pos, neg)
	require.NoError(t, err)

	seqPos, err := dec.Decompose(context.Background(), pos, SubsetPositive)
	require.NoError(t, err)
	seqNeg, err := dec.Decompose(context.Background(), neg, SubsetNegative)
	require.NoError(t, err)

	assert.Equal(t, seqPos.Features, dual.Positive.Features)
	assert.Equal(t, seqNeg.Features, dual.Negative.Features)
	assert.GreaterOrEqual(t, dual.SpecificityScore, 0.0)
	assert.LessOrEqual(t, dual.SpecificityScore, 1.0)
}

func TestSortedFeaturesTieBreakByName(t *testing.T) {
	res := &Result{
		Subset: SubsetPositive,
		Features: map[core.FeatureName]Decomposition{
			"b": {Feature: "b", Total: 0.5},
			"a": {Feature: "a", Total: 0.5},
			"c": {Feature: "c", Total: 0.9},
		},
	}
	assert.Equal(t, []core.FeatureName{"c", "a", "b"}, res.SortedFeatures())
}

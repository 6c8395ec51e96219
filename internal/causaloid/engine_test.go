package causaloid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/measure"
	"github.com/KeSeaman/deep-causality/internal/contextgraph"
)

func septicView(t *testing.T) *contextgraph.View {
	t.Helper()
	g := contextgraph.New("p1")
	g.AddObservation(0, "HR", measure.Known(125))
	g.AddObservation(0, "MAP", measure.Known(58))
	g.AddObservation(0, "Lactate", measure.Known(3.4))
	return g.At(0)
}

func TestEvaluateScoresWeightedActivations(t *testing.T) {
	g, err := NewGraph([]Causaloid{
		{ID: "tachycardia", Weight: 1, Inputs: []core.FeatureName{"HR"}, Predicate: ValueAbove("HR", 110)},
		{ID: "hypotension", Weight: 1.5, Inputs: []core.FeatureName{"MAP"}, Predicate: ValueBelow("MAP", 65)},
		{ID: "normal_temp", Weight: 1, Inputs: []core.FeatureName{"Temp"}, Predicate: alwaysFalse},
	}, nil)
	require.NoError(t, err)

	eval := g.Evaluate(septicView(t))

	// 2.5 of 3.5 known weight fired.
	assert.InDelta(t, 2.5/3.5, eval.Score, 1e-12)
	assert.Equal(t, 0, eval.UnknownCount)
	assert.Equal(t, 1.0, eval.Confidence)
	require.Len(t, eval.Trace, 3)
}

func TestEvaluateUnknownInputNeverBecomesFalse(t *testing.T) {
	g, err := NewGraph([]Causaloid{
		{ID: "hypotension", Inputs: []core.FeatureName{"MAP"}, Predicate: ValueBelow("MAP", 65)},
	}, nil)
	require.NoError(t, err)

	view := contextgraph.New("p1").At(0) // no MAP recorded
	eval := g.Evaluate(view)

	require.Len(t, eval.Trace, 1)
	assert.Equal(t, measure.Indeterminate, eval.Trace[0].Result)
	assert.Equal(t, 1, eval.UnknownCount)
	assert.Equal(t, 0.0, eval.Score)
	assert.Equal(t, 0.0, eval.Confidence)
}

func TestEvaluateUnknownPropagatesDownstream(t *testing.T) {
	g, err := NewGraph([]Causaloid{
		{ID: "a_lactate", Inputs: []core.FeatureName{"Lactate"}, Predicate: ValueAbove("Lactate", 2)},
		{ID: "b_shock", DependsOn: []core.CausaloidID{"a_lactate"}, Predicate: alwaysTrue},
	}, nil)
	require.NoError(t, err)

	view := contextgraph.New("p1").At(0)
	eval := g.Evaluate(view)

	require.Len(t, eval.Trace, 2)
	assert.Equal(t, measure.Indeterminate, eval.Trace[0].Result)
	assert.Equal(t, measure.Indeterminate, eval.Trace[1].Result)
	assert.Equal(t, "upstream result unknown", eval.Trace[1].Error)
	assert.Equal(t, 2, eval.UnknownCount)
}

func TestEvaluateRecoversFromPredicatePanic(t *testing.T) {
	g, err := NewGraph([]Causaloid{
		{ID: "boom", Predicate: func(*contextgraph.View) measure.Tristate {
			panic("bad threshold table")
		}},
		{ID: "steady", Predicate: alwaysTrue},
	}, nil)
	require.NoError(t, err)

	eval := g.Evaluate(septicView(t))

	require.Len(t, eval.Trace, 2)
	assert.Equal(t, measure.Indeterminate, eval.Trace[0].Result)
	assert.Contains(t, eval.Trace[0].Error, "predicate panic")
	assert.Contains(t, eval.Trace[0].Error, "bad threshold table")

	// The rest of the pass still runs.
	assert.Equal(t, measure.True, eval.Trace[1].Result)
	assert.Equal(t, 1.0, eval.Score)
	assert.Equal(t, 0.5, eval.Confidence)
}

func TestEvaluateMissingPredicateIsAnnotated(t *testing.T) {
	g, err := NewGraph([]Causaloid{{ID: "hollow"}}, nil)
	require.NoError(t, err)

	eval := g.Evaluate(septicView(t))
	require.Len(t, eval.Trace, 1)
	assert.Equal(t, measure.Indeterminate, eval.Trace[0].Result)
	assert.Equal(t, "no predicate defined", eval.Trace[0].Error)
}

func TestEvaluateTraceFollowsDeterministicOrder(t *testing.T) {
	g, err := NewGraph([]Causaloid{
		{ID: "c3", Predicate: alwaysTrue, DependsOn: []core.CausaloidID{"c1", "c2"}},
		{ID: "c2", Predicate: alwaysTrue},
		{ID: "c1", Predicate: alwaysTrue},
	}, nil)
	require.NoError(t, err)

	view := septicView(t)
	first := g.Evaluate(view)
	second := g.Evaluate(view)

	var ids []core.CausaloidID
	for _, e := range first.Trace {
		ids = append(ids, e.Causaloid)
	}
	assert.Equal(t, []core.CausaloidID{"c1", "c2", "c3"}, ids)
	assert.Equal(t, first, second)
}

func TestEvaluateEmptyGraph(t *testing.T) {
	g, err := NewGraph(nil, nil)
	require.NoError(t, err)

	eval := g.Evaluate(septicView(t))
	assert.Equal(t, 0.0, eval.Score)
	assert.Equal(t, 0.0, eval.Confidence)
	assert.Empty(t, eval.Trace)
}

func TestPredicateCombinators(t *testing.T) {
	view := septicView(t)

	assert.Equal(t, measure.True, ValueAbove("HR", 110)(view))
	assert.Equal(t, measure.False, ValueAbove("HR", 130)(view))
	assert.Equal(t, measure.Indeterminate, ValueAbove("SpO2", 90)(view))

	assert.Equal(t, measure.True, ValueBelow("MAP", 65)(view))
	assert.Equal(t, measure.False, ValueBelow("MAP", 50)(view))

	combined := AllOf(ValueAbove("HR", 100), ValueBelow("MAP", 70), ValueAbove("Lactate", 2))
	assert.Equal(t, measure.True, combined(view))

	withUnknown := AllOf(ValueAbove("HR", 100), ValueAbove("SpO2", 90))
	assert.Equal(t, measure.Indeterminate, withUnknown(view))
}

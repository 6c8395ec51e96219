package causaloid

import (
	"fmt"

	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/measure"
	"github.com/KeSeaman/deep-causality/domain/risk"
	"github.com/KeSeaman/deep-causality/internal/contextgraph"
)

// Evaluate runs every causaloid against the context view in deterministic
// topological order and aggregates the Known activations into a risk score.
//
// Unknown propagates: a causaloid whose upstream result is Indeterminate is
// itself Indeterminate without its predicate running. A predicate that
// panics is recorded as Indeterminate with an error annotation; it never
// crashes the pass. The score is the weight sum of fired causaloids over the
// weight sum of Known-resolved ones; unknown activations only lower the
// separately reported confidence, never the score itself.
func (g *Graph) Evaluate(view *contextgraph.View) risk.Evaluation {
	results := make(map[core.CausaloidID]measure.Tristate, len(g.order))
	trace := make([]risk.TraceEntry, 0, len(g.order))

	var firedWeight, knownWeight float64
	unknown := 0

	for _, id := range g.order {
		c := g.causaloids[id]
		entry := risk.TraceEntry{
			Causaloid: id,
			Inputs:    view.Summarize(c.Inputs...),
		}

		result := measure.Indeterminate
		blocked := false
		for _, parent := range g.parents[id] {
			if results[parent] == measure.Indeterminate {
				blocked = true
				break
			}
		}

		switch {
		case blocked:
			entry.Error = "upstream result unknown"
		case c.Predicate == nil:
			entry.Error = "no predicate defined"
		default:
			result, entry.Error = safeEval(c.Predicate, view)
		}

		results[id] = result
		entry.Result = result
		trace = append(trace, entry)

		if result == measure.Indeterminate {
			unknown++
			continue
		}
		knownWeight += c.weight()
		if result == measure.True {
			firedWeight += c.weight()
		}
	}

	score := 0.0
	if knownWeight > 0 {
		score = firedWeight / knownWeight
	}
	confidence := 0.0
	if len(g.order) > 0 {
		confidence = float64(len(g.order)-unknown) / float64(len(g.order))
	}

	return risk.Evaluation{
		Score:        score,
		Trace:        trace,
		UnknownCount: unknown,
		Confidence:   confidence,
	}
}

// safeEval invokes a predicate with panic recovery.
func safeEval(p Predicate, view *contextgraph.View) (result measure.Tristate, errMsg string) {
	defer func() {
		if r := recover(); r != nil {
			result = measure.Indeterminate
			errMsg = fmt.Sprintf("predicate panic: %v", r)
		}
	}()
	return p(view), ""
}

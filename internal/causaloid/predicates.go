package causaloid

import (
	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/measure"
	"github.com/KeSeaman/deep-causality/internal/contextgraph"
)

// Predicate constructors for threshold-style causal tests. All of them
// resolve to Indeterminate when the input value is Unknown.

// ValueAbove fires when the latest value of name exceeds threshold.
func ValueAbove(name core.FeatureName, threshold float64) Predicate {
	return func(view *contextgraph.View) measure.Tristate {
		less, ok := measure.Known(threshold).Less(view.Latest(name))
		if !ok {
			return measure.Indeterminate
		}
		return measure.TristateOf(less)
	}
}

// ValueBelow fires when the latest value of name is under threshold.
func ValueBelow(name core.FeatureName, threshold float64) Predicate {
	return func(view *contextgraph.View) measure.Tristate {
		less, ok := view.Latest(name).Less(measure.Known(threshold))
		if !ok {
			return measure.Indeterminate
		}
		return measure.TristateOf(less)
	}
}

// AllOf fires when every inner predicate fires; Unknown is absorbing.
func AllOf(preds ...Predicate) Predicate {
	return func(view *contextgraph.View) measure.Tristate {
		result := measure.True
		for _, p := range preds {
			result = result.And(p(view))
			if result == measure.Indeterminate {
				return measure.Indeterminate
			}
		}
		return result
	}
}

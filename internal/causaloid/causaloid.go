package causaloid

import (
	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/measure"
	"github.com/KeSeaman/deep-causality/internal/contextgraph"
)

// Predicate is a pure causal test over a context snapshot. It returns
// Indeterminate when its required inputs are Unknown; it must not mutate the
// view or keep references to it.
type Predicate func(view *contextgraph.View) measure.Tristate

// Causaloid is an atomic, named causal unit: an immutable definition shared
// read-only across all subjects. Identity is the stable string id, never a
// pointer.
type Causaloid struct {
	ID          core.CausaloidID
	Description string
	// Inputs lists the context names the predicate reads; used for the
	// evaluation trace's input snapshot summary.
	Inputs []core.FeatureName
	// Weight is this causaloid's contribution to the aggregated risk score
	// when it fires. Non-positive weights count as 1.
	Weight float64
	// DependsOn lists upstream causaloids whose results gate this one.
	DependsOn []core.CausaloidID
	Predicate Predicate
}

func (c Causaloid) weight() float64 {
	if c.Weight <= 0 {
		return 1
	}
	return c.Weight
}

// EdgeKind types a dependency edge.
type EdgeKind int

const (
	EdgeCausal EdgeKind = iota
	EdgeTemporal
	EdgeSynergistic
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeTemporal:
		return "temporal"
	case EdgeSynergistic:
		return "synergistic"
	default:
		return "causal"
	}
}

// Edge is an explicit typed dependency from one causaloid to another,
// complementing the DependsOn shorthand (which builds causal edges).
type Edge struct {
	From core.CausaloidID
	To   core.CausaloidID
	Kind EdgeKind
}

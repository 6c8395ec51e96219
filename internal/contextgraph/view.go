package contextgraph

import (
	"fmt"
	"strings"

	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/measure"
)

// View is an immutable snapshot of one subject's context restricted to nodes
// at or before a relative time. Causaloid predicates and guard rules only
// ever see a View, never the mutable graph.
type View struct {
	graph *Graph
	at    core.RelTime
}

// Subject returns the owning subject id.
func (v *View) Subject() core.SubjectID { return v.graph.subject }

// At returns the snapshot time.
func (v *View) At() core.RelTime { return v.at }

// Latest returns the most recent value recorded for name at or before the
// snapshot time. Unknown when no node exists, so missing data and recorded
// Unknown markers propagate identically.
func (v *View) Latest(name core.FeatureName) measure.Value {
	best := measure.Unknown()
	bestTime := core.RelTime(0)
	found := false
	for _, id := range v.graph.byName[name] {
		n := v.graph.nodes[id]
		if n.Time > v.at {
			continue
		}
		if !found || n.Time >= bestTime {
			best, bestTime, found = n.Value, n.Time, true
		}
	}
	return best
}

// Has reports whether any node for name exists at or before the snapshot.
func (v *View) Has(name core.FeatureName) bool {
	for _, id := range v.graph.byName[name] {
		if v.graph.nodes[id].Time <= v.at {
			return true
		}
	}
	return false
}

// Names returns the names visible in the snapshot, ascending.
func (v *View) Names() []core.FeatureName {
	var out []core.FeatureName
	for _, name := range v.graph.Names() {
		if v.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// UnknownRatio is the fraction of tracked names whose latest visible value is
// Unknown. 1 for an empty snapshot: no data is maximal uncertainty.
func (v *View) UnknownRatio() float64 {
	names := v.graph.Names()
	if len(names) == 0 {
		return 1
	}
	unknown := 0
	for _, name := range names {
		if !v.Latest(name).IsKnown() {
			unknown++
		}
	}
	return float64(unknown) / float64(len(names))
}

// Summarize renders the latest values of the given names for trace entries.
func (v *View) Summarize(names ...core.FeatureName) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, v.Latest(name)))
	}
	return strings.Join(parts, " ")
}

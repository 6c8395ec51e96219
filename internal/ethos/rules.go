package ethos

import (
	"fmt"
	"strings"

	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/risk"
	"github.com/KeSeaman/deep-causality/internal/contextgraph"
)

// blockedAction names the gated operation in every counterfactual.
const blockedAction = "Sepsis Risk Assessment"

// Rule is one deontic guardrail. Check returns true when the rule is
// satisfied; Explain is invoked only when it is not and must name the
// missing or contradictory inputs plus what would let the assessment
// proceed.
type Rule interface {
	ID() core.RuleID
	Description() string
	Severity() int // 1-10, audit metadata only
	Check(view *contextgraph.View, pending *risk.Assessment) bool
	Explain(view *contextgraph.View, pending *risk.Assessment) risk.Counterfactual
}

// RequireCriticalObservations blocks assessment while any required feature
// has no Known value in the context.
type RequireCriticalObservations struct {
	Required []core.FeatureName
}

func (r *RequireCriticalObservations) ID() core.RuleID { return "ETHOS-001" }

func (r *RequireCriticalObservations) Description() string {
	return "Require critical vital signs before surfacing an assessment"
}

func (r *RequireCriticalObservations) Severity() int { return 8 }

func (r *RequireCriticalObservations) Check(view *contextgraph.View, _ *risk.Assessment) bool {
	return len(r.missing(view)) == 0
}

func (r *RequireCriticalObservations) Explain(view *contextgraph.View, _ *risk.Assessment) risk.Counterfactual {
	missing := r.missing(view)
	names := make([]string, len(missing))
	for i, f := range missing {
		names[i] = f.String()
	}
	joined := strings.Join(names, ", ")

	cf := risk.NewCounterfactual(
		blockedAction,
		fmt.Sprintf("missing critical vital signs: %s", joined),
		r.ID(),
		fmt.Sprintf("if %s were available, the assessment would proceed", joined),
		r.Severity(),
	)
	return cf.WithContext("missing_count", fmt.Sprintf("%d", len(missing)))
}

func (r *RequireCriticalObservations) missing(view *contextgraph.View) []core.FeatureName {
	var out []core.FeatureName
	for _, f := range r.Required {
		if !view.Latest(f).IsKnown() {
			out = append(out, f)
		}
	}
	return out
}

// MaxUnknownRatio blocks assessment when too large a fraction of the
// context's tracked values is Unknown.
type MaxUnknownRatio struct {
	Threshold float64
}

func (r *MaxUnknownRatio) ID() core.RuleID { return "ETHOS-002" }

func (r *MaxUnknownRatio) Description() string {
	return "Block assessment when data uncertainty exceeds the threshold"
}

func (r *MaxUnknownRatio) Severity() int { return 7 }

func (r *MaxUnknownRatio) Check(view *contextgraph.View, _ *risk.Assessment) bool {
	return view.UnknownRatio() <= r.Threshold
}

func (r *MaxUnknownRatio) Explain(view *contextgraph.View, _ *risk.Assessment) risk.Counterfactual {
	ratio := view.UnknownRatio()
	cf := risk.NewCounterfactual(
		blockedAction,
		fmt.Sprintf("data uncertainty (%.1f%%) exceeds maximum threshold (%.1f%%)",
			ratio*100, r.Threshold*100),
		r.ID(),
		fmt.Sprintf("if at least %.0f%% of tracked values were present, the assessment would proceed",
			(1-r.Threshold)*100),
		r.Severity(),
	)
	return cf.
		WithContext("current_unknown_ratio", fmt.Sprintf("%.2f", ratio)).
		WithContext("threshold", fmt.Sprintf("%.2f", r.Threshold))
}

// MinConfidence blocks assessments whose causaloid evaluation resolved too
// few units to be trustworthy.
type MinConfidence struct {
	Min float64
}

func (r *MinConfidence) ID() core.RuleID { return "ETHOS-003" }

func (r *MinConfidence) Description() string {
	return "Require a minimum evaluation confidence before surfacing a score"
}

func (r *MinConfidence) Severity() int { return 6 }

func (r *MinConfidence) Check(_ *contextgraph.View, pending *risk.Assessment) bool {
	return pending == nil || pending.Confidence >= r.Min
}

func (r *MinConfidence) Explain(_ *contextgraph.View, pending *risk.Assessment) risk.Counterfactual {
	confidence := 0.0
	unresolved := 0
	if pending != nil {
		confidence = pending.Confidence
		unresolved = pending.UnknownCount
	}
	cf := risk.NewCounterfactual(
		blockedAction,
		fmt.Sprintf("evaluation confidence %.2f below minimum %.2f (%d causal units unresolved)",
			confidence, r.Min, unresolved),
		r.ID(),
		fmt.Sprintf("if enough inputs were known to resolve the unresolved causal units, confidence would reach %.2f and the assessment would proceed", r.Min),
		r.Severity(),
	)
	return cf.WithContext("confidence", fmt.Sprintf("%.2f", confidence))
}

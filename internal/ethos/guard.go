package ethos

import (
	"sort"

	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/risk"
	"github.com/KeSeaman/deep-causality/internal"
	"github.com/KeSeaman/deep-causality/internal/config"
	"github.com/KeSeaman/deep-causality/internal/contextgraph"
)

// Guard evaluates the deontic rule set against a context snapshot and a
// pending assessment before the assessment may be surfaced. The evaluation
// order is fixed at construction - either the configured order or severity
// descending (ties by rule id ascending) - and the first rule that blocks
// wins. Checks have no side effects beyond the verdict and an audit log
// line.
type Guard struct {
	rules []Rule
	log   *internal.Logger
}

// NewGuard builds a guard over the given rules with the stated order policy.
func NewGuard(rules []Rule, orderPolicy string) *Guard {
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	if orderPolicy == config.OrderBySeverity {
		sort.SliceStable(ordered, func(i, j int) bool {
			if ordered[i].Severity() != ordered[j].Severity() {
				return ordered[i].Severity() > ordered[j].Severity()
			}
			return ordered[i].ID() < ordered[j].ID()
		})
	}
	return &Guard{rules: ordered, log: internal.DefaultLogger}
}

// FromConfig assembles the standard clinical rule set from configuration.
func FromConfig(cfg config.GuardConfig) *Guard {
	rules := []Rule{
		&RequireCriticalObservations{Required: cfg.CriticalFeatures},
		&MaxUnknownRatio{Threshold: cfg.MaxUnknownRatio},
	}
	return NewGuard(rules, cfg.OrderPolicy)
}

// ClinicalDefaults returns the guard the original deployment shipped with:
// MAP and HR required, at most half the tracked values Unknown.
func ClinicalDefaults() *Guard {
	return FromConfig(config.Default().Guard)
}

// Rules returns the rules in evaluation order.
func (g *Guard) Rules() []Rule {
	out := make([]Rule, len(g.rules))
	copy(out, g.rules)
	return out
}

// Check gates a pending assessment: the first violated rule blocks it with a
// counterfactual explanation, otherwise the assessment passes through
// unchanged. Every decision is logged with a fresh audit id.
func (g *Guard) Check(view *contextgraph.View, pending *risk.Assessment) risk.Verdict {
	auditID := core.NewID()
	for _, rule := range g.rules {
		if rule.Check(view, pending) {
			continue
		}
		cf := rule.Explain(view, pending)
		g.log.Warn("ethos audit %s: subject %s blocked by %s (severity %d): %s",
			auditID, view.Subject(), rule.ID(), rule.Severity(), cf.RuleViolated)
		return risk.Blocked(cf)
	}
	g.log.Debug("ethos audit %s: subject %s allowed (%d rules passed)",
		auditID, view.Subject(), len(g.rules))
	return risk.Allowed(pending)
}

// CheckAll collects every violated rule's counterfactual instead of
// short-circuiting. Reporting and audit use only; the gate itself is Check.
func (g *Guard) CheckAll(view *contextgraph.View, pending *risk.Assessment) []risk.Counterfactual {
	var out []risk.Counterfactual
	for _, rule := range g.rules {
		if !rule.Check(view, pending) {
			out = append(out, rule.Explain(view, pending))
		}
	}
	return out
}

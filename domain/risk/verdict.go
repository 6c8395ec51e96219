package risk

import "github.com/KeSeaman/deep-causality/domain/core"

// Counterfactual explains a blocked assessment: which rule fired, which
// inputs were missing or contradictory, and what would have let the
// prediction proceed.
type Counterfactual struct {
	BlockedAction string            `json:"blocked_action"`
	RuleViolated  string            `json:"rule_violated"`
	RuleID        core.RuleID       `json:"rule_id"`
	Statement     string            `json:"counterfactual"`
	Severity      int               `json:"severity"` // 1-10, audit metadata
	Context       map[string]string `json:"context,omitempty"`
}

// NewCounterfactual builds an explanation with an empty context map.
func NewCounterfactual(action, violated string, id core.RuleID, statement string, severity int) Counterfactual {
	return Counterfactual{
		BlockedAction: action,
		RuleViolated:  violated,
		RuleID:        id,
		Statement:     statement,
		Severity:      severity,
		Context:       make(map[string]string),
	}
}

// WithContext attaches an audit key/value pair and returns the explanation.
func (c Counterfactual) WithContext(key, value string) Counterfactual {
	c.Context[key] = value
	return c
}

// Verdict is the guard's gate decision. Blocked is a valid terminal state,
// not a computational failure; callers must branch on it, never treat it as
// an error.
type Verdict struct {
	assessment *Assessment
	blocked    *Counterfactual
}

// Allowed wraps an assessment that passed every rule.
func Allowed(a *Assessment) Verdict {
	return Verdict{assessment: a}
}

// Blocked wraps the counterfactual of the first rule that refused emission.
func Blocked(c Counterfactual) Verdict {
	return Verdict{blocked: &c}
}

// IsAllowed reports whether the assessment may be surfaced.
func (v Verdict) IsAllowed() bool { return v.assessment != nil }

// IsBlocked reports whether emission was refused.
func (v Verdict) IsBlocked() bool { return v.blocked != nil }

// Assessment returns the allowed assessment, nil when blocked.
func (v Verdict) Assessment() *Assessment { return v.assessment }

// Explanation returns the counterfactual, nil when allowed.
func (v Verdict) Explanation() *Counterfactual { return v.blocked }

package risk

import (
	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/measure"
)

// RankedFeature is one entry of the mRMR output: a total-ordered, 1-based
// ranking with deterministic name-ascending tie-breaks. Immutable once
// produced.
type RankedFeature struct {
	Feature core.FeatureName `json:"feature"`
	Score   float64          `json:"score"` // mRMR objective, may be negative
	Rank    int              `json:"rank"`  // 1-based, unique
}

// TraceEntry records one causaloid activation during an evaluation pass.
type TraceEntry struct {
	Causaloid core.CausaloidID `json:"causaloid"`
	Inputs    string           `json:"inputs"` // summary of the context view the predicate saw
	Result    measure.Tristate `json:"result"`
	Error     string           `json:"error,omitempty"` // set when a predicate failed at runtime
}

// Evaluation is the raw output of one causaloid-graph pass: the aggregated
// score plus the append-only trace, with unknown activations tracked
// separately rather than folded into the score.
type Evaluation struct {
	Score        float64      `json:"score"`
	Trace        []TraceEntry `json:"trace"`
	UnknownCount int          `json:"unknown_count"`
	Confidence   float64      `json:"confidence"` // resolved causaloids / total
}

// Level buckets a risk score for reporting.
type Level string

const (
	LevelLow      Level = "low"
	LevelModerate Level = "moderate"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// LevelFromScore maps a [0,1] score onto a reporting level.
func LevelFromScore(score float64) Level {
	switch {
	case score < 0.25:
		return LevelLow
	case score < 0.50:
		return LevelModerate
	case score < 0.75:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// Assessment is the pipeline's terminal product for one (subject, time):
// produced exactly once, immutable thereafter.
type Assessment struct {
	ID           core.AssessmentID `json:"id"`
	Subject      core.SubjectID    `json:"subject"`
	Time         core.RelTime      `json:"time"`
	Score        float64           `json:"score"`
	Level        Level             `json:"level"`
	Confidence   float64           `json:"confidence"`
	UnknownCount int               `json:"unknown_count"`
	Trace        []TraceEntry      `json:"trace"`
}

package ports

import (
	"context"

	"github.com/KeSeaman/deep-causality/domain/risk"
)

// AssessmentSink receives per-subject verdicts for reporting, serialization,
// or visualization. Implementations own all export formats; this core only
// delivers the records.
type AssessmentSink interface {
	Publish(ctx context.Context, verdict risk.Verdict) error
}

// RankingSink receives the ordered feature list with scores.
type RankingSink interface {
	PublishRanking(ctx context.Context, ranked []risk.RankedFeature) error
}

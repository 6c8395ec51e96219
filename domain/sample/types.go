package sample

import (
	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/measure"
)

// Sample is one validated row: a subject at one relative-time index with a
// value (possibly Unknown) per feature and a binary outcome label. The
// external loader owns typing and Unknown-marker translation; this core never
// sees sentinel numbers.
type Sample struct {
	Subject  core.SubjectID
	Time     core.RelTime
	Features map[core.FeatureName]measure.Value
	Outcome  bool
}

// Value returns the sample's value for a feature, Unknown when the feature
// column is absent from the row.
func (s Sample) Value(f core.FeatureName) measure.Value {
	v, ok := s.Features[f]
	if !ok {
		return measure.Unknown()
	}
	return v
}

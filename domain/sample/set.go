package sample

import (
	"fmt"
	"sort"

	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/measure"
)

// Set is an immutable collection of samples. Construction sorts rows by
// (subject, time) and rejects duplicate time indices within one subject, so
// every consumer sees strictly increasing relative time per subject no matter
// the ingestion order.
type Set struct {
	samples  []Sample
	features []core.FeatureName // sorted ascending
}

// NewSet validates and orders the given rows. The input slice is copied.
func NewSet(samples []Sample) (*Set, error) {
	rows := make([]Sample, len(samples))
	copy(rows, samples)

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Subject != rows[j].Subject {
			return rows[i].Subject < rows[j].Subject
		}
		return rows[i].Time < rows[j].Time
	})

	seen := make(map[core.FeatureName]struct{})
	for i, r := range rows {
		if i > 0 && r.Subject == rows[i-1].Subject && r.Time == rows[i-1].Time {
			return nil, fmt.Errorf("%w: subject %s at t=%d",
				core.ErrDuplicateObservation, r.Subject, r.Time)
		}
		for f := range r.Features {
			seen[f] = struct{}{}
		}
	}

	features := make([]core.FeatureName, 0, len(seen))
	for f := range seen {
		features = append(features, f)
	}
	sort.Slice(features, func(i, j int) bool { return features[i] < features[j] })

	return &Set{samples: rows, features: features}, nil
}

// MustNewSet panics on invalid rows. Tests and fixtures only.
func MustNewSet(samples []Sample) *Set {
	s, err := NewSet(samples)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the row count.
func (s *Set) Len() int { return len(s.samples) }

// Features returns the feature names present in the set, ascending.
func (s *Set) Features() []core.FeatureName {
	out := make([]core.FeatureName, len(s.features))
	copy(out, s.features)
	return out
}

// Rows returns the ordered rows. Callers must not mutate the result.
func (s *Set) Rows() []Sample { return s.samples }

// Column extracts one feature column in row order.
func (s *Set) Column(f core.FeatureName) []measure.Value {
	out := make([]measure.Value, len(s.samples))
	for i, r := range s.samples {
		out[i] = r.Value(f)
	}
	return out
}

// OutcomeColumn returns the outcome label per row as 0/1 categories.
func (s *Set) OutcomeColumn() []int {
	out := make([]int, len(s.samples))
	for i, r := range s.samples {
		if r.Outcome {
			out[i] = 1
		}
	}
	return out
}

// SplitByOutcome partitions the set into outcome-positive and
// outcome-negative subsets. The two subsets share no mutable state and may be
// processed concurrently.
func (s *Set) SplitByOutcome() (pos, neg *Set) {
	var p, n []Sample
	for _, r := range s.samples {
		if r.Outcome {
			p = append(p, r)
		} else {
			n = append(n, r)
		}
	}
	// Rows are already validated and ordered; rebuild without re-checking.
	pos = &Set{samples: p, features: s.features}
	neg = &Set{samples: n, features: s.features}
	return pos, neg
}

// Subjects returns the distinct subject ids, ascending.
func (s *Set) Subjects() []core.SubjectID {
	var out []core.SubjectID
	for i, r := range s.samples {
		if i == 0 || r.Subject != s.samples[i-1].Subject {
			out = append(out, r.Subject)
		}
	}
	return out
}

// BySubject returns the rows for one subject in time order.
func (s *Set) BySubject(id core.SubjectID) []Sample {
	lo := sort.Search(len(s.samples), func(i int) bool { return s.samples[i].Subject >= id })
	hi := lo
	for hi < len(s.samples) && s.samples[hi].Subject == id {
		hi++
	}
	return s.samples[lo:hi]
}

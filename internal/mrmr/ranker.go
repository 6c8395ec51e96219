package mrmr

import (
	"sort"

	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/risk"
)

// Scores is the raw relevance/redundancy table the ranker consumes.
// Relevance is the mutual information of each candidate with the outcome;
// Redundancy the pairwise mutual information between candidates. Missing
// redundancy entries count as zero.
type Scores struct {
	Relevance  map[core.FeatureName]float64
	Redundancy map[core.FeatureName]map[core.FeatureName]float64
}

// NewScores returns an empty table.
func NewScores() Scores {
	return Scores{
		Relevance:  make(map[core.FeatureName]float64),
		Redundancy: make(map[core.FeatureName]map[core.FeatureName]float64),
	}
}

// SetRedundancy records the symmetric pairwise redundancy between a and b.
func (s Scores) SetRedundancy(a, b core.FeatureName, bits float64) {
	for _, pair := range [2][2]core.FeatureName{{a, b}, {b, a}} {
		m, ok := s.Redundancy[pair[0]]
		if !ok {
			m = make(map[core.FeatureName]float64)
			s.Redundancy[pair[0]] = m
		}
		m[pair[1]] = bits
	}
}

func (s Scores) redundancy(a, b core.FeatureName) float64 {
	if m, ok := s.Redundancy[a]; ok {
		return m[b]
	}
	return 0
}

// Rank greedily selects up to maxFeatures candidates: the first pick is the
// feature of highest relevance; each later step maximizes
// relevance(f) - mean(redundancy(f, s) for selected s). Every tie breaks by
// feature name ascending, so two runs over identical inputs yield identical
// orderings. Pure function of its inputs.
func Rank(scores Scores, maxFeatures int) ([]risk.RankedFeature, error) {
	if maxFeatures <= 0 {
		return nil, core.ErrInvalidMaxFeatures
	}
	if len(scores.Relevance) == 0 {
		return nil, core.ErrEmptyCandidateSet
	}

	remaining := make([]core.FeatureName, 0, len(scores.Relevance))
	for f := range scores.Relevance {
		remaining = append(remaining, f)
	}
	sort.Slice(remaining, func(i, j int) bool { return remaining[i] < remaining[j] })

	limit := maxFeatures
	if len(remaining) < limit {
		limit = len(remaining)
	}

	var selected []risk.RankedFeature
	for len(selected) < limit {
		best := -1
		bestScore := 0.0
		for i, f := range remaining {
			score := scores.Relevance[f]
			if len(selected) > 0 {
				var red float64
				for _, s := range selected {
					red += scores.redundancy(f, s.Feature)
				}
				score -= red / float64(len(selected))
			}
			// Strict > keeps the earliest (name-ascending) candidate on ties.
			if best == -1 || score > bestScore {
				best, bestScore = i, score
			}
		}

		selected = append(selected, risk.RankedFeature{
			Feature: remaining[best],
			Score:   bestScore,
			Rank:    len(selected) + 1,
		})
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return selected, nil
}

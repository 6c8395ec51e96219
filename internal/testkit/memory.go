package testkit

import (
	"context"
	"sync"

	"github.com/KeSeaman/deep-causality/domain/risk"
	"github.com/KeSeaman/deep-causality/domain/sample"
)

// StaticSource serves a pre-built sample set through the SampleSource port.
type StaticSource struct {
	Set *sample.Set
}

func (s *StaticSource) Load(_ context.Context) (*sample.Set, error) {
	return s.Set, nil
}

// MemorySink collects published verdicts and rankings in memory. Safe for
// concurrent publishers.
type MemorySink struct {
	mu       sync.Mutex
	verdicts []risk.Verdict
	rankings [][]risk.RankedFeature
}

func (m *MemorySink) Publish(_ context.Context, verdict risk.Verdict) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verdicts = append(m.verdicts, verdict)
	return nil
}

func (m *MemorySink) PublishRanking(_ context.Context, ranked []risk.RankedFeature) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rankings = append(m.rankings, ranked)
	return nil
}

// Verdicts returns a copy of everything published so far.
func (m *MemorySink) Verdicts() []risk.Verdict {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]risk.Verdict, len(m.verdicts))
	copy(out, m.verdicts)
	return out
}

// Rankings returns the published rankings.
func (m *MemorySink) Rankings() [][]risk.RankedFeature {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]risk.RankedFeature, len(m.rankings))
	copy(out, m.rankings)
	return out
}

package inference

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/measure"
	"github.com/KeSeaman/deep-causality/domain/risk"
	"github.com/KeSeaman/deep-causality/domain/sample"
	"github.com/KeSeaman/deep-causality/internal"
	"github.com/KeSeaman/deep-causality/internal/causaloid"
	"github.com/KeSeaman/deep-causality/internal/config"
	"github.com/KeSeaman/deep-causality/internal/contextgraph"
	"github.com/KeSeaman/deep-causality/internal/ethos"
	"github.com/KeSeaman/deep-causality/internal/information"
	"github.com/KeSeaman/deep-causality/internal/mrmr"
	"github.com/KeSeaman/deep-causality/internal/surd"
	"github.com/KeSeaman/deep-causality/ports"
)

// cohortWorkers bounds the per-subject fan-out.
const cohortWorkers = 8

// DerivedFeature defines a feature computed from observed values at the same
// relative time, materialized as derived context nodes with id
// back-references to its source observations.
type DerivedFeature struct {
	Name    core.FeatureName
	Inputs  []core.FeatureName
	Compute func(inputs ...measure.Value) measure.Value
}

// ShockIndex is the standard derived clinical feature: heart rate over mean
// arterial pressure. Unknown inputs propagate.
func ShockIndex() DerivedFeature {
	return DerivedFeature{
		Name:   "shock_index",
		Inputs: []core.FeatureName{"HR", "MAP"},
		Compute: func(inputs ...measure.Value) measure.Value {
			return inputs[0].Div(inputs[1])
		},
	}
}

// Pipeline wires the full analytic chain: dual SURD decomposition, mRMR
// ranking, per-subject context construction, causaloid evaluation, and the
// ethos gate. The causaloid graph and guard are immutable configuration
// shared read-only across all concurrent evaluations.
type Pipeline struct {
	cfg        *config.Config
	est        *information.Estimator
	decomposer *surd.Decomposer
	causal     *causaloid.Graph
	guard      *ethos.Guard
	derived    []DerivedFeature
	log        *internal.Logger
}

// New assembles a pipeline from its shared, read-only parts.
func New(cfg *config.Config, causal *causaloid.Graph, guard *ethos.Guard, derived []DerivedFeature) *Pipeline {
	est := information.NewEstimator(cfg.Estimation.MinSamples)
	return &Pipeline{
		cfg:        cfg,
		est:        est,
		decomposer: surd.NewDecomposer(est, cfg.Discretization.Bins),
		causal:     causal,
		guard:      guard,
		derived:    derived,
		log:        internal.DefaultLogger,
	}
}

// Guard exposes the pipeline's ethos guard.
func (p *Pipeline) Guard() *ethos.Guard { return p.guard }

// DiscoverFeatures runs the causal-discovery half of the pipeline: the dual
// SURD decomposition over the outcome-positive and outcome-negative subsets,
// then mRMR ranking over the full set's relevance/redundancy table.
func (p *Pipeline) DiscoverFeatures(ctx context.Context, set *sample.Set) (*surd.DualResult, []risk.RankedFeature, error) {
	pos, neg := set.SplitByOutcome()
	p.log.Info("causal discovery: %d positive rows, %d negative rows, %d features",
		pos.Len(), neg.Len(), len(set.Features()))

	dual, err := p.decomposer.DecomposeDual(ctx, pos, neg)
	if err != nil {
		return nil, nil, err
	}

	scores, err := p.computeScores(ctx, set)
	if err != nil {
		return nil, nil, err
	}
	ranked, err := mrmr.Rank(scores, p.cfg.Ranking.MaxFeatures)
	if err != nil {
		return nil, nil, err
	}

	p.log.Info("selected %d features, specificity score %.4f", len(ranked), dual.SpecificityScore)
	return dual, ranked, nil
}

// computeScores builds the mRMR input table over the whole set: relevance is
// I(f;outcome), redundancy the pairwise I(f;g). Features whose relevance
// estimate fails are dropped from the candidate pool; failed redundancy
// estimates default to zero.
func (p *Pipeline) computeScores(ctx context.Context, set *sample.Set) (mrmr.Scores, error) {
	scores := mrmr.NewScores()
	outcome := set.OutcomeColumn()
	features := set.Features()

	cols := make(map[core.FeatureName][]int, len(features))
	var candidates []core.FeatureName
	for _, f := range features {
		if err := ctx.Err(); err != nil {
			return scores, err
		}
		cols[f] = information.Discretize(set.Column(f), p.cfg.Discretization.Bins)
		est, err := p.est.MutualInformation(cols[f], outcome)
		if err != nil {
			p.log.Warn("dropping feature %s from ranking: %v", f, err)
			continue
		}
		scores.Relevance[f] = est.Bits
		candidates = append(candidates, f)
	}

	for i, a := range candidates {
		if err := ctx.Err(); err != nil {
			return scores, err
		}
		for _, b := range candidates[i+1:] {
			est, err := p.est.MutualInformation(cols[a], cols[b])
			if err != nil {
				continue
			}
			scores.SetRedundancy(a, b, est.Bits)
		}
	}
	return scores, nil
}

// BuildContext constructs one subject's context graph from its time-ordered
// rows, restricted to the ranked features, and materializes the configured
// derived features per row. A derived feature whose inputs are not all
// selected is skipped with a warning rather than failing the graph.
func (p *Pipeline) BuildContext(subject core.SubjectID, rows []sample.Sample, features []risk.RankedFeature) *contextgraph.Graph {
	selected := make(map[core.FeatureName]struct{}, len(features))
	for _, f := range features {
		selected[f.Feature] = struct{}{}
	}

	g := contextgraph.New(subject)
	for _, row := range rows {
		rowIDs := make(map[core.FeatureName]contextgraph.NodeID, len(features))
		for _, f := range features {
			rowIDs[f.Feature] = g.AddObservation(row.Time, f.Feature, row.Value(f.Feature))
		}

		for _, d := range p.derived {
			sources := make([]contextgraph.NodeID, 0, len(d.Inputs))
			values := make([]measure.Value, 0, len(d.Inputs))
			ok := true
			for _, in := range d.Inputs {
				id, present := rowIDs[in]
				if !present {
					ok = false
					break
				}
				sources = append(sources, id)
				values = append(values, row.Value(in))
			}
			if !ok {
				p.log.Debug("subject %s: derived %s skipped, inputs not selected", subject, d.Name)
				continue
			}
			if _, err := g.AddDerived(row.Time, d.Name, d.Compute(values...), sources); err != nil {
				p.log.Warn("subject %s: derived %s rejected: %v", subject, d.Name, err)
			}
		}
	}
	return g
}

// Report is the product of one complete batch run.
type Report struct {
	Dual     *surd.DualResult
	Ranked   []risk.RankedFeature
	Verdicts map[core.SubjectID]risk.Verdict
}

// Run executes the whole batch chain: load the cohort from the source,
// discover and rank drivers, then assess every subject at the given time.
// Sink failures are logged, never fatal; sinks may be nil.
func (p *Pipeline) Run(ctx context.Context, src ports.SampleSource, at core.RelTime, assessments ports.AssessmentSink, rankings ports.RankingSink) (*Report, error) {
	set, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	dual, ranked, err := p.DiscoverFeatures(ctx, set)
	if err != nil {
		return nil, err
	}
	if rankings != nil {
		if err := rankings.PublishRanking(ctx, ranked); err != nil {
			p.log.Warn("ranking publish failed: %v", err)
		}
	}

	verdicts, err := p.AssessCohort(ctx, set, at, ranked, assessments)
	if err != nil {
		return nil, err
	}
	return &Report{Dual: dual, Ranked: ranked, Verdicts: verdicts}, nil
}

// Assess evaluates the causaloid graph over one subject's context at the
// given relative time and gates the result through the ethos guard. Exactly
// one verdict is produced per (subject, time); Blocked is a valid terminal
// state, not an error.
func (p *Pipeline) Assess(g *contextgraph.Graph, at core.RelTime) risk.Verdict {
	view := g.At(at)
	eval := p.causal.Evaluate(view)

	pending := &risk.Assessment{
		ID:           core.NewAssessmentID(),
		Subject:      g.Subject(),
		Time:         at,
		Score:        eval.Score,
		Level:        risk.LevelFromScore(eval.Score),
		Confidence:   eval.Confidence,
		UnknownCount: eval.UnknownCount,
		Trace:        eval.Trace,
	}
	return p.guard.Check(view, pending)
}

// AssessCohort fans the assessment out over every subject of the set with a
// bounded worker pool. Subjects are independent: one subject's outcome never
// affects another's, and a sink failure is logged, not propagated. Only
// cancellation aborts the run.
func (p *Pipeline) AssessCohort(ctx context.Context, set *sample.Set, at core.RelTime, features []risk.RankedFeature, sink ports.AssessmentSink) (map[core.SubjectID]risk.Verdict, error) {
	subjects := set.Subjects()
	verdicts := make(map[core.SubjectID]risk.Verdict, len(subjects))

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := semaphore.NewWeighted(cohortWorkers)

	for _, subject := range subjects {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return verdicts, err
		}
		wg.Add(1)
		go func(subject core.SubjectID) {
			defer wg.Done()
			defer sem.Release(1)

			g := p.BuildContext(subject, set.BySubject(subject), features)
			verdict := p.Assess(g, at)

			if sink != nil {
				if err := sink.Publish(ctx, verdict); err != nil {
					p.log.Warn("subject %s: sink publish failed: %v", subject, err)
				}
			}

			mu.Lock()
			verdicts[subject] = verdict
			mu.Unlock()
		}(subject)
	}

	wg.Wait()
	return verdicts, ctx.Err()
}

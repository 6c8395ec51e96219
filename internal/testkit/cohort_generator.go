package testkit

import (
	"fmt"
	"math/rand"

	"github.com/montanaflynn/stats"

	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/measure"
	"github.com/KeSeaman/deep-causality/domain/sample"
)

// CohortConfig configures the synthetic ICU cohort generator.
type CohortConfig struct {
	Subjects        int     // number of subjects
	StepsPerSubject int     // relative-time steps per subject
	SepsisRate      float64 // fraction of outcome-positive subjects
	MissingRate     float64 // probability a value is recorded as Unknown
	Seed            int64
}

// DefaultCohortConfig returns defaults matching the end-to-end scenario:
// two 100-sample subsets over 5 numeric features.
func DefaultCohortConfig() CohortConfig {
	return CohortConfig{
		Subjects:        20,
		StepsPerSubject: 10,
		SepsisRate:      0.5,
		MissingRate:     0.0,
		Seed:            42,
	}
}

// VitalNames are the five synthetic features. HR, Lactate, and MAP carry
// outcome signal, Temp a weaker one, RR is pure noise.
var VitalNames = []core.FeatureName{"HR", "Lactate", "MAP", "RR", "Temp"}

// CohortGenerator produces a deterministic synthetic ICU cohort whose
// outcome-positive subjects drift toward tachycardia, hyperlactatemia, and
// hypotension.
type CohortGenerator struct {
	cfg CohortConfig
	rng *rand.Rand
}

// NewCohortGenerator creates a seeded generator.
func NewCohortGenerator(cfg CohortConfig) *CohortGenerator {
	return &CohortGenerator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// Generate builds the full cohort as one validated sample set.
func (g *CohortGenerator) Generate() (*sample.Set, error) {
	var rows []sample.Sample
	positive := int(float64(g.cfg.Subjects) * g.cfg.SepsisRate)

	for i := 0; i < g.cfg.Subjects; i++ {
		subject := core.SubjectID(fmt.Sprintf("subject_%03d", i+1))
		septic := i < positive
		rows = append(rows, g.generateStay(subject, septic)...)
	}
	return sample.NewSet(rows)
}

// generateStay produces one subject's time series.
func (g *CohortGenerator) generateStay(subject core.SubjectID, septic bool) []sample.Sample {
	rows := make([]sample.Sample, 0, g.cfg.StepsPerSubject)
	for t := 0; t < g.cfg.StepsPerSubject; t++ {
		// Septic subjects drift as the stay progresses.
		drift := 0.0
		if septic {
			drift = float64(t) / float64(g.cfg.StepsPerSubject)
		}

		features := map[core.FeatureName]measure.Value{
			"HR":      g.value(80+40*drift, 8),
			"Lactate": g.value(1.2+3.0*drift, 0.4),
			"MAP":     g.value(85-20*drift, 6),
			"RR":      g.value(16, 3),
			"Temp":    g.value(37.0+0.8*drift, 0.5),
		}
		rows = append(rows, sample.Sample{
			Subject:  subject,
			Time:     core.RelTime(t),
			Features: features,
			Outcome:  septic,
		})
	}
	return rows
}

func (g *CohortGenerator) value(mean, stddev float64) measure.Value {
	if g.cfg.MissingRate > 0 && g.rng.Float64() < g.cfg.MissingRate {
		return measure.Unknown()
	}
	return measure.Known(mean + g.rng.NormFloat64()*stddev)
}

// ColumnSummary reports mean and standard deviation of a feature's Known
// values, for fixture sanity checks.
func ColumnSummary(set *sample.Set, feature core.FeatureName) (mean, stddev float64) {
	var known []float64
	for _, v := range set.Column(feature) {
		if f, ok := v.Float(); ok {
			known = append(known, f)
		}
	}
	mean, _ = stats.Mean(known)
	stddev, _ = stats.StandardDeviation(known)
	return mean, stddev
}

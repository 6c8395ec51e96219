package testkit

import (
	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/internal/causaloid"
)

// ClinicalCausaloidGraph builds the sepsis screening graph used across the
// test suite: three vital-sign causaloids feeding one composite
// septic-shock pattern.
func ClinicalCausaloidGraph() (*causaloid.Graph, error) {
	causaloids := []causaloid.Causaloid{
		{
			ID:          "tachycardia",
			Description: "heart rate above 110 bpm",
			Inputs:      []core.FeatureName{"HR"},
			Weight:      1,
			Predicate:   causaloid.ValueAbove("HR", 110),
		},
		{
			ID:          "hypotension",
			Description: "mean arterial pressure below 65 mmHg",
			Inputs:      []core.FeatureName{"MAP"},
			Weight:      1.5,
			Predicate:   causaloid.ValueBelow("MAP", 65),
		},
		{
			ID:          "hyperlactatemia",
			Description: "lactate above 2.0 mmol/L",
			Inputs:      []core.FeatureName{"Lactate"},
			Weight:      2,
			Predicate:   causaloid.ValueAbove("Lactate", 2.0),
		},
		{
			ID:          "septic_shock_pattern",
			Description: "combined tachycardia, hypotension, and elevated lactate",
			Inputs:      []core.FeatureName{"HR", "MAP", "Lactate"},
			Weight:      3,
			DependsOn:   []core.CausaloidID{"tachycardia", "hypotension"},
			Predicate: causaloid.AllOf(
				causaloid.ValueAbove("HR", 100),
				causaloid.ValueBelow("MAP", 70),
				causaloid.ValueAbove("Lactate", 2.0),
			),
		},
	}
	edges := []causaloid.Edge{
		{From: "hyperlactatemia", To: "septic_shock_pattern", Kind: causaloid.EdgeSynergistic},
	}
	return causaloid.NewGraph(causaloids, edges)
}

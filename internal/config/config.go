package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/internal/errors"
)

// Config is the analysis configuration consumed by this core. Config files
// are parsed by an external collaborator; here the struct is either built
// directly or loaded from environment variables with defaults.
type Config struct {
	Discretization DiscretizationConfig
	Estimation     EstimationConfig
	Ranking        RankingConfig
	Guard          GuardConfig
	Monitor        MonitorConfig
}

// DiscretizationConfig controls the equal-frequency binning applied to every
// continuous feature before information estimates.
type DiscretizationConfig struct {
	Bins int
}

// EstimationConfig bounds the information estimator.
type EstimationConfig struct {
	MinSamples int // minimum count of Known-pair samples per estimate
}

// RankingConfig bounds the mRMR selection.
type RankingConfig struct {
	MaxFeatures int
}

// GuardConfig describes the deontic rule set.
type GuardConfig struct {
	OrderPolicy      string // "configured" or "severity"
	CriticalFeatures []core.FeatureName
	MaxUnknownRatio  float64
}

// MonitorConfig controls the streaming monitor.
type MonitorConfig struct {
	AlertThreshold float64 // risk score that triggers an alert
	CooldownSteps  int     // minimum relative-time steps between alerts per subject
	HistoryWindow  int     // number of recent updates kept per subject
}

// Order policies for the guard. Fixed at construction, never ambient at call
// sites.
const (
	OrderConfigured = "configured"
	OrderBySeverity = "severity"
)

// Default returns the configuration the original clinical deployment used.
func Default() *Config {
	return &Config{
		Discretization: DiscretizationConfig{Bins: 8},
		Estimation:     EstimationConfig{MinSamples: 30},
		Ranking:        RankingConfig{MaxFeatures: 15},
		Guard: GuardConfig{
			OrderPolicy:      OrderConfigured,
			CriticalFeatures: []core.FeatureName{"MAP", "HR"},
			MaxUnknownRatio:  0.5,
		},
		Monitor: MonitorConfig{
			AlertThreshold: 0.7,
			CooldownSteps:  5,
			HistoryWindow:  24,
		},
	}
}

// Load reads configuration overrides from environment variables and
// validates the result.
func Load() (*Config, error) {
	cfg := Default()

	cfg.Discretization.Bins = envInt("DC_DISCRETIZATION_BINS", cfg.Discretization.Bins)
	cfg.Estimation.MinSamples = envInt("DC_MIN_SAMPLES", cfg.Estimation.MinSamples)
	cfg.Ranking.MaxFeatures = envInt("DC_MAX_FEATURES", cfg.Ranking.MaxFeatures)
	cfg.Guard.MaxUnknownRatio = envFloat("DC_MAX_UNKNOWN_RATIO", cfg.Guard.MaxUnknownRatio)
	cfg.Monitor.AlertThreshold = envFloat("DC_ALERT_THRESHOLD", cfg.Monitor.AlertThreshold)
	cfg.Monitor.CooldownSteps = envInt("DC_ALERT_COOLDOWN", cfg.Monitor.CooldownSteps)

	if policy := os.Getenv("DC_GUARD_ORDER"); policy != "" {
		cfg.Guard.OrderPolicy = policy
	}
	if vitals := os.Getenv("DC_CRITICAL_FEATURES"); vitals != "" {
		cfg.Guard.CriticalFeatures = nil
		for _, v := range strings.Split(vitals, ",") {
			if name := strings.TrimSpace(v); name != "" {
				cfg.Guard.CriticalFeatures = append(cfg.Guard.CriticalFeatures, core.FeatureName(name))
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

// Validate rejects out-of-range settings before any component consumes them.
func (c *Config) Validate() error {
	if c.Discretization.Bins < 2 {
		return errors.ConfigInvalid("discretization bins must be at least 2")
	}
	if c.Estimation.MinSamples < 1 {
		return errors.ConfigInvalid("minimum sample count must be positive")
	}
	if c.Ranking.MaxFeatures < 1 {
		return errors.ConfigInvalid("max features must be positive")
	}
	if c.Guard.OrderPolicy != OrderConfigured && c.Guard.OrderPolicy != OrderBySeverity {
		return errors.ConfigInvalid("guard order policy must be 'configured' or 'severity'")
	}
	if c.Guard.MaxUnknownRatio < 0 || c.Guard.MaxUnknownRatio > 1 {
		return errors.ConfigInvalid("max unknown ratio must be in [0,1]")
	}
	if c.Monitor.AlertThreshold < 0 || c.Monitor.AlertThreshold > 1 {
		return errors.ConfigInvalid("alert threshold must be in [0,1]")
	}
	if c.Monitor.CooldownSteps < 0 {
		return errors.ConfigInvalid("alert cooldown cannot be negative")
	}
	return nil
}

func envInt(key string, def int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return def
}

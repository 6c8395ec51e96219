package inference

import (
	"fmt"
	"sync"

	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/measure"
	"github.com/KeSeaman/deep-causality/domain/risk"
	"github.com/KeSeaman/deep-causality/domain/sample"
	"github.com/KeSeaman/deep-causality/internal"
	"github.com/KeSeaman/deep-causality/internal/config"
)

// Update is one streaming observation batch for a subject at a relative
// time.
type Update struct {
	Subject core.SubjectID
	Time    core.RelTime
	Values  map[core.FeatureName]measure.Value
}

// AlertType classifies a monitor alert.
type AlertType string

const (
	AlertSepsisRisk   AlertType = "sepsis_risk"
	AlertEthosBlocked AlertType = "ethos_blocked"
)

// AlertSeverity orders alerts for triage.
type AlertSeverity int

const (
	SeverityInfo AlertSeverity = iota + 1
	SeverityWarning
	SeverityCritical
	SeverityEmergency
)

// Alert is raised when a subject crosses the risk threshold or the guard
// refuses an assessment.
type Alert struct {
	Subject  core.SubjectID
	Type     AlertType
	Severity AlertSeverity
	Time     core.RelTime
	Message  string
}

// Monitor provides continuous per-subject assessment over a rolling window
// of recent updates. Each Observe rebuilds the subject's context from the
// window and runs the same evaluate-then-gate path as the batch pipeline, so
// streaming and batch verdicts agree on identical data.
type Monitor struct {
	mu       sync.Mutex
	cfg      config.MonitorConfig
	pipeline *Pipeline
	features []risk.RankedFeature
	states   map[core.SubjectID]*subjectState
	log      *internal.Logger
}

type subjectState struct {
	history   []sample.Sample
	lastAlert core.RelTime
	alerted   bool
}

// NewMonitor wires a monitor over a configured pipeline and the ranked
// feature subset produced by discovery.
func NewMonitor(pipeline *Pipeline, cfg config.MonitorConfig, features []risk.RankedFeature) *Monitor {
	return &Monitor{
		cfg:      cfg,
		pipeline: pipeline,
		features: features,
		states:   make(map[core.SubjectID]*subjectState),
		log:      internal.DefaultLogger,
	}
}

// Observe ingests one update and returns the verdict for the subject at the
// update's time plus any alerts it raised. A blocked verdict yields an
// ethos alert and no score; a score at or above the alert threshold raises a
// risk alert subject to the per-subject cooldown.
func (m *Monitor) Observe(update Update) (risk.Verdict, []Alert) {
	m.mu.Lock()
	state, ok := m.states[update.Subject]
	if !ok {
		state = &subjectState{}
		m.states[update.Subject] = state
	}
	state.history = append(state.history, sample.Sample{
		Subject:  update.Subject,
		Time:     update.Time,
		Features: update.Values,
	})
	if m.cfg.HistoryWindow > 0 && len(state.history) > m.cfg.HistoryWindow {
		state.history = state.history[len(state.history)-m.cfg.HistoryWindow:]
	}
	history := make([]sample.Sample, len(state.history))
	copy(history, state.history)
	m.mu.Unlock()

	g := m.pipeline.BuildContext(update.Subject, history, m.features)
	verdict := m.pipeline.Assess(g, update.Time)

	var alerts []Alert
	if verdict.IsBlocked() {
		cf := verdict.Explanation()
		alerts = append(alerts, Alert{
			Subject:  update.Subject,
			Type:     AlertEthosBlocked,
			Severity: SeverityWarning,
			Time:     update.Time,
			Message:  fmt.Sprintf("assessment blocked: %s", cf.RuleViolated),
		})
		m.log.Warn("subject %s: assessment blocked by %s", update.Subject, cf.RuleID)
		return verdict, alerts
	}

	assessment := verdict.Assessment()
	if assessment.Score >= m.cfg.AlertThreshold && m.cooldownElapsed(update.Subject, update.Time) {
		severity := SeverityCritical
		if assessment.Score >= 0.9 {
			severity = SeverityEmergency
		}
		alerts = append(alerts, Alert{
			Subject:  update.Subject,
			Type:     AlertSepsisRisk,
			Severity: severity,
			Time:     update.Time,
			Message:  fmt.Sprintf("high sepsis risk: %.1f%%", assessment.Score*100),
		})
		m.log.Info("subject %s: risk alert at %.1f%%", update.Subject, assessment.Score*100)
	}
	return verdict, alerts
}

// cooldownElapsed records an alert emission when permitted.
func (m *Monitor) cooldownElapsed(subject core.SubjectID, at core.RelTime) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.states[subject]
	if state.alerted && int64(at-state.lastAlert) < int64(m.cfg.CooldownSteps) {
		return false
	}
	state.lastAlert = at
	state.alerted = true
	return true
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EvaluationMetrics tracks rule evaluation activity.
//
// Metrics:
//   - arbiter_evaluations_total: Total group evaluations by final outcome
//   - arbiter_evaluation_duration_seconds: Group evaluation duration
//   - arbiter_rule_hits_total: Rule firings by rule and hit type
//   - arbiter_fail_closed_total: Fail-closed conversions by reason
//   - arbiter_group_fetch_failures_total: Rule group fetch failures by kind
type EvaluationMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	ruleHitsTotal      *prometheus.CounterVec
	failClosedTotal    *prometheus.CounterVec
	fetchFailuresTotal *prometheus.CounterVec
}

// NewEvaluationMetrics creates and registers evaluation metrics with the
// provided registry.
func NewEvaluationMetrics(cfg Config, registry *prometheus.Registry) *EvaluationMetrics {
	em := &EvaluationMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of rule group evaluations",
			},
			[]string{"outcome"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of rule group evaluation in seconds",
				// Pure in-memory evaluation, expected well under 10ms.
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15),
			},
		),

		ruleHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_hits_total",
				Help:      "Total number of rule firings",
			},
			[]string{"rule_id", "hit_type"},
		),

		failClosedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "fail_closed_total",
				Help:      "Total number of evaluations converted to a fail-closed outcome",
			},
			[]string{"reason"},
		),

		fetchFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "group_fetch_failures_total",
				Help:      "Total number of rule group fetch failures",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(
		em.evaluationsTotal,
		em.evaluationDuration,
		em.ruleHitsTotal,
		em.failClosedTotal,
		em.fetchFailuresTotal,
	)

	return em
}

// RecordEvaluation records a completed group evaluation.
func (em *EvaluationMetrics) RecordEvaluation(outcome string, duration time.Duration) {
	em.evaluationsTotal.WithLabelValues(outcome).Inc()
	em.evaluationDuration.Observe(duration.Seconds())
}

// RecordRuleHit records a single rule firing.
func (em *EvaluationMetrics) RecordRuleHit(ruleID, hitType string) {
	em.ruleHitsTotal.WithLabelValues(ruleID, hitType).Inc()
}

// RecordFailClosed records a fail-closed conversion.
func (em *EvaluationMetrics) RecordFailClosed(reason string) {
	em.failClosedTotal.WithLabelValues(reason).Inc()
}

// RecordFetchFailure records a rule group fetch failure.
// Kind is "not_found" or "unreachable".
func (em *EvaluationMetrics) RecordFetchFailure(kind string) {
	em.fetchFailuresTotal.WithLabelValues(kind).Inc()
}

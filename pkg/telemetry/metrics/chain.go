package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ChainMetrics tracks decision chain and pending approval activity.
//
// Metrics:
//   - arbiter_chain_events_total: Chain events appended by event type
//   - arbiter_pending_decisions: Decisions currently awaiting approval
//   - arbiter_pending_resolved_total: Pending resolutions by status
//   - arbiter_chains_pruned_total: Resolved chains removed by retention
type ChainMetrics struct {
	eventsTotal      *prometheus.CounterVec
	pendingDecisions prometheus.Gauge
	resolvedTotal    *prometheus.CounterVec
	prunedTotal      prometheus.Counter
}

// NewChainMetrics creates and registers chain metrics with the provided
// registry.
func NewChainMetrics(cfg Config, registry *prometheus.Registry) *ChainMetrics {
	cm := &ChainMetrics{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "chain_events_total",
				Help:      "Total number of decision chain events appended",
			},
			[]string{"event_type"},
		),

		pendingDecisions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "pending_decisions",
				Help:      "Number of decisions currently awaiting approval",
			},
		),

		resolvedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "pending_resolved_total",
				Help:      "Total number of pending decisions resolved",
			},
			[]string{"status"},
		),

		prunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "chains_pruned_total",
				Help:      "Total number of resolved chains removed by retention",
			},
		),
	}

	registry.MustRegister(
		cm.eventsTotal,
		cm.pendingDecisions,
		cm.resolvedTotal,
		cm.prunedTotal,
	)

	return cm
}

// RecordEvent records a chain event append.
func (cm *ChainMetrics) RecordEvent(eventType string) {
	cm.eventsTotal.WithLabelValues(eventType).Inc()
}

// PendingEnqueued records a decision entering the pending state.
func (cm *ChainMetrics) PendingEnqueued() {
	cm.pendingDecisions.Inc()
}

// PendingResolved records a pending decision leaving the pending state.
// Status is "APPROVED" or "REJECTED".
func (cm *ChainMetrics) PendingResolved(status string) {
	cm.pendingDecisions.Dec()
	cm.resolvedTotal.WithLabelValues(status).Inc()
}

// SetPending sets the pending gauge to an absolute value, used when the
// store is loaded at startup.
func (cm *ChainMetrics) SetPending(n int) {
	cm.pendingDecisions.Set(float64(n))
}

// RecordPruned records chains removed by a retention run.
func (cm *ChainMetrics) RecordPruned(n int64) {
	cm.prunedTotal.Add(float64(n))
}

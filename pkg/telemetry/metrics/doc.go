// Package metrics provides Prometheus metrics for Arbiter.
//
// The Collector owns a prometheus.Registry and groups the per-concern
// metric sets (evaluation, chain). Mount Collector.Handler on the HTTP
// server to expose the standard /metrics endpoint.
package metrics

// Package telemetry provides observability for Arbiter.
//
// # Components
//
//   - logging: structured logging built on log/slog
//   - metrics: Prometheus metrics collection
//
// Each subpackage is independently usable; the server wires both from
// the top-level configuration.
package telemetry

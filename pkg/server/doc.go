// Package server provides the HTTP API for Arbiter.
//
// Routes:
//
//	POST /v1/decide                    evaluate a request context
//	GET  /v1/pending                   list decisions awaiting approval
//	POST /v1/decisions/{id}/approve    resolve a pending decision
//	GET  /v1/chains                    list all decision chains
//	GET  /v1/chains/{id}               fetch one decision chain
//	GET  /healthz                      liveness probe
//	GET  /metrics                      Prometheus metrics (when enabled)
package server

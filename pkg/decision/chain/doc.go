// Package chain provides the decision chain store: an append-only event
// log per decision id plus the pending-approval index, with a small state
// machine per id:
//
//	no-entry --LogEvent--> open --EnqueuePending--> pending --ResolvePending--> resolved
//
// LogEvent is always legal and creates the chain on first use.
// EnqueuePending is legal only from open (the service calls it exactly for
// ESCALATE outcomes). ResolvePending is idempotent: resolving a decision
// that is not pending is a no-op, so duplicate approval submissions are
// tolerated. Event chains are never rewritten, reordered, or touched by
// resolution.
//
// Two backends are provided: an in-memory store guarded by a single
// RWMutex, and a SQLite store (WAL mode) for deployments that need the
// audit trail to survive restarts.
package chain

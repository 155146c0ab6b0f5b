// Package center coordinates the full decision lifecycle: it generates
// decision ids, fetches the requested rule group, runs the engine,
// records the chain events, and manages the pending-approval queue.
//
// The service is the single writer to the chain store for a given
// decision id during Decide, so the REQUEST event always precedes the
// EVALUATION event. Approval resolution is idempotent: only the call
// that actually removes the decision from the pending set appends an
// APPROVAL_STATUS event.
package center

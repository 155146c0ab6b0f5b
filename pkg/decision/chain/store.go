package chain

import (
	"context"
	"time"

	"arbiter-hq/arbiter/pkg/decision"
)

// Store persists decision chains and the pending-approval index. Each
// method is atomic with respect to concurrent callers on the same decision
// id: no lost chain events, no pending entry delivered to two approvers.
type Store interface {
	// LogEvent appends a typed event to the decision's chain, creating the
	// chain on first use. Always legal.
	LogEvent(ctx context.Context, requestID string, eventType decision.EventType, details map[string]any) error

	// EnqueuePending places the decision in the pending set, storing the
	// original request payload for the approver. Legal only while the
	// chain is open; returns *decision.StateError otherwise.
	EnqueuePending(ctx context.Context, requestID string, entry decision.PendingEntry) error

	// ResolvePending removes the decision from the pending set. The chain
	// itself is untouched. Returns true when the decision was pending;
	// calling it in any other state is a no-op returning false, so
	// duplicate resolutions are tolerated.
	ResolvePending(ctx context.Context, requestID string) (bool, error)

	// GetChain returns the decision's chain, or decision.ErrNotFound.
	GetChain(ctx context.Context, requestID string) (*decision.Chain, error)

	// ListChains returns all chains, ordered by decision id.
	ListChains(ctx context.Context) ([]*decision.Chain, error)

	// ListPending returns all decisions awaiting approval.
	ListPending(ctx context.Context) ([]decision.PendingEntry, error)

	// PruneResolved deletes resolved chains whose last event predates the
	// cutoff, returning the number of chains removed.
	PruneResolved(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases resources held by the store.
	Close() error
}

package decision

import "time"

// EventType identifies a lifecycle event in a decision chain.
type EventType string

const (
	// EventRequest records the original request (description + context).
	// It is always the first event of a chain.
	EventRequest EventType = "REQUEST"

	// EventEvaluation records the evaluation result (outcome + matched rules).
	EventEvaluation EventType = "EVALUATION"

	// EventApprovalStatus records a human approval or rejection of a
	// previously escalated decision.
	EventApprovalStatus EventType = "APPROVAL_STATUS"
)

// ChainState is the lifecycle state of a decision id within the chain store.
type ChainState string

const (
	// StateOpen means a chain exists and the decision is not awaiting approval.
	StateOpen ChainState = "open"

	// StatePending means the decision is awaiting human approval.
	StatePending ChainState = "pending"

	// StateResolved means a pending decision has been approved or rejected.
	StateResolved ChainState = "resolved"
)

// ChainEvent is a single typed event in a decision chain.
type ChainEvent struct {
	// Timestamp is when the event was logged.
	Timestamp time.Time `json:"timestamp"`

	// Type is the event type.
	Type EventType `json:"event_type"`

	// Details carries event-specific payload (request context, outcome,
	// approver identity, ...).
	Details map[string]any `json:"details,omitempty"`
}

// Chain is the append-only ordered sequence of lifecycle events for one
// decision id. Events grow monotonically and are never rewritten or
// reordered.
type Chain struct {
	// RequestID is the decision id this chain belongs to.
	RequestID string `json:"request_id"`

	// State is the current lifecycle state.
	State ChainState `json:"state"`

	// Events are the chain events in the order they were logged.
	Events []ChainEvent `json:"events"`
}

// PendingEntry is one decision awaiting human approval, together with the
// original request payload shown to the approver.
type PendingEntry struct {
	// RequestID is the decision id awaiting resolution.
	RequestID string `json:"request_id"`

	// Description is the original request description.
	Description string `json:"description"`

	// Context is the original request context.
	Context map[string]any `json:"context"`

	// EnqueuedAt is when the decision entered the pending set.
	EnqueuedAt time.Time `json:"enqueued_at"`
}

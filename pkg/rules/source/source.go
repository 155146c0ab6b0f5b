package source

import (
	"context"
	"errors"
	"fmt"

	"arbiter-hq/arbiter/pkg/rules"
)

// ErrGroupNotFound indicates the rule store has no group with the given id.
var ErrGroupNotFound = errors.New("rule group not found")

// UnreachableError indicates the rule store could not be consulted at all:
// transport failure, timeout, or a server-side error. An inaccessible
// policy must never be treated as "no policy", so the engine maps this to
// a fail-closed ESCALATE.
type UnreachableError struct {
	Endpoint string
	Cause    error
}

// Error returns the error message.
func (e *UnreachableError) Error() string {
	return fmt.Sprintf("rule store unreachable at %s: %v", e.Endpoint, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *UnreachableError) Unwrap() error {
	return e.Cause
}

// Source fetches rule groups from a rule store. Implementations must be
// safe for concurrent use; FetchGroup is the one network-bound suspension
// point in the decision path and must honor context deadlines.
type Source interface {
	FetchGroup(ctx context.Context, groupID string) (*rules.Group, error)
}

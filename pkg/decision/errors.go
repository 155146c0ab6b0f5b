package decision

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a referenced decision id does not exist.
var ErrNotFound = errors.New("decision not found")

// StateError indicates a chain store operation that is illegal in the
// decision's current lifecycle state, such as enqueueing a pending entry
// for an id with no chain.
type StateError struct {
	RequestID string
	State     ChainState
	Op        string
}

// Error returns the error message.
func (e *StateError) Error() string {
	return fmt.Sprintf("decision %s: %s not allowed in state %q", e.RequestID, e.Op, e.State)
}

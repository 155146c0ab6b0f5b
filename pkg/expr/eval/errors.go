package eval

import "fmt"

// UnsafeReason classifies why a comparison could not be evaluated safely.
type UnsafeReason string

const (
	// ReasonMissingVariable means a referenced context variable is absent.
	ReasonMissingVariable UnsafeReason = "missing_variable"

	// ReasonTypeMismatch means the operand types cannot be compared and no
	// numeric coercion is possible.
	ReasonTypeMismatch UnsafeReason = "type_mismatch"
)

// UnsafeError signals that an expression could not be evaluated safely.
// It never escapes the evaluator: Evaluate converts it into a fail-closed
// Result.
type UnsafeError struct {
	Reason   UnsafeReason
	Variable string
	Detail   string
}

// Error returns the error message.
func (e *UnsafeError) Error() string {
	if e.Variable != "" {
		return fmt.Sprintf("unsafe evaluation (%s) on %q: %s", e.Reason, e.Variable, e.Detail)
	}
	return fmt.Sprintf("unsafe evaluation (%s): %s", e.Reason, e.Detail)
}

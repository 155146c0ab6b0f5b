// Package eval implements the expression evaluator: one expression tree
// against one context, producing an outcome, a no-match, or a fail-closed
// conversion.
//
// The evaluator is pure and deterministic; it allocates but holds no state,
// so concurrent evaluations need no synchronization.
//
// The contract distinguishes two non-firing situations that must never be
// conflated:
//
//   - NoMatch: the condition evaluated safely and did not apply. The rule
//     contributes nothing.
//   - Fail closed: the condition could not be evaluated safely (a referenced
//     variable is missing, or operand types cannot be compared). The result
//     is a concrete restrictive outcome, never a silent false: a silently
//     false rule would let a risky request bypass the rule entirely.
//
// Which restrictive outcome a fail-closed conversion produces is a policy
// parameter, see FailPolicy.
package eval

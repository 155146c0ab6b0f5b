// Package engine implements the rule-set evaluator: the component that
// turns one rule group plus one request context into a single outcome with
// full firing provenance.
//
// For each rule, override ("edge case") conditions are evaluated before the
// primary condition; the first override producing a non-NoMatch result
// pre-empts the primary entirely. Outcomes from all fired rules are then
// reduced under the total restrictiveness order DENY > ESCALATE > ALLOW:
// the most restrictive outcome wins. If nothing fires, the result is ALLOW.
//
// Before each condition is evaluated, the variable resolver supplies
// best-effort aliases for variables the expression references but the
// context lacks verbatim, so naming drift between rule authors and calling
// systems does not spuriously trigger the evaluator's fail-closed path.
//
// The engine is pure: it holds no mutable state and is safe for fully
// parallel use.
package engine

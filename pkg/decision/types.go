package decision

import "time"

// HitType identifies which part of a rule produced a firing.
type HitType string

const (
	// HitPrimary means the rule's primary condition fired.
	HitPrimary HitType = "primary"

	// HitOverride means one of the rule's override ("edge case") conditions
	// fired and pre-empted the primary condition.
	HitOverride HitType = "override"

	// HitDiagnostic marks a synthetic firing injected by the engine itself,
	// such as the fail-closed marker attached when the rule group could not
	// be fetched.
	HitDiagnostic HitType = "diagnostic"
)

// MatchedRule records the provenance of a single rule firing: which rule,
// which of its conditions, and the literal expression text that matched.
type MatchedRule struct {
	// RuleID is the unique identifier of the rule that fired.
	RuleID string `json:"rule_id"`

	// RuleName is the human-readable name of the rule.
	RuleName string `json:"rule_name"`

	// HitType distinguishes primary, override, and diagnostic firings.
	HitType HitType `json:"hit_type"`

	// TriggerExpression is the literal text of the condition that matched.
	TriggerExpression string `json:"trigger_expression"`

	// Outcome is the outcome this firing contributed to conflict resolution.
	Outcome Outcome `json:"outcome"`

	// FailClosed is true when the outcome was produced by the fail-closed
	// path (missing variable or type mismatch) rather than a condition that
	// evaluated to true.
	FailClosed bool `json:"fail_closed,omitempty"`

	// FailReason classifies the fail-closed conversion ("missing_variable",
	// "type_mismatch") or the diagnostic cause for synthetic firings. Empty
	// unless FailClosed is set.
	FailReason string `json:"fail_reason,omitempty"`
}

// Decision is the result of one evaluation of one context against one group
// at one instant. It is created once per request and never mutated.
type Decision struct {
	// RequestID is the generated opaque identifier for this decision.
	RequestID string `json:"request_id"`

	// Outcome is the final outcome after conflict resolution.
	Outcome Outcome `json:"outcome"`

	// MatchedRules lists the ids of all rules that fired.
	MatchedRules []string `json:"matched_rules"`

	// MatchedDetails carries per-firing provenance.
	MatchedDetails []MatchedRule `json:"matched_details,omitempty"`

	// Timestamp is when the decision was made.
	Timestamp time.Time `json:"timestamp"`
}

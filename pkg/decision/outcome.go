package decision

import "strings"

// Outcome is the result of evaluating a request against a rule group.
// The three values form a total order of restrictiveness:
//
//	Deny > Escalate > Allow
//
// Conflict resolution across multiple fired rules depends on nothing but
// this ordering.
type Outcome string

const (
	// OutcomeAllow lets the request proceed. This is the default when no
	// rule fires: absence of a prohibition is not itself a denial.
	OutcomeAllow Outcome = "ALLOW"

	// OutcomeEscalate routes the decision to a human approver.
	OutcomeEscalate Outcome = "ESCALATE"

	// OutcomeDeny rejects the request outright.
	OutcomeDeny Outcome = "DENY"
)

// severity maps each outcome to its restrictiveness rank.
var severity = map[Outcome]int{
	OutcomeAllow:    0,
	OutcomeEscalate: 1,
	OutcomeDeny:     2,
}

// Severity returns the restrictiveness rank of the outcome. Higher is more
// restrictive. Unknown outcomes rank below Allow so they can never win
// conflict resolution.
func (o Outcome) Severity() int {
	if s, ok := severity[o]; ok {
		return s
	}
	return -1
}

// MoreRestrictiveThan reports whether o is strictly more restrictive than other.
func (o Outcome) MoreRestrictiveThan(other Outcome) bool {
	return o.Severity() > other.Severity()
}

// Valid reports whether o is one of the three defined outcomes.
func (o Outcome) Valid() bool {
	_, ok := severity[o]
	return ok
}

// MostRestrictive returns the most restrictive outcome among the given
// outcomes. If the slice is empty it returns OutcomeAllow, the policy
// default when no rule fires.
func MostRestrictive(outcomes []Outcome) Outcome {
	final := OutcomeAllow
	for _, o := range outcomes {
		if o.MoreRestrictiveThan(final) {
			final = o
		}
	}
	return final
}

// ParseOutcome maps an outcome token from rule text onto an Outcome.
// Both the canonical vocabulary (ALLOW/DENY/ESCALATE) and the tokens rule
// authors historically used (APPROVE/REJECT/ASK_FOR_APPROVAL) are accepted,
// case-insensitively. The second return value is false for unknown tokens.
func ParseOutcome(token string) (Outcome, bool) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "ALLOW", "APPROVE":
		return OutcomeAllow, true
	case "DENY", "REJECT":
		return OutcomeDeny, true
	case "ESCALATE", "ASK_FOR_APPROVAL":
		return OutcomeEscalate, true
	default:
		return "", false
	}
}

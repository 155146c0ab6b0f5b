package engine

import (
	"context"
	"testing"

	"arbiter-hq/arbiter/pkg/decision"
	"arbiter-hq/arbiter/pkg/rules"
)

func testGroup(rs ...rules.Rule) *rules.Group {
	return &rules.Group{ID: "g1", Name: "test group", Rules: rs}
}

func TestDecideNoRules(t *testing.T) {
	e := New(nil)

	got := e.Decide(context.Background(), testGroup(), map[string]any{"amount": 10})
	if got.Outcome != decision.OutcomeAllow {
		t.Errorf("outcome = %v, want ALLOW", got.Outcome)
	}
	if len(got.Matched) != 0 {
		t.Errorf("matched = %v, want none", got.Matched)
	}

	if got := e.Decide(context.Background(), nil, nil); got.Outcome != decision.OutcomeAllow {
		t.Errorf("nil group outcome = %v, want ALLOW", got.Outcome)
	}
}

func TestDecideMostRestrictiveWins(t *testing.T) {
	group := testGroup(
		rules.Rule{ID: "r1", Name: "allow small", Logic: "IF amount < 100 THEN APPROVE"},
		rules.Rule{ID: "r2", Name: "escalate eur", Logic: "IF currency == 'EUR' THEN ASK_FOR_APPROVAL"},
		rules.Rule{ID: "r3", Name: "deny flagged", Logic: "IF flagged == 'yes' THEN REJECT"},
	)

	e := New(nil)
	got := e.Decide(context.Background(), group, map[string]any{
		"amount":   50,
		"currency": "EUR",
		"flagged":  "yes",
	})

	if got.Outcome != decision.OutcomeDeny {
		t.Errorf("outcome = %v, want DENY", got.Outcome)
	}
	wantIDs := []string{"r1", "r2", "r3"}
	gotIDs := got.RuleIDs()
	if len(gotIDs) != len(wantIDs) {
		t.Fatalf("fired rules = %v, want %v", gotIDs, wantIDs)
	}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Errorf("fired rule %d = %q, want %q", i, gotIDs[i], wantIDs[i])
		}
	}
}

func TestDecideOverridePreemptsPrimary(t *testing.T) {
	group := testGroup(rules.Rule{
		ID:        "r1",
		Name:      "high value transfers",
		Logic:     "IF amount > 1000 THEN REJECT",
		EdgeCases: []string{"IF currency == 'GBP' THEN APPROVE"},
	})

	e := New(nil)

	// Override fires: the primary is never consulted.
	got := e.Decide(context.Background(), group, map[string]any{"amount": 5000, "currency": "GBP"})
	if got.Outcome != decision.OutcomeAllow {
		t.Errorf("outcome = %v, want ALLOW from override", got.Outcome)
	}
	if len(got.Matched) != 1 || got.Matched[0].HitType != decision.HitOverride {
		t.Fatalf("matched = %+v, want one override hit", got.Matched)
	}
	if got.Matched[0].TriggerExpression != "IF currency == 'GBP' THEN APPROVE" {
		t.Errorf("trigger = %q", got.Matched[0].TriggerExpression)
	}

	// Override does not apply: the primary fires.
	got = e.Decide(context.Background(), group, map[string]any{"amount": 5000, "currency": "EUR"})
	if got.Outcome != decision.OutcomeDeny {
		t.Errorf("outcome = %v, want DENY from primary", got.Outcome)
	}
	if len(got.Matched) != 1 || got.Matched[0].HitType != decision.HitPrimary {
		t.Fatalf("matched = %+v, want one primary hit", got.Matched)
	}
}

func TestDecideFirstOverrideShortCircuits(t *testing.T) {
	group := testGroup(rules.Rule{
		ID:    "r1",
		Name:  "ordered overrides",
		Logic: "IF amount > 0 THEN REJECT",
		EdgeCases: []string{
			"IF currency == 'GBP' THEN APPROVE",
			"IF currency == 'GBP' THEN REJECT",
		},
	})

	e := New(nil)
	got := e.Decide(context.Background(), group, map[string]any{"amount": 1, "currency": "GBP"})

	if got.Outcome != decision.OutcomeAllow {
		t.Errorf("outcome = %v, want ALLOW from the first override", got.Outcome)
	}
	if len(got.Matched) != 1 {
		t.Errorf("matched %d firings, want 1", len(got.Matched))
	}
}

func TestDecideMalformedConditionIsNoMatch(t *testing.T) {
	group := testGroup(
		rules.Rule{ID: "r1", Name: "broken", Logic: "deny everything big"},
		rules.Rule{ID: "r2", Name: "working", Logic: "IF amount > 10 THEN REJECT"},
	)

	e := New(nil)
	got := e.Decide(context.Background(), group, map[string]any{"amount": 50})

	if got.Outcome != decision.OutcomeDeny {
		t.Errorf("outcome = %v, want DENY from the intact rule", got.Outcome)
	}
	if len(got.Matched) != 1 || got.Matched[0].RuleID != "r2" {
		t.Errorf("matched = %+v, want only r2", got.Matched)
	}
}

func TestDecideMalformedOverrideStillEvaluatesPrimary(t *testing.T) {
	group := testGroup(rules.Rule{
		ID:        "r1",
		Name:      "broken override",
		Logic:     "IF amount > 10 THEN REJECT",
		EdgeCases: []string{"unless it is a holiday"},
	})

	e := New(nil)
	got := e.Decide(context.Background(), group, map[string]any{"amount": 50})

	if got.Outcome != decision.OutcomeDeny {
		t.Errorf("outcome = %v, want DENY", got.Outcome)
	}
	if len(got.Matched) != 1 || got.Matched[0].HitType != decision.HitPrimary {
		t.Fatalf("matched = %+v, want primary hit", got.Matched)
	}
}

func TestDecideFailClosedWithinGroup(t *testing.T) {
	group := testGroup(
		rules.Rule{ID: "r1", Name: "needs missing var", Logic: "IF velocity > 5 THEN REJECT"},
		rules.Rule{ID: "r2", Name: "allows", Logic: "IF amount < 100 THEN APPROVE"},
	)

	e := New(nil)
	got := e.Decide(context.Background(), group, map[string]any{"amount": 10})

	// r1 fails closed to DENY (its declared outcome); r2 allows; DENY wins.
	if got.Outcome != decision.OutcomeDeny {
		t.Errorf("outcome = %v, want DENY", got.Outcome)
	}

	var failClosed *decision.MatchedRule
	for i := range got.Matched {
		if got.Matched[i].RuleID == "r1" {
			failClosed = &got.Matched[i]
		}
	}
	if failClosed == nil {
		t.Fatal("r1 should have fired fail-closed")
	}
	if !failClosed.FailClosed || failClosed.Outcome != decision.OutcomeDeny {
		t.Errorf("r1 firing = %+v, want fail-closed DENY", failClosed)
	}
}

func TestDecideStructuredFormPreferred(t *testing.T) {
	group := testGroup(rules.Rule{
		ID:    "r1",
		Name:  "dual form",
		Logic: "IF amount > 999999 THEN APPROVE",
		LogicJSON: map[string]any{
			"if": []any{
				map[string]any{">": []any{map[string]any{"var": "amount"}, float64(100)}},
				"REJECT",
				nil,
			},
		},
	})

	e := New(nil)
	got := e.Decide(context.Background(), group, map[string]any{"amount": 500})

	if got.Outcome != decision.OutcomeDeny {
		t.Errorf("outcome = %v, want DENY from the structured form", got.Outcome)
	}
}

func TestDecideResolverBridgesNamingDrift(t *testing.T) {
	group := testGroup(rules.Rule{
		ID:    "r1",
		Name:  "drifted name",
		Logic: "IF amount > 1000 THEN REJECT",
	})

	e := New(nil)
	got := e.Decide(context.Background(), group, map[string]any{"transaction_amount": 5000})

	if got.Outcome != decision.OutcomeDeny {
		t.Errorf("outcome = %v, want DENY via resolver alias", got.Outcome)
	}
	if len(got.Matched) != 1 || got.Matched[0].FailClosed {
		t.Errorf("matched = %+v, want a clean firing", got.Matched)
	}
}

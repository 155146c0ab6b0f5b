package decision

import "testing"

func TestMostRestrictive(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []Outcome
		want     Outcome
	}{
		{
			name:     "empty defaults to allow",
			outcomes: nil,
			want:     OutcomeAllow,
		},
		{
			name:     "single allow",
			outcomes: []Outcome{OutcomeAllow},
			want:     OutcomeAllow,
		},
		{
			name:     "deny beats escalate",
			outcomes: []Outcome{OutcomeEscalate, OutcomeDeny},
			want:     OutcomeDeny,
		},
		{
			name:     "escalate beats allow",
			outcomes: []Outcome{OutcomeAllow, OutcomeEscalate, OutcomeAllow},
			want:     OutcomeEscalate,
		},
		{
			name:     "order does not matter",
			outcomes: []Outcome{OutcomeDeny, OutcomeAllow, OutcomeEscalate},
			want:     OutcomeDeny,
		},
		{
			name:     "unknown outcome never wins",
			outcomes: []Outcome{Outcome("BOGUS"), OutcomeAllow},
			want:     OutcomeAllow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MostRestrictive(tt.outcomes); got != tt.want {
				t.Errorf("MostRestrictive(%v) = %v, want %v", tt.outcomes, got, tt.want)
			}
		})
	}
}

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		token string
		want  Outcome
		ok    bool
	}{
		{"ALLOW", OutcomeAllow, true},
		{"DENY", OutcomeDeny, true},
		{"ESCALATE", OutcomeEscalate, true},
		{"APPROVE", OutcomeAllow, true},
		{"REJECT", OutcomeDeny, true},
		{"ASK_FOR_APPROVAL", OutcomeEscalate, true},
		{"reject", OutcomeDeny, true},
		{"  Approve  ", OutcomeAllow, true},
		{"MAYBE", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseOutcome(tt.token)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseOutcome(%q) = (%v, %v), want (%v, %v)", tt.token, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMoreRestrictiveThan(t *testing.T) {
	if !OutcomeDeny.MoreRestrictiveThan(OutcomeEscalate) {
		t.Error("DENY should be more restrictive than ESCALATE")
	}
	if !OutcomeEscalate.MoreRestrictiveThan(OutcomeAllow) {
		t.Error("ESCALATE should be more restrictive than ALLOW")
	}
	if OutcomeAllow.MoreRestrictiveThan(OutcomeAllow) {
		t.Error("an outcome is not more restrictive than itself")
	}
	if Outcome("BOGUS").MoreRestrictiveThan(OutcomeAllow) {
		t.Error("unknown outcomes rank below ALLOW")
	}
}

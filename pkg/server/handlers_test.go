package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"arbiter-hq/arbiter/pkg/center"
	"arbiter-hq/arbiter/pkg/config"
	"arbiter-hq/arbiter/pkg/decision"
	"arbiter-hq/arbiter/pkg/decision/chain"
	"arbiter-hq/arbiter/pkg/engine"
	"arbiter-hq/arbiter/pkg/rules"
	"arbiter-hq/arbiter/pkg/rules/source"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	group := &rules.Group{
		ID: "payments",
		Rules: []rules.Rule{
			{ID: "r-deny", Name: "deny large", Logic: "IF amount > 1000 THEN REJECT"},
			{ID: "r-escalate", Name: "escalate eur", Logic: "IF currency == 'EUR' THEN ASK_FOR_APPROVAL"},
		},
	}

	svc := center.New(source.NewStaticSource(group), engine.New(nil), chain.NewMemoryStore(), nil)
	srv := NewServer(&config.ServerConfig{ListenAddress: "127.0.0.1:0"}, svc, nil)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHandleDecide(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/decide", DecideRequest{
		Description: "large transfer",
		Context:     map[string]any{"amount": 5000, "currency": "USD"},
		GroupID:     "payments",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	dec := decodeJSON[decision.Decision](t, resp)
	if dec.Outcome != decision.OutcomeDeny {
		t.Errorf("outcome = %v, want DENY", dec.Outcome)
	}
	if dec.RequestID == "" {
		t.Error("missing request id")
	}
}

func TestHandleDecideBadBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/v1/decide", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPendingAndApproveFlow(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/decide", DecideRequest{
		Description: "eur transfer",
		Context:     map[string]any{"amount": 10, "currency": "EUR"},
		GroupID:     "payments",
	})
	dec := decodeJSON[decision.Decision](t, resp)
	if dec.Outcome != decision.OutcomeEscalate {
		t.Fatalf("outcome = %v, want ESCALATE", dec.Outcome)
	}

	resp, err := http.Get(ts.URL + "/v1/pending")
	if err != nil {
		t.Fatalf("GET pending: %v", err)
	}
	pending := decodeJSON[[]decision.PendingEntry](t, resp)
	if len(pending) != 1 || pending[0].RequestID != dec.RequestID {
		t.Fatalf("pending = %+v", pending)
	}

	resp = postJSON(t, ts.URL+"/v1/decisions/"+dec.RequestID+"/approve", ApproveRequest{
		Approved: true,
		Approver: "alex",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve status = %d, want 200", resp.StatusCode)
	}
	approval := decodeJSON[ApproveResponse](t, resp)
	if !approval.Resolved {
		t.Error("first approval should resolve")
	}

	// Duplicate approval is tolerated and reported as not-resolved.
	resp = postJSON(t, ts.URL+"/v1/decisions/"+dec.RequestID+"/approve", ApproveRequest{Approved: true, Approver: "sam"})
	approval = decodeJSON[ApproveResponse](t, resp)
	if approval.Resolved {
		t.Error("second approval must be a no-op")
	}

	// The chain records the approval exactly once.
	resp, err = http.Get(ts.URL + "/v1/chains/" + dec.RequestID)
	if err != nil {
		t.Fatalf("GET chain: %v", err)
	}
	ch := decodeJSON[decision.Chain](t, resp)
	if len(ch.Events) != 3 || ch.Events[2].Type != decision.EventApprovalStatus {
		t.Errorf("chain events = %+v", ch.Events)
	}
	if ch.State != decision.StateResolved {
		t.Errorf("state = %v, want resolved", ch.State)
	}
}

func TestApproveUnknownDecision(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/decisions/nope/approve", ApproveRequest{Approved: true})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGetChainNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/chains/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

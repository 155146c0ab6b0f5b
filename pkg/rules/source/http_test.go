package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"arbiter-hq/arbiter/pkg/rules"
)

func TestHTTPSourceFetchGroup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/groups/payments":
			json.NewEncoder(w).Encode(rules.Group{
				ID:   "payments",
				Name: "Payment rules",
				Rules: []rules.Rule{
					{ID: "r1", Logic: "IF amount > 1000 THEN REJECT"},
				},
			})
		case "/v1/groups/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	src := NewHTTPSource(&HTTPConfig{BaseURL: ts.URL})
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		group, err := src.FetchGroup(ctx, "payments")
		if err != nil {
			t.Fatalf("FetchGroup: %v", err)
		}
		if group.ID != "payments" || len(group.Rules) != 1 {
			t.Errorf("group = %+v", group)
		}
	})

	t.Run("missing group", func(t *testing.T) {
		_, err := src.FetchGroup(ctx, "nope")
		if !errors.Is(err, ErrGroupNotFound) {
			t.Errorf("error = %v, want ErrGroupNotFound", err)
		}
	})

	t.Run("server error is unreachable", func(t *testing.T) {
		_, err := src.FetchGroup(ctx, "broken")
		var unreachable *UnreachableError
		if !errors.As(err, &unreachable) {
			t.Errorf("error = %v, want UnreachableError", err)
		}
	})
}

func TestHTTPSourceTransportFailure(t *testing.T) {
	// Nothing listens here.
	src := NewHTTPSource(&HTTPConfig{BaseURL: "http://127.0.0.1:1"})

	_, err := src.FetchGroup(context.Background(), "payments")
	var unreachable *UnreachableError
	if !errors.As(err, &unreachable) {
		t.Fatalf("error = %v, want UnreachableError", err)
	}
	if unreachable.Unwrap() == nil {
		t.Error("unreachable error should carry its cause")
	}
}

package chain

import (
	"context"
	"path/filepath"
	"testing"

	"arbiter-hq/arbiter/pkg/decision"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	cfg := DefaultSQLiteConfig()
	cfg.Path = filepath.Join(t.TempDir(), "chains.db")

	store, err := NewSQLiteStore(cfg)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestSQLiteStore(t)
	exerciseStore(t, store)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultSQLiteConfig()
	cfg.Path = filepath.Join(t.TempDir(), "chains.db")

	store, err := NewSQLiteStore(cfg)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := store.LogEvent(ctx, "req-1", decision.EventRequest, map[string]any{"description": "transfer"}); err != nil {
		t.Fatalf("LogEvent: %v", err)
	}
	if err := store.LogEvent(ctx, "req-1", decision.EventEvaluation, map[string]any{"outcome": "ESCALATE"}); err != nil {
		t.Fatalf("LogEvent: %v", err)
	}
	if err := store.EnqueuePending(ctx, "req-1", decision.PendingEntry{RequestID: "req-1", Description: "transfer"}); err != nil {
		t.Fatalf("EnqueuePending: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewSQLiteStore(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	ch, err := reopened.GetChain(ctx, "req-1")
	if err != nil {
		t.Fatalf("GetChain after reopen: %v", err)
	}
	if len(ch.Events) != 2 || ch.State != decision.StatePending {
		t.Errorf("chain after reopen = %+v", ch)
	}
	if ch.Events[0].Details["description"] != "transfer" {
		t.Errorf("event details lost: %+v", ch.Events[0].Details)
	}

	pending, err := reopened.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending after reopen: %v", err)
	}
	if len(pending) != 1 || pending[0].RequestID != "req-1" {
		t.Errorf("pending after reopen = %+v", pending)
	}
}

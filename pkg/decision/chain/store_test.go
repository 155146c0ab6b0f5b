package chain

import (
	"context"
	"errors"
	"testing"
	"time"

	"arbiter-hq/arbiter/pkg/decision"
)

// exerciseStore runs the Store contract against any implementation.
func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("chain is append-only and ordered", func(t *testing.T) {
		id := "req-order"
		events := []decision.EventType{
			decision.EventRequest,
			decision.EventEvaluation,
			decision.EventApprovalStatus,
		}
		for i, et := range events {
			if err := store.LogEvent(ctx, id, et, map[string]any{"seq": float64(i)}); err != nil {
				t.Fatalf("LogEvent(%v): %v", et, err)
			}
		}

		ch, err := store.GetChain(ctx, id)
		if err != nil {
			t.Fatalf("GetChain: %v", err)
		}
		if len(ch.Events) != len(events) {
			t.Fatalf("got %d events, want %d", len(ch.Events), len(events))
		}
		for i, ev := range ch.Events {
			if ev.Type != events[i] {
				t.Errorf("event %d type = %v, want %v", i, ev.Type, events[i])
			}
		}
		if ch.Events[0].Type != decision.EventRequest {
			t.Error("first event must be the request")
		}
	})

	t.Run("unknown chain not found", func(t *testing.T) {
		if _, err := store.GetChain(ctx, "req-missing"); !errors.Is(err, decision.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("pending lifecycle", func(t *testing.T) {
		id := "req-pending"
		if err := store.LogEvent(ctx, id, decision.EventRequest, nil); err != nil {
			t.Fatalf("LogEvent: %v", err)
		}

		entry := decision.PendingEntry{
			RequestID:   id,
			Description: "wire transfer",
			Context:     map[string]any{"amount": float64(5000)},
		}
		if err := store.EnqueuePending(ctx, id, entry); err != nil {
			t.Fatalf("EnqueuePending: %v", err)
		}

		pending, err := store.ListPending(ctx)
		if err != nil {
			t.Fatalf("ListPending: %v", err)
		}
		found := false
		for _, p := range pending {
			if p.RequestID == id {
				found = true
				if p.Description != "wire transfer" {
					t.Errorf("description = %q", p.Description)
				}
			}
		}
		if !found {
			t.Fatal("enqueued entry missing from ListPending")
		}

		ch, err := store.GetChain(ctx, id)
		if err != nil {
			t.Fatalf("GetChain: %v", err)
		}
		if ch.State != decision.StatePending {
			t.Errorf("state = %v, want pending", ch.State)
		}

		// Double enqueue is a state error.
		var stateErr *decision.StateError
		if err := store.EnqueuePending(ctx, id, entry); !errors.As(err, &stateErr) {
			t.Errorf("second enqueue error = %v, want StateError", err)
		}

		resolved, err := store.ResolvePending(ctx, id)
		if err != nil {
			t.Fatalf("ResolvePending: %v", err)
		}
		if !resolved {
			t.Error("first resolution should report true")
		}

		// Idempotent: a second resolution is a silent no-op.
		resolved, err = store.ResolvePending(ctx, id)
		if err != nil {
			t.Fatalf("second ResolvePending: %v", err)
		}
		if resolved {
			t.Error("second resolution should report false")
		}

		ch, err = store.GetChain(ctx, id)
		if err != nil {
			t.Fatalf("GetChain: %v", err)
		}
		if ch.State != decision.StateResolved {
			t.Errorf("state = %v, want resolved", ch.State)
		}

		pending, err = store.ListPending(ctx)
		if err != nil {
			t.Fatalf("ListPending: %v", err)
		}
		for _, p := range pending {
			if p.RequestID == id {
				t.Error("resolved entry still listed as pending")
			}
		}
	})

	t.Run("enqueue without chain is a state error", func(t *testing.T) {
		var stateErr *decision.StateError
		err := store.EnqueuePending(ctx, "req-never-seen", decision.PendingEntry{})
		if !errors.As(err, &stateErr) {
			t.Errorf("error = %v, want StateError", err)
		}
	})

	t.Run("resolve without chain is a no-op", func(t *testing.T) {
		resolved, err := store.ResolvePending(ctx, "req-never-seen")
		if err != nil || resolved {
			t.Errorf("ResolvePending = (%v, %v), want (false, nil)", resolved, err)
		}
	})

	t.Run("list chains ordered by id", func(t *testing.T) {
		chains, err := store.ListChains(ctx)
		if err != nil {
			t.Fatalf("ListChains: %v", err)
		}
		if len(chains) < 2 {
			t.Fatalf("got %d chains, want at least 2", len(chains))
		}
		for i := 1; i < len(chains); i++ {
			if chains[i-1].RequestID >= chains[i].RequestID {
				t.Errorf("chains out of order: %q before %q", chains[i-1].RequestID, chains[i].RequestID)
			}
		}
	})

	t.Run("prune removes only old resolved chains", func(t *testing.T) {
		// req-pending was resolved above; req-order never entered pending
		// and stays open. A future cutoff prunes resolved chains only.
		n, err := store.PruneResolved(ctx, time.Now().Add(time.Hour))
		if err != nil {
			t.Fatalf("PruneResolved: %v", err)
		}
		if n != 1 {
			t.Errorf("pruned %d chains, want 1", n)
		}

		if _, err := store.GetChain(ctx, "req-pending"); !errors.Is(err, decision.ErrNotFound) {
			t.Errorf("resolved chain should be gone, got %v", err)
		}
		if _, err := store.GetChain(ctx, "req-order"); err != nil {
			t.Errorf("open chain must survive pruning: %v", err)
		}
	})
}

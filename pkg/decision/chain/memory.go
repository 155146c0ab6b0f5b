package chain

import (
	"context"
	"sort"
	"sync"
	"time"

	"arbiter-hq/arbiter/pkg/decision"
)

// record is the in-memory state for one decision id.
type record struct {
	events    []decision.ChainEvent
	state     decision.ChainState
	lastEvent time.Time
	pending   *decision.PendingEntry
}

// MemoryStore is the in-memory chain store. A single RWMutex guards all
// mutations; evaluation itself never holds the lock.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*record
}

// NewMemoryStore creates an empty in-memory chain store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*record),
	}
}

// LogEvent appends an event, creating the chain on first use.
func (s *MemoryStore) LogEvent(ctx context.Context, requestID string, eventType decision.EventType, details map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[requestID]
	if !ok {
		rec = &record{state: decision.StateOpen}
		s.records[requestID] = rec
	}

	now := time.Now()
	rec.events = append(rec.events, decision.ChainEvent{
		Timestamp: now,
		Type:      eventType,
		Details:   details,
	})
	rec.lastEvent = now

	return nil
}

// EnqueuePending transitions open -> pending and stores the request payload.
func (s *MemoryStore) EnqueuePending(ctx context.Context, requestID string, entry decision.PendingEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[requestID]
	if !ok {
		return &decision.StateError{RequestID: requestID, State: "no-entry", Op: "enqueue pending"}
	}
	if rec.state != decision.StateOpen {
		return &decision.StateError{RequestID: requestID, State: rec.state, Op: "enqueue pending"}
	}

	entry.RequestID = requestID
	if entry.EnqueuedAt.IsZero() {
		entry.EnqueuedAt = time.Now()
	}
	rec.state = decision.StatePending
	rec.pending = &entry

	return nil
}

// ResolvePending transitions pending -> resolved. Any other state is a
// no-op.
func (s *MemoryStore) ResolvePending(ctx context.Context, requestID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[requestID]
	if !ok || rec.state != decision.StatePending {
		return false, nil
	}

	rec.state = decision.StateResolved
	rec.pending = nil
	return true, nil
}

// GetChain returns a copy of the decision's chain.
func (s *MemoryStore) GetChain(ctx context.Context, requestID string) (*decision.Chain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[requestID]
	if !ok {
		return nil, decision.ErrNotFound
	}
	return s.snapshot(requestID, rec), nil
}

// ListChains returns copies of all chains, ordered by decision id.
func (s *MemoryStore) ListChains(ctx context.Context) ([]*decision.Chain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	chains := make([]*decision.Chain, 0, len(ids))
	for _, id := range ids {
		chains = append(chains, s.snapshot(id, s.records[id]))
	}
	return chains, nil
}

// ListPending returns all pending entries, ordered by decision id.
func (s *MemoryStore) ListPending(ctx context.Context) ([]decision.PendingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []decision.PendingEntry
	for _, rec := range s.records {
		if rec.pending != nil {
			pending = append(pending, *rec.pending)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].RequestID < pending[j].RequestID
	})
	return pending, nil
}

// PruneResolved deletes resolved chains whose last event predates cutoff.
func (s *MemoryStore) PruneResolved(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pruned int64
	for id, rec := range s.records {
		if rec.state == decision.StateResolved && rec.lastEvent.Before(cutoff) {
			delete(s.records, id)
			pruned++
		}
	}
	return pruned, nil
}

// Close clears the store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*record)
	return nil
}

// snapshot copies a record into a Chain. Callers hold at least the read
// lock.
func (s *MemoryStore) snapshot(requestID string, rec *record) *decision.Chain {
	events := make([]decision.ChainEvent, len(rec.events))
	copy(events, rec.events)
	return &decision.Chain{
		RequestID: requestID,
		State:     rec.state,
		Events:    events,
	}
}

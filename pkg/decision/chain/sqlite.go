package chain

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"arbiter-hq/arbiter/pkg/decision"
)

// SQLiteConfig contains configuration for the SQLite chain store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/chains.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore persists decision chains in SQLite. Transitions run inside
// transactions, so the per-id state machine holds under concurrent
// callers.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens (and if necessary creates) the chain database.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("open chain database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "chain.sqlite"),
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("SQLite chain store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize enables WAL mode, sets the busy timeout, and creates the schema.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("enable WAL: %w", err)
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if _, err := s.db.Exec("INSERT OR IGNORE INTO schema_version (version) VALUES (?)", SchemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return nil
}

// LogEvent appends an event, creating the chain row on first use.
func (s *SQLiteStore) LogEvent(ctx context.Context, requestID string, eventType decision.EventType, details map[string]any) error {
	detailsJSON, err := marshalDetails(details)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO chains (request_id, state, created_at, last_event_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(request_id) DO UPDATE SET last_event_at = excluded.last_event_at`,
		requestID, decision.StateOpen, now, now,
	); err != nil {
		return fmt.Errorf("upsert chain: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO chain_events (request_id, seq, timestamp, event_type, details)
		 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM chain_events WHERE request_id = ?), ?, ?, ?)`,
		requestID, requestID, now, eventType, detailsJSON,
	); err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	return tx.Commit()
}

// EnqueuePending transitions open -> pending and stores the payload.
func (s *SQLiteStore) EnqueuePending(ctx context.Context, requestID string, entry decision.PendingEntry) error {
	contextJSON, err := marshalDetails(entry.Context)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE chains SET state = ? WHERE request_id = ? AND state = ?`,
		decision.StatePending, requestID, decision.StateOpen,
	)
	if err != nil {
		return fmt.Errorf("transition to pending: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transition to pending: %w", err)
	}
	if affected == 0 {
		state, serr := s.chainState(ctx, tx, requestID)
		if serr != nil {
			return serr
		}
		return &decision.StateError{RequestID: requestID, State: state, Op: "enqueue pending"}
	}

	enqueuedAt := entry.EnqueuedAt
	if enqueuedAt.IsZero() {
		enqueuedAt = time.Now().UTC()
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO pending (request_id, description, context, enqueued_at) VALUES (?, ?, ?, ?)`,
		requestID, entry.Description, contextJSON, enqueuedAt,
	); err != nil {
		return fmt.Errorf("insert pending entry: %w", err)
	}

	return tx.Commit()
}

// ResolvePending transitions pending -> resolved; no-op in any other state.
func (s *SQLiteStore) ResolvePending(ctx context.Context, requestID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE chains SET state = ? WHERE request_id = ? AND state = ?`,
		decision.StateResolved, requestID, decision.StatePending,
	)
	if err != nil {
		return false, fmt.Errorf("transition to resolved: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition to resolved: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM pending WHERE request_id = ?`, requestID,
	); err != nil {
		return false, fmt.Errorf("delete pending entry: %w", err)
	}

	return true, tx.Commit()
}

// GetChain loads one chain with its events in logged order.
func (s *SQLiteStore) GetChain(ctx context.Context, requestID string) (*decision.Chain, error) {
	var state string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM chains WHERE request_id = ?`, requestID,
	).Scan(&state)
	if err == sql.ErrNoRows {
		return nil, decision.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load chain: %w", err)
	}

	events, err := s.loadEvents(ctx, requestID)
	if err != nil {
		return nil, err
	}

	return &decision.Chain{
		RequestID: requestID,
		State:     decision.ChainState(state),
		Events:    events,
	}, nil
}

// ListChains loads all chains ordered by decision id.
func (s *SQLiteStore) ListChains(ctx context.Context) ([]*decision.Chain, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT request_id, state FROM chains ORDER BY request_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list chains: %w", err)
	}
	defer rows.Close()

	var chains []*decision.Chain
	for rows.Next() {
		var id, state string
		if err := rows.Scan(&id, &state); err != nil {
			return nil, fmt.Errorf("scan chain: %w", err)
		}
		chains = append(chains, &decision.Chain{
			RequestID: id,
			State:     decision.ChainState(state),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chains: %w", err)
	}

	for _, c := range chains {
		events, err := s.loadEvents(ctx, c.RequestID)
		if err != nil {
			return nil, err
		}
		c.Events = events
	}

	return chains, nil
}

// ListPending loads all pending entries ordered by decision id.
func (s *SQLiteStore) ListPending(ctx context.Context) ([]decision.PendingEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT request_id, description, context, enqueued_at FROM pending ORDER BY request_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	var pending []decision.PendingEntry
	for rows.Next() {
		var entry decision.PendingEntry
		var contextJSON sql.NullString
		if err := rows.Scan(&entry.RequestID, &entry.Description, &contextJSON, &entry.EnqueuedAt); err != nil {
			return nil, fmt.Errorf("scan pending entry: %w", err)
		}
		if contextJSON.Valid && contextJSON.String != "" {
			if err := json.Unmarshal([]byte(contextJSON.String), &entry.Context); err != nil {
				return nil, fmt.Errorf("decode pending context: %w", err)
			}
		}
		pending = append(pending, entry)
	}
	return pending, rows.Err()
}

// PruneResolved deletes resolved chains older than the cutoff.
func (s *SQLiteStore) PruneResolved(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM chain_events WHERE request_id IN
		 (SELECT request_id FROM chains WHERE state = ? AND last_event_at < ?)`,
		decision.StateResolved, cutoff,
	); err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM chains WHERE state = ? AND last_event_at < ?`,
		decision.StateResolved, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("prune chains: %w", err)
	}

	pruned, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune chains: %w", err)
	}

	return pruned, tx.Commit()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// loadEvents loads a chain's events ordered by sequence number.
func (s *SQLiteStore) loadEvents(ctx context.Context, requestID string) ([]decision.ChainEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, event_type, details FROM chain_events
		 WHERE request_id = ? ORDER BY seq`,
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()

	var events []decision.ChainEvent
	for rows.Next() {
		var ev decision.ChainEvent
		var detailsJSON sql.NullString
		if err := rows.Scan(&ev.Timestamp, &ev.Type, &detailsJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if detailsJSON.Valid && detailsJSON.String != "" {
			if err := json.Unmarshal([]byte(detailsJSON.String), &ev.Details); err != nil {
				return nil, fmt.Errorf("decode event details: %w", err)
			}
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// chainState reads the current state of a chain inside a transaction,
// for building StateErrors.
func (s *SQLiteStore) chainState(ctx context.Context, tx *sql.Tx, requestID string) (decision.ChainState, error) {
	var state string
	err := tx.QueryRowContext(ctx,
		`SELECT state FROM chains WHERE request_id = ?`, requestID,
	).Scan(&state)
	if err == sql.ErrNoRows {
		return "no-entry", nil
	}
	if err != nil {
		return "", fmt.Errorf("load chain state: %w", err)
	}
	return decision.ChainState(state), nil
}

// marshalDetails encodes event details as JSON, tolerating nil.
func marshalDetails(details map[string]any) (string, error) {
	if details == nil {
		return "", nil
	}
	data, err := json.Marshal(details)
	if err != nil {
		return "", fmt.Errorf("encode details: %w", err)
	}
	return string(data), nil
}

package chain

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the chain database schema.
// Chains live in a small state table; events are append-only rows ordered
// by a per-chain sequence number; the pending index carries the payload
// shown to approvers.
const Schema = `
CREATE TABLE IF NOT EXISTS chains (
    request_id TEXT PRIMARY KEY,
    state TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    last_event_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS chain_events (
    request_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    timestamp TIMESTAMP NOT NULL,
    event_type TEXT NOT NULL,
    details TEXT,
    PRIMARY KEY (request_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_chain_events_request
    ON chain_events(request_id);

CREATE TABLE IF NOT EXISTS pending (
    request_id TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    context TEXT,
    enqueued_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

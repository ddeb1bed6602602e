package db

const schema = `
-- Draft review notes, keyed by the user under review
CREATE TABLE IF NOT EXISTS draft_notes (
    user_id TEXT PRIMARY KEY,
    body TEXT NOT NULL DEFAULT '',
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Recently viewed records, newest first
CREATE TABLE IF NOT EXISTS recently_viewed (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    record_id TEXT NOT NULL,
    label TEXT NOT NULL DEFAULT '',
    viewed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(kind, record_id)
);

-- Log of confirmed destructive actions taken from this machine
CREATE TABLE IF NOT EXISTS action_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    action TEXT NOT NULL,
    target_kind TEXT NOT NULL,
    target_id TEXT NOT NULL,
    detail TEXT NOT NULL DEFAULT '',
    timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_viewed_at ON recently_viewed(viewed_at DESC);
CREATE INDEX IF NOT EXISTS idx_action_timestamp ON action_log(timestamp DESC);
`

package db

import (
	"database/sql"
	"fmt"
	"time"
)

// DraftNote is an unsent review note for a user.
type DraftNote struct {
	UserID    string
	Body      string
	Reviewer  string
	UpdatedAt time.Time
}

// ViewedRecord is one entry in the recently-viewed list.
type ViewedRecord struct {
	Kind     string
	RecordID string
	Label    string
	ViewedAt time.Time
}

// ActionEntry records a confirmed destructive action.
type ActionEntry struct {
	SessionID  string
	Action     string
	TargetKind string
	TargetID   string
	Detail     string
	Timestamp  time.Time
}

// SaveDraftNote upserts the draft note for a user. An empty body
// deletes the draft instead of storing a blank row.
func (d *DB) SaveDraftNote(userID, reviewer, body string) error {
	if body == "" {
		return d.DeleteDraftNote(userID)
	}
	_, err := d.conn.Exec(`
		INSERT INTO draft_notes (user_id, body, reviewer, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			body = excluded.body,
			reviewer = excluded.reviewer,
			updated_at = CURRENT_TIMESTAMP`,
		userID, body, reviewer)
	if err != nil {
		return fmt.Errorf("save draft note: %w", err)
	}
	return nil
}

// GetDraftNote returns the draft note for a user, or nil if none exists.
func (d *DB) GetDraftNote(userID string) (*DraftNote, error) {
	var n DraftNote
	err := d.conn.QueryRow(`
		SELECT user_id, body, reviewer, updated_at
		FROM draft_notes WHERE user_id = ?`, userID).
		Scan(&n.UserID, &n.Body, &n.Reviewer, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get draft note: %w", err)
	}
	return &n, nil
}

// DeleteDraftNote removes the draft note for a user. Deleting a
// nonexistent draft is not an error.
func (d *DB) DeleteDraftNote(userID string) error {
	if _, err := d.conn.Exec(`DELETE FROM draft_notes WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete draft note: %w", err)
	}
	return nil
}

// RecordViewed marks a record as just viewed, moving it to the top of
// the recently-viewed list.
func (d *DB) RecordViewed(kind, recordID, label string) error {
	_, err := d.conn.Exec(`
		INSERT INTO recently_viewed (kind, record_id, label, viewed_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(kind, record_id) DO UPDATE SET
			label = excluded.label,
			viewed_at = CURRENT_TIMESTAMP`,
		kind, recordID, label)
	if err != nil {
		return fmt.Errorf("record viewed: %w", err)
	}
	return nil
}

// RecentlyViewed returns up to limit records, most recent first.
func (d *DB) RecentlyViewed(limit int) ([]ViewedRecord, error) {
	rows, err := d.conn.Query(`
		SELECT kind, record_id, label, viewed_at
		FROM recently_viewed
		ORDER BY viewed_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recently viewed: %w", err)
	}
	defer rows.Close()

	var records []ViewedRecord
	for rows.Next() {
		var r ViewedRecord
		if err := rows.Scan(&r.Kind, &r.RecordID, &r.Label, &r.ViewedAt); err != nil {
			return nil, fmt.Errorf("scan viewed record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// LogAction appends a confirmed destructive action to the local log.
func (d *DB) LogAction(e ActionEntry) error {
	_, err := d.conn.Exec(`
		INSERT INTO action_log (session_id, action, target_kind, target_id, detail)
		VALUES (?, ?, ?, ?, ?)`,
		e.SessionID, e.Action, e.TargetKind, e.TargetID, e.Detail)
	if err != nil {
		return fmt.Errorf("log action: %w", err)
	}
	return nil
}

// RecentActions returns up to limit logged actions, most recent first.
func (d *DB) RecentActions(limit int) ([]ActionEntry, error) {
	rows, err := d.conn.Query(`
		SELECT session_id, action, target_kind, target_id, detail, timestamp
		FROM action_log
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var entries []ActionEntry
	for rows.Next() {
		var e ActionEntry
		if err := rows.Scan(&e.SessionID, &e.Action, &e.TargetKind, &e.TargetID, &e.Detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sanketp27/travel-concierge/internal/types"
)

const historyContext = "chat_history"

// Message is one stored conversation turn.
type Message struct {
	Type    string `json:"type"` // "human" or "ai"
	Content string `json:"content"`
}

// SessionDAO provides session-scoped persistence over the cache and
// run_log tables: arbitrary key/value entries with optional TTL,
// conversation history, and state snapshots. It implements
// state.Persister.
type SessionDAO struct {
	db     *DB
	logger *slog.Logger
	now    func() time.Time

	// historyMu serializes history appends: the history blob is a
	// read-modify-write, and two concurrent turns on one session would
	// otherwise drop a message.
	historyMu sync.Mutex
}

// NewSessionDAO creates a SessionDAO over the given database.
func NewSessionDAO(db *DB) *SessionDAO {
	return &SessionDAO{
		db:     db,
		logger: slog.Default(),
		now:    time.Now,
	}
}

// Set stores a JSON-serialized value for a session key. A zero ttl
// means the entry never expires.
func (d *SessionDAO) Set(ctx context.Context, sessionID types.ID, key string, value any, ttl time.Duration) error {
	serialized, err := json.Marshal(value)
	if err != nil {
		return types.WrapError(types.SESSION_PERSIST_FAILED, "failed to serialize value", err)
	}

	var expiresAt any
	if ttl > 0 {
		expiresAt = float64(d.now().Add(ttl).UnixMilli()) / 1000
	}

	_, err = d.db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO cache (key, value, session_id, expires_at)
		VALUES (?, ?, ?, ?)
	`, key, string(serialized), sessionID.String(), expiresAt)
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to store cache entry", err)
	}
	return nil
}

// Get loads a session key into dst. Returns false when the key is
// absent or expired.
func (d *SessionDAO) Get(ctx context.Context, sessionID types.ID, key string, dst any) (bool, error) {
	var value string
	var expiresAt sql.NullFloat64

	err := d.db.conn.QueryRowContext(ctx, `
		SELECT value, expires_at FROM cache
		WHERE key = ? AND session_id = ?
	`, key, sessionID.String()).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, types.WrapError(types.DB_QUERY_FAILED, "failed to load cache entry", err)
	}

	if expiresAt.Valid && float64(d.now().UnixMilli())/1000 > expiresAt.Float64 {
		return false, nil
	}

	if err := json.Unmarshal([]byte(value), dst); err != nil {
		return false, types.WrapError(types.SESSION_PERSIST_FAILED, "failed to deserialize value", err)
	}
	return true, nil
}

// Delete removes a single session key.
func (d *SessionDAO) Delete(ctx context.Context, sessionID types.ID, key string) error {
	_, err := d.db.conn.ExecContext(ctx, `
		DELETE FROM cache WHERE key = ? AND session_id = ?
	`, key, sessionID.String())
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to delete cache entry", err)
	}
	return nil
}

// ClearSession removes every cache entry for a session. Run records are
// kept.
func (d *SessionDAO) ClearSession(ctx context.Context, sessionID types.ID) error {
	_, err := d.db.conn.ExecContext(ctx, `
		DELETE FROM cache WHERE session_id = ?
	`, sessionID.String())
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to clear session", err)
	}

	d.logger.Info("session cleared", "session_id", sessionID.String())
	return nil
}

// ClearExpired removes every expired cache entry across all sessions.
func (d *SessionDAO) ClearExpired(ctx context.Context) error {
	_, err := d.db.conn.ExecContext(ctx, `
		DELETE FROM cache
		WHERE expires_at IS NOT NULL AND expires_at < ?
	`, float64(d.now().UnixMilli())/1000)
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to clear expired entries", err)
	}
	return nil
}

func historyKey(sessionID types.ID) string {
	return sessionID.String() + historyContext
}

// Messages returns the full conversation history for a session, oldest
// first.
func (d *SessionDAO) Messages(ctx context.Context, sessionID types.ID) ([]Message, error) {
	var messages []Message
	if _, err := d.Get(ctx, sessionID, historyKey(sessionID), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// RecentMessages returns at most n of the latest messages, oldest first.
func (d *SessionDAO) RecentMessages(ctx context.Context, sessionID types.ID, n int) ([]Message, error) {
	messages, err := d.Messages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(messages) > n {
		messages = messages[len(messages)-n:]
	}
	return messages, nil
}

// AppendMessage appends one turn to the session's conversation history.
func (d *SessionDAO) AppendMessage(ctx context.Context, sessionID types.ID, msg Message) error {
	d.historyMu.Lock()
	defer d.historyMu.Unlock()

	messages, err := d.Messages(ctx, sessionID)
	if err != nil {
		return err
	}
	messages = append(messages, msg)
	return d.Set(ctx, sessionID, historyKey(sessionID), messages, 0)
}

// AppendUserMessage records a human turn.
func (d *SessionDAO) AppendUserMessage(ctx context.Context, sessionID types.ID, content string) error {
	return d.AppendMessage(ctx, sessionID, Message{Type: "human", Content: content})
}

// AppendAssistantMessage records an assistant turn.
func (d *SessionDAO) AppendAssistantMessage(ctx context.Context, sessionID types.ID, content string) error {
	return d.AppendMessage(ctx, sessionID, Message{Type: "ai", Content: content})
}

func stateKey(sessionID types.ID) string {
	return "state_" + sessionID.String()
}

// SaveState persists a session's state snapshot.
func (d *SessionDAO) SaveState(ctx context.Context, sessionID types.ID, state map[string]any) error {
	return d.Set(ctx, sessionID, stateKey(sessionID), state, 0)
}

// LoadState returns the persisted state snapshot, or nil when the
// session has none yet.
func (d *SessionDAO) LoadState(ctx context.Context, sessionID types.ID) (map[string]any, error) {
	var state map[string]any
	found, err := d.Get(ctx, sessionID, stateKey(sessionID), &state)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return state, nil
}

// SaveRunRecord stores a run record in the run_log table. Records are
// keyed by name and timestamp so successive runs never overwrite each
// other.
func (d *SessionDAO) SaveRunRecord(ctx context.Context, sessionID types.ID, name string, value any) error {
	serialized, err := json.Marshal(value)
	if err != nil {
		return types.WrapError(types.SESSION_PERSIST_FAILED, "failed to serialize run record", err)
	}

	key := fmt.Sprintf("%s_%d", name, d.now().UnixNano())
	_, err = d.db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO run_log (key, value, session_id, expires_at)
		VALUES (?, ?, ?, NULL)
	`, key, string(serialized), sessionID.String())
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "failed to store run record", err)
	}
	return nil
}

// RunRecords returns the raw run records for a session, newest last.
func (d *SessionDAO) RunRecords(ctx context.Context, sessionID types.ID) (map[string]json.RawMessage, error) {
	rows, err := d.db.conn.QueryContext(ctx, `
		SELECT key, value FROM run_log
		WHERE session_id = ?
		ORDER BY key
	`, sessionID.String())
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to load run records", err)
	}
	defer rows.Close()

	records := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to scan run record", err)
		}
		records[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "failed to iterate run records", err)
	}
	return records, nil
}

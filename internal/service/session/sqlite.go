package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pedefacil/backend/internal/model/conversation"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id               TEXT PRIMARY KEY,
	channel_id       TEXT NOT NULL,
	last_intent      TEXT NOT NULL DEFAULT '',
	step             TEXT NOT NULL DEFAULT '',
	last_activity_at TEXT NOT NULL,
	is_active        INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS session_messages (
	id                  TEXT PRIMARY KEY,
	session_id          TEXT NOT NULL,
	message             TEXT NOT NULL,
	intent              TEXT NOT NULL DEFAULT '',
	response            TEXT NOT NULL DEFAULT '',
	used_language_model INTEGER NOT NULL DEFAULT 0,
	created_at          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_session_messages_session
	ON session_messages(session_id, created_at);
`

// SQLiteStore implements Store backed by a SQLite database. Timestamps are
// stored as RFC 3339 text so rows stay readable with any sqlite client.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the session database at path. Use ":memory:"
// for throwaway instances.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply session schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetOrCreateSession(ctx context.Context, sessionID, channelID string) (conversation.Session, error) {
	now := time.Now().UTC()

	// Idempotent upsert keyed by session id; concurrent turns for the same
	// channel race harmlessly on the insert.
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sessions (id, channel_id, last_activity_at, is_active) VALUES (?, ?, ?, 1)`,
		sessionID, channelID, now.Format(time.RFC3339Nano))
	if err != nil {
		return conversation.Session{}, fmt.Errorf("create session: %w", err)
	}

	return s.loadSession(ctx, sessionID)
}

func (s *SQLiteStore) loadSession(ctx context.Context, sessionID string) (conversation.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, channel_id, last_intent, step, last_activity_at, is_active FROM sessions WHERE id = ?`,
		sessionID)

	var sess conversation.Session
	var lastActivity string
	var active int
	if err := row.Scan(&sess.ID, &sess.ChannelID, &sess.LastIntent, &sess.Step, &lastActivity, &active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return conversation.Session{}, ErrSessionNotFound
		}
		return conversation.Session{}, fmt.Errorf("load session: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, lastActivity)
	if err != nil {
		return conversation.Session{}, fmt.Errorf("parse session timestamp: %w", err)
	}
	sess.LastActivityAt = ts
	sess.IsActive = active != 0
	return sess, nil
}

func (s *SQLiteStore) CanSkipModel(ctx context.Context, text string, sess conversation.Session) (SkipDecision, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT message, response FROM session_messages WHERE session_id = ? ORDER BY created_at DESC LIMIT 1`,
		sess.ID)

	var last conversation.LogEntry
	if err := row.Scan(&last.Message, &last.Response); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SkipDecision{}, nil
		}
		return SkipDecision{}, fmt.Errorf("load last message: %w", err)
	}

	return decideSkip(text, sess, &last, time.Now().UTC()), nil
}

func (s *SQLiteStore) UpdateSessionContext(ctx context.Context, sessionID, intentLabel string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET last_intent = ?, step = ?, last_activity_at = ? WHERE id = ?`,
		intentLabel, intentLabel, time.Now().UTC().Format(time.RFC3339Nano), sessionID)
	if err != nil {
		return fmt.Errorf("update session context: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session context: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *SQLiteStore) AppendMessage(ctx context.Context, sessionID, text, intentLabel, replyText string, usedModel bool) error {
	used := 0
	if usedModel {
		used = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_messages (id, session_id, message, intent, response, used_language_model, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), sessionID, text, intentLabel, replyText, used,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

package transcript

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/careerpilot/careerpilot/core"
)

const conversationSchema = `
CREATE TABLE IF NOT EXISTS conversation_messages (
	id         TEXT PRIMARY KEY,
	thread_id  TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversation_messages_thread
	ON conversation_messages (thread_id, created_at);
`

// SQLiteStore is a durable Store backed by an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database at path and ensures the
// schema exists. The returned store is safe for concurrent use.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("transcript: open sqlite at %q: %w", path, err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent turns.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(conversationSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("transcript: ensure schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wraps an existing database handle. The caller is
// responsible for having applied the schema (OpenSQLiteStore does both).
func NewSQLiteStore(db *sql.DB) *SQLiteStore { return &SQLiteStore{db: db} }

// History implements Store.
func (s *SQLiteStore) History(ctx context.Context, threadID string) ([]core.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, content, created_at
		 FROM conversation_messages
		 WHERE thread_id = ?
		 ORDER BY created_at ASC, rowid ASC`, threadID)
	if err != nil {
		return nil, fmt.Errorf("transcript: load history for thread %q: %w", threadID, err)
	}
	defer rows.Close()

	var msgs []core.Message
	for rows.Next() {
		var msg core.Message
		var role string
		var createdAt time.Time
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("transcript: scan message: %w", err)
		}
		msg.Role = core.Role(role)
		msg.CreatedAt = createdAt
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("transcript: iterate history: %w", err)
	}
	return msgs, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, threadID, userID string, msg core.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversation_messages (id, thread_id, user_id, role, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, threadID, userID, string(msg.Role), msg.Content, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("transcript: append message to thread %q: %w", threadID, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

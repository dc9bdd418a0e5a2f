package session

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chris/relay/internal/llm"
)

//go:embed schema.sql
var schema string

// SQLiteStore persists sessions across restarts. SQLite serializes writes
// per connection, which covers the per-session append ordering requirement.
type SQLiteStore struct {
	conn *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &SQLiteStore{conn: conn}, nil
}

func (s *SQLiteStore) Get(sessionID string) ([]llm.Message, error) {
	if err := s.touch(sessionID); err != nil {
		return nil, err
	}

	rows, err := s.conn.Query(
		"SELECT role, content, name, tool_call_id, tool_calls FROM messages WHERE session_id = ? ORDER BY id",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var messages []llm.Message
	for rows.Next() {
		var m llm.Message
		var toolCalls string
		if err := rows.Scan(&m.Role, &m.Content, &m.Name, &m.ToolCallID, &toolCalls); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		if toolCalls != "" {
			_ = json.Unmarshal([]byte(toolCalls), &m.ToolCalls)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *SQLiteStore) AppendUser(sessionID, content string) error {
	return s.append(sessionID, "user", content)
}

func (s *SQLiteStore) AppendAssistant(sessionID, content string) error {
	return s.append(sessionID, "assistant", content)
}

func (s *SQLiteStore) append(sessionID, role, content string) error {
	if err := s.touch(sessionID); err != nil {
		return err
	}
	_, err := s.conn.Exec(
		"INSERT INTO messages (session_id, role, content) VALUES (?, ?, ?)",
		sessionID, role, content,
	)
	if err != nil {
		return fmt.Errorf("appending %s message: %w", role, err)
	}
	return nil
}

// touch creates the session row on first reference and bumps last_used.
func (s *SQLiteStore) touch(sessionID string) error {
	_, err := s.conn.Exec(
		"INSERT INTO sessions (id) VALUES (?) ON CONFLICT(id) DO UPDATE SET last_used = datetime('now')",
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("touching session %s: %w", sessionID, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(sessionID string) error {
	_, err := s.conn.Exec("DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("clearing session %s: %w", sessionID, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteIdle(cutoff time.Time) (int64, error) {
	res, err := s.conn.Exec(
		"DELETE FROM sessions WHERE last_used < ?",
		cutoff.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting idle sessions: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

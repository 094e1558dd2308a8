// Package storage provides the SQLite conversation journal.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for the journal.
type Store struct {
	db *sql.DB
}

// Conversation is one finished dialogue with an NPC.
type Conversation struct {
	ID        int64
	Session   string // "local" or the SSH user
	SceneID   string
	NPCID     string
	Lines     int
	Skips     int // lines completed early by the player
	CreatedAt time.Time
}

// NPCStats aggregates the journal for one NPC.
type NPCStats struct {
	SceneID    string
	NPCID      string
	Visits     int
	Lines      int
	LastTalked time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session TEXT NOT NULL DEFAULT 'local',
			scene_id TEXT NOT NULL,
			npc_id TEXT NOT NULL,
			lines INTEGER NOT NULL DEFAULT 0,
			skips INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_conversations_npc ON conversations(scene_id, npc_id);
		CREATE INDEX IF NOT EXISTS idx_conversations_session ON conversations(session);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordConversation appends a finished conversation to the journal.
// Returns the ID of the inserted record.
func (s *Store) RecordConversation(c Conversation) (int64, error) {
	if c.Session == "" {
		c.Session = "local"
	}

	result, err := s.db.Exec(
		"INSERT INTO conversations (session, scene_id, npc_id, lines, skips) VALUES (?, ?, ?, ?, ?)",
		c.Session, c.SceneID, c.NPCID, c.Lines, c.Skips,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record conversation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentConversations returns the newest conversations first.
func (s *Store) RecentConversations(limit int) ([]Conversation, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, session, scene_id, npc_id, lines, skips, created_at
		 FROM conversations
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query conversations: %w", err)
	}
	return scanConversations(rows)
}

// ConversationsWith returns the newest conversations with one NPC.
func (s *Store) ConversationsWith(sceneID, npcID string, limit int) ([]Conversation, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, session, scene_id, npc_id, lines, skips, created_at
		 FROM conversations
		 WHERE scene_id = ? AND npc_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		sceneID, npcID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query conversations: %w", err)
	}
	return scanConversations(rows)
}

// VisitCount returns how many conversations a session had with an NPC.
func (s *Store) VisitCount(session, sceneID, npcID string) (int, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM conversations WHERE session = ? AND scene_id = ? AND npc_id = ?",
		session, sceneID, npcID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count visits: %w", err)
	}
	return n, nil
}

// Stats returns per-NPC aggregates, most visited first.
func (s *Store) Stats() ([]NPCStats, error) {
	rows, err := s.db.Query(
		`SELECT scene_id, npc_id, COUNT(*), SUM(lines), MAX(created_at)
		 FROM conversations
		 GROUP BY scene_id, npc_id
		 ORDER BY COUNT(*) DESC, scene_id, npc_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get journal stats: %w", err)
	}
	defer rows.Close()

	var stats []NPCStats
	for rows.Next() {
		var st NPCStats
		var last any
		if err := rows.Scan(&st.SceneID, &st.NPCID, &st.Visits, &st.Lines, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastTalked = parseTime(last)
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// ClearJournal deletes every conversation.
func (s *Store) ClearJournal() error {
	if _, err := s.db.Exec("DELETE FROM conversations"); err != nil {
		return fmt.Errorf("storage: cannot clear journal: %w", err)
	}
	return nil
}

func scanConversations(rows *sql.Rows) ([]Conversation, error) {
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		var createdAt any
		if err := rows.Scan(&c.ID, &c.Session, &c.SceneID, &c.NPCID, &c.Lines, &c.Skips, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		c.CreatedAt = parseTime(createdAt)
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

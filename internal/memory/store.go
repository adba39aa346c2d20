package memory

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// maxConversationEntries caps the persisted conversation log; older
// entries are pruned on insert.
const maxConversationEntries = 100

// Store is the long-term memory of the assistant: conversation turns,
// extracted facts, and user preferences, all in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a memory store on an already-migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Entry is one persisted conversation turn.
type Entry struct {
	Role      string
	Content   string
	SessionID string
	Timestamp time.Time
}

// Fact is one piece of long-term knowledge about the user.
type Fact struct {
	Type      string
	Content   string
	Source    string
	Timestamp time.Time
}

// AddConversationEntry appends a turn and prunes beyond the cap.
func (s *Store) AddConversationEntry(role, content, sessionID string) error {
	_, err := s.db.Exec(`
		INSERT INTO conversations (session_id, role, content) VALUES (?, ?, ?)
	`, sessionID, role, content)
	if err != nil {
		return fmt.Errorf("failed to store conversation entry: %w", err)
	}

	_, err = s.db.Exec(`
		DELETE FROM conversations WHERE id NOT IN (
			SELECT id FROM conversations ORDER BY id DESC LIMIT ?
		)
	`, maxConversationEntries)
	if err != nil {
		return fmt.Errorf("failed to prune conversations: %w", err)
	}
	return nil
}

// RecentConversation returns the most recent turns, oldest first.
func (s *Store) RecentConversation(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT role, content, session_id, ts FROM conversations
		ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var ts int64
		if err := rows.Scan(&e.Role, &e.Content, &e.SessionID, &ts); err != nil {
			continue
		}
		e.Timestamp = time.Unix(ts, 0)
		entries = append(entries, e)
	}

	// Reverse: query returned newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// AddFact stores a fact unless an identical (type, content) pair
// already exists.
func (s *Store) AddFact(factType, content, source string) error {
	_, err := s.db.Exec(`
		INSERT INTO facts (fact_type, content, source) VALUES (?, ?, ?)
		ON CONFLICT(fact_type, content) DO NOTHING
	`, factType, content, source)
	if err != nil {
		return fmt.Errorf("failed to store fact: %w", err)
	}
	return nil
}

// Facts returns all stored facts, oldest first.
func (s *Store) Facts() ([]Fact, error) {
	rows, err := s.db.Query(`SELECT fact_type, content, source, ts FROM facts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts: %w", err)
	}
	defer rows.Close()

	facts := []Fact{}
	for rows.Next() {
		var f Fact
		var ts int64
		if err := rows.Scan(&f.Type, &f.Content, &f.Source, &ts); err != nil {
			continue
		}
		f.Timestamp = time.Unix(ts, 0)
		facts = append(facts, f)
	}
	return facts, nil
}

// SearchResult is a memory search hit from either store.
type SearchResult struct {
	Kind    string // "conversation" or "fact"
	Type    string // role for conversations, fact type for facts
	Content string
}

// Search finds conversations and facts containing the query,
// case-insensitively, deduplicated on (type, content).
func (s *Store) Search(query string) ([]SearchResult, error) {
	like := "%" + strings.ToLower(query) + "%"
	results := []SearchResult{}
	seen := map[string]bool{}

	rows, err := s.db.Query(`
		SELECT role, content FROM conversations WHERE lower(content) LIKE ? ORDER BY id
	`, like)
	if err != nil {
		return nil, fmt.Errorf("failed to search conversations: %w", err)
	}
	for rows.Next() {
		var r SearchResult
		r.Kind = "conversation"
		if err := rows.Scan(&r.Type, &r.Content); err != nil {
			continue
		}
		key := r.Type + "_" + r.Content
		if !seen[key] {
			seen[key] = true
			results = append(results, r)
		}
	}
	rows.Close()

	rows, err = s.db.Query(`
		SELECT fact_type, content FROM facts
		WHERE lower(content) LIKE ? OR lower(fact_type) LIKE ? ORDER BY id
	`, like, like)
	if err != nil {
		return nil, fmt.Errorf("failed to search facts: %w", err)
	}
	for rows.Next() {
		var r SearchResult
		r.Kind = "fact"
		if err := rows.Scan(&r.Type, &r.Content); err != nil {
			continue
		}
		key := r.Type + "_" + r.Content
		if !seen[key] {
			seen[key] = true
			results = append(results, r)
		}
	}
	rows.Close()

	return results, nil
}

// SetPreference stores a user preference.
func (s *Store) SetPreference(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = strftime('%s', 'now')
	`, key, value, value)
	if err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}

// GetPreference retrieves a preference; missing keys return "".
func (s *Store) GetPreference(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return value, nil
}

// Clear wipes conversations, facts, and preferences.
func (s *Store) Clear() error {
	for _, table := range []string{"conversations", "facts", "preferences"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

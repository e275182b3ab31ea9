package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nathanaelowenk/bookrental/internal/domain"
	"github.com/nathanaelowenk/bookrental/internal/session"
)

// SessionStore implements session record persistence backed by SQLite. The
// table holds at most one row; saving replaces it.
type SessionStore struct {
	db *DB
}

var _ session.RecordStore = (*SessionStore)(nil)

// NewSessionStore creates a new SQLite-backed session record store.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save persists the session record (insert or replace).
func (s *SessionStore) Save(sess *session.Session) error {
	user, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO session_record (id, user_json, token, saved_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_json=excluded.user_json, token=excluded.token,
			saved_at=excluded.saved_at`,
		string(user), sess.Token, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert session record: %w", err)
	}
	return nil
}

// Load retrieves the persisted session record.
func (s *SessionStore) Load() (*session.Session, error) {
	var userJSON, token string
	err := s.db.QueryRow(
		"SELECT user_json, token FROM session_record WHERE id = 1",
	).Scan(&userJSON, &token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session record: %w", err)
	}

	var user *domain.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &session.Session{User: user, Token: token}, nil
}

// Clear removes the persisted session record. Clearing an absent record is
// not an error.
func (s *SessionStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM session_record"); err != nil {
		return fmt.Errorf("delete session record: %w", err)
	}
	return nil
}

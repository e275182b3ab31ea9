package session

import (
	"errors"
	"fmt"

	"github.com/nathanaelowenk/bookrental/internal/storage/local"
)

const (
	collectionSession = "session"
	recordID          = "current"
)

// ErrNotFound is returned when no session record is persisted.
var ErrNotFound = errors.New("no saved session")

// RecordStore persists the single session record across process restarts.
// Both the JSON file store and the SQLite store implement this.
type RecordStore interface {
	Save(sess *Session) error
	Load() (*Session, error)
	Clear() error
}

// FileStore persists the session record as a JSON file.
type FileStore struct {
	store *local.Store
}

var _ RecordStore = (*FileStore)(nil)

// NewFileStore creates a session record store rooted at basePath.
func NewFileStore(basePath string) (*FileStore, error) {
	store, err := local.NewStore(basePath)
	if err != nil {
		return nil, fmt.Errorf("create local store: %w", err)
	}
	return &FileStore{store: store}, nil
}

// Save persists the session record.
func (s *FileStore) Save(sess *Session) error {
	return s.store.Save(collectionSession, recordID, sess)
}

// Load retrieves the persisted session record.
func (s *FileStore) Load() (*Session, error) {
	var sess Session
	if err := s.store.Load(collectionSession, recordID, &sess); err != nil {
		if errors.Is(err, local.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sess, nil
}

// Clear removes the persisted session record. Clearing an absent record is
// not an error.
func (s *FileStore) Clear() error {
	if !s.store.Exists(collectionSession, recordID) {
		return nil
	}
	return s.store.Delete(collectionSession, recordID)
}

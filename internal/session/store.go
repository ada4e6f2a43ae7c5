// Package session persists the single on-disk login session.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/todo-cli/internal/errs"
)

const fileName = "session.json"

// Session is the on-disk record of the current login. At most one exists per
// machine; a new login overwrites any prior session.
type Session struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"` // == refresh token expiry
	LastAccessed time.Time `json:"last_accessed"`
}

// Expired reports whether the session passed its expiry.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.After(time.Now())
}

// Store reads and writes the session file with owner-only permissions.
type Store struct {
	path string
}

// NewStore creates the session directory if needed and returns a store
// pointing at dir/session.json.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &Store{path: filepath.Join(dir, fileName)}, nil
}

// Path returns the session file location.
func (s *Store) Path() string { return s.path }

// Exists reports whether a session file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the session file. ErrSessionNotFound if absent.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.ErrSessionNotFound
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return &sess, nil
}

// Save writes the session file with 0600 permissions, replacing any prior one.
func (s *Store) Save(sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	// WriteFile does not change the mode of an existing file.
	if err := os.Chmod(s.path, 0o600); err != nil {
		return fmt.Errorf("chmod session file: %w", err)
	}
	return nil
}

// Delete removes the session file. An already-absent file is success.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

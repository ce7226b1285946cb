package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const sessionFileName = "session.json"

// SessionStore persists the login session between runs, like a browser's
// localStorage would. One JSON file under the app's data directory.
type SessionStore struct {
	dir string
}

func NewSessionStore(dir string) *SessionStore {
	return &SessionStore{dir: dir}
}

func (s *SessionStore) path() string {
	return filepath.Join(s.dir, sessionFileName)
}

// Save writes the session to disk, creating the directory if needed.
func (s *SessionStore) Save(sess *Session) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	if err := os.WriteFile(s.path(), raw, 0o600); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

// Load reads the stored session. Returns (nil, nil) when no session exists.
func (s *SessionStore) Load() (*Session, error) {
	raw, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("session store: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// Corrupt file: treat as logged out rather than erroring forever.
		_ = s.Clear()
		return nil, nil
	}
	if sess.SessionToken == "" {
		return nil, nil
	}
	return &sess, nil
}

// Clear removes the stored session.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

// Resume loads the stored session and re-validates it with the server.
// A rejected token (expired or revoked key) clears the file so the student
// sees the login screen instead of a broken course page.
func (s *SessionStore) Resume(ctx context.Context, api *API) (*Session, error) {
	sess, err := s.Load()
	if err != nil || sess == nil {
		return nil, err
	}

	api.SetToken(sess.SessionToken)
	if err := api.Verify(ctx); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			_ = s.Clear()
			api.SetToken("")
			return nil, nil
		}
		// Network trouble: keep the session, let the caller retry.
		return nil, err
	}
	return sess, nil
}

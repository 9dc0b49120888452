package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"taskflow/internal/types"
)

// Session is the authenticated identity plus its bearer token. Owned
// exclusively by the Store; everything else reads.
type Session struct {
	Token     string          `json:"token"`
	Principal types.Principal `json:"principal"`
}

// File persists a Session across process restarts as a single JSON document,
// the terminal-client equivalent of browser local storage.
type File struct {
	path string
}

// NewFile creates a session file handle at path. Nothing touches the disk
// until Load, Save, or Clear.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the on-disk location.
func (f *File) Path() string { return f.path }

// Load reads the persisted session. A missing or corrupt file means
// unauthenticated (ok=false), never an error surfaced to the user; the error
// is returned only for logging.
func (f *File) Load() (Session, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, false, nil
		}
		return Session{}, false, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, false, fmt.Errorf("corrupt session file: %w", err)
	}
	if sess.Token == "" {
		return Session{}, false, nil
	}
	return sess, true, nil
}

// Save writes the session atomically with owner-only permissions.
func (f *File) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Clearing an absent file is fine.
func (f *File) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

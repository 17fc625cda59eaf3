package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tessro/strum/internal/player"
)

// DefaultStateFileName is the session file name under the state
// directory.
const DefaultStateFileName = "session.json"

// Session is the on-disk snapshot written on quit and restored on
// launch: playback options, the album candidate list and the
// navigation history.
type Session struct {
	Options player.Options `json:"options"`
	Paths   []string       `json:"paths"`
	Queue   []Entry        `json:"queue"`
}

// Storage persists sessions to disk.
type Storage struct {
	path string
}

// NewStorage creates session storage at the given path. An empty path
// uses the default location under the user state directory
// ($XDG_STATE_HOME/strum or ~/.local/state/strum).
func NewStorage(path string) (*Storage, error) {
	if path == "" {
		p, err := defaultStatePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &Storage{path: path}, nil
}

func defaultStatePath() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "strum", DefaultStateFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "strum", DefaultStateFileName), nil
}

// Path returns the session file location.
func (s *Storage) Path() string {
	return s.path
}

// Exists reports whether a session file is present.
func (s *Storage) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save writes a session snapshot to disk, creating parent directories
// as needed.
func (s *Storage) Save(sess *Session) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load reads the stored session. A missing file returns (nil, nil).
func (s *Storage) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No session stored yet
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return &sess, nil
}

// Delete removes the stored session.
func (s *Storage) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SavedSession is what the CLI persists between invocations.
type SavedSession struct {
	BaseURL  string `json:"base_url"`
	Username string `json:"username,omitempty"`
	Token    string `json:"token"`
}

// TokenFile stores a SavedSession as JSON at Path.
type TokenFile struct {
	Path string
}

// DefaultTokenFile returns the session file under the user config dir.
func DefaultTokenFile() (*TokenFile, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("locate config dir: %w", err)
	}
	return &TokenFile{Path: filepath.Join(dir, "microforum", "session.json")}, nil
}

// Load reads the saved session. A missing file yields (nil, nil).
func (f *TokenFile) Load() (*SavedSession, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var s SavedSession
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return &s, nil
}

// Save writes s with owner-only permissions.
func (f *TokenFile) Save(s SavedSession) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.Path, b, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Clear removes the saved session. A missing file is not an error.
func (f *TokenFile) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

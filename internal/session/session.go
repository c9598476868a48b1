package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Session identifies the signed-in user.
type Session struct {
	Token    string `json:"token"`
	UserName string `json:"userName"`
}

// Valid reports whether the session can authenticate requests.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.UserName != ""
}

// Load reads the session from the JSON file.
// Returns nil (no error) if no session is stored.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if !s.Valid() {
		return nil, nil
	}

	return &s, nil
}

// Save writes the session to the JSON file.
// Creates the directory if it doesn't exist.
func Save(path string, s *Session) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultSessionPath returns the default session path: ~/.config/photowall/session.json
func DefaultSessionPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "photowall", "session.json"), nil
}

package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"ezmaadmin/pkg/domain"
)

type fileState struct {
	Token string        `json:"token"`
	User  *domain.Admin `json:"user,omitempty"`
}

// Save persists the current session to path so a later process can resume it.
// An anonymous session removes the file instead.
func Save(path string, s *Store) error {
	if !s.IsAuthenticated() {
		return Remove(path)
	}
	state := fileState{Token: s.Token()}
	if user, ok := s.User(); ok {
		state.User = &user
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Load restores a persisted session into s. Missing or corrupt files leave
// the store anonymous; resuming a session is never worth failing startup.
func Load(path string, s *Store) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return
	}
	s.SetToken(state.Token)
	if state.User != nil {
		s.SetUser(*state.User)
	}
}

// Remove deletes the persisted session, if any.
func Remove(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/vinigoulartalves/wealthcheck/internal/record"
)

// User is the authenticated user mirrored from the remote API. The shape is
// remote-owned, so arbitrary fields are preserved as-is.
type User map[string]any

// Store persists a single user slot as a JSON file. Writes replace the slot
// wholly; there are no merge semantics.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save replaces the stored user. Stripping sensitive fields is the caller's
// responsibility.
func (s *Store) Save(user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding session user: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	return nil
}

// Load returns the stored user, or nil when the slot is empty or holds a
// value that no longer parses. The slot is a best-effort cache, so a
// corrupted file is logged and treated as anonymous, never raised.
func (s *Store) Load() User {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		slog.Warn("stored session did not parse, treating as anonymous", "error", err)
		return nil
	}

	return user
}

// Clear empties the slot. Clearing an already-empty slot is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing session file: %w", err)
	}

	return nil
}

// ExtractID normalizes the user's id field, which arrives either as a
// number or a numeric string.
func ExtractID(user User) (float64, bool) {
	if user == nil {
		return 0, false
	}

	return record.ParseNumber(user["id"])
}

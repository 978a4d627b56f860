package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/vinigoulartalves/wealthcheck/internal/record"
	"github.com/vinigoulartalves/wealthcheck/internal/remote"
	"github.com/vinigoulartalves/wealthcheck/internal/session"
)

// ErrInvalidCredentials covers both an unknown e-mail and a wrong password;
// callers must not distinguish the two.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUnavailable means the remote user collection could not be consulted.
var ErrUnavailable = errors.New("user collection unavailable")

var listKeys = []string{"usuarios", "data", "items", "content"}

// Service validates credentials against the remote user collection.
type Service struct {
	api remote.API
}

func NewService(api remote.API) *Service {
	return &Service{api: api}
}

// Login scans the remote user collection for the first case-insensitive
// e-mail match and compares the stored password exactly. The returned user
// never carries the password fields.
func (s *Service) Login(ctx context.Context, email, password string) (session.User, error) {
	resp, err := s.api.Get(ctx, "/usuarios")
	if err != nil {
		if errors.Is(err, remote.ErrNotConfigured) {
			return nil, err
		}

		slog.Error("failed to fetch remote users", "error", err)

		return nil, ErrUnavailable
	}

	if !resp.OK() {
		slog.Error("remote users endpoint returned an error status", "status", resp.Status)
		return nil, ErrUnavailable
	}

	var payload any
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		slog.Error("remote users payload is not valid JSON", "error", err)
		return nil, ErrUnavailable
	}

	users, ok := record.UnwrapList(payload, listKeys)
	if !ok {
		slog.Error("remote users payload has an unexpected shape")
		return nil, ErrUnavailable
	}

	matched := findByEmail(users, normalizeEmail(email))
	if matched == nil {
		return nil, ErrInvalidCredentials
	}

	stored, ok := storedPassword(matched)
	if !ok || stored != password {
		return nil, ErrInvalidCredentials
	}

	user := make(session.User, len(matched))

	for key, value := range matched {
		if key == "senha" || key == "password" {
			continue
		}

		user[key] = value
	}

	return user, nil
}

func findByEmail(users []any, wanted string) map[string]any {
	for _, raw := range users {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		candidate, ok := obj["email"].(string)
		if !ok {
			continue
		}

		if normalizeEmail(candidate) == wanted {
			return obj
		}
	}

	return nil
}

// storedPassword prefers the remote's "senha" spelling, falling back to
// "password".
func storedPassword(user map[string]any) (string, bool) {
	if s, ok := user["senha"].(string); ok {
		return s, true
	}

	if s, ok := user["password"].(string); ok {
		return s, true
	}

	return "", false
}

func normalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

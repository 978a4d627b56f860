package login

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vinigoulartalves/wealthcheck/internal/auth"
	"github.com/vinigoulartalves/wealthcheck/internal/http/envelope"
	"github.com/vinigoulartalves/wealthcheck/internal/session"
)

const (
	msgMissingCredentials = "Informe email e senha para continuar."
	msgInvalidCredentials = "Credenciais inválidas."
	msgUnavailable        = "Não foi possível validar as credenciais no momento."
)

type Handler struct {
	svc      *auth.Service
	sessions *session.Store
}

func NewHandler(svc *auth.Service, sessions *session.Store) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.login)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Error(w, http.StatusBadRequest, envelope.MsgBadRequest)
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		envelope.Error(w, http.StatusBadRequest, msgMissingCredentials)
		return
	}

	user, err := h.svc.Login(r.Context(), email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			// One message for both unknown e-mail and wrong password.
			envelope.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		case errors.Is(err, auth.ErrUnavailable):
			envelope.Error(w, http.StatusBadGateway, msgUnavailable)
		default:
			envelope.FromError(w, err, msgUnavailable)
		}

		return
	}

	// The session slot is a best-effort cache; a persistence failure must
	// not fail the login itself.
	if err := h.sessions.Save(user); err != nil {
		slog.Error("failed to persist session", "error", err)
	}

	envelope.Write(w, http.StatusOK, map[string]any{"user": user})
}

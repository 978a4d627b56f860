package sessions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vinigoulartalves/wealthcheck/internal/http/envelope"
	"github.com/vinigoulartalves/wealthcheck/internal/session"
)

const (
	msgAnonymous   = "Nenhum usuário autenticado."
	msgClearFailed = "Não foi possível encerrar a sessão."
)

// Handler exposes the single session slot so the views can decide whether a
// user is logged in and which id to scope queries by.
type Handler struct {
	store *session.Store
}

func NewHandler(store *session.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.current)
	r.Delete("/", h.clear)
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	user := h.store.Load()
	if user == nil {
		envelope.Error(w, http.StatusUnauthorized, msgAnonymous)
		return
	}

	envelope.Write(w, http.StatusOK, map[string]any{"user": user})
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(); err != nil {
		slog.Error("failed to clear session", "error", err)
		envelope.Error(w, http.StatusInternalServerError, msgClearFailed)

		return
	}

	envelope.Write(w, http.StatusOK, map[string]bool{"success": true})
}

// Package envelope writes the JSON response envelopes shared by every
// handler and maps the service error taxonomy onto HTTP statuses.
package envelope

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vinigoulartalves/wealthcheck/internal/proxy"
	"github.com/vinigoulartalves/wealthcheck/internal/remote"
)

// MsgNotConfigured is the fixed message for the missing base address.
const MsgNotConfigured = "A URL base da API não está configurada."

// MsgBadRequest is the fixed message for an unparseable request body.
const MsgBadRequest = "Formato de requisição inválido."

// Write encodes payload as JSON with the given status.
func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes the {"error": message} envelope.
func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, map[string]string{"error": message})
}

// FromError translates the service error taxonomy into a response.
// fallback is the message used for errors outside the taxonomy; diagnostic
// detail stays in the logs, never in the body.
func FromError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, remote.ErrNotConfigured) {
		Error(w, http.StatusInternalServerError, MsgNotConfigured)
		return
	}

	var validation *proxy.ValidationError
	if errors.As(err, &validation) {
		Error(w, http.StatusBadRequest, validation.Message)
		return
	}

	var upstream *proxy.UpstreamError
	if errors.As(err, &upstream) {
		Error(w, upstream.Status, upstream.Message)
		return
	}

	slog.Error("unexpected handler error", "error", err)
	Error(w, http.StatusBadGateway, fallback)
}

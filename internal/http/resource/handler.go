package resource

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vinigoulartalves/wealthcheck/internal/http/envelope"
	"github.com/vinigoulartalves/wealthcheck/internal/proxy"
)

const msgUnexpected = "Não foi possível processar a requisição."

// Handler serves the CRUD surface of one proxied collection. The same type
// is mounted for despesas and receitas; only the envelope names and the
// origem echo differ.
type Handler struct {
	svc        *proxy.Service
	singular   string
	plural     string
	echoSource bool
}

func NewHandler(svc *proxy.Service, singular, plural string, echoSource bool) *Handler {
	return &Handler{
		svc:        svc,
		singular:   singular,
		plural:     plural,
		echoSource: echoSource,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.List(r.Context(), r.URL.Query().Get("ownerId"))
	if err != nil {
		envelope.FromError(w, err, msgUnexpected)
		return
	}

	payload := map[string]any{h.plural: result.Records}

	if h.echoSource && len(result.Source) > 0 {
		payload["origem"] = result.Source
	}

	envelope.Write(w, http.StatusOK, payload)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		envelope.FromError(w, err, msgUnexpected)
		return
	}

	envelope.Write(w, http.StatusOK, map[string]any{h.singular: rec})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Create(r.Context(), body)
	if err != nil {
		envelope.FromError(w, err, msgUnexpected)
		return
	}

	h.writeMutation(w, result)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		envelope.FromError(w, err, msgUnexpected)
		return
	}

	h.writeMutation(w, result)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		envelope.FromError(w, err, msgUnexpected)
		return
	}

	envelope.Write(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) writeMutation(w http.ResponseWriter, result *proxy.MutationResult) {
	if result.Record != nil {
		envelope.Write(w, result.Status, map[string]any{h.singular: result.Record})
		return
	}

	envelope.Write(w, result.Status, map[string]bool{"success": true})
}

func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body == nil {
		envelope.Error(w, http.StatusBadRequest, envelope.MsgBadRequest)
		return nil, false
	}

	return body, true
}

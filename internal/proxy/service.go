package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/vinigoulartalves/wealthcheck/internal/record"
	"github.com/vinigoulartalves/wealthcheck/internal/remote"
)

// MsgInvalidOwnerFilter is returned when a list filter does not coerce to a
// number.
const MsgInvalidOwnerFilter = "Identificador de usuário inválido."

// ValidationError marks locally-detected malformed input; surfaced as 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UpstreamError carries the local status and message chosen for a failed
// remote interaction.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream failure (%d): %s", e.Status, e.Message)
}

// fieldNames maps the local request field names onto the remote API's.
var fieldNames = map[string]string{
	"ownerId":     "idUsuario",
	"amount":      "valor",
	"date":        "data",
	"description": "descricao",
	"category":    "categoria",
}

// Service proxies one remote collection, normalizing payloads on the way in
// and translating remote failures into the local error taxonomy.
type Service struct {
	api remote.API
	res Resource
}

func NewService(api remote.API, res Resource) *Service {
	return &Service{api: api, res: res}
}

// ListResult carries the normalized records plus the raw upstream payload
// for the diagnostic origem echo.
type ListResult struct {
	Records []record.Record
	Source  json.RawMessage
}

// List fetches the full collection and filters it by owner when a filter is
// given. Records that fail normalization are dropped. Any remote failure,
// including a list of unexpected shape, collapses to a 502.
func (s *Service) List(ctx context.Context, ownerID string) (*ListResult, error) {
	var filter *float64

	if ownerID != "" {
		n, ok := record.ParseNumber(ownerID)
		if !ok {
			return nil, &ValidationError{Message: MsgInvalidOwnerFilter}
		}

		filter = &n
	}

	path := s.res.Path
	if ownerID != "" {
		path += "?idUsuario=" + url.QueryEscape(ownerID)
	}

	resp, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, s.upstream(err, s.res.Msg.LoadList)
	}

	if !resp.OK() {
		return nil, &UpstreamError{Status: http.StatusBadGateway, Message: s.res.Msg.LoadList}
	}

	var payload any
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		slog.Error("remote list payload is not valid JSON", "resource", s.res.Name, "error", err)
		return nil, &UpstreamError{Status: http.StatusBadGateway, Message: s.res.Msg.LoadList}
	}

	items, ok := record.UnwrapList(payload, s.res.WrapKeys)
	if !ok {
		slog.Error("remote list payload has an unexpected shape", "resource", s.res.Name)
		return nil, &UpstreamError{Status: http.StatusBadGateway, Message: s.res.Msg.LoadList}
	}

	records := make([]record.Record, 0, len(items))

	for _, item := range items {
		rec, ok := record.Normalize(item, s.res.IDAliases)
		if !ok {
			continue
		}

		// The remote API is not trusted to filter server-side, so equality
		// is re-checked here after numeric coercion.
		if filter != nil && rec.OwnerID != *filter {
			continue
		}

		records = append(records, *rec)
	}

	return &ListResult{Records: records, Source: resp.Body}, nil
}

// Get fetches a single record by its opaque identifier. Remote failures
// forward the remote status; a body that fails normalization is a 502.
func (s *Service) Get(ctx context.Context, id string) (*record.Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Message: s.res.Msg.MissingID}
	}

	resp, err := s.api.Get(ctx, s.res.Path+"/"+url.PathEscape(id))
	if err != nil {
		return nil, s.upstream(err, s.res.Msg.LoadOne)
	}

	if !resp.OK() {
		return nil, &UpstreamError{Status: resp.Status, Message: s.res.Msg.LoadOne}
	}

	var payload any
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		slog.Error("remote record payload is not valid JSON", "resource", s.res.Name, "error", err)
		return nil, &UpstreamError{Status: http.StatusBadGateway, Message: s.res.Msg.LoadOne}
	}

	rec, ok := record.Normalize(payload, s.res.IDAliases)
	if !ok {
		slog.Error("remote record payload failed normalization", "resource", s.res.Name)
		return nil, &UpstreamError{Status: http.StatusBadGateway, Message: s.res.Msg.LoadOne}
	}

	return rec, nil
}

// MutationResult is the outcome of a create or update: the status to
// forward and, when the remote echoed a valid record, its normalized form.
type MutationResult struct {
	Status int
	Record *record.Record
}

// Create forwards a new record to the remote collection. The body must
// carry an owner id; local field names are translated to the remote naming.
func (s *Service) Create(ctx context.Context, body map[string]any) (*MutationResult, error) {
	payload, err := s.remotePayload(body)
	if err != nil {
		return nil, err
	}

	resp, err := s.api.Send(ctx, http.MethodPost, s.res.Path, payload)
	if err != nil {
		return nil, s.upstream(err, s.res.Msg.Create)
	}

	return s.mutationResult(resp, s.res.Msg.Create)
}

// Update replaces an existing record. Same contract as Create, plus the
// identifier requirement.
func (s *Service) Update(ctx context.Context, id string, body map[string]any) (*MutationResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Message: s.res.Msg.MissingID}
	}

	payload, err := s.remotePayload(body)
	if err != nil {
		return nil, err
	}

	resp, err := s.api.Send(ctx, http.MethodPut, s.res.Path+"/"+url.PathEscape(id), payload)
	if err != nil {
		return nil, s.upstream(err, s.res.Msg.Update)
	}

	return s.mutationResult(resp, s.res.Msg.Update)
}

// Delete removes a record. Remote failures forward the remote status and,
// when the body parses, the remote error message.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Message: s.res.Msg.MissingID}
	}

	resp, err := s.api.Delete(ctx, s.res.Path+"/"+url.PathEscape(id))
	if err != nil {
		return s.upstream(err, s.res.Msg.Delete)
	}

	if !resp.OK() {
		message := resp.ErrorMessage()
		if message == "" {
			message = s.res.Msg.Delete
		}

		return &UpstreamError{Status: resp.Status, Message: message}
	}

	return nil
}

// remotePayload validates the owner field and translates local field names
// to the remote API's naming. Unknown keys pass through untouched.
func (s *Service) remotePayload(body map[string]any) (map[string]any, error) {
	owner, present := body["ownerId"]
	if !present {
		owner, present = body["idUsuario"]
	}

	if !present {
		return nil, &ValidationError{Message: s.res.Msg.MissingOwner}
	}

	switch owner.(type) {
	case float64, string:
	default:
		return nil, &ValidationError{Message: s.res.Msg.MissingOwner}
	}

	payload := make(map[string]any, len(body))

	for key, value := range body {
		if mapped, ok := fieldNames[key]; ok {
			payload[mapped] = value
			continue
		}

		payload[key] = value
	}

	return payload, nil
}

// mutationResult translates a create/update response: 422 is forwarded
// verbatim, other failures collapse to 502, and a 204 success becomes 200.
// The remote's error message wins over the generic one when it parses.
func (s *Service) mutationResult(resp *remote.Response, failMsg string) (*MutationResult, error) {
	if !resp.OK() {
		message := resp.ErrorMessage()
		if message == "" {
			message = failMsg
		}

		status := http.StatusBadGateway
		if resp.Status == http.StatusUnprocessableEntity {
			status = resp.Status
		}

		return nil, &UpstreamError{Status: status, Message: message}
	}

	status := resp.Status
	if status == http.StatusNoContent {
		status = http.StatusOK
	}

	result := &MutationResult{Status: status}

	// Re-validate whatever the remote echoed back; anything that does not
	// normalize is withheld in favor of a bare success flag.
	var payload any
	if len(resp.Body) > 0 && json.Unmarshal(resp.Body, &payload) == nil {
		if rec, ok := record.Normalize(payload, s.res.IDAliases); ok {
			result.Record = rec
		}
	}

	return result, nil
}

// upstream converts a transport-level failure. The missing-configuration
// sentinel passes through untouched so the boundary can report it as a
// configuration problem rather than a remote one.
func (s *Service) upstream(err error, message string) error {
	if errors.Is(err, remote.ErrNotConfigured) {
		return err
	}

	slog.Error("remote call failed", "resource", s.res.Name, "error", err)

	return &UpstreamError{Status: http.StatusBadGateway, Message: message}
}

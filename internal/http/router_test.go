package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinigoulartalves/wealthcheck/internal/auth"
	wealthhttp "github.com/vinigoulartalves/wealthcheck/internal/http"
	loginhandler "github.com/vinigoulartalves/wealthcheck/internal/http/login"
	"github.com/vinigoulartalves/wealthcheck/internal/http/resource"
	sessionhandler "github.com/vinigoulartalves/wealthcheck/internal/http/sessions"
	"github.com/vinigoulartalves/wealthcheck/internal/proxy"
	"github.com/vinigoulartalves/wealthcheck/internal/remote"
	"github.com/vinigoulartalves/wealthcheck/internal/session"
)

// newApp wires the full stack against the given remote base address, the
// same way cmd/api does.
func newApp(t *testing.T, baseURL string) http.Handler {
	t.Helper()

	client := remote.New(baseURL, time.Second)
	sessions := session.NewStore(filepath.Join(t.TempDir(), "session.json"))

	despesasH := resource.NewHandler(proxy.NewService(client, proxy.Despesas()), "despesa", "despesas", false)
	receitasH := resource.NewHandler(proxy.NewService(client, proxy.Receitas()), "receita", "receitas", true)
	loginH := loginhandler.NewHandler(auth.NewService(client), sessions)
	sessionsH := sessionhandler.NewHandler(sessions)

	return wealthhttp.New(despesasH, receitasH, loginH, sessionsH, []string{"*"})
}

func doJSON(app http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))

	return payload
}

func TestUnconfiguredBaseAddress(t *testing.T) {
	var calls atomic.Int64

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer upstream.Close()

	// The upstream exists but the app is built without a base address;
	// every proxy operation must fail locally without a network call.
	app := newApp(t, "")

	requests := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodGet, "/despesas", ""},
		{http.MethodGet, "/despesas/1", ""},
		{http.MethodPost, "/despesas", `{"ownerId": 1, "amount": 10}`},
		{http.MethodPut, "/despesas/1", `{"ownerId": 1}`},
		{http.MethodDelete, "/despesas/1", ""},
		{http.MethodGet, "/receitas", ""},
		{http.MethodPost, "/login", `{"email": "a@x.com", "password": "pw"}`},
	}

	for _, r := range requests {
		rec := doJSON(app, r.method, r.target, r.body)

		assert.Equal(t, http.StatusInternalServerError, rec.Code, "%s %s", r.method, r.target)
		assert.Equal(t, "A URL base da API não está configurada.", decodeBody(t, rec)["error"])
	}

	assert.Zero(t, calls.Load())
}

func TestListFilteringAndEnvelope(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/despesas", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "idUsuario": "42", "valor": "1.234,56", "descricao": "Aluguel"},
			{"id": 2, "idUsuario": 7, "valor": 10},
			{"id": 3, "valor": 10}
		]`))
	}))
	defer upstream.Close()

	app := newApp(t, upstream.URL)

	rec := doJSON(app, http.MethodGet, "/despesas?ownerId=42", "")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	despesas, ok := payload["despesas"].([]any)
	require.True(t, ok)
	require.Len(t, despesas, 1)

	first := despesas[0].(map[string]any)
	assert.Equal(t, "1", first["id"])
	assert.Equal(t, float64(42), first["idUsuario"])
	assert.InDelta(t, 1234.56, first["valor"].(float64), 1e-9)

	rec = doJSON(app, http.MethodGet, "/despesas?ownerId=42x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Identificador de usuário inválido.", decodeBody(t, rec)["error"])
}

func TestReceitasListEchoesOrigem(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"receitas": [{"idReceita": 9, "idUsuario": 1, "valor": 100}]}`))
	}))
	defer upstream.Close()

	app := newApp(t, upstream.URL)

	rec := doJSON(app, http.MethodGet, "/receitas", "")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	require.Contains(t, payload, "origem")

	origem := payload["origem"].(map[string]any)
	assert.Contains(t, origem, "receitas")

	receitas := payload["receitas"].([]any)
	require.Len(t, receitas, 1)
	assert.Equal(t, "9", receitas[0].(map[string]any)["id"])
}

func TestListFailureCollapsesButGetForwards(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	app := newApp(t, upstream.URL)

	rec := doJSON(app, http.MethodGet, "/receitas", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Não foi possível carregar as receitas.", decodeBody(t, rec)["error"])

	rec = doJSON(app, http.MethodGet, "/receitas/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Não foi possível carregar a receita.", decodeBody(t, rec)["error"])
}

func TestCreateValidationAndUpstreamPassthrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error": "ownerId inválido"}`))
	}))
	defer upstream.Close()

	app := newApp(t, upstream.URL)

	rec := doJSON(app, http.MethodPost, "/despesas", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Formato de requisição inválido.", decodeBody(t, rec)["error"])

	rec = doJSON(app, http.MethodPost, "/despesas", `{"amount": 10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Informe o usuário vinculado à despesa.", decodeBody(t, rec)["error"])

	rec = doJSON(app, http.MethodPost, "/despesas", `{"ownerId": "42", "amount": 10}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "ownerId inválido", decodeBody(t, rec)["error"])
}

func TestCreateForwardsNoContentAsOK(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer upstream.Close()

	app := newApp(t, upstream.URL)

	rec := doJSON(app, http.MethodPost, "/receitas", `{"ownerId": 1, "amount": "10,00"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
}

func TestDeleteSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/despesas/7", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	app := newApp(t, upstream.URL)

	rec := doJSON(app, http.MethodDelete, "/despesas/7", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
}

func TestLoginAndSessionLifecycle(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/usuarios", r.URL.Path)

		_, _ = w.Write([]byte(`[
			{"id": 1, "email": "Ana@x.com", "senha": "s3cret", "nome": "Ana"}
		]`))
	}))
	defer upstream.Close()

	app := newApp(t, upstream.URL)

	// Anonymous at startup.
	rec := doJSON(app, http.MethodGet, "/session", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Wrong password gets the same generic message as an unknown e-mail.
	rec = doJSON(app, http.MethodPost, "/login", `{"email": "ana@x.com", "password": "wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Credenciais inválidas.", decodeBody(t, rec)["error"])

	rec = doJSON(app, http.MethodPost, "/login", `{"email": "ghost@x.com", "password": "wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Credenciais inválidas.", decodeBody(t, rec)["error"])

	// Case-insensitive match, password stripped from the response.
	rec = doJSON(app, http.MethodPost, "/login", `{"email": "ANA@X.COM", "password": "s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, float64(1), user["id"])
	assert.Equal(t, "Ana", user["nome"])
	assert.NotContains(t, user, "senha")

	// The slot now holds the authenticated user.
	rec = doJSON(app, http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ana", decodeBody(t, rec)["user"].(map[string]any)["nome"])

	// Logout clears it.
	rec = doJSON(app, http.MethodDelete, "/session", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(app, http.MethodGet, "/session", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMissingCredentials(t *testing.T) {
	app := newApp(t, "http://unused.invalid")

	rec := doJSON(app, http.MethodPost, "/login", `{"email": "", "password": "pw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Informe email e senha para continuar.", decodeBody(t, rec)["error"])
}

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned by every operation when no base address was
// provided. No network call is attempted in that case.
var ErrNotConfigured = errors.New("remote API base URL is not configured")

// Response is the outcome of a remote call that reached the server. Body is
// the raw payload; callers decode and validate it.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the remote answered with a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// ErrorMessage decodes the conventional {"error": "..."} body shape,
// returning "" when the body does not match it.
func (r *Response) ErrorMessage() string {
	var envelope struct {
		Error string `json:"error"`
	}

	if err := json.Unmarshal(r.Body, &envelope); err != nil {
		return ""
	}

	return envelope.Error
}

//go:generate mockgen -source=client.go -destination=client_mock.go -package=remote

// API is the remote surface the proxy services depend on.
type API interface {
	Get(ctx context.Context, path string) (*Response, error)
	Send(ctx context.Context, method, path string, body any) (*Response, error)
	Delete(ctx context.Context, path string) (*Response, error)
}

// Client issues JSON requests against the remote WealthCheck API.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New builds a client for the given base address. A trailing slash is
// stripped so paths can be concatenated directly. An empty address yields an
// unconfigured client whose operations all fail with ErrNotConfigured.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a base address was provided.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Reads must always hit the remote system fresh.
	req.Header.Set("Cache-Control", "no-store")

	return c.do(req)
}

func (c *Client) Send(ctx context.Context, method, path string, body any) (*Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Response, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("failed to read remote response", "url", req.URL.String(), "error", err)
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("remote API returned an error status",
			"method", req.Method, "url", req.URL.String(), "status", resp.StatusCode)
	}

	return &Response{Status: resp.StatusCode, Body: body}, nil
}

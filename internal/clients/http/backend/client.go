// Package backend is the HTTP client for the pet adoption backend API.
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/oapi-codegen/runtime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend API error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("backend API error: status=%d message=%s", e.StatusCode, e.Message)
}

// Rejected reports whether the backend refused the request itself (4xx).
func (e *APIError) Rejected() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Client calls the backend pet endpoints.
type Client struct {
	http    *http.Client
	baseURL string
	headers http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if strings.TrimSpace(key) != "" {
			c.headers.Set(key, value)
		}
	}
}

// NewClient builds a client for baseURL with an otelhttp-instrumented transport.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("backend base URL is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid backend base URL: %w", err)
	}
	c := &Client{
		http: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: http.Header{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// ListPets calls GET /pets.
func (c *Client) ListPets(ctx context.Context) ([]PetRecord, error) {
	var out []PetRecord
	if err := c.do(ctx, http.MethodGet, "/pets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePet calls POST /pets and returns the stored record.
func (c *Client) CreatePet(ctx context.Context, pet PetRecord) (PetRecord, error) {
	var out PetRecord
	if err := c.do(ctx, http.MethodPost, "/pets", pet, &out); err != nil {
		return PetRecord{}, err
	}
	return out, nil
}

// UpdatePet calls PUT /pets/{id}.
func (c *Client) UpdatePet(ctx context.Context, id int64, pet PetRecord) error {
	path, err := petPath(id, "")
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, pet, nil)
}

// DeletePet calls DELETE /pets/{id}.
func (c *Client) DeletePet(ctx context.Context, id int64) error {
	path, err := petPath(id, "")
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// AdoptPet calls POST /pets/{id}/adopt for adopterID.
func (c *Client) AdoptPet(ctx context.Context, petID, adopterID int64) error {
	path, err := petPath(petID, "/adopt")
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, AdoptRequest{AdotanteID: adopterID}, nil)
}

// AdopterCompatibility calls GET /compatibilidade/adotante/{id}/pets.
func (c *Client) AdopterCompatibility(ctx context.Context, adopterID int64) ([]CompatibilityRecord, error) {
	id, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, adopterID)
	if err != nil {
		return nil, fmt.Errorf("encode adopter id: %w", err)
	}
	var out []CompatibilityRecord
	if err := c.do(ctx, http.MethodGet, "/compatibilidade/adotante/"+id+"/pets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func petPath(id int64, suffix string) (string, error) {
	encoded, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return "", fmt.Errorf("encode pet id: %w", err)
	}
	return "/pets/" + encoded + suffix, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c == nil || c.http == nil {
		return errors.New("backend client not configured")
	}
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("backend: marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("backend: decode %s %s: %w", method, path, err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if msg := strings.TrimSpace(body.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(body.Error); msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(string(raw))
}

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pahanabooks/console-api/internal/config"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"golang.org/x/oauth2"
)

type tokenKey struct{}

// WithToken attaches the backend bearer token to ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the backend bearer token carried by ctx, if any.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client talks to the bookshop REST backend.
type Client struct {
	baseURL string
	timeout time.Duration
	base    http.RoundTripper
}

// NewClient creates a backend client from configuration
func NewClient(cfg *config.BackendConfig) *Client {
	return NewClientWithTransport(cfg, http.DefaultTransport)
}

// NewClientWithTransport creates a backend client using the given round tripper.
func NewClientWithTransport(cfg *config.BackendConfig, rt http.RoundTripper) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
		base:    rt,
	}
}

// BaseURL returns the backend root the client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// httpClient builds a client for one request. A token on ctx is sent as a
// static bearer; the backend has no refresh flow.
func (c *Client) httpClient(ctx context.Context) *http.Client {
	token := TokenFrom(ctx)
	if token == "" {
		return &http.Client{Transport: c.base}
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   c.base,
		},
	}
}

// envelope is the subset of the backend response wrapper the client inspects.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Do sends a request and decodes the response body into out.
// A nil out discards the body.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	raw, err := c.DoRaw(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("[backend] decode %s %s: %v", method, path, err)
		return apperror.NewBackendError(http.StatusBadGateway, "Unexpected response from backend")
	}
	return nil
}

// DoRaw sends a request and returns the raw response body after status and
// envelope checks.
func (c *Client) DoRaw(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient(ctx).Do(req)
	if err != nil {
		log.Printf("[backend] %s %s failed: %v", method, path, err)
		return nil, apperror.ErrBackendUnavailable
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[backend] %s %s: reading body: %v", method, path, err)
		return nil, apperror.ErrBackendUnavailable
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.NewBackendError(resp.StatusCode, messageOf(raw))
	}

	var env envelope
	if json.Unmarshal(raw, &env) == nil && env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = "Request was rejected by the backend"
		}
		return nil, apperror.NewBusinessError(msg)
	}
	return raw, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

func messageOf(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}

// PathEscape escapes a single path segment.
func PathEscape(segment string) string {
	return url.PathEscape(segment)
}

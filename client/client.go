// Package client is the Go SDK for the KidLearn API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const DefaultTimeout = 10 * time.Second

type Options struct {
	BaseURL string
	// Timeout bounds every request; DefaultTimeout when zero.
	Timeout time.Duration
	// Tokens persists the session credential; in-memory when nil.
	Tokens TokenStore
	// OnSessionExpired fires once whenever a stored credential is rejected.
	OnSessionExpired func()
}

type Client struct {
	baseURL          string
	http             *http.Client
	tokens           TokenStore
	onSessionExpired func()

	mu          sync.RWMutex
	currentUser *User
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	return &Client{
		baseURL:          strings.TrimRight(opts.BaseURL, "/"),
		http:             &http.Client{Timeout: timeout},
		tokens:           tokens,
		onSessionExpired: opts.OnSessionExpired,
	}
}

// do performs a request, attaching the stored credential when present, and
// converts every failure into an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token, err := c.tokens.Get(); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return newNetworkError(err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return newNetworkError(err)
	}

	if res.StatusCode >= http.StatusBadRequest {
		apiErr := normalizeHTTPError(res.StatusCode, data)
		if res.StatusCode == http.StatusUnauthorized {
			c.expireSession()
		}
		return apiErr
	}

	if out != nil {
		if err = json.Unmarshal(data, out); err != nil {
			return &APIError{Code: CodeUnknown, StatusCode: res.StatusCode, Message: fallbackMessage}
		}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "marshaling request body")
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, http.MethodPost, path, body, "application/json", out)
}

// normalizeHTTPError understands the two error body shapes the server emits:
// {"error": "message"} and a bare field-to-message map.
func normalizeHTTPError(status int, body []byte) *APIError {
	var payload map[string]string
	if err := json.Unmarshal(body, &payload); err == nil && len(payload) > 0 {
		if msg, ok := payload["error"]; ok && len(payload) == 1 {
			return newAPIError(status, msg, nil)
		}
		return newAPIError(status, "", payload)
	}
	return newAPIError(status, "", nil)
}

// expireSession drops the rejected credential and notifies once; a second 401
// finds no stored token and is a no-op.
func (c *Client) expireSession() {
	token, err := c.tokens.Get()
	if err != nil || token == "" {
		return
	}
	_ = c.tokens.Clear()
	c.setCurrentUser(nil)
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

func (c *Client) setCurrentUser(usr *User) {
	c.mu.Lock()
	c.currentUser = usr
	c.mu.Unlock()
}

// CurrentUser returns the cached profile, or nil when anonymous.
func (c *Client) CurrentUser() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.currentUser == nil {
		return nil
	}
	usr := *c.currentUser
	return &usr
}

// IsAuthenticated reports whether a credential is stored.
func (c *Client) IsAuthenticated() bool {
	token, err := c.tokens.Get()
	return err == nil && token != ""
}

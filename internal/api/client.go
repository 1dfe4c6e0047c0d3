// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package api implements the JSON client for the Orbit backend.
//
// The client centralizes three concerns so no call site has to repeat them:
// authorization header injection (the token function is consulted per request,
// at send time), normalization of failure responses into *Error, and the
// global session-expiry hook for 401s on authenticated requests.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Endpoint paths consumed by the auth actions.
const (
	PathLogin         = "auth/login/"
	PathSignup        = "auth/signup/"
	PathLogout        = "auth/logout/"
	PathUser          = "auth/user/"
	PathPasswordReset = "auth/password/reset/"
)

const userAgent = "orbit-cli/1.0"

// TokenFunc returns the current session token, or "" when unauthenticated.
// It is read on every request so a mid-session token change is honored
// without re-instantiating the client.
type TokenFunc func() string

// Client issues JSON requests against the backend API.
type Client struct {
	baseURL    string
	client     *http.Client
	token      TokenFunc
	onAuthLost func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. Tests use this to
// shorten timeouts; nil is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithAuthLostHandler registers fn to run when an authenticated request is
// rejected with 401. The handler is never invoked for requests that carried
// no token, so a failed login stays a local form error.
func WithAuthLostHandler(fn func()) Option {
	return func(c *Client) { c.onAuthLost = fn }
}

// New creates a client for the given base URL. The token function is
// consulted at send time for every request.
func New(baseURL string, token TokenFunc, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response into
// out. Both in and out may be nil.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token := ""
	if c.token != nil {
		token = c.token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		apiErr := parseError(resp.StatusCode, raw)
		if apiErr.Unauthorized() && token != "" && c.onAuthLost != nil {
			c.onAuthLost()
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// GetRaw issues a GET request and returns the undecoded JSON body. The fetch
// cache uses it as its default fetcher.
func (c *Client) GetRaw(ctx context.Context, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, path, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

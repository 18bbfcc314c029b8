// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/wee-saviya/auth"
)

// DefaultTimeout bounds every upstream call unless overridden.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of an upstream reply is read.
const maxResponseBytes = 10 << 20

// Forwarder sends one payload to one workflow path.
type Forwarder interface {
	Forward(ctx context.Context, path string, payload any) (json.RawMessage, error)
}

// UpstreamError reports a non-2xx reply from the workflow backend.
type UpstreamError struct {
	Path       string
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %s", e.Path, e.Status)
}

type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	secret  string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithSecret enables HMAC signing of outbound payloads.
func WithSecret(secret string) Option {
	return func(c *Client) { c.secret = secret }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Forward posts payload to the workflow path and returns the reply body.
// A reply that is not valid JSON is returned as a JSON string.
func (c *Client) Forward(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		req.Header.Set(auth.SignatureHeader, auth.SignPayload(body, c.secret))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &UpstreamError{Path: path, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return json.RawMessage(trimmed), nil
	}
	text, err := json.Marshal(string(raw))
	if err != nil {
		return nil, fmt.Errorf("encode %s response: %w", path, err)
	}
	return text, nil
}

var _ Forwarder = (*Client)(nil)

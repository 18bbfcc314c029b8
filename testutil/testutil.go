// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/wee-saviya/cliparse"
	"github.com/danielhkuo/wee-saviya/db"
)

// SetupTestDB opens an in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		WebhookURL:      "http://127.0.0.1:1/webhook",
		AllowedOrigins:  []string{"*"},
		Environment:     cliparse.ModeDevelopment,
		UpstreamTimeout: 2 * time.Second,
		RateLimitMax:    100,
		RateLimitWindow: 15 * time.Minute,
		WSMaxInflight:   4,
		BodyLimit:       10_000_000,
		DatabaseType:    db.TypeSQLite,
	}
}

// WebhookCall is one request received by a WebhookStub
type WebhookCall struct {
	Path   string
	Header http.Header
	Body   map[string]any
}

// WebhookStub stands in for the workflow webhook. By default every path
// answers 200 with {"message":"ok"}.
type WebhookStub struct {
	*httptest.Server

	mu        sync.Mutex
	calls     []WebhookCall
	responses map[string]stubResponse
}

type stubResponse struct {
	status int
	body   string
	delay  time.Duration
}

// NewWebhookStub starts a stub webhook server, closed when the test ends
func NewWebhookStub(t *testing.T) *WebhookStub {
	t.Helper()

	s := &WebhookStub{responses: make(map[string]stubResponse)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// WebhookURL returns the base URL to put in Config.WebhookURL
func (s *WebhookStub) WebhookURL() string {
	return s.Server.URL + "/webhook"
}

// Respond sets the status and body returned for a workflow path
func (s *WebhookStub) Respond(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[path] = stubResponse{status: status, body: body}
}

// Stall makes a workflow path wait d before answering
func (s *WebhookStub) Stall(path string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.responses[path]
	if !ok {
		r = stubResponse{status: http.StatusOK, body: `{"message":"ok"}`}
	}
	r.delay = d
	s.responses[path] = r
}

// Calls returns a copy of the requests received so far
func (s *WebhookStub) Calls() []WebhookCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]WebhookCall(nil), s.calls...)
}

func (s *WebhookStub) serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if len(path) > len("/webhook") && path[:len("/webhook")] == "/webhook" {
		path = path[len("/webhook"):]
	}

	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	s.mu.Lock()
	s.calls = append(s.calls, WebhookCall{Path: path, Header: r.Header.Clone(), Body: body})
	resp, ok := s.responses[path]
	s.mu.Unlock()

	if !ok {
		resp = stubResponse{status: http.StatusOK, body: `{"message":"ok"}`}
	}
	if resp.delay > 0 {
		select {
		case <-time.After(resp.delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	w.Write([]byte(resp.body))
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var reader io.Reader
		if s, ok := body.(string); ok {
			reader = bytes.NewReader([]byte(s))
		} else {
			jsonBody, _ := json.Marshal(body)
			reader = bytes.NewReader(jsonBody)
		}
		req = httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// Envelope is the decoded form of models.Response with raw data
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  []struct {
		Path string `json:"path"`
		Msg  string `json:"msg"`
	} `json:"errors"`
}

// DecodeEnvelope decodes a response envelope, failing the test on error
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	AssertJSON(t, w, &env)
	return env
}

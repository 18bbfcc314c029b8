// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/wee-saviya/ratelimit"
)

type failingStore struct{}

func (failingStore) Hit(context.Context, string, time.Duration) (int64, time.Time, error) {
	return 0, time.Time{}, errors.New("redis down")
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), 2, time.Minute)
	handler := RateLimit(limiter, "/api/")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(path, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		req.RemoteAddr = ip + ":5555"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	// Two allowed, third rejected
	for i := 0; i < 2; i++ {
		w := do("/api/knowledge/problems", "192.0.2.10")
		if w.Code != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i+1, w.Code)
		}
		if w.Header().Get("RateLimit-Limit") != "2" {
			t.Errorf("Expected RateLimit-Limit 2, got '%s'", w.Header().Get("RateLimit-Limit"))
		}
	}

	w := do("/api/knowledge/problems", "192.0.2.10")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", w.Code)
	}
	if w.Header().Get("RateLimit-Remaining") != "0" {
		t.Errorf("Expected RateLimit-Remaining 0, got '%s'", w.Header().Get("RateLimit-Remaining"))
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}
	expected := `{"success":false,"message":"Too many requests, please try again later."}` + "\n"
	if w.Body.String() != expected {
		t.Errorf("Unexpected body %s", w.Body.String())
	}

	// Other clients have their own budget
	if w := do("/api/knowledge/problems", "192.0.2.11"); w.Code != http.StatusOK {
		t.Errorf("Expected other client to pass, got %d", w.Code)
	}

	// Paths outside the prefix are not limited
	if w := do("/health", "192.0.2.10"); w.Code != http.StatusOK {
		t.Errorf("Expected /health to bypass the limiter, got %d", w.Code)
	}
	if w := do("/health", "192.0.2.10"); w.Header().Get("RateLimit-Limit") != "" {
		t.Error("Expected no rate limit headers outside the prefix")
	}
}

func TestRateLimit_StoreFailureFailsOpen(t *testing.T) {
	limiter := ratelimit.New(failingStore{}, 1, time.Minute)
	handler := RateLimit(limiter, "/api/")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/tour/farmer", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200 when store fails, got %d", w.Code)
		}
	}
}

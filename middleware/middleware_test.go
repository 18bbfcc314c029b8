// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/wee-saviya/models"
)

func TestWithLogging(t *testing.T) {
	// Create a simple handler that returns OK
	handlerCalled := false
	testHandler := func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	}

	// Wrap with logging middleware
	wrappedHandler := WithLogging(testHandler)

	// Create test request and recorder
	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()

	// Execute
	wrappedHandler(w, req)

	// Verify handler was called
	if !handlerCalled {
		t.Error("Expected handler to be called")
	}

	// Verify response was written correctly
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "success" {
		t.Errorf("Expected body 'success', got '%s'", w.Body.String())
	}
}

func TestWithLogging_PreservesResponse(t *testing.T) {
	// Test that logging doesn't interfere with various response codes
	testCases := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"OK", http.StatusOK, "ok"},
		{"BadRequest", http.StatusBadRequest, `{"success":false}`},
		{"NotFound", http.StatusNotFound, "not found"},
		{"TooMany", http.StatusTooManyRequests, "slow down"},
		{"InternalError", http.StatusInternalServerError, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				w.Write([]byte(tc.body))
			})

			req := httptest.NewRequest("POST", "/api/ai/chat", nil)
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if w.Body.String() != tc.body {
				t.Errorf("Expected body '%s', got '%s'", tc.body, w.Body.String())
			}
		})
	}
}

func TestJSONResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		data       interface{}
		expected   string
	}{
		{
			name:       "simple struct",
			statusCode: http.StatusOK,
			data:       map[string]string{"message": "hello"},
			expected:   `{"message":"hello"}`,
		},
		{
			name:       "success envelope",
			statusCode: http.StatusOK,
			data:       models.Response{Success: true, Data: map[string]int{"dry": 120}},
			expected:   `{"success":true,"data":{"dry":120}}`,
		},
		{
			name:       "error envelope",
			statusCode: http.StatusInternalServerError,
			data:       models.Response{Success: false, Message: "Failed to get contextual help"},
			expected:   `{"success":false,"message":"Failed to get contextual help"}`,
		},
		{
			name:       "array data",
			statusCode: http.StatusOK,
			data:       []string{"a", "b", "c"},
			expected:   `["a","b","c"]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			JSONResponse(w, tc.statusCode, tc.data)

			// Check status code
			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}

			// Check Content-Type header
			contentType := w.Header().Get("Content-Type")
			if contentType != "application/json" {
				t.Errorf("Expected Content-Type 'application/json', got '%s'", contentType)
			}

			// Check body (trim newline added by Encode)
			body := strings.TrimSpace(w.Body.String())
			if body != tc.expected {
				t.Errorf("Expected body '%s', got '%s'", tc.expected, body)
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		message    string
	}{
		{"not found", http.StatusNotFound, "Tour not found for this screen"},
		{"internal error", http.StatusInternalServerError, "Failed to process voice input"},
		{"too many", http.StatusTooManyRequests, "Too many requests, please try again later."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			ErrorResponse(w, tc.statusCode, tc.message)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}

			var resp models.Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Success {
				t.Error("Expected success false")
			}
			if resp.Message != tc.message {
				t.Errorf("Expected message '%s', got '%s'", tc.message, resp.Message)
			}
		})
	}
}

func TestValidationResponse(t *testing.T) {
	w := httptest.NewRecorder()
	req := models.ChatRequest{Language: "fr"}

	ValidationResponse(w, req.Validate())

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`"success":false`, `"path":"message"`, `"path":"language"`, `"location":"body"`} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected body to contain %s, got %s", want, body)
		}
	}
}

func TestParseJSONBody(t *testing.T) {
	const limit = 1024

	t.Run("valid JSON", func(t *testing.T) {
		body := `{"message":"hello","language":"si"}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.ChatRequest
		err := ParseJSONBody(req, &parsed, limit)

		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.Message != "hello" {
			t.Errorf("Expected message 'hello', got '%s'", parsed.Message)
		}
		if parsed.Language != "si" {
			t.Errorf("Expected language 'si', got '%s'", parsed.Language)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{invalid json}`))

		var parsed models.ChatRequest
		if err := ParseJSONBody(req, &parsed, limit); err == nil {
			t.Error("Expected error for invalid JSON")
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(""))

		var parsed models.ChatRequest
		if err := ParseJSONBody(req, &parsed, limit); err != nil {
			t.Errorf("Expected empty body to parse as an empty document, got: %v", err)
		}
		if parsed.Message != "" {
			t.Errorf("Expected empty message, got '%s'", parsed.Message)
		}
	})

	t.Run("truncated body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"message":`))

		var parsed models.ChatRequest
		if err := ParseJSONBody(req, &parsed, limit); err == nil {
			t.Error("Expected error for truncated JSON")
		}
	})

	t.Run("extra fields ignored", func(t *testing.T) {
		body := `{"message":"hi","language":"en","unknown_field":"ignored"}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.ChatRequest
		if err := ParseJSONBody(req, &parsed, limit); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.Message != "hi" {
			t.Errorf("Expected message 'hi', got '%s'", parsed.Message)
		}
	})

	t.Run("body over limit", func(t *testing.T) {
		body := `{"message":"` + strings.Repeat("a", 2*limit) + `"}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.ChatRequest
		err := ParseJSONBody(req, &parsed, limit)

		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			t.Fatalf("Expected MaxBytesError, got %v", err)
		}
	})

	t.Run("body is closed after parsing", func(t *testing.T) {
		bodyReader := io.NopCloser(bytes.NewReader([]byte(`{"message":"hi"}`)))
		req := httptest.NewRequest("POST", "/", bodyReader)

		var parsed models.ChatRequest
		_ = ParseJSONBody(req, &parsed, limit)

		remaining, _ := io.ReadAll(req.Body)
		if len(remaining) > 0 {
			t.Error("Expected body to be consumed/closed")
		}
	})
}

func TestBodyErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	BodyErrorResponse(w, &http.MaxBytesError{Limit: 10})
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	BodyErrorResponse(w, errors.New("unexpected EOF"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"message":"Invalid JSON"`) {
		t.Errorf("Unexpected body %s", w.Body.String())
	}
}

func TestNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	NotFound(w, httptest.NewRequest("GET", "/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	expected := `{"success":false,"message":"The requested endpoint does not exist.","error":"Route not found"}`
	if strings.TrimSpace(w.Body.String()) != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		if seen == "" {
			t.Fatal("Expected request id in context")
		}
		if w.Header().Get(RequestIDHeader) != seen {
			t.Errorf("Expected header to match context id, got '%s'", w.Header().Get(RequestIDHeader))
		}
	})

	t.Run("reuses client id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, "client-abc")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if seen != "client-abc" {
			t.Errorf("Expected 'client-abc', got '%s'", seen)
		}
	})

	if RequestIDFrom(context.Background()) != "" {
		t.Error("Expected empty id outside middleware")
	}
}

func TestRecover(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	testCases := []struct {
		name       string
		production bool
		message    string
	}{
		{"development shows detail", false, "boom"},
		{"production hides detail", true, "Something went wrong!"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Recover(tc.production)(panicky).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

			if w.Code != http.StatusInternalServerError {
				t.Errorf("Expected status 500, got %d", w.Code)
			}
			var resp models.Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Error != "Internal server error" {
				t.Errorf("Unexpected error '%s'", resp.Error)
			}
			if resp.Message != tc.message {
				t.Errorf("Expected message '%s', got '%s'", tc.message, resp.Message)
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SecurityHeaders(http.NotFoundHandler()).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	expected := map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "SAMEORIGIN",
		"Referrer-Policy":           "no-referrer",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	}
	for header, value := range expected {
		if got := w.Header().Get(header); got != value {
			t.Errorf("Expected %s '%s', got '%s'", header, value, got)
		}
	}
	if w.Header().Get("Content-Security-Policy") == "" {
		t.Error("Expected Content-Security-Policy to be set")
	}
}

func TestCORS(t *testing.T) {
	// Create a simple handler that returns OK
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("handled"))
	})

	t.Run("preflight OPTIONS request", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/ai/chat", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()

		CORS([]string{"*"})(nextHandler).ServeHTTP(w, req)

		// Should return 204 without calling next handler
		if w.Code != http.StatusNoContent {
			t.Errorf("Expected status 204, got %d", w.Code)
		}
		if w.Body.String() != "" {
			t.Errorf("Expected empty body for preflight, got '%s'", w.Body.String())
		}

		// Check CORS headers
		if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
			t.Error("Expected Access-Control-Allow-Origin to match request origin")
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("Expected Access-Control-Allow-Credentials to be 'true'")
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "POST") {
			t.Error("Expected POST in allowed methods")
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Session-Id") {
			t.Error("Expected Session-Id in allowed headers")
		}
	})

	t.Run("preflight echoes requested headers", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/ai/chat", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "content-type,x-custom")
		w := httptest.NewRecorder()

		CORS([]string{"*"})(nextHandler).ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Headers") != "content-type,x-custom" {
			t.Errorf("Unexpected allowed headers '%s'", w.Header().Get("Access-Control-Allow-Headers"))
		}
	})

	t.Run("listed origin is reflected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/knowledge/market-prices", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()

		CORS([]string{"https://app.example.com"})(nextHandler).ServeHTTP(w, req)

		if w.Body.String() != "handled" {
			t.Error("Expected next handler to be called")
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "https://app.example.com" {
			t.Error("Expected Access-Control-Allow-Origin to reflect request origin")
		}
	})

	t.Run("unlisted origin gets no CORS headers", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/knowledge/market-prices", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()

		CORS([]string{"https://app.example.com"})(nextHandler).ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("Expected no Access-Control-Allow-Origin for unlisted origin")
		}
		if w.Body.String() != "handled" {
			t.Error("Expected next handler to still be called")
		}
	})

	t.Run("request without origin defaults to wildcard", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()

		CORS([]string{"*"})(nextHandler).ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("Expected Access-Control-Allow-Origin to default to '*'")
		}
	})
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		expected   string
	}{
		{"remote addr with port", "192.0.2.1:1234", nil, "192.0.2.1"},
		{"ipv6 remote addr", "[::1]:8080", nil, "::1"},
		{"x-forwarded-for chain", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"}, "203.0.113.7"},
		{"x-real-ip", "10.0.0.1:1", map[string]string{"X-Real-IP": "198.51.100.4"}, "198.51.100.4"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			if got := GetClientIP(req); got != tc.expected {
				t.Errorf("Expected '%s', got '%s'", tc.expected, got)
			}
		})
	}
}

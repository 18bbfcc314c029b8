// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/wee-saviya/models"
	"github.com/danielhkuo/wee-saviya/testutil"
)

func TestHealth(t *testing.T) {
	h := NewHealthHandler()
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	w := httptest.NewRecorder()
	h.Health(w, testutil.MakeRequest("GET", "/health", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.HealthResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Status != "healthy" || resp.Version != "1.0.0" || resp.Service != "Wee Saviya AI Assistant" {
		t.Errorf("Unexpected health response %+v", resp)
	}
	if !resp.Timestamp.Equal(fixed) {
		t.Errorf("Expected timestamp %v, got %v", fixed, resp.Timestamp)
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/wee-saviya/middleware"
	"github.com/danielhkuo/wee-saviya/models"
)

// Service identity reported by the health check
const (
	ServiceName    = "Wee Saviya AI Assistant"
	ServiceVersion = "1.0.0"
)

type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC(),
		Version:   ServiceVersion,
		Service:   ServiceName,
	})
}

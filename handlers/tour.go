// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/wee-saviya/cliparse"
	"github.com/danielhkuo/wee-saviya/db"
	"github.com/danielhkuo/wee-saviya/i18n"
	"github.com/danielhkuo/wee-saviya/middleware"
	"github.com/danielhkuo/wee-saviya/models"
	"github.com/danielhkuo/wee-saviya/tour"
)

// CompletionStore persists tour completions. *db.CompletionStore
// satisfies it.
type CompletionStore interface {
	Record(ctx context.Context, c db.Completion) (string, error)
	ListByUser(ctx context.Context, userID string) ([]db.Completion, error)
}

type TourHandler struct {
	catalog     *tour.Catalog
	completions CompletionStore
	cfg         cliparse.Config
	now         func() time.Time
}

// NewTourHandler creates a tour handler. completions may be nil, in which
// case completions are acknowledged but not stored.
func NewTourHandler(catalog *tour.Catalog, completions CompletionStore, cfg cliparse.Config) *TourHandler {
	return &TourHandler{catalog: catalog, completions: completions, cfg: cfg, now: time.Now}
}

// GetTour handles GET /api/tour/{userRole}/{screenName}
func (h *TourHandler) GetTour(w http.ResponseWriter, r *http.Request) {
	lang := orDefault(r.URL.Query().Get("language"), string(i18n.Default))

	t, err := h.catalog.Tour(r.PathValue("userRole"), r.PathValue("screenName"), lang)
	switch {
	case errors.Is(err, tour.ErrRoleNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Tour not found for this user role")
		return
	case errors.Is(err, tour.ErrScreenNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Tour not found for this screen")
		return
	case err != nil:
		slog.Error("failed to build tour", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to get tour information")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.Response{Success: true, Data: t})
}

// ListTours handles GET /api/tour/{userRole}
func (h *TourHandler) ListTours(w http.ResponseWriter, r *http.Request) {
	lang := orDefault(r.URL.Query().Get("language"), string(i18n.Default))

	overview, err := h.catalog.List(r.PathValue("userRole"), lang)
	if errors.Is(err, tour.ErrRoleNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "No tours available for this user role")
		return
	}
	if err != nil {
		slog.Error("failed to list tours", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to get available tours")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.Response{Success: true, Data: overview})
}

// Complete handles POST /api/tour/complete
// Any payload is accepted. It is stored only when a store is configured.
func (h *TourHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req models.TourCompleteRequest
	if err := middleware.ParseJSONBody(r, &req, h.cfg.BodyLimit); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	completion := models.TourCompletion{
		UserRole:       req.UserRole,
		ScreenName:     req.ScreenName,
		CompletedSteps: req.CompletedSteps,
		CompletedAt:    h.now().UTC(),
	}

	if h.completions != nil {
		steps, _ := json.Marshal(req.CompletedSteps)
		id, err := h.completions.Record(r.Context(), db.Completion{
			UserID:         scalarString(req.UserID),
			UserRole:       scalarString(req.UserRole),
			ScreenName:     scalarString(req.ScreenName),
			CompletedSteps: steps,
			CompletedAt:    completion.CompletedAt,
		})
		if err != nil {
			slog.Error("failed to record tour completion", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record tour completion")
			return
		}
		slog.Info("tour completion recorded", "completion_id", id, "user_role", req.UserRole, "screen", req.ScreenName)
	}

	middleware.JSONResponse(w, http.StatusOK, models.Response{
		Success: true,
		Message: "Tour completion recorded",
		Data:    completion,
	})
}

// Completions handles GET /api/tour/completions/{userId}
func (h *TourHandler) Completions(w http.ResponseWriter, r *http.Request) {
	if h.completions == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Tour completion history is not enabled")
		return
	}

	completions, err := h.completions.ListByUser(r.Context(), r.PathValue("userId"))
	if err != nil {
		slog.Error("failed to list tour completions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to get tour completions")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.Response{Success: true, Data: completions})
}

// scalarString renders a loosely typed JSON scalar for storage.
// Objects and arrays become "".
func scalarString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64, bool:
		return fmt.Sprint(v)
	}
	return ""
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/wee-saviya/knowledge"
	"github.com/danielhkuo/wee-saviya/middleware"
	"github.com/danielhkuo/wee-saviya/models"
)

type KnowledgeHandler struct {
	store *knowledge.Store
	now   func() time.Time
}

func NewKnowledgeHandler(store *knowledge.Store) *KnowledgeHandler {
	return &KnowledgeHandler{store: store, now: time.Now}
}

// MarketPrices handles GET /api/knowledge/market-prices
// An unknown district or variety returns the whole price table.
func (h *KnowledgeHandler) MarketPrices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	district, variety := query.Get("district"), query.Get("variety")

	if district != "" && variety != "" {
		if quote, ok := h.store.Quote(district, variety, query.Get("moisture"), h.now()); ok {
			middleware.JSONResponse(w, http.StatusOK, models.Response{Success: true, Data: quote})
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.Response{Success: true, Data: h.store.MarketPrices()})
}

// Cultivation handles GET /api/knowledge/cultivation
// The month parameter is accepted and ignored.
func (h *KnowledgeHandler) Cultivation(w http.ResponseWriter, r *http.Request) {
	if season := r.URL.Query().Get("season"); season != "" {
		if info, ok := h.store.Season(season); ok {
			middleware.JSONResponse(w, http.StatusOK, models.Response{Success: true, Data: info})
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.Response{Success: true, Data: h.store.Calendar()})
}

// Problems handles GET /api/knowledge/problems
func (h *KnowledgeHandler) Problems(w http.ResponseWriter, r *http.Request) {
	if issue := r.URL.Query().Get("issue"); issue != "" {
		if info, ok := h.store.Problem(issue); ok {
			middleware.JSONResponse(w, http.StatusOK, models.Response{Success: true, Data: info})
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.Response{Success: true, Data: h.store.Problems()})
}

// Search handles GET /api/knowledge/search
func (h *KnowledgeHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := query.Get("query")
	results := h.store.Search(q, query.Get("category"))

	middleware.JSONResponse(w, http.StatusOK, models.SearchResponse{
		Success:     true,
		Data:        results,
		Query:       q,
		ResultCount: len(results),
	})
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/wee-saviya/auth"
	"github.com/danielhkuo/wee-saviya/cliparse"
	"github.com/danielhkuo/wee-saviya/i18n"
	"github.com/danielhkuo/wee-saviya/middleware"
	"github.com/danielhkuo/wee-saviya/models"
	"github.com/danielhkuo/wee-saviya/proxy"
)

type AIHandler struct {
	proxy *proxy.Proxy
	cfg   cliparse.Config
	now   func() time.Time
}

func NewAIHandler(p *proxy.Proxy, cfg cliparse.Config) *AIHandler {
	return &AIHandler{proxy: p, cfg: cfg, now: time.Now}
}

// Chat handles POST /api/ai/chat
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := middleware.ParseJSONBody(r, &req, h.cfg.BodyLimit); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	// Validate input
	if errs := req.Validate(); errs != nil {
		middleware.ValidationResponse(w, errs)
		return
	}

	payload := models.NewChatPayload(req, auth.SessionID(r), h.now())
	h.respond(w, r, proxy.ChatRoute, payload, req.Language)
}

// Help handles GET /api/ai/help/{screenName}
func (h *AIHandler) Help(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	payload := models.HelpPayload{
		ScreenName:  r.PathValue("screenName"),
		Language:    orDefault(query.Get("language"), string(i18n.Default)),
		UserRole:    orDefault(query.Get("userRole"), models.DefaultRole),
		RequestType: models.RequestTypeContextualHelp,
	}
	h.respond(w, r, proxy.HelpRoute, payload, payload.Language)
}

// Voice handles POST /api/ai/voice
func (h *AIHandler) Voice(w http.ResponseWriter, r *http.Request) {
	var req models.VoiceRequest
	if err := middleware.ParseJSONBody(r, &req, h.cfg.BodyLimit); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	payload := models.VoicePayload{
		AudioData:      req.AudioData,
		Language:       orDefault(req.Language, string(i18n.Default)),
		CurrentScreen:  req.CurrentScreen,
		ProcessingType: models.ProcessingTypeVoice,
	}
	h.respond(w, r, proxy.VoiceRoute, payload, payload.Language)
}

// Suggestions handles POST /api/ai/suggestions
func (h *AIHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	var req models.SuggestionsRequest
	if err := middleware.ParseJSONBody(r, &req, h.cfg.BodyLimit); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	payload := models.SuggestionsPayload{
		UserBehavior:  req.UserBehavior,
		CurrentScreen: req.CurrentScreen,
		Language:      orDefault(req.Language, string(i18n.Default)),
		UserRole:      orDefault(req.UserRole, models.DefaultRole),
		RequestType:   models.RequestTypeSmartSuggestions,
	}
	h.respond(w, r, proxy.SuggestionsRoute, payload, payload.Language)
}

func (h *AIHandler) respond(w http.ResponseWriter, r *http.Request, route proxy.Route, payload any, lang string) {
	res := h.proxy.Handle(r.Context(), route, payload, lang)
	middleware.JSONResponse(w, res.Status, res.Body)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

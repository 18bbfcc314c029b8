// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/danielhkuo/wee-saviya/i18n"
)

// User role constants
const (
	RoleFarmer = "farmer"
	RoleLabor  = "labor"
	RoleDriver = "driver"
)

// Payload defaults applied when the client omits a field
const (
	DefaultScreen    = "unknown"
	DefaultRole      = RoleFarmer
	DefaultSessionID = "anonymous"
)

// Workflow request type markers
const (
	RequestTypeContextualHelp   = "contextual_help"
	RequestTypeSmartSuggestions = "smart_suggestions"
	ProcessingTypeVoice         = "voice_to_text_and_respond"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleFarmer, RoleLabor, RoleDriver:
		return true
	}
	return false
}

// Envelope types

type Response struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

func invalidField(path string, value any) FieldError {
	return FieldError{
		Type:     "field",
		Value:    value,
		Msg:      "Invalid value",
		Path:     path,
		Location: "body",
	}
}

type SearchResponse struct {
	Success     bool   `json:"success"`
	Data        any    `json:"data"`
	Query       string `json:"query,omitempty"`
	ResultCount int    `json:"resultCount"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Service   string    `json:"service"`
}

// Request types

type ChatRequest struct {
	Message       string          `json:"message"`
	Language      string          `json:"language"`
	CurrentScreen string          `json:"currentScreen"`
	UserRole      string          `json:"userRole"`
	Context       json.RawMessage `json:"context,omitempty"`
	IsVoiceInput  bool            `json:"isVoiceInput"`

	// fields that were present with the wrong JSON type
	mistyped map[string]FieldError
}

// UnmarshalJSON accepts any JSON value. A field of the wrong type is
// recorded for Validate instead of failing the decode, and a document that
// is not an object decodes as an empty request.
func (r *ChatRequest) UnmarshalJSON(data []byte) error {
	*r = ChatRequest{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil
		}
		return err
	}

	r.Message = r.stringField(fields, "message")
	r.Language = r.stringField(fields, "language")
	r.CurrentScreen = r.stringField(fields, "currentScreen")
	r.UserRole = r.stringField(fields, "userRole")
	r.Context = fields["context"]
	if raw, ok := fields["isVoiceInput"]; ok {
		if err := json.Unmarshal(raw, &r.IsVoiceInput); err != nil {
			r.markMistyped("isVoiceInput", raw)
		}
	}
	return nil
}

func (r *ChatRequest) stringField(fields map[string]json.RawMessage, name string) string {
	raw, ok := fields[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		r.markMistyped(name, raw)
		return ""
	}
	return s
}

func (r *ChatRequest) markMistyped(name string, raw json.RawMessage) {
	if r.mistyped == nil {
		r.mistyped = make(map[string]FieldError)
	}
	var value any
	_ = json.Unmarshal(raw, &value)
	r.mistyped[name] = invalidField(name, value)
}

// Validate trims the message and checks every field rule. It returns
// nil when the request may be forwarded.
func (r *ChatRequest) Validate() []FieldError {
	var errs []FieldError

	r.Message = strings.TrimSpace(r.Message)
	if e, ok := r.mistyped["message"]; ok {
		errs = append(errs, e)
	} else if r.Message == "" {
		errs = append(errs, invalidField("message", r.Message))
	}
	if e, ok := r.mistyped["language"]; ok {
		errs = append(errs, e)
	} else if !i18n.IsSupported(r.Language) {
		errs = append(errs, invalidField("language", r.Language))
	}
	if e, ok := r.mistyped["currentScreen"]; ok {
		errs = append(errs, e)
	}
	if e, ok := r.mistyped["userRole"]; ok {
		errs = append(errs, e)
	} else if r.UserRole != "" && !IsValidRole(r.UserRole) {
		errs = append(errs, invalidField("userRole", r.UserRole))
	}
	if e, ok := r.mistyped["isVoiceInput"]; ok {
		errs = append(errs, e)
	}

	return errs
}

type VoiceRequest struct {
	AudioData     any    `json:"audioData"`
	Language      string `json:"language"`
	CurrentScreen string `json:"currentScreen"`
}

type SuggestionsRequest struct {
	UserBehavior  any    `json:"userBehavior"`
	CurrentScreen string `json:"currentScreen"`
	Language      string `json:"language"`
	UserRole      string `json:"userRole"`
}

// TourCompleteRequest is accepted as-is; no field is validated.
type TourCompleteRequest struct {
	UserRole       any `json:"userRole"`
	ScreenName     any `json:"screenName"`
	CompletedSteps any `json:"completedSteps"`
	UserID         any `json:"userId"`
}

// UnmarshalJSON takes the known fields from an object and ignores any
// other JSON value.
func (r *TourCompleteRequest) UnmarshalJSON(data []byte) error {
	*r = TourCompleteRequest{}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil
		}
		return err
	}

	r.UserRole = fields["userRole"]
	r.ScreenName = fields["screenName"]
	r.CompletedSteps = fields["completedSteps"]
	r.UserID = fields["userId"]
	return nil
}

// Workflow payloads

type ChatPayload struct {
	Message       string          `json:"message"`
	Language      string          `json:"language"`
	CurrentScreen string          `json:"currentScreen"`
	UserRole      string          `json:"userRole"`
	Context       json.RawMessage `json:"context"`
	IsVoiceInput  bool            `json:"isVoiceInput"`
	Timestamp     string          `json:"timestamp"`
	SessionID     string          `json:"sessionId"`
}

// NewChatPayload applies defaults to a validated request and stamps it.
func NewChatPayload(req ChatRequest, sessionID string, now time.Time) ChatPayload {
	p := ChatPayload{
		Message:       req.Message,
		Language:      req.Language,
		CurrentScreen: req.CurrentScreen,
		UserRole:      req.UserRole,
		Context:       req.Context,
		IsVoiceInput:  req.IsVoiceInput,
		Timestamp:     FormatTimestamp(now),
		SessionID:     sessionID,
	}
	if p.Language == "" {
		p.Language = string(i18n.Default)
	}
	if p.CurrentScreen == "" {
		p.CurrentScreen = DefaultScreen
	}
	if p.UserRole == "" {
		p.UserRole = DefaultRole
	}
	if len(p.Context) == 0 || string(p.Context) == "null" {
		p.Context = json.RawMessage("{}")
	}
	if p.SessionID == "" {
		p.SessionID = DefaultSessionID
	}
	return p
}

type HelpPayload struct {
	ScreenName  string `json:"screenName"`
	Language    string `json:"language"`
	UserRole    string `json:"userRole"`
	RequestType string `json:"requestType"`
}

type VoicePayload struct {
	AudioData      any    `json:"audioData,omitempty"`
	Language       string `json:"language"`
	CurrentScreen  string `json:"currentScreen,omitempty"`
	ProcessingType string `json:"processingType"`
}

type SuggestionsPayload struct {
	UserBehavior  any    `json:"userBehavior,omitempty"`
	CurrentScreen string `json:"currentScreen,omitempty"`
	Language      string `json:"language"`
	UserRole      string `json:"userRole"`
	RequestType   string `json:"requestType"`
}

// Response types

// FallbackResponse stands in for the assistant reply when the chat
// workflow fails.
type FallbackResponse struct {
	Message      string   `json:"message"`
	Language     string   `json:"language"`
	HasAudio     bool     `json:"hasAudio"`
	QuickActions []string `json:"quickActions"`
}

func NewFallbackResponse(lang string) FallbackResponse {
	return FallbackResponse{
		Message:      i18n.ChatFallback.Resolve(lang),
		Language:     lang,
		HasAudio:     false,
		QuickActions: []string{},
	}
}

type TourCompletion struct {
	UserRole       any       `json:"userRole,omitempty"`
	ScreenName     any       `json:"screenName,omitempty"`
	CompletedSteps any       `json:"completedSteps,omitempty"`
	CompletedAt    time.Time `json:"completedAt"`
}

// FormatTimestamp renders t as UTC ISO-8601 with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package proxy

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/wee-saviya/models"
)

// Policy decides what the caller sees when the upstream call fails.
type Policy int

const (
	// Surface returns 500 with the route's failure message.
	Surface Policy = iota
	// Fallback returns 200 with a localized canned reply.
	Fallback
)

func (p Policy) String() string {
	switch p {
	case Surface:
		return "surface"
	case Fallback:
		return "fallback"
	}
	return "unknown"
}

// Route is one workflow endpoint and its failure policy.
type Route struct {
	Name           string
	Path           string
	Policy         Policy
	FailureMessage string
}

// WithPolicy returns a copy of r using policy p.
func (r Route) WithPolicy(p Policy) Route {
	r.Policy = p
	return r
}

var (
	ChatRoute = Route{
		Name:           "chat",
		Path:           "/ai-chat",
		Policy:         Fallback,
		FailureMessage: "Sorry, I encountered an error.",
	}
	HelpRoute = Route{
		Name:           "contextual_help",
		Path:           "/contextual-help",
		Policy:         Surface,
		FailureMessage: "Failed to get contextual help",
	}
	VoiceRoute = Route{
		Name:           "voice",
		Path:           "/voice-process",
		Policy:         Surface,
		FailureMessage: "Failed to process voice input",
	}
	SuggestionsRoute = Route{
		Name:           "smart_suggestions",
		Path:           "/smart-suggestions",
		Policy:         Surface,
		FailureMessage: "Failed to get smart suggestions",
	}
)

// Result is the status and envelope to send back to the caller.
type Result struct {
	Status int
	Body   models.Response
	Err    error
}

// Failed reports whether the upstream call failed, whatever the policy.
func (r Result) Failed() bool {
	return r.Err != nil
}

type Proxy struct {
	fwd Forwarder
}

func New(fwd Forwarder) *Proxy {
	return &Proxy{fwd: fwd}
}

// Handle forwards payload along route. lang selects the fallback text
// for routes with the Fallback policy.
func (p *Proxy) Handle(ctx context.Context, route Route, payload any, lang string) Result {
	data, err := p.fwd.Forward(ctx, route.Path, payload)
	if err == nil {
		return Result{
			Status: http.StatusOK,
			Body:   models.Response{Success: true, Data: data},
		}
	}

	slog.Error("workflow call failed",
		"route", route.Name,
		"path", route.Path,
		"policy", route.Policy.String(),
		"error", err,
	)

	if route.Policy == Fallback {
		return Result{
			Status: http.StatusOK,
			Body:   models.Response{Success: true, Data: models.NewFallbackResponse(lang)},
			Err:    err,
		}
	}

	return Result{
		Status: http.StatusInternalServerError,
		Body:   models.Response{Success: false, Message: route.FailureMessage},
		Err:    err,
	}
}

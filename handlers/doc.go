// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Wee Saviya API.

# Handler Types

Each handler is a struct built from its collaborators and config:

  - AIHandler: chat, contextual help, voice and suggestions via the workflow proxy
  - KnowledgeHandler: market prices, cultivation calendar, problems and search
  - TourHandler: localized guided tours and completion tracking
  - HealthHandler: liveness probe

Handlers are created via constructor functions:

	aiHandler := handlers.NewAIHandler(proxy.New(client), cfg)
	tourHandler := handlers.NewTourHandler(catalog, completions, cfg)

# AI Routes

	POST /api/ai/chat               → Chat (validated, 200 fallback on failure)
	GET  /api/ai/help/{screenName}  → Help (500 on failure)
	POST /api/ai/voice              → Voice (500 on failure)
	POST /api/ai/suggestions        → Suggestions (500 on failure)

Chat requests failing validation get 400 with field errors and are never
forwarded. When the chat workflow fails the caller still gets 200 with a
localized canned reply. The other routes report failure as 500.

The Session-Id request header becomes the sessionId of the chat payload.

# Knowledge Routes

	GET /api/knowledge/market-prices?district=&variety=&moisture=
	GET /api/knowledge/cultivation?season=
	GET /api/knowledge/problems?issue=
	GET /api/knowledge/search?query=&category=

A filter that matches nothing returns the whole table, never 404.

# Tour Routes

	GET  /api/tour/{userRole}/{screenName}?language=  → GetTour
	GET  /api/tour/{userRole}?language=               → ListTours
	POST /api/tour/complete                           → Complete
	GET  /api/tour/completions/{userId}               → Completions

Unknown roles and screens get distinct 404 messages. Completions are
stored only when a CompletionStore is configured; without one Complete
still answers 200 and Completions answers 503.
*/
package handlers

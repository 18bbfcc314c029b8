// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires handlers and middleware into one http.Handler.

# Usage

	handler := router.NewRouter(router.Deps{
		Knowledge: store,
		Tours:     catalog,
		Proxy:     proxy.New(client),
		Limiter:   ratelimit.New(ratelimit.NewMemoryStore(), 100, 15*time.Minute),
	}, cfg)

Deps.Completions is optional. Without it tour completions are acknowledged
but not stored.

# Routes

	GET  /health
	POST /api/ai/chat
	GET  /api/ai/help/{screenName}
	POST /api/ai/voice
	POST /api/ai/suggestions
	GET  /api/knowledge/market-prices
	GET  /api/knowledge/cultivation
	GET  /api/knowledge/problems
	GET  /api/knowledge/search
	GET  /api/tour/{userRole}/{screenName}
	GET  /api/tour/{userRole}
	POST /api/tour/complete
	GET  /api/tour/completions/{userId}
	GET  /ws

Any other method or path gets a JSON 404.

# Middleware Order

Outermost first: Recover, RequestID, SecurityHeaders, CORS, RateLimit. Only
paths under /api/ count against the rate limit, so /health and /ws are
never throttled. HTTP routes are individually wrapped with WithLogging.
*/
package router

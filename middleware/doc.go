// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote, request_id) and completion
(status, duration_ms, request_id).

# Middleware Chain

The router wraps the whole mux, outermost first:

	Recover -> RequestID -> SecurityHeaders -> CORS -> RateLimit -> mux

Recover turns panics into a 500 envelope. In production the message is
"Something went wrong!"; otherwise it carries the panic value.

RequestID sets X-Request-ID on every response, reusing a client-supplied id
when present, and makes it available through RequestIDFrom.

SecurityHeaders sets the usual hardening headers (CSP, HSTS, nosniff,
frame options, referrer policy and friends).

# CORS Middleware

Allow cross-origin requests from configured origins:

	handler := middleware.CORS([]string{"https://app.example.com"})(mux)

A "*" entry allows any origin. Allowed origins are echoed back with
Access-Control-Allow-Credentials: true. Preflight requests are answered
with 204 without reaching the mux.

# Rate Limiting

Apply a fixed-window limit to one path prefix:

	handler := middleware.RateLimit(limiter, "/api/")(mux)

Clients are keyed by a hash of their IP. Every limited response carries
RateLimit-Limit, RateLimit-Remaining and RateLimit-Reset headers. Over the
limit the response is 429:

	{"success": false, "message": "Too many requests, please try again later."}

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "message")
	middleware.ValidationResponse(w, errs)

Parse size-limited JSON request bodies:

	var req models.ChatRequest
	if err := middleware.ParseJSONBody(r, &req, cfg.BodyLimit); err != nil {
		middleware.BodyErrorResponse(w, err) // 413 or 400
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used to key the rate limiter.
*/
package middleware

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Wee Saviya API server.

Wee Saviya is an agricultural assistant for paddy farmers and traders.
The server fronts a workflow backend for AI features and serves static
knowledge tables and guided app tours.

# Starting the Server

Every setting has a default, so the server starts with no configuration:

	go run .

Or with flags:

	go run . -p 3000 -webhook-url http://n8n:5678/webhook -env production

A .env file in the working directory is loaded before flags are parsed.

# Configuration

  - PORT (-p): Server port (default: 3000)
  - N8N_WEBHOOK_URL (-webhook-url): Workflow webhook base URL
  - WEBHOOK_SECRET (-webhook-secret): Signs forwarded payloads when set
  - NODE_ENV (-env): development or production
  - ALLOWED_ORIGINS (-origins): CORS and WebSocket origins (default: *)
  - REDIS_URL (-redis-url): Shares rate-limit counters across instances
  - DATABASE_URL (-d): Enables tour completion storage

# Architecture

  - handlers: HTTP request handlers (ai, knowledge, tour, health)
  - realtime: WebSocket ai-message events
  - proxy: Workflow client and per-route failure policy
  - knowledge, tour: Static tables loaded from YAML
  - i18n: Localized fallback and tour text
  - ratelimit: Fixed-window limiter with memory and Redis stores
  - router: Route definitions using Go 1.22+ routing
  - middleware: Recovery, request IDs, security headers, CORS, rate limiting
  - db: Tour completion storage (SQLite or PostgreSQL)
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Flags win over environment variables, which win over defaults. Nothing
is required.

# CLI Flags

	-p               Server port (3000)
	-origins         Allowed origins, comma separated (*)
	-env             development or production (development)
	-body-limit      Max JSON body size (10MB)
	-webhook-url     Workflow webhook base URL (http://localhost:5678/webhook)
	-webhook-secret  HMAC secret for forwarded payloads
	-timeout         Upstream call timeout (30s)
	-rate-limit      Requests per client per window (100)
	-rate-window     Rate limit window (15m)
	-redis-url       Redis URL for shared rate limiting
	-ws-inflight     Concurrent workflow calls per WebSocket connection (4)
	-d               Database URL for tour completions
	-t               Database type, sqlite or postgres (sqlite)
	-knowledge       Knowledge tables YAML file
	-tours           Tour catalog YAML file

# Environment Variables

	PORT              → -p
	ALLOWED_ORIGINS   → -origins
	NODE_ENV          → -env
	BODY_LIMIT        → -body-limit
	N8N_WEBHOOK_URL   → -webhook-url
	WEBHOOK_SECRET    → -webhook-secret
	UPSTREAM_TIMEOUT  → -timeout
	RATE_LIMIT_MAX    → -rate-limit
	RATE_LIMIT_WINDOW → -rate-window
	REDIS_URL         → -redis-url
	WS_MAX_INFLIGHT   → -ws-inflight
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	KNOWLEDGE_FILE    → -knowledge
	TOURS_FILE        → -tours
*/
package cliparse

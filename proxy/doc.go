// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package proxy forwards assistant requests to the workflow backend.

# Client

Client posts a JSON payload to <base URL><route path> and returns the
response body unchanged. Each call is exactly one attempt bounded by the
configured timeout; there is no retry, backoff or circuit breaking.

	client := proxy.NewClient(cfg.WebhookURL,
		proxy.WithTimeout(cfg.UpstreamTimeout),
		proxy.WithSecret(cfg.WebhookSecret),
	)

A non-2xx reply is returned as *UpstreamError. Timeouts and connection
failures are returned as-is.

# Failure Policy

Each Route carries its own failure policy:

  - Fallback (chat): the failure is logged and the caller receives a
    normal 200 reply holding a localized FallbackResponse.
  - Surface (help, voice, suggestions): the failure is logged and the
    caller receives 500 with the route's generic message.

	p := proxy.New(client)
	res := p.Handle(ctx, proxy.ChatRoute, payload, "si")
	middleware.JSONResponse(w, res.Status, res.Body)
*/
package proxy

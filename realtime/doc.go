// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package realtime serves the WebSocket chat channel.

Clients connect to GET /ws and exchange JSON text frames of the form:

	{"event": "ai-message", "data": {"message": "...", "language": "si"}}

Each ai-message is validated with the same rules as POST /api/ai/chat and
forwarded to the chat workflow. The server answers with one frame per
message:

	{"event": "ai-response", "data": <workflow reply>}
	{"event": "ai-error", "data": {"success": false, "message": "Sorry, I encountered an error."}}

Invalid messages get an ai-error frame carrying the field errors instead of
the generic message. Unlike the HTTP chat route there is no localized
fallback: a workflow failure is always reported as ai-error.

Messages on one connection are handled concurrently, so replies may arrive
out of order. At most DefaultMaxInflight (or the WithMaxInflight value)
workflow calls run per connection; further frames wait unread until one
finishes. With WithLimiter, each ai-message is charged against the same
per-client budget as the /api/ routes and answered with an ai-error when
the budget is spent. Frames with unknown events or malformed JSON are logged and
dropped without closing the connection.

The session id forwarded to the workflow is taken from the Session-Id
header of the upgrade request.
*/
package realtime

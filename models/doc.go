// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the Wee Saviya API.

# Response Envelope

Every /api response is wrapped in Response:

	{"success": true,  "data": ...}
	{"success": false, "message": "..."}
	{"success": false, "errors": [{"type": "field", "path": "language", ...}]}

# Request Types

  - ChatRequest: POST /api/ai/chat (validated with Validate)
  - VoiceRequest: POST /api/ai/voice
  - SuggestionsRequest: POST /api/ai/suggestions
  - TourCompleteRequest: POST /api/tour/complete

# Workflow Payloads

ChatPayload, HelpPayload, VoicePayload and SuggestionsPayload are the
bodies forwarded to the workflow webhooks. They carry the client fields
plus server-stamped metadata (timestamp, session id, request type).

# User Roles

Roles are farmer, labor and driver:

	if !models.IsValidRole(role) { ... }
*/
package models

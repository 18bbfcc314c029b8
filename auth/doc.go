// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides request identity and payload signing utilities.

# Session IDs

The mobile app sends its session in the Session-Id header. Requests
without one are forwarded as "anonymous":

	sessionID := auth.SessionID(r)

# Webhook Signatures

When a webhook secret is configured, every forwarded payload is signed
with HMAC-SHA256 so the workflow backend can reject forged calls:

	sig := auth.SignPayload(body, secret)  // "sha256=<hex>"
	req.Header.Set(auth.SignatureHeader, sig)

The workflow verifies by computing the same HMAC over the raw body.

# Client Hashing

Client addresses are hashed before they are used as rate-limit keys in
shared storage:

	key := auth.HashIP(ip, salt)
*/
package auth

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/danielhkuo/wee-saviya/models"
)

const (
	SessionHeader   = "Session-Id"
	SignatureHeader = "X-Signature"
	signaturePrefix = "sha256="
)

// SessionID returns the client's session id, or "anonymous" if none was sent
func SessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(SessionHeader)); id != "" {
		return id
	}
	return models.DefaultSessionID
}

// SignPayload creates an HMAC-SHA256 signature for a webhook body
func SignPayload(body []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return signaturePrefix + hex.EncodeToString(h.Sum(nil))
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// First 16 hex chars (64 bits) are enough to tell clients apart
	return hex.EncodeToString(sum[:8])
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/wee-saviya/auth"
	"github.com/danielhkuo/wee-saviya/ratelimit"
)

// rateKeySalt keeps raw client addresses out of the limiter store
const rateKeySalt = "wee-saviya-ratelimit"

// ClientKey identifies the caller for rate limiting without exposing its address
func ClientKey(r *http.Request) string {
	return auth.HashIP(GetClientIP(r), rateKeySalt)
}

// RateLimit applies limiter to requests whose path starts with prefix.
// Store errors let the request through.
func RateLimit(limiter *ratelimit.Limiter, prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}

			key := ClientKey(r)
			d, err := limiter.Allow(r.Context(), key)
			if err != nil {
				slog.Warn("rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			reset := int(math.Ceil(time.Until(d.ResetAt).Seconds()))
			if reset < 0 {
				reset = 0
			}
			w.Header().Set("RateLimit-Limit", strconv.Itoa(limiter.Limit()))
			w.Header().Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
			w.Header().Set("RateLimit-Reset", strconv.Itoa(reset))

			if !d.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(reset))
				slog.Warn("rate limit exceeded",
					"path", r.URL.Path,
					"client", key,
					"request_id", RequestIDFrom(r.Context()),
				)
				ErrorResponse(w, http.StatusTooManyRequests, "Too many requests, please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

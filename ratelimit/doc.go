// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ratelimit enforces a fixed request budget per client per window.

Each client key gets a counter that starts at the first request and
expires one window later. Requests beyond the budget are rejected until
the window resets.

	limiter := ratelimit.New(ratelimit.NewMemoryStore(), 100, 15*time.Minute)
	d, err := limiter.Allow(ctx, clientKey)
	if !d.Allowed { ... 429 ... }

Two stores are provided. MemoryStore keeps counters in process.
RedisStore keeps them in Redis so several gateway instances share one
budget per client.
*/
package ratelimit

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"time"
)

// Store counts hits per key inside a fixed window.
type Store interface {
	// Hit increments the counter for key and returns the new count and
	// the time the current window ends.
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
}

type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type Limiter struct {
	store  Store
	max    int
	window time.Duration
}

func New(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: max, window: window}
}

func (l *Limiter) Limit() int { return l.max }

func (l *Limiter) Window() time.Duration { return l.window }

// Allow records one request for key and reports whether it fits the budget.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	count, resetAt, err := l.store.Hit(ctx, key, l.window)
	if err != nil {
		return Decision{Allowed: true, Remaining: l.max}, err
	}

	remaining := l.max - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= int64(l.max),
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

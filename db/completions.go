// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timeLayout is fixed width so completed_at sorts correctly as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Completion struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	UserRole       string          `json:"userRole"`
	ScreenName     string          `json:"screenName"`
	CompletedSteps json.RawMessage `json:"completedSteps"`
	CompletedAt    time.Time       `json:"completedAt"`
}

type CompletionStore struct {
	db     *sql.DB
	dbType string
}

func NewCompletionStore(db *sql.DB, dbType string) *CompletionStore {
	return &CompletionStore{db: db, dbType: dbType}
}

// Record inserts a completion, assigning an ID if it has none.
func (s *CompletionStore) Record(ctx context.Context, c Completion) (string, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	steps := c.CompletedSteps
	if len(steps) == 0 {
		steps = json.RawMessage("null")
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO tour_completion (id, user_id, user_role, screen_name, completed_steps, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), c.ID, c.UserID, c.UserRole, c.ScreenName, string(steps), c.CompletedAt.UTC().Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("failed to insert tour completion: %w", err)
	}
	return c.ID, nil
}

// ListByUser returns a user's completions, oldest first.
func (s *CompletionStore) ListByUser(ctx context.Context, userID string) ([]Completion, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, user_id, user_role, screen_name, completed_steps, completed_at
		FROM tour_completion
		WHERE user_id = ?
		ORDER BY completed_at ASC
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tour completions: %w", err)
	}
	defer rows.Close()

	completions := []Completion{}
	for rows.Next() {
		var c Completion
		var steps, completedAt string
		if err := rows.Scan(&c.ID, &c.UserID, &c.UserRole, &c.ScreenName, &steps, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tour completion: %w", err)
		}
		c.CompletedSteps = json.RawMessage(steps)
		c.CompletedAt, err = time.Parse(timeLayout, completedAt)
		if err != nil {
			return nil, fmt.Errorf("bad completed_at %q: %w", completedAt, err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *CompletionStore) rebind(query string) string {
	if s.dbType != TypePostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

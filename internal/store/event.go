package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kanolab/patternshop/internal/order"
)

// Event types recorded by the web layer.
const (
	EventStepView = "step_view"
	EventReveal   = "reveal_breakdown"
)

// Event is one immutable funnel log row. ID, Seq and CreatedAt are
// assigned by Append.
type Event struct {
	ID           string               `json:"id"`
	SessionToken string               `json:"session_token"`
	Seq          int64                `json:"seq"`
	CategoryID   string               `json:"category_id"`
	Step         string               `json:"step"`
	Type         string               `json:"event_type"`
	Variant      order.Variant        `json:"variant"`
	State        order.SelectionState `json:"state"`
	TotalYen     int                  `json:"total_yen"`
	CreatedAt    time.Time            `json:"created_at"`
}

// Append writes one event, assigning id, sequence, and timestamp, and
// returns the stored row.
func (s *Store) Append(ctx context.Context, ev Event) (Event, error) {
	ev.ID = s.newID()
	ev.Seq = s.clock.Next()
	ev.CreatedAt = s.now()

	stateJSON, err := json.Marshal(ev.State)
	if err != nil {
		return Event{}, fmt.Errorf("append event: marshal state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO funnel_events
		(id, session_token, seq, category_id, step, event_type, variant, state, total_yen, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		ev.ID,
		ev.SessionToken,
		ev.Seq,
		ev.CategoryID,
		ev.Step,
		ev.Type,
		string(ev.Variant),
		string(stateJSON),
		ev.TotalYen,
		ev.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Event{}, fmt.Errorf("append event: %w", err)
	}
	return ev, nil
}

// ReadSession returns every event for a session token in sequence order.
// Returns an empty slice, not nil, for unknown tokens.
func (s *Store) ReadSession(ctx context.Context, token string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_token, seq, category_id, step, event_type, variant, state, total_yen, created_at
		FROM funnel_events
		WHERE session_token = ?
		ORDER BY seq ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	return events, nil
}

// SessionSummary aggregates one session's funnel.
type SessionSummary struct {
	Token     string
	Events    int
	FirstSeen time.Time
	LastSeen  time.Time
}

// Sessions lists observed sessions, most recent activity first.
func (s *Store) Sessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_token, COUNT(*), MIN(created_at), MAX(created_at)
		FROM funnel_events
		GROUP BY session_token
		ORDER BY MAX(seq) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	summaries := []SessionSummary{}
	for rows.Next() {
		var sum SessionSummary
		var first, last string
		if err := rows.Scan(&sum.Token, &sum.Events, &first, &last); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		if sum.FirstSeen, err = time.Parse(time.RFC3339Nano, first); err != nil {
			return nil, fmt.Errorf("list sessions: parse created_at: %w", err)
		}
		if sum.LastSeen, err = time.Parse(time.RFC3339Nano, last); err != nil {
			return nil, fmt.Errorf("list sessions: parse created_at: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return summaries, nil
}

func scanEvent(rows *sql.Rows) (Event, error) {
	var ev Event
	var variant, stateJSON, createdAt string
	if err := rows.Scan(
		&ev.ID,
		&ev.SessionToken,
		&ev.Seq,
		&ev.CategoryID,
		&ev.Step,
		&ev.Type,
		&variant,
		&stateJSON,
		&ev.TotalYen,
		&createdAt,
	); err != nil {
		return Event{}, fmt.Errorf("scan event: %w", err)
	}

	ev.Variant = order.Variant(variant)
	if err := json.Unmarshal([]byte(stateJSON), &ev.State); err != nil {
		return Event{}, fmt.Errorf("scan event: unmarshal state: %w", err)
	}
	var err error
	if ev.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Event{}, fmt.Errorf("scan event: parse created_at: %w", err)
	}
	return ev, nil
}

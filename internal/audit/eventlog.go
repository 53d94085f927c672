package audit

import (
	"context"
	"database/sql"
	"time"
)

// Event types appended by the exam wizard.
const (
	TypeAttemptConfirmed  = "AttemptConfirmed"
	TypeAttemptSubmitted  = "AttemptSubmitted"
	TypeViolationRecorded = "ViolationRecorded"
	TypeUnlockRequested   = "UnlockRequested"
)

type Event struct {
	Offset    int64
	SiteID    string
	Type      string
	Key       string // natural key: session ID
	DataJSON  string
	CreatedAt int64
}

type Recorder interface {
	Append(ctx context.Context, e Event) error
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	site := e.SiteID
	if site == "" {
		site = "local"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		site, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

// Nop discards events; used when no DB-backed log is wired.
type Nop struct{}

func (Nop) Append(context.Context, Event) error { return nil }

package eventlog

import (
	"context"
	"database/sql"
	"sync"
	"time"
)

const TypeResultSubmitted = "AssessmentResultSubmitted"

type Event struct {
	Seq       int64  `json:"seq"`
	SiteID    string `json:"siteId"`
	Type      string `json:"type"`
	Key       string `json:"key"`  // natural key, e.g. result id
	Data      string `json:"data"` // JSON payload
	CreatedAt int64  `json:"createdAt"`
}

type Log interface {
	Append(ctx context.Context, e Event) error
	// List returns events with Seq > after, oldest first.
	List(ctx context.Context, after int64, limit int) ([]Event, error)
}

type SQLLog struct{ db *sql.DB }

func NewSQLLog(db *sql.DB) *SQLLog { return &SQLLog{db: db} }

func (l *SQLLog) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = "local"
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Key, e.Data, time.Now().Unix())
	return err
}

func (l *SQLLog) List(ctx context.Context, after int64, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT seq, site_id, typ, key, data, created_at FROM event_log
		 WHERE seq > $1 ORDER BY seq ASC LIMIT $2`, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Key, &e.Data, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MemoryLog backs the memory and redis deployments.
type MemoryLog struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryLog() *MemoryLog { return &MemoryLog{} }

func (l *MemoryLog) Append(_ context.Context, e Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e.SiteID == "" {
		e.SiteID = "local"
	}
	e.Seq = int64(len(l.events)) + 1
	e.CreatedAt = time.Now().Unix()
	l.events = append(l.events, e)
	return nil
}

func (l *MemoryLog) List(_ context.Context, after int64, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := []Event{}
	for _, e := range l.events {
		if e.Seq <= after {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

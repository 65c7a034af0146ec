package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/automationtools/n8n-mcp/internal/domain/tool"
	"github.com/automationtools/n8n-mcp/internal/infra/eventbus"
	"github.com/automationtools/n8n-mcp/pkg/uuid"
)

// Recorder writes invocation records to the sqlite log. Recording is
// fire-and-forget: a write failure never fails the dispatch that caused it.
type Recorder struct {
	db *sql.DB
}

// NewRecorder creates a Recorder on top of a migrated database.
func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db}
}

// Record inserts one invocation row.
func (r *Recorder) Record(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewV7().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tool_invocation (id, tool, outcome, error_kind, message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.Tool,
		string(rec.Outcome),
		nullable(rec.ErrorKind),
		nullable(rec.Message),
		rec.DurationMS,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("audit: insert invocation: %w", err)
	}
	return nil
}

// Recent returns the most recent records, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tool, outcome, error_kind, message, duration_ms, created_at
		FROM tool_invocation
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: query invocations: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var (
			rec       Record
			errorKind sql.NullString
			message   sql.NullString
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Tool, (*string)(&rec.Outcome), &errorKind, &message, &rec.DurationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("audit: scan invocation: %w", err)
		}
		rec.ErrorKind = errorKind.String
		rec.Message = message.String
		if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			rec.CreatedAt = ts
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Consume drains invocation events from the bus until ctx is cancelled.
// Run it in its own goroutine; wire it to the same bus as the dispatcher.
func (r *Recorder) Consume(ctx context.Context, bus eventbus.EventBus) {
	events := bus.Subscribe(tool.TopicInvocation)
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-events:
			invocation, ok := evt.Payload.(tool.InvocationEvent)
			if !ok {
				continue
			}
			_ = r.Record(ctx, fromInvocation(invocation))
		}
	}
}

func fromInvocation(evt tool.InvocationEvent) Record {
	rec := Record{
		Tool:       evt.Tool,
		Outcome:    OutcomeSuccess,
		DurationMS: evt.Duration.Milliseconds(),
	}
	if !evt.Succeeded {
		rec.Outcome = OutcomeFailure
		rec.ErrorKind = string(evt.ErrorKind)
		rec.Message = evt.Message
	}
	return rec
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

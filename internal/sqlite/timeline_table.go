package sqlite

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

var _ types.TimelineTable = (*timelineTable)(nil)

type timelineTable struct {
	backend *Backend
}

func (tt *timelineTable) Add(ctx context.Context, e types.NewEvent) (id int64, err error) {
	defer tt.backend.track("timeline_events.add", time.Now(), &err)

	db, err := tt.backend.handle()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx,
		"INSERT INTO timeline_events (case_id, event_timestamp, title, description, created_at) VALUES (?, ?, ?, ?, ?)",
		e.CaseID, e.EventTimestamp, e.Title, e.Description, types.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting timeline event: %w", classify(err, types.TimelineEventsTable, nil))
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, fmt.Errorf("reading timeline event id: %w", err)
	}
	tt.backend.logger.Debug("timeline event added", zap.Int64("case_id", e.CaseID), zap.Int64("event_id", id))
	return id, nil
}

// List returns the case's events, latest first.
func (tt *timelineTable) List(ctx context.Context, caseID int64) (events []types.TimelineEvent, err error) {
	defer tt.backend.track("timeline_events.list", time.Now(), &err)

	db, err := tt.backend.handle()
	if err != nil {
		return nil, err
	}
	err = db.SelectContext(ctx, &events, `SELECT id, case_id, event_timestamp, title, description, created_at
FROM timeline_events
WHERE case_id = ?
ORDER BY event_timestamp DESC, id DESC`, caseID)
	if err != nil {
		return nil, fmt.Errorf("listing timeline for case %d: %w", caseID, err)
	}
	return events, nil
}

// ListAll returns events across all cases with their case title, latest
// first. A non-nil projectID keeps events of member cases only.
func (tt *timelineTable) ListAll(ctx context.Context, projectID *int64) (events []types.TimelineEvent, err error) {
	defer tt.backend.track("timeline_events.list_all", time.Now(), &err)

	db, err := tt.backend.handle()
	if err != nil {
		return nil, err
	}

	query := `SELECT te.id, te.case_id, te.event_timestamp, te.title, te.description, te.created_at,
       c.title AS case_title
FROM timeline_events te
JOIN cases c ON c.id = te.case_id`
	var args []any
	if projectID != nil {
		query += "\nJOIN project_cases pc ON pc.case_id = te.case_id AND pc.project_id = ?"
		args = append(args, *projectID)
	}
	query += "\nORDER BY te.event_timestamp DESC, te.id DESC"

	if err := db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("listing timeline events: %w", err)
	}
	return events, nil
}

func (tt *timelineTable) Delete(ctx context.Context, id int64) (err error) {
	defer tt.backend.track("timeline_events.delete", time.Now(), &err)

	db, err := tt.backend.handle()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM timeline_events WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting timeline event %d: %w", id, err)
	}
	return nil
}

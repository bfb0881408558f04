// Package usage persists prediction run records. Task 7.1.
//
// The recorder consumes "prediction.completed" events from the in-memory
// bus and appends one row per batch to the prediction_run table. Records
// are append-only; no updates or deletes are supported.
package usage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/srilakshmipotnuru/mindsdb/internal/domain/model"
	"github.com/srilakshmipotnuru/mindsdb/internal/infra/eventbus"
	"github.com/srilakshmipotnuru/mindsdb/pkg/uuid"
)

// Run is one persisted prediction batch record.
type Run struct {
	ID          string `json:"id"`
	ModelName   string `json:"model_name"`
	AgentKind   string `json:"agent_kind"`
	RowsTotal   int    `json:"rows_total"`
	RowsSkipped int    `json:"rows_skipped"`
	RowsFailed  int    `json:"rows_failed"`
	ElapsedMs   int64  `json:"elapsed_ms"`
	CreatedAt   string `json:"created_at"`
}

// Recorder subscribes to prediction events and writes run records.
type Recorder struct {
	db  *sql.DB
	bus eventbus.EventBus
}

// NewRecorder wires the recorder to a database and a bus.
func NewRecorder(db *sql.DB, bus eventbus.EventBus) *Recorder {
	return &Recorder{db: db, bus: bus}
}

// Start launches the consumption loop. It returns immediately; the loop
// stops when ctx is cancelled. Events that fail to persist are dropped
// (the bus is fire-and-forget, a run record is not worth failing a
// prediction over).
func (r *Recorder) Start(ctx context.Context) {
	events := r.bus.Subscribe(model.TopicPredictionCompleted)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				run, ok := evt.Payload.(model.RunEvent)
				if !ok {
					continue
				}
				_ = r.Record(ctx, run) //nolint:errcheck // drop on failure, see above
			}
		}
	}()
}

// Record appends one run record.
func (r *Recorder) Record(ctx context.Context, evt model.RunEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prediction_run
			(id, model_name, agent_kind, rows_total, rows_skipped, rows_failed, elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		uuid.NewV7().String(),
		evt.ModelName,
		evt.AgentKind,
		evt.RowsTotal,
		evt.RowsSkipped,
		evt.RowsFailed,
		evt.ElapsedMs,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record prediction run for %q: %w", evt.ModelName, err)
	}
	return nil
}

// RecentRuns returns the newest run records for one model, or for all
// models when modelName is empty. limit <= 0 defaults to 50.
func (r *Recorder) RecentRuns(ctx context.Context, modelName string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, model_name, agent_kind, rows_total, rows_skipped, rows_failed, elapsed_ms, created_at
		FROM prediction_run
	`
	args := []any{}
	if modelName != "" {
		query += ` WHERE model_name = ?`
		args = append(args, modelName)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list prediction runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.ModelName, &run.AgentKind,
			&run.RowsTotal, &run.RowsSkipped, &run.RowsFailed,
			&run.ElapsedMs, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan prediction run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

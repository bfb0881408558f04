// Task 7.1: tests for the prediction run recorder.
// Traces: FR-701
package usage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/srilakshmipotnuru/mindsdb/internal/domain/model"
	"github.com/srilakshmipotnuru/mindsdb/internal/infra/eventbus"
	"github.com/srilakshmipotnuru/mindsdb/internal/infra/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "usage_test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func TestRecorder_RecordAndList(t *testing.T) {
	db := newTestDB(t)
	r := NewRecorder(db, eventbus.New())
	ctx := context.Background()

	evt := model.RunEvent{
		ModelName:   "translator",
		AgentKind:   "default",
		RowsTotal:   3,
		RowsSkipped: 1,
		RowsFailed:  0,
		ElapsedMs:   42,
	}
	if err := r.Record(ctx, evt); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	runs, err := r.RecentRuns(ctx, "translator", 10)
	if err != nil {
		t.Fatalf("RecentRuns returned error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	got := runs[0]
	if got.ModelName != "translator" || got.RowsTotal != 3 || got.RowsSkipped != 1 || got.ElapsedMs != 42 {
		t.Errorf("run = %+v", got)
	}
	if got.ID == "" || got.CreatedAt == "" {
		t.Errorf("run missing id or timestamp: %+v", got)
	}
}

func TestRecorder_RecentRunsFiltersByModel(t *testing.T) {
	db := newTestDB(t)
	r := NewRecorder(db, eventbus.New())
	ctx := context.Background()

	for _, name := range []string{"a", "b", "a"} {
		if err := r.Record(ctx, model.RunEvent{ModelName: name, AgentKind: "default"}); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	runs, err := r.RecentRuns(ctx, "a", 0)
	if err != nil {
		t.Fatalf("RecentRuns returned error: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("filtered runs = %d, want 2", len(runs))
	}

	all, err := r.RecentRuns(ctx, "", 0)
	if err != nil {
		t.Fatalf("RecentRuns returned error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all runs = %d, want 3", len(all))
	}
}

func TestRecorder_ConsumesBusEvents(t *testing.T) {
	db := newTestDB(t)
	bus := eventbus.New()
	r := NewRecorder(db, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	bus.Publish(model.TopicPredictionCompleted, model.RunEvent{ModelName: "m", AgentKind: "default", RowsTotal: 1})

	deadline := time.Now().Add(2 * time.Second)
	for {
		runs, err := r.RecentRuns(ctx, "m", 1)
		if err != nil {
			t.Fatalf("RecentRuns returned error: %v", err)
		}
		if len(runs) == 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("bus event was not persisted within the deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

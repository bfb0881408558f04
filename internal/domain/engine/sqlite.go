// Task 3.2: sqlite-backed reference engine.
// SQLiteEngine implements Executor and HandlerResolver over a *sql.DB so
// the module can run self-contained (local mode and tests). Production
// deployments wire the real host engine instead.
package engine

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteEngine executes statements against a sqlite database and exposes
// its schema through the Handler interface. The single database is
// addressable under any resolved source name.
type SQLiteEngine struct {
	db *sql.DB
}

// NewSQLiteEngine wraps an open sqlite database.
func NewSQLiteEngine(db *sql.DB) *SQLiteEngine {
	return &SQLiteEngine{db: db}
}

// ExecuteCommand runs the statement. Inserts (and other mutating kinds) go
// through Exec; everything else is queried and materialized.
func (e *SQLiteEngine) ExecuteCommand(ctx context.Context, stmt Statement) (*Result, error) {
	switch stmt.Kind {
	case KindInsert, KindUpdate, KindDelete, KindCreate, KindDrop:
		res, err := e.db.ExecContext(ctx, stmt.Raw)
		if err != nil {
			return nil, fmt.Errorf("execute %s: %w", stmt.Kind, err)
		}
		affected, _ := res.RowsAffected()
		return &Result{
			Columns: []string{"rows_affected"},
			Rows:    [][]any{{affected}},
		}, nil
	default:
		return e.query(ctx, stmt.Raw)
	}
}

// GetHandler resolves a source name. The reference engine serves every
// name from its single database.
func (e *SQLiteEngine) GetHandler(name string) (Handler, error) {
	if name == "" {
		return nil, ErrHandlerNotFound
	}
	return &sqliteHandler{db: e.db}, nil
}

// query runs a read statement and materializes the full result set.
func (e *SQLiteEngine) query(ctx context.Context, raw string) (*Result, error) {
	rows, err := e.db.QueryContext(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}

	out := &Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		scan := make([]any, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}
		if scanErr := rows.Scan(scan...); scanErr != nil {
			return nil, fmt.Errorf("query scan: %w", scanErr)
		}
		for i, v := range values {
			// sqlite hands text back as []byte; keep results printable.
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out.Rows = append(out.Rows, values)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("query rows: %w", rowsErr)
	}
	return out, nil
}

// sqliteHandler serves table and column metadata from sqlite_master and
// PRAGMA table_info.
type sqliteHandler struct {
	db *sql.DB
}

// GetTables lists user tables in the 3-column source-listing shape
// (name, row count, table type).
func (h *sqliteHandler) GetTables(ctx context.Context) (*Result, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT name, type FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	out := &Result{Columns: []string{"TABLE_NAME", "TABLE_ROWS", "TABLE_TYPE"}}
	for rows.Next() {
		var name, tableType string
		if scanErr := rows.Scan(&name, &tableType); scanErr != nil {
			return nil, fmt.Errorf("scan table listing: %w", scanErr)
		}
		count, countErr := h.countRows(ctx, name)
		if countErr != nil {
			count = 0
		}
		out.Rows = append(out.Rows, []any{name, count, tableType})
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("table listing rows: %w", rowsErr)
	}
	return out, nil
}

// GetColumns describes one table via PRAGMA table_info.
func (h *sqliteHandler) GetColumns(ctx context.Context, table string) (*Result, error) {
	rows, err := h.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, table))
	if err != nil {
		return nil, fmt.Errorf("table info %q: %w", table, err)
	}
	defer rows.Close()

	out := &Result{Columns: []string{"Field", "Type"}}
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if scanErr := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); scanErr != nil {
			return nil, fmt.Errorf("scan table info: %w", scanErr)
		}
		out.Rows = append(out.Rows, []any{name, typ})
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("table info rows: %w", rowsErr)
	}
	return out, nil
}

// countRows counts rows in a table. Identifier is quoted; it comes from
// sqlite_master, not from user input.
func (h *sqliteHandler) countRows(ctx context.Context, table string) (int64, error) {
	var count int64
	row := h.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %q`, table))
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

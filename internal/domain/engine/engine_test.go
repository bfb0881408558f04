// Traces: FR-310
package engine

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

// setupEngineTestDB creates an in-memory SQLite DB with a small fixture.
func setupEngineTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	stmts := []string{
		`CREATE TABLE tickets (id INTEGER PRIMARY KEY, subject TEXT, status TEXT)`,
		`INSERT INTO tickets (id, subject, status) VALUES (1, 'login broken', 'open')`,
		`INSERT INTO tickets (id, subject, status) VALUES (2, 'slow reports', 'closed')`,
		`CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)`,
	}
	for _, s := range stmts {
		if _, execErr := db.Exec(s); execErr != nil {
			t.Fatalf("fixture %q: %v", s, execErr)
		}
	}
	return db
}

func TestParseStatement_StripsBackticksAndClassifies(t *testing.T) {
	cases := []struct {
		raw  string
		kind Kind
	}{
		{"SELECT * FROM tickets", KindSelect},
		{"  `select id from tickets;`  ", KindSelect},
		{"WITH t AS (SELECT 1) SELECT * FROM t", KindSelect},
		{"show tables", KindShow},
		{"DESCRIBE tickets", KindDescribe},
		{"INSERT INTO notes (body) VALUES ('x')", KindInsert},
		{"update tickets set status = 'open'", KindUpdate},
	}

	for _, tc := range cases {
		stmt, err := ParseStatement(tc.raw)
		if err != nil {
			t.Fatalf("ParseStatement(%q) returned error: %v", tc.raw, err)
		}
		if stmt.Kind != tc.kind {
			t.Errorf("ParseStatement(%q).Kind = %q, want %q", tc.raw, stmt.Kind, tc.kind)
		}
	}
}

func TestParseStatement_RejectsEmptyAndUnknown(t *testing.T) {
	if _, err := ParseStatement("  ``  "); !errors.Is(err, ErrEmptyStatement) {
		t.Errorf("empty statement error = %v, want ErrEmptyStatement", err)
	}
	if _, err := ParseStatement("GRANT ALL ON tickets"); !errors.Is(err, ErrUnknownStatement) {
		t.Errorf("unknown statement error = %v, want ErrUnknownStatement", err)
	}
}

func TestStatement_IsInsert(t *testing.T) {
	ins, err := ParseStatement("INSERT INTO notes (body) VALUES ('x')")
	if err != nil {
		t.Fatalf("ParseStatement returned error: %v", err)
	}
	if !ins.IsInsert() {
		t.Error("insert statement not recognized by IsInsert")
	}

	sel, err := ParseStatement("SELECT 1")
	if err != nil {
		t.Fatalf("ParseStatement returned error: %v", err)
	}
	if sel.IsInsert() {
		t.Error("select statement reported as insert")
	}
}

func TestSQLiteEngine_ExecuteSelect(t *testing.T) {
	db := setupEngineTestDB(t)
	eng := NewSQLiteEngine(db)

	stmt, err := ParseStatement("SELECT id, subject FROM tickets ORDER BY id")
	if err != nil {
		t.Fatalf("ParseStatement returned error: %v", err)
	}
	res, err := eng.ExecuteCommand(context.Background(), stmt)
	if err != nil {
		t.Fatalf("ExecuteCommand returned error: %v", err)
	}

	if len(res.Columns) != 2 || res.Columns[0] != "id" || res.Columns[1] != "subject" {
		t.Errorf("columns = %v, want [id subject]", res.Columns)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(res.Rows))
	}
	if got := res.Rows[0][1]; got != "login broken" {
		t.Errorf("first subject = %v, want %q", got, "login broken")
	}
}

func TestSQLiteEngine_ExecuteInsert(t *testing.T) {
	db := setupEngineTestDB(t)
	eng := NewSQLiteEngine(db)

	stmt, err := ParseStatement("INSERT INTO notes (body) VALUES ('remember this')")
	if err != nil {
		t.Fatalf("ParseStatement returned error: %v", err)
	}
	res, err := eng.ExecuteCommand(context.Background(), stmt)
	if err != nil {
		t.Fatalf("ExecuteCommand returned error: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0][0] != int64(1) {
		t.Errorf("rows_affected = %v, want 1", res.Rows)
	}

	var count int
	if scanErr := db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&count); scanErr != nil {
		t.Fatalf("count notes: %v", scanErr)
	}
	if count != 1 {
		t.Errorf("notes count = %d, want 1", count)
	}
}

func TestSQLiteHandler_GetTables(t *testing.T) {
	db := setupEngineTestDB(t)
	eng := NewSQLiteEngine(db)

	h, err := eng.GetHandler("demo")
	if err != nil {
		t.Fatalf("GetHandler returned error: %v", err)
	}
	res, err := h.GetTables(context.Background())
	if err != nil {
		t.Fatalf("GetTables returned error: %v", err)
	}

	idx := res.ColumnIndex("table_name")
	if idx != 0 {
		t.Fatalf("ColumnIndex(table_name) = %d, want 0 (case-insensitive match)", idx)
	}
	names := res.ColumnStrings(idx)
	if len(names) != 2 || names[0] != "notes" || names[1] != "tickets" {
		t.Errorf("table names = %v, want [notes tickets]", names)
	}
}

func TestSQLiteHandler_GetColumns(t *testing.T) {
	db := setupEngineTestDB(t)
	eng := NewSQLiteEngine(db)

	h, err := eng.GetHandler("demo")
	if err != nil {
		t.Fatalf("GetHandler returned error: %v", err)
	}
	res, err := h.GetColumns(context.Background(), "tickets")
	if err != nil {
		t.Fatalf("GetColumns returned error: %v", err)
	}

	if len(res.Columns) != 2 || res.Columns[0] != "Field" || res.Columns[1] != "Type" {
		t.Errorf("columns = %v, want [Field Type]", res.Columns)
	}
	if len(res.Rows) != 3 {
		t.Fatalf("column rows = %d, want 3", len(res.Rows))
	}
	if res.Rows[0][0] != "id" || res.Rows[1][0] != "subject" {
		t.Errorf("field names = %v, want id then subject", res.Rows)
	}
}

func TestSQLiteEngine_GetHandlerRejectsEmptyName(t *testing.T) {
	db := setupEngineTestDB(t)
	eng := NewSQLiteEngine(db)

	if _, err := eng.GetHandler(""); !errors.Is(err, ErrHandlerNotFound) {
		t.Errorf("GetHandler(\"\") error = %v, want ErrHandlerNotFound", err)
	}
}

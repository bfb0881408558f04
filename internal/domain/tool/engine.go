// Task 4.3: host-engine bridge tools (read, metadata, write).
//
// These tools never return a Go error: every failure is reported in the
// observation text so the agent can read it and adjust its next action.
package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/srilakshmipotnuru/mindsdb/internal/domain/engine"
)

const (
	readFailurePrefix  = "mindsdb tool failed with error:\n"
	writeFailurePrefix = "mindsdb write tool failed with error:\n"
	writeSuccess       = "mindsdb write tool executed successfully"
)

// ─── read tool ───────────────────────────────────────────────────────────────

// ReadTool executes a SQL query against the host engine and returns the
// result as tab-separated rows.
type ReadTool struct {
	exec engine.Executor
}

// NewReadTool creates the engine read tool.
func NewReadTool(exec engine.Executor) *ReadTool {
	return &ReadTool{exec: exec}
}

func (t *ReadTool) Name() string { return "MindsDB" }

func (t *ReadTool) Description() string {
	return "useful to read from databases or tables connected to the mindsdb machine learning package. " +
		"the action must be a valid simple SQL query, always ending with a semicolon. " +
		"For example, you can do `show databases;` to list the available data sources, " +
		"and `show tables;` to list the available tables within each data source."
}

// Invoke parses and executes the query. Failures become observation text.
func (t *ReadTool) Invoke(ctx context.Context, input string) (string, error) {
	stmt, err := engine.ParseStatement(input)
	if err != nil {
		return readFailurePrefix + err.Error(), nil
	}
	res, err := t.exec.ExecuteCommand(ctx, stmt)
	if err != nil {
		return readFailurePrefix + err.Error(), nil
	}
	return formatRows(res), nil
}

// formatRows renders a result as rows joined by newlines, columns by tabs.
func formatRows(res *engine.Result) string {
	lines := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		lines = append(lines, strings.Join(cells, "\t"))
	}
	return strings.Join(lines, "\n")
}

// ─── metadata tool ───────────────────────────────────────────────────────────

// MetadataTool reports schema information for a data source or one of its
// tables. Input is either `source` or `source.table`.
type MetadataTool struct {
	resolver engine.HandlerResolver
}

// NewMetadataTool creates the engine metadata tool.
func NewMetadataTool(resolver engine.HandlerResolver) *MetadataTool {
	return &MetadataTool{resolver: resolver}
}

func (t *MetadataTool) Name() string { return "MDB-Metadata" }

func (t *MetadataTool) Description() string {
	return "useful to get column names from a mindsdb table or metadata from a mindsdb data source. " +
		"the command should be either 1) a data source name, to list all available tables that it exposes, " +
		"or 2) a string with the format `data_source_name.table_name` (for example, `files.my_table`), " +
		"to get the table name, table type, column names, data types per column, and amount of rows of the specified table."
}

// Invoke resolves the source (and optionally the table) and formats its
// metadata. Failures become observation text.
func (t *MetadataTool) Invoke(ctx context.Context, input string) (string, error) {
	parts := strings.Split(strings.ReplaceAll(input, "`", ""), ".")
	if len(parts) < 1 || len(parts) > 2 {
		return readFailurePrefix + "query must be in the format: `data_source` or `data_source.table`", nil
	}

	source := strings.TrimSpace(parts[0])
	handler, err := t.resolver.GetHandler(source)
	if err != nil {
		return readFailurePrefix + err.Error(), nil
	}

	tables, err := handler.GetTables(ctx)
	if err != nil {
		return readFailurePrefix + err.Error(), nil
	}

	if len(parts) == 1 {
		return t.describeSource(source, tables), nil
	}
	return t.describeTable(ctx, handler, tables, strings.TrimSpace(parts[1])), nil
}

// describeSource summarizes a source's table listing.
func (t *MetadataTool) describeSource(source string, tables *engine.Result) string {
	names := tableNames(tables)
	return fmt.Sprintf("The data source `%s` has %d tables: %s", source, len(names), strings.Join(names, ", "))
}

// describeTable formats one table's row count, type and column list.
// The source listing is variable-width: 3 columns carry name, row count and
// type; 2 columns carry name and row count; anything else yields the header
// only. An unresolvable table is reported, never raised.
func (t *MetadataTool) describeTable(ctx context.Context, handler engine.Handler, tables *engine.Result, tableName string) string {
	row, ok := findTableRow(tables, tableName)
	if !ok {
		return fmt.Sprintf("Table %s not found.", tableName)
	}

	var b strings.Builder
	switch len(row) {
	case 3:
		fmt.Fprintf(&b, "Metadata for table %s:\n\tRow count: %v\n\tType: %v\n", tableName, row[1], row[2])
	case 2:
		fmt.Fprintf(&b, "Metadata for table %s:\n\tRow count: %v\n", tableName, row[1])
	default:
		fmt.Fprintf(&b, "Metadata for table %s:\n", tableName)
	}

	columns, err := handler.GetColumns(ctx, tableName)
	if err != nil {
		return fmt.Sprintf("Table %s not found.", tableName)
	}
	fieldIdx := columns.ColumnIndex("Field")
	typeIdx := columns.ColumnIndex("Type")
	if fieldIdx < 0 || typeIdx < 0 {
		return fmt.Sprintf("Table %s not found.", tableName)
	}

	b.WriteString("List of columns and types:\n")
	lines := make([]string, 0, len(columns.Rows))
	for _, col := range columns.Rows {
		lines = append(lines, fmt.Sprintf("\tColumn: `%v`\tType: `%v`", col[fieldIdx], col[typeIdx]))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// tableNames extracts the table-name column from a source listing.
func tableNames(tables *engine.Result) []string {
	idx := tables.ColumnIndex("TABLE_NAME")
	if idx < 0 {
		idx = 0
	}
	return tables.ColumnStrings(idx)
}

// findTableRow locates the listing row for the named table.
func findTableRow(tables *engine.Result, tableName string) ([]any, bool) {
	idx := tables.ColumnIndex("TABLE_NAME")
	if idx < 0 {
		idx = 0
	}
	for _, row := range tables.Rows {
		if idx < len(row) && fmt.Sprint(row[idx]) == tableName {
			return row, true
		}
	}
	return nil, false
}

// ─── write tool ──────────────────────────────────────────────────────────────

// WriteTool executes INSERT statements against the host engine. Statements
// of any other kind are silently ignored.
type WriteTool struct {
	exec engine.Executor
}

// NewWriteTool creates the engine write tool.
func NewWriteTool(exec engine.Executor) *WriteTool {
	return &WriteTool{exec: exec}
}

func (t *WriteTool) Name() string { return "MDB-Write" }

func (t *WriteTool) Description() string {
	return "useful to write into data sources connected to mindsdb. " +
		"command must be a valid SQL query with syntax: " +
		"`INSERT INTO data_source_name.table_name (column_name_1, column_name_2, [...]) " +
		"VALUES (column_1_value_row_1, column_2_value_row_1, [...]), (column_1_value_row_2, column_2_value_row_2, [...]), [...];`. " +
		"note the command always ends with a semicolon. " +
		"order of column names and values for each row must be a perfect match. " +
		"If write fails, try casting value with a function, passing the value without quotes, or truncating string as needed."
}

// Invoke executes the statement only when it parses as an INSERT. Parse and
// execution failures become observation text; non-INSERT statements return
// an empty observation.
func (t *WriteTool) Invoke(ctx context.Context, input string) (string, error) {
	stmt, err := engine.ParseStatement(input)
	if err != nil {
		return writeFailurePrefix + err.Error(), nil
	}
	if !stmt.IsInsert() {
		return "", nil
	}
	if _, err := t.exec.ExecuteCommand(ctx, stmt); err != nil {
		return writeFailurePrefix + err.Error(), nil
	}
	return writeSuccess, nil
}

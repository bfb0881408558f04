// Package engine defines the bridge between LLM-backed models and the host
// query engine. Task 3.1: bridge contracts.
//
// The host engine itself (executor, data source handlers, model scheduler)
// lives outside this module; agent tools consume these interfaces only.
// A sqlite-backed reference implementation is provided for local use and
// tests (sqlite.go).
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrHandlerNotFound is returned when a data source name cannot be
	// resolved to a handler.
	ErrHandlerNotFound = errors.New("data source handler not found")

	// ErrEmptyStatement is returned when a raw query contains no statement.
	ErrEmptyStatement = errors.New("empty statement")

	// ErrUnknownStatement is returned when a raw query does not start with
	// a recognized statement keyword.
	ErrUnknownStatement = errors.New("unable to parse statement")
)

// Result is a tabular query result. Rows[i][j] is the value of Columns[j]
// for row i.
type Result struct {
	Columns []string
	Rows    [][]any
}

// ColumnIndex returns the index of the named column, matched
// case-insensitively (source listings disagree on TABLE_NAME vs
// table_name). Returns -1 when absent.
func (r *Result) ColumnIndex(name string) int {
	for i, col := range r.Columns {
		if strings.EqualFold(col, name) {
			return i
		}
	}
	return -1
}

// ColumnStrings returns the stringified values of one column, in row order.
func (r *Result) ColumnStrings(idx int) []string {
	out := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		if idx < len(row) {
			out = append(out, fmt.Sprint(row[idx]))
		}
	}
	return out
}

// Executor executes a parsed statement against the host engine.
type Executor interface {
	ExecuteCommand(ctx context.Context, stmt Statement) (*Result, error)
}

// Handler exposes metadata for one connected data source.
type Handler interface {
	// GetTables lists the tables the source exposes. The listing schema is
	// source-dependent: the first column is the table name, optional extra
	// columns carry row count and table type.
	GetTables(ctx context.Context) (*Result, error)

	// GetColumns describes one table. The result carries at least the
	// columns "Field" and "Type".
	GetColumns(ctx context.Context, table string) (*Result, error)
}

// HandlerResolver resolves a data source name to its Handler.
type HandlerResolver interface {
	GetHandler(name string) (Handler, error)
}

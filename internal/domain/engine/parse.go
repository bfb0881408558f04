// Task 3.1: Raw statement parsing for agent tools.
// Agents hand back queries wrapped in markdown backticks more often than
// not; parsing always strips those first.
package engine

import (
	"fmt"
	"strings"
)

// Kind classifies a parsed statement.
type Kind string

const (
	KindSelect   Kind = "select"
	KindShow     Kind = "show"
	KindDescribe Kind = "describe"
	KindInsert   Kind = "insert"
	KindUpdate   Kind = "update"
	KindDelete   Kind = "delete"
	KindCreate   Kind = "create"
	KindDrop     Kind = "drop"
)

// Statement is a raw query with its classified kind. No AST is kept: the
// host engine owns the dialect, this module only needs enough structure to
// gate the write tool on insert statements.
type Statement struct {
	Kind Kind
	Raw  string
}

// IsInsert reports whether the statement is an insert. The write tool
// executes inserts only.
func (s Statement) IsInsert() bool { return s.Kind == KindInsert }

// leadingKeywords maps the first statement token to its kind.
var leadingKeywords = map[string]Kind{
	"select":   KindSelect,
	"with":     KindSelect,
	"show":     KindShow,
	"describe": KindDescribe,
	"explain":  KindDescribe,
	"insert":   KindInsert,
	"replace":  KindInsert,
	"update":   KindUpdate,
	"delete":   KindDelete,
	"create":   KindCreate,
	"drop":     KindDrop,
}

// ParseStatement strips surrounding backticks and whitespace from a raw
// query and classifies it by its leading keyword.
func ParseStatement(raw string) (Statement, error) {
	cleaned := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "`"))
	cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, ";"))
	if cleaned == "" {
		return Statement{}, ErrEmptyStatement
	}

	first := strings.ToLower(firstToken(cleaned))
	kind, ok := leadingKeywords[first]
	if !ok {
		return Statement{}, fmt.Errorf("%w: %q", ErrUnknownStatement, first)
	}

	return Statement{Kind: kind, Raw: cleaned}, nil
}

// firstToken returns the first whitespace-delimited token of s.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

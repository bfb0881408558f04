// Package template implements prompt templating for LLM-backed models.
// Task 2.1: Template compiler — double-brace placeholder extraction and
// compilation into a single-brace formattable template.
//
// User-facing templates use `{{column}}` for placeholders and
// `{{{{text}}}}` for literal braces. Compilation halves every brace pair,
// so the compiled form follows single-brace format semantics:
// `{column}` is a substitution field, `{{`/`}}` are literal braces, and a
// lone `{` or `}` is a compile-side contract violation surfaced at format
// time (fatal for the whole batch, never per-row).
package template

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnmatchedBrace is returned when the compiled template contains a
	// single `{` or `}` that is neither a field nor an escaped brace.
	ErrUnmatchedBrace = errors.New("unmatched brace in template")

	// ErrMissingField is returned when formatting references a field that
	// was not supplied a value.
	ErrMissingField = errors.New("missing field value")
)

// Template is a compiled prompt template.
type Template struct {
	raw      string
	compiled string
	// placeholders keeps every occurrence in source order (repeats included);
	// formatting receives a value for every occurrence.
	placeholders []string
	// columns is the distinct placeholder set, in first-seen order.
	// Row emptiness checking uses this list.
	columns []string
}

// Compile parses a double-brace template.
// Placeholder names are captured verbatim — surrounding whitespace inside
// the braces is part of the name.
func Compile(raw string) (*Template, error) {
	t := &Template{
		raw:      raw,
		compiled: strings.ReplaceAll(strings.ReplaceAll(raw, "{{", "{"), "}}", "}"),
	}

	seen := map[string]bool{}
	for i := 0; i < len(raw); {
		// `{{{{...}}}}` is the escape form for a literal `{...}` — skip it.
		if strings.HasPrefix(raw[i:], "{{{{") {
			end := strings.Index(raw[i+4:], "}}}}")
			if end < 0 {
				i += 4
				continue
			}
			i += 4 + end + 4
			continue
		}
		if strings.HasPrefix(raw[i:], "{{") {
			end := strings.Index(raw[i+2:], "}}")
			if end < 0 {
				break
			}
			name := raw[i+2 : i+2+end]
			t.placeholders = append(t.placeholders, name)
			if !seen[name] {
				seen[name] = true
				t.columns = append(t.columns, name)
			}
			i += 2 + end + 2
			continue
		}
		i++
	}

	return t, nil
}

// Raw returns the template as supplied by the user.
func (t *Template) Raw() string { return t.raw }

// Compiled returns the single-brace formattable template.
func (t *Template) Compiled() string { return t.compiled }

// Placeholders returns every placeholder occurrence in source order.
func (t *Template) Placeholders() []string { return t.placeholders }

// Columns returns the distinct placeholder names in first-seen order.
func (t *Template) Columns() []string { return t.columns }

// Format renders the compiled template with the given field values.
// Follows single-brace format semantics: `{name}` substitutes, `{{` and
// `}}` emit literal braces, anything else brace-shaped is an error.
// A field without a value is an error — the prompt builder supplies an
// empty string for missing row values, so this only fires on templates
// whose braces do not line up with the extracted placeholder set.
func (t *Template) Format(values map[string]string) (string, error) {
	var b strings.Builder
	s := t.compiled

	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], "{{"):
			b.WriteByte('{')
			i += 2
		case strings.HasPrefix(s[i:], "}}"):
			b.WriteByte('}')
			i += 2
		case s[i] == '{':
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: %q", ErrUnmatchedBrace, t.raw)
			}
			name := s[i+1 : i+end]
			if strings.ContainsAny(name, "{}") {
				return "", fmt.Errorf("%w: %q", ErrUnmatchedBrace, t.raw)
			}
			v, ok := values[name]
			if !ok {
				return "", fmt.Errorf("%w: %q", ErrMissingField, name)
			}
			b.WriteString(v)
			i += end + 1
		case s[i] == '}':
			return "", fmt.Errorf("%w: %q", ErrUnmatchedBrace, t.raw)
		default:
			b.WriteByte(s[i])
			i++
		}
	}

	return b.String(), nil
}

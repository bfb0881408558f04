// Task 2.2: Row prompt builder — applies a compiled template to a batch of
// rows and tracks which rows cannot produce a prompt at all.
package template

import "fmt"

// Row is one record of the input batch. A column is missing when the key
// is absent or the value is nil. Rows are read-only during prompt building.
type Row map[string]any

// BuildPrompts formats one prompt per usable row, in row order.
//
// A row is excluded if and only if every placeholder-referenced column is
// missing; excluded row indices are returned in ascending order so the
// caller can realign completions after execution. For included rows a
// missing individual value formats as the empty string, never as an
// omitted field.
//
// A formatting failure is a template defect, not a row defect: it aborts
// the whole batch.
func BuildPrompts(t *Template, rows []Row) (prompts []string, excluded []int, err error) {
	for i, row := range rows {
		if rowEmpty(t, row) {
			excluded = append(excluded, i)
			continue
		}

		values := make(map[string]string, len(t.columns))
		for _, col := range t.columns {
			values[col] = stringify(row[col])
		}

		prompt, formatErr := t.Format(values)
		if formatErr != nil {
			return nil, nil, fmt.Errorf("build prompt for row %d: %w", i, formatErr)
		}
		prompts = append(prompts, prompt)
	}

	return prompts, excluded, nil
}

// rowEmpty reports whether every referenced column is missing from row.
// A template without placeholders never marks a row empty — every row
// then yields the same static prompt.
func rowEmpty(t *Template, row Row) bool {
	if len(t.columns) == 0 {
		return false
	}
	for _, col := range t.columns {
		if v, ok := row[col]; ok && v != nil {
			return false
		}
	}
	return true
}

// stringify converts a row value to its prompt representation.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

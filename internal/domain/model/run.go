// Task 6.4: sequential batch execution and completion realignment.
package model

import (
	"context"
	"fmt"
)

// failureTruncateLen bounds how much of a per-row error lands in the
// completion text.
const failureTruncateLen = 50

// Completion is one row's output. Valid is false for rows that were
// excluded from the batch (the null completion).
type Completion struct {
	Text  string
	Valid bool
}

// Runner executes one prompt. *agent.Agent satisfies it; tests substitute
// a scripted double.
type Runner interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// BatchResult is the outcome of one sequential run.
type BatchResult struct {
	// Completions is realigned to the original row order: null entries sit
	// at every excluded index.
	Completions []Completion
	// Failed counts rows whose agent run errored.
	Failed int
}

// RunBatch runs prompts sequentially through one agent so memory
// accumulates across the batch. A per-row failure becomes that row's
// completion text; it never aborts the batch. Afterwards null completions
// are inserted at each excluded index in ascending order, restoring the
// input length and order.
func RunBatch(ctx context.Context, r Runner, prompts []string, excluded []int) BatchResult {
	out := make([]Completion, 0, len(prompts)+len(excluded))
	failed := 0

	for _, prompt := range prompts {
		text, err := r.Run(ctx, prompt)
		if err != nil {
			failed++
			text = failureText(err)
		}
		out = append(out, Completion{Text: text, Valid: true})
	}

	for _, idx := range excluded {
		out = append(out, Completion{})
		copy(out[idx+1:], out[idx:])
		out[idx] = Completion{}
	}

	return BatchResult{Completions: out, Failed: failed}
}

// failureText renders a per-row agent failure as completion text,
// truncated to its first 50 characters.
func failureText(err error) string {
	msg := err.Error()
	if len(msg) > failureTruncateLen {
		msg = msg[:failureTruncateLen]
	}
	return fmt.Sprintf("agent failed with error:\n%s...", msg)
}

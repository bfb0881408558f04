// Task 4.2: generic no-configuration tools (repl, wikipedia).
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/cel-go/cel"
)

// ─── repl tool ───────────────────────────────────────────────────────────────

// ReplTool evaluates a CEL expression and returns the result. It gives the
// agent a calculator and expression evaluator without arbitrary code
// execution.
type ReplTool struct {
	env *cel.Env
}

// NewReplTool creates the expression evaluator tool.
func NewReplTool() (*ReplTool, error) {
	env, err := cel.NewEnv()
	if err != nil {
		return nil, fmt.Errorf("repl tool: create env: %w", err)
	}
	return &ReplTool{env: env}, nil
}

func (t *ReplTool) Name() string { return "repl" }

func (t *ReplTool) Description() string {
	return "useful to evaluate a single expression: arithmetic, string manipulation, comparisons and list operations. " +
		"the action input must be one valid expression, for example `(3 + 4) * 2` or `size(\"hello\")`."
}

// Invoke compiles and evaluates the expression. Compile and eval failures
// become observation text so the agent can correct its expression.
func (t *ReplTool) Invoke(_ context.Context, input string) (string, error) {
	ast, issues := t.env.Compile(input)
	if issues != nil && issues.Err() != nil {
		return "expression error: " + issues.Err().Error(), nil
	}
	prg, err := t.env.Program(ast)
	if err != nil {
		return "expression error: " + err.Error(), nil
	}
	out, _, err := prg.Eval(map[string]any{})
	if err != nil {
		return "expression error: " + err.Error(), nil
	}
	return fmt.Sprint(out.Value()), nil
}

// ─── wikipedia tool ──────────────────────────────────────────────────────────

const defaultWikipediaBaseURL = "https://en.wikipedia.org/api/rest_v1"

// WikipediaTool looks up a topic summary via the Wikipedia REST API.
type WikipediaTool struct {
	baseURL    string
	httpClient *http.Client
}

// NewWikipediaTool creates the lookup tool against the public API.
func NewWikipediaTool() *WikipediaTool {
	return NewWikipediaToolWithBaseURL(defaultWikipediaBaseURL)
}

// NewWikipediaToolWithBaseURL creates the lookup tool against a custom
// endpoint (tests point this at a local server).
func NewWikipediaToolWithBaseURL(baseURL string) *WikipediaTool {
	return &WikipediaTool{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (t *WikipediaTool) Name() string { return "wikipedia" }

func (t *WikipediaTool) Description() string {
	return "useful to look up general knowledge about a topic, person or place. " +
		"the action input must be the topic name, for example `Alan Turing`."
}

type wikipediaSummary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

// Invoke fetches the page summary for the topic. Lookup failures become
// observation text.
func (t *WikipediaTool) Invoke(ctx context.Context, input string) (string, error) {
	endpoint := t.baseURL + "/page/summary/" + url.PathEscape(input)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "wikipedia lookup failed: " + err.Error(), nil
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "wikipedia lookup failed: " + err.Error(), nil
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Sprintf("No Wikipedia page found for %q.", input), nil
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("wikipedia lookup failed: status %d", resp.StatusCode), nil
	}

	var summary wikipediaSummary
	if decodeErr := json.NewDecoder(resp.Body).Decode(&summary); decodeErr != nil {
		return "wikipedia lookup failed: " + decodeErr.Error(), nil
	}
	if summary.Extract == "" {
		return fmt.Sprintf("No Wikipedia page found for %q.", input), nil
	}
	return summary.Extract, nil
}

// Task 4.4: web search tool over the Serper client.
package tool

import (
	"context"

	"github.com/srilakshmipotnuru/mindsdb/internal/infra/search"
)

// SearchTool runs a web search through a search.Client.
type SearchTool struct {
	client search.Client
}

// NewSearchTool creates the web search tool.
func NewSearchTool(client search.Client) *SearchTool {
	return &SearchTool{client: client}
}

func (t *SearchTool) Name() string { return "Intermediate Answer (serper.dev)" }

func (t *SearchTool) Description() string {
	return "useful for when you need to search the internet (note: in general, use this as a last resort)"
}

// Invoke runs the search. Failures become observation text so a transient
// search outage never aborts the prediction.
func (t *SearchTool) Invoke(ctx context.Context, input string) (string, error) {
	out, err := t.client.Search(ctx, input)
	if err != nil {
		return "search failed with error:\n" + err.Error(), nil
	}
	return out, nil
}

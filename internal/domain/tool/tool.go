// Package tool assembles the callable tool set available to an agent.
// Task 4.1: foundation contract used by the tool registry.
package tool

import "context"

// Tool is the runtime contract for agent-callable tools. Input and output
// are plain text: the agent loop passes the action input through verbatim
// and feeds the returned text back as the observation.
type Tool interface {
	Name() string
	Description() string
	Invoke(ctx context.Context, input string) (string, error)
}

// Task 4.5: tool registry — builds the ordered tool list for one agent.
package tool

import (
	"errors"
	"fmt"

	"github.com/srilakshmipotnuru/mindsdb/internal/domain/engine"
	"github.com/srilakshmipotnuru/mindsdb/internal/infra/search"
)

var (
	// ErrUnknownTool is returned when a requested generic tool name has no
	// constructor.
	ErrUnknownTool = errors.New("unknown tool")
)

// Generic tool names accepted in a model's tool list.
const (
	GenericRepl      = "repl"
	GenericWikipedia = "wikipedia"
)

// DefaultToolNames is the generic tool set used when a model specifies none.
var DefaultToolNames = []string{GenericRepl, GenericWikipedia}

// Config selects and wires the tools for one agent instance.
type Config struct {
	// ToolNames lists the generic tools to load. Nil means DefaultToolNames;
	// an explicit empty slice means no generic tools.
	ToolNames []string

	// SerperAPIKey enables the web search tool when non-empty.
	SerperAPIKey  string
	SerperBaseURL string

	// Executor and Resolver wire the host-engine bridge tools. Both must be
	// set.
	Executor engine.Executor
	Resolver engine.HandlerResolver

	// Writer enables the engine write tool.
	Writer bool
}

// Build assembles the tool list in its fixed order: generic tools first,
// then web search (when a key is available), then the engine read and
// metadata tools, then the write tool (when write privileges are granted).
// Agents rely on this ordering being stable across predictions.
func Build(cfg Config) ([]Tool, error) {
	if cfg.Executor == nil || cfg.Resolver == nil {
		return nil, fmt.Errorf("tool registry: engine executor and resolver are required")
	}

	names := cfg.ToolNames
	if names == nil {
		names = DefaultToolNames
	}

	tools := make([]Tool, 0, len(names)+4)
	for _, name := range names {
		t, err := buildGeneric(name)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}

	if cfg.SerperAPIKey != "" {
		client := search.NewSerperClient(cfg.SerperBaseURL, cfg.SerperAPIKey)
		tools = append(tools, NewSearchTool(client))
	}

	tools = append(tools, NewReadTool(cfg.Executor))
	tools = append(tools, NewMetadataTool(cfg.Resolver))

	if cfg.Writer {
		tools = append(tools, NewWriteTool(cfg.Executor))
	}

	return tools, nil
}

// buildGeneric constructs one generic tool by name.
func buildGeneric(name string) (Tool, error) {
	switch name {
	case GenericRepl:
		return NewReplTool()
	case GenericWikipedia:
		return NewWikipediaTool(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
}

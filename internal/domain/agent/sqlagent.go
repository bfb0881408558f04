// Task 5.4: sql_agent variant — answers directly from connected data.
package agent

import (
	"fmt"

	"github.com/srilakshmipotnuru/mindsdb/internal/domain/tool"
)

// AgentTypeSQL is the reasoning strategy name of the sql_agent variant.
const AgentTypeSQL = "sql-agent"

// NewSQL assembles the SQL toolkit agent: engine read and metadata tools
// only, temperature pinned to 0 for deterministic query generation, no
// conversation memory. It answers each prompt by querying the connected
// data sources.
func NewSQL(opts Options) (*Agent, error) {
	opts = withDefaults(opts)
	opts.Temperature = 0

	if opts.Executor == nil || opts.Resolver == nil {
		return nil, fmt.Errorf("sql agent: engine executor and resolver are required")
	}

	tools := []tool.Tool{
		tool.NewReadTool(opts.Executor),
		tool.NewMetadataTool(opts.Resolver),
	}

	provider, chat, err := buildProvider(opts)
	if err != nil {
		return nil, err
	}

	return New(Config{
		Provider:      provider,
		ChatModel:     chat,
		Tools:         tools,
		AgentType:     AgentTypeSQL,
		MaxIterations: opts.MaxIterations,
		Params: Params{
			ModelName:      opts.ModelName,
			Temperature:    0,
			MaxTokens:      opts.MaxTokens,
			Stops:          opts.Stops,
			RequestTimeout: opts.RequestTimeout,
		},
	}), nil
}

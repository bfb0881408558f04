// Task 5.3: agent factory — assembles one agent per prediction call.
package agent

import (
	"fmt"

	"github.com/srilakshmipotnuru/mindsdb/internal/domain/engine"
	"github.com/srilakshmipotnuru/mindsdb/internal/domain/tool"
	"github.com/srilakshmipotnuru/mindsdb/internal/infra/llm"
)

// Factory defaults.
const (
	DefaultModelName     = "gpt-3.5-turbo"
	DefaultMaxTokens     = 2048
	DefaultMaxIterations = 3
)

// Options are the merged model and predict-time arguments for one
// prediction. The model layer resolves the predict-over-model-over-default
// precedence before handing them here; the factory applies the remaining
// defaults and constraints.
type Options struct {
	ModelName string
	AgentName string

	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
	N                int
	BestOf           int
	LogitBias        map[string]int
	RequestTimeout   int
	Stops            []string

	MaxIterations int
	// ToolNames selects the generic tools. Nil means the default set.
	ToolNames []string
	Writer    bool

	OpenAIAPIKey  string
	OpenAIBaseURL string
	SerperAPIKey  string
	SerperBaseURL string

	Executor engine.Executor
	Resolver engine.HandlerResolver

	// Provider overrides the constructed LLM client when set (tests, local
	// models via the router).
	Provider llm.LLMProvider
}

// Description is the inspection record persisted after agent assembly.
// Credentials are deliberately absent.
type Description struct {
	AllowedTools     []string `json:"allowed_tools"`
	AgentType        string   `json:"agent_type"`
	MaxIterations    int      `json:"max_iterations"`
	MemoryType       string   `json:"memory_type"`
	ModelName        string   `json:"model_name"`
	Temperature      float64  `json:"temperature"`
	MaxTokens        int      `json:"max_tokens"`
	TopP             float64  `json:"top_p"`
	FrequencyPenalty float64  `json:"frequency_penalty"`
	PresencePenalty  float64  `json:"presence_penalty"`
	N                int      `json:"n"`
	BestOf           int      `json:"best_of"`
	RequestTimeout   int      `json:"request_timeout"`
}

// NewDefault assembles the conversational agent: resolved sampling params,
// generic plus engine tools, summarizing memory, and the chat or legacy
// completion client depending on the model family. The returned Description
// is the record the model layer persists for describe().
func NewDefault(opts Options) (*Agent, *Description, error) {
	opts = withDefaults(opts)

	tools, err := tool.Build(tool.Config{
		ToolNames:     opts.ToolNames,
		SerperAPIKey:  opts.SerperAPIKey,
		SerperBaseURL: opts.SerperBaseURL,
		Executor:      opts.Executor,
		Resolver:      opts.Resolver,
		Writer:        opts.Writer,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("agent factory: %w", err)
	}

	provider, chat, err := buildProvider(opts)
	if err != nil {
		return nil, nil, err
	}
	memory := NewSummaryBufferMemory(provider, opts.MaxTokens)

	a := New(Config{
		Provider:      provider,
		ChatModel:     chat,
		Tools:         tools,
		Memory:        memory,
		AgentType:     opts.AgentName,
		MaxIterations: opts.MaxIterations,
		Params: Params{
			ModelName:        opts.ModelName,
			Temperature:      opts.Temperature,
			MaxTokens:        opts.MaxTokens,
			TopP:             opts.TopP,
			FrequencyPenalty: opts.FrequencyPenalty,
			PresencePenalty:  opts.PresencePenalty,
			N:                opts.N,
			BestOf:           opts.BestOf,
			LogitBias:        opts.LogitBias,
			Stops:            opts.Stops,
			RequestTimeout:   opts.RequestTimeout,
		},
	})

	desc := &Description{
		AllowedTools:     a.AllowedTools(),
		AgentType:        a.AgentType(),
		MaxIterations:    a.MaxIterations(),
		MemoryType:       memory.TypeName(),
		ModelName:        opts.ModelName,
		Temperature:      opts.Temperature,
		MaxTokens:        opts.MaxTokens,
		TopP:             opts.TopP,
		FrequencyPenalty: opts.FrequencyPenalty,
		PresencePenalty:  opts.PresencePenalty,
		N:                opts.N,
		BestOf:           opts.BestOf,
		RequestTimeout:   opts.RequestTimeout,
	}
	return a, desc, nil
}

// withDefaults fills unset options and clamps temperature to [0, 1].
func withDefaults(opts Options) Options {
	if opts.ModelName == "" {
		opts.ModelName = DefaultModelName
	}
	if opts.AgentName == "" {
		opts.AgentName = AgentTypeZeroShot
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Temperature < 0 {
		opts.Temperature = 0
	}
	if opts.Temperature > 1 {
		opts.Temperature = 1
	}
	return opts
}

// buildProvider constructs the LLM client, honoring a test override, and
// reports whether the model belongs to the chat family.
func buildProvider(opts Options) (llm.LLMProvider, bool, error) {
	chat := llm.IsChatModel(opts.ModelName)
	if opts.Provider != nil {
		return opts.Provider, chat, nil
	}
	if opts.OpenAIAPIKey == "" {
		return nil, false, fmt.Errorf("agent factory: openai api key is required")
	}
	return llm.NewOpenAIProvider(opts.OpenAIBaseURL, opts.OpenAIAPIKey, opts.ModelName), chat, nil
}

// Package agent runs LLM-backed reasoning loops over a tool set.
// Task 5.2: the zero-shot react loop.
//
// One Agent serves one prediction batch: prompts run strictly sequentially
// against the shared memory, so answer ordering is significant.
package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/srilakshmipotnuru/mindsdb/internal/domain/tool"
	"github.com/srilakshmipotnuru/mindsdb/internal/infra/llm"
)

// AgentTypeZeroShot is the default reasoning strategy.
const AgentTypeZeroShot = "zero-shot-react-description"

// iterationLimitAnswer is returned as the completion when the loop hits
// its iteration cap without a final answer.
const iterationLimitAnswer = "Agent stopped due to iteration limit or time limit."

// observationStop cuts the model off before it hallucinates tool output.
const observationStop = "\nObservation:"

// Params carries the resolved sampling configuration for LLM calls.
type Params struct {
	ModelName        string
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
	N                int
	BestOf           int
	LogitBias        map[string]int
	Stops            []string
	RequestTimeout   int // seconds
}

// Agent is a react-style reasoning loop over a fixed tool set.
type Agent struct {
	provider      llm.LLMProvider
	chatModel     bool
	tools         []tool.Tool
	memory        *SummaryBufferMemory
	agentType     string
	maxIterations int
	params        Params
}

// Config assembles an Agent.
type Config struct {
	Provider      llm.LLMProvider
	ChatModel     bool
	Tools         []tool.Tool
	Memory        *SummaryBufferMemory
	AgentType     string
	MaxIterations int
	Params        Params
}

// New creates an Agent. MaxIterations defaults to 3 when unset.
func New(cfg Config) *Agent {
	maxIterations := cfg.MaxIterations
	if maxIterations <= 0 {
		maxIterations = 3
	}
	agentType := cfg.AgentType
	if agentType == "" {
		agentType = AgentTypeZeroShot
	}
	return &Agent{
		provider:      cfg.Provider,
		chatModel:     cfg.ChatModel,
		tools:         cfg.Tools,
		memory:        cfg.Memory,
		agentType:     agentType,
		maxIterations: maxIterations,
		params:        cfg.Params,
	}
}

// AllowedTools returns the tool names in registry order.
func (a *Agent) AllowedTools() []string {
	names := make([]string, len(a.tools))
	for i, t := range a.tools {
		names[i] = t.Name()
	}
	return names
}

// AgentType returns the reasoning strategy name.
func (a *Agent) AgentType() string { return a.agentType }

// MaxIterations returns the iteration cap.
func (a *Agent) MaxIterations() int { return a.maxIterations }

// MemoryTypeName returns the memory strategy name, or "" without memory.
func (a *Agent) MemoryTypeName() string {
	if a.memory == nil {
		return ""
	}
	return a.memory.TypeName()
}

// Run executes the reasoning loop for one prompt and records the exchange
// in memory. Parsing failures are fed back to the model as observations
// instead of aborting; hitting the iteration cap yields a fixed answer.
func (a *Agent) Run(ctx context.Context, prompt string) (string, error) {
	scratchpad := ""
	for i := 0; i < a.maxIterations; i++ {
		text, err := a.complete(ctx, a.buildPrompt(prompt, scratchpad))
		if err != nil {
			return "", err
		}

		if answer, ok := parseFinalAnswer(text); ok {
			a.remember(ctx, prompt, answer)
			return answer, nil
		}

		action, input, ok := parseAction(text)
		if !ok {
			// handle parsing errors: tell the model what went wrong and retry.
			scratchpad += text + "\nObservation: Invalid format. Either answer with `Final Answer:` or use the `Action:` / `Action Input:` format.\nThought:"
			continue
		}

		observation := a.invokeTool(ctx, action, input)
		scratchpad += text + "\nObservation: " + observation + "\nThought:"
	}

	a.remember(ctx, prompt, iterationLimitAnswer)
	return iterationLimitAnswer, nil
}

// remember records the exchange when memory is attached.
func (a *Agent) remember(ctx context.Context, input, output string) {
	if a.memory != nil {
		a.memory.Add(ctx, input, output)
	}
}

// invokeTool dispatches one action. Unknown tools become an observation so
// the model can pick a valid one on the next step.
func (a *Agent) invokeTool(ctx context.Context, action, input string) string {
	for _, t := range a.tools {
		if t.Name() == action {
			out, err := t.Invoke(ctx, input)
			if err != nil {
				return "tool failed with error:\n" + err.Error()
			}
			return out
		}
	}
	return fmt.Sprintf("%s is not a valid tool, try one of [%s].", action, strings.Join(a.AllowedTools(), ", "))
}

// complete runs one LLM call through the chat or legacy endpoint.
func (a *Agent) complete(ctx context.Context, prompt string) (string, error) {
	stops := append(append([]string{}, a.params.Stops...), observationStop)
	timeout := requestTimeout(a.params.RequestTimeout)

	if a.chatModel {
		resp, err := a.provider.ChatCompletion(ctx, llm.ChatRequest{
			Model:            a.params.ModelName,
			Messages:         []llm.Message{{Role: "user", Content: prompt}},
			Temperature:      a.params.Temperature,
			MaxTokens:        a.params.MaxTokens,
			TopP:             a.params.TopP,
			FrequencyPenalty: a.params.FrequencyPenalty,
			PresencePenalty:  a.params.PresencePenalty,
			N:                a.params.N,
			LogitBias:        a.params.LogitBias,
			Stop:             stops,
			RequestTimeout:   timeout,
		})
		if err != nil {
			return "", err
		}
		return resp.Content, nil
	}

	resp, err := a.provider.Completion(ctx, llm.CompletionRequest{
		Model:            a.params.ModelName,
		Prompt:           prompt,
		Temperature:      a.params.Temperature,
		MaxTokens:        a.params.MaxTokens,
		TopP:             a.params.TopP,
		FrequencyPenalty: a.params.FrequencyPenalty,
		PresencePenalty:  a.params.PresencePenalty,
		N:                a.params.N,
		BestOf:           a.params.BestOf,
		LogitBias:        a.params.LogitBias,
		Stop:             stops,
		RequestTimeout:   timeout,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// requestTimeout converts the configured timeout seconds to a duration.
func requestTimeout(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// buildPrompt renders the react prompt: tool list, format instructions,
// conversation history, question and scratchpad.
func (a *Agent) buildPrompt(question, scratchpad string) string {
	var b strings.Builder
	b.WriteString("Answer the following questions as best you can. You have access to the following tools:\n\n")
	for _, t := range a.tools {
		fmt.Fprintf(&b, "%s: %s\n", t.Name(), t.Description())
	}
	fmt.Fprintf(&b, `
Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [%s]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question

Begin!

`, strings.Join(a.AllowedTools(), ", "))
	if a.memory != nil {
		if history := a.memory.Context(); history != "" {
			b.WriteString("Previous conversation:\n")
			b.WriteString(history)
			b.WriteString("\n\n")
		}
	}
	fmt.Fprintf(&b, "Question: %s\nThought:%s", question, scratchpad)
	return b.String()
}

var (
	actionRe      = regexp.MustCompile(`(?s)Action\s*:\s*(.*?)\nAction\s*Input\s*:\s*(.*)`)
	finalAnswerRe = regexp.MustCompile(`(?s)Final Answer\s*:\s*(.*)`)
)

// parseFinalAnswer extracts the final answer when present.
func parseFinalAnswer(text string) (string, bool) {
	m := finalAnswerRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// parseAction extracts the tool name and action input when present.
func parseAction(text string) (action, input string, ok bool) {
	m := actionRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	action = strings.TrimSpace(m[1])
	input = strings.TrimSpace(m[2])
	// the model sometimes echoes the next Thought after the input
	if idx := strings.Index(input, "\n"); idx >= 0 {
		input = strings.TrimSpace(input[:idx])
	}
	return action, strings.Trim(input, "\""), true
}

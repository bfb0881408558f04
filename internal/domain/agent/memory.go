// Task 5.1: conversation memory shared across one prediction batch.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/srilakshmipotnuru/mindsdb/internal/infra/llm"
)

// approxCharsPerToken is the heuristic used to bound the memory buffer
// without a tokenizer dependency.
const approxCharsPerToken = 4

// exchange is one completed prompt/response pair.
type exchange struct {
	input  string
	output string
}

// SummaryBufferMemory keeps recent exchanges verbatim and folds older ones
// into a running summary once the buffer exceeds its token budget. One
// instance is shared across a prediction batch, so earlier rows' answers
// are visible to later rows.
//
// Not safe for concurrent use; the execution loop is strictly sequential.
type SummaryBufferMemory struct {
	provider      llm.LLMProvider
	maxTokenLimit int
	summary       string
	buffer        []exchange
}

// NewSummaryBufferMemory creates a memory bounded to maxTokenLimit tokens.
// A non-positive limit disables summarization (unbounded buffer).
func NewSummaryBufferMemory(provider llm.LLMProvider, maxTokenLimit int) *SummaryBufferMemory {
	return &SummaryBufferMemory{provider: provider, maxTokenLimit: maxTokenLimit}
}

// TypeName is the memory strategy name persisted in the model description.
func (m *SummaryBufferMemory) TypeName() string { return "SummaryBufferMemory" }

// Context renders the conversation history for inclusion in the next
// prompt: running summary first, then the buffered exchanges in order.
func (m *SummaryBufferMemory) Context() string {
	var b strings.Builder
	if m.summary != "" {
		b.WriteString(m.summary)
		b.WriteString("\n")
	}
	for _, e := range m.buffer {
		fmt.Fprintf(&b, "Human: %s\nAI: %s\n", e.input, e.output)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Add appends a completed exchange and prunes the buffer if it exceeds the
// token budget. Summarization failures keep the overflow verbatim rather
// than losing history.
func (m *SummaryBufferMemory) Add(ctx context.Context, input, output string) {
	m.buffer = append(m.buffer, exchange{input: input, output: output})
	if m.maxTokenLimit <= 0 {
		return
	}

	for m.bufferTokens() > m.maxTokenLimit && len(m.buffer) > 1 {
		oldest := m.buffer[0]
		summary, err := m.summarize(ctx, oldest)
		if err != nil {
			return
		}
		m.summary = summary
		m.buffer = m.buffer[1:]
	}
}

// bufferTokens estimates the token count of the buffered exchanges.
func (m *SummaryBufferMemory) bufferTokens() int {
	chars := 0
	for _, e := range m.buffer {
		chars += len(e.input) + len(e.output)
	}
	return chars / approxCharsPerToken
}

// summarize folds one exchange into the running summary via the LLM.
func (m *SummaryBufferMemory) summarize(ctx context.Context, e exchange) (string, error) {
	prompt := fmt.Sprintf(
		"Progressively summarize the conversation. Keep it concise.\n\nCurrent summary:\n%s\n\nNew lines:\nHuman: %s\nAI: %s\n\nNew summary:",
		m.summary, e.input, e.output,
	)
	resp, err := m.provider.ChatCompletion(ctx, llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

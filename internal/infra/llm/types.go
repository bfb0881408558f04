// Package llm defines the model-agnostic LLM provider abstraction (Task 1.6).
// All types here are shared between the provider interface and adapters.
package llm

import "time"

// Message represents a single turn in a conversation (role + content).
type Message struct {
	Role    string // "system" | "user" | "assistant"
	Content string
}

// ChatRequest is the input for a non-streaming chat completion.
// Zero-valued tuning fields are omitted from the wire request so the
// provider applies its own defaults.
type ChatRequest struct {
	// Model overrides the provider default when non-empty.
	Model            string
	Messages         []Message
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
	N                int
	BestOf           int
	LogitBias        map[string]int
	Stop             []string
	// RequestTimeout overrides the client default when > 0.
	RequestTimeout time.Duration
}

// ChatResponse is the output from a non-streaming chat completion.
type ChatResponse struct {
	Content    string // The assistant message text.
	StopReason string // "stop" | "length" | "error"
	Tokens     int    // Total tokens consumed (prompt + completion).
}

// CompletionRequest is the input for a legacy text completion. Models
// outside the chat family are driven through this shape.
type CompletionRequest struct {
	Model            string
	Prompt           string
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
	N                int
	BestOf           int
	LogitBias        map[string]int
	Stop             []string
	RequestTimeout   time.Duration
}

// CompletionResponse is the output from a legacy text completion.
type CompletionResponse struct {
	Text       string
	StopReason string
	Tokens     int
}

// ModelMeta describes the model / provider identity.
type ModelMeta struct {
	ID        string // e.g. "gpt-3.5-turbo", "llama3.2:3b"
	Provider  string // e.g. "openai", "ollama"
	Version   string // e.g. "v1"
	MaxTokens int    // Maximum context window size.
}

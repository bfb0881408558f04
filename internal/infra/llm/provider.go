// Package llm — Task 1.6: LLMProvider interface.
// Adapters (OpenAI, Ollama, etc.) implement this interface so the application
// is never coupled to a specific LLM vendor.
package llm

import "context"

// LLMProvider is the model-agnostic interface for LLM operations.
// ChatCompletion drives chat-family models; Completion drives legacy
// text-completion models. Streaming is excluded: predictions are batch
// operations and the agent loop consumes whole responses.
type LLMProvider interface {
	// ChatCompletion performs a non-streaming chat completion.
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// Completion performs a non-streaming legacy text completion.
	Completion(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// ModelInfo returns static metadata about the provider/model.
	ModelInfo() ModelMeta

	// HealthCheck returns nil if the provider is reachable and operational.
	HealthCheck(ctx context.Context) error
}

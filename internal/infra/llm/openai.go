// Package llm — Task 1.6: OpenAI HTTP adapter.
// OpenAIProvider calls an OpenAI-compatible REST API using stdlib net/http.
// Endpoints used:
//   - POST /chat/completions — non-streaming chat completion
//   - POST /completions      — legacy text completion (non-chat models)
//   - GET  /models           — health check
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	mimeJSON            = "application/json"
	headerContentType   = "Content-Type"
	headerAuthorization = "Authorization"

	defaultOpenAITimeout = 60 * time.Second
)

// OpenAIProvider implements LLMProvider against an OpenAI-compatible endpoint.
type OpenAIProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIProvider creates an OpenAIProvider with a 60s default timeout.
// baseURL includes the version prefix, e.g. "https://api.openai.com/v1".
func NewOpenAIProvider(baseURL, apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: defaultOpenAITimeout,
		},
	}
}

// ─── internal OpenAI JSON types ──────────────────────────────────────────────

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model            string              `json:"model"`
	Messages         []openAIChatMessage `json:"messages"`
	Temperature      *float64            `json:"temperature,omitempty"`
	MaxTokens        int                 `json:"max_tokens,omitempty"`
	TopP             float64             `json:"top_p,omitempty"`
	FrequencyPenalty float64             `json:"frequency_penalty,omitempty"`
	PresencePenalty  float64             `json:"presence_penalty,omitempty"`
	N                int                 `json:"n,omitempty"`
	LogitBias        map[string]int      `json:"logit_bias,omitempty"`
	Stop             []string            `json:"stop,omitempty"`
}

type openAICompletionRequest struct {
	Model            string         `json:"model"`
	Prompt           string         `json:"prompt"`
	Temperature      *float64       `json:"temperature,omitempty"`
	MaxTokens        int            `json:"max_tokens,omitempty"`
	TopP             float64        `json:"top_p,omitempty"`
	FrequencyPenalty float64        `json:"frequency_penalty,omitempty"`
	PresencePenalty  float64        `json:"presence_penalty,omitempty"`
	N                int            `json:"n,omitempty"`
	BestOf           int            `json:"best_of,omitempty"`
	LogitBias        map[string]int `json:"logit_bias,omitempty"`
	Stop             []string       `json:"stop,omitempty"`
}

type openAIChoice struct {
	Message      openAIChatMessage `json:"message"`
	Text         string            `json:"text"`
	FinishReason string            `json:"finish_reason"`
}

type openAIUsage struct {
	TotalTokens int `json:"total_tokens"`
}

type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
	Usage   openAIUsage    `json:"usage"`
	Error   *openAIError   `json:"error"`
}

type openAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ─── LLMProvider implementation ─────────────────────────────────────────────

// ChatCompletion performs a non-streaming chat via POST /chat/completions.
func (p *OpenAIProvider) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	msgs := make([]openAIChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = openAIChatMessage(m)
	}

	body, err := json.Marshal(openAIChatRequest{
		Model:            model,
		Messages:         msgs,
		Temperature:      &req.Temperature,
		MaxTokens:        req.MaxTokens,
		TopP:             req.TopP,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
		N:                req.N,
		LogitBias:        req.LogitBias,
		Stop:             req.Stop,
	})
	if err != nil {
		return nil, err
	}

	resp, err := p.doPost(ctx, "/chat/completions", body, req.RequestTimeout)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai chat: empty choices")
	}
	return &ChatResponse{
		Content:    resp.Choices[0].Message.Content,
		StopReason: resp.Choices[0].FinishReason,
		Tokens:     resp.Usage.TotalTokens,
	}, nil
}

// Completion performs a legacy text completion via POST /completions.
func (p *OpenAIProvider) Completion(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	body, err := json.Marshal(openAICompletionRequest{
		Model:            model,
		Prompt:           req.Prompt,
		Temperature:      &req.Temperature,
		MaxTokens:        req.MaxTokens,
		TopP:             req.TopP,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
		N:                req.N,
		BestOf:           req.BestOf,
		LogitBias:        req.LogitBias,
		Stop:             req.Stop,
	})
	if err != nil {
		return nil, err
	}

	resp, err := p.doPost(ctx, "/completions", body, req.RequestTimeout)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai completion: empty choices")
	}
	return &CompletionResponse{
		Text:       resp.Choices[0].Text,
		StopReason: resp.Choices[0].FinishReason,
		Tokens:     resp.Usage.TotalTokens,
	}, nil
}

// ModelInfo returns static metadata for this provider/model.
func (p *OpenAIProvider) ModelInfo() ModelMeta {
	return ModelMeta{
		ID:        p.model,
		Provider:  "openai",
		Version:   "v1",
		MaxTokens: 4096,
	}
}

// HealthCheck calls GET /models — returns nil if the endpoint is reachable
// and the API key is accepted.
func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	url := p.baseURL + "/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("openai healthcheck: build request: %w", err)
	}
	req.Header.Set(headerAuthorization, "Bearer "+p.apiKey)
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openai healthcheck: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openai healthcheck: status %d", resp.StatusCode)
	}
	return nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// doPost sends an authenticated POST and decodes the common response shape.
// A per-request timeout overrides the client default when set.
func (p *OpenAIProvider) doPost(ctx context.Context, path string, body []byte, timeout time.Duration) (*openAIResponse, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	url := p.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai post %s: build request: %w", path, err)
	}
	req.Header.Set(headerContentType, mimeJSON)
	req.Header.Set(headerAuthorization, "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai post %s: %w", path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai post %s: read body: %w", path, err)
	}

	var parsed openAIResponse
	if decodeErr := json.Unmarshal(data, &parsed); decodeErr != nil {
		return nil, fmt.Errorf("openai post %s: decode (status %d): %w", path, resp.StatusCode, decodeErr)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("openai post %s: %s (%s)", path, parsed.Error.Message, parsed.Error.Type)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai post %s: status %d", path, resp.StatusCode)
	}
	return &parsed, nil
}

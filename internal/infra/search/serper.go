// Package search — Task 1.7: Serper.dev web search client.
// SerperClient calls the Serper Google-search REST API using stdlib net/http,
// in the same adapter shape as the llm package providers.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client runs a web search and returns a plain-text digest of the results.
type Client interface {
	Search(ctx context.Context, query string) (string, error)
}

// SerperClient implements Client against the Serper.dev API.
type SerperClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewSerperClient creates a SerperClient with a 15s default timeout.
// baseURL is typically "https://google.serper.dev".
func NewSerperClient(baseURL, apiKey string) *SerperClient {
	return &SerperClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ─── internal Serper JSON types ──────────────────────────────────────────────

type serperRequest struct {
	Query string `json:"q"`
}

type serperOrganic struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type serperAnswerBox struct {
	Answer  string `json:"answer"`
	Snippet string `json:"snippet"`
}

type serperResponse struct {
	AnswerBox *serperAnswerBox `json:"answerBox"`
	Organic   []serperOrganic  `json:"organic"`
}

// maxOrganicResults caps the digest so it fits in an agent observation.
const maxOrganicResults = 5

// Search posts the query and digests the answer box plus the top organic
// results into one text block.
func (c *SerperClient) Search(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(serperRequest{Query: query})
	if err != nil {
		return "", err
	}

	url := c.baseURL + "/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("serper search: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("serper search: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("serper search: status %d", resp.StatusCode)
	}

	var parsed serperResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&parsed); decodeErr != nil {
		return "", fmt.Errorf("serper search: decode response: %w", decodeErr)
	}
	return digest(parsed), nil
}

// digest flattens a search response into plain text, answer box first.
func digest(resp serperResponse) string {
	var b strings.Builder
	if resp.AnswerBox != nil {
		if resp.AnswerBox.Answer != "" {
			b.WriteString(resp.AnswerBox.Answer)
			b.WriteString("\n")
		} else if resp.AnswerBox.Snippet != "" {
			b.WriteString(resp.AnswerBox.Snippet)
			b.WriteString("\n")
		}
	}
	for i, r := range resp.Organic {
		if i >= maxOrganicResults {
			break
		}
		fmt.Fprintf(&b, "%s: %s (%s)\n", r.Title, r.Snippet, r.Link)
	}
	if b.Len() == 0 {
		return "No results found."
	}
	return strings.TrimRight(b.String(), "\n")
}

// Package llm — Task 1.6: chat-family model registry.
package llm

// chatModels is the set of model names driven through the chat endpoint.
// Anything outside this set goes through the legacy completions endpoint.
var chatModels = map[string]struct{}{
	"gpt-3.5-turbo":          {},
	"gpt-3.5-turbo-16k":      {},
	"gpt-3.5-turbo-0613":     {},
	"gpt-3.5-turbo-16k-0613": {},
	"gpt-4":                  {},
	"gpt-4-0613":             {},
	"gpt-4-32k":              {},
	"gpt-4-32k-0613":         {},
	"gpt-4-turbo":            {},
	"gpt-4o":                 {},
	"gpt-4o-mini":            {},
}

// IsChatModel reports whether the named model belongs to the chat family.
func IsChatModel(name string) bool {
	_, ok := chatModels[name]
	return ok
}

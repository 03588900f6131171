// Package llm provides text-completion clients for the supported LLM providers.
package llm

import (
	"context"
)

// CompletionClient is the completion capability consumed by the query pipeline.
// Implementations send a single prompt and return the raw text completion.
// No streaming and no structured-output guarantee.
// Use this interface for dependency injection to enable mocking in tests.
type CompletionClient interface {
	// Complete sends prompt to the model and returns its text response.
	Complete(ctx context.Context, prompt string) (string, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetProvider returns the provider name (gemini, openai, anthropic).
	GetProvider() string
}

// Ensure clients implement CompletionClient at compile time.
var (
	_ CompletionClient = (*OpenAIClient)(nil)
	_ CompletionClient = (*AnthropicClient)(nil)
	_ CompletionClient = (*GeminiClient)(nil)
	_ CompletionClient = (*TimeoutClient)(nil)
)

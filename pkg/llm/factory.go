package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Default models used when configuration leaves the model empty.
var defaultModels = map[string]string{
	ProviderGemini:    "gemini-1.5-flash",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-sonnet-4-5-20250929",
}

// DefaultModel returns the model used for provider when none is configured.
func DefaultModel(provider string) string {
	return defaultModels[strings.ToLower(provider)]
}

// NewClientFromConfig builds the completion client for cfg.Provider. When
// cfg.Timeout is positive the client is wrapped so every completion carries
// that deadline.
func NewClientFromConfig(ctx context.Context, cfg *Config, logger *zap.Logger) (CompletionClient, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderGemini
	}

	resolved := *cfg
	resolved.Provider = provider
	if resolved.Model == "" {
		resolved.Model = DefaultModel(provider)
	}

	var (
		client CompletionClient
		err    error
	)
	switch provider {
	case ProviderGemini:
		client, err = NewGeminiClient(ctx, &resolved, logger)
	case ProviderOpenAI:
		client, err = NewOpenAIClient(&resolved, logger)
	case ProviderAnthropic:
		client, err = NewAnthropicClient(&resolved, logger)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", provider, err)
	}

	if resolved.Timeout > 0 {
		client = NewTimeoutClient(client, resolved.Timeout, logger)
	}

	logger.Info("LLM client configured",
		zap.String("provider", client.GetProvider()),
		zap.String("model", client.GetModel()),
		zap.Duration("timeout", resolved.Timeout))

	return client, nil
}

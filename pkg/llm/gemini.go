package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiClient calls Google's Gemini API through the genai SDK.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewGeminiClient creates a Gemini client. The API key is required.
func NewGeminiClient(ctx context.Context, cfg *Config, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		logger:      logger.Named("llm.gemini"),
	}, nil
}

// Complete generates content for prompt and returns the concatenated text parts.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("LLM request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()

	result, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(c.temperature),
		},
	)
	if err != nil {
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", wrapProviderError(err, ProviderGemini, c.model)
	}

	text := result.Text()
	if text == "" {
		return "", wrapProviderError(ErrEmptyResponse, ProviderGemini, c.model)
	}

	fields := []zap.Field{zap.Duration("elapsed", time.Since(start))}
	if result.UsageMetadata != nil {
		fields = append(fields,
			zap.Int32("prompt_tokens", result.UsageMetadata.PromptTokenCount),
			zap.Int32("completion_tokens", result.UsageMetadata.CandidatesTokenCount))
	}
	c.logger.Info("LLM request completed", fields...)

	return text, nil
}

// GetModel returns the configured model name.
func (c *GeminiClient) GetModel() string {
	return c.model
}

// GetProvider returns "gemini".
func (c *GeminiClient) GetProvider() string {
	return ProviderGemini
}

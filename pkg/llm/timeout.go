package llm

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// TimeoutClient bounds every completion of the wrapped client by a deadline.
// A timed-out completion fails the request like any other provider error.
type TimeoutClient struct {
	inner   CompletionClient
	timeout time.Duration
	logger  *zap.Logger
}

// NewTimeoutClient wraps inner with a per-call deadline.
func NewTimeoutClient(inner CompletionClient, timeout time.Duration, logger *zap.Logger) *TimeoutClient {
	return &TimeoutClient{
		inner:   inner,
		timeout: timeout,
		logger:  logger.Named("llm.timeout"),
	}
}

// Complete delegates to the wrapped client under a deadline.
func (c *TimeoutClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.inner.Complete(ctx, prompt)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		c.logger.Warn("LLM completion timed out",
			zap.String("operation", GetOperation(ctx)),
			zap.String("provider", c.inner.GetProvider()),
			zap.Duration("timeout", c.timeout))
		llmErr := NewError(ErrorTypeTimeout, "request timeout", err)
		llmErr.Provider = c.inner.GetProvider()
		llmErr.Model = c.inner.GetModel()
		return "", llmErr
	}
	return text, err
}

// GetModel returns the wrapped client's model.
func (c *TimeoutClient) GetModel() string {
	return c.inner.GetModel()
}

// GetProvider returns the wrapped client's provider.
func (c *TimeoutClient) GetProvider() string {
	return c.inner.GetProvider()
}

package llm

import (
	"context"
)

type contextKey string

const operationContextKey contextKey = "llm_operation"

// Operation names attached to completion calls for logging.
const (
	OperationTranslate = "translate"
	OperationSummarize = "summarize"
	OperationInsights  = "insights"
)

// WithOperation tags ctx with the pipeline operation issuing a completion.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationContextKey, operation)
}

// GetOperation returns the operation tag from ctx, or "" if none.
func GetOperation(ctx context.Context) string {
	if op, ok := ctx.Value(operationContextKey).(string); ok {
		return op
	}
	return ""
}

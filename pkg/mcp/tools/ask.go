package tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-insights/pkg/apperrors"
)

// registerAskQuestionTool runs one question through the full pipeline.
// Pipeline failures come back as a normal result with success=false, matching
// the HTTP route.
func registerAskQuestionTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"ask_question",
		mcp.WithDescription(
			"Answer a natural-language question about the e-commerce sales data. "+
				"The question is translated to SQL, run against ad sales, total sales and eligibility tables, "+
				"and summarized. Returns the SQL, the JSON result rows and a plain-English answer.",
		),
		mcp.WithString(
			"question",
			mcp.Required(),
			mcp.Description("The question, e.g. \"What is my total sales?\""),
		),
		mcp.WithReadOnlyHintAnnotation(false), // answered questions are added to history
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, ok := getOptionalString(req, "question")
		if !ok || trimString(question) == "" {
			return NewErrorResult("invalid_request", "question is required"), nil
		}

		response, err := deps.QueryService.Ask(ctx, question)
		if err != nil {
			if errors.Is(err, apperrors.ErrValidation) {
				return NewErrorResult("invalid_request", "question is required"), nil
			}
			deps.Logger.Error("ask_question failed", zap.Error(err))
			return nil, err
		}

		return jsonResult(response)
	})
}

package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ekaya-inc/ekaya-insights/pkg/models"
	"github.com/ekaya-inc/ekaya-insights/pkg/services"
)

type historyResult struct {
	Entries []*models.QueryHistoryEntry `json:"entries"`
	Count   int                         `json:"count"`
}

func registerQueryHistoryTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"query_history",
		mcp.WithDescription("List recently answered questions with their SQL and results, most recent first."),
		mcp.WithNumber(
			"limit",
			mcp.Description(fmt.Sprintf("Max entries to return (default: %d)", services.DefaultHistoryLimit)),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := services.DefaultHistoryLimit
		if v, ok := getOptionalFloat(req, "limit"); ok && v >= 1 {
			limit = int(v)
		}

		entries, err := deps.QueryService.History(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list query history: %w", err)
		}
		if entries == nil {
			entries = []*models.QueryHistoryEntry{}
		}

		return jsonResult(historyResult{Entries: entries, Count: len(entries)})
	})
}

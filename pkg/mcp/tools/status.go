package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerDataStatusTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"data_status",
		mcp.WithDescription("Report how many records each sales table holds."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		counts, err := deps.QueryService.Status(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count records: %w", err)
		}
		return jsonResult(counts)
	})
}

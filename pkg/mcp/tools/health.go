package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type healthResult struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	LLMProvider string `json:"llm_provider"`
}

// RegisterHealthTool adds a health check tool to the MCP server.
func RegisterHealthTool(s *server.MCPServer, version, provider string) {
	tool := mcp.NewTool(
		"health",
		mcp.WithDescription("Returns server health status, version and LLM provider"),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(healthResult{Status: "ok", Version: version, LLMProvider: provider})
	})
}

// Package tools implements the MCP tools that front the query pipeline.
package tools

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-insights/pkg/services"
)

// Deps holds what the tools need from the rest of the application.
type Deps struct {
	QueryService services.QueryService
	Version      string
	Provider     string
	Logger       *zap.Logger
}

// Names lists the registered tools in registration order.
func Names() []string {
	return []string{"ask_question", "query_history", "data_status", "health"}
}

// RegisterAll adds every analytics tool to s.
func RegisterAll(s *server.MCPServer, deps *Deps) {
	registerAskQuestionTool(s, deps)
	registerQueryHistoryTool(s, deps)
	registerDataStatusTool(s, deps)
	RegisterHealthTool(s, deps.Version, deps.Provider)
}

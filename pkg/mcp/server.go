// Package mcp exposes the question-answering pipeline as MCP tools.
package mcp

import (
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-insights/pkg/mcp/tools"
)

// ServerName is reported to MCP clients during initialize.
const ServerName = "ekaya-insights"

// Server wraps the mcp-go MCPServer with the analytics tool set.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// NewServer creates an MCP server with every analytics tool registered.
func NewServer(version string, deps *tools.Deps, logger *zap.Logger) *Server {
	mcpServer := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s := &Server{
		mcp:    mcpServer,
		logger: logger.Named("mcp"),
	}

	tools.RegisterAll(mcpServer, deps)
	s.logger.Debug("MCP tools registered", zap.Strings("tools", tools.Names()))

	return s
}

// MCP returns the underlying MCPServer.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Handler returns a stateless streamable HTTP transport. The caller's mux
// decides the mount path.
func (s *Server) Handler() http.Handler {
	return server.NewStreamableHTTPServer(
		s.mcp,
		server.WithStateLess(true),
	)
}

// RegisterTool adds an extra tool next to the built-in ones.
func (s *Server) RegisterTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcp.AddTool(tool, handler)
}

package tools

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// getOptionalFloat returns a numeric argument. JSON numbers decode as float64.
func getOptionalFloat(req mcp.CallToolRequest, key string) (float64, bool) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return 0, false
	}
	val, ok := args[key].(float64)
	return val, ok
}

// getOptionalString returns a string argument with surrounding whitespace kept.
func getOptionalString(req mcp.CallToolRequest, key string) (string, bool) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return "", false
	}
	val, ok := args[key].(string)
	return val, ok
}

func trimString(s string) string {
	return strings.TrimSpace(s)
}

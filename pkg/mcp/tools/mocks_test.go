package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-insights/pkg/models"
)

type mockQueryService struct {
	AskFunc     func(ctx context.Context, question string) (*models.QueryResponse, error)
	HistoryFunc func(ctx context.Context, limit int) ([]*models.QueryHistoryEntry, error)
	StatusFunc  func(ctx context.Context) (models.DataCounts, error)

	askCalls  int
	lastLimit int
}

func (m *mockQueryService) Ask(ctx context.Context, question string) (*models.QueryResponse, error) {
	m.askCalls++
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return &models.QueryResponse{Question: question, Success: true}, nil
}

func (m *mockQueryService) History(ctx context.Context, limit int) ([]*models.QueryHistoryEntry, error) {
	m.lastLimit = limit
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockQueryService) ClearHistory(ctx context.Context) error {
	return nil
}

func (m *mockQueryService) Status(ctx context.Context) (models.DataCounts, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx)
	}
	return models.DataCounts{}, nil
}

func newTestServer(svc *mockQueryService) *server.MCPServer {
	s := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	RegisterAll(s, &Deps{
		QueryService: svc,
		Version:      "1.2.3",
		Provider:     "gemini",
		Logger:       zap.NewNop(),
	})
	return s
}

// toolResponse is the decoded JSON-RPC reply to a tools/call.
type toolResponse struct {
	Result struct {
		IsError bool `json:"isError"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) toolResponse {
	t.Helper()
	params := map[string]any{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	request, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  params,
	})
	require.NoError(t, err)

	raw, err := json.Marshal(s.HandleMessage(context.Background(), request))
	require.NoError(t, err)

	var resp toolResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	return resp
}

// decodeText unmarshals the first text block of a tool result into v.
func decodeText(t *testing.T, resp toolResponse, v any) {
	t.Helper()
	require.Nil(t, resp.Error, "unexpected JSON-RPC error")
	require.NotEmpty(t, resp.Result.Content)
	require.NoError(t, json.Unmarshal([]byte(resp.Result.Content[0].Text), v))
}

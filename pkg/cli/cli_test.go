package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/ekaya-insights/pkg/config"
	"github.com/ekaya-inc/ekaya-insights/pkg/ingest"
	"github.com/ekaya-inc/ekaya-insights/pkg/llm"
	"github.com/ekaya-inc/ekaya-insights/pkg/models"
)

// inTempDir runs the test from an empty directory so no config.yaml or .env
// from the repository is picked up.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

// stubLLM swaps the completion client factory for the duration of the test.
func stubLLM(t *testing.T, client llm.CompletionClient) {
	t.Helper()
	original := newCompletionClient
	newCompletionClient = func(context.Context, *config.Config, *zap.Logger) (llm.CompletionClient, error) {
		return client, nil
	}
	t.Cleanup(func() { newCompletionClient = original })
}

func sumLLM() *llm.MockClient {
	return &llm.MockClient{
		CompleteFunc: func(_ context.Context, prompt string) (string, error) {
			switch {
			case strings.HasSuffix(prompt, "SQL Query:"):
				return "SELECT SUM(total_revenue) FROM total_sales_metrics", nil
			case strings.HasSuffix(prompt, "Summary:"):
				return "Total revenue is $100,000.", nil
			default:
				return `["Revenue is concentrated in electronics"]`, nil
			}
		},
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd("test-version")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestStatusCommand_SeedsWhenDataMissing(t *testing.T) {
	dir := inTempDir(t)

	out, err := runCLI(t, "status", "--data-dir", dir, "-o", "json")
	require.NoError(t, err)

	var report statusReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, models.DataCounts{AdSales: 3, TotalSales: 3, Eligibility: 3}, report.Counts)
	require.Len(t, report.Tables, 3)
	for _, table := range report.Tables {
		assert.Equal(t, ingest.SourceSeed, table.Source)
	}
}

func TestStatusCommand_ReadsCSV(t *testing.T) {
	dir := inTempDir(t)
	csv := "product_name,total_revenue\nA,10\nB,20\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ingest.TotalSalesFile), []byte(csv), 0o644))

	out, err := runCLI(t, "status", "--data-dir", dir, "-o", "yaml")
	require.NoError(t, err)

	var report statusReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Counts.TotalSales)
	assert.Equal(t, 3, report.Counts.AdSales)
}

func TestStatusCommand_TableOutput(t *testing.T) {
	dir := inTempDir(t)

	out, err := runCLI(t, "status", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ad_sales_metrics")
	assert.Contains(t, out, "seed")
	assert.Contains(t, out, "(9 records)")
}

func TestAskCommand_JSON(t *testing.T) {
	dir := inTempDir(t)
	client := sumLLM()
	stubLLM(t, client)

	out, err := runCLI(t, "ask", "--data-dir", dir, "-o", "json", "What", "is", "my", "total", "sales?")
	require.NoError(t, err)

	var response models.QueryResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.True(t, response.Success)
	assert.Equal(t, "What is my total sales?", response.Question)
	assert.Equal(t, "Total revenue is $100,000.", response.Answer)
	assert.Equal(t, 2, client.Calls())
}

func TestAskCommand_Table(t *testing.T) {
	dir := inTempDir(t)
	stubLLM(t, sumLLM())

	out, err := runCLI(t, "ask", "--data-dir", dir, "What is my total sales?")
	require.NoError(t, err)
	assert.Contains(t, out, "SQL: SELECT SUM(total_revenue) FROM total_sales_metrics")
	assert.Contains(t, out, "total_revenue")
	assert.Contains(t, out, "Answer: Total revenue is $100,000.")
	assert.Contains(t, out, "(1 rows, 1 tables")
}

func TestAskCommand_FailureIsError(t *testing.T) {
	dir := inTempDir(t)
	stubLLM(t, &llm.MockClient{
		CompleteFunc: func(context.Context, string) (string, error) {
			return "", errors.New("503 service unavailable")
		},
	})

	_, err := runCLI(t, "ask", "--data-dir", dir, "q")
	require.Error(t, err)
	assert.Equal(t, "failed to convert question to SQL", err.Error())
}

func TestAskCommand_RequiresQuestion(t *testing.T) {
	inTempDir(t)
	_, err := runCLI(t, "ask")
	assert.Error(t, err)
}

func TestRootCommand_RejectsUnknownOutput(t *testing.T) {
	inTempDir(t)
	_, err := runCLI(t, "status", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func newTestApp(t *testing.T, cfg *config.Config) *app {
	t.Helper()
	stubLLM(t, sumLLM())
	a, err := newApp(context.Background(), cfg, zap.NewNop(), true)
	require.NoError(t, err)
	return a
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:       "test",
		Version:   "test-version",
		DataDir:   t.TempDir(),
		UIDir:     filepath.Join(t.TempDir(), "missing"),
		LLM:       config.LLMConfig{Provider: "gemini"},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://dashboard.example.com"}},
		MCP:       config.MCPConfig{Enabled: true},
	}
}

func TestNewHandler_Routes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := newTestApp(t, testConfig(t))
	srv := httptest.NewServer(newHandler(ctx, a, "test-version"))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var counts models.DataCounts
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&counts))
	assert.Equal(t, 3, counts.AdSales)

	resp, err = http.Post(srv.URL+"/api/query", "application/json", strings.NewReader(`{"question":"What is my total sales?"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-RateLimit-Limit"))

	var answer models.QueryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&answer))
	assert.True(t, answer.Success)

	resp, err = http.Get(srv.URL + "/api/summary")
	require.NoError(t, err)
	defer resp.Body.Close()
	var summary models.SummaryData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, []string{"Revenue is concentrated in electronics"}, summary.KeyInsights)

	resp, err = http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "no UI directory")
}

func TestNewHandler_CORSPreflight(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := newHandler(ctx, newTestApp(t, testConfig(t)), "v")

	req := httptest.NewRequest(http.MethodOptions, "/api/query", nil)
	req.Header.Set("Origin", "http://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://dashboard.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewHandler_MCPToggle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`
	post := func(h http.Handler) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json, text/event-stream")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	cfg := testConfig(t)
	rec := post(newHandler(ctx, newTestApp(t, cfg), "v"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ekaya-insights")

	cfg = testConfig(t)
	cfg.MCP.Enabled = false
	rec = post(newHandler(ctx, newTestApp(t, cfg), "v"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewHandler_ServesUI(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig(t)
	cfg.UIDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.UIDir, "index.html"), []byte("<html>dashboard</html>"), 0o644))

	require.True(t, cfg.MCP.Enabled)

	var handler http.Handler
	require.NotPanics(t, func() { handler = newHandler(ctx, newTestApp(t, cfg), "v") })

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dashboard")

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ekaya-insights")
}

func TestRenderRows(t *testing.T) {
	var out bytes.Buffer
	renderRows(&out, []map[string]any{
		{"product_name": "A", "roas": 2.5},
		{"product_name": "B", "clicks": float64(10)},
	})

	text := out.String()
	assert.Contains(t, text, "clicks")
	assert.Contains(t, text, "product_name")
	assert.Contains(t, text, "2.5")
	assert.Less(t, strings.Index(text, "clicks"), strings.Index(text, "product_name"), "columns are sorted")

	out.Reset()
	renderRows(&out, nil)
	assert.Contains(t, out.String(), "(no rows)")
}

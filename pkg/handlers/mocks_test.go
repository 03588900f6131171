package handlers

import (
	"context"
	"strings"

	"github.com/ekaya-inc/ekaya-insights/pkg/llm"
	"github.com/ekaya-inc/ekaya-insights/pkg/models"
)

// mockQueryService is a configurable QueryService for handler tests.
type mockQueryService struct {
	AskFunc          func(ctx context.Context, question string) (*models.QueryResponse, error)
	HistoryFunc      func(ctx context.Context, limit int) ([]*models.QueryHistoryEntry, error)
	ClearHistoryFunc func(ctx context.Context) error
	StatusFunc       func(ctx context.Context) (models.DataCounts, error)

	askCalls    int
	lastLimit   int
	clearCalled bool
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
	m.clearCalled = true
	if m.ClearHistoryFunc != nil {
		return m.ClearHistoryFunc(ctx)
	}
	return nil
}

func (m *mockQueryService) Status(ctx context.Context) (models.DataCounts, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx)
	}
	return models.DataCounts{}, nil
}

// mockAnalyticsService returns fixed dashboard data.
type mockAnalyticsService struct {
	charts  *models.AnalyticsData
	summary *models.SummaryData
}

func (m *mockAnalyticsService) Charts(ctx context.Context) *models.AnalyticsData {
	if m.charts != nil {
		return m.charts
	}
	return models.EmptyAnalytics()
}

func (m *mockAnalyticsService) Summary(ctx context.Context) *models.SummaryData {
	return m.summary
}

// pipelineLLM answers SQL prompts with sql and every other prompt with answer.
func pipelineLLM(sql, answer string) *llm.MockClient {
	return &llm.MockClient{
		CompleteFunc: func(_ context.Context, prompt string) (string, error) {
			if strings.HasSuffix(prompt, "SQL Query:") {
				return sql, nil
			}
			return answer, nil
		},
	}
}

package services

import (
	"context"
	"strings"

	"github.com/ekaya-inc/ekaya-insights/pkg/llm"
	"github.com/ekaya-inc/ekaya-insights/pkg/models"
	"github.com/ekaya-inc/ekaya-insights/pkg/repositories"
)

// routingLLM answers by prompt kind so one mock can drive the whole pipeline.
func routingLLM(sqlResponse, summaryResponse string) *llm.MockClient {
	return &llm.MockClient{
		CompleteFunc: func(_ context.Context, prompt string) (string, error) {
			switch {
			case strings.HasSuffix(prompt, "SQL Query:"):
				return sqlResponse, nil
			case strings.HasSuffix(prompt, "Summary:"):
				return summaryResponse, nil
			default:
				return `["insight"]`, nil
			}
		},
	}
}

type mockExecutor struct {
	ExecuteFunc func(ctx context.Context, sqlText string) ([]models.Row, error)
	calls       []string
}

func (m *mockExecutor) Execute(ctx context.Context, sqlText string) ([]models.Row, error) {
	m.calls = append(m.calls, sqlText)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, sqlText)
	}
	return []models.Row{}, nil
}

type mockRecordRepository struct {
	repositories.RecordRepository

	ListAdSalesFunc     func(ctx context.Context) ([]*models.AdSalesRecord, error)
	ListTotalSalesFunc  func(ctx context.Context) ([]*models.TotalSalesRecord, error)
	ListEligibilityFunc func(ctx context.Context) ([]*models.EligibilityRecord, error)
	CountsFunc          func(ctx context.Context) (models.DataCounts, error)
}

func (m *mockRecordRepository) ListAdSales(ctx context.Context) ([]*models.AdSalesRecord, error) {
	if m.ListAdSalesFunc != nil {
		return m.ListAdSalesFunc(ctx)
	}
	return nil, nil
}

func (m *mockRecordRepository) ListTotalSales(ctx context.Context) ([]*models.TotalSalesRecord, error) {
	if m.ListTotalSalesFunc != nil {
		return m.ListTotalSalesFunc(ctx)
	}
	return nil, nil
}

func (m *mockRecordRepository) ListEligibility(ctx context.Context) ([]*models.EligibilityRecord, error) {
	if m.ListEligibilityFunc != nil {
		return m.ListEligibilityFunc(ctx)
	}
	return nil, nil
}

func (m *mockRecordRepository) Counts(ctx context.Context) (models.DataCounts, error) {
	if m.CountsFunc != nil {
		return m.CountsFunc(ctx)
	}
	return models.DataCounts{}, nil
}

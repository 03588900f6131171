package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-insights/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-insights/pkg/llm"
	"github.com/ekaya-inc/ekaya-insights/pkg/logging"
	"github.com/ekaya-inc/ekaya-insights/pkg/models"
	"github.com/ekaya-inc/ekaya-insights/pkg/prompts"
)

// SummaryFallback is answered whenever the summary completion fails.
const SummaryFallback = "Unable to generate summary at this time."

// MaxInsights caps the number of insights returned.
const MaxInsights = 5

// insightsFallback is returned when the insights completion fails.
var insightsFallback = []string{
	"Unable to generate insights at this time.",
	"Please try again later.",
}

// InsightsFallback returns a fresh copy of the placeholder insights.
func InsightsFallback() []string {
	out := make([]string, len(insightsFallback))
	copy(out, insightsFallback)
	return out
}

// SynthesizerService turns data back into prose. Neither method fails: every
// completion error is absorbed into a fixed fallback.
type SynthesizerService interface {
	Summarize(ctx context.Context, rows []models.Row, question string) string
	Insights(ctx context.Context, adSales []*models.AdSalesRecord, totalSales []*models.TotalSalesRecord, eligibility []*models.EligibilityRecord) []string
}

type synthesizerService struct {
	llm    llm.CompletionClient
	logger *zap.Logger
}

func NewSynthesizerService(client llm.CompletionClient, logger *zap.Logger) SynthesizerService {
	return &synthesizerService{
		llm:    client,
		logger: logger.Named("synthesizer-service"),
	}
}

var _ SynthesizerService = (*synthesizerService)(nil)

func (s *synthesizerService) Summarize(ctx context.Context, rows []models.Row, question string) string {
	prompt := prompts.BuildSummaryPrompt(rows, question)

	text, err := s.llm.Complete(llm.WithOperation(ctx, llm.OperationSummarize), prompt)
	if err != nil {
		err = fmt.Errorf("%w: %w", apperrors.ErrSummarization, err)
		s.logger.Error("Failed to generate summary, using fallback",
			zap.Int("row_count", len(rows)),
			zap.String("error", logging.SanitizeError(err)))
		return SummaryFallback
	}

	return strings.TrimSpace(text)
}

func (s *synthesizerService) Insights(
	ctx context.Context,
	adSales []*models.AdSalesRecord,
	totalSales []*models.TotalSalesRecord,
	eligibility []*models.EligibilityRecord,
) []string {
	prompt := prompts.BuildInsightsPrompt(adSales, totalSales, eligibility)

	text, err := s.llm.Complete(llm.WithOperation(ctx, llm.OperationInsights), prompt)
	if err != nil {
		s.logger.Error("Failed to generate insights, using fallback",
			zap.String("error", logging.SanitizeError(err)))
		return InsightsFallback()
	}

	text = strings.TrimSpace(text)

	insights, err := llm.ParseStringList(text)
	if err != nil {
		s.logger.Debug("Insights response is not a JSON array, splitting lines",
			zap.Error(err))
		return llm.NonEmptyLines(text, MaxInsights)
	}

	if len(insights) > MaxInsights {
		insights = insights[:MaxInsights]
	}
	return insights
}

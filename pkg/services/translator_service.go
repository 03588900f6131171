package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-insights/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-insights/pkg/llm"
	"github.com/ekaya-inc/ekaya-insights/pkg/logging"
	"github.com/ekaya-inc/ekaya-insights/pkg/prompts"
)

// TranslatorService turns a natural-language question into raw SQL text.
type TranslatorService interface {
	// Translate returns the unprocessed completion for question. The caller is
	// responsible for validating question and sanitizing the result.
	Translate(ctx context.Context, question string) (string, error)
}

type translatorService struct {
	llm    llm.CompletionClient
	logger *zap.Logger
}

func NewTranslatorService(client llm.CompletionClient, logger *zap.Logger) TranslatorService {
	return &translatorService{
		llm:    client,
		logger: logger.Named("translator-service"),
	}
}

var _ TranslatorService = (*translatorService)(nil)

func (s *translatorService) Translate(ctx context.Context, question string) (string, error) {
	prompt := prompts.BuildSQLPrompt(question)

	raw, err := s.llm.Complete(llm.WithOperation(ctx, llm.OperationTranslate), prompt)
	if err != nil {
		s.logger.Error("Failed to generate SQL",
			zap.String("question", logging.SanitizeQuery(question)),
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.String("error", logging.SanitizeError(err)))
		return "", fmt.Errorf("%w: %w", apperrors.ErrTranslation, err)
	}

	return raw, nil
}

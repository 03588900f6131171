package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-insights/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-insights/pkg/logging"
	"github.com/ekaya-inc/ekaya-insights/pkg/models"
	"github.com/ekaya-inc/ekaya-insights/pkg/queryengine"
	"github.com/ekaya-inc/ekaya-insights/pkg/repositories"
	"github.com/ekaya-inc/ekaya-insights/pkg/sql"
)

// DefaultHistoryLimit is used when a history listing has no usable limit.
const DefaultHistoryLimit = 10

// timestampLayout renders UTC millisecond timestamps, e.g. 2024-05-01T12:00:00.000Z.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// QueryService answers natural-language questions and manages their history.
type QueryService interface {
	// Ask runs the full pipeline for question. Pipeline failures are reported in
	// the returned response with Success=false. The only error returned is
	// apperrors.ErrValidation for an empty question.
	Ask(ctx context.Context, question string) (*models.QueryResponse, error)
	History(ctx context.Context, limit int) ([]*models.QueryHistoryEntry, error)
	ClearHistory(ctx context.Context) error
	Status(ctx context.Context) (models.DataCounts, error)
}

type queryService struct {
	translator  TranslatorService
	executor    queryengine.Executor
	synthesizer SynthesizerService
	history     repositories.QueryHistoryRepository
	records     repositories.RecordRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewQueryService(
	translator TranslatorService,
	executor queryengine.Executor,
	synthesizer SynthesizerService,
	history repositories.QueryHistoryRepository,
	records repositories.RecordRepository,
	logger *zap.Logger,
) QueryService {
	return &queryService{
		translator:  translator,
		executor:    executor,
		synthesizer: synthesizer,
		history:     history,
		records:     records,
		logger:      logger.Named("query-service"),
		now:         time.Now,
	}
}

var _ QueryService = (*queryService)(nil)

// queryRun tracks one question through the pipeline stages.
type queryRun struct {
	question string
	started  time.Time
	stage    models.QueryStage
}

func (s *queryService) advance(run *queryRun, stage models.QueryStage) {
	run.stage = stage
	s.logger.Debug("Query stage",
		zap.String("stage", string(stage)),
		zap.Duration("elapsed", s.now().Sub(run.started)))
}

func (s *queryService) Ask(ctx context.Context, question string) (*models.QueryResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is required", apperrors.ErrValidation)
	}

	run := &queryRun{question: question, started: s.now()}
	s.advance(run, models.StageReceived)

	if hit := sql.ScreenQuestion(question); hit != nil {
		s.logger.Warn("Question looks like SQL injection, continuing with generated SQL only",
			zap.String("fingerprint", hit.Fingerprint),
			zap.String("question", logging.SanitizeQuery(question)))
	}

	s.advance(run, models.StageTranslating)
	raw, err := s.translator.Translate(ctx, question)
	if err != nil {
		return s.fail(run, err), nil
	}

	s.advance(run, models.StageSanitizing)
	statement := sql.ExtractStatement(raw)
	if statement == "" {
		s.logger.Warn("No SQL statement found in completion",
			zap.String("question", logging.SanitizeQuery(question)))
	}

	s.advance(run, models.StageExecuting)
	rows, err := s.executor.Execute(ctx, statement)
	if err != nil {
		return s.fail(run, err), nil
	}

	result, err := json.Marshal(rows)
	if err != nil {
		return s.fail(run, fmt.Errorf("%w: encode result: %w", apperrors.ErrExecution, err)), nil
	}

	s.advance(run, models.StageSummarizing)
	answer := s.synthesizer.Summarize(ctx, rows, question)

	if _, err := s.history.Create(ctx, question, statement, string(result)); err != nil {
		// The answer is still valid; losing the history entry is not fatal.
		s.logger.Error("Failed to record query history", zap.Error(err))
	}

	finished := s.now()
	s.advance(run, models.StageCompleted)

	s.logger.Info("Question answered",
		zap.String("sql", logging.SanitizeQuery(statement)),
		zap.Int("rows", len(rows)),
		zap.Duration("elapsed", finished.Sub(run.started)))

	return &models.QueryResponse{
		Question:      question,
		SQL:           statement,
		Result:        string(result),
		Answer:        answer,
		ExecutionTime: finished.Sub(run.started).Milliseconds(),
		TablesQueried: sql.CountTables(statement),
		Success:       true,
		Timestamp:     finished.UTC().Format(timestampLayout),
	}, nil
}

// fail builds the unsuccessful response. No history entry is written.
func (s *queryService) fail(run *queryRun, err error) *models.QueryResponse {
	failedAt := run.stage
	finished := s.now()
	s.advance(run, models.StageFailed)

	s.logger.Error("Query failed",
		zap.String("stage", string(failedAt)),
		zap.String("question", logging.SanitizeQuery(run.question)),
		zap.String("error", logging.SanitizeError(err)))

	return &models.QueryResponse{
		Question:      run.question,
		SQL:           "",
		Result:        "",
		Answer:        "Error: " + failureMessage(err),
		ExecutionTime: finished.Sub(run.started).Milliseconds(),
		TablesQueried: 0,
		Success:       false,
		Timestamp:     finished.UTC().Format(timestampLayout),
	}
}

// failureMessage keeps provider details out of user-facing answers.
func failureMessage(err error) string {
	for _, sentinel := range []error{apperrors.ErrTranslation, apperrors.ErrExecution, apperrors.ErrSummarization} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "unknown error occurred"
}

func (s *queryService) History(ctx context.Context, limit int) ([]*models.QueryHistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	entries, err := s.history.List(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list query history", zap.Int("limit", limit), zap.Error(err))
		return nil, err
	}
	return entries, nil
}

func (s *queryService) ClearHistory(ctx context.Context) error {
	if err := s.history.Clear(ctx); err != nil {
		s.logger.Error("Failed to clear query history", zap.Error(err))
		return err
	}
	s.logger.Info("Query history cleared")
	return nil
}

func (s *queryService) Status(ctx context.Context) (models.DataCounts, error) {
	counts, err := s.records.Counts(ctx)
	if err != nil {
		s.logger.Error("Failed to count records", zap.Error(err))
		return models.DataCounts{}, err
	}
	return counts, nil
}

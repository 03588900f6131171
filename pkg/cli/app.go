package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-insights/pkg/config"
	"github.com/ekaya-inc/ekaya-insights/pkg/ingest"
	"github.com/ekaya-inc/ekaya-insights/pkg/llm"
	"github.com/ekaya-inc/ekaya-insights/pkg/queryengine"
	"github.com/ekaya-inc/ekaya-insights/pkg/repositories"
	"github.com/ekaya-inc/ekaya-insights/pkg/services"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *repositories.MemoryStore
	reports []ingest.TableReport

	// Set only when the command needs the LLM.
	client           llm.CompletionClient
	queryService     services.QueryService
	analyticsService services.AnalyticsService
}

// newCompletionClient is replaced in tests.
var newCompletionClient = func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (llm.CompletionClient, error) {
	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}
	return llm.NewClientFromConfig(ctx, &llm.Config{
		Provider:    cfg.LLM.Provider,
		Endpoint:    cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey(),
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout(),
	}, logger)
}

// newApp loads the data directory into a fresh store and, when withLLM is
// set, builds the completion client and services on top of it. A table that
// fails to load is logged and left empty.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, withLLM bool) (*app, error) {
	store := repositories.NewMemoryStore()

	reports, err := ingest.NewLoader(store, cfg.DataDir, logger).Load(ctx)
	if err != nil {
		// Load returns no reports only when it aborted outright.
		if reports == nil {
			return nil, fmt.Errorf("failed to load data: %w", err)
		}
		logger.Warn("Some tables failed to load", zap.Error(err))
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		reports: reports,
	}
	if !withLLM {
		return a, nil
	}

	client, err := newCompletionClient(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	synthesizer := services.NewSynthesizerService(client, logger)
	a.client = client
	a.queryService = services.NewQueryService(
		services.NewTranslatorService(client, logger),
		queryengine.New(store, logger),
		synthesizer,
		store,
		store,
		logger,
	)
	a.analyticsService = services.NewAnalyticsService(store, synthesizer, logger)

	return a, nil
}

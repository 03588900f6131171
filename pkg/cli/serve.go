package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-insights/pkg/handlers"
	"github.com/ekaya-inc/ekaya-insights/pkg/mcp"
	"github.com/ekaya-inc/ekaya-insights/pkg/mcp/tools"
	"github.com/ekaya-inc/ekaya-insights/pkg/middleware"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (and MCP endpoint when enabled)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := opts.newLogger("")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, opts, logger)
		},
	}
}

func runServer(ctx context.Context, opts *rootOptions, logger *zap.Logger) error {
	cfg := opts.cfg

	a, err := newApp(ctx, cfg, logger, true)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newHandler(ctx, a, opts.version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Configuration loaded",
		zap.String("base_url", cfg.BaseURL),
		zap.String("data_dir", cfg.DataDir),
		zap.String("llm_provider", a.client.GetProvider()),
		zap.String("llm_model", a.client.GetModel()),
		zap.Bool("mcp_enabled", cfg.MCP.Enabled))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting ekaya-insights",
			zap.String("addr", server.Addr),
			zap.String("version", opts.version),
			zap.Bool("tls", cfg.TLSCertPath != ""))
		if cfg.TLSCertPath != "" {
			errCh <- server.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newHandler assembles routes and middleware. ctx bounds background work
// such as the rate limiter's sweep.
func newHandler(ctx context.Context, a *app, version string) http.Handler {
	cfg := a.cfg
	logger := a.logger
	mux := http.NewServeMux()

	var limit func(http.Handler) http.Handler
	if cfg.RateLimit.RequestsPerSecond > 0 && cfg.RateLimit.Burst > 0 {
		limit = middleware.NewRateLimiter(ctx, middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}, logger).Middleware
	}

	handlers.NewHealthHandler(cfg, a.queryService, logger).RegisterRoutes(mux)
	handlers.NewQueryHandler(a.queryService, logger).RegisterRoutes(mux, limit)
	handlers.NewAnalyticsHandler(a.analyticsService, logger).RegisterRoutes(mux)

	if cfg.MCP.Enabled {
		mcpServer := mcp.NewServer(version, &tools.Deps{
			QueryService: a.queryService,
			Version:      version,
			Provider:     a.client.GetProvider(),
			Logger:       logger,
		}, logger)

		var mcpHandler http.Handler = mcpServer.Handler()
		if limit != nil {
			mcpHandler = limit(mcpHandler)
		}
		mcpHandler = middleware.MCPRequestLogger(logger.Named("mcp"))(mcpHandler)
		// Per-method patterns so they coexist with the "GET /" UI route.
		for _, method := range []string{http.MethodPost, http.MethodGet, http.MethodDelete} {
			mux.Handle(method+" /mcp", mcpHandler)
		}
	}

	if info, err := os.Stat(cfg.UIDir); err == nil && info.IsDir() {
		mux.Handle("GET /", http.FileServer(http.Dir(cfg.UIDir)))
	}

	var handler http.Handler = mux
	handler = cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader, "Mcp-Session-Id"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	})(handler)
	handler = middleware.RequestLogger(logger)(handler)

	return handler
}

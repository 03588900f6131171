package handlers

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-insights/pkg/config"
	"github.com/ekaya-inc/ekaya-insights/pkg/models"
)

const serviceName = "ekaya-insights"

// DataStatusProvider reports how many records each table holds.
type DataStatusProvider interface {
	Status(ctx context.Context) (models.DataCounts, error)
}

// PingResponse describes the running service and the data it has loaded.
type PingResponse struct {
	Status      string             `json:"status"`
	Service     string             `json:"service"`
	Version     string             `json:"version"`
	Environment string             `json:"environment"`
	GoVersion   string             `json:"go_version"`
	Hostname    string             `json:"hostname"`
	LLMProvider string             `json:"llm_provider"`
	LLMModel    string             `json:"llm_model,omitempty"`
	Uptime      string             `json:"uptime"`
	Data        *models.DataCounts `json:"data,omitempty"`
}

// HealthHandler serves liveness and ping endpoints.
type HealthHandler struct {
	cfg     *config.Config
	data    DataStatusProvider
	started time.Time
	logger  *zap.Logger
}

// NewHealthHandler creates a HealthHandler. data may be nil, in which case
// ping omits record counts.
func NewHealthHandler(cfg *config.Config, data DataStatusProvider, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		cfg:     cfg,
		data:    data,
		started: time.Now(),
		logger:  logger,
	}
}

func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ping", h.Ping)
}

// Health is a liveness probe. It never touches the store.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ping reports build, provider and data details. A failing count lookup
// marks the service degraded but still answers 200.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	hostname, err := os.Hostname()
	if err != nil {
		h.logger.Warn("Failed to get hostname", zap.Error(err))
		hostname = "unknown"
	}

	resp := PingResponse{
		Status:      "ok",
		Service:     serviceName,
		Version:     h.cfg.Version,
		Environment: h.cfg.Env,
		GoVersion:   runtime.Version(),
		Hostname:    hostname,
		LLMProvider: h.cfg.LLM.Provider,
		LLMModel:    h.cfg.LLM.Model,
		Uptime:      time.Since(h.started).Round(time.Second).String(),
	}

	if h.data != nil {
		counts, err := h.data.Status(r.Context())
		if err != nil {
			h.logger.Warn("Failed to read data counts for ping", zap.Error(err))
			resp.Status = "degraded"
		} else {
			resp.Data = &counts
		}
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode ping response", zap.Error(err))
	}
}

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-insights/pkg/services"
)

// AnalyticsHandler serves the dashboard charts and summary. The service
// degrades to placeholder data on failure, so these routes always answer 200.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
	logger           *zap.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// RegisterRoutes registers the analytics routes on the given mux.
func (h *AnalyticsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/analytics", h.Charts)
	mux.HandleFunc("GET /api/summary", h.Summary)
}

// Charts handles GET /api/analytics.
func (h *AnalyticsHandler) Charts(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, h.analyticsService.Charts(r.Context())); err != nil {
		h.logger.Error("Failed to encode analytics response", zap.Error(err))
	}
}

// Summary handles GET /api/summary. It calls the LLM for insights.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, h.analyticsService.Summary(r.Context())); err != nil {
		h.logger.Error("Failed to encode summary response", zap.Error(err))
	}
}

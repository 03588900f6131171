package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-insights/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-insights/pkg/models"
	"github.com/ekaya-inc/ekaya-insights/pkg/services"
)

// maxQueryBodyBytes bounds POST /api/query bodies.
const maxQueryBodyBytes = 64 << 10

const questionRequiredMessage = "Question is required"

// QueryHandler serves the question, history and status routes.
type QueryHandler struct {
	queryService services.QueryService
	logger       *zap.Logger
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(queryService services.QueryService, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		queryService: queryService,
		logger:       logger,
	}
}

// RegisterRoutes registers the query routes. limit wraps POST /api/query,
// the only route that spends LLM calls; pass nil for no limit.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux, limit func(http.Handler) http.Handler) {
	var ask http.Handler = http.HandlerFunc(h.Ask)
	if limit != nil {
		ask = limit(ask)
	}

	mux.Handle("POST /api/query", ask)
	mux.HandleFunc("GET /api/history", h.History)
	mux.HandleFunc("DELETE /api/history", h.ClearHistory)
	mux.HandleFunc("GET /api/status", h.Status)
}

// Ask handles POST /api/query.
// Pipeline failures still answer 200 with success=false in the body.
func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	question, ok := decodeQuestion(w, r)
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, errCodeInvalidRequest, questionRequiredMessage); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response, err := h.queryService.Ask(r.Context(), question)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			if err := ErrorResponse(w, http.StatusBadRequest, errCodeInvalidRequest, questionRequiredMessage); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.internalError(w, "Failed to process question", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode query response", zap.Error(err))
	}
}

// decodeQuestion accepts only a JSON object whose "question" is a string.
func decodeQuestion(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQueryBodyBytes)).Decode(&body); err != nil {
		return "", false
	}

	raw, ok := body["question"]
	if !ok {
		return "", false
	}

	var question string
	if err := json.Unmarshal(raw, &question); err != nil || question == "" {
		return "", false
	}
	return question, true
}

// History handles GET /api/history?limit=N, most recent first.
func (h *QueryHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.queryService.History(r.Context(), ParseLimit(r))
	if err != nil {
		h.internalError(w, "Failed to fetch query history", err)
		return
	}
	if entries == nil {
		entries = []*models.QueryHistoryEntry{}
	}

	if err := WriteJSON(w, http.StatusOK, entries); err != nil {
		h.logger.Error("Failed to encode history response", zap.Error(err))
	}
}

// ClearHistory handles DELETE /api/history.
func (h *QueryHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.queryService.ClearHistory(r.Context()); err != nil {
		h.internalError(w, "Failed to clear query history", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, SuccessResponse{Success: true}); err != nil {
		h.logger.Error("Failed to encode clear response", zap.Error(err))
	}
}

// Status handles GET /api/status.
func (h *QueryHandler) Status(w http.ResponseWriter, r *http.Request) {
	counts, err := h.queryService.Status(r.Context())
	if err != nil {
		h.internalError(w, "Failed to fetch data status", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, counts); err != nil {
		h.logger.Error("Failed to encode status response", zap.Error(err))
	}
}

func (h *QueryHandler) internalError(w http.ResponseWriter, message string, err error) {
	h.logger.Error(message, zap.Error(err))
	if err := ErrorResponse(w, http.StatusInternalServerError, errCodeInternal, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

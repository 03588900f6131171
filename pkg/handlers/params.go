package handlers

import (
	"net/http"
	"strconv"

	"github.com/ekaya-inc/ekaya-insights/pkg/services"
)

// ParseLimit reads the "limit" query parameter. Missing, malformed and
// non-positive values fall back to services.DefaultHistoryLimit.
func ParseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return services.DefaultHistoryLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return services.DefaultHistoryLimit
	}
	return limit
}

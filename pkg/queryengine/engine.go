// Package queryengine executes sanitized SQL text against the in-memory store.
//
// This is not a SQL parser. The engine picks a table by substring match and then
// applies the first matching heuristic: SUM, COUNT, ORDER BY ... DESC, or a plain
// scan. WHERE, JOIN, GROUP BY and multiple aggregates are ignored on purpose;
// callers rely on this exact behavior.
package queryengine

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-insights/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-insights/pkg/models"
	"github.com/ekaya-inc/ekaya-insights/pkg/repositories"
	"github.com/ekaya-inc/ekaya-insights/pkg/sql"
)

const (
	// DefaultSumField is used when SUM(...) is present but no column can be extracted.
	DefaultSumField = "total_revenue"
	// DefaultOrderField is used when ORDER BY is present but no column can be extracted.
	DefaultOrderField = "id"

	// TotalAlias is the generic alias added to every SUM result row.
	TotalAlias = "total"

	orderedLimit = 10
	scanLimit    = 100
)

var (
	sumPattern     = regexp.MustCompile(`(?i)sum\((\w+)\)`)
	orderByPattern = regexp.MustCompile(`(?i)order\s+by\s+(\w+)`)
)

// Executor runs sanitized SQL and returns open-schema rows.
type Executor interface {
	Execute(ctx context.Context, sqlText string) ([]models.Row, error)
}

// Engine is the heuristic in-memory executor.
type Engine struct {
	repo   repositories.RecordRepository
	logger *zap.Logger
}

// New creates an engine reading from repo.
func New(repo repositories.RecordRepository, logger *zap.Logger) *Engine {
	return &Engine{
		repo:   repo,
		logger: logger.Named("query-engine"),
	}
}

var _ Executor = (*Engine)(nil)

// Execute interprets sqlText against the store. Malformed or unrecognized SQL
// yields an empty or unfiltered result, never an error. The only error returned
// is a cancelled context.
func (e *Engine) Execute(ctx context.Context, sqlText string) ([]models.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrExecution, err)
	}

	table, ok := sql.DetectTable(sqlText)
	if !ok {
		e.logger.Debug("No known table in query, returning empty result")
		return []models.Row{}, nil
	}

	rows, ok := e.repo.TableRows(ctx, table)
	if !ok {
		return []models.Row{}, nil
	}

	result := Apply(rows, sqlText)

	e.logger.Debug("Executed query",
		zap.String("table", table),
		zap.Int("source_rows", len(rows)),
		zap.Int("result_rows", len(result)))

	return result, nil
}

// Apply runs the aggregate/sort/scan heuristics over rows already selected for a table.
// The priority order is SUM, COUNT, ORDER BY ... DESC, then a capped scan.
func Apply(rows []models.Row, sqlText string) []models.Row {
	lower := strings.ToLower(sqlText)

	switch {
	case strings.Contains(lower, "sum("):
		field := extractSumField(sqlText)
		total := 0.0
		for _, row := range rows {
			total += numericValue(row, field)
		}
		return []models.Row{{field: total, TotalAlias: total}}

	case strings.Contains(lower, "count("):
		return []models.Row{{"count": len(rows)}}

	case strings.Contains(lower, "order by") && strings.Contains(lower, "desc"):
		field := extractOrderField(sqlText)
		sorted := make([]models.Row, len(rows))
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			return numericValue(sorted[i], field) > numericValue(sorted[j], field)
		})
		return limitRows(sorted, orderedLimit)

	default:
		return limitRows(rows, scanLimit)
	}
}

func extractSumField(sqlText string) string {
	if m := sumPattern.FindStringSubmatch(sqlText); len(m) == 2 {
		return m[1]
	}
	return DefaultSumField
}

func extractOrderField(sqlText string) string {
	if m := orderByPattern.FindStringSubmatch(sqlText); len(m) == 2 {
		return m[1]
	}
	return DefaultOrderField
}

func limitRows(rows []models.Row, limit int) []models.Row {
	if len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]models.Row, len(rows))
	copy(out, rows)
	return out
}

// numericValue reads field from row as a float. Missing fields and non-numeric
// values count as 0. Field lookup falls back to a case-insensitive match so that
// SUM(TOTAL_REVENUE) resolves the total_revenue column.
func numericValue(row models.Row, field string) float64 {
	v, ok := row[field]
	if !ok {
		for k, candidate := range row {
			if strings.EqualFold(k, field) {
				v, ok = candidate, true
				break
			}
		}
	}
	if !ok {
		return 0
	}

	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	default:
		return 0
	}
}

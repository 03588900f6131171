package sql

import (
	"strings"

	"github.com/ekaya-inc/ekaya-insights/pkg/models"
)

// DetectTable returns the first known table token found in the SQL text,
// scanning in the fixed order of models.KnownTables. Matching is a
// case-insensitive substring search, not identifier parsing.
func DetectTable(sqlText string) (string, bool) {
	lower := strings.ToLower(sqlText)
	for _, table := range models.KnownTables {
		if strings.Contains(lower, table) {
			return table, true
		}
	}
	return "", false
}

// CountTables counts how many known table tokens appear anywhere in the SQL text.
// The count is independent of which table DetectTable would select.
func CountTables(sqlText string) int {
	lower := strings.ToLower(sqlText)
	count := 0
	for _, table := range models.KnownTables {
		if strings.Contains(lower, table) {
			count++
		}
	}
	return count
}

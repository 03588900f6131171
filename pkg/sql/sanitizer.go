// Package sql provides helpers for handling SQL text produced by language models.
package sql

import (
	"regexp"
	"strings"
)

// codeFencePattern matches a markdown fence, optionally tagged as sql in any case.
var codeFencePattern = regexp.MustCompile("(?i)```(sql)?")

// sqlLinePrefixes are the lower-cased line starts that identify a SQL line.
var sqlLinePrefixes = []string{
	"select",
	"from",
	"where",
	"group by",
	"order by",
	"limit",
	"and",
	"or",
}

// ExtractStatement reduces a free-text completion to a single-line SQL statement.
//
// Markdown fences are removed, then only lines that look like SQL survive: lines
// starting with a clause keyword, or lines mentioning both select and from.
// Survivors are joined with a single space. The result is best-effort and not
// guaranteed to be valid SQL; it is empty when no line qualifies.
func ExtractStatement(response string) string {
	cleaned := codeFencePattern.ReplaceAllString(response, "")

	var kept []string
	for _, line := range strings.Split(cleaned, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isSQLLine(strings.ToLower(trimmed)) {
			kept = append(kept, trimmed)
		}
	}

	return strings.TrimSpace(strings.Join(kept, " "))
}

func isSQLLine(lower string) bool {
	for _, prefix := range sqlLinePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return strings.Contains(lower, "select") && strings.Contains(lower, "from")
}

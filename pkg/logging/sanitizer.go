package logging

import (
	"regexp"
	"unicode/utf8"
)

const (
	// MaxQueryLogLength is the maximum length of a question or SQL statement to log
	MaxQueryLogLength = 100
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// key=..., api_key=..., apikey=... as used in provider URLs (Gemini passes ?key=)
	apiKeyParamPattern = regexp.MustCompile(`(?i)\b(api[_-]?key|apikey|key)=[A-Za-z0-9._\-]{16,}`)

	// Authorization: Bearer <token>
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._\-]{16,}`)

	// x-api-key / x-goog-api-key headers echoed in error bodies
	apiKeyHeaderPattern = regexp.MustCompile(`(?i)(x-(?:goog-)?api-key)\s*[:=]\s*[A-Za-z0-9._\-]{16,}`)

	// Raw OpenAI (sk-...), Anthropic (sk-ant-...) and Google (AIza...) keys
	rawKeyPattern = regexp.MustCompile(`\b(?:sk-(?:ant-)?[A-Za-z0-9_\-]{16,}|AIza[0-9A-Za-z_\-]{30,})`)
)

func redact(s string) string {
	s = apiKeyParamPattern.ReplaceAllString(s, "${1}="+RedactedText)
	s = apiKeyHeaderPattern.ReplaceAllString(s, "${1}: "+RedactedText)
	s = bearerPattern.ReplaceAllString(s, "Bearer "+RedactedText)
	return rawKeyPattern.ReplaceAllString(s, RedactedText)
}

// SanitizeError removes provider credentials from an error message.
// Use this before logging any error returned by an LLM client.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return redact(err.Error())
}

// SanitizeQuery truncates and redacts a question or SQL statement for logging.
func SanitizeQuery(query string) string {
	if query == "" {
		return ""
	}
	return redact(TruncateString(query, MaxQueryLogLength))
}

// TruncateString shortens s to at most maxLen bytes, never splitting a rune,
// and appends an ellipsis if anything was cut.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ekaya-inc/ekaya-insights/pkg/jsonutil"
)

// thinkTagPattern matches a leading <think>...</think> block emitted by reasoning models.
var thinkTagPattern = regexp.MustCompile(`(?s)^[\s]*<think>.*?</think>[\s]*`)

// ExtractJSON returns the first balanced JSON object or array found in response.
// Leading think blocks, Markdown fences and surrounding prose are ignored.
func ExtractJSON(response string) (string, error) {
	cleaned := thinkTagPattern.ReplaceAllString(response, "")

	objStart := strings.IndexByte(cleaned, '{')
	arrStart := strings.IndexByte(cleaned, '[')

	// Whichever bracket opens first decides the shape we try first.
	if objStart >= 0 && (arrStart < 0 || objStart < arrStart) {
		if candidate, ok := extractBalancedJSON(cleaned[objStart:], '{', '}'); ok && json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}
	if arrStart >= 0 {
		if candidate, ok := extractBalancedJSON(cleaned[arrStart:], '[', ']'); ok && json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	trimmed := strings.TrimSpace(cleaned)
	if json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}

	return "", fmt.Errorf("no valid JSON found in response")
}

// extractBalancedJSON returns the prefix of s that closes the bracket s starts with.
// String literals are skipped so brackets inside them do not count.
func extractBalancedJSON(s string, openChar, closeChar byte) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == openChar:
			depth++
		case c == closeChar:
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}

	return "", false
}

// ParseJSONResponse extracts JSON from a response and unmarshals it into T.
func ParseJSONResponse[T any](response string) (T, error) {
	var result T

	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return result, fmt.Errorf("unmarshal JSON: %w", err)
	}

	return result, nil
}

// ParseStringList parses a JSON array out of response. Non-string elements are
// rendered to text so a model answering with numbers or objects still yields a list.
func ParseStringList(response string) ([]string, error) {
	raw, err := ParseJSONResponse[[]json.RawMessage](response)
	if err != nil {
		return nil, err
	}

	items := make([]string, 0, len(raw))
	for _, r := range raw {
		if s := strings.TrimSpace(jsonutil.FlexibleStringValue(r)); s != "" {
			items = append(items, s)
		}
	}
	return items, nil
}

// NonEmptyLines splits text into trimmed, non-empty lines, keeping at most max.
func NonEmptyLines(text string, max int) []string {
	lines := make([]string, 0, max)
	for _, line := range strings.Split(text, "\n") {
		if len(lines) >= max {
			break
		}
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

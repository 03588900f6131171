// Package jsonutil decodes loosely-typed JSON produced by language models.
package jsonutil

import (
	"encoding/json"
	"strconv"
	"strings"
)

// textKeys are the object fields models use when they wrap a list item in an
// object, e.g. [{"insight": "..."}], checked in this order.
var textKeys = []string{"insight", "text", "content", "description", "summary", "title"}

// FlexibleStringValue converts a json.RawMessage to a string. Models
// asked for a list of strings sometimes return numbers, booleans or small
// objects instead. Returns "" for null and empty input.
func FlexibleStringValue(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case '{':
		if s, ok := objectText(raw); ok {
			return s
		}
	case 't', 'f':
		if b, err := strconv.ParseBool(trimmed); err == nil {
			return strconv.FormatBool(b)
		}
	default:
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	}

	return trimmed
}

// objectText returns the first non-empty text field of a JSON object.
func objectText(raw json.RawMessage) (string, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", false
	}
	for _, key := range textKeys {
		value, ok := fields[key]
		if !ok {
			continue
		}
		if s := FlexibleStringValue(value); s != "" {
			return s, true
		}
	}
	return "", false
}

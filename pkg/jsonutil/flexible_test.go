package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlexibleStringValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"string", `"Sales grew in Q3"`, "Sales grew in Q3"},
		{"escaped string", `"ROAS \"above\" 3"`, `ROAS "above" 3`},
		{"integer", `42`, "42"},
		{"float", `3.14`, "3.14"},
		{"negative", `-0.5`, "-0.5"},
		{"large integer stays plain", `1500000`, "1500000"},
		{"boolean true", `true`, "true"},
		{"boolean false", `false`, "false"},
		{"null", `null`, ""},
		{"empty", ``, ""},
		{"whitespace", `   `, ""},
		{"insight object", `{"insight":"Electronics lead revenue","priority":1}`, "Electronics lead revenue"},
		{"text object", `{"text":"Cut spend on low ROAS items"}`, "Cut spend on low ROAS items"},
		{"key order follows preference", `{"title":"T","insight":"I"}`, "I"},
		{"empty preferred key skipped", `{"insight":"","text":"fallback"}`, "fallback"},
		{"object without text keys", `{"score":5}`, `{"score":5}`},
		{"array falls back to raw", `["a","b"]`, `["a","b"]`},
		{"padded number", ` 7 `, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlexibleStringValue(json.RawMessage(tt.input)))
		})
	}
}

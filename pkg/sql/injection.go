package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// ScreenResult describes an injection-shaped input detected by libinjection.
type ScreenResult struct {
	Fingerprint string // libinjection fingerprint of the detected pattern
	Input       string
}

// ScreenQuestion checks a natural-language question for SQL injection patterns.
//
// Generated SQL is only ever interpreted by the in-memory engine, so a hit is
// an audit signal rather than a rejection. Returns nil when the input is clean.
//
// Example:
//
//	ScreenQuestion("What is my total sales?")       // nil
//	ScreenQuestion("1' OR '1'='1'; DROP TABLE x--") // &ScreenResult{Fingerprint: "s&sos", ...}
func ScreenQuestion(question string) *ScreenResult {
	isSQLi, fingerprint := libinjection.IsSQLi(question)
	if !isSQLi {
		return nil
	}
	return &ScreenResult{
		Fingerprint: string(fingerprint),
		Input:       question,
	}
}

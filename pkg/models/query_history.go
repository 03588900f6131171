package models

import (
	"time"
)

// QueryHistoryEntry records one successfully answered question.
// Entries are immutable once created.
type QueryHistoryEntry struct {
	ID        int64     `json:"id" yaml:"id"`
	Question  string    `json:"question" yaml:"question"`
	SQL       string    `json:"sql" yaml:"sql"`
	Result    string    `json:"result" yaml:"result"` // JSON-serialized row set
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// QueryResponse is returned for every question, successful or not.
type QueryResponse struct {
	Question      string `json:"question" yaml:"question"`
	SQL           string `json:"sql" yaml:"sql"`
	Result        string `json:"result" yaml:"result"`
	Answer        string `json:"answer" yaml:"answer"`
	ExecutionTime int64  `json:"executionTime" yaml:"executionTime"` // milliseconds
	TablesQueried int    `json:"tablesQueried" yaml:"tablesQueried"`
	Success       bool   `json:"success" yaml:"success"`
	Timestamp     string `json:"timestamp" yaml:"timestamp"` // RFC 3339
}

// QueryStage is a step of the question-answering pipeline.
type QueryStage string

const (
	StageReceived    QueryStage = "received"
	StageTranslating QueryStage = "translating"
	StageSanitizing  QueryStage = "sanitizing"
	StageExecuting   QueryStage = "executing"
	StageSummarizing QueryStage = "summarizing"
	StageCompleted   QueryStage = "completed"
	StageFailed      QueryStage = "failed"
)

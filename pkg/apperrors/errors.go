package apperrors

import "errors"

var (
	// ErrValidation marks a malformed request (e.g. missing question). Maps to HTTP 400.
	ErrValidation = errors.New("validation failed")

	// Pipeline failures. These are caught by the query orchestrator and reported
	// as an unsuccessful QueryResponse instead of an HTTP error.
	ErrTranslation   = errors.New("failed to convert question to SQL")
	ErrExecution     = errors.New("failed to execute query")
	ErrSummarization = errors.New("failed to summarize result")
)

// IsPipelineError reports whether err belongs to the query pipeline taxonomy.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrTranslation) ||
		errors.Is(err, ErrExecution) ||
		errors.Is(err, ErrSummarization)
}

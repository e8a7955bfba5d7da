// Package sqlexec defines the executor port: the database boundary that runs
// statements which already passed the validation and guardrail gates. The
// core records error text from engines without distinguishing error subtypes.
package sqlexec

import (
	"context"
	"time"
)

type Result struct {
	Columns  []string
	Rows     [][]any
	Duration time.Duration
}

type Engine interface {
	// Execute runs one read statement and returns its columns and rows.
	Execute(ctx context.Context, sqlText string) (Result, error)
	// Schema returns a human-readable description of tables and columns,
	// suitable for inclusion in a generation prompt.
	Schema(ctx context.Context) (string, error)
	Close() error
}

// NormalizeValues converts driver-specific byte slices to strings so results
// serialize cleanly to JSON.
func NormalizeValues(values []any) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		switch typed := value.(type) {
		case []byte:
			normalized[i] = string(typed)
		default:
			normalized[i] = typed
		}
	}
	return normalized
}

package nl2sql

import (
	"context"
	"strings"
)

// Request carries one translation call: a natural-language question and the
// schema description the generator should target.
type Request struct {
	Question string `json:"question"`
	Schema   string `json:"schema"`
}

// Result is the raw outcome of one generator call. SQL is untrusted text
// until it passes the validation and guardrail gates.
type Result struct {
	SQL      string `json:"sql"`
	Prompt   string `json:"prompt"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Translator is the generator port: given a schema and a question, return a
// candidate SQL statement. Implementations may block on network transport and
// must honor ctx cancellation.
type Translator interface {
	Translate(ctx context.Context, req Request) (Result, error)
}

// StripMarkdownFence extracts the interior of the first triple-backtick
// block, with or without a language tag. Generators often wrap the statement
// in a fence and surround it with prose; everything outside the fence is
// dropped. Text without a fence is returned trimmed.
func StripMarkdownFence(value string) string {
	trimmed := strings.TrimSpace(value)
	if !strings.Contains(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) == 1 {
		stripped := strings.Trim(lines[0], "`")
		stripped = strings.TrimPrefix(stripped, "sql")
		return strings.TrimSpace(stripped)
	}

	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			start = i
			break
		}
	}
	if start == -1 {
		return trimmed
	}
	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "```" {
			end = i
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines[start+1:end], "\n"))
}

package sqlcheck

import (
	"fmt"
	"regexp"
	"strings"
)

// Guardrail detects injection-shaped constructs that can survive the keyword
// gate in Validate: stacked statements, UNION exfiltration, and comment-based
// truncation. It is a best-effort heuristic, not a SQL parser.
type Guardrail struct{}

type disallowedPattern struct {
	re   *regexp.Regexp
	rule string
	name string
}

var disallowedPatterns = []disallowedPattern{
	{regexp.MustCompile(`(?i);\s*DROP`), "stacked_drop", "stacked DROP statement"},
	{regexp.MustCompile(`(?i);\s*DELETE`), "stacked_delete", "stacked DELETE statement"},
	{regexp.MustCompile(`(?i);\s*TRUNCATE`), "stacked_truncate", "stacked TRUNCATE statement"},
	{regexp.MustCompile(`(?i)UNION.*SELECT`), "union_select", "UNION-based SELECT"},
	{regexp.MustCompile(`--`), "line_comment", "single-line comment"},
	{regexp.MustCompile(`/\*.*\*/`), "block_comment", "block comment"},
}

var (
	lineCommentRE  = regexp.MustCompile(`(?m)--.*$`)
	blockCommentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// CheckSafety rejects statements matching any disallowed pattern, and
// independently rejects any text that splits into more than one non-empty
// statement on semicolons, even when no pattern matched.
func (Guardrail) CheckSafety(query string) Verdict {
	for _, pattern := range disallowedPatterns {
		if pattern.re.MatchString(query) {
			return Reject(pattern.rule, fmt.Sprintf("query contains disallowed pattern: %s", pattern.name))
		}
	}

	statements := 0
	for _, segment := range strings.Split(query, ";") {
		if strings.TrimSpace(segment) != "" {
			statements++
		}
	}
	if statements > 1 {
		return Reject("multiple_statements", "multiple SQL statements are not allowed")
	}

	return Accept("query passed safety checks")
}

// Sanitize strips line comments, block comments, and trailing semicolons.
// It is a normalization step applied before the gates run, never a substitute
// for them. Sanitize is idempotent.
func (Guardrail) Sanitize(query string) string {
	query = lineCommentRE.ReplaceAllString(query, "")
	query = blockCommentRE.ReplaceAllString(query, "")
	query = strings.TrimRight(query, "; \t\r\n")
	return strings.TrimSpace(query)
}

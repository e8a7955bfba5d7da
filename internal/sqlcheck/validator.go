package sqlcheck

import (
	"fmt"
	"strings"
)

// Verdict is the outcome of a validation or safety check. Reason carries a
// human-readable explanation suitable for direct display; Rule is the stable
// name of the rule that rejected, used as a metric label.
type Verdict struct {
	OK     bool
	Rule   string
	Reason string
}

func Accept(reason string) Verdict {
	return Verdict{OK: true, Reason: reason}
}

func Reject(rule, reason string) Verdict {
	return Verdict{OK: false, Rule: rule, Reason: reason}
}

// dangerousKeywords force rejection when present anywhere in the statement,
// not just as the leading token, since they could follow a stacked statement.
var dangerousKeywords = []string{
	"DROP", "DELETE", "TRUNCATE", "ALTER",
	"INSERT", "UPDATE", "CREATE", "MODIFY",
}

// Validate applies the read-only policy gate to a candidate statement. Rules
// run in order and the first failure wins: non-empty, leading SELECT token,
// keyword deny-list (skipped when allowUnsafe), balanced parentheses, and an
// even count of single quotes. It is a pure function of its input.
func Validate(query string, allowUnsafe bool) Verdict {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return Reject("empty_query", "query is empty")
	}

	if !isSelect(trimmed) {
		return Reject("not_select", "only SELECT queries are supported")
	}

	if !allowUnsafe {
		if keyword, found := findDangerousKeyword(trimmed); found {
			return Reject("dangerous_keyword", fmt.Sprintf("query contains potentially dangerous keyword: %s", keyword))
		}
	}

	if strings.Count(trimmed, "(") != strings.Count(trimmed, ")") {
		return Reject("unmatched_parentheses", "unmatched parentheses")
	}
	if strings.Count(trimmed, "'")%2 != 0 {
		return Reject("unmatched_quotes", "unmatched single quotes")
	}

	return Accept("query is valid")
}

func isSelect(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT")
}

func findDangerousKeyword(query string) (string, bool) {
	upper := strings.ToUpper(query)
	for _, keyword := range dangerousKeywords {
		if strings.Contains(upper, keyword) {
			return keyword, true
		}
	}
	return "", false
}

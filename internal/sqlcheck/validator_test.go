package sqlcheck

import (
	"strings"
	"testing"
)

func TestValidateAcceptsPlainSelect(t *testing.T) {
	verdict := Validate("SELECT Name FROM Students WHERE Age > 18", false)
	if !verdict.OK {
		t.Fatalf("Validate() rejected valid query: %s", verdict.Reason)
	}
	if verdict.Reason != "query is valid" {
		t.Fatalf("Reason = %q", verdict.Reason)
	}
}

func TestValidateRejectsEmptyQuery(t *testing.T) {
	for _, query := range []string{"", "   ", "\n\t"} {
		verdict := Validate(query, false)
		if verdict.OK {
			t.Fatalf("Validate(%q) accepted empty query", query)
		}
		if verdict.Reason != "query is empty" {
			t.Fatalf("Reason = %q", verdict.Reason)
		}
	}
}

func TestValidateRejectsNonSelect(t *testing.T) {
	verdict := Validate("DELETE FROM Students", false)
	if verdict.OK {
		t.Fatal("Validate() accepted a DELETE statement")
	}
	if verdict.Reason != "only SELECT queries are supported" {
		t.Fatalf("Reason = %q", verdict.Reason)
	}
}

func TestValidateRejectsDangerousKeywords(t *testing.T) {
	cases := map[string]string{
		"SELECT 1; DROP TABLE Students":              "DROP",
		"SELECT 1; delete from Students":             "DELETE",
		"SELECT * FROM t WHERE id IN (1); TRUNCATE x": "TRUNCATE",
		"SELECT 1; INSERT INTO t VALUES (1)":         "INSERT",
	}
	for query, keyword := range cases {
		verdict := Validate(query, false)
		if verdict.OK {
			t.Fatalf("Validate(%q) accepted dangerous query", query)
		}
		if !strings.Contains(verdict.Reason, keyword) {
			t.Fatalf("Reason = %q, want keyword %q named", verdict.Reason, keyword)
		}
	}
}

func TestValidateAllowUnsafeSkipsKeywordScan(t *testing.T) {
	verdict := Validate("SELECT 1; DROP TABLE Students", true)
	if !verdict.OK {
		t.Fatalf("Validate(allowUnsafe) rejected: %s", verdict.Reason)
	}
}

func TestValidateRejectsUnbalancedSyntax(t *testing.T) {
	verdict := Validate("SELECT COUNT( FROM Students", false)
	if verdict.OK || verdict.Reason != "unmatched parentheses" {
		t.Fatalf("verdict = %+v", verdict)
	}

	verdict = Validate("SELECT * FROM Students WHERE Name = 'Ana", false)
	if verdict.OK || verdict.Reason != "unmatched single quotes" {
		t.Fatalf("verdict = %+v", verdict)
	}
}

func TestValidateIsCaseInsensitive(t *testing.T) {
	verdict := Validate("  select name from students  ", false)
	if !verdict.OK {
		t.Fatalf("Validate() rejected lowercase select: %s", verdict.Reason)
	}
}

func TestValidateNamesRejectingRule(t *testing.T) {
	cases := map[string]string{
		"":                            "empty_query",
		"UPDATE Students SET Age = 1": "not_select",
		"SELECT 1; DROP TABLE Marks":  "dangerous_keyword",
		"SELECT COUNT( FROM Students": "unmatched_parentheses",
		"SELECT * WHERE Name = 'Ana":  "unmatched_quotes",
	}
	for query, rule := range cases {
		verdict := Validate(query, false)
		if verdict.OK {
			t.Fatalf("Validate(%q) accepted", query)
		}
		if verdict.Rule != rule {
			t.Fatalf("Validate(%q).Rule = %q, want %q", query, verdict.Rule, rule)
		}
	}
}

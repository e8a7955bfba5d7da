package sqlcheck

import (
	"strings"
	"testing"
)

func TestCheckSafetyAcceptsSingleSelect(t *testing.T) {
	var guard Guardrail
	verdict := guard.CheckSafety("SELECT Name FROM Students WHERE Age > 18")
	if !verdict.OK {
		t.Fatalf("CheckSafety() rejected safe query: %s", verdict.Reason)
	}
}

func TestCheckSafetyRejectsStackedStatements(t *testing.T) {
	var guard Guardrail
	verdict := guard.CheckSafety("SELECT * FROM Students; DROP TABLE Students")
	if verdict.OK {
		t.Fatal("CheckSafety() accepted stacked DROP")
	}
}

func TestCheckSafetyRejectsBenignMultipleStatements(t *testing.T) {
	var guard Guardrail
	verdict := guard.CheckSafety("SELECT 1; SELECT 2")
	if verdict.OK {
		t.Fatal("CheckSafety() accepted two statements")
	}
	if verdict.Reason != "multiple SQL statements are not allowed" {
		t.Fatalf("Reason = %q", verdict.Reason)
	}
}

func TestCheckSafetyRejectsUnionSelect(t *testing.T) {
	var guard Guardrail
	verdict := guard.CheckSafety("SELECT Name FROM Students UNION SELECT secret FROM Admins")
	if verdict.OK {
		t.Fatal("CheckSafety() accepted UNION SELECT")
	}
	if !strings.Contains(verdict.Reason, "UNION") {
		t.Fatalf("Reason = %q", verdict.Reason)
	}
}

func TestCheckSafetyRejectsComments(t *testing.T) {
	var guard Guardrail
	for _, query := range []string{
		"SELECT Name FROM Students -- WHERE Age > 18",
		"SELECT Name /* hidden */ FROM Students",
	} {
		if verdict := guard.CheckSafety(query); verdict.OK {
			t.Fatalf("CheckSafety(%q) accepted commented query", query)
		}
	}
}

func TestSanitizeStripsCommentsAndSemicolons(t *testing.T) {
	var guard Guardrail
	got := guard.Sanitize("SELECT Name /* inline */ FROM Students -- trailing\n;")
	want := "SELECT Name  FROM Students"
	if got != want {
		t.Fatalf("Sanitize() = %q, want %q", got, want)
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	var guard Guardrail
	queries := []string{
		"SELECT 1;",
		"SELECT Name FROM Students -- note",
		"/* header */ SELECT * FROM Marks;;",
		"SELECT 1 ; ;",
		"SELECT 1;\t;\n;",
		"",
	}
	for _, query := range queries {
		once := guard.Sanitize(query)
		twice := guard.Sanitize(once)
		if once != twice {
			t.Fatalf("Sanitize not idempotent for %q: %q != %q", query, once, twice)
		}
	}
}

func TestSanitizeStripsInterleavedTrailingSemicolons(t *testing.T) {
	var guard Guardrail
	if got := guard.Sanitize("SELECT 1 ; ;"); got != "SELECT 1" {
		t.Fatalf("Sanitize() = %q, want %q", got, "SELECT 1")
	}
}

func TestSanitizedQueryPassesGates(t *testing.T) {
	var guard Guardrail
	cleaned := guard.Sanitize("SELECT Name FROM Students;")
	if verdict := Validate(cleaned, false); !verdict.OK {
		t.Fatalf("Validate() rejected sanitized query: %s", verdict.Reason)
	}
	if verdict := guard.CheckSafety(cleaned); !verdict.OK {
		t.Fatalf("CheckSafety() rejected sanitized query: %s", verdict.Reason)
	}
}

func TestCheckSafetyNamesRejectingRule(t *testing.T) {
	var guard Guardrail
	cases := map[string]string{
		"SELECT 1; DROP TABLE Students":     "stacked_drop",
		"SELECT Name FROM a UNION SELECT b": "union_select",
		"SELECT Name -- hidden":             "line_comment",
		"SELECT 1; SELECT 2":                "multiple_statements",
	}
	for query, rule := range cases {
		verdict := guard.CheckSafety(query)
		if verdict.OK {
			t.Fatalf("CheckSafety(%q) accepted", query)
		}
		if verdict.Rule != rule {
			t.Fatalf("CheckSafety(%q).Rule = %q, want %q", query, verdict.Rule, rule)
		}
	}
}

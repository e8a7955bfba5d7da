// Package dataset loads the labeled question/query pairs an evaluation run
// scores models against.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// TestCase is one labeled evaluation input. ExpectedQuery and
// ExpectedColumns are optional; similarity metrics are skipped without a
// reference query.
type TestCase struct {
	ID              int      `json:"id"`
	Question        string   `json:"question"`
	ExpectedQuery   string   `json:"expected_query,omitempty"`
	ExpectedColumns []string `json:"expected_columns,omitempty"`
}

// LoadFile reads a JSON array of test cases. A missing file yields an empty
// slice and no error: callers treat "no test cases" as a valid, if useless,
// state.
func LoadFile(path string) ([]TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []TestCase{}, nil
		}
		return nil, fmt.Errorf("read dataset %q: %w", path, err)
	}

	var cases []TestCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("decode dataset %q: %w", path, err)
	}
	return cases, nil
}

// Sample returns a small built-in dataset matching the demo student schema.
func Sample() []TestCase {
	return []TestCase{
		{
			ID:            1,
			Question:      "From students attendance find top 5 students with highest attendance and give me their marks in math.",
			ExpectedQuery: "SELECT T2.Name, T1.Math FROM Marks AS T1 JOIN Students AS T2 ON T1.StudentID = T2.StudentID WHERE T2.Name IN (SELECT T4.Name FROM Attendance AS T3 JOIN Students AS T4 ON T3.StudentID = T4.StudentID ORDER BY T3.AttendancePercentage DESC LIMIT 5)",
			ExpectedColumns: []string{"Name", "Math"},
		},
		{
			ID:            2,
			Question:      "Show me all students with their math marks.",
			ExpectedQuery: "SELECT s.Name, m.Math FROM Students s JOIN Marks m ON s.StudentID = m.StudentID",
			ExpectedColumns: []string{"Name", "Math"},
		},
	}
}

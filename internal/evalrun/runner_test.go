package evalrun

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/querysmith/querysmith/internal/dataset"
	"github.com/querysmith/querysmith/internal/sqlexec"
)

type fakeEngine struct {
	rows     int
	failWith error
	executed []string
}

func (f *fakeEngine) Execute(_ context.Context, sqlText string) (sqlexec.Result, error) {
	f.executed = append(f.executed, sqlText)
	if f.failWith != nil {
		return sqlexec.Result{}, f.failWith
	}
	rows := make([][]any, f.rows)
	for i := range rows {
		rows[i] = []any{i}
	}
	return sqlexec.Result{Columns: []string{"value"}, Rows: rows}, nil
}

func (f *fakeEngine) Schema(context.Context) (string, error) { return "", nil }

func (f *fakeEngine) Close() error { return nil }

func threeCases() []dataset.TestCase {
	return []dataset.TestCase{
		{ID: 1, Question: "How many students?", ExpectedQuery: "SELECT COUNT(*) FROM Students"},
		{ID: 2, Question: "All names?", ExpectedQuery: "SELECT Name FROM Students"},
		{ID: 3, Question: "Drop it?", ExpectedQuery: ""},
	}
}

func TestRunProducesOneResultPerCase(t *testing.T) {
	engine := &fakeEngine{rows: 4}
	runner := &Runner{}
	infer := func(_ context.Context, question string) (string, error) {
		return "SELECT COUNT(*) FROM Students", nil
	}

	results := runner.Run(context.Background(), engine, threeCases(), infer, "phi")
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	for i, result := range results {
		if result.TestID != i+1 {
			t.Fatalf("results[%d].TestID = %d, result ordering broken", i, result.TestID)
		}
		if result.Model != "phi" {
			t.Fatalf("results[%d].Model = %q", i, result.Model)
		}
		if !result.IsValid || !result.ExecutionSuccess {
			t.Fatalf("results[%d] not valid+executed: %+v", i, result)
		}
		if result.ResultRows != 4 {
			t.Fatalf("results[%d].ResultRows = %d, want 4", i, result.ResultRows)
		}
	}
	if results[0].SimilarityMetrics["exact_match"] != 1.0 {
		t.Fatalf("exact_match = %v, want 1.0 for identical query", results[0].SimilarityMetrics["exact_match"])
	}
	if results[0].CompositeScore != 1.0 {
		t.Fatalf("CompositeScore = %v, want 1.0", results[0].CompositeScore)
	}
}

func TestRunStripsFencesAndComments(t *testing.T) {
	engine := &fakeEngine{rows: 1}
	runner := &Runner{}
	infer := func(context.Context, string) (string, error) {
		return "```sql\nSELECT Name FROM Students; -- students\n```", nil
	}

	results := runner.Run(context.Background(), engine, threeCases()[:1], infer, "phi")
	if got := results[0].GeneratedQuery; got != "SELECT Name FROM Students" {
		t.Fatalf("GeneratedQuery = %q", got)
	}
	if !results[0].IsValid {
		t.Fatalf("cleaned query rejected: %q", results[0].ValidationMsg)
	}
	if engine.executed[0] != "SELECT Name FROM Students" {
		t.Fatalf("executed %q, want cleaned query", engine.executed[0])
	}
}

func TestRunRecordsInvalidQueriesWithoutExecuting(t *testing.T) {
	engine := &fakeEngine{rows: 1}
	runner := &Runner{}
	infer := func(context.Context, string) (string, error) {
		return "DROP TABLE Students", nil
	}

	results := runner.Run(context.Background(), engine, threeCases()[:1], infer, "phi")
	result := results[0]
	if result.IsValid {
		t.Fatal("DROP statement accepted")
	}
	if result.ExecutionSuccess {
		t.Fatal("invalid query was executed")
	}
	if len(engine.executed) != 0 {
		t.Fatalf("engine saw %d statements, want 0", len(engine.executed))
	}
	if !strings.Contains(result.ValidationMsg, "SELECT") {
		t.Fatalf("ValidationMsg = %q", result.ValidationMsg)
	}
}

func TestRunCapturesExecutionErrors(t *testing.T) {
	engine := &fakeEngine{failWith: errors.New("table Students does not exist")}
	runner := &Runner{}
	infer := func(context.Context, string) (string, error) {
		return "SELECT * FROM Students", nil
	}

	result := runner.Run(context.Background(), engine, threeCases()[:1], infer, "phi")[0]
	if !result.IsValid {
		t.Fatal("valid query reported invalid")
	}
	if result.ExecutionSuccess {
		t.Fatal("ExecutionSuccess true despite engine error")
	}
	if !strings.Contains(result.Error, "does not exist") {
		t.Fatalf("Error = %q", result.Error)
	}
}

func TestRunSurvivesInferenceErrorsAndPanics(t *testing.T) {
	engine := &fakeEngine{rows: 1}
	runner := &Runner{}
	calls := 0
	infer := func(context.Context, string) (string, error) {
		calls++
		switch calls {
		case 1:
			return "", errors.New("connection refused")
		case 2:
			panic("model backend crashed")
		default:
			return "SELECT COUNT(*) FROM Students", nil
		}
	}

	results := runner.Run(context.Background(), engine, threeCases(), infer, "phi")
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if results[0].Error == "" || results[0].IsValid {
		t.Fatalf("results[0] = %+v, want recorded error", results[0])
	}
	if !strings.Contains(results[1].Error, "panic") {
		t.Fatalf("results[1].Error = %q, want panic recorded", results[1].Error)
	}
	if !results[2].ExecutionSuccess {
		t.Fatalf("results[2] = %+v, later cases must still run", results[2])
	}
}

func TestRunModelsIsolatesBrokenModels(t *testing.T) {
	engine := &fakeEngine{rows: 2}
	runner := &Runner{}
	factory := func(model string) (InferFunc, error) {
		if model == "missing" {
			return nil, fmt.Errorf("model %q is not installed", model)
		}
		return func(context.Context, string) (string, error) {
			return "SELECT COUNT(*) FROM Students", nil
		}, nil
	}

	runs := runner.RunModels(context.Background(), engine, threeCases(), factory, []string{"phi", "missing", "llama3"})
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}
	if runs[1].Summary.Error == "" {
		t.Fatal("missing model has no error marker")
	}
	if len(runs[1].Results) != 0 {
		t.Fatalf("missing model produced %d results", len(runs[1].Results))
	}
	for _, i := range []int{0, 2} {
		if runs[i].Summary.Error != "" {
			t.Fatalf("runs[%d] errored: %q", i, runs[i].Summary.Error)
		}
		if runs[i].Summary.TotalTests != 3 {
			t.Fatalf("runs[%d].Summary.TotalTests = %d", i, runs[i].Summary.TotalTests)
		}
	}
}

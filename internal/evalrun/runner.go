// Package evalrun drives dataset evaluations of text-to-SQL models and
// aggregates their results into per-model summaries and cross-model
// comparisons.
package evalrun

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/querysmith/querysmith/internal/dataset"
	"github.com/querysmith/querysmith/internal/nl2sql"
	"github.com/querysmith/querysmith/internal/observability"
	"github.com/querysmith/querysmith/internal/simscore"
	"github.com/querysmith/querysmith/internal/sqlcheck"
	"github.com/querysmith/querysmith/internal/sqlexec"
)

// InferFunc produces raw model output for a question. The database schema is
// bound by the caller before the run starts.
type InferFunc func(ctx context.Context, question string) (string, error)

// Result captures the outcome of evaluating one model on one test case.
type Result struct {
	TestID            int                `json:"test_id"`
	Model             string             `json:"model"`
	Question          string             `json:"question"`
	GeneratedQuery    string             `json:"generated_query"`
	ExpectedQuery     string             `json:"expected_query"`
	IsValid           bool               `json:"is_valid"`
	ValidationMsg     string             `json:"validation_msg"`
	ExecutionSuccess  bool               `json:"execution_success"`
	Error             string             `json:"error,omitempty"`
	GenerationTimeSec float64            `json:"generation_time_sec"`
	ExecutionTimeSec  float64            `json:"execution_time_sec"`
	ResultRows        int                `json:"result_rows"`
	SimilarityMetrics map[string]float64 `json:"similarity_metrics"`
	CompositeScore    float64            `json:"composite_score"`
}

// Runner evaluates models against a labeled dataset. Results are produced in
// dataset order and a single bad test case never aborts the pass.
type Runner struct {
	Guard       sqlcheck.Guardrail
	AllowUnsafe bool
	Weights     map[string]float64
	Logger      *slog.Logger
}

// Run evaluates one model over the dataset. The engine is shared across the
// whole pass and statements run strictly sequentially.
func (r *Runner) Run(ctx context.Context, engine sqlexec.Engine, cases []dataset.TestCase, infer InferFunc, modelName string) []Result {
	results := make([]Result, 0, len(cases))
	for _, testCase := range cases {
		results = append(results, r.evaluateCase(ctx, engine, testCase, infer, modelName))
	}
	return results
}

func (r *Runner) evaluateCase(ctx context.Context, engine sqlexec.Engine, testCase dataset.TestCase, infer InferFunc, modelName string) Result {
	result := Result{
		TestID:        testCase.ID,
		Model:         modelName,
		Question:      testCase.Question,
		ExpectedQuery: testCase.ExpectedQuery,
	}

	started := time.Now()
	raw, err := safeInfer(ctx, infer, testCase.Question)
	result.GenerationTimeSec = time.Since(started).Seconds()
	observability.ObserveGeneration(time.Since(started), err == nil)

	if err != nil {
		result.Error = err.Error()
		result.ValidationMsg = "generation failed"
		if r.Logger != nil {
			r.Logger.WarnContext(ctx, "generation failed",
				slog.String("model", modelName),
				slog.Int("test_id", testCase.ID),
				slog.String("error", err.Error()))
		}
		r.score(&result)
		return result
	}

	cleaned := r.Guard.Sanitize(nl2sql.StripMarkdownFence(raw))
	result.GeneratedQuery = cleaned

	verdict := sqlcheck.Validate(cleaned, r.AllowUnsafe)
	result.ValidationMsg = verdict.Reason
	if !verdict.OK {
		observability.IncrementValidationRejected(verdict.Rule)
		r.score(&result)
		return result
	}
	if safety := r.Guard.CheckSafety(cleaned); !safety.OK {
		result.ValidationMsg = safety.Reason
		observability.IncrementGuardrailRejected(safety.Rule)
		r.score(&result)
		return result
	}
	result.IsValid = true

	execStarted := time.Now()
	execResult, execErr := engine.Execute(ctx, cleaned)
	result.ExecutionTimeSec = time.Since(execStarted).Seconds()
	observability.ObserveExecution(time.Since(execStarted))
	if execErr != nil {
		result.Error = execErr.Error()
	} else {
		result.ExecutionSuccess = true
		result.ResultRows = len(execResult.Rows)
	}

	r.score(&result)
	return result
}

func (r *Runner) score(result *Result) {
	result.SimilarityMetrics = simscore.ScorePair(result.GeneratedQuery, result.ExpectedQuery)
	result.CompositeScore = simscore.Composite(result.SimilarityMetrics, r.Weights)
}

// safeInfer converts a panicking generator into an ordinary error so one test
// case cannot take down the dataset pass.
func safeInfer(ctx context.Context, infer InferFunc, question string) (raw string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("inference panic: %v", recovered)
		}
	}()
	return infer(ctx, question)
}

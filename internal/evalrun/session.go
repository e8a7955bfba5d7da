package evalrun

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/querysmith/querysmith/internal/dataset"
	"github.com/querysmith/querysmith/internal/sqlexec"
)

// ModelRun pairs one model's raw results with its summary.
type ModelRun struct {
	Model   string       `json:"model"`
	Results []Result     `json:"results"`
	Summary ModelSummary `json:"summary"`
}

// InferFactory builds the inference function for one model name. It may fail,
// for example when the model is not installed on the serving backend.
type InferFactory func(model string) (InferFunc, error)

// RunModels evaluates each model in order over the shared dataset and engine.
// A model that cannot be evaluated is recorded with an errored summary and the
// remaining models still run.
func (r *Runner) RunModels(ctx context.Context, engine sqlexec.Engine, cases []dataset.TestCase, factory InferFactory, models []string) []ModelRun {
	runs := make([]ModelRun, 0, len(models))
	for _, model := range models {
		runs = append(runs, r.runModel(ctx, engine, cases, factory, model))
	}
	return runs
}

func (r *Runner) runModel(ctx context.Context, engine sqlexec.Engine, cases []dataset.TestCase, factory InferFactory, model string) (run ModelRun) {
	run = ModelRun{Model: model}
	defer func() {
		if recovered := recover(); recovered != nil {
			run.Summary = ModelSummary{Model: model, Error: fmt.Sprintf("evaluation panic: %v", recovered)}
			if r.Logger != nil {
				r.Logger.ErrorContext(ctx, "model evaluation panicked",
					slog.String("model", model),
					slog.Any("panic", recovered))
			}
		}
	}()

	infer, err := factory(model)
	if err != nil {
		run.Summary = ModelSummary{Model: model, Error: err.Error()}
		if r.Logger != nil {
			r.Logger.ErrorContext(ctx, "model unavailable",
				slog.String("model", model),
				slog.String("error", err.Error()))
		}
		return run
	}

	run.Results = r.Run(ctx, engine, cases, infer, model)
	run.Summary = Summarize(model, run.Results)
	return run
}

package nl2sql

import (
	"context"
	"log/slog"
	"time"

	"github.com/querysmith/querysmith/internal/observability"
	"github.com/querysmith/querysmith/internal/sqlcheck"
)

// Generation is the outcome of a bounded-retry generation attempt. SQL holds
// the last candidate even when Success is false so callers can show what the
// generator produced alongside the rejection reason.
type Generation struct {
	SQL        string
	Prompt     string
	Diagnostic string
	Attempts   int
	Success    bool
}

// Orchestrator drives the generate -> clean -> validate -> guard loop.
// Generation transport errors and policy rejections share the same retry
// counter. It never reports success for a statement that failed either gate.
type Orchestrator struct {
	Translator  Translator
	Guard       sqlcheck.Guardrail
	MaxRetries  int
	AllowUnsafe bool
	Logger      *slog.Logger
}

// GenerateSafe runs up to MaxRetries attempts with an unchanged question and
// schema. Exhausting retries is reported through Success=false, not an error;
// the caller decides what to surface.
func (o *Orchestrator) GenerateSafe(ctx context.Context, question, schema string) Generation {
	maxRetries := o.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	generation := Generation{}
	for attempt := 1; attempt <= maxRetries; attempt++ {
		generation.Attempts = attempt

		start := time.Now()
		result, err := o.Translator.Translate(ctx, Request{Question: question, Schema: schema})
		observability.ObserveGeneration(time.Since(start), err == nil)
		if err != nil {
			generation.Diagnostic = err.Error()
			o.warn(ctx, "generation failed", attempt, maxRetries, generation.Diagnostic)
			continue
		}

		candidate := o.Guard.Sanitize(StripMarkdownFence(result.SQL))
		generation.SQL = candidate
		generation.Prompt = result.Prompt

		if verdict := sqlcheck.Validate(candidate, o.AllowUnsafe); !verdict.OK {
			generation.Diagnostic = verdict.Reason
			observability.IncrementValidationRejected(verdict.Rule)
			o.warn(ctx, "validation rejected candidate", attempt, maxRetries, verdict.Reason)
			continue
		}
		if verdict := o.Guard.CheckSafety(candidate); !verdict.OK {
			generation.Diagnostic = verdict.Reason
			observability.IncrementGuardrailRejected(verdict.Rule)
			o.warn(ctx, "guardrail rejected candidate", attempt, maxRetries, verdict.Reason)
			continue
		}

		generation.Diagnostic = ""
		generation.Success = true
		break
	}

	if generation.Attempts > 1 {
		observability.ObserveGenerationRetries(generation.Attempts - 1)
	}
	return generation
}

func (o *Orchestrator) warn(ctx context.Context, message string, attempt, maxRetries int, reason string) {
	if o.Logger == nil {
		return
	}
	o.Logger.WarnContext(ctx, message,
		slog.Int("attempt", attempt),
		slog.Int("max_retries", maxRetries),
		slog.String("reason", reason),
	)
}

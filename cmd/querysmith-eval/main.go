package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/querysmith/querysmith/internal/config"
	"github.com/querysmith/querysmith/internal/dataset"
	"github.com/querysmith/querysmith/internal/evalrun"
	"github.com/querysmith/querysmith/internal/nl2sql"
	"github.com/querysmith/querysmith/internal/observability"
	"github.com/querysmith/querysmith/internal/report"
	"github.com/querysmith/querysmith/internal/sqlexec"
	duckdbengine "github.com/querysmith/querysmith/internal/sqlexec/duckdb"
	postgresengine "github.com/querysmith/querysmith/internal/sqlexec/postgres"
	s3store "github.com/querysmith/querysmith/internal/storage/s3"
)

func main() {
	cfg, err := config.LoadFromEnv("querysmith-eval")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("evaluation failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	engine, err := openEngine(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open query engine: %w", err)
	}
	defer func() { _ = engine.Close() }()

	cases, err := dataset.LoadFile(cfg.Eval.DatasetPath)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	if len(cases) == 0 {
		logger.Warn("dataset is empty, using bundled sample cases",
			slog.String("path", cfg.Eval.DatasetPath))
		cases = dataset.Sample()
	}

	schema, err := engine.Schema(ctx)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}

	factory := func(model string) (evalrun.InferFunc, error) {
		translator, err := buildTranslator(cfg, model)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, question string) (string, error) {
			result, err := translator.Translate(ctx, nl2sql.Request{Question: question, Schema: schema})
			if err != nil {
				return "", err
			}
			return result.SQL, nil
		}, nil
	}

	runner := &evalrun.Runner{
		AllowUnsafe: cfg.Eval.AllowUnsafe,
		Logger:      logger,
	}

	logger.Info("starting evaluation",
		slog.Int("test_cases", len(cases)),
		slog.Any("models", cfg.Eval.Models))
	started := time.Now()
	runs := runner.RunModels(ctx, engine, cases, factory, cfg.Eval.Models)

	summaries := make([]evalrun.ModelSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, run.Summary)
		if run.Summary.Error != "" {
			logger.Warn("model evaluation errored",
				slog.String("model", run.Model),
				slog.String("error", run.Summary.Error))
			continue
		}
		logger.Info("model evaluated",
			slog.String("model", run.Model),
			slog.Float64("validity_pct", run.Summary.ValidityPct),
			slog.Float64("execution_pct", run.Summary.ExecutionPct),
			slog.Float64("avg_composite", run.Summary.AvgComposite))
	}

	out := report.Report{
		GeneratedAt: time.Now().UTC(),
		Dataset:     cfg.Eval.DatasetPath,
		TestCases:   len(cases),
		Runs:        runs,
		Comparison:  evalrun.Compare(summaries),
	}
	paths, err := report.WriteFiles(out, cfg.Eval.OutputDir)
	if err != nil {
		return fmt.Errorf("write reports: %w", err)
	}
	logger.Info("evaluation complete",
		slog.Duration("elapsed", time.Since(started)),
		slog.Any("reports", paths))

	if !cfg.Eval.UploadReports {
		return nil
	}

	store, err := s3store.New(ctx, s3store.Config{
		Endpoint:         cfg.ObjectStore.Endpoint,
		Region:           cfg.ObjectStore.Region,
		Bucket:           cfg.ObjectStore.Bucket,
		AccessKeyID:      cfg.ObjectStore.AccessKeyID,
		SecretAccessKey:  cfg.ObjectStore.SecretAccessKey,
		UseSSL:           cfg.ObjectStore.UseSSL,
		Prefix:           cfg.ObjectStore.Prefix,
		AutoCreateBucket: cfg.ObjectStore.AutoCreateBucket,
	})
	if err != nil {
		return fmt.Errorf("initialize object store: %w", err)
	}
	keys, err := report.Upload(ctx, store, string(cfg.Profile), out.GeneratedAt, paths)
	if err != nil {
		return fmt.Errorf("upload reports: %w", err)
	}
	logger.Info("reports uploaded", slog.Any("keys", keys))
	return nil
}

func openEngine(ctx context.Context, cfg config.Config) (sqlexec.Engine, error) {
	switch cfg.Database.Driver {
	case "duckdb":
		engine, err := duckdbengine.Open(duckdbengine.Config{
			Path:     cfg.Database.Path,
			RowLimit: cfg.Database.RowLimit,
		})
		if err != nil {
			return nil, err
		}
		if cfg.Database.Path == "" {
			if err := engine.Bootstrap(ctx, duckdbengine.SampleSchema()); err != nil {
				_ = engine.Close()
				return nil, err
			}
		}
		return engine, nil
	case "postgres":
		return postgresengine.Open(ctx, postgresengine.Config{
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			RowLimit:        cfg.Database.RowLimit,
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func buildTranslator(cfg config.Config, model string) (nl2sql.Translator, error) {
	switch cfg.LLM.Provider {
	case "ollama":
		return nl2sql.NewOllamaTranslator(nl2sql.OllamaConfig{
			BaseURL:     cfg.LLM.BaseURL,
			Model:       model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		})
	case "openai":
		return nl2sql.NewOpenAITranslator(nl2sql.OpenAIConfig{
			BaseURL:     cfg.LLM.BaseURL,
			APIKey:      cfg.LLM.APIKey,
			Model:       model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		})
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
	}
}

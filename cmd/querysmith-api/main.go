package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/querysmith/querysmith/internal/api"
	"github.com/querysmith/querysmith/internal/auth"
	"github.com/querysmith/querysmith/internal/config"
	"github.com/querysmith/querysmith/internal/nl2sql"
	"github.com/querysmith/querysmith/internal/observability"
	"github.com/querysmith/querysmith/internal/sqlexec"
	duckdbengine "github.com/querysmith/querysmith/internal/sqlexec/duckdb"
	postgresengine "github.com/querysmith/querysmith/internal/sqlexec/postgres"
)

func main() {
	cfg, err := config.LoadFromEnv("querysmith-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, err := openEngine(ctx, cfg)
	if err != nil {
		logger.Error("failed to open query engine", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = engine.Close() }()

	translator, err := buildTranslator(cfg, cfg.LLM.Model)
	if err != nil {
		logger.Error("failed to initialize query translator", slog.Any("error", err))
		os.Exit(1)
	}

	deps := api.Dependencies{
		Logger: logger,
		Engine: engine,
		Orchestrator: &nl2sql.Orchestrator{
			Translator:  translator,
			MaxRetries:  cfg.LLM.MaxRetries,
			AllowUnsafe: false,
			Logger:      logger,
		},
		Readiness: api.CombineReadinessChecks(
			api.CheckDatabaseConfig(cfg),
			api.CheckLLMConfig(cfg),
		),
		DependencyTimeout: time.Second,
	}
	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
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

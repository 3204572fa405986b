package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/sanketp27/travel-concierge/internal/config"
	"github.com/sanketp27/travel-concierge/internal/database"
	"github.com/sanketp27/travel-concierge/internal/executor"
	"github.com/sanketp27/travel-concierge/internal/observability"
	"github.com/sanketp27/travel-concierge/internal/oracle"
	"github.com/sanketp27/travel-concierge/internal/orchestrator"
	"github.com/sanketp27/travel-concierge/internal/server"
	"github.com/sanketp27/travel-concierge/internal/tool"
	"github.com/sanketp27/travel-concierge/internal/tool/builtins"
	"github.com/sanketp27/travel-concierge/internal/types"
)

// app bundles the wired components every command needs.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *database.DB
	sessions *database.SessionDAO
	registry tool.Registry
	client   *oracle.Client
	orch     *orchestrator.Orchestrator
	tracing  *sdktrace.TracerProvider
}

// buildApp wires the full service from configuration.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	tracing, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		return nil, err
	}
	tracer := tracing.Tracer("concierge")

	db, err := database.OpenWithConfig(cfg.Database)
	if err != nil {
		return nil, err
	}

	registry := tool.NewRegistry(tool.WithTracer(tracer))
	if err := builtins.RegisterAll(registry); err != nil {
		db.Close()
		return nil, err
	}

	provider, err := buildProvider(ctx, cfg.Oracle)
	if err != nil {
		db.Close()
		return nil, err
	}

	client := oracle.NewClient(provider,
		oracle.WithModel(cfg.Oracle.Model),
		oracle.WithTemperature(cfg.Oracle.Temperature),
		oracle.WithMaxTokens(cfg.Oracle.MaxTokens),
		oracle.WithLogger(logger),
	)

	sessions := database.NewSessionDAO(db)

	orch := orchestrator.New(client, registry, sessions,
		orchestrator.WithMaxIterations(cfg.Loop.MaxIterations),
		orchestrator.WithExecutorOptions(
			executor.WithPoolSize(cfg.Executor.PoolSize),
			executor.WithTaskTimeout(cfg.Executor.TaskTimeout),
			executor.WithRetryDelay(cfg.Executor.RetryDelay),
		),
		orchestrator.WithLogger(logger),
		orchestrator.WithTracer(tracer),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		sessions: sessions,
		registry: registry,
		client:   client,
		orch:     orch,
		tracing:  tracing,
	}, nil
}

func buildProvider(ctx context.Context, cfg config.OracleConfig) (oracle.Provider, error) {
	switch cfg.Provider {
	case "google":
		google := cfg.Google
		if google.DefaultModel == "" {
			google.DefaultModel = cfg.Model
		}
		return oracle.NewGoogleProvider(ctx, google)
	default:
		return nil, fmt.Errorf("oracle provider %q cannot be used by the service", cfg.Provider)
	}
}

func (a *app) healthChecks() map[string]server.HealthChecker {
	return map[string]server.HealthChecker{
		"database": a.db,
		"oracle":   a.client,
		"tools":    healthFunc(a.registry.Health),
	}
}

func (a *app) Close() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := observability.ShutdownTracing(shutdownCtx, a.tracing); err != nil {
		a.logger.Warn("failed to shutdown tracing", "error", err)
	}

	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", "error", err)
	}
}

// healthFunc adapts a bare health function to server.HealthChecker.
type healthFunc func(ctx context.Context) types.HealthStatus

func (f healthFunc) Health(ctx context.Context) types.HealthStatus {
	return f(ctx)
}

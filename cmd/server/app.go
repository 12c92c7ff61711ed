package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/promoterhq/promoter-api/internal/api"
	"github.com/promoterhq/promoter-api/internal/config"
	"github.com/promoterhq/promoter-api/internal/orchestrator"
	"github.com/promoterhq/promoter-api/internal/platform/gemini"
	"github.com/promoterhq/promoter-api/internal/platform/postgres"
	"github.com/promoterhq/promoter-api/internal/service"
	"github.com/promoterhq/promoter-api/internal/tool"
)

// application holds the shared dependencies so lifecycle and cleanup are
// managed in one place.
type application struct {
	config *config.Config
	logger *slog.Logger

	pool *postgres.Pool

	chatHandler   *api.ChatHandler
	healthHandler *api.HealthHandler
}

// newApplication wires the full dependency graph: connection pool, store,
// model client, tool catalog, orchestrator, conversation service, and the
// HTTP handlers on top.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	pool, err := postgres.NewPool(ctx, cfg.Database.URL, poolConfig(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	app.pool = pool
	logger.Info("Database pool initialized",
		"min_size", cfg.Database.PoolMinSize,
		"max_size", cfg.Database.PoolMaxSize,
		"max_waiting", cfg.Database.PoolMaxWaiting)

	convStore := postgres.NewConversationStore(pool, logger.With("component", "conversation_store"))

	model, err := gemini.NewClient(ctx, logger.With("component", "model_client"), cfg.LLM)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize model client: %w", err)
	}
	logger.Info("Model client initialized", "model", cfg.LLM.ModelName)

	catalog, err := tool.NewCatalog(tool.NewIDGenerator())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to build tool catalog: %w", err)
	}

	orch, err := orchestrator.New(model, catalog, orchestrator.Config{
		Persona:  orchestrator.Persona(cfg.Orchestrator.Persona),
		MaxSteps: cfg.Orchestrator.MaxSteps,
	}, logger.With("component", "orchestrator"))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to build orchestrator: %w", err)
	}

	convService, err := service.NewConversationService(
		convStore, orch, logger.With("component", "conversation_service"))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to build conversation service: %w", err)
	}

	app.chatHandler = api.NewChatHandler(
		convService,
		time.Duration(cfg.Database.AcquireTimeoutSeconds)*time.Second,
		logger.With("component", "chat_handler"))
	app.healthHandler = api.NewHealthHandler(pool, logger.With("component", "health_handler"))

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown completes.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources during shutdown.
func (app *application) cleanup() {
	if app.pool != nil {
		app.pool.Close()
	}
	app.logger.Info("Application shutdown completed")
}

func poolConfig(db config.DatabaseConfig) postgres.PoolConfig {
	cfg := postgres.DefaultPoolConfig()
	if db.PoolMinSize > 0 {
		cfg.MinSize = int32(db.PoolMinSize)
	}
	if db.PoolMaxSize > 0 {
		cfg.MaxSize = int32(db.PoolMaxSize)
	}
	if db.PoolMaxWaiting > 0 {
		cfg.MaxWaiting = int64(db.PoolMaxWaiting)
	}
	if db.PoolMaxLifetimeSecs > 0 {
		cfg.MaxLifetime = time.Duration(db.PoolMaxLifetimeSecs) * time.Second
	}
	if db.AcquireTimeoutSeconds > 0 {
		cfg.AcquireTimeout = time.Duration(db.AcquireTimeoutSeconds) * time.Second
	}
	return cfg
}

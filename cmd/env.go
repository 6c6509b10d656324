package cmd

import (
	"context"
	"fmt"

	"tablediff/core/compare"
	"tablediff/core/config"
	"tablediff/core/database"
	"tablediff/core/dispatch"
	"tablediff/core/export"
	"tablediff/core/logger"
	"tablediff/core/reconcile"
	"tablediff/core/results"
	"tablediff/core/storage"
	"tablediff/feature/connections"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// environment holds the services shared by the server and the CLI commands.
type environment struct {
	cfg         *config.Config
	logger      *zap.Logger
	db          *gorm.DB
	store       *results.Store
	connections *connections.Service
	runner      *compare.Runner
}

// setup loads configuration, opens the result database and wires the runner.
func setup() (*environment, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := results.NewStore(db)
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate result store: %w", err)
	}

	// The registry invalidates cached schemas when a connection changes.
	cache := reconcile.NewSchemaCache(cfg.Compare.SchemaCacheTTL())
	conns := connections.NewService(db, cache, l)
	if err := conns.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate connections: %w", err)
	}

	runner := compare.NewRunner(store, conns, cfg.Compare, l).WithCache(cache)

	return &environment{
		cfg:         cfg,
		logger:      l,
		db:          db,
		store:       store,
		connections: conns,
		runner:      runner,
	}, nil
}

// publisher returns the export publisher, or nil when storage is disabled.
func (e *environment) publisher() (*export.Publisher, error) {
	if !e.cfg.Storage.Enabled {
		return nil, nil
	}
	client, err := storage.NewClient(e.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return export.NewPublisher(client, e.cfg.Storage.Bucket, e.cfg.Storage.Region, e.cfg.Storage.Compression)
}

// sink opens the configured dispatch sink.
func (e *environment) sink(ctx context.Context) (dispatch.Sink, error) {
	return dispatch.Open(ctx, e.cfg.Dispatch)
}

// close stops the runner and releases the database.
func (e *environment) close(ctx context.Context) {
	if err := e.runner.Shutdown(ctx); err != nil {
		e.logger.Warn("Runner shutdown incomplete", zap.Error(err))
	}
	if err := database.Close(e.db); err != nil {
		e.logger.Warn("Failed to close database", zap.Error(err))
	}
	_ = e.logger.Sync()
}

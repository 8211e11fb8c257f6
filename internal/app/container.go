package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/nightshift/internal/hobby/application/commands"
	"github.com/felixgeelhaar/nightshift/internal/hobby/application/queries"
	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
	"github.com/felixgeelhaar/nightshift/internal/hobby/infrastructure/git"
	"github.com/felixgeelhaar/nightshift/internal/hobby/infrastructure/persistence"
	"github.com/felixgeelhaar/nightshift/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/nightshift/internal/shared/infrastructure/database/postgres"
	"github.com/felixgeelhaar/nightshift/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/nightshift/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	DB         *sql.DB
	Pool       *pgxpool.Pool
	GitRunner  git.Runner
	Repository *git.Repository

	// Repositories
	RewriteRunRepo domain.RewriteRunRepository

	// Command Handlers
	PlanRewriteHandler  *commands.PlanRewriteHandler
	ApplyRewriteHandler *commands.ApplyRewriteHandler

	// Query Handlers
	ListRewriteRunsHandler *queries.ListRewriteRunsHandler
}

// NewContainer creates a new dependency injection container.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	runner := git.NewCommandRunner(git.RunnerConfig{
		Binary:           cfg.GitBinary,
		Timeout:          cfg.GitTimeout,
		FailureThreshold: uint32(max(cfg.GitBreakerFailures, 0)),
		BreakerTimeout:   cfg.GitBreakerTimeout,
	}, logger)

	return newContainer(ctx, cfg, runner, logger)
}

// newContainer wires everything on top of an existing git runner.
func newContainer(ctx context.Context, cfg *config.Config, runner git.Runner, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config:    cfg,
		Logger:    logger,
		GitRunner: runner,
	}

	if err := c.initLedger(ctx); err != nil {
		return nil, err
	}

	c.Repository = git.NewRepository(runner, logger)

	c.PlanRewriteHandler = commands.NewPlanRewriteHandler(c.Repository, logger)
	c.ApplyRewriteHandler = commands.NewApplyRewriteHandler(c.Repository, c.RewriteRunRepo, logger)
	c.ListRewriteRunsHandler = queries.NewListRewriteRunsHandler(c.RewriteRunRepo)

	return c, nil
}

// initLedger opens the rewrite ledger for the configured driver.
func (c *Container) initLedger(ctx context.Context) error {
	if !c.Config.LedgerEnabled {
		c.Logger.Debug("rewrite ledger disabled, keeping runs in memory")
		c.RewriteRunRepo = persistence.NewMemoryRewriteRunRepository()
		return nil
	}

	dbCfg := database.Config{
		Driver:     database.Driver(c.Config.DatabaseDriver),
		URL:        c.Config.DatabaseURL,
		SQLitePath: c.Config.SQLitePath,
	}

	switch driver := dbCfg.ResolvedDriver(); driver {
	case database.DriverPostgres:
		pool, err := postgres.Open(ctx, dbCfg)
		if err != nil {
			return fmt.Errorf("failed to open postgres ledger: %w", err)
		}
		c.Pool = pool
		c.RewriteRunRepo = persistence.NewPostgresRewriteRunRepository(pool)
		c.Logger.Debug("rewrite ledger ready", "driver", driver.String())

	case database.DriverSQLite:
		path := dbCfg.ResolvedSQLitePath()
		db, err := sqlite.Open(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to open sqlite ledger: %w", err)
		}
		c.DB = db
		c.RewriteRunRepo = persistence.NewSQLiteRewriteRunRepository(db)
		c.Logger.Debug("rewrite ledger ready", "driver", driver.String(), "path", path)

	default:
		return fmt.Errorf("unsupported driver: %s", driver)
	}
	return nil
}

// Close releases all resources.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Error("failed to close ledger database", "error", err)
		}
	}
}

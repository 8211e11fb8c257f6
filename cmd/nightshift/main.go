package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/nightshift/adapter/cli"
	"github.com/felixgeelhaar/nightshift/adapter/cli/rewrite"
	"github.com/felixgeelhaar/nightshift/internal/app"
	"github.com/felixgeelhaar/nightshift/pkg/config"
	"github.com/felixgeelhaar/nightshift/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		observability.NewLogger(observability.DefaultLogConfig()).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := observability.NewLogger(cfg.Logging(cli.Version))
	cli.SetLogger(logger)

	// The ledger is optional; without it plan and rewrite still work.
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Warn("failed to open rewrite ledger, recording disabled", "error", err)
		cfg.LedgerEnabled = false
		container, err = app.NewContainer(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	}
	defer container.Close()

	cli.SetApp(cli.NewApp(
		container.PlanRewriteHandler,
		container.ApplyRewriteHandler,
		container.ListRewriteRunsHandler,
		cfg.HobbyHours(),
	))

	// Register commands
	cli.AddCommand(rewrite.PlanCmd)
	cli.AddCommand(rewrite.RewriteCmd)
	cli.AddCommand(rewrite.HistoryCmd)

	// Execute CLI
	cli.ExecuteContext(ctx)
}

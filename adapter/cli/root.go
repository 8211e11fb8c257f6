package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/felixgeelhaar/nightshift/pkg/observability"
	"github.com/spf13/cobra"
)

var logger *slog.Logger

type commandContext struct {
	startedAt time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nightshift",
	Short: "Nightshift - move git history into hobby hours",
	Long: `Nightshift rewrites the author and committer timestamps of a linear
git branch so every commit lands in your hobby hours: weekday evenings
and nights, and any time on weekends.

Commit order is kept, gaps between commits shrink by at most the
distance factor, and each commit gets enough time for its size.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := observability.WithCorrelationID(cmd.Context(), "")
		ctx = observability.WithOperation(ctx, cmd.Name())
		ctx = contextWithCommand(ctx, commandContext{startedAt: time.Now()})
		cmd.SetContext(ctx)
		logger.InfoContext(ctx, "command start", "command", cmd.CommandPath())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := commandFromContext(cmd.Context())
		if !ok {
			return
		}
		logger.InfoContext(cmd.Context(), "command end",
			"command", cmd.CommandPath(),
			observability.DurationKey, time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx and exits non-zero on error.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// Logger returns the CLI logger.
func Logger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrGitUnavailable is returned while the circuit breaker is open after
// repeated git failures.
var ErrGitUnavailable = errors.New("git unavailable")

// Runner executes git subcommands and returns their trimmed stdout.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// RunnerConfig configures a CommandRunner.
type RunnerConfig struct {
	// Binary is the git executable. Defaults to "git".
	Binary string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Timeout bounds a single git invocation. Zero disables it.
	Timeout time.Duration
	// FailureThreshold is the number of consecutive failures that opens
	// the breaker.
	FailureThreshold uint32
	// BreakerTimeout is how long the breaker stays open.
	BreakerTimeout time.Duration
}

// CommandRunner runs git through os/exec behind a circuit breaker.
type CommandRunner struct {
	cfg     RunnerConfig
	breaker *gobreaker.CircuitBreaker[string]
	logger  *slog.Logger
}

// NewCommandRunner creates a runner.
func NewCommandRunner(cfg RunnerConfig, logger *slog.Logger) *CommandRunner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Binary == "" {
		cfg.Binary = "git"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	settings := gobreaker.Settings{
		Name:        "git",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &CommandRunner{
		cfg:     cfg,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
		logger:  logger,
	}
}

// Run executes git with args.
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	out, err := r.breaker.Execute(func() (string, error) {
		return r.exec(ctx, args)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", ErrGitUnavailable, err)
	}
	return out, err
}

func (r *CommandRunner) exec(ctx context.Context, args []string) (string, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.cfg.Binary, args...)
	cmd.Dir = r.cfg.Dir
	// filter-branch otherwise pauses to print a deprecation notice.
	cmd.Env = append(os.Environ(), "FILTER_BRANCH_SQUELCH_WARNING=1")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r.logger.Debug("git command",
		"args", strings.Join(args, " "),
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err,
	)
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", subcommand(args), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

func subcommand(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// Package observability provides structured logging and command
// correlation for nightshift.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// ServiceName is attached to every record.
const ServiceName = "nightshift"

// LogFormat selects the record encoding.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// LogLevel is a slog level by name.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogConfig configures the logger.
type LogConfig struct {
	Level     LogLevel
	Format    LogFormat
	Output    io.Writer // defaults to os.Stderr
	AddSource bool
	Version   string
}

// DefaultLogConfig is used on a terminal. Records below warn are dropped so
// they never interleave with the rewrite summary on stdout.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:   LogLevelWarn,
		Format:  LogFormatText,
		Output:  os.Stderr,
		Version: "dev",
	}
}

// ProductionLogConfig is used for unattended runs such as CI jobs.
func ProductionLogConfig() LogConfig {
	return LogConfig{
		Level:     LogLevelInfo,
		Format:    LogFormatJSON,
		Output:    os.Stderr,
		AddSource: true,
		Version:   "unknown",
	}
}

// NewLogger builds a slog logger. Every record carries the service name,
// the version and whatever command correlation the context holds.
func NewLogger(cfg LogConfig) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     parseSlogLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var base slog.Handler = slog.NewTextHandler(out, opts)
	if cfg.Format == LogFormatJSON {
		base = slog.NewJSONHandler(out, opts)
	}

	attrs := []slog.Attr{slog.String("service", ServiceName)}
	if cfg.Version != "" {
		attrs = append(attrs, slog.String("version", cfg.Version))
	}
	return slog.New(&contextHandler{next: base, attrs: attrs})
}

func parseSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// contextHandler adds fixed attributes and the correlation ID and operation
// stored in the record's context.
type contextHandler struct {
	next  slog.Handler
	attrs []slog.Attr
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(h.attrs...)
	if id := CorrelationIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String(CorrelationIDKey, id))
	}
	if op := OperationFromContext(ctx); op != "" {
		r.AddAttrs(slog.String(OperationKey, op))
	}
	return h.next.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), attrs: h.attrs}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), attrs: h.attrs}
}

// LogDuration records how long operation took since start.
func LogDuration(ctx context.Context, logger *slog.Logger, operation string, start time.Time) {
	logger.InfoContext(ctx, "operation completed",
		OperationKey, operation,
		DurationKey, time.Since(start).Milliseconds(),
	)
}

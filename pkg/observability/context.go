package observability

import (
	"context"

	"github.com/google/uuid"
)

// Attribute keys shared by every command record.
const (
	CorrelationIDKey = "correlation_id"
	OperationKey     = "operation"
	DurationKey      = "duration_ms"
)

type ctxKey int

const (
	correlationKey ctxKey = iota
	operationKey
)

// WithCorrelationID tags ctx with id, or with a fresh UUID when id is empty.
// One CLI invocation gets one ID so its records can be grepped together.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, correlationKey, id)
}

// CorrelationIDFromContext returns the ID set by WithCorrelationID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, correlationKey)
}

// WithOperation tags ctx with the running command, for example "rewrite".
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationKey, operation)
}

// OperationFromContext returns the operation set by WithOperation, or "".
func OperationFromContext(ctx context.Context) string {
	return stringValue(ctx, operationKey)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(key).(string)
	return s
}

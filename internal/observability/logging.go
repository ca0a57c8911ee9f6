// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	InitLogging(os.Getenv("APP_ENV"), os.Stdout)
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// Context keys for logging
const (
	RequestIDKey LogContextKey = "request_id"
	UserIDKey    LogContextKey = "user_id"
	TraceIDKey   LogContextKey = "trace_id"
)

// ctxHandler is a slog.Handler that adds context values to the log record.
type ctxHandler struct {
	slog.Handler
}

// Handle adds context values to the record before passing it to the underlying handler.
func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if rid, ok := ctx.Value(RequestIDKey).(string); ok && rid != "" {
		r.AddAttrs(slog.String("request_id", rid))
	}
	if uid, ok := ctx.Value(UserIDKey).(string); ok && uid != "" {
		r.AddAttrs(slog.String("user_id", uid))
	}
	if tid, ok := ctx.Value(TraceIDKey).(string); ok && tid != "" {
		r.AddAttrs(slog.String("trace_id", tid))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{h.Handler.WithGroup(name)}
}

// InitLogging replaces GlobalLogger. Production writes JSON, everything else pretty text.
func InitLogging(env string, w io.Writer) {
	var handler slog.Handler
	level := slog.LevelInfo

	if env == "production" || env == "prod" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
	GlobalLogger = &Logger{Logger: slog.New(&ctxHandler{handler})}
}

// WithRequestID returns a new context carrying the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// WithUserID returns a new context carrying the signed-in user ID.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

// WithTraceID returns a new context carrying the trace ID.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

// ExtractRequestID retrieves the request ID from the context.
func ExtractRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// APILogger provides structured logging for calls made by one service adapter.
type APILogger struct {
	resource string
	logger   *Logger
}

// NewAPILogger creates an APILogger for the given backend resource.
func NewAPILogger(resource string) *APILogger {
	return &APILogger{resource: resource, logger: GlobalLogger}
}

// LogCall logs a completed backend call.
func (l *APILogger) LogCall(ctx context.Context, method, path string, status int, elapsed time.Duration) {
	l.logger.DebugContext(ctx, "api call",
		slog.String("resource", l.resource),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Duration("elapsed", elapsed),
	)
}

// LogError logs a failed backend call.
func (l *APILogger) LogError(ctx context.Context, method, path string, err error) {
	l.logger.WarnContext(ctx, "api error",
		slog.String("resource", l.resource),
		slog.String("method", method),
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
}

// LogFallback logs a demo dataset substitution after a network failure.
func (l *APILogger) LogFallback(ctx context.Context, operation string, err error) {
	l.logger.WarnContext(ctx, "api unreachable, serving demo data",
		slog.String("resource", l.resource),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

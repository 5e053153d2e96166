package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

type ctxKey struct{}

// requestScope holds the per-request fields added to every record logged through FromContext
type requestScope struct {
	requestID string
	caller    string
}

func scopeFrom(ctx context.Context) requestScope {
	s, _ := ctx.Value(ctxKey{}).(requestScope)
	return s
}

// InitLogger installs the process-wide logger writing to stdout.
func InitLogger(cfg Config) {
	InitLoggerWithWriter(cfg, os.Stdout)
}

// InitLoggerWithWriter installs the process-wide logger writing to w.
func InitLoggerWithWriter(cfg Config, w io.Writer) {
	opts := &slog.HandlerOptions{
		Level:     cfg.LogLevel(),
		AddSource: cfg.AddSource,
	}

	var h slog.Handler
	if cfg.IsJSON() {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(h.WithAttrs(cfg.BaseAttributes())))
}

// GenerateRequestID creates a new UUID for tracing requests.
func GenerateRequestID() string {
	return uuid.NewString()
}

// WithRequestID returns a context whose logger carries requestID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	s := scopeFrom(ctx)
	s.requestID = requestID
	return context.WithValue(ctx, ctxKey{}, s)
}

// WithCaller returns a context whose logger carries the account the request acts for.
func WithCaller(ctx context.Context, caller string) context.Context {
	s := scopeFrom(ctx)
	s.caller = caller
	return context.WithValue(ctx, ctxKey{}, s)
}

// GetRequestID returns the request ID or "" when absent.
func GetRequestID(ctx context.Context) string {
	return scopeFrom(ctx).requestID
}

// FromContext returns the default logger with the request fields of ctx attached.
func FromContext(ctx context.Context) *slog.Logger {
	s := scopeFrom(ctx)
	log := slog.Default()
	if s.requestID != "" {
		log = log.With(AttrKeyRequestID, s.requestID)
	}
	if s.caller != "" {
		log = log.With(AttrKeyCaller, s.caller)
	}
	return log
}

func Debug(msg string, args ...any) { slog.Default().Debug(msg, args...) }
func Info(msg string, args ...any)  { slog.Default().Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Default().Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Default().Error(msg, args...) }

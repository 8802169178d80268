// Package log provides the process-wide structured logger.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

type ctxKey struct{}

var (
	level = new(slog.LevelVar)
	mu    sync.RWMutex
	root  = slog.New(newHandler(os.Stdout))
)

func newHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return attr
			}
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339Nano))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			}
			return attr
		},
	})
}

// SetLevel sets the minimum level. Accepts debug, info, warn and error.
func SetLevel(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		level.Set(slog.LevelInfo)
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %s", name)
	}
	return nil
}

// SetOutput redirects the root logger to w
func SetOutput(w io.Writer) {
	ReplaceLogger(slog.New(newHandler(w)))
}

// Logger returns the root logger
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// ReplaceLogger installs l as the root logger
func ReplaceLogger(l *slog.Logger) {
	if l == nil {
		panic("log: nil logger")
	}
	mu.Lock()
	root = l
	mu.Unlock()
}

// WithRequestID returns a context whose log lines carry the request id
func WithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the request id stored in ctx, if any
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func Debug(ctx context.Context, msg string, args ...any) { emit(ctx, slog.LevelDebug, msg, args) }
func Info(ctx context.Context, msg string, args ...any)  { emit(ctx, slog.LevelInfo, msg, args) }
func Warn(ctx context.Context, msg string, args ...any)  { emit(ctx, slog.LevelWarn, msg, args) }
func Error(ctx context.Context, msg string, args ...any) { emit(ctx, slog.LevelError, msg, args) }

func emit(ctx context.Context, lvl slog.Level, msg string, args []any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if id := RequestID(ctx); id != "" {
		args = append(args, "request_id", id)
	}
	Logger().Log(ctx, lvl, msg, args...)
}

package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// DefaultContextProvider returns the context of the logging functions and
// methods that do not take one.
var DefaultContextProvider = context.TODO

var defaultLog atomic.Pointer[Logger]

func init() {
	l := Make(os.Stderr)
	defaultLog.Store(&l)
}

// Config reconfigures the default logger with opts.
func Config(opts ...Option) {
	l := Default().Wrap(opts...)
	defaultLog.Store(&l)
}

// Default returns the logger behind the package-level functions, for
// components that take a [Logger].
func Default() Logger { return *defaultLog.Load() }

// With returns the default logger with attrs added to each message.
func With(attrs ...slog.Attr) Logger { return Default().With(attrs...) }

func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, 0, LevelTrace, msg, attrs)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, 0, LevelDebug, msg, attrs)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, 0, LevelInfo, msg, attrs)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, 0, LevelWarn, msg, attrs)
}

func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logDepth(ctx, 0, LevelError, msg, attrs)
}

func Trace(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), 0, LevelTrace, msg, attrs)
}

func Debug(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), 0, LevelDebug, msg, attrs)
}

func Info(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), 0, LevelInfo, msg, attrs)
}

func Warn(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), 0, LevelWarn, msg, attrs)
}

func Error(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), 0, LevelError, msg, attrs)
}

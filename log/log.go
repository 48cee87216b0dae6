package log

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// Logger is an [slog.Logger] that remembers its configuration, so it can be
// rebuilt with different options. Loggers are values; every method returns
// a new Logger and leaves the receiver unchanged, so one Logger can be
// shared between goroutines.
//
// The zero Logger discards everything.
type Logger struct {
	*slog.Logger

	config config
}

// Make returns a Logger writing to w with the default configuration
// overridden by opts.
func Make(w io.Writer, opts ...Option) Logger {
	return makeLogger(defaultConfig(w).with(opts...))
}

func makeLogger(c config) Logger {
	return Logger{Logger: slog.New(c.handler()), config: c}
}

// Wrap returns a Logger with the configuration of l overridden by opts.
// Attributes added with [Logger.With] are not carried over.
func (l Logger) Wrap(opts ...Option) Logger {
	if l.Logger == nil {
		return Make(nil, opts...)
	}

	return makeLogger(l.config.with(opts...))
}

// With returns a Logger that adds attrs to each message.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil || len(attrs) == 0 {
		return l
	}

	return Logger{
		Logger: slog.New(l.Handler().WithAttrs(attrs)),
		config: l.config,
	}
}

// Level returns the minimum level of messages written.
func (l Logger) Level() Level {
	if l.Logger == nil {
		return DefaultLevel
	}

	return l.config.level
}

// Format returns the encoding of messages.
func (l Logger) Format() Format {
	if l.Logger == nil {
		return DefaultFormat
	}

	return l.config.format
}

func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelTrace, msg, attrs)
}

func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelDebug, msg, attrs)
}

func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelInfo, msg, attrs)
}

func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelWarn, msg, attrs)
}

func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelError, msg, attrs)
}

// The methods without a context use [DefaultContextProvider].

func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelTrace, msg, attrs)
}

func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelDebug, msg, attrs)
}

func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelInfo, msg, attrs)
}

func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelWarn, msg, attrs)
}

func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelError, msg, attrs)
}

// callerDepth skips runtime.Callers, logDepth and the logging function that
// called it.
const callerDepth = 3

// log writes one message. It must be called directly by the exported
// method, so the recorded source is the caller of that method.
func (l Logger) log(ctx context.Context, level Level, msg string, attrs []slog.Attr) {
	l.logDepth(ctx, 1, level, msg, attrs)
}

// logDepth is log with skip extra frames between it and the caller.
func (l Logger) logDepth(ctx context.Context, skip int, level Level, msg string, attrs []slog.Attr) {
	if l.Logger == nil || !l.Enabled(ctx, slog.Level(level)) {
		return
	}

	var pc uintptr

	if l.config.caller {
		var pcs [1]uintptr

		runtime.Callers(callerDepth+skip, pcs[:])
		pc = pcs[0]
	}

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pc)
	r.AddAttrs(attrs...)

	_ = l.Handler().Handle(ctx, r)
}

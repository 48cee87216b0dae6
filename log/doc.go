// Package log wraps [log/slog] with a trace level, named time layouts and
// colored handlers.
//
// A [Logger] is an immutable value holding its configuration; [Logger.Wrap]
// rebuilds it with different options and [Logger.With] adds attributes.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("resolved", slog.String("file", "mson:steve"))
//	logger.Error("load failed", slog.Any("error", err))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stdout,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Adding Attributes
//
// Attributes can be added to the logger to be included in all subsequent
// log messages using the [Logger.With] method:
//
//	logger = logger.With(slog.String("component", "foundry"))
//	logger.Info("wait") // includes component=foundry
//
// # Context-Aware Logging
//
// The package provides context-aware logging functions and methods.
// Each logging level has both a context-aware and context-unaware variant:
//
//	logger.InfoContext(ctx, "building model")
//	logger.Info("message without context") // uses DefaultContextProvider
//
// Context-unaware functions internally call their context-aware counterparts
// using [DefaultContextProvider], which returns [context.TODO] by default.
//
// # Supported Levels
//
// The package supports five log levels: [LevelTrace], [LevelDebug],
// [LevelInfo], [LevelWarn], and [LevelError]. Messages below the configured level
// are discarded.
//
// # Time Formatting
//
// Time formatting is configurable using [WithTimeLayout]. You can
// specify any named layout supported by the [time] package (such as
// "RFC3339" or "RFC3339Nano") or provide a custom layout string.
//
// # Output Formats
//
// Two output formats are supported: [FormatText] (default) and
// [FormatJSON].
//
// With [WithPretty], both formats are written by handlers that color keys
// and values using lipgloss styles. Colors are dropped when the output is
// not a terminal.
//
// # Default Logger
//
// The package-level functions, such as [Info] and [DebugContext], write
// through a default logger on stderr that [Config] replaces atomically.
package log

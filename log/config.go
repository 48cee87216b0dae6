package log

//go:generate go tool stringer --linecomment --type Level,Format --output config_string.go

import (
	"io"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Level is the severity of a message. It extends [slog.Level] with
// [LevelTrace].
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug - 4) // trace
	LevelDebug Level = Level(slog.LevelDebug)     // debug
	LevelInfo  Level = Level(slog.LevelInfo)      // info
	LevelWarn  Level = Level(slog.LevelWarn)      // warn
	LevelError Level = Level(slog.LevelError)     // error
)

// Format is the encoding of messages.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// Defaults of a new [Logger].
const (
	DefaultLevel      = LevelInfo
	DefaultFormat     = FormatText
	DefaultTimeLayout = time.RFC3339
	DefaultCaller     = false
	DefaultPretty     = true
)

var (
	allLevels  = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}
	allFormats = []Format{FormatText, FormatJSON}
)

// Levels yields the name of every level, lowest first.
func Levels() iter.Seq[string] { return names(allLevels) }

// Formats yields the name of every format.
func Formats() iter.Seq[string] { return names(allFormats) }

func names[T interface{ String() string }](vals []T) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, v := range vals {
			if !yield(v.String()) {
				return
			}
		}
	}
}

// ParseLevel returns the level named s, case-insensitively. Besides the
// names of [Levels], anything [slog.Level.UnmarshalText] accepts is valid,
// such as "debug+2". Unknown names are [DefaultLevel].
func ParseLevel(s string) Level {
	if strings.EqualFold(s, LevelTrace.String()) {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// ParseFormat returns the format named s, or [DefaultFormat].
func ParseFormat(s string) Format {
	s = strings.ToLower(strings.TrimSpace(s))

	if i := slices.IndexFunc(allFormats, func(f Format) bool { return f.String() == s }); i >= 0 {
		return allFormats[i]
	}

	return DefaultFormat
}

// FormatTime renders the timestamp of a message. An empty result drops it.
type FormatTime func(time.Time) string

// Option changes the configuration of a [Logger].
type Option func(*config)

type config struct {
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

func defaultConfig(w io.Writer) config {
	var c config

	WithDefaults(w)(&c)

	return c
}

// with returns a copy of c with opts applied.
func (c config) with(opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

func (c config) handlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}
}

// replaceAttr formats the timestamp and names levels below debug "TRACE"
// instead of "DEBUG-4".
func (c config) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			s := c.formatTime(t)
			if s == "" {
				return slog.Attr{}
			}

			a.Value = slog.StringValue(s)
		}

	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
		}
	}

	return a
}

func (c config) handler() slog.Handler {
	opts := c.handlerOptions()

	switch {
	case c.pretty && c.format == FormatJSON:
		return newPrettyJSONHandler(c.output, opts)
	case c.pretty && c.format == FormatText:
		return newPrettyTextHandler(c.output, opts)
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	case c.format == FormatText:
		return slog.NewTextHandler(c.output, opts)
	}

	return slog.DiscardHandler
}

// WithDefaults resets every setting to its default and writes to w.
func WithDefaults(w io.Writer) Option {
	return func(c *config) {
		*c = config{
			formatTime: makeFormatTimeFunc(DefaultTimeLayout),
			level:      DefaultLevel,
			format:     DefaultFormat,
			caller:     DefaultCaller,
			pretty:     DefaultPretty,
		}

		WithOutput(w)(c)
	}
}

// WithOutput writes messages to w, or discards them if w is nil.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	}
}

// WithLevel discards messages below level.
func WithLevel(level Level) Option { return func(c *config) { c.level = level } }

// WithFormat selects the encoding of messages.
func WithFormat(format Format) Option { return func(c *config) { c.format = format } }

// WithCaller adds the source position of the call to each message.
func WithCaller(enable bool) Option { return func(c *config) { c.caller = enable } }

// WithPretty colors keys and values. JSON is also indented.
func WithPretty(enable bool) Option { return func(c *config) { c.pretty = enable } }

// WithTimeLayout formats timestamps with layout: a name from [time] such as
// "RFC3339Nano" or "Kitchen", any case, or a custom layout used verbatim.
// A blank layout or "none" drops timestamps.
func WithTimeLayout(layout string) Option {
	format := makeFormatTimeFunc(layout)

	return func(c *config) { c.formatTime = format }
}

var timeLayout = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"datetime":    time.DateTime,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rfc822":      time.RFC822,
	"kitchen":     time.Kitchen,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"ms":          time.StampMilli,
	"stampmicro":  time.StampMicro,
	"us":          time.StampMicro,
	"stampnano":   time.StampNano,
	"ns":          time.StampNano,
	"none":        "",
}

func makeFormatTimeFunc(layout string) FormatTime {
	key := strings.Map(func(r rune) rune {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			return r
		}

		return -1
	}, strings.ToLower(layout))

	if std, ok := timeLayout[key]; ok {
		layout = std
	}

	if key == "" || layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}

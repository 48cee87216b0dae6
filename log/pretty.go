package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty handlers. Styles are bound to the
// renderer of the output, so nothing is colored when it is not a terminal.
type palette struct {
	key, str, num, dur, time, null lipgloss.Style
	yes, no                        lipgloss.Style
	level                          map[Level]lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return &palette{
		key:  fg("8"),
		str:  fg("6"),
		num:  fg("3"),
		dur:  fg("5"),
		time: fg("4"),
		null: fg("8"),
		yes:  fg("2"),
		no:   fg("1"),
		level: map[Level]lipgloss.Style{
			LevelTrace: fg("8"),
			LevelDebug: fg("4"),
			LevelInfo:  fg("2").Bold(true),
			LevelWarn:  fg("3").Bold(true),
			LevelError: fg("1").Bold(true),
		},
	}
}

func (p *palette) levelOf(l slog.Level) string {
	name := strings.ToUpper(Level(l).String())

	switch {
	case l >= slog.LevelError:
		return p.level[LevelError].Render(name)
	case l >= slog.LevelWarn:
		return p.level[LevelWarn].Render(name)
	case l >= slog.LevelInfo:
		return p.level[LevelInfo].Render(name)
	case l >= slog.LevelDebug:
		return p.level[LevelDebug].Render(name)
	}

	return p.level[LevelTrace].Render(name)
}

func (p *palette) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())
	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")
	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())
	case slog.KindTime:
		return p.time.Render(v.Time().String())
	case slog.KindAny:
		switch a := v.Any().(type) {
		case slog.Level:
			return p.levelOf(a)
		case nil:
			return p.null.Render("null")
		}
	}

	return p.str.Render(v.String())
}

// prettyTextHandler writes one colored key=value line per record.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  *palette
	attrs  []slog.Attr
	groups []string
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: newPalette(w),
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		h.writeAttr(buf, h.replace(slog.Time(slog.TimeKey, r.Time)))
	}

	h.writeField(buf, slog.LevelKey, h.style.levelOf(r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.writeField(buf, slog.SourceKey,
				h.style.str.Render(fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	h.writeField(buf, slog.MessageKey, h.style.str.Render(r.Message))

	for _, a := range h.attrs {
		h.writeAttr(buf, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	dup := *h
	dup.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return &dup
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	dup := *h
	dup.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &dup
}

func (h *prettyTextHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if len(h.groups) == 0 {
		return attrs
	}

	prefix := strings.Join(h.groups, ".") + "."
	out := make([]slog.Attr, len(attrs))

	for i, a := range attrs {
		out[i] = slog.Attr{Key: prefix + a.Key, Value: a.Value}
	}

	return out
}

func (h *prettyTextHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}

	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			h.writeAttr(buf, slog.Attr{Key: a.Key + "." + ga.Key, Value: ga.Value})
		}

		return
	}

	h.writeField(buf, a.Key, h.style.value(v))
}

func (h *prettyTextHandler) writeField(buf *bytes.Buffer, key, value string) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.style.key.Render(key))
	buf.WriteByte('=')
	buf.WriteString(value)
}

// prettyJSONHandler writes each record as an indented object with colored
// values.
type prettyJSONHandler struct {
	opts  slog.HandlerOptions
	mu    *sync.Mutex
	w     io.Writer
	style *palette
	attrs []slog.Attr
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: newPalette(w),
	}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	buf.WriteString("{\n")

	first := true

	if !r.Time.IsZero() {
		t := slog.Time(slog.TimeKey, r.Time)
		if h.opts.ReplaceAttr != nil {
			t = h.opts.ReplaceAttr(nil, t)
		}

		if !t.Equal(slog.Attr{}) {
			h.writeField(buf, t.Key, h.style.value(t.Value), &first)
		}
	}

	h.writeField(buf, slog.LevelKey, h.style.levelOf(r.Level), &first)

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.writeField(buf, slog.SourceKey,
				h.style.str.Render(fmt.Sprintf("%s:%d", src.File, src.Line)), &first)
		}
	}

	h.writeField(buf, slog.MessageKey, h.style.str.Render(r.Message), &first)

	for _, a := range h.attrs {
		h.writeField(buf, a.Key, h.style.value(a.Value.Resolve()), &first)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeField(buf, a.Key, h.style.value(a.Value.Resolve()), &first)

		return true
	})

	buf.WriteString("\n}\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	dup := *h
	dup.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)

	return &dup
}

// WithGroup is a no-op; the indented form is flat.
func (h *prettyJSONHandler) WithGroup(string) slog.Handler {
	dup := *h

	return &dup
}

func (h *prettyJSONHandler) writeField(
	buf *bytes.Buffer,
	key, value string,
	first *bool,
) {
	if !*first {
		buf.WriteString(",\n")
	}

	*first = false

	buf.WriteString("  ")
	buf.WriteString(h.style.key.Render(key))
	buf.WriteString(": ")
	buf.WriteString(value)
}

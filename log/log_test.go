package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain(buf *bytes.Buffer, opts ...Option) Logger {
	return Make(buf, append([]Option{WithPretty(false), WithTimeLayout("none")}, opts...)...)
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		want  []string
	}{
		{"trace", LevelTrace, []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}},
		{"info", LevelInfo, []string{"INFO", "WARN", "ERROR"}},
		{"error", LevelError, []string{"ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			l := plain(&buf, WithLevel(tt.level))
			ctx := context.Background()

			l.TraceContext(ctx, "m")
			l.DebugContext(ctx, "m")
			l.InfoContext(ctx, "m")
			l.WarnContext(ctx, "m")
			l.ErrorContext(ctx, "m")

			var got []string

			for line := range strings.Lines(buf.String()) {
				level, _, _ := strings.Cut(strings.TrimPrefix(line, "level="), " ")
				got = append(got, level)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_Format(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer

		plain(&buf, WithFormat(FormatJSON)).Info("built", slog.String("model", "mson:steve"))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, map[string]any{"level": "INFO", "msg": "built", "model": "mson:steve"}, entry)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer

		plain(&buf).Info("built", slog.String("model", "mson:steve"))
		assert.Equal(t, "level=INFO msg=built model=mson:steve\n", buf.String())
	})
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithCaller(true)).Info("here")
	assert.Contains(t, buf.String(), "log_test.go:")

	buf.Reset()

	plain(&buf, WithCaller(true)).With(slog.Int("k", 1)).WarnContext(context.Background(), "here")
	assert.Contains(t, buf.String(), "log_test.go:")

	buf.Reset()

	plain(&buf).Info("here")
	assert.NotContains(t, buf.String(), "source=")
}

func TestLogger_WithAndWrap(t *testing.T) {
	var buf bytes.Buffer

	base := plain(&buf)
	tagged := base.With(slog.String("component", "foundry"))
	wrapped := tagged.Wrap(WithLevel(LevelDebug))

	base.Info("a")
	tagged.Info("b")
	wrapped.Debug("c")
	tagged.Debug("dropped")

	assert.Equal(t,
		"level=INFO msg=a\nlevel=INFO msg=b component=foundry\nlevel=DEBUG msg=c\n",
		buf.String())
	assert.Equal(t, LevelInfo, tagged.Level())
	assert.Equal(t, LevelDebug, wrapped.Level())
	assert.Equal(t, FormatText, wrapped.Format())
}

func TestLogger_Zero(t *testing.T) {
	var l Logger

	assert.NotPanics(t, func() {
		l.Trace("x")
		l.Info("x")
		l.ErrorContext(context.Background(), "x")
	})

	assert.Nil(t, l.With(slog.String("k", "v")).Logger)
	assert.Equal(t, DefaultLevel, l.Level())
	assert.Equal(t, DefaultFormat, l.Format())
	assert.NotNil(t, l.Wrap(WithLevel(LevelWarn)).Logger)
}

// syncBuffer serializes writes from concurrent loggers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func TestLogger_Concurrent(t *testing.T) {
	var out syncBuffer

	l := Make(&out, WithPretty(false), WithTimeLayout("none"))

	const n = 32

	var wg sync.WaitGroup

	for i := range n {
		wg.Go(func() {
			l.With(slog.Int("worker", i)).Wrap(WithLevel(LevelDebug)).Debug("tick")
			l.Info("tock")
		})
	}

	wg.Wait()

	assert.Equal(t, n, strings.Count(out.buf.String(), "msg=tock"))
}

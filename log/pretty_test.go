package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrettyText_Attributes(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithTimeLayout("none")).
		With(slog.String("file", "mson:steve"))

	logger.Info("resolved",
		slog.Int("parts", 3),
		slog.Bool("cached", false),
		slog.Group("tex", slog.Int("w", 64)),
	)

	out := strings.TrimSpace(buf.String())

	// no escapes when the output is not a terminal
	assert.NotContains(t, out, "\x1b[")
	assert.Equal(t,
		"level=INFO msg=resolved file=mson:steve parts=3 cached=false tex.w=64", out)
}

func TestPrettyText_Group(t *testing.T) {
	var buf bytes.Buffer

	h := newPrettyTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.New(h.WithGroup("foundry").WithAttrs([]slog.Attr{slog.Int("limit", 4)})).
		Debug("wait")

	assert.Contains(t, buf.String(), "foundry.limit=4")
}

func TestPrettyJSON_Fields(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))
	logger.Warn("slow fetch", slog.String("id", "mson:alex"))

	want := "{\n  level: WARN,\n  msg: slow fetch,\n  id: mson:alex\n}\n"
	assert.Equal(t, want, buf.String())
}

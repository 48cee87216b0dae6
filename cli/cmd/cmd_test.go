package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/mson/mson"
)

// writeAsset creates {root}/{ns}/models/{name} with the given content.
func writeAsset(t *testing.T, root, ns, name, content string) string {
	t.Helper()

	path := filepath.Join(root, ns, "models", filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestUniqueDirs(t *testing.T) {
	dir := t.TempDir()
	real, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(dir, link))

	file := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := []struct {
		name string
		dirs []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"single", []string{dir}, []string{real}},
		{"duplicate", []string{dir, dir}, []string{real}},
		{"symlink", []string{dir, link}, []string{real}},
		{"not_a_directory", []string{file, dir}, []string{real}},
		{"missing", []string{filepath.Join(dir, "nope")}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uniqueDirs(tt.dirs))
		})
	}
}

func TestWithAssets(t *testing.T) {
	assert.Nil(t, assetsFrom(context.Background()))

	dir := t.TempDir()
	ctx := WithAssets(context.Background(), []string{dir, dir})
	assert.Len(t, assetsFrom(ctx), 1)
}

func TestNewSession_BadID(t *testing.T) {
	_, err := newSession(context.Background(), "Bad Id!")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelID)
}

func TestSession_Load(t *testing.T) {
	root := t.TempDir()
	path := writeAsset(t, root, "test", "a.json",
		`{"data": {"head": {"pivot": [1, 2, 3], "cubes": [{"size": [2, 2, 2]}]}}}`)

	ctx := WithAssets(context.Background(), []string{root})

	t.Run("build", func(t *testing.T) {
		s, err := newSession(ctx, "test:a")
		require.NoError(t, err)

		f, part, err := s.load(ctx)
		require.NoError(t, err)
		require.NotNil(t, f)

		head, ok := part.Children.Get("head")
		require.True(t, ok)
		assert.Len(t, head.Cubes, 1)
	})

	t.Run("path", func(t *testing.T) {
		s, err := newSession(ctx, "test:a")
		require.NoError(t, err)

		got, err := s.Path()
		require.NoError(t, err)

		want, err := filepath.EvalSymlinks(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("missing", func(t *testing.T) {
		s, err := newSession(ctx, "test:missing")
		require.NoError(t, err)

		f, part, err := s.load(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBuild)
		assert.NotNil(t, f)
		assert.Nil(t, part)
	})
}

func TestEvaluateLocals(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "test", "base.json",
		`{"texture": {"w": 64, "h": 32}, "locals": {"w": 2}, "data": {}}`)
	writeAsset(t, root, "test", "child.json",
		`{"parent": "test:base", "dilate": 0.5, "locals": {"h": ["#w", "*", 3]}, "data": {}}`)

	ctx := WithAssets(context.Background(), []string{root})

	s, err := newSession(ctx, "test:child")
	require.NoError(t, err)

	file, err := s.file(ctx)
	require.NoError(t, err)

	v, err := evaluateLocals(mson.NewModelLocals(s.id, file.Locals()))
	require.NoError(t, err)

	b, err := Output{Format: FormatJSON}.encode(v)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"model": "test:child",
		"texture": {"u": 0, "v": 0, "w": 64, "h": 32},
		"dilation": [0.5, 0.5, 0.5],
		"locals": {"w": 2, "h": 6}
	}`, string(b))
}

func TestOutput_Write(t *testing.T) {
	v := object{
		{Key: "zeta", Value: 1},
		{Key: "alpha", Value: "x"},
	}

	tests := []struct {
		name string
		out  Output
		want string
	}{
		{"json", Output{Format: FormatJSON, Indent: 0}, `{"zeta":1,"alpha":"x"}` + "\n"},
		{"yaml", Output{Format: FormatYAML, Indent: 2}, "zeta: 1\nalpha: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			require.NoError(t, tt.out.write(&buf, v))
			assert.Equal(t, tt.want, buf.String())
		})
	}

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")

		var buf bytes.Buffer

		require.NoError(t, Output{Format: FormatJSON, File: path}.write(&buf, v))
		assert.Empty(t, buf.String())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `{"zeta": 1, "alpha": "x"}`, string(data))
	})
}

package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/mson/render"
)

// Mesh converts a model to render buffers and prints their size, or the
// buffers themselves.
type Mesh struct {
	Output `embed:""`

	Model   string `arg:"" help:"Model id, e.g. mson:steve" name:"model"`
	Buffers bool   `       help:"Print the converted scene with its vertex buffers" short:"b"`
}

// Run executes the mesh command.
func (m *Mesh) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := newSession(ctx, m.Model)
	if err != nil {
		return err
	}

	_, root, err := s.load(ctx)
	if err != nil {
		return err
	}

	if m.Buffers {
		return m.write(os.Stdout, render.NewConverter().Convert(root))
	}

	stats, err := render.Summarize(root)
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "converted model",
		slog.Int("meshes", stats.Meshes), slog.Int("triangles", stats.Triangles))

	return m.write(os.Stdout, stats)
}

package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/mson/model"
)

// Export resolves a model and prints its tree.
type Export struct {
	Output `embed:""`

	Model string `arg:"" help:"Model id, e.g. mson:steve" name:"model"`
	Watch bool   `       help:"Print the tree again whenever a file of the model changes" short:"w"`
}

// Run executes the export command.
func (e *Export) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := newSession(ctx, e.Model)
	if err != nil {
		return err
	}

	f, root, err := s.load(ctx)
	if err != nil && !e.Watch {
		return err
	}

	if err == nil {
		if err := e.write(os.Stdout, root); err != nil {
			return err
		}
	} else {
		s.logger.ErrorContext(ctx, "build failed", slog.Any("error", err))
	}

	if !e.Watch {
		return nil
	}

	return s.watch(ctx, f, func(root *model.Part) error {
		return e.write(os.Stdout, root)
	})
}

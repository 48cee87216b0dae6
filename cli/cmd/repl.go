package cmd

import (
	"context"

	"github.com/ardnew/mson/cli/cmd/repl"
)

// Repl starts the interactive inspector over a resolved model.
type Repl struct {
	Model string `arg:"" help:"Model id, e.g. mson:steve" name:"model"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := newSession(ctx, r.Model)
	if err != nil {
		return err
	}

	return repl.Run(ctx, s, kongContextFrom(ctx).Model.Vars()[CacheIdentifier], s.logger)
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/mson/cli/cmd/repl"
)

// Query evaluates an expression over a resolved model. Top-level parts are
// variables, "root" is the whole tree, and node(path), paths() and
// stats(path) inspect it.
type Query struct {
	Model string `arg:"" help:"Model id, e.g. mson:steve" name:"model"`
	Expr  string `arg:"" help:"Expression to evaluate"    name:"expr"`
	Raw   bool   `       help:"Print the result on one line instead of encoding it" short:"r"`

	Output `embed:""`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := newSession(ctx, q.Model)
	if err != nil {
		return err
	}

	_, root, err := s.load(ctx)
	if err != nil {
		return err
	}

	result, err := repl.Eval(root, q.Expr)
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "evaluated query",
		slog.String("expr", q.Expr), slog.String("type", fmt.Sprintf("%T", result)))

	if q.Raw {
		_, err := fmt.Fprintln(os.Stdout, repl.FormatResult(result))

		return err
	}

	return q.write(os.Stdout, result)
}

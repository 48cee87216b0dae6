package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/mson/log"
	"github.com/ardnew/mson/model"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It opens the description file
// of the model in $EDITOR and rebuilds the tree. When the build fails the
// user is asked to edit again; declining restores the original file.
type editCommand struct {
	ctxFunc func() context.Context
	loader  Loader
	logger  log.Logger
	root    *model.Part
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run edits until the file builds, is left unchanged, or the user declines.
// An unchanged file leaves c.root nil.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	path, err := c.loader.Path()
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	orig, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	for {
		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		if bytes.Equal(data, orig) {
			return nil
		}

		root, err := c.loader.Build(ctx)
		c.logger.TraceContext(ctx, "editor build attempt",
			slog.String("path", path),
			slog.Int("content_length", len(data)),
			slog.Bool("success", err == nil),
		)

		if err == nil {
			c.root = root

			return nil
		}

		fmt.Fprintf(c.stderr, "\nBuild error: %s\n", err)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		if !confirm(c.stdin) {
			if err := os.WriteFile(path, orig, info.Mode().Perm()); err != nil {
				return err
			}

			return ErrEditDeclined.With(slog.String("path", path))
		}
	}
}

// confirm reads a yes/no answer. Anything but "n" or "no" is yes; a closed
// input is no.
func confirm(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "n", "no":
		return false
	}

	return true
}

func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}

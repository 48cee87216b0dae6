package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/mson/mson"
)

// Locals prints the evaluated variables of a model file: its texture,
// dilation and every local, inherited ones included.
type Locals struct {
	Output `embed:""`

	Model string `arg:"" help:"Model id, e.g. mson:steve" name:"model"`
}

// Run executes the locals command.
func (l *Locals) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := newSession(ctx, l.Model)
	if err != nil {
		return err
	}

	file, err := s.file(ctx)
	if err != nil {
		return err
	}

	v, err := evaluateLocals(mson.NewModelLocals(s.id, file.Locals()))
	if err != nil {
		return err
	}

	return l.write(os.Stdout, v)
}

// evaluateLocals returns the variables of locals in an ordered mapping.
func evaluateLocals(locals *mson.ModelLocals) (object, error) {
	tex, err := locals.Texture()
	if err != nil {
		return nil, err
	}

	dil, err := locals.Dilation()
	if err != nil {
		return nil, err
	}

	vars := make(object, 0, len(locals.Keys()))

	for _, name := range locals.Keys() {
		v, err := locals.Local(name)
		if err != nil {
			return nil, ErrLocal.With(slog.String("local", name)).Wrap(err)
		}

		vars = append(vars, yaml.MapItem{Key: name, Value: v})
	}

	return object{
		{Key: "model", Value: locals.ModelID().String()},
		{Key: "texture", Value: object{
			{Key: "u", Value: tex.U}, {Key: "v", Value: tex.V},
			{Key: "w", Value: tex.W}, {Key: "h", Value: tex.H},
		}},
		{Key: "dilation", Value: dil[:]},
		{Key: "locals", Value: vars},
	}, nil
}

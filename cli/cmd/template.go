package cmd

import (
	"context"
	"image"
	"log/slog"

	"github.com/ardnew/mson/render"
)

// Template paints the texture areas a model samples into a PNG image.
type Template struct {
	Model  string `arg:"" help:"Model id, e.g. mson:steve" name:"model"`
	Output string `       help:"Output PNG file"                                        short:"o" default:"template.png" type:"path"`
	Scale  int    `       help:"Pixels per texel"                                       short:"s" default:"4"`
	Base   string `       help:"Image painted under the template"                                                        type:"existingfile" xor:"base"`
	Skin   string `       help:"Paint the model's own texture of this kind, e.g. entity" short:"k"                       xor:"base"`
}

// Run executes the template command.
func (t *Template) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := newSession(ctx, t.Model)
	if err != nil {
		return err
	}

	f, root, err := s.load(ctx)
	if err != nil {
		return err
	}

	file, ok := f.File(s.id)
	if !ok {
		return ErrBuild.With(slog.String("model", s.id.String())).Errorf("model file %s not loaded", s.id)
	}

	tmpl := render.NewTemplate(file.Locals().Texture(), t.Scale)

	if tmpl.Base, err = t.base(ctx, s); err != nil {
		return err
	}

	img, err := tmpl.Draw(root)
	if err != nil {
		return err
	}

	if err := render.SavePNG(t.Output, img); err != nil {
		return ErrWriteOutput.With(slog.String("file", t.Output)).Wrap(err)
	}

	s.logger.InfoContext(ctx, "wrote texture template",
		slog.String("file", t.Output),
		slog.Int("width", img.Bounds().Dx()),
		slog.Int("height", img.Bounds().Dy()),
	)

	return nil
}

func (t *Template) base(ctx context.Context, s *session) (image.Image, error) {
	switch {
	case t.Base != "":
		img, err := render.LoadImage(t.Base)
		if err != nil {
			return nil, ErrTexture.With(slog.String("file", t.Base)).Wrap(err)
		}

		return img, nil

	case t.Skin != "":
		img, err := s.assets.Image(ctx, s.id, t.Skin)
		if err != nil {
			return nil, ErrTexture.With(slog.String("kind", t.Skin)).Wrap(err)
		}

		return img, nil
	}

	return nil, nil //nolint:nilnil
}

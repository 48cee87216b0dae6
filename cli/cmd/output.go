package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/mson/model"
)

// Output formats of tree and value printing commands.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Output selects where and how a command prints its result.
type Output struct {
	Format string `default:"json" enum:"json,yaml" help:"Output format (${enum})"                       short:"F"`
	Indent int    `default:"2"                     help:"Indent width"                                   short:"i"`
	File   string `default:"-"                     help:"Output file or '-' for stdout" name:"output" short:"o"`
}

// encode renders v in the selected format, ending with a newline.
func (o Output) encode(v any) ([]byte, error) {
	switch o.Format {
	case FormatYAML:
		b, err := yaml.MarshalWithOptions(v, yaml.Indent(max(o.Indent, 1)))
		if err != nil {
			return nil, ErrYAMLMarshal.Wrap(err)
		}

		return b, nil

	default:
		var (
			b   []byte
			err error
		)

		if o.Indent > 0 {
			b, err = json.MarshalIndent(v, "", strings.Repeat(" ", o.Indent))
		} else {
			b, err = json.Marshal(v)
		}

		if err != nil {
			return nil, ErrJSONMarshal.Wrap(err)
		}

		return append(b, '\n'), nil
	}
}

// write encodes v and writes it to the output file, or w when the output
// is "-".
func (o Output) write(w io.Writer, v any) error {
	b, err := o.encode(v)
	if err != nil {
		return err
	}

	if o.File != "-" && o.File != "" {
		if err := os.WriteFile(o.File, b, 0o644); err != nil {
			return ErrWriteOutput.With(slog.String("file", o.File)).Wrap(err)
		}

		return nil
	}

	if _, err := io.Copy(w, bytes.NewReader(b)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// object is a mapping that keeps its key order in both formats.
type object yaml.MapSlice

func (o object) MarshalJSON() ([]byte, error) { return model.MarshalObject(yaml.MapSlice(o)) }
func (o object) MarshalYAML() (any, error)    { return yaml.MapSlice(o), nil }

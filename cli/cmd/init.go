package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/mson/log"
	"github.com/ardnew/mson/profile"
)

// defaultConfigIndent is the indent width of the generated configuration
// file.
const defaultConfigIndent = 2

// Init writes the current flag values to the configuration file.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	b, err := yaml.MarshalWithOptions(
		yaml.MapSlice{{Key: ConfigIdentifier, Value: flagValues(ktx)}},
		yaml.Indent(defaultConfigIndent),
	)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if err := os.WriteFile(confPath, b, 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file", slog.String("path", confPath))

	return nil
}

// flagValues returns the set value of every visible flag, except help and
// profiling flags, in declaration order.
func flagValues(ktx *kong.Context) yaml.MapSlice {
	skip := []string{"help", profile.Tag}

	var out yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(skip, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v := configValue(ktx.FlagValue(flag)); v != nil {
			out = append(out, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return out
}

// configValue returns v as it is written to the configuration file, or nil
// if it is unset.
func configValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
	case []string:
		if len(v) == 0 {
			return nil
		}
	case bool, int, int64, uint, uint64, float64:
	default:
		if s, ok := v.(interface{ String() string }); ok {
			return s.String()
		}
	}

	return v
}

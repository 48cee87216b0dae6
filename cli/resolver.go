package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] reading flag values from the
// mapping name of a YAML document:
//
//	config:
//	  log-level: debug
//	  log:
//	    pretty: false
//	  assets: [./assets, /usr/share/mson]
//
// Nested mappings join their keys with "-", so both forms above set a
// log-* flag. Keys may use "_" in place of "-". Lists become the
// comma-separated form kong splits slice flags on. A document that cannot
// be decoded, or has no such mapping, sets nothing. Command-line flags
// override the file.
func resolve(name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return config{}, nil //nolint:nilerr
		}

		m, ok := doc[name].(map[string]any)
		if !ok {
			return config{}, nil
		}

		c := config{}
		c.flatten("", m)

		return c, nil
	}
}

// config implements [kong.Resolver] over flattened flag names.
type config map[string]any

func (config) Validate(*kong.Application) error { return nil }

func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	if v, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return v, nil
	}

	return nil, nil //nolint:nilnil
}

func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		if prefix != "" {
			k = prefix + "-" + k
		}

		switch v := v.(type) {
		case map[string]any:
			c.flatten(k, v)
		case []any:
			items := make([]string, len(v))
			for i, item := range v {
				items[i] = scalar(item)
			}

			c[k] = strings.Join(items, ",")
		case bool, string:
			c[k] = v
		case nil:
		default:
			c[k] = scalar(v)
		}
	}
}

// scalar formats v the way kong expects to parse it from the command line.
func scalar(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprint(v)
}

package repl

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/mson/model"
	"github.com/ardnew/mson/render"
)

// RootName is the variable bound to the whole tree.
const RootName = "root"

// function describes a helper available to expressions.
type function struct {
	signature string
	params    []string
	fn        func(root *model.Part, args ...any) (any, error)
	types     any
}

var functions = map[string]function{
	"node": {
		signature: "node(path)",
		params:    []string{"path"},
		types:     new(func(string) map[string]any),
		fn: func(root *model.Part, args ...any) (any, error) {
			path, _ := args[0].(string)

			n, ok := model.Find(root, path)
			if !ok {
				return nil, ErrNoNode.With(slog.String("path", path)).Errorf("no node at %q", path)
			}

			return model.Map(n), nil
		},
	},
	"paths": {
		signature: "paths()",
		types:     new(func() []string),
		fn: func(root *model.Part, _ ...any) (any, error) {
			var out []string
			for path := range model.All(root) {
				out = append(out, path)
			}

			return out, nil
		},
	},
	"stats": {
		signature: "stats(path)",
		params:    []string{"path"},
		types:     new(func(string) map[string]any),
		fn: func(root *model.Part, args ...any) (any, error) {
			path, _ := args[0].(string)

			n, ok := model.Find(root, path)
			if !ok {
				return nil, ErrNoNode.With(slog.String("path", path)).Errorf("no node at %q", path)
			}

			s, err := render.Summarize(n)
			if err != nil {
				return nil, err
			}

			return map[string]any{
				"parts": s.Parts, "models": s.Models, "meshes": s.Meshes,
				"quads": s.Quads, "vertices": s.Vertices, "triangles": s.Triangles,
			}, nil
		},
	},
}

// FunctionNames returns the helpers available to expressions, sorted.
func FunctionNames() []string { return slices.Sorted(maps.Keys(functions)) }

// Env returns the variables of an expression over root: each top-level
// child under its name, and the whole tree as [RootName].
func Env(root *model.Part) map[string]any {
	env := make(map[string]any, root.Children.Len()+1)

	for name, c := range root.Children.All() {
		env[name] = model.Map(c)
	}

	env[RootName] = model.Map(root)

	return env
}

// Eval compiles src against the tree and runs it.
func Eval(root *model.Part, src string) (any, error) {
	env := Env(root)
	opts := []expr.Option{expr.Env(env)}

	for _, name := range FunctionNames() {
		f := functions[name]
		opts = append(opts, expr.Function(name, func(args ...any) (any, error) {
			return f.fn(root, args...)
		}, f.types))
	}

	program, err := expr.Compile(src, opts...)
	if err != nil {
		return nil, ErrCompile.With(slog.String("source", src)).Wrap(err)
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, ErrEval.With(slog.String("source", src)).Wrap(err)
	}

	return out, nil
}

// FormatResult renders v on one line.
func FormatResult(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case map[string]any, []any, []string:
		b, err := yaml.MarshalWithOptions(v, yaml.Flow(true))
		if err == nil {
			return string(trimNewline(b))
		}
	}

	b, err := yaml.Marshal(v)
	if err != nil {
		return slog.AnyValue(v).String()
	}

	return string(trimNewline(b))
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}

	return b
}

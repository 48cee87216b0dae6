package local

import (
	"log/slog"

	"github.com/ardnew/mson/elem"
)

// Block is an ordered set of named expressions.
type Block struct {
	exprs map[string]Expr
	names []string
}

// ParseBlock parses an object of name to expression. A null value is an
// empty block.
func ParseBlock(v elem.Value) (Block, error) {
	var b Block

	if v.IsNull() {
		return b, nil
	}

	obj, ok := v.AsObject()
	if !ok {
		return b, ErrMalformedExpression.
			With(slog.String("kind", v.Kind().String())).
			Errorf("locals must be an object")
	}

	for name, value := range obj.All() {
		expr, err := Parse(value)
		if err != nil {
			return Block{}, ErrMalformedExpression.
				With(slog.String("local", name)).
				Wrap(err)
		}

		b.Set(name, expr)
	}

	return b, nil
}

// Set binds name to expr.
func (b *Block) Set(name string, expr Expr) {
	if b.exprs == nil {
		b.exprs = map[string]Expr{}
	}

	if _, ok := b.exprs[name]; !ok {
		b.names = append(b.names, name)
	}

	b.exprs[name] = expr
}

// Get returns the expression bound to name.
func (b Block) Get(name string) (Expr, bool) {
	e, ok := b.exprs[name]

	return e, ok
}

// Len returns the number of bindings.
func (b Block) Len() int { return len(b.names) }

// Keys returns the bound names in declaration order.
func (b Block) Keys() []string { return append([]string(nil), b.names...) }

// AppendKeys adds the bound names missing from keys, keeping order.
func (b Block) AppendKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		seen[k] = struct{}{}
	}

	for _, name := range b.names {
		if _, ok := seen[name]; !ok {
			keys = append(keys, name)
			seen[name] = struct{}{}
		}
	}

	return keys
}

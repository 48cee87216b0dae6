package mson

import (
	"log/slog"
	"strings"

	"github.com/ardnew/mson/ident"
	"github.com/ardnew/mson/model"
)

// ModelFactory finishes a model after its tree is assembled. The value it
// stores in m.Value is what callers of the model receive.
type ModelFactory func(c Context, m *model.Model) error

// Implementation is a named model type a slot instantiates.
type Implementation struct {
	className string
	id        ident.Identifier
	factory   ModelFactory
}

// ImplementationID returns the id of the implementation called className:
// the class name with its separators turned into path segments in the
// dynamic namespace.
func ImplementationID(className string) ident.Identifier {
	path := strings.NewReplacer(".", "/", "$", "/").Replace(className)

	return ident.Identifier{Namespace: DynamicNamespace, Path: strings.ToLower(path)}
}

func newImplementation(className string, factory ModelFactory) *Implementation {
	return &Implementation{
		className: className,
		id:        ImplementationID(className),
		factory:   factory,
	}
}

func (i *Implementation) ID() ident.Identifier { return i.id }
func (i *Implementation) ClassName() string    { return i.className }

// CreateModel assembles the tree of c into a new model and hands it to the
// factory.
func (i *Implementation) CreateModel(c Context) (*model.Model, error) {
	tree := model.NewPart(i.id.String())

	if err := c.Tree(tree.Children, c); err != nil {
		return nil, err
	}

	m := model.NewModel(i.id, tree)

	if i.factory != nil {
		if err := i.factory(c, m); err != nil {
			return nil, ErrMalformedComponent.
				With(slog.String("implementation", i.className)).
				Wrap(err)
		}
	}

	return m, nil
}

func (i *Implementation) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("class", i.className),
		slog.String("id", i.id.String()),
		slog.Bool("factory", i.factory != nil),
	)
}

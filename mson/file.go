package mson

import (
	"iter"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/mson/elem"
	"github.com/ardnew/mson/ident"
	"github.com/ardnew/mson/model"
)

// DynamicSuffix is appended to the id of a file to name inline data it
// declares.
const DynamicSuffix = "_dynamic"

// File is a parsed description file.
type File struct {
	id      ident.Identifier
	foundry *Foundry
	parent  *File
	locals  FileLocals

	elements components
	named    map[string]Component
}

// newFile parses obj as the file id inheriting from parent, which may be
// nil.
func newFile(f *Foundry, id ident.Identifier, obj *elem.Object, parent *File) (*File, error) {
	var inherited FileLocals = emptyFileLocals{}
	if parent != nil {
		inherited = parent.locals
	}

	vars, err := newRootVariables(id, obj, inherited)
	if err != nil {
		return nil, ErrMalformedComponent.With(slog.String("model", id.String())).Wrap(err)
	}

	file := &File{
		id:      id,
		foundry: f,
		parent:  parent,
		locals:  vars,
		named:   map[string]Component{},
	}

	data, ok := obj.Member("data")
	if !ok {
		return file, nil
	}

	entries, ok := data.AsObject()
	if !ok {
		return nil, ErrMalformedComponent.
			With(slog.String("model", id.String())).
			Errorf("data must be an object, got %s", data.Kind())
	}

	for key, v := range entries.All() {
		if _, isObj := v.AsObject(); !isObj && v.Kind() != elem.KindString {
			continue
		}

		comp, err := file.Load(Name{Key: key}, v, CompoundID)
		if err != nil {
			return nil, err
		}

		file.elements.Set(key, comp)
	}

	return file, nil
}

// ID returns the id the file was loaded as.
func (f *File) ID() ident.Identifier { return f.id }

// Parent returns the file f inherits from, or nil.
func (f *File) Parent() *File { return f.parent }

// Locals returns the declared scope of f.
func (f *File) Locals() FileLocals { return f.locals }

// ComponentNames returns the top-level component names of f and its
// parents.
func (f *File) ComponentNames() []string {
	var names []string
	if f.parent != nil {
		names = f.parent.ComponentNames()
	}

	for _, k := range f.elements.Keys() {
		if !slices.Contains(names, k) {
			names = append(names, k)
		}
	}

	return names
}

// Load parses v as a component of f.
func (f *File) Load(name Name, v elem.Value, defaultType ident.Identifier) (Component, error) {
	name.Key = strings.TrimSpace(name.Key)

	if obj, ok := v.AsObject(); ok {
		typ, err := typeOf(obj, defaultType)
		if err != nil {
			return nil, err
		}

		factory, err := f.foundry.registry.Component(typ)
		if err != nil {
			return nil, err
		}

		comp, err := factory(f, name, obj)
		if err != nil {
			return nil, ErrMalformedComponent.
				With(slog.String("model", f.id.String()), slog.String("component", name.String()), slog.String("type", typ.String())).
				Wrap(err)
		}

		return comp, nil
	}

	if s, ok := v.AsString(); ok {
		if target, ok := strings.CutPrefix(s, LinkPrefix); ok {
			return newLink(target), nil
		}

		return newImport(f, name, v)
	}

	return nil, ErrMalformedComponent.
		With(slog.String("model", f.id.String()), slog.String("component", name.String())).
		Errorf("input is not a json object and could not be resolved to a #link or model reference")
}

// AddNamed registers c under the dotted name of a nested component.
func (f *File) AddNamed(name Name, c Component) {
	if name.IsZero() {
		return
	}

	if name.Parent == "" {
		if _, ok := f.elements.Get(name.Key); !ok {
			f.elements.Set(name.Key, c)
		}

		return
	}

	f.named[name.String()] = c
}

// Resolve requests the file v refers to. An identifier is loaded through
// the foundry; an inline object becomes a file of its own, named after f
// with [DynamicSuffix].
func (f *File) Resolve(v elem.Value) (*Future, error) {
	if s, ok := v.AsString(); ok {
		id, err := ident.Parse(s)
		if err != nil {
			return nil, err
		}

		return f.foundry.request(id), nil
	}

	obj, ok := v.AsObject()
	if !ok {
		return nil, ErrMalformedComponent.
			With(slog.String("model", f.id.String())).
			Errorf("data must be a model id or an object, got %s", v.Kind())
	}

	if obj.Has("data") {
		return nil, ErrNestedData.
			With(slog.String("model", f.id.String())).
			Errorf("dynamic model files should not have a nested data block")
	}

	id := f.id.WithSuffix(DynamicSuffix)

	file, err := newFile(f.foundry, id, elem.NewObject().Set("data", v), nil)
	if err != nil {
		return nil, err
	}

	return readyFuture(id, file), nil
}

// Implementation returns the implementation registered for className.
func (f *File) Implementation(className string) *Implementation {
	return f.foundry.registry.Implementation(className)
}

// CreateContext returns the root context of f for a build of m with the
// evaluated scope locals.
func (f *File) CreateContext(m *model.Model, locals Locals) Context {
	inherited := EmptyContext
	if f.parent != nil {
		inherited = f.parent.CreateContext(m, locals)
	}

	return newRootContext(m, inherited, locals, f)
}

func (f *File) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("id", f.id.String()),
		slog.Int("components", f.elements.Len()),
	}

	if f.parent != nil {
		attrs = append(attrs, slog.String("parent", f.parent.id.String()))
	}

	return slog.GroupValue(attrs...)
}

// components is an insertion-ordered map of name to component.
type components struct {
	m     map[string]Component
	names []string
}

func (c *components) Set(name string, comp Component) {
	if c.m == nil {
		c.m = map[string]Component{}
	}

	if _, ok := c.m[name]; !ok {
		c.names = append(c.names, name)
	}

	c.m[name] = comp
}

func (c *components) Get(name string) (Component, bool) {
	comp, ok := c.m[name]

	return comp, ok
}

func (c *components) Len() int       { return len(c.names) }
func (c *components) Keys() []string { return append([]string(nil), c.names...) }

func (c *components) All() iter.Seq2[string, Component] {
	return func(yield func(string, Component) bool) {
		for _, name := range c.names {
			if !yield(name, c.m[name]) {
				return
			}
		}
	}
}

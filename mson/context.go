package mson

import (
	"log/slog"

	"github.com/ardnew/mson/model"
)

// Context is the scope of one build: the model under construction, the
// builder currently receiving nodes, the evaluated locals and the memo
// cache shared by the whole build.
type Context interface {
	// Root returns the context of the file the build started in.
	Root() Context
	// Model returns the model being built, if any.
	Model() *model.Model
	// Extra returns the builder that exported nodes are added to.
	Extra() any
	Locals() Locals
	// Memo returns the node exported under name in this build, calling fn
	// and remembering its result on first use. An empty name is never
	// remembered.
	Memo(name string, fn func() (model.Node, error)) (model.Node, error)
	// Tree exports the top-level parts and models of the file and its
	// parents into tree, exporting with c. Names already in tree are kept.
	Tree(tree *model.Children, c Context) error
	// FindByName exports the component called name with c.
	FindByName(c Context, name string) (model.Node, error)
	// Resolve returns a context carrying extra and locals.
	Resolve(extra any, locals Locals) Context
}

// rootContext is the context of a file within a build.
type rootContext struct {
	model     *model.Model
	inherited Context
	locals    Locals
	file      *File

	memo    map[string]model.Node
	finding map[string]bool
}

func newRootContext(m *model.Model, inherited Context, locals Locals, file *File) *rootContext {
	return &rootContext{
		model:     m,
		inherited: inherited,
		locals:    locals,
		file:      file,
		memo:      map[string]model.Node{},
		finding:   map[string]bool{},
	}
}

func (r *rootContext) Root() Context       { return r }
func (r *rootContext) Model() *model.Model { return r.model }
func (r *rootContext) Locals() Locals      { return r.locals }

func (r *rootContext) Extra() any {
	if r.model == nil {
		return nil
	}

	return r.model
}

func (r *rootContext) Memo(name string, fn func() (model.Node, error)) (model.Node, error) {
	if name == "" {
		return fn()
	}

	if n, ok := r.memo[name]; ok {
		return n, nil
	}

	n, err := fn()
	if err != nil {
		return nil, err
	}

	// fn may have stored name itself through a link
	if prev, ok := r.memo[name]; ok {
		return prev, nil
	}

	r.memo[name] = n

	return n, nil
}

func (r *rootContext) Tree(tree *model.Children, c Context) error {
	for name, comp := range r.file.elements.All() {
		if tree.Has(name) {
			continue
		}

		texture, err := c.Locals().Texture()
		if err != nil {
			return err
		}

		// top-level geometry is wrapped in a part of its own
		pb := NewPartBuilder().SetTexture(texture)

		n, err := comp.Export(c.Resolve(pb, c.Locals()))
		if err != nil {
			return err
		}

		switch n := n.(type) {
		case *model.Part, *model.Model:
			tree.Set(name, n)
		case *model.Geometry:
			tree.Set(name, pb.AddCube(n).Build(name))
		}
	}

	return r.inherited.Tree(tree, c)
}

func (r *rootContext) FindByName(c Context, name string) (model.Node, error) {
	comp, ok := r.file.elements.Get(name)
	if !ok {
		comp, ok = r.file.named[name]
	}

	if !ok {
		return r.inherited.FindByName(c, name)
	}

	if r.finding[name] {
		return nil, ErrCyclicalComponent.
			With(slog.String("model", r.locals.ModelID().String()), slog.String("name", name)).
			Errorf("component %q refers to itself", name)
	}

	r.finding[name] = true
	defer delete(r.finding, name)

	return comp.Export(c)
}

func (r *rootContext) Resolve(extra any, locals Locals) Context {
	if extra == r.Extra() && locals == r.locals {
		return r
	}

	return &subContext{parent: r, locals: locals, extra: extra}
}

// subContext replaces the builder and locals of a root context.
type subContext struct {
	parent Context
	locals Locals
	extra  any
}

func (s *subContext) Root() Context       { return s.parent.Root() }
func (s *subContext) Model() *model.Model { return s.parent.Model() }
func (s *subContext) Extra() any          { return s.extra }
func (s *subContext) Locals() Locals      { return s.locals }

func (s *subContext) Memo(name string, fn func() (model.Node, error)) (model.Node, error) {
	return s.parent.Memo(name, fn)
}

func (s *subContext) Tree(tree *model.Children, c Context) error {
	return s.parent.Tree(tree, c)
}

func (s *subContext) FindByName(c Context, name string) (model.Node, error) {
	return s.parent.FindByName(c, name)
}

func (s *subContext) Resolve(extra any, locals Locals) Context {
	if extra == s.extra && locals == s.locals {
		return s
	}

	return &subContext{parent: s.parent, locals: locals, extra: extra}
}

// emptyContext ends every build context chain.
type emptyContext struct{}

// EmptyContext is a context with no components and zero locals.
var EmptyContext Context = emptyContext{}

func (emptyContext) Root() Context       { return EmptyContext }
func (emptyContext) Model() *model.Model { return nil }
func (emptyContext) Extra() any          { return nil }
func (emptyContext) Locals() Locals      { return theEmptyLocals }

func (emptyContext) Memo(name string, fn func() (model.Node, error)) (model.Node, error) {
	return fn()
}

func (emptyContext) Tree(*model.Children, Context) error { return nil }

func (emptyContext) FindByName(_ Context, name string) (model.Node, error) {
	return nil, ErrLinkNotFound.
		With(slog.String("name", name)).
		Errorf("key not found '%s'", name)
}

func (emptyContext) Resolve(any, Locals) Context { return EmptyContext }

var theEmptyLocals Locals = &emptyLocals{}

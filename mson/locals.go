package mson

import (
	"log/slog"
	"strings"

	"github.com/ardnew/mson/elem"
	"github.com/ardnew/mson/geom"
	"github.com/ardnew/mson/ident"
	"github.com/ardnew/mson/local"
)

// NullID names the empty model.
var NullID = ident.Identifier{Namespace: "mson", Path: "null"}

// FileLocals is the scope of a description file as declared: its texture,
// dilation and unevaluated locals, falling through to its parent file.
type FileLocals interface {
	ModelID() ident.Identifier
	Texture() geom.Texture
	Dilation() geom.Vec3
	// Local returns the expression bound to name, or [local.Zero].
	Local(name string) local.Expr
	Keys() []string
}

// Locals is the evaluated scope of a build.
type Locals interface {
	ModelID() ident.Identifier
	Texture() (geom.Texture, error)
	Dilation() (geom.Vec3, error)
	Local(name string) (float64, error)
	Keys() []string
}

// emptyFileLocals ends every file scope chain.
type emptyFileLocals struct{}

func (emptyFileLocals) ModelID() ident.Identifier { return NullID }
func (emptyFileLocals) Texture() geom.Texture     { return geom.EmptyTexture }
func (emptyFileLocals) Dilation() geom.Vec3       { return geom.Vec3{} }
func (emptyFileLocals) Local(string) local.Expr   { return local.Zero }
func (emptyFileLocals) Keys() []string            { return nil }

// rootVariables is the scope declared at the top of a file.
type rootVariables struct {
	id       ident.Identifier
	parent   FileLocals
	texture  geom.Texture
	dilation geom.Vec3
	locals   local.Block
}

func newRootVariables(id ident.Identifier, obj *elem.Object, parent FileLocals) (*rootVariables, error) {
	tex, err := parseTexture(obj, "texture")
	if err != nil {
		return nil, err
	}

	block, err := local.ParseBlock(member(obj, "locals"))
	if err != nil {
		return nil, err
	}

	dilation, ok, err := acceptNumbers(obj, "dilate")
	if err != nil {
		return nil, err
	}

	if !ok {
		dilation = parent.Dilation()
	}

	return &rootVariables{
		id:       id,
		parent:   parent,
		texture:  tex.merge(parent.Texture()),
		dilation: dilation,
		locals:   block,
	}, nil
}

func (r *rootVariables) ModelID() ident.Identifier { return r.id }
func (r *rootVariables) Texture() geom.Texture     { return r.texture }
func (r *rootVariables) Dilation() geom.Vec3       { return r.dilation }

func (r *rootVariables) Local(name string) local.Expr {
	if e, ok := r.locals.Get(name); ok {
		return e
	}

	return r.parent.Local(name)
}

func (r *rootVariables) Keys() []string { return r.locals.AppendKeys(r.parent.Keys()) }

// overlayLocals layers extra locals, and optionally a texture and dilation,
// over the scope of another file. Slots and imports use it to parameterize
// the file they pull in.
type overlayLocals struct {
	parent   FileLocals
	locals   local.Block
	texture  *geom.Texture
	dilation *geom.Vec3
}

func (o *overlayLocals) ModelID() ident.Identifier { return o.parent.ModelID() }

func (o *overlayLocals) Texture() geom.Texture {
	if o.texture != nil {
		return *o.texture
	}

	return o.parent.Texture()
}

func (o *overlayLocals) Dilation() geom.Vec3 {
	if o.dilation != nil {
		return *o.dilation
	}

	return o.parent.Dilation()
}

func (o *overlayLocals) Local(name string) local.Expr {
	if e, ok := o.locals.Get(name); ok {
		return e
	}

	return o.parent.Local(name)
}

func (o *overlayLocals) Keys() []string { return o.locals.AppendKeys(o.parent.Keys()) }

// ModelLocals evaluates the locals of a file for one build. Each value is
// computed at most once.
type ModelLocals struct {
	id    ident.Identifier
	file  FileLocals
	cache map[string]float64
}

// NewModelLocals returns the evaluated scope of file, reporting id as its
// model.
func NewModelLocals(id ident.Identifier, file FileLocals) *ModelLocals {
	return &ModelLocals{id: id, file: file, cache: map[string]float64{}}
}

func (m *ModelLocals) ModelID() ident.Identifier      { return m.id }
func (m *ModelLocals) Texture() (geom.Texture, error) { return m.file.Texture(), nil }
func (m *ModelLocals) Dilation() (geom.Vec3, error)   { return m.file.Dilation(), nil }
func (m *ModelLocals) Keys() []string                 { return m.file.Keys() }

// Local evaluates the local name.
func (m *ModelLocals) Local(name string) (float64, error) { return m.eval(name, nil) }

func (m *ModelLocals) eval(name string, chain *stackFrame) (float64, error) {
	if v, ok := m.cache[name]; ok {
		return v, nil
	}

	frame := &stackFrame{locals: m, parent: chain, name: strings.ToLower(name)}

	for f := chain; f != nil; f = f.parent {
		if f.name == frame.name {
			return 0, ErrCyclicalReference.
				With(slog.String("model", m.id.String()), slog.String("local", name)).
				Errorf("cyclical reference. %s", frame)
		}
	}

	v, err := m.file.Local(name).Eval(frame)
	if err != nil {
		return 0, err
	}

	m.cache[name] = v

	return v, nil
}

func (m *ModelLocals) String() string { return "[locals " + m.id.String() + "]" }

// stackFrame is the chain of local names under evaluation.
type stackFrame struct {
	locals *ModelLocals
	parent *stackFrame
	name   string
}

// Local evaluates name with f on the evaluation chain.
func (f *stackFrame) Local(name string) (float64, error) { return f.locals.eval(name, f) }

func (f *stackFrame) String() string {
	var names []string
	for p := f; p != nil; p = p.parent {
		names = append(names, p.name)
	}

	var b strings.Builder

	b.WriteString(f.locals.String())

	for i := len(names) - 1; i >= 0; i-- {
		b.WriteString(" -> ")
		b.WriteString(names[i])
	}

	return b.String()
}

// compoundLocals layers the dilation and texture of a part over the scope
// it is exported in.
type compoundLocals struct {
	parent  Locals
	dilate  local.Vector
	texture *textureSpec
}

func (c *compoundLocals) ModelID() ident.Identifier { return c.parent.ModelID() }

func (c *compoundLocals) Dilation() (geom.Vec3, error) {
	inherited, err := c.parent.Dilation()
	if err != nil {
		return geom.Vec3{}, err
	}

	own, err := c.dilate.Eval(c.parent)
	if err != nil {
		return geom.Vec3{}, err
	}

	return inherited.Add(geom.Vec3Of(own)), nil
}

func (c *compoundLocals) Texture() (geom.Texture, error) {
	base, err := c.parent.Texture()
	if err != nil {
		return geom.Texture{}, err
	}

	return c.texture.merge(base), nil
}

func (c *compoundLocals) Local(name string) (float64, error) { return c.parent.Local(name) }
func (c *compoundLocals) Keys() []string                     { return c.parent.Keys() }

// emptyLocals is the evaluated scope of the empty context.
type emptyLocals struct{}

func (*emptyLocals) ModelID() ident.Identifier      { return NullID }
func (*emptyLocals) Texture() (geom.Texture, error) { return geom.EmptyTexture, nil }
func (*emptyLocals) Dilation() (geom.Vec3, error)   { return geom.Vec3{}, nil }
func (*emptyLocals) Local(string) (float64, error)  { return 0, nil }
func (*emptyLocals) Keys() []string                 { return nil }

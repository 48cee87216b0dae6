package mson

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/mson/elem"
	"github.com/ardnew/mson/geom"
	"github.com/ardnew/mson/ident"
	"github.com/ardnew/mson/model"
)

// Component is a parsed node of a description file.
type Component interface {
	// Export produces a *model.Part, *model.Geometry or *model.Model in c.
	Export(c Context) (model.Node, error)
}

// TryExport exports comp and reports whether the result is a T. Export
// errors are returned unchanged.
func TryExport[T model.Node](comp Component, c Context) (T, bool, error) {
	var zero T

	n, err := comp.Export(c)
	if err != nil {
		return zero, false, err
	}

	t, ok := n.(T)

	return t, ok, nil
}

// ComponentFactory parses obj as a component called name.
type ComponentFactory func(fc FileContext, name Name, obj *elem.Object) (Component, error)

// FileContext is what a component sees of its file while being parsed.
type FileContext interface {
	// Locals returns the declared scope of the file.
	Locals() FileLocals
	// Load parses v as a component, defaulting objects without a type to
	// defaultType.
	Load(name Name, v elem.Value, defaultType ident.Identifier) (Component, error)
	// AddNamed makes c reachable by links to name.
	AddNamed(name Name, c Component)
	// Resolve requests the file that v refers to: an identifier string, or
	// an inline object of components.
	Resolve(v elem.Value) (*Future, error)
	// Implementation returns the implementation registered for className.
	Implementation(className string) *Implementation
}

// Name places a component in its file: the dotted path of the enclosing
// parts and its own key.
//
// Components without a key still need a place for their descendants, so
// Slot holds a segment, such as "cubes[2]", that stands in for the key when
// naming children. It never appears in String.
type Name struct {
	Parent string
	Key    string
	Slot   string
}

// Child returns the name of the child key of n.
func (n Name) Child(key string) Name { return Name{Parent: n.scope(), Key: key} }

// Index returns the name of the i'th unnamed element of list under n.
func (n Name) Index(list string, i int) Name {
	return Name{Parent: n.scope(), Slot: list + "[" + strconv.Itoa(i) + "]"}
}

// scope is the path children of n are named under.
func (n Name) scope() string {
	if s := n.String(); s != "" {
		return s
	}

	switch {
	case n.Slot == "":
		return n.Parent
	case n.Parent == "":
		return n.Slot
	default:
		return n.Parent + "." + n.Slot
	}
}

// String returns the dotted path of n, or "" if n has no key.
func (n Name) String() string {
	switch {
	case n.Key == "":
		return ""
	case n.Parent == "":
		return n.Key
	default:
		return n.Parent + "." + n.Key
	}
}

// IsZero reports whether n has no key.
func (n Name) IsZero() bool { return n.Key == "" }

// resolveName substitutes the "name" member for an empty key.
func resolveName(name Name, obj *elem.Object) Name {
	if name.Key == "" {
		if s, ok := stringMember(obj, "name"); ok {
			name.Key = s
		}
	}

	return name
}

func member(obj *elem.Object, key string) elem.Value {
	v, _ := obj.Member(key)

	return v
}

func stringMember(obj *elem.Object, key string) (string, bool) {
	v, ok := obj.Member(key)
	if !ok {
		return "", false
	}

	return v.AsString()
}

func requireMember(obj *elem.Object, key string, caller string) (elem.Value, error) {
	v, ok := obj.Member(key)
	if !ok {
		return elem.Null(), ErrMissingMember.
			With(slog.String("member", key), slog.String("caller", caller)).
			Errorf("missing required member '%s' in %s", key, caller)
	}

	return v, nil
}

func requireString(obj *elem.Object, key string, caller string) (string, error) {
	v, err := requireMember(obj, key, caller)
	if err != nil {
		return "", err
	}

	s, ok := v.AsString()
	if !ok {
		return "", ErrMalformedComponent.
			With(slog.String("member", key), slog.String("caller", caller)).
			Errorf("member '%s' in %s must be a string, got %s", key, caller, v.Kind())
	}

	return s, nil
}

// boolOr returns the boolean member key, or def when it is absent or not
// a boolean.
func boolOr(obj *elem.Object, key string, def bool) bool {
	if b, ok := member(obj, key).AsBool(); ok {
		return b
	}

	return def
}

// numberOr returns the number member key, or def when it is absent or not
// a number.
func numberOr(obj *elem.Object, key string, def float64) float64 {
	if n, ok := member(obj, key).AsNumber(); ok {
		return n
	}

	return def
}

// acceptBools reads member key as n booleans: one boolean fills all, an
// array must have exactly n.
func acceptBools(obj *elem.Object, key string, n int) ([]bool, error) {
	out := make([]bool, n)

	v, ok := obj.Member(key)
	if !ok {
		return out, nil
	}

	if b, ok := v.AsBool(); ok {
		for i := range out {
			out[i] = b
		}

		return out, nil
	}

	arr, ok := v.AsArray()
	if !ok || len(arr) != n {
		return nil, ErrMalformedComponent.
			With(slog.String("member", key)).
			Errorf("expected array of %d elements, instead got %s", n, v)
	}

	for i, e := range arr {
		b, ok := e.AsBool()
		if !ok {
			return nil, ErrMalformedComponent.
				With(slog.String("member", key)).
				Errorf("expected boolean, got %s", e)
		}

		out[i] = b
	}

	return out, nil
}

// acceptBool reads an optional boolean member.
func acceptBool(obj *elem.Object, key string) (*bool, error) {
	v, ok := obj.Member(key)
	if !ok {
		return nil, nil
	}

	b, ok := v.AsBool()
	if !ok {
		return nil, ErrMalformedComponent.
			With(slog.String("member", key)).
			Errorf("expected boolean, got %s", v)
	}

	return &b, nil
}

// acceptNumbers reads an optional literal vector: one number fills all,
// an array must have exactly three.
func acceptNumbers(obj *elem.Object, key string) (geom.Vec3, bool, error) {
	var out geom.Vec3

	v, ok := obj.Member(key)
	if !ok {
		return out, false, nil
	}

	if n, ok := v.AsNumber(); ok {
		return geom.Vec3{n, n, n}, true, nil
	}

	arr, ok := v.AsArray()
	if !ok || len(arr) != len(out) {
		return out, false, ErrMalformedComponent.
			With(slog.String("member", key)).
			Errorf("expected array of %d elements, instead got %s", len(out), v)
	}

	for i, e := range arr {
		n, ok := e.AsNumber()
		if !ok {
			return out, false, ErrMalformedComponent.
				With(slog.String("member", key)).
				Errorf("expected number, got %s", e)
		}

		out[i] = n
	}

	return out, true, nil
}

// textureSpec is a texture member: each field present replaces the
// corresponding field of the texture it is merged over.
type textureSpec struct {
	u, v, w, h *float64
}

// parseTexture reads the optional texture member key. A nil spec merges to
// the base texture unchanged.
func parseTexture(obj *elem.Object, key string) (*textureSpec, error) {
	v, ok := obj.Member(key)
	if !ok {
		return nil, nil
	}

	tex, ok := v.AsObject()
	if !ok {
		return nil, ErrMalformedComponent.
			With(slog.String("member", key)).
			Errorf("texture must be an object of u, v, w, h, got %s", v.Kind())
	}

	field := func(k string) *float64 {
		if n, ok := member(tex, k).AsNumber(); ok {
			return &n
		}

		return nil
	}

	return &textureSpec{u: field("u"), v: field("v"), w: field("w"), h: field("h")}, nil
}

func (t *textureSpec) merge(base geom.Texture) geom.Texture {
	if t == nil {
		return base
	}

	if t.u != nil {
		base.U = *t.u
	}

	if t.v != nil {
		base.V = *t.v
	}

	if t.w != nil {
		base.W = *t.w
	}

	if t.h != nil {
		base.H = *t.h
	}

	return base
}

// typeOf returns the component type declared by obj, looked up in the mson
// namespace when unqualified.
func typeOf(obj *elem.Object, def ident.Identifier) (ident.Identifier, error) {
	s, ok := stringMember(obj, "type")
	if !ok {
		return def, nil
	}

	return ident.ParseDefault(strings.TrimSpace(s), Namespace)
}

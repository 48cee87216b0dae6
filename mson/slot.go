package mson

import (
	"github.com/ardnew/mson/elem"
	"github.com/ardnew/mson/geom"
	"github.com/ardnew/mson/local"
	"github.com/ardnew/mson/model"
)

// slot instantiates an implementation over the tree of another file.
type slot struct {
	name           Name
	implementation *Implementation
	data           *Future

	locals   local.Block
	texture  *geom.Texture
	dilation *geom.Vec3
}

func newSlot(fc FileContext, name Name, obj *elem.Object) (Component, error) {
	caller := SlotID.String() + " in " + fc.Locals().ModelID().String()

	data, err := requireMember(obj, "data", caller)
	if err != nil {
		return nil, err
	}

	className, err := requireString(obj, "implementation", caller)
	if err != nil {
		return nil, err
	}

	s := &slot{name: name, implementation: fc.Implementation(className)}

	if s.name.IsZero() {
		if s.name.Key, err = requireString(obj, "name", caller); err != nil {
			return nil, err
		}
	}

	tex, err := parseTexture(obj, "texture")
	if err != nil {
		return nil, err
	}

	if tex != nil {
		t := tex.merge(geom.EmptyTexture)
		s.texture = &t
	}

	dilation, ok, err := acceptNumbers(obj, "dilate")
	if err != nil {
		return nil, err
	}

	if ok {
		s.dilation = &dilation
	}

	if s.locals, err = local.ParseBlock(member(obj, "locals")); err != nil {
		return nil, err
	}

	if s.data, err = fc.Resolve(data); err != nil {
		return nil, err
	}

	fc.AddNamed(s.name, s)

	return s, nil
}

func (s *slot) Export(c Context) (model.Node, error) {
	return c.Memo(s.name.String(), func() (model.Node, error) {
		file, err := s.data.File()
		if err != nil {
			return nil, err
		}

		scope := &overlayLocals{
			parent:   file.Locals(),
			locals:   s.locals,
			texture:  s.texture,
			dilation: s.dilation,
		}

		locals := NewModelLocals(s.implementation.ID(), scope)
		sub := file.CreateContext(c.Model(), locals)

		return s.implementation.CreateModel(sub.Resolve(c.Extra(), sub.Locals()))
	})
}

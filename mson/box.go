package mson

import (
	"log/slog"

	"github.com/ardnew/mson/elem"
	"github.com/ardnew/mson/geom"
	"github.com/ardnew/mson/local"
	"github.com/ardnew/mson/model"
)

// box is a cuboid, or a cone when taper is set.
type box struct {
	from    local.Vector
	size    local.Vector
	dilate  local.Vector
	mirror  *bool
	texture *textureSpec

	taper local.Expr
}

func newBox(_ FileContext, _ Name, obj *elem.Object) (Component, error) {
	return parseBox(obj)
}

func parseBox(obj *elem.Object) (*box, error) {
	b := &box{}

	var err error

	if b.from, err = local.ParseVector(obj, "from", 3); err != nil {
		return nil, err
	}

	if b.size, err = local.ParseVector(obj, "size", 3); err != nil {
		return nil, err
	}

	if b.texture, err = parseTexture(obj, "texture"); err != nil {
		return nil, err
	}

	if b.mirror, err = acceptBool(obj, "mirror"); err != nil {
		return nil, err
	}

	if b.dilate, err = local.ParseVector(obj, "dilate", 3); err != nil {
		return nil, err
	}

	return b, nil
}

func newCone(fc FileContext, _ Name, obj *elem.Object) (Component, error) {
	b, err := parseBox(obj)
	if err != nil {
		return nil, err
	}

	caller := ConeID.String() + " in " + fc.Locals().ModelID().String()

	v, err := requireMember(obj, "taper", caller)
	if err != nil {
		return nil, err
	}

	if !v.IsPrimitive() {
		return nil, local.ErrMalformedExpression.
			With(slog.String("member", "taper")).
			Errorf("non-primitive type found in member 'taper' for model %s, can only be values (number) or variable references (#variable): %s", fc.Locals().ModelID(), v)
	}

	if b.taper, err = local.Primitive(v); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *box) Export(c Context) (model.Node, error) {
	bb, err := boxBuilder(c)
	if err != nil {
		return nil, err
	}

	locals := c.Locals()

	base, err := locals.Texture()
	if err != nil {
		return nil, err
	}

	from, err := b.from.Eval(locals)
	if err != nil {
		return nil, err
	}

	size, err := b.size.Eval(locals)
	if err != nil {
		return nil, err
	}

	dilate, err := b.dilate.Eval(locals)
	if err != nil {
		return nil, err
	}

	bb.SetTexture(b.texture.merge(base)).
		SetPosition(geom.Vec3Of(from)).
		SetSize(geom.Vec3Of(size)).
		Dilate(geom.Vec3Of(dilate)).
		SetMirrorSingle(geom.X, b.mirror)

	unfold := geom.Box()

	if b.taper != nil {
		taper, err := b.taper.Eval(locals)
		if err != nil {
			return nil, err
		}

		unfold = geom.Cone(taper)
	}

	quads, err := bb.Build(unfold)
	if err != nil {
		return nil, err
	}

	return &model.Geometry{Quads: quads}, nil
}

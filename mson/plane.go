package mson

import (
	"log/slog"

	"github.com/ardnew/mson/elem"
	"github.com/ardnew/mson/geom"
	"github.com/ardnew/mson/local"
	"github.com/ardnew/mson/model"
)

// plane is a single textured face.
type plane struct {
	position local.Vector
	size     local.Vector
	dilate   local.Vector
	texture  *textureSpec
	mirror   []bool
	face     geom.Face
}

func newPlane(fc FileContext, _ Name, obj *elem.Object) (Component, error) {
	p := &plane{}

	var err error

	if p.position, err = local.ParseVector(obj, "position", 3); err != nil {
		return nil, err
	}

	if p.size, err = local.ParseVector(obj, "size", 2); err != nil {
		return nil, err
	}

	if p.texture, err = parseTexture(obj, "texture"); err != nil {
		return nil, err
	}

	if p.mirror, err = acceptBools(obj, "mirror", 2); err != nil {
		return nil, err
	}

	if p.dilate, err = local.ParseVector(obj, "dilate", 3); err != nil {
		return nil, err
	}

	face, err := requireString(obj, "face", PlaneID.String()+" in "+fc.Locals().ModelID().String())
	if err != nil {
		return nil, err
	}

	p.face = geom.ParseFace(face)

	return p, nil
}

func (p *plane) Export(c Context) (model.Node, error) {
	bb, err := boxBuilder(c)
	if err != nil {
		return nil, err
	}

	locals := c.Locals()

	base, err := locals.Texture()
	if err != nil {
		return nil, err
	}

	pos, err := p.position.Eval(locals)
	if err != nil {
		return nil, err
	}

	size, err := p.size.Eval(locals)
	if err != nil {
		return nil, err
	}

	dilate, err := p.dilate.Eval(locals)
	if err != nil {
		return nil, err
	}

	quads, err := bb.SetTexture(p.texture.merge(base)).
		SetMirror(p.face.Axis(), p.mirror).
		SetPosition(geom.Vec3Of(pos)).
		SetSizeAxis(p.face.Axis(), size).
		Dilate(geom.Vec3Of(dilate)).
		Build(geom.Plane(p.face))
	if err != nil {
		return nil, err
	}

	return &model.Geometry{Quads: quads}, nil
}

// planarFace is one element of a face set:
//
//	[x, y, z, w, h]
//	[x, y, z, w, h, u, v]
//	[x, y, z, w, h, u, v, mirrorA, mirrorB]
type planarFace struct {
	position local.Vector
	size     local.Vector
	u, v     local.Expr
	mirror   []bool
}

func parsePlanarFace(arr []elem.Value) (*planarFace, error) {
	if len(arr) < 5 {
		return nil, ErrMalformedComponent.
			With(slog.Int("members", len(arr))).
			Errorf("face needs at least 5 members (x, y, z, w, h), got %d", len(arr))
	}

	prims := make([]local.Expr, len(arr))
	for i, e := range arr {
		if i >= 7 {
			break
		}

		expr, err := local.Primitive(e)
		if err != nil {
			return nil, err
		}

		prims[i] = expr
	}

	f := &planarFace{
		position: local.Vector{prims[0], prims[1], prims[2]},
		size:     local.Vector{prims[3], prims[4]},
		mirror:   []bool{false, false},
	}

	if len(arr) > 6 {
		f.u, f.v = prims[5], prims[6]
	}

	if len(arr) > 8 {
		for i := range f.mirror {
			b, ok := arr[7+i].AsBool()
			if !ok {
				return nil, ErrMalformedComponent.Errorf("face mirror must be boolean, got %s", arr[7+i])
			}

			f.mirror[i] = b
		}
	}

	return f, nil
}

func (f *planarFace) texture(locals Locals) (geom.Texture, error) {
	base, err := locals.Texture()
	if err != nil || f.u == nil {
		return base, err
	}

	u, err := f.u.Eval(locals)
	if err != nil {
		return base, err
	}

	v, err := f.v.Eval(locals)
	if err != nil {
		return base, err
	}

	return geom.Texture{U: u, V: v, W: base.W, H: base.H}, nil
}

// faceSet is every element declared for one face of a planar.
type faceSet struct {
	face     geom.Face
	elements []*planarFace
}

func parseFaceSet(face geom.Face, v elem.Value) (*faceSet, error) {
	arr, ok := v.AsArray()
	if !ok {
		return nil, ErrMalformedComponent.
			With(slog.String("face", face.String())).
			Errorf("face set must be an array, got %s", v.Kind())
	}

	set := &faceSet{face: face}

	if len(arr) > 0 && arr[0].Kind() == elem.KindArray {
		for _, e := range arr {
			ea, ok := e.AsArray()
			if !ok {
				return nil, ErrMalformedComponent.
					With(slog.String("face", face.String())).
					Errorf("face must be an array, got %s", e.Kind())
			}

			el, err := parsePlanarFace(ea)
			if err != nil {
				return nil, err
			}

			set.elements = append(set.elements, el)
		}

		return set, nil
	}

	el, err := parsePlanarFace(arr)
	if err != nil {
		return nil, err
	}

	set.elements = append(set.elements, el)

	return set, nil
}

func (s *faceSet) export(c Context) ([]geom.Quad, error) {
	locals := c.Locals()
	elements := make([]geom.FaceElement, len(s.elements))

	for i, el := range s.elements {
		pos, err := el.position.Eval(locals)
		if err != nil {
			return nil, err
		}

		size, err := el.size.Eval(locals)
		if err != nil {
			return nil, err
		}

		elements[i] = geom.FaceElement{Position: geom.Vec3Of(pos), Size: [2]float64{size[0], size[1]}}
	}

	fixture := geom.NewLockedFixture(s.face, elements)

	var quads []geom.Quad

	for i, el := range s.elements {
		bb, err := boxBuilder(c)
		if err != nil {
			return nil, err
		}

		tex, err := el.texture(locals)
		if err != nil {
			return nil, err
		}

		q, err := bb.SetFixture(fixture).
			SetTexture(tex).
			SetMirror(s.face.Axis(), el.mirror).
			SetPosition(elements[i].Position).
			SetSizeAxis(s.face.Axis(), elements[i].Size[:]).
			Build(geom.Plane(s.face))
		if err != nil {
			return nil, err
		}

		quads = append(quads, q...)
	}

	return quads, nil
}

func newPlanar(fc FileContext, name Name, obj *elem.Object) (Component, error) {
	c, err := newCompound(fc, name, obj)
	if err != nil {
		return nil, err
	}

	var sets []*faceSet

	for _, face := range geom.Faces[1:] {
		v, ok := obj.Member(face.String())
		if !ok {
			continue
		}

		set, err := parseFaceSet(face, v)
		if err != nil {
			return nil, err
		}

		sets = append(sets, set)
	}

	c.extra = func(ctx Context, pb *PartBuilder) error {
		var quads []geom.Quad

		for _, set := range sets {
			q, err := set.export(ctx)
			if err != nil {
				return err
			}

			quads = append(quads, q...)
		}

		pb.AddCube(&model.Geometry{Quads: quads})

		return nil
	}

	return c, nil
}

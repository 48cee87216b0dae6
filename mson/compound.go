package mson

import (
	"github.com/ardnew/mson/elem"
	"github.com/ardnew/mson/geom"
	"github.com/ardnew/mson/local"
	"github.com/ardnew/mson/model"
)

type namedComponent struct {
	key  string
	comp Component
}

// compound is a part with nested children and cubes.
type compound struct {
	name Name

	pivot   local.Vector
	dilate  local.Vector
	rotate  local.Vector
	mirror  [3]bool
	visible bool
	texture *textureSpec

	children []namedComponent
	cubes    []Component

	// extra exports additional geometry into the part.
	extra func(c Context, pb *PartBuilder) error
}

func newCompoundComponent(fc FileContext, name Name, obj *elem.Object) (Component, error) {
	return newCompound(fc, name, obj)
}

func newCompound(fc FileContext, name Name, obj *elem.Object) (*compound, error) {
	c := &compound{name: resolveName(name, obj), visible: boolOr(obj, "visible", true)}

	var err error

	if c.pivot, err = local.ParseVector(obj, "pivot", 3); err != nil {
		return nil, err
	}

	if c.dilate, err = local.ParseVector(obj, "dilate", 3); err != nil {
		return nil, err
	}

	if c.rotate, err = local.ParseVector(obj, "rotate", 3); err != nil {
		return nil, err
	}

	mirror, err := acceptBools(obj, "mirror", 3)
	if err != nil {
		return nil, err
	}

	copy(c.mirror[:], mirror)

	if c.texture, err = parseTexture(obj, "texture"); err != nil {
		return nil, err
	}

	if v, ok := obj.Member("children"); ok {
		children, ok := v.AsObject()
		if !ok {
			return nil, ErrMalformedComponent.Errorf("children must be an object, got %s", v.Kind())
		}

		for key, cv := range children.All() {
			child, err := fc.Load(c.name.Child(key), cv, CompoundID)
			if err != nil {
				return nil, err
			}

			fc.AddNamed(c.name.Child(key), child)
			c.children = append(c.children, namedComponent{key: key, comp: child})
		}
	}

	if v, ok := obj.Member("cubes"); ok {
		cubes, ok := v.AsArray()
		if !ok {
			return nil, ErrMalformedComponent.Errorf("cubes must be an array, got %s", v.Kind())
		}

		for i, cv := range cubes {
			cube, err := fc.Load(c.name.Index("cubes", i), cv, BoxID)
			if err != nil {
				return nil, err
			}

			c.cubes = append(c.cubes, cube)
		}
	}

	return c, nil
}

func (c *compound) Export(ctx Context) (model.Node, error) {
	return ctx.Memo(c.name.String(), func() (model.Node, error) {
		pb := NewPartBuilder()
		sub := ctx.Resolve(pb, &compoundLocals{parent: ctx.Locals(), dilate: c.dilate, texture: c.texture})

		if err := c.exportChildren(sub, pb); err != nil {
			return nil, err
		}

		return pb.Build(c.name.Key), nil
	})
}

func (c *compound) exportChildren(ctx Context, pb *PartBuilder) error {
	locals := ctx.Locals()

	rotation, err := c.rotate.Eval(locals)
	if err != nil {
		return err
	}

	pivot, err := c.pivot.Eval(locals)
	if err != nil {
		return err
	}

	texture, err := locals.Texture()
	if err != nil {
		return err
	}

	pb.SetHidden(!c.visible).
		SetPivot(geom.Vec3Of(pivot)).
		SetMirror(c.mirror).
		SetRotation(geom.Vec3Of(rotation)).
		SetTexture(texture)

	for _, child := range c.children {
		n, err := child.comp.Export(ctx)
		if err != nil {
			return err
		}

		switch n.(type) {
		case *model.Part, *model.Model:
			pb.AddChild(child.key, n)
		}
	}

	for _, cube := range c.cubes {
		g, ok, err := TryExport[*model.Geometry](cube, ctx)
		if err != nil {
			return err
		}

		if ok {
			pb.AddCube(g)
		}
	}

	if c.extra != nil {
		return c.extra(ctx, pb)
	}

	return nil
}

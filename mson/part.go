package mson

import (
	"fmt"

	"github.com/ardnew/mson/geom"
	"github.com/ardnew/mson/model"
)

// PartBuilder collects the transform, children and cubes of a part while
// it is exported. It is the extra context of everything exported inside
// the part.
type PartBuilder struct {
	Texture geom.Texture
	Mirror  [3]bool
	Hidden  bool

	pivot    geom.Vec3
	rotation geom.Vec3

	children *model.Children
	cubes    []*model.Geometry
}

func NewPartBuilder() *PartBuilder {
	return &PartBuilder{Texture: geom.EmptyTexture, children: model.NewChildren()}
}

func (b *PartBuilder) SetHidden(hidden bool) *PartBuilder {
	b.Hidden = hidden

	return b
}

func (b *PartBuilder) SetTexture(t geom.Texture) *PartBuilder {
	b.Texture = t

	return b
}

// SetRotation sets the rotation in degrees.
func (b *PartBuilder) SetRotation(r geom.Vec3) *PartBuilder {
	b.rotation = r

	return b
}

func (b *PartBuilder) SetPivot(p geom.Vec3) *PartBuilder {
	b.pivot = p

	return b
}

func (b *PartBuilder) SetMirror(m [3]bool) *PartBuilder {
	b.Mirror = m

	return b
}

func (b *PartBuilder) AddChild(name string, n model.Node) *PartBuilder {
	b.children.Set(name, n)

	return b
}

func (b *PartBuilder) AddCube(g *model.Geometry) *PartBuilder {
	b.cubes = append(b.cubes, g)

	return b
}

// Box starts a box inside the part, dilated by the scope of c.
func (b *PartBuilder) Box(c Context) (*geom.BoxBuilder, error) {
	d, err := c.Locals().Dilation()
	if err != nil {
		return nil, err
	}

	return geom.NewBoxBuilder(b.Texture, b.Mirror, d), nil
}

// Build returns the part called name. Cubes are named after the part.
func (b *PartBuilder) Build(name string) *model.Part {
	p := model.NewPart(name)
	p.SetPosition(b.pivot[0], b.pivot[1], b.pivot[2])
	p.SetRotation(b.rotation[0], b.rotation[1], b.rotation[2])
	p.Visible = !b.Hidden
	p.Texture = b.Texture
	p.Children = b.children

	p.Cubes = make([]*model.Geometry, len(b.cubes))
	for i, g := range b.cubes {
		p.Cubes[i] = &model.Geometry{Name: fmt.Sprintf("%s_cube%d", name, i), Quads: g.Quads}
	}

	return p
}

// boxBuilder returns the box builder of the part c exports into.
func boxBuilder(c Context) (*geom.BoxBuilder, error) {
	pb, ok := c.Extra().(*PartBuilder)
	if !ok {
		return nil, ErrExtraContext.Errorf("got extra context %T, want *PartBuilder", c.Extra())
	}

	return pb.Box(c)
}

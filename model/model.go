// Package model defines the resolved form of a model description: a tree of
// transform nodes ([Part]) with geometry chunks ([Geometry]) at the leaves
// and dynamic sub-models ([Model]) grafted in by slots.
package model

import (
	"fmt"
	"iter"
	"log/slog"
	"math"

	"github.com/jinzhu/copier"

	"github.com/ardnew/mson/geom"
	"github.com/ardnew/mson/ident"
)

// Node is one of *[Part], *[Model] or *[Geometry].
type Node interface {
	isNode()
	NodeName() string
}

// Part is a named transform node.
//
// Position and Rotation are stored in render space: the Y and Z axes are
// negated and Rotation is in radians.
type Part struct {
	Name     string `copier:"-"`
	Position geom.Vec3
	Rotation geom.Vec3
	Visible  bool
	Texture  geom.Texture
	Children *Children   `copier:"-"`
	Cubes    []*Geometry `copier:"-"`
}

// NewPart returns a visible part with no children.
func NewPart(name string) *Part {
	return &Part{Name: name, Visible: true, Children: NewChildren()}
}

func (*Part) isNode() {}

func (p *Part) NodeName() string { return p.Name }

// SetPosition sets the pivot from model space coordinates.
func (p *Part) SetPosition(x, y, z float64) { p.Position = geom.Vec3{x, -y, -z} }

// SetRotation sets the rotation from model space angles in degrees.
func (p *Part) SetRotation(x, y, z float64) {
	p.Rotation = geom.Vec3{radians(x), -radians(y), -radians(z)}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// Child returns the direct child name.
func (p *Part) Child(name string) (Node, bool) {
	if p.Children == nil {
		return nil, false
	}

	return p.Children.Get(name)
}

// Renamed returns a shallow copy of p named name. The copy shares the
// children and cubes of p.
func (p *Part) Renamed(name string) (*Part, error) {
	dup := new(Part)
	if err := copier.CopyWithOption(dup, p, copier.Option{CaseSensitive: true}); err != nil {
		return nil, fmt.Errorf("copy part %q: %w", p.Name, err)
	}

	dup.Name = name
	dup.Children = p.Children
	dup.Cubes = p.Cubes

	return dup, nil
}

func (p *Part) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", p.Name),
		slog.Int("children", p.Children.Len()),
		slog.Int("cubes", len(p.Cubes)),
	)
}

// Model is a sub-model created by an implementation, such as the content of
// a slot.
type Model struct {
	ID   ident.Identifier
	Tree *Part

	// Value is the result of a custom model factory, if any.
	Value any
}

// NewModel returns a model whose root part is named after id.
func NewModel(id ident.Identifier, tree *Part) *Model {
	return &Model{ID: id, Tree: tree}
}

func (*Model) isNode() {}

func (m *Model) NodeName() string { return m.ID.String() }

// Geometry is one chunk of quads.
type Geometry struct {
	Name  string
	Quads []geom.Quad
}

func (*Geometry) isNode() {}

func (g *Geometry) NodeName() string { return g.Name }

// Children is an insertion-ordered map of child name to *[Part] or *[Model].
type Children struct {
	nodes map[string]Node
	names []string
}

func NewChildren() *Children { return &Children{nodes: map[string]Node{}} }

// Set binds name to n, keeping the original position of name if present.
func (c *Children) Set(name string, n Node) {
	if c.nodes == nil {
		c.nodes = map[string]Node{}
	}

	if _, ok := c.nodes[name]; !ok {
		c.names = append(c.names, name)
	}

	c.nodes[name] = n
}

func (c *Children) Get(name string) (Node, bool) {
	if c == nil {
		return nil, false
	}

	n, ok := c.nodes[name]

	return n, ok
}

func (c *Children) Has(name string) bool {
	_, ok := c.Get(name)

	return ok
}

func (c *Children) Len() int {
	if c == nil {
		return 0
	}

	return len(c.names)
}

func (c *Children) Keys() []string {
	if c == nil {
		return nil
	}

	return append([]string(nil), c.names...)
}

// All yields the children in insertion order.
func (c *Children) All() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		if c == nil {
			return
		}

		for _, name := range c.names {
			if !yield(name, c.nodes[name]) {
				return
			}
		}
	}
}

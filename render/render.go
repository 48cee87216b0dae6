// Package render converts resolved model trees into renderer-ready
// objects: float32 vertex buffers grouped into a scene graph, and template
// images of the texture space a model samples.
package render

import (
	"github.com/ardnew/mson/model"
)

// Object is a transform node of the converted scene.
type Object struct {
	Name     string     `json:"name"`
	Position [3]float32 `json:"position"`
	Rotation [3]float32 `json:"rotation"`
	Visible  bool       `json:"visible"`
	Meshes   []*Mesh    `json:"meshes,omitempty"`
	Children []*Object  `json:"children,omitempty"`
}

// Mesh is the triangle buffers of one geometry chunk.
type Mesh struct {
	Name      string    `json:"name"`
	Positions []float32 `json:"positions"`
	Normals   []float32 `json:"normals"`
	UVs       []float32 `json:"uvs"`
	Indices   []uint32  `json:"indices"`
}

func (m *Mesh) VertexCount() int   { return len(m.Positions) / 3 }
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Converter turns parts into objects. A part or geometry reached twice,
// such as through a link, is converted once.
type Converter struct {
	objects map[*model.Part]*Object
	meshes  map[*model.Geometry]*Mesh
}

func NewConverter() *Converter {
	return &Converter{
		objects: map[*model.Part]*Object{},
		meshes:  map[*model.Geometry]*Mesh{},
	}
}

// Convert returns the object of root. Children are named after the key
// they are stored under.
func (c *Converter) Convert(root *model.Part) *Object {
	return c.part(root.Name, root)
}

func (c *Converter) node(name string, n model.Node) *Object {
	switch n := n.(type) {
	case *model.Part:
		return c.part(name, n)
	case *model.Model:
		if n.Tree == nil {
			return &Object{Name: name, Visible: true}
		}

		return c.part(name, n.Tree)
	}

	return nil
}

func (c *Converter) part(name string, p *model.Part) *Object {
	if o, ok := c.objects[p]; ok {
		if o.Name == name {
			return o
		}

		dup := *o
		dup.Name = name

		return &dup
	}

	o := &Object{
		Name:     name,
		Position: vec3From(p.Position).Array(),
		Rotation: vec3From(p.Rotation).Array(),
		Visible:  p.Visible,
	}

	c.objects[p] = o

	for key, child := range p.Children.All() {
		if co := c.node(key, child); co != nil {
			o.Children = append(o.Children, co)
		}
	}

	for _, g := range p.Cubes {
		o.Meshes = append(o.Meshes, c.Mesh(g))
	}

	return o
}

// Mesh returns the buffers of g. Positions are flipped into a Y-up frame
// and texture coordinates into a bottom-left origin.
func (c *Converter) Mesh(g *model.Geometry) *Mesh {
	if m, ok := c.meshes[g]; ok {
		return m
	}

	m := &Mesh{Name: g.Name}

	for _, q := range g.Quads {
		base := uint32(m.VertexCount())

		for _, v := range q.Vertices {
			m.Positions = append(m.Positions,
				float32(v.Pos[0]), -float32(v.Pos[1]), -float32(v.Pos[2]))
			m.UVs = append(m.UVs, float32(v.U), 1-float32(v.V))
		}

		if len(q.Vertices) < 4 {
			continue
		}

		a, b, cc, d := base, base+1, base+2, base+3
		m.Indices = append(m.Indices, a, b, d, b, cc, d)

		for i := uint32(4); i < uint32(len(q.Vertices)); i++ {
			m.Indices = append(m.Indices, a, base+i-1, base+i)
		}
	}

	m.Normals = vertexNormals(m.Positions, m.Indices)
	c.meshes[g] = m

	return m
}

// vertexNormals averages the normals of the triangles sharing each vertex,
// weighted by area.
func vertexNormals(positions []float32, indices []uint32) []float32 {
	sums := make([]vector3, len(positions)/3)

	for t := 0; t+2 < len(indices); t += 3 {
		ia, ib, ic := indices[t], indices[t+1], indices[t+2]
		n := faceNormal(vec3At(positions, ia), vec3At(positions, ib), vec3At(positions, ic))

		for _, i := range [...]uint32{ia, ib, ic} {
			sums[i] = sums[i].Add(n)
		}
	}

	normals := make([]float32, 0, len(positions))
	for _, n := range sums {
		a := n.Normal().Array()
		normals = append(normals, a[:]...)
	}

	return normals
}

package model

import (
	"bytes"
	"encoding/json"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/mson/geom"
)

// Node kinds as written by the encoders.
const (
	KindPart     = "part"
	KindModel    = "model"
	KindGeometry = "geometry"
)

func (p *Part) fields() yaml.MapSlice {
	s := yaml.MapSlice{
		{Key: "kind", Value: KindPart},
		{Key: "name", Value: p.Name},
		{Key: "position", Value: p.Position},
		{Key: "rotation", Value: p.Rotation},
		{Key: "visible", Value: p.Visible},
		{Key: "texture", Value: p.Texture},
	}

	if p.Children.Len() > 0 {
		s = append(s, yaml.MapItem{Key: "children", Value: p.Children})
	}

	if len(p.Cubes) > 0 {
		s = append(s, yaml.MapItem{Key: "cubes", Value: p.Cubes})
	}

	return s
}

func (m *Model) fields() yaml.MapSlice {
	return yaml.MapSlice{
		{Key: "kind", Value: KindModel},
		{Key: "id", Value: m.ID.String()},
		{Key: "tree", Value: m.Tree},
	}
}

func (g *Geometry) fields() yaml.MapSlice {
	return yaml.MapSlice{
		{Key: "kind", Value: KindGeometry},
		{Key: "name", Value: g.Name},
		{Key: "quads", Value: g.Quads},
	}
}

func (c *Children) fields() yaml.MapSlice {
	s := make(yaml.MapSlice, 0, c.Len())
	for name, n := range c.All() {
		s = append(s, yaml.MapItem{Key: name, Value: n})
	}

	return s
}

func (p *Part) MarshalYAML() (any, error)     { return p.fields(), nil }
func (m *Model) MarshalYAML() (any, error)    { return m.fields(), nil }
func (g *Geometry) MarshalYAML() (any, error) { return g.fields(), nil }
func (c *Children) MarshalYAML() (any, error) { return c.fields(), nil }

func (p *Part) MarshalJSON() ([]byte, error)     { return MarshalObject(p.fields()) }
func (m *Model) MarshalJSON() ([]byte, error)    { return MarshalObject(m.fields()) }
func (g *Geometry) MarshalJSON() ([]byte, error) { return MarshalObject(g.fields()) }
func (c *Children) MarshalJSON() ([]byte, error) { return MarshalObject(c.fields()) }

// MarshalObject writes s as a JSON object with its keys in order.
func MarshalObject(s yaml.MapSlice) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, item := range s {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(item.Key)
		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(item.Value)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Map converts n into plain maps and slices, suitable as an expression
// environment.
func Map(n Node) map[string]any {
	switch n := n.(type) {
	case *Part:
		if n == nil {
			return nil
		}

		children := make(map[string]any, n.Children.Len())
		for name, c := range n.Children.All() {
			children[name] = Map(c)
		}

		cubes := make([]any, len(n.Cubes))
		for i, g := range n.Cubes {
			cubes[i] = Map(g)
		}

		return map[string]any{
			"kind":     KindPart,
			"name":     n.Name,
			"position": n.Position[:],
			"rotation": n.Rotation[:],
			"visible":  n.Visible,
			"texture":  textureMap(n.Texture),
			"children": children,
			"cubes":    cubes,
		}

	case *Model:
		return map[string]any{
			"kind": KindModel,
			"id":   n.ID.String(),
			"tree": Map(n.Tree),
		}

	case *Geometry:
		return map[string]any{
			"kind":  KindGeometry,
			"name":  n.Name,
			"quads": len(n.Quads),
		}
	}

	return nil
}

func textureMap(t geom.Texture) map[string]any {
	return map[string]any{"u": t.U, "v": t.V, "w": t.W, "h": t.H}
}

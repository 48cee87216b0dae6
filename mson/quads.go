package mson

import (
	"log/slog"

	"github.com/ardnew/mson/elem"
	"github.com/ardnew/mson/geom"
	"github.com/ardnew/mson/model"
)

// quads is free-form geometry given as explicit vertices and faces.
type quads struct {
	u, v  float64
	faces []geom.FreeQuad
}

func newQuads(fc FileContext, _ Name, obj *elem.Object) (Component, error) {
	caller := QuadsID.String() + " in " + fc.Locals().ModelID().String()

	q := &quads{}

	for _, m := range []struct {
		key string
		dst *float64
	}{{"u", &q.u}, {"v", &q.v}} {
		key := m.key

		v, err := requireMember(obj, key, caller)
		if err != nil {
			return nil, err
		}

		n, ok := v.AsNumber()
		if !ok {
			return nil, ErrMalformedComponent.
				With(slog.String("member", key)).
				Errorf("member '%s' in %s must be a number", key, caller)
		}

		*m.dst = n
	}

	rawVertices, err := requireArray(obj, "vertices", caller)
	if err != nil {
		return nil, err
	}

	vertices := make([]geom.Vertex, len(rawVertices))
	for i, rv := range rawVertices {
		if vertices[i], err = parseVertex(rv); err != nil {
			return nil, err
		}
	}

	rawFaces, err := requireArray(obj, "faces", caller)
	if err != nil {
		return nil, err
	}

	for _, rf := range rawFaces {
		face, err := parseFreeQuad(rf, vertices, caller)
		if err != nil {
			return nil, err
		}

		q.faces = append(q.faces, face)
	}

	return q, nil
}

func requireArray(obj *elem.Object, key, caller string) ([]elem.Value, error) {
	v, err := requireMember(obj, key, caller)
	if err != nil {
		return nil, err
	}

	arr, ok := v.AsArray()
	if !ok {
		return nil, ErrMalformedComponent.
			With(slog.String("member", key)).
			Errorf("member '%s' in %s must be an array", key, caller)
	}

	return arr, nil
}

// parseVertex reads [x, y, z, u, v] or {x, y, z, u, v}.
func parseVertex(v elem.Value) (geom.Vertex, error) {
	if arr, ok := v.AsArray(); ok {
		var f [5]float64

		for i := range f {
			if i >= len(arr) {
				break
			}

			n, ok := arr[i].AsNumber()
			if !ok {
				return geom.Vertex{}, ErrMalformedComponent.Errorf("vertex members must be numbers, got %s", v)
			}

			f[i] = n
		}

		return geom.V(f[0], f[1], f[2], f[3], f[4]), nil
	}

	obj, ok := v.AsObject()
	if !ok {
		return geom.Vertex{}, ErrMalformedComponent.Errorf("vertex must be an array or object, got %s", v.Kind())
	}

	return geom.V(
		numberOr(obj, "x", 0),
		numberOr(obj, "y", 0),
		numberOr(obj, "z", 0),
		numberOr(obj, "u", 0),
		numberOr(obj, "v", 0),
	), nil
}

// parseFreeQuad reads {x, y, w, h, vertices: [i...]}. Faces with fewer
// than four vertices are padded with the origin.
func parseFreeQuad(v elem.Value, vertices []geom.Vertex, caller string) (geom.FreeQuad, error) {
	obj, ok := v.AsObject()
	if !ok {
		return geom.FreeQuad{}, ErrMalformedComponent.Errorf("face must be an object, got %s", v.Kind())
	}

	indices, err := requireArray(obj, "vertices", caller)
	if err != nil {
		return geom.FreeQuad{}, err
	}

	q := geom.FreeQuad{
		X:        numberOr(obj, "x", 0),
		Y:        numberOr(obj, "y", 0),
		W:        numberOr(obj, "w", 0),
		H:        numberOr(obj, "h", 0),
		Vertices: make([]geom.Vertex, max(4, len(indices))),
	}

	for i, iv := range indices {
		n, _ := iv.AsNumber()
		idx := int(n)

		if n != float64(idx) || idx < 0 || idx >= len(vertices) {
			return geom.FreeQuad{}, ErrMalformedComponent.
				With(slog.String("index", iv.String())).
				Errorf("no vertex with the index %s", iv)
		}

		q.Vertices[i] = vertices[idx]
	}

	return q, nil
}

func (q *quads) Export(c Context) (model.Node, error) {
	bb, err := boxBuilder(c)
	if err != nil {
		return nil, err
	}

	bb.U, bb.V = q.u, q.v

	out, err := bb.Build(geom.Quads(q.faces))
	if err != nil {
		return nil, err
	}

	return &model.Geometry{Quads: out}, nil
}

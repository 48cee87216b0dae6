package model

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/mson/geom"
	"github.com/ardnew/mson/ident"
)

func sampleTree() *Part {
	root := NewPart("")

	body := NewPart("body")
	body.SetPosition(1, 2, 3)
	body.Cubes = []*Geometry{{Name: "body_cube0"}}

	head := NewPart("head")
	head.SetRotation(90, 0, 180)
	body.Children.Set("head", head)

	hat := NewModel(ident.MustParse("dynamic:hat"), NewPart("dynamic:hat"))
	hat.Tree.Children.Set("brim", NewPart("brim"))
	head.Children.Set("hat", hat)

	root.Children.Set("body", body)
	root.Children.Set("arm", NewPart("arm"))

	return root
}

func TestPart_Transforms(t *testing.T) {
	p := NewPart("p")
	p.SetPosition(1, 2, 3)
	p.SetRotation(180, 90, 0)

	assert.Equal(t, geom.Vec3{1, -2, -3}, p.Position)
	assert.InDelta(t, math.Pi, p.Rotation[0], 1e-12)
	assert.InDelta(t, -math.Pi/2, p.Rotation[1], 1e-12)
	assert.True(t, p.Visible)
}

func TestPart_Renamed(t *testing.T) {
	orig := sampleTree()
	body, _ := orig.Child("body")

	dup, err := body.(*Part).Renamed("torso")
	require.NoError(t, err)

	assert.Equal(t, "torso", dup.Name)
	assert.Equal(t, "body", body.NodeName())
	assert.Equal(t, body.(*Part).Position, dup.Position)
	assert.Same(t, body.(*Part).Children, dup.Children)
	assert.NotSame(t, body, dup)
}

func TestChildren_Order(t *testing.T) {
	c := NewChildren()
	c.Set("b", NewPart("b"))
	c.Set("a", NewPart("a"))
	c.Set("b", NewPart("b2"))

	assert.Equal(t, []string{"b", "a"}, c.Keys())

	n, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, "b2", n.NodeName())

	var nilChildren *Children
	assert.Equal(t, 0, nilChildren.Len())
	assert.False(t, nilChildren.Has("x"))
}

func TestAll(t *testing.T) {
	var paths []string
	for path := range All(sampleTree()) {
		paths = append(paths, path)
	}

	want := []string{"body", "body.head", "body.head.hat", "body.head.hat.brim", "arm"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
}

func TestFind(t *testing.T) {
	root := sampleTree()

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"", "", true},
		{"body", "body", true},
		{"body.head.hat.brim", "brim", true},
		{"body.tail", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			n, ok := Find(root, tt.path)
			if ok != tt.ok {
				t.Fatalf("Find(%q) ok = %v, want %v", tt.path, ok, tt.ok)
			}

			if ok && n.NodeName() != tt.want {
				t.Errorf("Find(%q) = %q, want %q", tt.path, n.NodeName(), tt.want)
			}
		})
	}
}

type countVisitor struct{ parts, models, cubes int }

func (v *countVisitor) VisitPart(*Part) (Visitor, error)   { v.parts++; return v, nil }
func (v *countVisitor) VisitModel(*Model) (Visitor, error) { v.models++; return v, nil }
func (v *countVisitor) VisitGeometry(*Geometry) error      { v.cubes++; return nil }

func TestWalk(t *testing.T) {
	var v countVisitor
	require.NoError(t, Walk(&v, sampleTree()))

	// root, body, head, hat tree, brim, arm
	assert.Equal(t, 6, v.parts)
	assert.Equal(t, 1, v.models)
	assert.Equal(t, 1, v.cubes)
}

func TestMarshalJSON_Order(t *testing.T) {
	b, err := json.Marshal(sampleTree())
	require.NoError(t, err)

	s := string(b)
	assert.Less(t, strings.Index(s, `"body"`), strings.Index(s, `"arm"`))
	assert.Contains(t, s, `"kind":"model"`)
	assert.Contains(t, s, `"id":"dynamic:hat"`)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(b, &generic))
	assert.Equal(t, KindPart, generic["kind"])
}

func TestMarshalYAML(t *testing.T) {
	b, err := yaml.Marshal(sampleTree())
	require.NoError(t, err)

	s := string(b)
	assert.Contains(t, s, "kind: part")
	assert.Contains(t, s, "body_cube0")
	assert.Less(t, strings.Index(s, "body:"), strings.Index(s, "arm:"))
}

func TestMap(t *testing.T) {
	m := Map(sampleTree())

	children, ok := m["children"].(map[string]any)
	require.True(t, ok)

	body, ok := children["body"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "body", body["name"])
	assert.Len(t, body["cubes"], 1)
}

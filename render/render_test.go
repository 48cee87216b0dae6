package render

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/mson/geom"
	"github.com/ardnew/mson/ident"
	"github.com/ardnew/mson/model"
)

func unitCube(t *testing.T, name string) *model.Geometry {
	t.Helper()

	quads, err := geom.NewBoxBuilder(geom.EmptyTexture, [3]bool{}, geom.Vec3{}).
		SetSize(geom.Vec3{1, 1, 1}).
		Build(geom.Box())
	require.NoError(t, err)

	return &model.Geometry{Name: name, Quads: quads}
}

func TestConverter_Mesh(t *testing.T) {
	g := unitCube(t, "body_cube0")
	m := NewConverter().Mesh(g)

	assert.Equal(t, "body_cube0", m.Name)
	assert.Equal(t, 24, m.VertexCount())
	assert.Equal(t, 12, m.TriangleCount())
	assert.Len(t, m.UVs, 48)
	assert.Len(t, m.Normals, 72)

	// east face: v6 (1, 0, 1) first
	assert.Equal(t, []float32{1, 0, -1}, m.Positions[:3])
	assert.Equal(t, []uint32{0, 1, 3, 1, 2, 3}, m.Indices[:6])

	for i := range 4 {
		assert.Equal(t, []float32{1, 0, 0}, m.Normals[3*i:3*i+3], "normal %d", i)
	}

	v0 := g.Quads[0].Vertices[0]
	assert.InDelta(t, v0.U, m.UVs[0], 1e-6)
	assert.InDelta(t, 1-v0.V, m.UVs[1], 1e-6)
}

func TestConverter_Convert(t *testing.T) {
	cube := unitCube(t, "arm_cube0")

	arm := model.NewPart("arm")
	arm.SetPosition(1, 2, 3)
	arm.Cubes = []*model.Geometry{cube, cube}

	tree := model.NewPart("dynamic:saddle")
	tree.Children.Set("seat", model.NewPart("seat"))

	root := model.NewPart("")
	root.Children.Set("left", arm)
	root.Children.Set("right", arm)
	root.Children.Set("saddle", model.NewModel(ident.MustParse("dynamic:saddle"), tree))

	o := NewConverter().Convert(root)
	require.Len(t, o.Children, 3)

	left, right, saddle := o.Children[0], o.Children[1], o.Children[2]

	assert.Equal(t, "left", left.Name)
	assert.Equal(t, "right", right.Name)
	assert.Equal(t, [3]float32{1, -2, -3}, left.Position)
	assert.Same(t, left.Meshes[0], left.Meshes[1])
	assert.Same(t, left.Meshes[0], right.Meshes[0])

	assert.Equal(t, "saddle", saddle.Name)
	require.Len(t, saddle.Children, 1)
	assert.Equal(t, "seat", saddle.Children[0].Name)
}

func TestJavaHash(t *testing.T) {
	tests := []struct {
		in   string
		want int32
	}{
		{"", 0},
		{"a", 97},
		{"abc", 96354},
		{"hello world", 1794106052},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := javaHash(tt.in); got != tt.want {
				t.Errorf("javaHash(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTemplate_Draw(t *testing.T) {
	rect := geom.Rect{U1: 4, V1: 2, U2: 6, V2: 8}
	part := model.NewPart("p")
	part.Cubes = []*model.Geometry{{Quads: []geom.Quad{{Rect: rect}}}}

	base := image.NewUniform(color.RGBA{R: 0xff, A: 0xff})

	tmpl := NewTemplate(geom.EmptyTexture, 2)
	tmpl.Base = image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := range 4 {
		for y := range 4 {
			tmpl.Base.(*image.RGBA).Set(x, y, base.C)
		}
	}

	img, err := tmpl.Draw(part)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 128, 64), img.Bounds())
	assert.Equal(t, RectColor(rect), img.RGBAAt(9, 5))
	assert.Equal(t, RectColor(rect), img.RGBAAt(11, 15))
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, img.RGBAAt(12, 5))
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, img.RGBAAt(0, 0))

	name := filepath.Join(t.TempDir(), "template.png")
	require.NoError(t, SavePNG(name, img))

	loaded, err := LoadImage(name)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), loaded.Bounds())
}

func TestSummarize(t *testing.T) {
	part := model.NewPart("p")
	part.Cubes = []*model.Geometry{unitCube(t, "p_cube0")}
	part.Children.Set("c", model.NewPart("c"))

	got, err := Summarize(part)
	require.NoError(t, err)

	want := Stats{Parts: 2, Meshes: 1, Quads: 6, Vertices: 24, Triangles: 12}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}

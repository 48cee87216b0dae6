package render

import (
	"image"
	"image/color"
	"math"
	"unicode/utf16"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/draw"

	"github.com/ardnew/mson/geom"
	"github.com/ardnew/mson/model"
)

// Template paints the texture space sampled by a model: each face's area
// is filled with a color derived from its coordinates, so faces sharing an
// area share a color.
type Template struct {
	// Texture is the texture size in texels.
	Texture geom.Texture
	// Scale is the number of pixels per texel.
	Scale int
	// Base is painted under the faces when set. It is resized to the
	// canvas.
	Base image.Image
}

func NewTemplate(texture geom.Texture, scale int) *Template {
	return &Template{Texture: texture, Scale: max(scale, 1)}
}

// Draw returns the template of every geometry below root.
func (t *Template) Draw(root model.Node) (*image.RGBA, error) {
	w := int(math.Ceil(t.Texture.W)) * t.Scale
	h := int(math.Ceil(t.Texture.H)) * t.Scale
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))

	if t.Base != nil {
		base := transform.Resize(t.Base, w, h, transform.NearestNeighbor)
		draw.Draw(canvas, canvas.Bounds(), base, image.Point{}, draw.Src)
	}

	var chunks collect
	if err := model.Walk(&chunks, root); err != nil {
		return nil, err
	}

	for _, g := range chunks.geometry {
		for _, q := range g.Quads {
			t.fill(canvas, q.Rect)
		}
	}

	return canvas, nil
}

func (t *Template) fill(canvas draw.Image, r geom.Rect) {
	s := float64(t.Scale)
	area := image.Rect(
		int(math.Floor(r.U1*s)), int(math.Floor(r.V1*s)),
		int(math.Floor(r.U2*s)), int(math.Floor(r.V2*s)),
	)

	src := image.NewUniform(RectColor(r))
	draw.Draw(canvas, area.Intersect(canvas.Bounds()), src, image.Point{}, draw.Src)
}

// RectColor returns the opaque color of the texture area r.
func RectColor(r geom.Rect) color.RGBA {
	c := uint32(javaHash(r.String())) & 0xffffff

	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xff}
}

// javaHash is the 32-bit polynomial string hash s[0]*31^(n-1) + ... + s[n-1]
// over UTF-16 code units.
func javaHash(s string) int32 {
	var h int32

	for _, u := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(u)
	}

	return h
}

// LoadImage reads a png or jpeg image from disk.
func LoadImage(name string) (image.Image, error) { return imgio.Open(name) }

// SavePNG writes img to name.
func SavePNG(name string, img image.Image) error {
	return imgio.Save(name, img, imgio.PNGEncoder())
}

// collect gathers every geometry of a tree.
type collect struct {
	geometry []*model.Geometry
	parts    int
	models   int
}

func (c *collect) VisitPart(*model.Part) (model.Visitor, error) {
	c.parts++

	return c, nil
}

func (c *collect) VisitModel(*model.Model) (model.Visitor, error) {
	c.models++

	return c, nil
}

func (c *collect) VisitGeometry(g *model.Geometry) error {
	c.geometry = append(c.geometry, g)

	return nil
}

// Stats counts the content of a tree.
type Stats struct {
	Parts     int `json:"parts"`
	Models    int `json:"models"`
	Meshes    int `json:"meshes"`
	Quads     int `json:"quads"`
	Vertices  int `json:"vertices"`
	Triangles int `json:"triangles"`
}

// Summarize walks root and converts its geometry to count buffers.
func Summarize(root model.Node) (Stats, error) {
	var c collect
	if err := model.Walk(&c, root); err != nil {
		return Stats{}, err
	}

	s := Stats{Parts: c.parts, Models: c.models, Meshes: len(c.geometry)}
	conv := NewConverter()

	for _, g := range c.geometry {
		m := conv.Mesh(g)
		s.Quads += len(g.Quads)
		s.Vertices += m.VertexCount()
		s.Triangles += m.TriangleCount()
	}

	return s, nil
}

// Package geom unfolds boxes, cones and planes into textured quads.
//
// Coordinates follow the model convention: X grows west to east, Y grows
// downward and Z grows north to south. Texture coordinates are in pixels
// until [NewQuad] normalizes them against the atlas size.
package geom

import (
	"fmt"
	"log/slog"
)

// Vec3 is a point or extent in model space.
type Vec3 [3]float64

// Vec3Of returns the first three elements of v, padding with zero.
func Vec3Of(v []float64) Vec3 {
	var out Vec3
	copy(out[:], v)

	return out
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v[0] * o[0], v[1] * o[1], v[2] * o[2]} }

// Scale multiplies every component by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }

func (v Vec3) String() string { return fmt.Sprintf("(%g, %g, %g)", v[0], v[1], v[2]) }

// Texture is a rectangle of the texture atlas: an origin (U, V) and the
// atlas size (W, H) that coordinates are normalized against.
type Texture struct {
	U float64 `json:"u" yaml:"u"`
	V float64 `json:"v" yaml:"v"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// EmptyTexture is the texture of a file that declares none.
var EmptyTexture = Texture{U: 0, V: 0, W: 64, H: 32}

func (t Texture) String() string {
	return fmt.Sprintf("[texture u=%g v=%g w=%g h=%g]", t.U, t.V, t.W, t.H)
}

func (t Texture) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("u", t.U),
		slog.Float64("v", t.V),
		slog.Float64("w", t.W),
		slog.Float64("h", t.H),
	)
}

// Rect is the pixel area of the atlas a quad samples, as two corners.
type Rect struct {
	U1 float64 `json:"u1" yaml:"u1"`
	V1 float64 `json:"v1" yaml:"v1"`
	U2 float64 `json:"u2" yaml:"u2"`
	V2 float64 `json:"v2" yaml:"v2"`
}

func (r Rect) String() string {
	return fmt.Sprintf("[rect u1=%g v1=%g u2=%g v2=%g]", r.U1, r.V1, r.U2, r.V2)
}

// Vertex is a position with normalized texture coordinates.
type Vertex struct {
	Pos Vec3    `json:"pos" yaml:"pos"`
	U   float64 `json:"u"   yaml:"u"`
	V   float64 `json:"v"   yaml:"v"`
}

// V returns a vertex at (x, y, z) with texture coordinates (u, v).
func V(x, y, z, u, v float64) Vertex { return Vertex{Pos: Vec3{x, y, z}, U: u, V: v} }

// Remap returns the vertex with texture coordinates (u, v).
func (vx Vertex) Remap(u, v float64) Vertex {
	vx.U, vx.V = u, v

	return vx
}

// Quad is one face: at least four vertices and the atlas area they sample.
type Quad struct {
	Vertices []Vertex `json:"vertices" yaml:"vertices"`
	Rect     Rect     `json:"rect"     yaml:"rect"`
}

// NewQuad maps the first four vertices onto the corners of the rectangle
// (u1, v1)-(u2, v2) of a texW by texH atlas. If flip is set the vertex order
// is reversed, turning the face inside out for mirrored parts.
//
// The caller's slice is not modified.
func NewQuad(vertices []Vertex, u1, v1, u2, v2, texW, texH float64, flip bool) Quad {
	vs := make([]Vertex, len(vertices))
	copy(vs, vertices)

	if len(vs) >= 4 {
		vs[0] = vs[0].Remap(u2/texW, v1/texH)
		vs[1] = vs[1].Remap(u1/texW, v1/texH)
		vs[2] = vs[2].Remap(u1/texW, v2/texH)
		vs[3] = vs[3].Remap(u2/texW, v2/texH)
	}

	if flip {
		for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
			vs[i], vs[j] = vs[j], vs[i]
		}
	}

	return Quad{Vertices: vs, Rect: Rect{U1: u1, V1: v1, U2: u2, V2: v2}}
}

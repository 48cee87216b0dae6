package geom

import (
	"log/slog"

	"github.com/ardnew/mson/pkg"
)

// ErrUnsupportedFace is returned when a plane names no known face.
var ErrUnsupportedFace = pkg.NewError("unsupported face")

// BoxBuilder accumulates the placement of one cuboid inside a part.
type BoxBuilder struct {
	// Atlas is the texture of the enclosing part. Its size normalizes every
	// quad's texture coordinates.
	Atlas Texture

	Position Vec3
	Size     Vec3
	Dilation Vec3

	U, V float64

	Mirror  [3]bool
	Fixture Fixture
}

// NewBoxBuilder starts a box inside a part with the given texture and
// mirror flags, already dilated by the inherited dilation.
func NewBoxBuilder(atlas Texture, mirror [3]bool, dilation Vec3) *BoxBuilder {
	return &BoxBuilder{
		Atlas:    atlas,
		Dilation: dilation,
		U:        atlas.U,
		V:        atlas.V,
		Mirror:   mirror,
		Fixture:  NoFixture,
	}
}

func (b *BoxBuilder) SetFixture(f Fixture) *BoxBuilder {
	b.Fixture = f

	return b
}

func (b *BoxBuilder) SetPosition(p Vec3) *BoxBuilder {
	b.Position = p

	return b
}

// SetTexture moves the texture origin. The atlas size is unchanged.
func (b *BoxBuilder) SetTexture(t Texture) *BoxBuilder {
	b.U, b.V = t.U, t.V

	return b
}

func (b *BoxBuilder) SetSize(s Vec3) *BoxBuilder {
	b.Size = s

	return b
}

// SetSizeAxis sets the size from a two-element size in the plane
// perpendicular to axis.
func (b *BoxBuilder) SetSizeAxis(axis Axis, dims []float64) *BoxBuilder {
	return b.SetSize(axis.Dims(dims))
}

// Dilate adds d to the accumulated dilation.
func (b *BoxBuilder) Dilate(d Vec3) *BoxBuilder {
	b.Dilation = b.Dilation.Add(d)

	return b
}

// SetMirror replaces all three mirror flags from a two-element list in the
// plane perpendicular to axis.
func (b *BoxBuilder) SetMirror(axis Axis, mirror []bool) *BoxBuilder {
	b.Mirror = axis.Flags(mirror)

	return b
}

// SetMirrorSingle sets the mirror flag of one axis. A nil flag is ignored.
func (b *BoxBuilder) SetMirrorSingle(axis Axis, mirror *bool) *BoxBuilder {
	if mirror != nil {
		b.Mirror[axis] = *mirror
	}

	return b
}

// Quad builds a face sampling the w by h area at (u, v), reversed if flip.
func (b *BoxBuilder) Quad(vertices []Vertex, u, v, w, h float64, flip bool) Quad {
	return NewQuad(vertices, u, v, u+w, v+h, b.Atlas.W, b.Atlas.H, flip)
}

func (b *BoxBuilder) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("position", b.Position.String()),
		slog.String("size", b.Size.String()),
		slog.String("dilation", b.Dilation.String()),
		slog.Float64("u", b.U),
		slog.Float64("v", b.V),
	)
}

// Unfold turns the state of a builder into quads.
type Unfold func(b *BoxBuilder) ([]Quad, error)

// Build unfolds the box with u.
func (b *BoxBuilder) Build(u Unfold) ([]Quad, error) { return u(b) }

// Box unfolds a cuboid into six faces using the standard skin layout:
//
//	      u  u+sz  +sx   +sx
//	v        [ up ][down]
//	v+sz [west][north][east][south]
//	v+sz+sy
func Box() Unfold {
	return func(b *BoxBuilder) ([]Quad, error) {
		sx, sy, sz := b.Size[0], b.Size[1], b.Size[2]
		d := b.Dilation

		x, y, z := b.Position[0]-d[0], b.Position[1]-d[1], b.Position[2]-d[2]
		f := b.Position[0] + sx + d[0]
		g := b.Position[1] + sy + d[1]
		h := b.Position[2] + sz + d[2]

		if b.Mirror[0] {
			x, f = f, x
		}

		v1 := V(x, y, z, 0, 0)
		v2 := V(f, y, z, 0, 8)
		v3 := V(f, g, z, 8, 8)
		v4 := V(x, g, z, 8, 0)
		v5 := V(x, y, h, 0, 0)
		v6 := V(f, y, h, 0, 8)
		v7 := V(f, g, h, 8, 8)
		v8 := V(x, g, h, 8, 0)

		j := b.U
		k := b.U + sz
		l := k + sx
		m := l + sx
		n := l + sz
		o := n + sx
		p := b.V
		q := b.V + sz
		r := q + sy

		flip := b.Mirror[0]
		w, ht := b.Atlas.W, b.Atlas.H

		return []Quad{
			NewQuad([]Vertex{v6, v2, v3, v7}, l, q, n, r, w, ht, flip),
			NewQuad([]Vertex{v1, v5, v8, v4}, j, q, k, r, w, ht, flip),
			NewQuad([]Vertex{v6, v5, v1, v2}, k, p, l, q, w, ht, flip),
			NewQuad([]Vertex{v3, v4, v8, v7}, l, q, m, p, w, ht, flip),
			NewQuad([]Vertex{v2, v1, v4, v3}, k, q, l, r, w, ht, flip),
			NewQuad([]Vertex{v5, v6, v7, v8}, n, q, o, r, w, ht, flip),
		}, nil
	}
}

// Cone unfolds a cuboid whose low-Y face is shrunk toward its center by
// taper times the size on X and Z.
func Cone(taper float64) Unfold {
	return func(b *BoxBuilder) ([]Quad, error) {
		sx, sy, sz := b.Size[0], b.Size[1], b.Size[2]
		d := b.Dilation

		xMax := b.Position[0] + sx + d[0]
		yMax := b.Position[1] + sy + d[1]
		zMax := b.Position[2] + sz + d[2]
		xMin := b.Position[0] - d[0]
		yMin := b.Position[1] - d[1]
		zMin := b.Position[2] - d[2]

		if b.Mirror[0] {
			xMin, xMax = xMax, xMin
		}

		tipXMin := xMin + sx*taper
		tipZMin := zMin + sz*taper
		tipXMax := xMax - sx*taper
		tipZMax := zMax - sz*taper

		// w:west e:east d:down u:up s:south n:north
		wds := V(tipXMin, yMin, tipZMin, 0, 0)
		eds := V(tipXMax, yMin, tipZMin, 0, 8)
		eus := V(xMax, yMax, zMin, 8, 8)
		wus := V(xMin, yMax, zMin, 8, 0)
		wdn := V(tipXMin, yMin, tipZMax, 0, 0)
		edn := V(tipXMax, yMin, tipZMax, 0, 8)
		eun := V(xMax, yMax, zMax, 8, 8)
		wun := V(xMin, yMax, zMax, 8, 0)

		j := b.U
		k := b.U + sz
		l := k + sx
		n := l + sz
		p := b.V
		q := b.V + sz

		flip := b.Mirror[0]

		return []Quad{
			b.Quad([]Vertex{edn, eds, eus, eun}, l, q, sz, sy, flip),
			b.Quad([]Vertex{wds, wdn, wun, wus}, j, q, sz, sy, flip),
			b.Quad([]Vertex{edn, wdn, wds, eds}, k, p, sx, sz, flip),
			b.Quad([]Vertex{eus, wus, wun, eun}, l, q, sx, -sz, flip),
			b.Quad([]Vertex{eds, wds, wus, eus}, k, q, sx, sy, flip),
			b.Quad([]Vertex{wdn, edn, eun, wun}, n, q, sx, sy, flip),
		}, nil
	}
}

// Plane unfolds the single face of a flat element. Coordinates pinned by
// the builder's fixture are dilated inward instead of outward.
func Plane(face Face) Unfold {
	return func(b *BoxBuilder) ([]Quad, error) {
		fix := b.Fixture
		d := b.Dilation

		hi := b.Position.Add(b.Size)
		hi[0] = Stretch(fix, X, hi, d[0])
		hi[1] = Stretch(fix, Y, hi, face.ApplyFixtures(d[1]))
		hi[2] = Stretch(fix, Z, hi, d[2])

		xMax, yMax, zMax := hi[0], hi[1], hi[2]
		xMin := Stretch(fix, X, b.Position, -d[0])
		yMin := Stretch(fix, Y, b.Position, face.ApplyFixtures(-d[1]))
		zMin := Stretch(fix, Z, b.Position, -d[2])

		if b.Mirror[0] {
			xMin, xMax = xMax, xMin
		}

		if b.Mirror[1] {
			yMin, yMax = yMax, yMin
		}

		if b.Mirror[2] {
			zMin, zMax = zMax, zMin
		}

		wds := V(xMin, yMin, zMin, 0, 0)
		eds := V(xMax, yMin, zMin, 0, 8)
		eus := V(xMax, yMax, zMin, 8, 8)
		wus := V(xMin, yMax, zMin, 8, 0)
		wdn := V(xMin, yMin, zMax, 0, 0)
		edn := V(xMax, yMin, zMax, 0, 8)
		eun := V(xMax, yMax, zMax, 8, 8)
		wun := V(xMin, yMax, zMax, 8, 0)

		flip := b.Mirror[0] || b.Mirror[1] || b.Mirror[2]
		s := b.Size

		var q Quad

		switch face {
		case East:
			q = b.Quad([]Vertex{edn, eds, eus, eun}, b.U, b.V, s[2], s[1], flip)
		case West:
			q = b.Quad([]Vertex{wds, wdn, wun, wus}, b.U, b.V, s[2], s[1], flip)
		case Up:
			q = b.Quad([]Vertex{eus, wus, wun, eun}, b.U, b.V, s[0], s[2], flip)
		case Down:
			q = b.Quad([]Vertex{edn, wdn, wds, eds}, b.U, b.V, s[0], s[2], flip)
		case South:
			q = b.Quad([]Vertex{wdn, edn, eun, wun}, b.U, b.V, s[0], s[1], flip)
		case North:
			q = b.Quad([]Vertex{eds, wds, wus, eus}, b.U, b.V, s[0], s[1], flip)
		default:
			return nil, ErrUnsupportedFace.
				With(slog.String("face", face.String())).
				Errorf("unsupported face %s", face)
		}

		return []Quad{q}, nil
	}
}

// Quads builds free-form faces. Each face samples the w by h area at
// offset (x, y) from the builder's texture origin.
func Quads(faces []FreeQuad) Unfold {
	return func(b *BoxBuilder) ([]Quad, error) {
		out := make([]Quad, 0, len(faces))
		for _, f := range faces {
			out = append(out, b.Quad(f.Vertices, b.U+f.X, b.V+f.Y, f.W, f.H, b.Mirror[0]))
		}

		return out, nil
	}
}

// FreeQuad is a face given by explicit vertices.
type FreeQuad struct {
	Vertices   []Vertex
	X, Y, W, H float64
}

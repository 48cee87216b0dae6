package geom

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewQuad_Remap(t *testing.T) {
	vs := []Vertex{V(0, 0, 0, 9, 9), V(1, 0, 0, 9, 9), V(1, 1, 0, 9, 9), V(0, 1, 0, 9, 9)}

	q := NewQuad(vs, 8, 4, 16, 12, 64, 32, false)

	want := [][2]float64{
		{16.0 / 64, 4.0 / 32},
		{8.0 / 64, 4.0 / 32},
		{8.0 / 64, 12.0 / 32},
		{16.0 / 64, 12.0 / 32},
	}

	for i, w := range want {
		if got := [2]float64{q.Vertices[i].U, q.Vertices[i].V}; got != w {
			t.Errorf("vertex %d uv = %v, want %v", i, got, w)
		}
	}

	if q.Rect != (Rect{U1: 8, V1: 4, U2: 16, V2: 12}) {
		t.Errorf("Rect = %v", q.Rect)
	}

	if vs[0].U != 9 {
		t.Error("NewQuad modified its input")
	}
}

func TestNewQuad_Flip(t *testing.T) {
	vs := []Vertex{V(0, 0, 0, 0, 0), V(1, 0, 0, 0, 0), V(2, 0, 0, 0, 0), V(3, 0, 0, 0, 0)}

	plain := NewQuad(vs, 0, 0, 1, 1, 1, 1, false)
	flipped := NewQuad(vs, 0, 0, 1, 1, 1, 1, true)

	for i := range plain.Vertices {
		if plain.Vertices[i] != flipped.Vertices[len(vs)-1-i] {
			t.Fatalf("flipped vertex %d = %v, want %v", i, flipped.Vertices[len(vs)-1-i], plain.Vertices[i])
		}
	}
}

func TestAxis_Dims(t *testing.T) {
	tests := []struct {
		axis Axis
		want Vec3
	}{
		{X, Vec3{0, 5, 4}},
		{Y, Vec3{4, 0, 5}},
		{Z, Vec3{4, 5, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.axis.String(), func(t *testing.T) {
			if got := tt.axis.Dims([]float64{4, 5}); got != tt.want {
				t.Errorf("Dims() = %v, want %v", got, tt.want)
			}

			flags := tt.axis.Flags([]bool{true, false})
			for i := range flags {
				if flags[i] != (tt.want[i] == 4) {
					t.Errorf("Flags()[%d] = %v", i, flags[i])
				}
			}
		})
	}
}

func TestParseFace(t *testing.T) {
	tests := map[string]Face{
		"up":    Up,
		"DOWN":  Down,
		"West":  West,
		"east":  East,
		"north": North,
		"south": South,
		"side":  None,
	}

	for name, want := range tests {
		if got := ParseFace(name); got != want {
			t.Errorf("ParseFace(%q) = %v, want %v", name, got, want)
		}
	}

	if North.Axis() != Z || East.Axis() != X || Up.Axis() != Y || None.Axis() != Y {
		t.Error("Face.Axis() mismatch")
	}
}

func TestBox(t *testing.T) {
	b := NewBoxBuilder(EmptyTexture, [3]bool{}, Vec3{}).
		SetPosition(Vec3{-4, -8, -2}).
		SetSize(Vec3{8, 12, 4})

	quads, err := b.Build(Box())
	if err != nil {
		t.Fatal(err)
	}

	if len(quads) != 6 {
		t.Fatalf("len(quads) = %d, want 6", len(quads))
	}

	// east face samples u in [l, n] = [12, 16], v in [q, r] = [4, 16]
	if got, want := quads[0].Rect, (Rect{U1: 12, V1: 4, U2: 16, V2: 16}); got != want {
		t.Errorf("east rect = %v, want %v", got, want)
	}

	// east face lies on x = 4
	for _, v := range quads[0].Vertices {
		if v.Pos[0] != 4 {
			t.Errorf("east vertex %v not on x = 4", v.Pos)
		}
	}
}

func TestBox_Dilation(t *testing.T) {
	quads, err := NewBoxBuilder(EmptyTexture, [3]bool{}, Vec3{0.5, 0.5, 0.5}).
		SetSize(Vec3{1, 1, 1}).
		Dilate(Vec3{0.5, 0, 0}).
		Build(Box())
	if err != nil {
		t.Fatal(err)
	}

	lo, hi := bounds(quads)
	if want := (Vec3{-1, -0.5, -0.5}); lo != want {
		t.Errorf("min = %v, want %v", lo, want)
	}

	if want := (Vec3{2, 1.5, 1.5}); hi != want {
		t.Errorf("max = %v, want %v", hi, want)
	}
}

func TestBox_Mirror(t *testing.T) {
	build := func(mirror bool) []Quad {
		quads, err := NewBoxBuilder(EmptyTexture, [3]bool{mirror}, Vec3{}).
			SetPosition(Vec3{1, 0, 0}).
			SetSize(Vec3{2, 3, 4}).
			Build(Box())
		if err != nil {
			t.Fatal(err)
		}

		return quads
	}

	plain, mirrored := build(false), build(true)

	for i := range plain {
		if plain[i].Rect != mirrored[i].Rect {
			t.Errorf("quad %d rect changed by mirror", i)
		}

		n := len(plain[i].Vertices)
		for j, pv := range plain[i].Vertices {
			mv := mirrored[i].Vertices[n-1-j]

			// x extent swapped: 1 <-> 3
			wantX := 4 - pv.Pos[0]
			if mv.Pos[0] != wantX || mv.Pos[1] != pv.Pos[1] || mv.Pos[2] != pv.Pos[2] {
				t.Errorf("quad %d vertex %d = %v, want x=%v of %v", i, j, mv.Pos, wantX, pv.Pos)
			}

			if mv.U != pv.U || mv.V != pv.V {
				t.Errorf("quad %d vertex %d uv = (%v, %v), want (%v, %v)", i, j, mv.U, mv.V, pv.U, pv.V)
			}
		}
	}
}

func TestCone(t *testing.T) {
	quads, err := NewBoxBuilder(EmptyTexture, [3]bool{}, Vec3{}).
		SetSize(Vec3{4, 4, 4}).
		Build(Cone(0.25))
	if err != nil {
		t.Fatal(err)
	}

	if len(quads) != 6 {
		t.Fatalf("len(quads) = %d, want 6", len(quads))
	}

	// down face (y = 0) is inset by 1 on x and z
	for _, v := range quads[2].Vertices {
		if v.Pos[1] != 0 {
			t.Fatalf("down vertex %v not on y = 0", v.Pos)
		}

		if v.Pos[0] != 1 && v.Pos[0] != 3 || v.Pos[2] != 1 && v.Pos[2] != 3 {
			t.Errorf("down vertex %v not inset", v.Pos)
		}
	}
}

func TestPlane(t *testing.T) {
	b := NewBoxBuilder(EmptyTexture, [3]bool{}, Vec3{}).
		SetPosition(Vec3{0, 2, 0}).
		SetSizeAxis(Y, []float64{3, 5})

	quads, err := b.Build(Plane(Up))
	if err != nil {
		t.Fatal(err)
	}

	want := []Vec3{{3, 2, 0}, {0, 2, 0}, {0, 2, 5}, {3, 2, 5}}

	got := make([]Vec3, 0, 4)
	for _, v := range quads[0].Vertices {
		got = append(got, v.Pos)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Plane(Up) vertices mismatch (-want +got):\n%s", diff)
	}

	if _, err := b.Build(Plane(None)); !errors.Is(err, ErrUnsupportedFace) {
		t.Errorf("Plane(None) error = %v, want ErrUnsupportedFace", err)
	}
}

func TestLockedFixture(t *testing.T) {
	// two 2x2 elements on the up face sharing the edge x = 2
	elements := []FaceElement{
		{Position: Vec3{0, 0, 0}, Size: [2]float64{2, 2}},
		{Position: Vec3{2, 0, 0}, Size: [2]float64{2, 2}},
	}

	fix := NewLockedFixture(Up, elements)

	if !fix.IsFixed(X, Vec3{2, 0, 0}) {
		t.Error("shared corner (2,0,0) not pinned on x")
	}

	if fix.IsFixed(X, Vec3{0, 0, 0}) {
		t.Error("outer corner (0,0,0) pinned on x")
	}

	if len(fix.Locked(Y)) != 0 {
		t.Errorf("face axis has locked vertices: %v", fix.Locked(Y))
	}

	if got := Stretch(fix, X, Vec3{2, 0, 0}, 0.5); got != 1.5 {
		t.Errorf("Stretch(pinned) = %v, want 1.5", got)
	}

	if got := Stretch(NoFixture, X, Vec3{2, 0, 0}, 0.5); got != 2.5 {
		t.Errorf("Stretch(free) = %v, want 2.5", got)
	}
}

func TestQuads(t *testing.T) {
	b := NewBoxBuilder(EmptyTexture, [3]bool{}, Vec3{})
	b.U, b.V = 10, 20

	quads, err := b.Build(Quads([]FreeQuad{{
		Vertices: []Vertex{V(0, 0, 0, 0, 0), V(1, 0, 0, 0, 0), V(1, 1, 0, 0, 0), V(0, 1, 0, 0, 0)},
		X:        1, Y: 2, W: 3, H: 4,
	}}))
	if err != nil {
		t.Fatal(err)
	}

	if got, want := quads[0].Rect, (Rect{U1: 11, V1: 22, U2: 14, V2: 26}); got != want {
		t.Errorf("Rect = %v, want %v", got, want)
	}
}

func bounds(quads []Quad) (lo, hi Vec3) {
	first := true

	for _, q := range quads {
		for _, v := range q.Vertices {
			for i := range 3 {
				if first || v.Pos[i] < lo[i] {
					lo[i] = v.Pos[i]
				}

				if first || v.Pos[i] > hi[i] {
					hi[i] = v.Pos[i]
				}
			}

			first = false
		}
	}

	return lo, hi
}

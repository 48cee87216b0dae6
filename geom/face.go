package geom

import "strings"

// Axis is one of the three model axes.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// Axes lists every axis in ordinal order.
var Axes = [...]Axis{X, Y, Z}

// axisParams maps an axis to the index of its width, height and depth in a
// dimension list. An index of -1 reads as zero.
var axisParams = [...][3]int{
	X: {-1, 1, 0},
	Y: {0, -1, 1},
	Z: {0, 1, -1},
}

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	default:
		return "axis(?)"
	}
}

// Dims expands a two-element size, given in the plane perpendicular to a,
// into a full extent.
func (a Axis) Dims(dims []float64) Vec3 {
	var v Vec3
	for i, idx := range axisParams[a] {
		if idx >= 0 && idx < len(dims) {
			v[i] = dims[idx]
		}
	}

	return v
}

// Flags expands a two-element flag list the same way as [Axis.Dims].
func (a Axis) Flags(flags []bool) [3]bool {
	var v [3]bool
	for i, idx := range axisParams[a] {
		if idx >= 0 && idx < len(flags) {
			v[i] = flags[idx]
		}
	}

	return v
}

// Component returns the coordinate of v on a.
func (a Axis) Component(v Vec3) float64 { return v[a] }

// Face is a side of a cuboid.
type Face int

const (
	None Face = iota
	Up
	Down
	West
	East
	North
	South
)

// Faces lists every face, None first.
var Faces = [...]Face{None, Up, Down, West, East, North, South}

var faceNames = [...]string{
	None:  "none",
	Up:    "up",
	Down:  "down",
	West:  "west",
	East:  "east",
	North: "north",
	South: "south",
}

// ParseFace returns the face named name, ignoring case. Unknown names are
// [None].
func ParseFace(name string) Face {
	name = strings.ToLower(name)
	for f, n := range faceNames {
		if n == name {
			return Face(f)
		}
	}

	return None
}

func (f Face) String() string {
	if f < 0 || int(f) >= len(faceNames) {
		return faceNames[None]
	}

	return faceNames[f]
}

// Axis returns the axis normal to f.
func (f Face) Axis() Axis {
	switch f {
	case West, East:
		return X
	case North, South:
		return Z
	default:
		return Y
	}
}

// ApplyFixtures orients a stretch along the face's axis.
func (f Face) ApplyFixtures(stretch float64) float64 {
	if f.Axis() == Y {
		return -stretch
	}

	return stretch
}

// IsInside reports whether p lies within the face element at pos of the
// given two-element size, edges inclusive.
func (f Face) IsInside(pos Vec3, dims []float64, p Vec3) bool {
	ext := f.Axis().Dims(dims)
	for i := range p {
		if p[i] < pos[i] || p[i] > pos[i]+ext[i] {
			return false
		}
	}

	return true
}

// Corner is a vertex of a face element and the same vertex pushed outward
// along one axis.
type Corner struct {
	Normal    Vec3
	Stretched Vec3
}

var unitCorners = [...]Vec3{
	{0, 0, 0},
	{0, 0, 1},
	{0, 1, 0},
	{0, 1, 1},
	{1, 0, 0},
	{1, 0, 1},
	{1, 1, 0},
	{1, 1, 1},
}

// Corners returns the eight corners of the face element at pos with the
// given two-element size. Each stretched corner is displaced by dilation
// along axis.
func (f Face) Corners(pos Vec3, dims []float64, axis Axis, dilation float64) []Corner {
	ext := f.Axis().Dims(dims)

	sMin, sExt := pos, ext
	if dilation != 0 {
		var str Vec3
		str[axis] = dilation
		sMin = pos.Sub(str)
		sExt = ext.Add(str.Scale(2))
	}

	out := make([]Corner, len(unitCorners))
	for i, c := range unitCorners {
		out[i] = Corner{
			Normal:    pos.Add(ext.Mul(c)),
			Stretched: sMin.Add(sExt.Mul(c)),
		}
	}

	return out
}

// Fixture decides which vertex coordinates are pinned in place while a
// plane is dilated.
type Fixture interface {
	IsFixed(axis Axis, p Vec3) bool
}

// NoFixture pins nothing.
var NoFixture Fixture = noFixture{}

type noFixture struct{}

func (noFixture) IsFixed(Axis, Vec3) bool { return false }

// Stretch returns the coordinate of p on axis moved by s, or by -s when the
// fixture pins it.
func Stretch(f Fixture, axis Axis, p Vec3, s float64) float64 {
	if f != nil && f.IsFixed(axis, p) {
		return p[axis] - s
	}

	return p[axis] + s
}

// LockedFixture pins an explicit set of vertices per axis.
type LockedFixture struct {
	locked [3][]Vec3
}

// Lock pins p on axis. It reports false if p was already pinned.
func (l *LockedFixture) Lock(axis Axis, p Vec3) bool {
	if l.IsFixed(axis, p) {
		return false
	}

	l.locked[axis] = append(l.locked[axis], p)

	return true
}

// IsFixed reports whether p is pinned on axis.
func (l *LockedFixture) IsFixed(axis Axis, p Vec3) bool {
	for _, v := range l.locked[axis] {
		if v == p {
			return true
		}
	}

	return false
}

// Locked returns the vertices pinned on axis.
func (l *LockedFixture) Locked(axis Axis) []Vec3 { return l.locked[axis] }

// FaceElement is one rectangle of a face set.
type FaceElement struct {
	Position Vec3
	Size     [2]float64
}

// NewLockedFixture computes the shared-edge fixture of a set of elements on
// the same face: for every axis other than the face's own, each corner that,
// pushed half a unit outward, lands inside a different element is pinned.
func NewLockedFixture(face Face, elements []FaceElement) *LockedFixture {
	l := &LockedFixture{}

	for _, axis := range Axes {
		if axis == face.Axis() {
			continue
		}

		for i, el := range elements {
			for _, c := range face.Corners(el.Position, el.Size[:], axis, 0.5) {
				if l.IsFixed(axis, c.Normal) {
					continue
				}

				for j, other := range elements {
					if i != j && face.IsInside(other.Position, other.Size[:], c.Stretched) {
						l.Lock(axis, c.Normal)

						break
					}
				}
			}
		}
	}

	return l
}

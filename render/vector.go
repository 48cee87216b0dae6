package render

import (
	"github.com/chewxy/math32"

	"github.com/ardnew/mson/geom"
)

// vector3 is a float32 point or direction of a mesh.
type vector3 struct {
	X, Y, Z float32
}

func vec3From(v geom.Vec3) vector3 {
	return vector3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// vec3At returns the i'th point of a flat XYZ buffer.
func vec3At(buf []float32, i uint32) vector3 {
	return vector3{buf[3*i], buf[3*i+1], buf[3*i+2]}
}

func (v vector3) Array() [3]float32 { return [3]float32{v.X, v.Y, v.Z} }

func (v vector3) Add(o vector3) vector3 { return vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v vector3) Sub(o vector3) vector3 { return vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v vector3) MulScalar(s float32) vector3 { return vector3{v.X * s, v.Y * s, v.Z * s} }

func (v vector3) Cross(o vector3) vector3 {
	return vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v vector3) LengthSquared() float32 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

// Normal returns v scaled to unit length, or the zero vector.
func (v vector3) Normal() vector3 {
	if l := v.LengthSquared(); l > 0 {
		return v.MulScalar(1 / math32.Sqrt(l))
	}

	return vector3{}
}

// faceNormal is the normal of triangle abc wound counter-clockwise, scaled
// by twice its area.
func faceNormal(a, b, c vector3) vector3 { return c.Sub(b).Cross(a.Sub(b)) }

// Package render produces 2D frames from reconstructed volumes by ray
// marching: one independent, pure computation per output pixel.
package render

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vec3 is a 3-component vector
type Vec3 struct {
	X, Y, Z float64
}

// Add returns a + b
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Sub returns a - b
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Scale returns a * s
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// Dot returns the dot product
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross returns the cross product
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Norm returns the vector length
func (a Vec3) Norm() float64 { return math.Sqrt(a.Dot(a)) }

// Normalize returns a unit-length copy; the zero vector is returned unchanged
func (a Vec3) Normalize() Vec3 {
	n := a.Norm()
	if n == 0 {
		return a
	}
	return a.Scale(1 / n)
}

// Mat4 is a 4x4 row-major matrix
type Mat4 [16]float64

// Identity returns the identity matrix
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns m * other
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[r*4+k] * other[k*4+c]
			}
			out[r*4+c] = sum
		}
	}
	return out
}

// TransformPoint applies m to (p, 1) and performs the perspective divide
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3]
	y := m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7]
	z := m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11]
	w := m[12]*p.X + m[13]*p.Y + m[14]*p.Z + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// Inverse computes the matrix inverse
func (m Mat4) Inverse() (Mat4, error) {
	var inv mat.Dense
	if err := inv.Inverse(mat.NewDense(4, 4, m[:])); err != nil {
		return Mat4{}, fmt.Errorf("render: singular camera matrix: %w", err)
	}
	var out Mat4
	copy(out[:], inv.RawMatrix().Data)
	return out, nil
}

// LookAt builds a right-handed view matrix
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up.Normalize()).Normalize()
	u := s.Cross(f)
	return Mat4{
		s.X, s.Y, s.Z, -s.Dot(eye),
		u.X, u.Y, u.Z, -u.Dot(eye),
		-f.X, -f.Y, -f.Z, f.Dot(eye),
		0, 0, 0, 1,
	}
}

// Perspective builds a perspective projection. fovY is in radians.
func Perspective(fovY, aspect, near, far float64) Mat4 {
	t := 1 / math.Tan(fovY/2)
	return Mat4{
		t / aspect, 0, 0, 0,
		0, t, 0, 0,
		0, 0, (far + near) / (near - far), 2 * far * near / (near - far),
		0, 0, -1, 0,
	}
}

// Orthographic builds an orthographic projection
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	return Mat4{
		2 / (right - left), 0, 0, -(right + left) / (right - left),
		0, 2 / (top - bottom), 0, -(top + bottom) / (top - bottom),
		0, 0, -2 / (far - near), -(far + near) / (far - near),
		0, 0, 0, 1,
	}
}

// Camera holds the inverse view-projection transform rays are built from
type Camera struct {
	invVP Mat4
}

// NewCamera combines a view and projection matrix into a camera
func NewCamera(view, proj Mat4) (Camera, error) {
	inv, err := proj.Mul(view).Inverse()
	if err != nil {
		return Camera{}, err
	}
	return Camera{invVP: inv}, nil
}

// OrbitCamera places the eye on a sphere around the unit-cube volume
// center, a convenience for interactive and CLI use. Angles in radians.
func OrbitCamera(azimuth, elevation, distance, fovY, aspect float64) (Camera, error) {
	center := Vec3{0.5, 0.5, 0.5}
	eye := Vec3{
		center.X + distance*math.Cos(elevation)*math.Sin(azimuth),
		center.Y + distance*math.Sin(elevation),
		center.Z + distance*math.Cos(elevation)*math.Cos(azimuth),
	}
	view := LookAt(eye, center, Vec3{0, 1, 0})
	proj := Perspective(fovY, aspect, 0.01, 10)
	return NewCamera(view, proj)
}

// ray unprojects a pixel into an origin and unit direction. px, py are
// pixel centers; w, h the output dimensions.
func (c Camera) ray(px, py, w, h float64) (origin, dir Vec3) {
	ndcX := 2*(px+0.5)/w - 1
	ndcY := 1 - 2*(py+0.5)/h
	near := c.invVP.TransformPoint(Vec3{ndcX, ndcY, -1})
	far := c.invVP.TransformPoint(Vec3{ndcX, ndcY, 1})
	return near, far.Sub(near).Normalize()
}

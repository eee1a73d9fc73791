package math3d

import (
	"math"

	"golang.org/x/image/math/f32"
)

// Mat4 is a 4x4 matrix stored in row-major order and applied to row
// vectors (v' = v·M). Composition reads left to right: a.Mul(b) applies a
// first, then b.
//
// Memory layout (indices):
// | 0  1  2  3  |
// | 4  5  6  7  |
// | 8  9  10 11 |
// | 12 13 14 15 |
//
// For an affine transform the translation lives in the last row (12, 13, 14).
type Mat4 f32.Mat4

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation creates a translation matrix.
func Translation(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scaling creates a scaling matrix.
func Scaling(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// RotationX creates a left-handed rotation around the X axis.
func RotationX(angle float32) Mat4 {
	s, c := sincos(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotationY creates a left-handed rotation around the Y axis.
func RotationY(angle float32) Mat4 {
	s, c := sincos(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotationZ creates a left-handed rotation around the Z axis.
func RotationZ(angle float32) Mat4 {
	s, c := sincos(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Rotation composes Rx(angles.X) · Ry(angles.Y) · Rz(angles.Z).
func Rotation(angles Vec3) Mat4 {
	return RotationX(angles.X).Mul(RotationY(angles.Y)).Mul(RotationZ(angles.Z))
}

// LegacyRotation composes Rx(angles.X) · Ry(angles.Y) · Ry(angles.Z).
// The Z term is built with the Y-axis routine. Scenes authored against
// that behavior render identically only through this function.
func LegacyRotation(angles Vec3) Mat4 {
	return RotationX(angles.X).Mul(RotationY(angles.Y)).Mul(RotationY(angles.Z))
}

// LookAtLH creates a left-handed view matrix looking from eye towards target.
func LookAtLH(eye, target, up Vec3) Mat4 {
	f := target.Sub(eye).Normalize() // forward
	r := up.Cross(f).Normalize()     // right
	u := f.Cross(r).Normalize()      // true up

	return Mat4{
		r.X, u.X, f.X, 0,
		r.Y, u.Y, f.Y, 0,
		r.Z, u.Z, f.Z, 0,
		-r.Dot(eye), -u.Dot(eye), -f.Dot(eye), 1,
	}
}

// PerspectiveFovLH creates a left-handed perspective projection.
// fovY is the vertical field of view in radians and aspect is width/height.
// After the perspective divide, depth is 0 at zNear and 1 at zFar.
func PerspectiveFovLH(fovY, aspect, zNear, zFar float32) Mat4 {
	height := float32(1 / math.Tan(float64(fovY)/2))
	width := height / aspect
	depth := zFar / (zFar - zNear)

	return Mat4{
		width, 0, 0, 0,
		0, height, 0, 0,
		0, 0, depth, 1,
		0, 0, -zNear * depth, 0,
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for row := range 4 {
		for col := range 4 {
			var sum float32
			for k := range 4 {
				sum += a[row*4+k] * b[k*4+col]
			}
			m[row*4+col] = sum
		}
	}
	return m
}

// MulVec4 returns v·m without any divide.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		v.X*m[0] + v.Y*m[4] + v.Z*m[8] + v.W*m[12],
		v.X*m[1] + v.Y*m[5] + v.Z*m[9] + v.W*m[13],
		v.X*m[2] + v.Y*m[6] + v.Z*m[10] + v.W*m[14],
		v.X*m[3] + v.Y*m[7] + v.Z*m[11] + v.W*m[15],
	}
}

// TransformCoordinates returns v·m followed by the perspective divide.
// The result carries 1/w in InvW. A zero w yields infinities or NaN
// rather than a panic; callers drop such points at the pixel stage.
func TransformCoordinates(v Vec4, m Mat4) Projected {
	h := m.MulVec4(v)
	return Projected{
		X:    h.X / h.W,
		Y:    h.Y / h.W,
		Z:    h.Z / h.W,
		InvW: 1 / h.W,
	}
}

// TransformNormal transforms a direction. W is forced to 0 before and after
// the multiply, so translation has no effect.
func TransformNormal(v Vec4, m Mat4) Vec4 {
	v.W = 0
	r := m.MulVec4(v)
	r.W = 0
	return r
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// At returns the element at (row, col).
func (m Mat4) At(row, col int) float32 {
	return m[row*4+col]
}

// Column returns column col as a Vec4.
func (m Mat4) Column(col int) Vec4 {
	return Vec4{m[col], m[4+col], m[8+col], m[12+col]}
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
//
//nolint:st1016 // a,b naming convention is clearer for comparisons
func (a Mat4) ApproxEqual(b Mat4, eps float32) bool {
	for i := range a {
		d := a[i] - b[i]
		if d > eps || d < -eps {
			return false
		}
	}
	return true
}

func sincos(angle float32) (s, c float32) {
	s64, c64 := math.Sincos(float64(angle))
	return float32(s64), float32(c64)
}

package math3d

// Vec4 represents a homogeneous 3D point (W=1) or direction (W=0).
type Vec4 struct {
	X, Y, Z, W float32
}

// Point creates a homogeneous point with W=1.
func Point(x, y, z float32) Vec4 {
	return Vec4{x, y, z, 1}
}

// Direction creates a homogeneous direction with W=0.
// Translations have no effect on directions.
func Direction(x, y, z float32) Vec4 {
	return Vec4{x, y, z, 0}
}

// Vec3 returns the Vec3 portion (ignoring W).
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// Lerp returns component-wise linear interpolation, W included.
//
//nolint:st1016 // a,b naming convention is clearer for interpolation
func (a Vec4) Lerp(b Vec4, t float32) Vec4 {
	return Vec4{
		Lerp(a.X, b.X, t),
		Lerp(a.Y, b.Y, t),
		Lerp(a.Z, b.Z, t),
		Lerp(a.W, b.W, t),
	}
}

// Projected is a point after a projective transform and perspective divide.
//
// X, Y and Z have already been divided by the clip-space w. InvW holds 1/w
// and is what perspective-correct interpolation weights attributes by.
// After screen mapping X and Y are pixel coordinates and Z is the depth
// compared against the depth buffer (smaller is nearer).
type Projected struct {
	X, Y, Z float32
	InvW    float32
}

// Vec3 returns X, Y and Z.
func (p Projected) Vec3() Vec3 {
	return Vec3{p.X, p.Y, p.Z}
}

// Finite reports whether every component is finite.
func (p Projected) Finite() bool {
	return IsFinite(p.X) && IsFinite(p.Y) && IsFinite(p.Z) && IsFinite(p.InvW)
}

// Lerp returns component-wise linear interpolation, InvW included.
//
//nolint:st1016 // a,b naming convention is clearer for interpolation
func (a Projected) Lerp(b Projected, t float32) Projected {
	return Projected{
		X:    Lerp(a.X, b.X, t),
		Y:    Lerp(a.Y, b.Y, t),
		Z:    Lerp(a.Z, b.Z, t),
		InvW: Lerp(a.InvW, b.InvW, t),
	}
}

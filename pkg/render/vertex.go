package render

import (
	"github.com/taigrr/softengine/pkg/math3d"
)

// Vertex is a mesh vertex in object space.
type Vertex struct {
	Position  math3d.Vec4 // Object-space point (W=1)
	Normal    math3d.Vec4 // Object-space direction (W=0)
	U, V      float32     // Texture coordinates
	Color     Color       // Flat color used when no texture is bound
	Intensity float32     // Gouraud light intensity in [0,1]
}

// NewVertex creates a vertex with full intensity.
func NewVertex(pos, normal math3d.Vec3, u, v float32, c Color) Vertex {
	return Vertex{
		Position:  pos.Point(),
		Normal:    math3d.Direction(normal.X, normal.Y, normal.Z),
		U:         u,
		V:         v,
		Color:     c,
		Intensity: 1,
	}
}

// ScreenVertex is a vertex after projection: Position.X/Y are pixel
// coordinates, Position.Z is depth and Position.InvW is 1/w of the clip
// position.
type ScreenVertex struct {
	Position  math3d.Projected
	Normal    math3d.Vec4 // World-space normal
	U, V      float32
	Color     Color
	Intensity float32
}

// ScreenPoint creates a screen-space vertex with InvW=1 and full intensity,
// for drawing geometry that is already in pixel coordinates.
func ScreenPoint(x, y, z float32, c Color) ScreenVertex {
	return ScreenVertex{
		Position:  math3d.Projected{X: x, Y: y, Z: z, InvW: 1},
		Color:     c,
		Intensity: 1,
	}
}

// Lerp interpolates towards b with perspective correction. U, V and
// Intensity are weighted by each endpoint's InvW, interpolated linearly in
// screen space and then divided by the interpolated InvW.
//
//nolint:st1016 // a,b naming convention is clearer for interpolation
func (a ScreenVertex) Lerp(b ScreenVertex, factor float32) ScreenVertex {
	pos := a.Position.Lerp(b.Position, factor)
	out := ScreenVertex{
		Position: pos,
		Normal:   a.Normal.Lerp(b.Normal, factor),
		Color:    a.Color.Lerp(b.Color, factor),
	}

	wa, wb := a.Position.InvW, b.Position.InvW
	invW := pos.InvW
	if invW == 0 || !math3d.IsFinite(invW) {
		// No usable depth weight: fall back to affine interpolation.
		out.U = math3d.Lerp(a.U, b.U, factor)
		out.V = math3d.Lerp(a.V, b.V, factor)
		out.Intensity = math3d.Lerp(a.Intensity, b.Intensity, factor)
		return out
	}

	out.U = math3d.Lerp(a.U*wa, b.U*wb, factor) / invW
	out.V = math3d.Lerp(a.V*wa, b.V*wb, factor) / invW
	out.Intensity = math3d.Lerp(a.Intensity*wa, b.Intensity*wb, factor) / invW
	return out
}

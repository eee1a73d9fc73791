package render

import (
	"github.com/taigrr/softengine/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float32
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	n := p.Normal.Len()
	if n == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / n)
	p.D /= n
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float32 {
	return p.Normal.Dot(point) + p.D
}

// Frustum represents the 6 planes of a view frustum.
// Planes are ordered: Left, Right, Bottom, Top, Near, Far.
// Each plane's normal points inward (toward the center of the frustum).
type Frustum struct {
	Planes [6]Plane
}

// FrustumPlane indices for clarity.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts frustum planes from a view-projection matrix
// (Gribb/Hartmann). Points are row vectors, so clip = p · m and each clip
// component is p dotted with a column of m. Clip depth is in [0, w].
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	c0, c1, c2, c3 := m.Column(0), m.Column(1), m.Column(2), m.Column(3)

	var f Frustum
	f.Planes[FrustumLeft] = planeFrom(c3.X+c0.X, c3.Y+c0.Y, c3.Z+c0.Z, c3.W+c0.W)
	f.Planes[FrustumRight] = planeFrom(c3.X-c0.X, c3.Y-c0.Y, c3.Z-c0.Z, c3.W-c0.W)
	f.Planes[FrustumBottom] = planeFrom(c3.X+c1.X, c3.Y+c1.Y, c3.Z+c1.Z, c3.W+c1.W)
	f.Planes[FrustumTop] = planeFrom(c3.X-c1.X, c3.Y-c1.Y, c3.Z-c1.Z, c3.W-c1.W)
	f.Planes[FrustumNear] = planeFrom(c2.X, c2.Y, c2.Z, c2.W)
	f.Planes[FrustumFar] = planeFrom(c3.X-c2.X, c3.Y-c2.Y, c3.Z-c2.Z, c3.W-c2.W)
	return f
}

func planeFrom(a, b, c, d float32) Plane {
	p := Plane{Normal: math3d.V3(a, b, c), D: d}
	p.Normalize()
	return p
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Transform returns the AABB that bounds all 8 corners of b after
// transformation by m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	var out AABB
	for i := range 8 {
		corner := math3d.V3(
			selectComponent(i&1 != 0, b.Max.X, b.Min.X),
			selectComponent(i&2 != 0, b.Max.Y, b.Min.Y),
			selectComponent(i&4 != 0, b.Max.Z, b.Min.Z),
		)
		p := math3d.TransformCoordinates(corner.Point(), m).Vec3()
		if i == 0 {
			out = AABB{Min: p, Max: p}
			continue
		}
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// IntersectAABBIgnoringFar tests if any part of the AABB is inside the side
// and near planes. The far plane is skipped because the canvas still draws
// geometry past it. It uses the "positive vertex": the corner furthest
// along the plane normal. If that corner is outside, the whole box is.
func (f Frustum) IntersectAABBIgnoringFar(box AABB) bool {
	for _, plane := range f.Planes[:FrustumFar] {
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float32) float32 {
	if cond {
		return a
	}
	return b
}

// Frustum returns the current view frustum of the camera.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}

// culled reports whether mesh has bounds and those bounds, moved into world
// space, lie entirely outside a side or near plane.
func (c *Canvas) culled(mesh MeshRenderer, world math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}
	lo, hi := bounded.GetBounds()
	box := NewAABB(lo, hi).Transform(world)
	return !c.camera.Frustum().IntersectAABBIgnoringFar(box)
}

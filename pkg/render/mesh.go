package render

import "github.com/taigrr/softengine/pkg/math3d"

// MeshRenderer is the read-only view of a mesh the canvas draws from.
// It is defined here so render does not import the models package.
//
// Indices returned by GetFace must be valid for GetVertex; the canvas does
// not check them.
type MeshRenderer interface {
	GetTransform() (position, rotation math3d.Vec3)
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) Vertex
	GetFace(i int) [3]int
	// GetTexture returns nil when the mesh is drawn with vertex colors.
	GetTexture() Sampler
}

// BoundedMeshRenderer extends MeshRenderer with bounding box support for
// culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

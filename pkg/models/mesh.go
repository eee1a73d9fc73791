// Package models provides in-memory meshes, procedural primitives and a
// glTF and OBJ loaders producing values the render package can draw.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/render"
)

// ErrIndexOutOfRange is returned by Validate when a face references a
// vertex that does not exist.
var ErrIndexOutOfRange = errors.New("vertex index out of range")

// Mesh is a triangle mesh with a world transform.
//
// Position and Rotation may be changed freely between frames; the canvas
// reads them on every DrawMesh. Vertices and Indices are never modified by
// rendering.
type Mesh struct {
	Name     string
	Position math3d.Vec3
	Rotation math3d.Vec3 // Euler angles in radians
	Vertices []render.Vertex
	Indices  [][3]int // Triangle corners, indexes into Vertices
	Texture  *render.Texture
}

// NewMesh creates an empty mesh with room for the given number of vertices
// and triangles.
func NewMesh(name string, vertexCount, triangleCount int) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]render.Vertex, 0, vertexCount),
		Indices:  make([][3]int, 0, triangleCount),
	}
}

// AddVertex appends v and returns its index.
func (m *Mesh) AddVertex(v render.Vertex) int {
	m.Vertices = append(m.Vertices, v)
	return len(m.Vertices) - 1
}

// AddTriangle appends a face referencing three vertex indices.
func (m *Mesh) AddTriangle(a, b, c int) {
	m.Indices = append(m.Indices, [3]int{a, b, c})
}

// GetTransform implements render.MeshRenderer.
func (m *Mesh) GetTransform() (position, rotation math3d.Vec3) {
	return m.Position, m.Rotation
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices)
}

// GetVertex returns vertex i by value.
func (m *Mesh) GetVertex(i int) render.Vertex {
	return m.Vertices[i]
}

// GetFace returns the vertex indices for face i.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Indices[i]
}

// GetTexture returns the mesh texture, or nil to draw with vertex colors.
func (m *Mesh) GetTexture() render.Sampler {
	if m.Texture == nil {
		return nil
	}
	return m.Texture
}

// GetBounds returns the object-space bounding box.
// Implements render.BoundedMeshRenderer.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	if len(m.Vertices) == 0 {
		return math3d.Zero3(), math3d.Zero3()
	}
	min = m.Vertices[0].Position.Vec3()
	max = min
	for _, v := range m.Vertices[1:] {
		p := v.Position.Vec3()
		min = min.Min(p)
		max = max.Max(p)
	}
	return min, max
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	lo, hi := m.GetBounds()
	return lo.Add(hi).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	lo, hi := m.GetBounds()
	return hi.Sub(lo)
}

// Validate checks that every face references existing vertices.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, f := range m.Indices {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("mesh %q face %d: index %d of %d vertices: %w", m.Name, i, idx, n, ErrIndexOutOfRange)
			}
		}
	}
	return nil
}

// Normalize recenters the vertices on the origin and scales them so the
// largest bounding-box dimension equals size. Normals are unchanged since
// the scale is uniform.
func (m *Mesh) Normalize(size float32) {
	dims := m.Size()
	largest := max(dims.X, dims.Y, dims.Z)
	if largest == 0 {
		return
	}
	s := size / largest
	fit := math3d.Translation(m.Center().Scale(-1)).Mul(math3d.Scaling(math3d.V3(s, s, s)))
	for i := range m.Vertices {
		m.Vertices[i].Position = math3d.TransformCoordinates(m.Vertices[i].Position, fit).Vec3().Point()
	}
}

// faceNormal returns the unnormalized normal of face f.
func (m *Mesh) faceNormal(f [3]int) math3d.Vec3 {
	v0 := m.Vertices[f[0]].Position.Vec3()
	v1 := m.Vertices[f[1]].Position.Vec3()
	v2 := m.Vertices[f[2]].Position.Vec3()
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// CalculateNormals assigns each face's normal to its vertices. Shared
// vertices end up with the normal of the last face that references them.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Indices {
		n := m.faceNormal(f).Normalize()
		for _, idx := range f {
			m.Vertices[idx].Normal = math3d.Direction(n.X, n.Y, n.Z)
		}
	}
}

// CalculateSmoothNormals sets each vertex normal to the area-weighted
// average of the faces that share it.
func (m *Mesh) CalculateSmoothNormals() {
	acc := make([]math3d.Vec3, len(m.Vertices))
	for _, f := range m.Indices {
		n := m.faceNormal(f) // Don't normalize yet
		for _, idx := range f {
			acc[idx] = acc[idx].Add(n)
		}
	}
	for i, n := range acc {
		n = n.Normalize()
		m.Vertices[i].Normal = math3d.Direction(n.X, n.Y, n.Z)
	}
}

// HasNormals reports whether any vertex carries a non-zero normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.Vec3().Len() > 0.001 {
			return true
		}
	}
	return false
}

// SetColor paints every vertex with c.
func (m *Mesh) SetColor(c render.Color) {
	for i := range m.Vertices {
		m.Vertices[i].Color = c
	}
}

// Clone creates a deep copy of the mesh. The texture is shared.
func (m *Mesh) Clone() *Mesh {
	clone := *m
	clone.Vertices = append([]render.Vertex(nil), m.Vertices...)
	clone.Indices = append([][3]int(nil), m.Indices...)
	return &clone
}

package models

import (
	"errors"
	"testing"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/render"
)

// Compile-time interface checks.
var (
	_ render.MeshRenderer        = (*Mesh)(nil)
	_ render.BoundedMeshRenderer = (*Mesh)(nil)
)

func vtx(x, y, z float32) render.Vertex {
	return render.NewVertex(math3d.V3(x, y, z), math3d.Zero3(), 0, 0, render.ColorWhite)
}

func TestMeshBounds(t *testing.T) {
	empty := NewMesh("empty", 0, 0)
	if lo, hi := empty.GetBounds(); lo != math3d.Zero3() || hi != math3d.Zero3() {
		t.Errorf("empty bounds = %v, %v; want zero", lo, hi)
	}

	m := NewMesh("box", 3, 0)
	m.AddVertex(vtx(-1, 2, 0))
	m.AddVertex(vtx(3, -2, 1))
	m.AddVertex(vtx(0, 0, -5))

	lo, hi := m.GetBounds()
	if lo != math3d.V3(-1, -2, -5) || hi != math3d.V3(3, 2, 1) {
		t.Errorf("bounds = %v, %v", lo, hi)
	}
	if got := m.Center(); got != math3d.V3(1, 0, -2) {
		t.Errorf("Center() = %v, want (1,0,-2)", got)
	}
	if got := m.Size(); got != math3d.V3(4, 4, 6) {
		t.Errorf("Size() = %v, want (4,4,6)", got)
	}
}

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name string
		face [3]int
		ok   bool
	}{
		{"valid", [3]int{0, 1, 2}, true},
		{"too large", [3]int{0, 1, 3}, false},
		{"negative", [3]int{-1, 1, 2}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMesh(tc.name, 3, 1)
			m.AddVertex(vtx(0, 0, 0))
			m.AddVertex(vtx(1, 0, 0))
			m.AddVertex(vtx(0, 1, 0))
			m.AddTriangle(tc.face[0], tc.face[1], tc.face[2])

			err := m.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tc.ok && !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("Validate() = %v, want ErrIndexOutOfRange", err)
			}
		})
	}
}

func TestMeshNormalize(t *testing.T) {
	m := NewMesh("n", 2, 0)
	m.AddVertex(vtx(10, 10, 10))
	m.AddVertex(vtx(14, 12, 10))
	m.Normalize(2)

	if got := m.Center(); got != math3d.Zero3() {
		t.Errorf("Center() after Normalize = %v, want origin", got)
	}
	if got := m.Size(); got != math3d.V3(2, 1, 0) {
		t.Errorf("Size() after Normalize = %v, want (2,1,0)", got)
	}

	// A single point has no extent and is left alone.
	p := NewMesh("point", 1, 0)
	p.AddVertex(vtx(5, 5, 5))
	p.Normalize(2)
	if got := p.Vertices[0].Position.Vec3(); got != math3d.V3(5, 5, 5) {
		t.Errorf("degenerate Normalize moved vertex to %v", got)
	}
}

func TestMeshNormals(t *testing.T) {
	// Two triangles folded along the Y axis, sharing vertices 0 and 1.
	m := NewMesh("fold", 4, 2)
	m.AddVertex(vtx(0, 0, 0))
	m.AddVertex(vtx(0, 1, 0))
	m.AddVertex(vtx(1, 0, 0))
	m.AddVertex(vtx(0, 0, 1))
	m.AddTriangle(0, 1, 2) // normal -Z
	m.AddTriangle(0, 3, 1) // normal -X

	if m.HasNormals() {
		t.Fatal("fresh mesh should have no normals")
	}

	m.CalculateNormals()
	if !m.HasNormals() {
		t.Fatal("CalculateNormals left zero normals")
	}
	if n := m.Vertices[2].Normal.Vec3(); n != math3d.V3(0, 0, -1) {
		t.Errorf("flat normal of vertex 2 = %v, want (0,0,-1)", n)
	}

	m.CalculateSmoothNormals()
	shared := m.Vertices[0].Normal.Vec3()
	if shared.X >= 0 || shared.Z >= 0 || shared.Y != 0 {
		t.Errorf("smooth normal of shared vertex = %v, want between -X and -Z", shared)
	}
	if l := shared.Len(); l < 0.999 || l > 1.001 {
		t.Errorf("smooth normal length = %v, want 1", l)
	}
	if w := m.Vertices[0].Normal.W; w != 0 {
		t.Errorf("normal W = %v, want 0", w)
	}
}

func TestMeshClone(t *testing.T) {
	m := NewCube(2)
	m.Texture = render.NewTexture(1, 1)
	m.Position = math3d.V3(1, 2, 3)

	c := m.Clone()
	c.Vertices[0].Color = render.ColorBlack
	c.Indices[0] = [3]int{0, 0, 0}
	c.Position = math3d.Zero3()

	if m.Vertices[0].Color == render.ColorBlack {
		t.Error("Clone shares vertex storage")
	}
	if m.Indices[0] == [3]int{0, 0, 0} {
		t.Error("Clone shares index storage")
	}
	if m.Position != math3d.V3(1, 2, 3) {
		t.Error("Clone shares position")
	}
	if c.Texture != m.Texture {
		t.Error("Clone should share the texture")
	}
}

func TestMeshRendererAccessors(t *testing.T) {
	m := NewCube(2)
	m.Rotation = math3d.V3(0.1, 0.2, 0.3)

	if _, rot := m.GetTransform(); rot != m.Rotation {
		t.Errorf("GetTransform rotation = %v, want %v", rot, m.Rotation)
	}
	if m.GetTexture() != nil {
		t.Error("GetTexture() on untextured mesh should be a nil interface")
	}
	m.Texture = render.NewTexture(1, 1)
	if m.GetTexture() == nil {
		t.Error("GetTexture() lost the texture")
	}

	m.SetColor(render.ColorGray)
	for i := range m.VertexCount() {
		if m.GetVertex(i).Color != render.ColorGray {
			t.Fatalf("vertex %d not recolored", i)
		}
	}
}

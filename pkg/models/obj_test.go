package models

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/render"
)

const quadOBJ = `# unit quad facing -Z
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 -1

f 1/1/1 2/2/1 3/3/1
f 1/1/1 3/3/1 4/4/1
`

func TestParseOBJQuad(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader(quadOBJ), "quad")
	if err != nil {
		t.Fatal(err)
	}
	if m.VertexCount() != 4 || m.TriangleCount() != 2 {
		t.Fatalf("quad has %d vertices, %d triangles; want 4, 2", m.VertexCount(), m.TriangleCount())
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}

	v := m.Vertices[0]
	if v.Position.Vec3() != math3d.V3(-1, -1, 0) {
		t.Errorf("first position = %v", v.Position)
	}
	if v.Normal.Vec3() != math3d.V3(0, 0, -1) {
		t.Errorf("first normal = %v", v.Normal)
	}
	// Bottom-left OBJ texcoord maps to the bottom row of the texture.
	if v.U != 0 || v.V != 1 {
		t.Errorf("first uv = (%v, %v), want (0, 1)", v.U, v.V)
	}
	if v.Color != render.ColorWhite {
		t.Errorf("color = %v, want white", v.Color)
	}
}

func TestParseOBJFormats(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		vertices  int
		triangles int
	}{
		{"positions only", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n", 3, 1},
		{"position and uv", "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nf 1/1 2/1 3/1\n", 3, 1},
		{"position and normal", "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n", 3, 1},
		{"negative references", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n", 3, 1},
		{"quad fan", "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n", 4, 2},
		{"pentagon fan", "v 0 0 0\nv 1 0 0\nv 2 1 0\nv 1 2 0\nv 0 1 0\nf 1 2 3 4 5\n", 5, 3},
		{"split corners", "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvt 1 1\nf 1/1 2/1 3/1\nf 1/2 3/1 2/1\n", 4, 2},
		{"ignored statements", "mtllib x.mtl\no thing\ng grp\nusemtl m\ns off\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n", 3, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := ParseOBJ(strings.NewReader(tc.src), tc.name)
			if err != nil {
				t.Fatal(err)
			}
			if m.VertexCount() != tc.vertices || m.TriangleCount() != tc.triangles {
				t.Errorf("got %d vertices, %d triangles; want %d, %d",
					m.VertexCount(), m.TriangleCount(), tc.vertices, tc.triangles)
			}
			if err := m.Validate(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestParseOBJComputesNormals(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader("v 0 0 0\nv 0 1 0\nv 1 0 0\nf 1 2 3\n"), "tri")
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range m.Vertices {
		if n := v.Normal.Vec3(); n.Sub(math3d.V3(0, 0, -1)).Len() > 1e-5 {
			t.Errorf("vertex %d normal = %v, want (0,0,-1)", i, n)
		}
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no faces", "v 0 0 0\n", ErrMalformedOBJ},
		{"short vertex", "v 0 0\n", ErrMalformedOBJ},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrMalformedOBJ},
		{"missing position", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf /1 2 3\n", ErrMalformedOBJ},
		{"position out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", ErrIndexOutOfRange},
		{"zero reference", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrIndexOutOfRange},
		{"uv out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1 2/1 3/1\n", ErrIndexOutOfRange},
		{"bad number", "v 0 x 0\n", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tc.src), tc.name)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestLoadOBJ(t *testing.T) {
	if _, err := LoadOBJ("/nonexistent/model.obj"); err == nil {
		t.Error("expected error for nonexistent file")
	}

	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(quadOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "quad.obj" || m.TriangleCount() != 2 {
		t.Errorf("mesh %q has %d triangles", m.Name, m.TriangleCount())
	}
}

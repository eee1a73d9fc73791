package models

import (
	"testing"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/render"
)

func TestNewCube(t *testing.T) {
	cube := NewCube(2)

	if cube.VertexCount() != 24 || cube.TriangleCount() != 12 {
		t.Fatalf("cube has %d vertices, %d triangles; want 24, 12", cube.VertexCount(), cube.TriangleCount())
	}
	if err := cube.Validate(); err != nil {
		t.Fatal(err)
	}
	lo, hi := cube.GetBounds()
	if lo != math3d.V3(-1, -1, -1) || hi != math3d.V3(1, 1, 1) {
		t.Errorf("bounds = %v, %v", lo, hi)
	}

	// Every face's winding agrees with its stored normal.
	for i, f := range cube.Indices {
		n := cube.faceNormal(f).Normalize()
		stored := cube.Vertices[f[0]].Normal.Vec3()
		if n.Dot(stored) < 0.99 && n.Dot(stored) > -0.99 {
			t.Errorf("face %d normal %v not parallel to %v", i, n, stored)
		}
	}

	for _, v := range cube.Vertices {
		if v.U < 0 || v.U > 1 || v.V < 0 || v.V > 1 {
			t.Errorf("uv (%v, %v) out of [0,1]", v.U, v.V)
		}
	}
}

func TestCubeFrontFaceLit(t *testing.T) {
	c := render.NewCanvas("cube", 200, 150)
	c.DrawMesh(NewCube(8))

	// The -Z face is red and faces the default camera and light.
	got := c.Framebuffer().GetPixel(100, 75)
	if got.R < 150 || got.G != 0 || got.B != 0 {
		t.Errorf("center = %v, want lit red front face", got)
	}
	if n := c.Stats().Pixels; n == 0 {
		t.Error("cube drew no pixels")
	}
}

func TestNewPlane(t *testing.T) {
	p := NewPlane(4, 2, 2, render.ColorGray)

	if p.VertexCount() != 9 || p.TriangleCount() != 8 {
		t.Fatalf("plane has %d vertices, %d triangles; want 9, 8", p.VertexCount(), p.TriangleCount())
	}
	if got := p.Size(); got != math3d.V3(4, 0, 2) {
		t.Errorf("Size() = %v, want (4,0,2)", got)
	}
	for i, f := range p.Indices {
		if n := p.faceNormal(f); n.Y <= 0 {
			t.Errorf("face %d normal %v should face +Y", i, n)
		}
	}

	if got := NewPlane(1, 1, 0, render.ColorGray).TriangleCount(); got != 2 {
		t.Errorf("zero segments gave %d triangles, want 2", got)
	}
}

func TestBuiltin(t *testing.T) {
	for _, name := range []string{"cube", "plane", "triangle"} {
		t.Run(name, func(t *testing.T) {
			m, err := Builtin(name)
			if err != nil {
				t.Fatal(err)
			}
			if m.TriangleCount() == 0 {
				t.Error("builtin mesh is empty")
			}
			if err := m.Validate(); err != nil {
				t.Error(err)
			}
		})
	}

	if _, err := Builtin("teapot"); err == nil {
		t.Error("expected error for unknown builtin")
	}
}

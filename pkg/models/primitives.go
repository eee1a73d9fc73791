package models

import (
	"fmt"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/render"
)

// cubeFaces lists each face's normal plus its right and up axes as seen
// from outside the cube.
var cubeFaces = [6]struct {
	normal, right, up math3d.Vec3
	color             render.Color
}{
	{math3d.V3(0, 0, -1), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), render.ColorRed},
	{math3d.V3(0, 0, 1), math3d.V3(-1, 0, 0), math3d.V3(0, 1, 0), render.ColorGreen},
	{math3d.V3(-1, 0, 0), math3d.V3(0, 0, -1), math3d.V3(0, 1, 0), render.ColorBlue},
	{math3d.V3(1, 0, 0), math3d.V3(0, 0, 1), math3d.V3(0, 1, 0), render.ColorYellow},
	{math3d.V3(0, 1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, 1), render.ColorCyan},
	{math3d.V3(0, -1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, -1), render.ColorMagenta},
}

// NewCube creates an axis-aligned cube of edge length size centered on the
// origin. Each face has its own four vertices so normals, UVs and colors
// stay flat per face.
func NewCube(size float32) *Mesh {
	h := size / 2
	m := NewMesh("cube", 24, 12)
	for _, f := range cubeFaces {
		center := f.normal.Scale(h)
		corner := func(sx, sy float32) math3d.Vec3 {
			return center.Add(f.right.Scale(sx * h)).Add(f.up.Scale(sy * h))
		}
		// Texture rows run top to bottom, so the top edge has v=0.
		a := m.AddVertex(render.NewVertex(corner(-1, -1), f.normal, 0, 1, f.color))
		b := m.AddVertex(render.NewVertex(corner(1, -1), f.normal, 1, 1, f.color))
		c := m.AddVertex(render.NewVertex(corner(1, 1), f.normal, 1, 0, f.color))
		d := m.AddVertex(render.NewVertex(corner(-1, 1), f.normal, 0, 0, f.color))
		m.AddTriangle(a, b, c)
		m.AddTriangle(a, c, d)
	}
	return m
}

// NewPlane creates a width x depth plane in the XZ plane facing +Y,
// subdivided into segments x segments quads.
func NewPlane(width, depth float32, segments int, c render.Color) *Mesh {
	segments = max(segments, 1)
	m := NewMesh("plane", (segments+1)*(segments+1), segments*segments*2)
	up := math3d.Up()
	for j := 0; j <= segments; j++ {
		v := float32(j) / float32(segments)
		for i := 0; i <= segments; i++ {
			u := float32(i) / float32(segments)
			p := math3d.V3((u-0.5)*width, 0, (0.5-v)*depth)
			m.AddVertex(render.NewVertex(p, up, u, v, c))
		}
	}
	row := segments + 1
	for j := range segments {
		for i := range segments {
			a := j*row + i
			m.AddTriangle(a, a+1, a+row+1)
			m.AddTriangle(a, a+row+1, a+row)
		}
	}
	return m
}

// NewTriangle creates a mesh holding a single triangle.
func NewTriangle(v1, v2, v3 render.Vertex) *Mesh {
	m := NewMesh("triangle", 3, 1)
	m.AddTriangle(m.AddVertex(v1), m.AddVertex(v2), m.AddVertex(v3))
	return m
}

// Builtin returns a procedural mesh by name: "cube", "plane" or "triangle".
func Builtin(name string) (*Mesh, error) {
	switch name {
	case "cube":
		return NewCube(2), nil
	case "plane":
		return NewPlane(4, 4, 4, render.ColorGray), nil
	case "triangle":
		n := math3d.V3(0, 0, -1)
		return NewTriangle(
			render.NewVertex(math3d.V3(0, 1.5, 0), n, 0.5, 0, render.ColorYellow),
			render.NewVertex(math3d.V3(1.5, -1.5, 0), n, 1, 1, render.ColorCyan),
			render.NewVertex(math3d.V3(-1.5, -1.5, 0), n, 0, 1, render.ColorMagenta),
		), nil
	}
	return nil, fmt.Errorf("unknown builtin mesh %q", name)
}

package render

import (
	"github.com/taigrr/softengine/pkg/math3d"
)

// DrawMeshWireframe draws every triangle edge of mesh as a line, ignoring
// depth (x-ray view). Edges with an endpoint behind the camera are skipped.
func (c *Canvas) DrawMeshWireframe(mesh MeshRenderer, col Color) {
	c.stats.Meshes++

	position, rotation := mesh.GetTransform()
	world := c.WorldMatrix(position, rotation)
	if c.cull && c.culled(mesh, world) {
		c.stats.MeshesCulled++
		return
	}
	transform := world.Mul(c.camera.ViewProjectionMatrix())

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		a := mesh.GetVertex(face[0]).Position
		b := mesh.GetVertex(face[1]).Position
		d := mesh.GetVertex(face[2]).Position

		c.drawClipLine(a, b, transform, col)
		c.drawClipLine(b, d, transform, col)
		c.drawClipLine(d, a, transform, col)
	}
}

// DrawLine3D draws a world-space line segment.
func (c *Canvas) DrawLine3D(a, b math3d.Vec3, col Color) {
	c.drawClipLine(a.Point(), b.Point(), c.camera.ViewProjectionMatrix(), col)
}

// DrawAxes draws the world X, Y and Z axes from the origin in red, green
// and blue.
func (c *Canvas) DrawAxes(length float32) {
	origin := math3d.Zero3()
	c.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)
	c.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen)
	c.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)
}

func (c *Canvas) drawClipLine(a, b math3d.Vec4, transform math3d.Mat4, col Color) {
	if transform.MulVec4(a).W <= 0 || transform.MulVec4(b).W <= 0 {
		return
	}
	xa, ya, ok := c.toPixel(a, transform)
	if !ok {
		return
	}
	xb, yb, ok := c.toPixel(b, transform)
	if !ok {
		return
	}
	c.fb.DrawLine(xa, ya, xb, yb, col)
}

// toPixel projects p and rounds it to a pixel. Points far outside the
// buffer are rejected so Bresenham never walks an unbounded line.
func (c *Canvas) toPixel(p math3d.Vec4, transform math3d.Mat4) (x, y int, ok bool) {
	sp := c.Project(Vertex{Position: p}, transform, math3d.Identity()).Position
	if !sp.Finite() {
		return 0, 0, false
	}
	w, h := float32(c.Width()), float32(c.Height())
	if sp.X < -w || sp.X > 2*w || sp.Y < -h || sp.Y > 2*h {
		return 0, 0, false
	}
	return int(sp.X), int(sp.Y), true
}

package render

import (
	"github.com/taigrr/softengine/pkg/math3d"
)

// Camera is a left-handed look-at camera with a perspective projection.
type Camera struct {
	// View
	Eye    math3d.Vec3
	Target math3d.Vec3
	Up     math3d.Vec3

	// Projection parameters
	FOV         float32 // Vertical field of view in radians
	AspectRatio float32 // Width / Height
	Near        float32 // Near plane, maps to depth 0
	Far         float32 // Far plane, maps to depth 1

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	viewProjDirty  bool
}

// NewCamera creates the default camera: at (0, 0, -20) looking at the
// origin with +Y up, 0.8 rad field of view, near 0.1 and far 1.0.
func NewCamera() *Camera {
	return &Camera{
		Eye:           math3d.V3(0, 0, -20),
		Target:        math3d.Zero3(),
		Up:            math3d.Up(),
		FOV:           0.8,
		AspectRatio:   4.0 / 3.0,
		Near:          0.1,
		Far:           1.0,
		viewDirty:     true,
		projDirty:     true,
		viewProjDirty: true,
	}
}

// SetPosition sets the eye position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Eye = pos
	c.viewDirty = true
	c.viewProjDirty = true
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Target = target
	c.viewDirty = true
	c.viewProjDirty = true
}

// SetUp sets the up vector.
func (c *Camera) SetUp(up math3d.Vec3) {
	c.Up = up
	c.viewDirty = true
	c.viewProjDirty = true
}

// SetFOV sets the field of view (in radians).
func (c *Camera) SetFOV(fov float32) {
	c.FOV = fov
	c.projDirty = true
	c.viewProjDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float32) {
	c.AspectRatio = aspect
	c.projDirty = true
	c.viewProjDirty = true
}

// SetClipPlanes sets the near and far planes.
func (c *Camera) SetClipPlanes(near, far float32) {
	c.Near = near
	c.Far = far
	c.projDirty = true
	c.viewProjDirty = true
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAtLH(c.Eye, c.Target, c.Up)
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.PerspectiveFovLH(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns view · projection.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewProjDirty {
		c.viewProjMatrix = c.ViewMatrix().Mul(c.ProjectionMatrix())
		c.viewProjDirty = false
	}
	return c.viewProjMatrix
}

package render

import (
	"fmt"
	"math"

	"github.com/taigrr/softengine/pkg/math3d"
)

// FrameStats counts the work done since the last Clear.
type FrameStats struct {
	Meshes       int // Meshes submitted to DrawMesh
	MeshesCulled int // Meshes rejected by bounding-box culling
	Triangles    int // Triangles passed to DrawTriangle
	Pixels       int // Pixel writes that passed the depth test
}

// Canvas owns a frame's color buffer and depth buffer and rasterizes
// meshes into them with scanline filling, Gouraud shading and optional
// texturing.
//
// A frame is Clear, any number of DrawMesh/DrawTriangle calls, then Render.
// A Canvas is not safe for concurrent use; the caller's frame loop owns it.
type Canvas struct {
	title      string
	fb         *Framebuffer
	depth      []float32
	camera     *Camera
	light      Light
	background Color
	presenter  Presenter

	legacyRotation bool
	cull           bool

	stats FrameStats
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithCamera replaces the default camera. Its aspect ratio is overwritten
// to match the canvas.
func WithCamera(cam *Camera) Option {
	return func(c *Canvas) { c.camera = cam }
}

// WithLight replaces the default light.
func WithLight(l Light) Option {
	return func(c *Canvas) { c.light = l }
}

// WithBackground sets the color Clear fills the color buffer with.
func WithBackground(bg Color) Option {
	return func(c *Canvas) { c.background = bg }
}

// WithPresenter sets where Render sends finished frames.
func WithPresenter(p Presenter) Option {
	return func(c *Canvas) { c.presenter = p }
}

// WithLegacyRotation builds mesh rotations with math3d.LegacyRotation
// (Z angle applied through the Y-axis routine).
func WithLegacyRotation(enabled bool) Option {
	return func(c *Canvas) { c.legacyRotation = enabled }
}

// WithCulling skips meshes whose transformed bounds lie entirely outside
// the side or near planes of the view frustum. Only meshes implementing
// BoundedMeshRenderer are tested.
func WithCulling(enabled bool) Option {
	return func(c *Canvas) { c.cull = enabled }
}

// NewCanvas creates a canvas with width x height color and depth buffers.
// Both buffers start cleared.
func NewCanvas(title string, width, height int, opts ...Option) *Canvas {
	c := &Canvas{
		title:      title,
		camera:     NewCamera(),
		light:      DefaultLight(),
		background: ColorBlack,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Resize(width, height)
	Logger().Info("canvas created", "title", title, "width", width, "height", height)
	return c
}

// Title returns the canvas title.
func (c *Canvas) Title() string {
	return c.title
}

// Width returns the framebuffer width.
func (c *Canvas) Width() int {
	return c.fb.Width
}

// Height returns the framebuffer height.
func (c *Canvas) Height() int {
	return c.fb.Height
}

// Framebuffer returns the color buffer.
func (c *Canvas) Framebuffer() *Framebuffer {
	return c.fb
}

// Camera returns the canvas camera.
func (c *Canvas) Camera() *Camera {
	return c.camera
}

// SetLight replaces the light used by subsequent DrawMesh calls.
func (c *Canvas) SetLight(l Light) {
	c.light = l
}

// SetPresenter replaces the presenter used by Render.
func (c *Canvas) SetPresenter(p Presenter) {
	c.presenter = p
}

// Stats returns counters for the current frame.
func (c *Canvas) Stats() FrameStats {
	return c.stats
}

// Resize reallocates both buffers, clears them and updates the camera
// aspect ratio.
func (c *Canvas) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	c.fb = NewFramebuffer(width, height)
	c.depth = make([]float32, width*height)
	if height > 0 {
		c.camera.SetAspectRatio(float32(width) / float32(height))
	}
	c.Clear()
	Logger().Debug("canvas resized", "width", width, "height", height)
}

// Clear resets the color buffer to the background color and the depth
// buffer to the farthest representable depth.
func (c *Canvas) Clear() {
	c.fb.Clear(c.background)

	n := len(c.depth)
	if n > 0 {
		c.depth[0] = math.MaxFloat32
		for i := 1; i < n; i *= 2 {
			copy(c.depth[i:], c.depth[:i])
		}
	}
	c.stats = FrameStats{}
}

// Depth returns the stored depth at (x, y), or MaxFloat32 when out of bounds.
func (c *Canvas) Depth(x, y int) float32 {
	if x < 0 || x >= c.Width() || y < 0 || y >= c.Height() {
		return math.MaxFloat32
	}
	return c.depth[y*c.Width()+x]
}

// Render presents the color buffer. Call once per frame after all draws.
// A canvas without a presenter renders to memory only.
func (c *Canvas) Render() error {
	Logger().Debug("frame",
		"meshes", c.stats.Meshes,
		"culled", c.stats.MeshesCulled,
		"triangles", c.stats.Triangles,
		"pixels", c.stats.Pixels)
	if c.presenter == nil {
		return nil
	}
	if err := c.presenter.Present(c.fb); err != nil {
		Logger().Warn("present failed", "title", c.title, "error", err)
		return fmt.Errorf("present frame: %w", err)
	}
	return nil
}

// WorldMatrix returns rotation · translation for a mesh transform.
func (c *Canvas) WorldMatrix(position, rotation math3d.Vec3) math3d.Mat4 {
	rot := math3d.Rotation(rotation)
	if c.legacyRotation {
		rot = math3d.LegacyRotation(rotation)
	}
	return rot.Mul(math3d.Translation(position))
}

// DrawMesh shades, projects and rasterizes every triangle of mesh.
// The mesh itself is never modified.
func (c *Canvas) DrawMesh(mesh MeshRenderer) {
	c.stats.Meshes++

	position, rotation := mesh.GetTransform()
	world := c.WorldMatrix(position, rotation)
	if c.cull && c.culled(mesh, world) {
		c.stats.MeshesCulled++
		return
	}

	transform := world.Mul(c.camera.ViewProjectionMatrix())
	tex := mesh.GetTexture()

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)

		var sv [3]ScreenVertex
		for k, idx := range face {
			v := mesh.GetVertex(idx)
			v.Intensity = c.light.Gouraud(v, world)
			sv[k] = c.Project(v, transform, world)
		}

		c.DrawTriangle(sv[0], sv[1], sv[2], tex)
	}
}

// Project transforms v by transform (world · view · projection) and maps
// the result to pixel coordinates. Normals are carried in world space.
func (c *Canvas) Project(v Vertex, transform, world math3d.Mat4) ScreenVertex {
	p := math3d.TransformCoordinates(v.Position, transform)

	// NDC x in [-1,1] maps to [0,width]; y is flipped so +1 is row 0.
	p.X = (p.X + 1) * 0.5 * float32(c.Width())
	p.Y = (1 - p.Y) * 0.5 * float32(c.Height())

	return ScreenVertex{
		Position:  p,
		Normal:    math3d.TransformNormal(v.Normal, world),
		U:         v.U,
		V:         v.V,
		Color:     v.Color,
		Intensity: v.Intensity,
	}
}

// DrawTriangle rasterizes a screen-space triangle. The triangle is split at
// its middle vertex into a top and a bottom half, each filled one scanline
// at a time between two edges. tex may be nil.
func (c *Canvas) DrawTriangle(v1, v2, v3 ScreenVertex, tex Sampler) {
	for _, v := range []ScreenVertex{v1, v2, v3} {
		if !math3d.IsFinite(v.Position.X) || !math3d.IsFinite(v.Position.Y) {
			return
		}
	}
	c.stats.Triangles++

	// Sort by ascending screen Y.
	if v1.Position.Y > v2.Position.Y {
		v1, v2 = v2, v1
	}
	if v2.Position.Y > v3.Position.Y {
		v2, v3 = v3, v2
	}
	if v1.Position.Y > v2.Position.Y {
		v1, v2 = v2, v1
	}

	// v4 lies on the long edge v1→v3 at the height of v2.
	split := math3d.Factor(v2.Position.Y, v1.Position.Y, v3.Position.Y)
	v4 := math3d.Interpolate(v1, v3, split)

	h := c.Height()
	top := roundRow(v1.Position.Y, h)
	mid := roundRow(v2.Position.Y, h)
	bottom := roundRow(v3.Position.Y, h)

	// Top half, rows [top, mid): edges v1→v2 and v1→v4.
	for y := max(top, 0); y < min(mid, h); y++ {
		f := math3d.Clamp01(math3d.Factor(float32(y), v1.Position.Y, v2.Position.Y))
		c.DrawScanline(y, math3d.Interpolate(v1, v2, f), math3d.Interpolate(v1, v4, f), tex)
	}

	// Bottom half, rows [mid, bottom]: edges v2→v3 and v4→v3.
	for y := max(mid, 0); y <= min(bottom, h-1); y++ {
		f := math3d.Clamp01(math3d.Factor(float32(y), v2.Position.Y, v3.Position.Y))
		c.DrawScanline(y, math3d.Interpolate(v2, v3, f), math3d.Interpolate(v4, v3, f), tex)
	}
}

// DrawScanline fills row y for every integer x between va and vb,
// inclusive. Attributes are interpolated with perspective correction; the
// color comes from tex when it is non-nil and from the vertices otherwise,
// and is then scaled by the interpolated intensity.
func (c *Canvas) DrawScanline(y int, va, vb ScreenVertex, tex Sampler) {
	if va.Position.X > vb.Position.X {
		va, vb = vb, va
	}
	xa, xb := va.Position.X, vb.Position.X
	if !math3d.IsFinite(xa) || !math3d.IsFinite(xb) {
		return
	}

	w := c.Width()
	start := max(ceilCol(xa, w), 0)
	end := min(floorCol(xb, w), w-1)

	for x := start; x <= end; x++ {
		f := math3d.Factor(float32(x), xa, xb)
		p := math3d.Interpolate(va, vb, f)

		col := p.Color
		if tex != nil {
			col = tex.Sample(p.U, p.V)
		}
		c.DrawPoint(math3d.V3(float32(x), float32(y), p.Position.Z), col.Shading(p.Intensity))
	}
}

// DrawPoint writes a pixel at the integer part of p.X, p.Y with depth p.Z.
// Non-finite or off-screen points are ignored.
func (c *Canvas) DrawPoint(p math3d.Vec3, col Color) {
	if !math3d.IsFinite(p.X) || !math3d.IsFinite(p.Y) || p.X < 0 || p.Y < 0 {
		return
	}
	if p.X >= float32(c.Width()) || p.Y >= float32(c.Height()) {
		return
	}
	c.SetPixel(int(p.X), int(p.Y), p.Z, col)
}

// SetPixel depth-tests and blends col into the color buffer at (x, y).
//
// The write is skipped when (x, y) is out of bounds, z is NaN, z is farther
// than the stored depth, or col is fully transparent. Otherwise the depth
// is stored and col is composited over the pixel currently in the buffer.
func (c *Canvas) SetPixel(x, y int, z float32, col Color) {
	w := c.Width()
	if x < 0 || x >= w || y < 0 || y >= c.Height() {
		return
	}
	if z != z { // NaN
		return
	}
	i := y*w + x
	if z > c.depth[i] {
		return
	}
	if col.A == 0 {
		return
	}

	c.depth[i] = z
	c.fb.Pixels[i] = col.BlendAlpha(c.fb.Pixels[i])
	c.stats.Pixels++
}

// roundRow rounds a screen Y to a row index, saturating to [-1, limit] so
// huge coordinates never overflow int.
func roundRow(v float32, limit int) int {
	r := math.Round(float64(v))
	switch {
	case r < -1:
		return -1
	case r > float64(limit):
		return limit
	}
	return int(r)
}

// ceilCol is the first column at or right of x, saturated to [-1, limit].
func ceilCol(x float32, limit int) int {
	return saturate(math.Ceil(float64(x)), limit)
}

// floorCol is the last column at or left of x, saturated to [-1, limit].
func floorCol(x float32, limit int) int {
	return saturate(math.Floor(float64(x)), limit)
}

func saturate(v float64, limit int) int {
	switch {
	case v < -1:
		return -1
	case v > float64(limit):
		return limit
	}
	return int(v)
}

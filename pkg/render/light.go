package render

import (
	"github.com/taigrr/softengine/pkg/math3d"
)

// Light is a single point light without attenuation.
type Light struct {
	Position math3d.Vec3
}

// DefaultLight returns the light used when none is configured. It sits
// slightly above and to the right of the default camera.
func DefaultLight() Light {
	return Light{Position: math3d.V3(2, 2, -15)}
}

// Gouraud returns the diffuse intensity of v under world:
// max(0, normalize(world·n) · normalize(light - world·p)).
func (l Light) Gouraud(v Vertex, world math3d.Mat4) float32 {
	n := math3d.TransformNormal(v.Normal, world).Vec3().Normalize()
	p := math3d.TransformCoordinates(v.Position, world).Vec3()
	dir := l.Position.Sub(p).Normalize()
	d := n.Dot(dir)
	if !(d > 0) {
		return 0
	}
	return d
}

package main

import (
	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/softengine/pkg/math3d"
)

// Axis tracks one rotation angle whose velocity decays to zero on a
// critically damped spring.
type Axis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // spring velocity of Velocity itself
}

// NewAxis creates an axis at rest.
func NewAxis(fps int) Axis {
	return Axis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances the angle by its velocity, then eases the velocity
// toward zero.
func (a *Axis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// Follower eases a value toward a target on an under-damped spring.
type Follower struct {
	Position float64
	Target   float64
	velocity float64
	spring   harmonica.Spring
}

// NewFollower creates a follower resting at pos.
func NewFollower(fps int, pos float64) Follower {
	return Follower{
		Position: pos,
		Target:   pos,
		spring:   harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.7),
	}
}

// Update moves one frame toward the target.
func (f *Follower) Update() {
	f.Position, f.velocity = f.spring.Update(f.Position, f.velocity, f.Target)
}

// Motion is the animated transform of the viewed mesh: spinning rotation
// axes plus a position that follows its target.
type Motion struct {
	Pitch, Yaw, Roll Axis
	X, Y, Z          Follower
	fps              int
	home             math3d.Vec3
}

// NewMotion creates a motion at rest at home.
func NewMotion(fps int, home math3d.Vec3) *Motion {
	m := &Motion{fps: fps, home: home}
	m.Reset()
	return m
}

// Reset stops all rotation and puts the mesh back at home.
func (m *Motion) Reset() {
	m.Pitch, m.Yaw, m.Roll = NewAxis(m.fps), NewAxis(m.fps), NewAxis(m.fps)
	m.X = NewFollower(m.fps, float64(m.home.X))
	m.Y = NewFollower(m.fps, float64(m.home.Y))
	m.Z = NewFollower(m.fps, float64(m.home.Z))
}

// ApplyImpulse adds angular velocity in radians per frame.
func (m *Motion) ApplyImpulse(pitch, yaw, roll float64) {
	m.Pitch.Velocity += pitch
	m.Yaw.Velocity += yaw
	m.Roll.Velocity += roll
}

// Move shifts the position target.
func (m *Motion) Move(dx, dy, dz float64) {
	m.X.Target += dx
	m.Y.Target += dy
	m.Z.Target = max(zoomMin, min(m.Z.Target+dz, zoomMax))
}

// Update advances every axis by one frame.
func (m *Motion) Update() {
	m.Pitch.Update()
	m.Yaw.Update()
	m.Roll.Update()
	m.X.Update()
	m.Y.Update()
	m.Z.Update()
}

// Rotation returns the current Euler angles.
func (m *Motion) Rotation() math3d.Vec3 {
	return math3d.V3(float32(m.Pitch.Position), float32(m.Yaw.Position), float32(m.Roll.Position))
}

// Position returns the current position.
func (m *Motion) Position() math3d.Vec3 {
	return math3d.V3(float32(m.X.Position), float32(m.Y.Position), float32(m.Z.Position))
}

package main

import (
	"sync"

	uv "github.com/charmbracelet/ultraviolet"
)

const (
	torqueStrength = 3.0 // radians per second squared while a key is held
	moveStep       = 0.5
	zoomStep       = 1.0
	wheelStep      = 0.5
	zoomMin        = -15.0 // mesh Z limits; the camera sits at Z=-20
	zoomMax        = 40.0
)

// Controls is the input state shared between the event goroutine and the
// frame loop. The event goroutine only records intent; the frame loop
// applies it to the Motion and the mesh.
type Controls struct {
	mu          sync.Mutex
	torque      [3]float64 // pitch, yaw, roll
	move        [3]float64 // pending position target change
	reset       bool
	showTexture bool
	wireframe   bool
	quit        bool
	resized     *uv.WindowSizeEvent
}

// NewControls creates controls with texturing initially set to
// showTexture.
func NewControls(showTexture bool) *Controls {
	return &Controls{showTexture: showTexture}
}

// Handle records the effect of one terminal event.
func (c *Controls) Handle(ev uv.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		c.resized = &ev

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c"):
			c.quit = true
		case ev.MatchString("w"):
			c.torque[0] = -torqueStrength
		case ev.MatchString("s"):
			c.torque[0] = torqueStrength
		case ev.MatchString("a"):
			c.torque[1] = -torqueStrength
		case ev.MatchString("d"):
			c.torque[1] = torqueStrength
		case ev.MatchString("q"):
			c.torque[2] = -torqueStrength
		case ev.MatchString("e"):
			c.torque[2] = torqueStrength
		case ev.MatchString("left"):
			c.move[0] -= moveStep
		case ev.MatchString("right"):
			c.move[0] += moveStep
		case ev.MatchString("up"):
			c.move[1] += moveStep
		case ev.MatchString("down"):
			c.move[1] -= moveStep
		case isKey(ev, '+') || ev.MatchString("="):
			// "+" is the modifier separator for MatchString.
			c.move[2] -= zoomStep
		case isKey(ev, '-') || ev.MatchString("_"):
			c.move[2] += zoomStep
		case ev.MatchString("t"):
			c.showTexture = !c.showTexture
		case ev.MatchString("x"):
			c.wireframe = !c.wireframe
		case ev.MatchString("r"):
			c.reset = true
			c.torque = [3]float64{}
			c.move = [3]float64{}
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			c.move[2] -= wheelStep
		case uv.MouseWheelDown:
			c.move[2] += wheelStep
		}

	case uv.KeyReleaseEvent:
		switch {
		case ev.MatchString("w", "s"):
			c.torque[0] = 0
		case ev.MatchString("a", "d"):
			c.torque[1] = 0
		case ev.MatchString("q", "e"):
			c.torque[2] = 0
		}
	}
}

func isKey(ev uv.KeyPressEvent, r rune) bool {
	return ev.Text == string(r) || ev.Code == r
}

// Frame is a snapshot of the controls taken once per frame.
type Frame struct {
	Torque      [3]float64
	Move        [3]float64
	Reset       bool
	ShowTexture bool
	Wireframe   bool
	Quit        bool
	Resized     *uv.WindowSizeEvent
}

// Take returns the current state and consumes one-shot requests. Held
// torque decays by decay so a missed key release cannot spin forever.
func (c *Controls) Take(decay float64) Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := Frame{
		Torque:      c.torque,
		Move:        c.move,
		Reset:       c.reset,
		ShowTexture: c.showTexture,
		Wireframe:   c.wireframe,
		Quit:        c.quit,
		Resized:     c.resized,
	}
	for i := range c.torque {
		c.torque[i] *= decay
	}
	c.move = [3]float64{}
	c.reset = false
	c.resized = nil
	return f
}

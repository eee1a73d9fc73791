// Package config loads viewer settings from YAML and turns them into
// canvas options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/render"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Vec3 is a point or direction written as a three element YAML sequence.
type Vec3 [3]float32

// V returns v as a math3d vector.
func (v Vec3) V() math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

// UnmarshalYAML accepts exactly three numbers.
func (v *Vec3) UnmarshalYAML(n *yaml.Node) error {
	var xs []float32
	if err := n.Decode(&xs); err != nil {
		return err
	}
	if len(xs) != 3 {
		return fmt.Errorf("line %d: want 3 components, got %d", n.Line, len(xs))
	}
	copy(v[:], xs)
	return nil
}

// MarshalYAML writes v as a flow sequence.
func (v Vec3) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, x := range v {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(x)})
	}
	return n, nil
}

// Color is a render.Color written as "r,g,b" or "r,g,b,a".
type Color render.Color

// UnmarshalYAML parses the color with render.ParseColor.
func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	parsed, err := render.ParseColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*c = Color(parsed)
	return nil
}

// MarshalYAML writes the color the way UnmarshalYAML reads it.
func (c Color) MarshalYAML() (any, error) {
	return render.Color(c).String(), nil
}

// Wrap is a render.WrapMode written as "clamp" or "repeat".
type Wrap render.WrapMode

// UnmarshalYAML parses the mode with render.ParseWrapMode.
func (w *Wrap) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	m, err := render.ParseWrapMode(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*w = Wrap(m)
	return nil
}

// MarshalYAML writes the mode name.
func (w Wrap) MarshalYAML() (any, error) {
	return render.WrapMode(w).String(), nil
}

// Filter is a render.FilterMode written as "nearest" or "bilinear".
type Filter render.FilterMode

// UnmarshalYAML parses the mode with render.ParseFilterMode.
func (f *Filter) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	m, err := render.ParseFilterMode(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*f = Filter(m)
	return nil
}

// MarshalYAML writes the mode name.
func (f Filter) MarshalYAML() (any, error) {
	return render.FilterMode(f).String(), nil
}

// Texture holds the sampling settings for model textures.
type Texture struct {
	Filter Filter `yaml:"filter"`
	Wrap   Wrap   `yaml:"wrap"` // Both axes
}

// Apply sets the sampling modes of tex. A nil tex is ignored.
func (t Texture) Apply(tex *render.Texture) {
	if tex == nil {
		return
	}
	tex.FilterMode = render.FilterMode(t.Filter)
	tex.WrapU = render.WrapMode(t.Wrap)
	tex.WrapV = render.WrapMode(t.Wrap)
}

// Camera holds the view and projection parameters.
type Camera struct {
	Eye    Vec3    `yaml:"eye"`
	Target Vec3    `yaml:"target"`
	Up     Vec3    `yaml:"up"`
	FOV    float32 `yaml:"fov"` // Vertical, radians
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
}

// Light holds the point light position.
type Light struct {
	Position Vec3 `yaml:"position"`
}

// Config is the full viewer configuration.
type Config struct {
	Title      string  `yaml:"title"`
	Width      int     `yaml:"width"`  // Framebuffer width for headless export
	Height     int     `yaml:"height"` // Framebuffer height for headless export
	FPS        int     `yaml:"fps"`
	Background Color   `yaml:"background"`
	Camera     Camera  `yaml:"camera"`
	Light      Light   `yaml:"light"`
	Texture    Texture `yaml:"texture"`

	// LegacyZRotation composes the Z angle as a second Y rotation.
	LegacyZRotation bool `yaml:"legacy_z_rotation"`
	// Cull skips meshes whose bounds fall outside the view frustum.
	Cull bool `yaml:"cull"`
}

// Default returns the configuration matching a canvas built without
// options.
func Default() Config {
	cam := render.NewCamera()
	light := render.DefaultLight()
	return Config{
		Title:      "softengine",
		Width:      640,
		Height:     480,
		FPS:        30,
		Background: Color(render.ColorBlack),
		Camera: Camera{
			Eye:    Vec3{cam.Eye.X, cam.Eye.Y, cam.Eye.Z},
			Target: Vec3{cam.Target.X, cam.Target.Y, cam.Target.Z},
			Up:     Vec3{cam.Up.X, cam.Up.Y, cam.Up.Z},
			FOV:    cam.FOV,
			Near:   cam.Near,
			Far:    cam.Far,
		},
		Light: Light{
			Position: Vec3{light.Position.X, light.Position.Y, light.Position.Z},
		},
	}
}

// Load reads a YAML file over Default and validates the result. Unknown
// keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate reports the first setting the renderer cannot work with.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalid, c.Width, c.Height)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d must be positive", ErrInvalid, c.FPS)
	case c.Camera.FOV == 0:
		return fmt.Errorf("%w: camera fov must be non-zero", ErrInvalid)
	case !(c.Camera.Near < c.Camera.Far):
		return fmt.Errorf("%w: camera near %v must be below far %v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Camera.Eye == c.Camera.Target:
		return fmt.Errorf("%w: camera eye and target coincide at %v", ErrInvalid, c.Camera.Eye)
	}
	return nil
}

// NewCamera builds a camera from the configured parameters.
func (c Config) NewCamera() *render.Camera {
	cam := render.NewCamera()
	cam.SetPosition(c.Camera.Eye.V())
	cam.LookAt(c.Camera.Target.V())
	cam.SetUp(c.Camera.Up.V())
	cam.SetFOV(c.Camera.FOV)
	cam.SetClipPlanes(c.Camera.Near, c.Camera.Far)
	return cam
}

// Options returns the canvas options described by c.
func (c Config) Options() []render.Option {
	return []render.Option{
		render.WithCamera(c.NewCamera()),
		render.WithLight(render.Light{Position: c.Light.Position.V()}),
		render.WithBackground(render.Color(c.Background)),
		render.WithLegacyRotation(c.LegacyZRotation),
		render.WithCulling(c.Cull),
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/render"
)

func TestDefaultMatchesCanvasDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() is invalid: %v", err)
	}

	want := render.NewCamera()
	got := cfg.NewCamera()
	got.SetAspectRatio(want.AspectRatio)
	if !got.ViewProjectionMatrix().ApproxEqual(want.ViewProjectionMatrix(), 1e-6) {
		t.Error("Default camera differs from render.NewCamera")
	}
	if cfg.Light.Position.V() != render.DefaultLight().Position {
		t.Errorf("light = %v, want %v", cfg.Light.Position, render.DefaultLight().Position)
	}
	if render.Color(cfg.Background) != render.ColorBlack {
		t.Errorf("background = %v, want black", render.Color(cfg.Background))
	}
	if cfg.LegacyZRotation || cfg.Cull {
		t.Error("legacy rotation and culling should default to off")
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
title: demo
width: 320
background: "30,30,40"
camera:
  eye: [0, 2, -10]
  far: 100
light:
  position: [1, 2, 3]
cull: true
texture:
  filter: bilinear
`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Title != "demo" || cfg.Width != 320 {
		t.Errorf("title/width = %q/%d", cfg.Title, cfg.Width)
	}
	if cfg.Height != Default().Height {
		t.Errorf("height = %d, want default %d", cfg.Height, Default().Height)
	}
	if render.Color(cfg.Background) != render.RGB(30, 30, 40) {
		t.Errorf("background = %v", render.Color(cfg.Background))
	}
	if cfg.Camera.Eye.V() != math3d.V3(0, 2, -10) {
		t.Errorf("eye = %v", cfg.Camera.Eye)
	}
	// Unset nested keys keep their defaults.
	if cfg.Camera.Near != Default().Camera.Near || cfg.Camera.FOV != Default().Camera.FOV {
		t.Errorf("near/fov = %v/%v, want defaults", cfg.Camera.Near, cfg.Camera.FOV)
	}
	if cfg.Camera.Far != 100 {
		t.Errorf("far = %v, want 100", cfg.Camera.Far)
	}
	if cfg.Light.Position != (Vec3{1, 2, 3}) {
		t.Errorf("light = %v", cfg.Light.Position)
	}
	if !cfg.Cull {
		t.Error("cull not set")
	}
	if cfg.Texture.Filter != Filter(render.FilterBilinear) || cfg.Texture.Wrap != Wrap(render.WrapClamp) {
		t.Errorf("texture = %+v, want bilinear filter and default wrap", cfg.Texture)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("Parse(nil) = %+v, want Default()", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		invalid bool // wraps ErrInvalid
	}{
		{"unknown key", "colour: red", false},
		{"short vector", "camera: {eye: [1, 2]}", false},
		{"bad color", `background: "red"`, false},
		{"bad filter", "texture: {filter: trilinear}", false},
		{"bad wrap", "texture: {wrap: mirror}", false},
		{"zero width", "width: 0", true},
		{"negative height", "height: -5", true},
		{"zero fps", "fps: 0", true},
		{"near beyond far", "camera: {near: 2, far: 1}", true},
		{"near equals far", "camera: {near: 1, far: 1}", true},
		{"zero fov", "camera: {fov: 0}", true},
		{"eye on target", "camera: {eye: [0, 0, 0]}", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrInvalid); got != tc.invalid {
				t.Errorf("errors.Is(%v, ErrInvalid) = %v, want %v", err, got, tc.invalid)
			}
		})
	}
}

func TestLoadAndMarshal(t *testing.T) {
	cfg := Default()
	cfg.Title = "roundtrip"
	cfg.Background = Color(render.RGBA(1, 2, 3, 4))
	cfg.Camera.Eye = Vec3{0, 0, -5}
	cfg.LegacyZRotation = true
	cfg.Texture.Wrap = Wrap(render.WrapRepeat)

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"title: roundtrip", "background: 1,2,3,4", "eye: [0, 0, -5]", "legacy_z_rotation: true", "wrap: repeat", "filter: nearest"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("marshaled config missing %q:\n%s", want, data)
		}
	}

	path := filepath.Join(t.TempDir(), "softengine.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg {
		t.Errorf("Load(Marshal(cfg)) = %+v, want %+v", got, cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTextureApply(t *testing.T) {
	tex := render.NewTexture(2, 2)
	Texture{Filter: Filter(render.FilterBilinear), Wrap: Wrap(render.WrapRepeat)}.Apply(tex)
	if tex.FilterMode != render.FilterBilinear || tex.WrapU != render.WrapRepeat || tex.WrapV != render.WrapRepeat {
		t.Errorf("texture modes = %v/%v/%v", tex.FilterMode, tex.WrapU, tex.WrapV)
	}
	Default().Texture.Apply(nil)
}

func TestOptionsConfigureCanvas(t *testing.T) {
	cfg := Default()
	cfg.Camera.Eye = Vec3{0, 0, -5}
	cfg.Background = Color(render.ColorBlue)

	c := render.NewCanvas("cfg", 8, 8, cfg.Options()...)
	if c.Camera().Eye != math3d.V3(0, 0, -5) {
		t.Errorf("canvas eye = %v", c.Camera().Eye)
	}
	if got := c.Framebuffer().GetPixel(0, 0); got != render.ColorBlue {
		t.Errorf("cleared pixel = %v, want background %v", got, render.ColorBlue)
	}
}

package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/taigrr/softengine/pkg/math3d"
)

// Color is an 8-bit RGBA color with straight (non-premultiplied) alpha.
type Color struct {
	R, G, B, A uint8
}

// Colors for convenience
var (
	ColorTransparent = Color{}
	ColorBlack       = Color{0, 0, 0, 255}
	ColorWhite       = Color{255, 255, 255, 255}
	ColorRed         = Color{255, 0, 0, 255}
	ColorGreen       = Color{0, 255, 0, 255}
	ColorBlue        = Color{0, 0, 255, 255}
	ColorYellow      = Color{255, 255, 0, 255}
	ColorCyan        = Color{0, 255, 255, 255}
	ColorMagenta     = Color{255, 0, 255, 255}
	ColorGray        = Color{128, 128, 128, 255}
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b, 255}
}

// RGBA creates a color from straight RGBA values.
func RGBA(r, g, b, a uint8) Color {
	return Color{r, g, b, a}
}

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA(c).RGBA()
}

// Shading scales every channel by intensity, alpha included.
// Results are clamped to [0, 255].
func (c Color) Shading(intensity float32) Color {
	return Color{
		R: scaleChannel(c.R, intensity),
		G: scaleChannel(c.G, intensity),
		B: scaleChannel(c.B, intensity),
		A: scaleChannel(c.A, intensity),
	}
}

// BlendAlpha composites c over bg using straight alpha ("over" operator).
func (c Color) BlendAlpha(bg Color) Color {
	if c.A == 255 {
		return c
	}
	fa := float32(c.A) / 255
	ba := float32(bg.A) / 255
	outA := fa + ba*(1-fa)
	if outA == 0 {
		return Color{}
	}

	blend := func(f, b uint8) uint8 {
		return uint8((float32(f)*fa+float32(b)*ba*(1-fa))/outA + 0.5)
	}
	return Color{
		R: blend(c.R, bg.R),
		G: blend(c.G, bg.G),
		B: blend(c.B, bg.B),
		A: uint8(outA*255 + 0.5),
	}
}

// Lerp interpolates channel-wise towards b.
func (c Color) Lerp(b Color, factor float32) Color {
	return Color{
		R: math3d.Lerp(c.R, b.R, factor),
		G: math3d.Lerp(c.G, b.G, factor),
		B: math3d.Lerp(c.B, b.B, factor),
		A: math3d.Lerp(c.A, b.A, factor),
	}
}

// Modulate multiplies two colors channel-wise (texture * vertex color).
func (c Color) Modulate(b Color) Color {
	return Color{
		R: uint8((int(c.R) * int(b.R)) / 255),
		G: uint8((int(c.G) * int(b.G)) / 255),
		B: uint8((int(c.B) * int(b.B)) / 255),
		A: uint8((int(c.A) * int(b.A)) / 255),
	}
}

// ParseColor parses "r,g,b" or "r,g,b,a" with decimal components.
func ParseColor(s string) (Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("parse color %q: want 3 or 4 components, got %d", s, len(parts))
	}
	c := [4]uint8{255, 255, 255, 255}
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		c[i] = uint8(v)
	}
	return Color{c[0], c[1], c[2], c[3]}, nil
}

// String formats the color the way ParseColor reads it.
func (c Color) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", c.R, c.G, c.B, c.A)
}

func scaleChannel(v uint8, k float32) uint8 {
	f := float32(v) * k
	switch {
	case !(f > 0):
		return 0
	case f >= 255:
		return 255
	}
	return uint8(f)
}

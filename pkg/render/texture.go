package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	_ "golang.org/x/image/bmp" // Register BMP decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Sampler resolves a color from normalized texture coordinates.
// The rasterizer only depends on this interface.
type Sampler interface {
	Sample(u, v float32) Color
}

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapClamp  WrapMode = iota // Clamp to edge
	WrapRepeat                 // Tile the texture
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

var (
	wrapNames   = [...]string{WrapClamp: "clamp", WrapRepeat: "repeat"}
	filterNames = [...]string{FilterNearest: "nearest", FilterBilinear: "bilinear"}
)

func (m WrapMode) String() string {
	if int(m) < len(wrapNames) && m >= 0 {
		return wrapNames[m]
	}
	return fmt.Sprintf("WrapMode(%d)", int(m))
}

// ParseWrapMode parses "clamp" or "repeat".
func ParseWrapMode(s string) (WrapMode, error) {
	for m, name := range wrapNames {
		if s == name {
			return WrapMode(m), nil
		}
	}
	return 0, fmt.Errorf("unknown wrap mode %q (want clamp or repeat)", s)
}

func (m FilterMode) String() string {
	if int(m) < len(filterNames) && m >= 0 {
		return filterNames[m]
	}
	return fmt.Sprintf("FilterMode(%d)", int(m))
}

// ParseFilterMode parses "nearest" or "bilinear".
func ParseFilterMode(s string) (FilterMode, error) {
	for m, name := range filterNames {
		if s == name {
			return FilterMode(m), nil
		}
	}
	return 0, fmt.Errorf("unknown filter mode %q (want nearest or bilinear)", s)
}

// Texture holds a 2D image for texture mapping. It is not modified by
// sampling, so one texture may be shared by any number of meshes.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color    // Row-major pixel data
	WrapU      WrapMode   // Horizontal wrap mode
	WrapV      WrapMode   // Vertical wrap mode
	FilterMode FilterMode // Sampling filter mode
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture loads a texture from a PNG, JPEG, BMP, TIFF or WebP file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	Logger().Debug("texture loaded", "path", path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())

	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := range tex.Height {
			row := nrgba.Pix[y*nrgba.Stride:]
			for x := range tex.Width {
				p := row[x*4 : x*4+4]
				tex.Pixels[y*tex.Width+x] = Color{p[0], p[1], p[2], p[3]}
			}
		}
		return tex
	}

	for y := range tex.Height {
		for x := range tex.Width {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			tex.Pixels[y*tex.Width+x] = Color(c)
		}
	}
	return tex
}

// ToImage converts the texture to an image.NRGBA.
func (t *Texture) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	for i, c := range t.Pixels {
		copy(img.Pix[i*4:], []uint8{c.R, c.G, c.B, c.A})
	}
	return img
}

// ResizeTexture returns a copy of t scaled to width x height with bilinear
// resampling. Wrap and filter settings are preserved.
func ResizeTexture(t *Texture, width, height int) *Texture {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	src := t.ToImage()
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	out := TextureFromImage(dst)
	out.WrapU, out.WrapV, out.FilterMode = t.WrapU, t.WrapV, t.FilterMode
	return out
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// NewGradientTexture creates a horizontal gradient texture.
func NewGradientTexture(width, height int, left, right Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			t := float32(0)
			if width > 1 {
				t = float32(x) / float32(width-1)
			}
			tex.SetPixel(x, y, left.Lerp(right, t))
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample samples the texture at UV coordinates (0-1 range). Row 0 of the
// image is v=0.
func (t *Texture) Sample(u, v float32) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}
	u = wrapCoord(u, t.WrapU)
	v = wrapCoord(v, t.WrapV)

	switch t.FilterMode {
	case FilterBilinear:
		return t.sampleBilinear(u, v)
	default:
		return t.sampleNearest(u, v)
	}
}

// wrapCoord applies the wrap mode to a coordinate. NaN maps to 0.
func wrapCoord(coord float32, mode WrapMode) float32 {
	if mode == WrapRepeat && !math.IsInf(float64(coord), 0) {
		coord -= float32(math.Floor(float64(coord)))
	}
	if !(coord > 0) {
		return 0
	}
	return min(coord, 1)
}

// sampleNearest returns the nearest pixel.
func (t *Texture) sampleNearest(u, v float32) Color {
	x := min(int(u*float32(t.Width)), t.Width-1)
	y := min(int(v*float32(t.Height)), t.Height-1)
	return t.Pixels[y*t.Width+x]
}

// sampleBilinear returns bilinearly interpolated color.
func (t *Texture) sampleBilinear(u, v float32) Color {
	fx := u*float32(t.Width) - 0.5
	fy := v*float32(t.Height) - 0.5

	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	x1 := wrapPixelCoord(x0+1, t.Width, t.WrapU)
	y1 := wrapPixelCoord(y0+1, t.Height, t.WrapV)
	x0 = wrapPixelCoord(x0, t.Width, t.WrapU)
	y0 = wrapPixelCoord(y0, t.Height, t.WrapV)

	top := t.GetPixel(x0, y0).Lerp(t.GetPixel(x1, y0), tx)
	bot := t.GetPixel(x0, y1).Lerp(t.GetPixel(x1, y1), tx)
	return top.Lerp(bot, ty)
}

// wrapPixelCoord wraps a pixel coordinate.
func wrapPixelCoord(x, size int, mode WrapMode) int {
	switch mode {
	case WrapRepeat:
		x %= size
		if x < 0 {
			x += size
		}
	default:
		x = max(0, min(x, size-1))
	}
	return x
}

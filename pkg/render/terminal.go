package render

import (
	"fmt"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// TerminalScreen is a cell screen that can flush itself to a terminal.
// *uv.Terminal satisfies it.
type TerminalScreen interface {
	uv.Screen
	Display() error
}

// TerminalPresenter shows frames on a terminal using half-block cells: each
// cell covers two framebuffer rows, the upper in the foreground color and
// the lower in the background color.
type TerminalPresenter struct {
	screen TerminalScreen
}

// NewTerminalPresenter creates a presenter drawing to screen.
func NewTerminalPresenter(screen TerminalScreen) *TerminalPresenter {
	return &TerminalPresenter{screen: screen}
}

// FramebufferSize returns the canvas size that fills the screen.
func (p *TerminalPresenter) FramebufferSize() (width, height int) {
	b := p.screen.Bounds()
	return b.Dx(), b.Dy() * 2
}

// Present draws fb and flushes the screen.
func (p *TerminalPresenter) Present(fb *Framebuffer) error {
	fb.Draw(p.screen, p.screen.Bounds())
	if err := p.screen.Display(); err != nil {
		return fmt.Errorf("display terminal: %w", err)
	}
	return nil
}

// Draw converts the framebuffer to half-block cells inside area.
// The framebuffer height should be 2x the area height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, halfBlock(fb.GetPixel(x, topY), fb.GetPixel(x, topY+1)))
		}
	}
}

// halfBlock builds a ▀ cell with top as foreground and bottom as
// background.
func halfBlock(top, bottom Color) *uv.Cell {
	return &uv.Cell{
		Content: "▀",
		Width:   1,
		Style: uv.Style{
			Fg: cellColor(top),
			Bg: cellColor(bottom),
		},
	}
}

// cellColor maps a pixel to a terminal color. Transparent pixels leave the
// terminal's default color.
func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return color.NRGBA(c)
}

package render

import (
	"fmt"
	"os"
	"path/filepath"
)

// Presenter receives each finished frame from Canvas.Render.
// The framebuffer is only valid for the duration of the call.
type Presenter interface {
	Present(fb *Framebuffer) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(fb *Framebuffer) error

// Present calls f(fb).
func (f PresenterFunc) Present(fb *Framebuffer) error {
	return f(fb)
}

// PNGPresenter writes every frame to Dir as <Prefix><n>.png, numbering
// frames from zero.
type PNGPresenter struct {
	Dir    string
	Prefix string

	frame int
}

// NewPNGPresenter creates dir if needed and returns a presenter writing
// into it.
func NewPNGPresenter(dir, prefix string) (*PNGPresenter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &PNGPresenter{Dir: dir, Prefix: prefix}, nil
}

// Present encodes fb as the next numbered PNG.
func (p *PNGPresenter) Present(fb *Framebuffer) error {
	path := p.Path(p.frame)
	if err := fb.SavePNG(path); err != nil {
		return err
	}
	p.frame++
	Logger().Debug("frame written", "path", path)
	return nil
}

// Frames returns how many frames have been written.
func (p *PNGPresenter) Frames() int {
	return p.frame
}

// Path returns the file name used for frame n.
func (p *PNGPresenter) Path(n int) string {
	return filepath.Join(p.Dir, fmt.Sprintf("%s%04d.png", p.Prefix, n))
}

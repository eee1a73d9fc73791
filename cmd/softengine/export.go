package main

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/taigrr/softengine/pkg/config"
	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/models"
	"github.com/taigrr/softengine/pkg/render"
)

// turntableTilt is the fixed pitch of exported turntables, in radians.
const turntableTilt = 0.35

// ExportOptions controls a turntable export.
type ExportOptions struct {
	Frames    int
	Wireframe bool      // Overlay the mesh edges
	Axes      bool      // Draw the world axes
	Progress  io.Writer // Progress bar output
}

// Export renders one full turn of mesh about the Y axis as numbered PNG
// files in dir. mesh itself is left untouched.
func Export(mesh *models.Mesh, cfg config.Config, dir string, opt ExportOptions) error {
	frames := opt.Frames
	if frames <= 0 {
		return fmt.Errorf("export: frame count %d must be positive", frames)
	}
	png, err := render.NewPNGPresenter(dir, "frame_")
	if err != nil {
		return err
	}

	opts := append(cfg.Options(), render.WithPresenter(png))
	canvas := render.NewCanvas(cfg.Title, cfg.Width, cfg.Height, opts...)

	bar := progressbar.NewOptions(frames,
		progressbar.OptionSetWriter(opt.Progress),
		progressbar.OptionSetDescription("rendering"),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
	)

	mesh = mesh.Clone()
	step := float32(2*math.Pi) / float32(frames)
	for i := range frames {
		mesh.Rotation = math3d.V3(turntableTilt, step*float32(i), 0)
		canvas.Clear()
		canvas.DrawMesh(mesh)
		if opt.Wireframe {
			canvas.DrawMeshWireframe(mesh, wireColor)
		}
		if opt.Axes {
			canvas.DrawAxes(axesLength)
		}
		if err := canvas.Render(); err != nil {
			return fmt.Errorf("export frame %d: %w", i, err)
		}
		if err := bar.Add(1); err != nil {
			return fmt.Errorf("progress: %w", err)
		}
	}
	if err := bar.Finish(); err != nil {
		return fmt.Errorf("progress: %w", err)
	}

	render.Logger().Info("export done", "dir", dir, "frames", png.Frames())
	return nil
}

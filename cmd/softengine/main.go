// softengine - software 3D rasterizer
// Draws glTF or OBJ models or built-in shapes in the terminal, or renders a
// turntable to PNG files.
//
// Controls:
//
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Arrows      - Move model
//	+/-         - Zoom in/out
//	Mouse wheel - Zoom in/out
//	T           - Toggle texture
//	X           - Toggle wireframe overlay
//	R           - Reset
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/softengine/pkg/config"
	"github.com/taigrr/softengine/pkg/models"
	"github.com/taigrr/softengine/pkg/render"
	xterm "golang.org/x/term"
)

var (
	configPath     = flag.String("config", "", "YAML config file")
	dumpConfig     = flag.Bool("dump-config", false, "Print the effective config as YAML and exit")
	targetFPS      = flag.Int("fps", 0, "Target FPS (overrides config)")
	bgColor        = flag.String("bg", "", "Background color R,G,B[,A] (overrides config)")
	width          = flag.Int("width", 0, "Export width in pixels (overrides config)")
	height         = flag.Int("height", 0, "Export height in pixels (overrides config)")
	legacyRotation = flag.Bool("legacy-rotation", false, "Apply the Z angle as a second Y rotation")
	cull           = flag.Bool("cull", false, "Skip meshes outside the view frustum")
	texturePath    = flag.String("texture", "", "Texture image (PNG/JPG/BMP/TIFF/WebP)")
	modelColor     = flag.String("color", "", "Paint the model R,G,B[,A], replacing its vertex colors")
	textureSize    = flag.Int("texture-size", 512, "Downscale textures larger than this many pixels per side (0 keeps them)")
	showAxes       = flag.Bool("axes", false, "Draw the world axes")
	outDir         = flag.String("out", "", "Render a turntable to PNG files in this directory instead of the terminal")
	frameCount     = flag.Int("frames", 36, "Number of turntable frames with -out")
	wireframe      = flag.Bool("wireframe", false, "Overlay wireframe on exported frames")
	logPath        = flag.String("log", "", "Write logs to this file")
	logLevel       = flag.String("v", "info", "Log level: debug, info, warn, error")
)

const (
	modelSize  = 8 // largest dimension models are scaled to
	axesLength = 6
)

var wireColor = render.RGB(0, 255, 128)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "softengine - software 3D rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: softengine [options] <model.glb|model.gltf|model.obj|cube|plane|triangle>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Q/E         - Roll left/right\n")
		fmt.Fprintf(os.Stderr, "  Arrows      - Move model\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Zoom\n")
		fmt.Fprintf(os.Stderr, "  Mouse wheel - Zoom\n")
		fmt.Fprintf(os.Stderr, "  T           - Toggle texture\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *dumpConfig {
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads -config, if any, and applies flags the user set.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return cfg, err
		}
	}

	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fps":
			cfg.FPS = *targetFPS
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "legacy-rotation":
			cfg.LegacyZRotation = *legacyRotation
		case "cull":
			cfg.Cull = *cull
		case "bg":
			var c render.Color
			if c, err = render.ParseColor(*bgColor); err == nil {
				cfg.Background = config.Color(c)
			}
		}
	})
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// setupLogging installs a text logger writing to path, or to fallback when
// path is empty. With neither, logging stays off.
func setupLogging(path, level string, fallback io.Writer) (func() error, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	w, closeFn := fallback, func() error { return nil }
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		w, closeFn = f, f.Close
	}
	if w != nil {
		render.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	}
	return closeFn, nil
}

// modelOptions adjusts a model after loading.
type modelOptions struct {
	Texture    string         // Image replacing any embedded texture
	MaxTexture int            // Downscale textures larger than this per side; 0 keeps them
	Color      string         // R,G,B[,A] painted over every vertex
	Sampling   config.Texture // Filter and wrap modes for the texture
}

// loadModel loads a glTF or OBJ file or a built-in shape, normalized to
// modelSize.
func loadModel(name string, opt modelOptions) (*models.Mesh, error) {
	var (
		mesh *models.Mesh
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".glb", ".gltf":
		mesh, err = models.LoadGLTF(name)
	case ".obj":
		mesh, err = models.LoadOBJ(name)
	case "":
		mesh, err = models.Builtin(name)
	default:
		return nil, fmt.Errorf("unsupported format: %s (use .glb, .gltf, .obj or a built-in shape)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	mesh.Normalize(modelSize)

	if opt.Color != "" {
		c, err := render.ParseColor(opt.Color)
		if err != nil {
			return nil, fmt.Errorf("model color: %w", err)
		}
		mesh.SetColor(c)
	}

	if opt.Texture != "" {
		if mesh.Texture, err = render.LoadTexture(opt.Texture); err != nil {
			return nil, err
		}
	}
	if tex := mesh.Texture; tex != nil && opt.MaxTexture > 0 && max(tex.Width, tex.Height) > opt.MaxTexture {
		scale := float64(opt.MaxTexture) / float64(max(tex.Width, tex.Height))
		w := max(1, int(float64(tex.Width)*scale))
		h := max(1, int(float64(tex.Height)*scale))
		mesh.Texture = render.ResizeTexture(tex, w, h)
		render.Logger().Debug("texture resized", "from", fmt.Sprintf("%dx%d", tex.Width, tex.Height), "to", fmt.Sprintf("%dx%d", w, h))
	}
	opt.Sampling.Apply(mesh.Texture)
	return mesh, nil
}

func run(modelName string, cfg config.Config) error {
	var fallback io.Writer
	if *outDir != "" {
		fallback = os.Stderr
	}
	closeLog, err := setupLogging(*logPath, *logLevel, fallback)
	if err != nil {
		return err
	}
	defer closeLog()

	mesh, err := loadModel(modelName, modelOptions{
		Texture:    *texturePath,
		MaxTexture: *textureSize,
		Color:      *modelColor,
		Sampling:   cfg.Texture,
	})
	if err != nil {
		return err
	}

	if *outDir != "" {
		return Export(mesh, cfg, *outDir, ExportOptions{
			Frames:    *frameCount,
			Wireframe: *wireframe,
			Axes:      *showAxes,
			Progress:  os.Stderr,
		})
	}

	if !xterm.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal; use -out DIR to render to files")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runTerminal(ctx, mesh, cfg)
}

// runTerminal shows mesh in the terminal until the user quits or ctx ends.
func runTerminal(ctx context.Context, mesh *models.Mesh, cfg config.Config) error {
	term := uv.DefaultTerminal()

	w, h, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(w, h); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}
	// Mouse button tracking in SGR mode, for wheel zoom.
	fmt.Fprint(os.Stdout, "\x1b[?1000h\x1b[?1006h")
	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1006l\x1b[?1000l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	presenter := render.NewTerminalPresenter(term)
	fbWidth, fbHeight := presenter.FramebufferSize()
	opts := append(cfg.Options(), render.WithPresenter(presenter))
	canvas := render.NewCanvas(cfg.Title, fbWidth, fbHeight, opts...)

	// T toggles between this texture and plain vertex colors.
	texture := mesh.Texture
	if texture == nil {
		texture = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
		cfg.Texture.Apply(texture)
	}

	controls := NewControls(mesh.Texture != nil)
	motion := NewMotion(cfg.FPS, mesh.Position)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-term.Events():
				if !ok {
					return
				}
				controls.Handle(ev)
			}
		}
	}()

	targetDuration := time.Second / time.Duration(cfg.FPS)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		in := controls.Take(0.9)
		if in.Quit {
			return nil
		}
		if in.Resized != nil {
			term.Erase()
			if err := term.Resize(in.Resized.Width, in.Resized.Height); err != nil {
				return fmt.Errorf("resize terminal: %w", err)
			}
			canvas.Resize(presenter.FramebufferSize())
		}
		if in.Reset {
			motion.Reset()
		}

		motion.ApplyImpulse(in.Torque[0]*dt, in.Torque[1]*dt, in.Torque[2]*dt)
		motion.Move(in.Move[0], in.Move[1], in.Move[2])
		motion.Update()

		mesh.Rotation = motion.Rotation()
		mesh.Position = motion.Position()
		mesh.Texture = nil
		if in.ShowTexture {
			mesh.Texture = texture
		}

		canvas.Clear()
		canvas.DrawMesh(mesh)
		if in.Wireframe {
			canvas.DrawMeshWireframe(mesh, wireColor)
		}
		if *showAxes {
			canvas.DrawAxes(axesLength)
		}
		if err := canvas.Render(); err != nil {
			return err
		}

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

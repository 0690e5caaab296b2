// onebit - CPU triangle rasterizer with 1-bit dithered output
// Renders OBJ and GLB meshes to PNG/BMP, as a turntable sequence, or live in
// the terminal.
//
// Viewer controls:
//
//	Space  - Pause/resume the spin
//	D      - Toggle dithering
//	E      - Toggle edge rule (non-negative / either-winding)
//	S      - Toggle silhouette overlay
//	Q/Esc  - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/taigrr/onebit/pkg/models"
	"github.com/taigrr/onebit/pkg/render"
	"github.com/taigrr/onebit/pkg/scene"
)

var (
	configPath  = flag.String("config", "", "Scene config file (YAML)")
	outPath     = flag.String("o", "out.png", "Output image (.png or .bmp), or output directory with -frames")
	frames      = flag.Int("frames", 0, "Render a turntable sequence of N frames")
	jobs        = flag.Int("j", runtime.NumCPU(), "Frames rendered in parallel with -frames")
	format      = flag.String("format", "png", "Frame format with -frames (png or bmp)")
	termMode    = flag.Bool("term", false, "Interactive terminal viewer")
	silhouette  = flag.Bool("silhouette", false, "Overlay silhouette lines")
	verbose     = flag.Bool("v", false, "Debug logging")
	printConfig = flag.Bool("print-config", false, "Print the effective scene config and exit")

	width     = flag.Int("width", 0, "Override target width")
	height    = flag.Int("height", 0, "Override target height")
	edgeRule  = flag.String("edge", "", "Override edge rule (non-negative or either-winding)")
	dither    = flag.Bool("dither", true, "Override dithering")
	depthTest = flag.Bool("depth", false, "Override depth test")
	cull      = flag.Bool("cull", false, "Override backface culling")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "onebit - CPU triangle rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: onebit [options] <model.obj|model.glb>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nViewer controls (-term):\n")
		fmt.Fprintf(os.Stderr, "  Space  - Pause/resume\n")
		fmt.Fprintf(os.Stderr, "  D      - Toggle dithering\n")
		fmt.Fprintf(os.Stderr, "  E      - Toggle edge rule\n")
		fmt.Fprintf(os.Stderr, "  S      - Toggle silhouettes\n")
		fmt.Fprintf(os.Stderr, "  Q/Esc  - Quit\n")
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	models.SetLogger(logger)

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if *printConfig {
		return cfg.Encode(os.Stdout)
	}

	if flag.NArg() < 1 {
		flag.Usage()
		return fmt.Errorf("missing model path")
	}
	modelPath := flag.Arg(0)

	mesh, err := models.Load(modelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	slog.Info("loaded model",
		"name", mesh.Name,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount())

	r, err := scene.NewRenderer(cfg, mesh)
	if err != nil {
		return err
	}
	r.Silhouette = *silhouette

	if !r.Visible(scene.NewFrameState(cfg), cfg.Width, cfg.Height) {
		lo, hi := mesh.Bounds()
		slog.Warn("mesh is outside the view volume", "min", lo, "max", hi)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *termMode:
		return runViewer(ctx, r, filepath.Base(modelPath))
	case *frames > 0:
		return renderTurntable(ctx, r, *frames, *jobs, *outPath, "."+*format)
	default:
		return renderSingle(r, *outPath)
	}
}

// loadConfig merges the config file over the defaults, then applies the
// flags that were set explicitly.
func loadConfig() (scene.Config, error) {
	cfg := scene.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = scene.LoadConfig(*configPath)
		if err != nil {
			return scene.Config{}, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "edge":
			cfg.Raster.EdgeRule = *edgeRule
		case "dither":
			cfg.Dither.Enabled = *dither
		case "depth":
			cfg.Raster.DepthTest = *depthTest
		case "cull":
			cfg.Raster.CullBackfaces = *cull
		}
	})

	if err := cfg.Validate(); err != nil {
		return scene.Config{}, err
	}
	return cfg, nil
}

func renderSingle(r *scene.Renderer, path string) error {
	buf := render.NewBuffer(r.Config.Width, r.Config.Height)
	stats := r.Render(scene.NewFrameState(r.Config), buf)
	slog.Debug("rendered frame",
		"triangles", stats.Triangles,
		"skipped", stats.Skipped,
		"culled", stats.Culled,
		"pixels", stats.Pixels)

	if err := buf.Save(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	slog.Info("wrote image", "path", path, "width", buf.Width(), "height", buf.Height())
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/onebit/pkg/render"
	"github.com/taigrr/onebit/pkg/scene"
)

// renderTurntable renders frames 0..n-1 of the spin into dir, at most jobs
// at a time. Each frame gets its own state and buffer, so the output does
// not depend on scheduling.
func renderTurntable(ctx context.Context, r *scene.Renderer, n, jobs int, dir, ext string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	bar := progressbar.Default(int64(n), "rendering")
	defer bar.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))

	for i := range n {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			state := scene.NewFrameState(r.Config)
			state.StepN(i)

			buf := render.NewBuffer(r.Config.Width, r.Config.Height)
			stats := r.Render(state, buf)

			path := filepath.Join(dir, fmt.Sprintf("frame_%04d%s", i, ext))
			if err := buf.Save(path); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			slog.Debug("rendered frame", "frame", i, "pixels", stats.Pixels, "skipped", stats.Skipped)
			return bar.Add(1)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("wrote turntable", "dir", dir, "frames", n)
	return nil
}

package main

import (
	"context"
	"fmt"
	"image"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/onebit/pkg/render"
	"github.com/taigrr/onebit/pkg/scene"
)

// viewerCmd is what the event goroutine hands to the render loop.
type viewerCmd struct {
	kind          viewerCmdKind
	width, height int
}

type viewerCmdKind int

const (
	cmdQuit viewerCmdKind = iota
	cmdResize
	cmdPause
	cmdDither
	cmdEdgeRule
	cmdSilhouette
)

func keyCmd(ev uv.KeyPressEvent) (viewerCmd, bool) {
	switch {
	case ev.MatchString("q", "escape", "ctrl+c"):
		return viewerCmd{kind: cmdQuit}, true
	case ev.MatchString("space"):
		return viewerCmd{kind: cmdPause}, true
	case ev.MatchString("d"):
		return viewerCmd{kind: cmdDither}, true
	case ev.MatchString("e"):
		return viewerCmd{kind: cmdEdgeRule}, true
	case ev.MatchString("s"):
		return viewerCmd{kind: cmdSilhouette}, true
	}
	return viewerCmd{}, false
}

func runViewer(ctx context.Context, r *scene.Renderer, name string) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmds := make(chan viewerCmd, 16)
	go func() {
		for ev := range term.Events() {
			var cmd viewerCmd
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				cmd = viewerCmd{kind: cmdResize, width: ev.Width, height: ev.Height}
			case uv.KeyPressEvent:
				var ok bool
				if cmd, ok = keyCmd(ev); !ok {
					continue
				}
			default:
				continue
			}
			select {
			case cmds <- cmd:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Two pixel rows per terminal row.
	buf := render.NewBuffer(width, height*2)
	state := scene.NewFrameState(r.Config)
	hud := newHUD(name, r.Mesh.TriangleCount())

	ticker := time.NewTicker(time.Second / time.Duration(r.Config.Pose.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil

		case cmd := <-cmds:
			switch cmd.kind {
			case cmdQuit:
				cleanup()
				return nil
			case cmdResize:
				width, height = cmd.width, cmd.height
				term.Erase()
				term.Resize(width, height)
				buf = render.NewBuffer(width, height*2)
			case cmdPause:
				state.SetPaused(!state.Paused())
			case cmdDither:
				r.Config.Dither.Enabled = !r.Config.Dither.Enabled
			case cmdEdgeRule:
				if r.Config.Raster.EdgeRule == render.EdgeRuleEitherWinding.String() {
					r.Config.Raster.EdgeRule = render.EdgeRuleNonNegative.String()
				} else {
					r.Config.Raster.EdgeRule = render.EdgeRuleEitherWinding.String()
				}
			case cmdSilhouette:
				r.Silhouette = !r.Silhouette
			}

		case now := <-ticker.C:
			if buf.Width() == 0 || buf.Height() == 0 {
				continue
			}
			state.Tick(now)
			stats := r.Render(state, buf)
			buf.Draw(term, uv.Rectangle{Max: image.Pt(width, height)})
			if err := term.Display(); err != nil {
				cleanup()
				return fmt.Errorf("display: %w", err)
			}

			hud.UpdateFPS()
			hud.Render(height, r, state, stats)
		}
	}
}

// HUD draws a status line over the top and bottom terminal rows.
type HUD struct {
	filename  string
	triangles int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func newHUD(filename string, triangles int) *HUD {
	return &HUD{
		filename:  filename,
		triangles: triangles,
		fpsTime:   time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render writes the HUD with ANSI positioning after the frame is displayed.
func (h *HUD) Render(height int, r *scene.Renderer, state *scene.FrameState, stats render.Stats) {
	const (
		reset     = "\x1b[0m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	check := func(on bool) string {
		if on {
			return "[x]"
		}
		return "[ ]"
	}

	top := fmt.Sprintf("%s%s %.0f FPS  %s  %d tris  %d px %s",
		bgBlack, fgGreen, h.fps, h.filename, h.triangles, stats.Pixels, reset)
	bottom := fmt.Sprintf("%s%s %s paused  %s dither  %s silhouette  edge: %s %s",
		bgBlack, fgWhite,
		check(state.Paused()),
		check(r.Config.Dither.Enabled),
		check(r.Silhouette),
		r.Config.Raster.EdgeRule, reset)

	fmt.Print(moveTo(1, 1) + clearLine + top)
	fmt.Print(moveTo(max(height, 1), 1) + clearLine + bottom)
}

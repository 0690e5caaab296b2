package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/onebit/pkg/models"
	"github.com/taigrr/onebit/pkg/render"
)

// Renderer draws a mesh as described by a Config. Render builds its
// rasterizer per call, so one Renderer may render independent frames
// concurrently as long as Config is not modified meanwhile.
type Renderer struct {
	Config Config
	Mesh   *models.Mesh

	// Silhouette overlays the mesh's silhouette lines in white after
	// shading and dithering.
	Silhouette bool
}

// NewRenderer validates cfg and the mesh.
func NewRenderer(cfg Config, mesh *models.Mesh) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if mesh == nil {
		return nil, errors.New("nil mesh")
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("mesh %s: %w", mesh.Name, err)
	}
	return &Renderer{Config: cfg, Mesh: mesh}, nil
}

// Render draws one frame into target: clear to the background, rasterize
// the posed mesh with the Lambert shader, then dither if enabled.
func (r *Renderer) Render(state *FrameState, target *render.Buffer) render.Stats {
	cfg := r.Config
	target.Clear(cfg.Background)

	cam := cfg.NewCamera(target.Width(), target.Height())
	world := cfg.World(state.Angle)
	pipe := cam.Pipeline(world)

	stats := cfg.NewRasterizer().Rasterize(r.Mesh, pipe.WorldViewProjection(), target, cfg.Lambert().Func())

	if cfg.Dither.Enabled {
		target.Dither(cfg.DitherOptions())
	}

	if r.Silhouette {
		segs := render.FindSilhouette(r.Mesh, world, cam.Eye)
		render.DrawSegments(target, segs, pipe.ViewProjection(), 1)
	}
	return stats
}

// Visible reports whether any part of the posed mesh's bounding box lies
// inside the camera's view volume for a width x height target.
func (r *Renderer) Visible(state *FrameState, width, height int) bool {
	cam := r.Config.NewCamera(width, height)
	bounds := render.MeshAABB(r.Mesh).Transform(r.Config.World(state.Angle))
	return render.ExtractFrustum(cam.ViewProjection()).IntersectsAABB(bounds)
}

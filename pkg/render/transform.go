package render

import "github.com/taigrr/onebit/pkg/math3d"

// Pipeline holds the three matrices that take model space to clip space.
// Vectors are rows multiplied on the left, so the combined transform is
// World * View * Projection.
type Pipeline struct {
	World      math3d.Mat4
	View       math3d.Mat4
	Projection math3d.Mat4
}

// NewPipeline returns a pipeline with all three matrices set to identity.
func NewPipeline() Pipeline {
	return Pipeline{
		World:      math3d.Identity(),
		View:       math3d.Identity(),
		Projection: math3d.Identity(),
	}
}

// WorldViewProjection returns World * View * Projection.
func (p Pipeline) WorldViewProjection() math3d.Mat4 {
	return p.World.Mul(p.View).Mul(p.Projection)
}

// ViewProjection returns View * Projection.
func (p Pipeline) ViewProjection() math3d.Mat4 {
	return p.View.Mul(p.Projection)
}

// ToClip transforms a homogeneous model-space position to clip space.
func ToClip(pos math3d.Vec4, wvp math3d.Mat4) math3d.Vec4 {
	return pos.Transform(wvp)
}

// ToScreen maps a clip-space position to pixel coordinates on a
// width x height target. The perspective divide is unguarded: w == 0
// produces Inf or NaN, which the rasterizer treats as no coverage.
func ToScreen(clip math3d.Vec4, width, height int) math3d.Vec2 {
	return math3d.V2(
		(clip.X/clip.W+1)*0.5*float64(width),
		(-clip.Y/clip.W+1)*0.5*float64(height),
	)
}

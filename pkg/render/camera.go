package render

import (
	"math"

	"github.com/taigrr/onebit/pkg/math3d"
)

// Camera is a left-handed look-at camera with a perspective projection.
// Matrices are computed on demand and cached until a setter changes them.
type Camera struct {
	Eye    math3d.Vec3
	Target math3d.Vec3
	Up     math3d.Vec3

	FOV    float64 // Vertical field of view in radians
	Aspect float64 // Width / Height
	Near   float64
	Far    float64

	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	viewProjDirty  bool
}

// NewCamera creates a camera at (0,0,-1) looking at the origin with a
// 60 degree field of view.
func NewCamera() *Camera {
	return &Camera{
		Eye:           math3d.V3(0, 0, -1),
		Target:        math3d.Zero3(),
		Up:            math3d.Up(),
		FOV:           math.Pi / 3,
		Aspect:        400.0 / 240.0,
		Near:          0.01,
		Far:           1000,
		viewDirty:     true,
		projDirty:     true,
		viewProjDirty: true,
	}
}

// SetEye moves the camera.
func (c *Camera) SetEye(eye math3d.Vec3) {
	c.Eye = eye
	c.viewDirty = true
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Target = target
	c.viewDirty = true
}

// SetUp sets the up hint used to build the view basis.
func (c *Camera) SetUp(up math3d.Vec3) {
	c.Up = up
	c.viewDirty = true
}

// SetFOV sets the vertical field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.Aspect = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// View returns the view matrix.
func (c *Camera) View() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAtLH(c.Eye, c.Target, c.Up)
		c.viewDirty = false
		c.viewProjDirty = true
	}
	return c.viewMatrix
}

// Projection returns the projection matrix.
func (c *Camera) Projection() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.PerspectiveFovLH(c.FOV, c.Aspect, c.Near, c.Far)
		c.projDirty = false
		c.viewProjDirty = true
	}
	return c.projMatrix
}

// ViewProjection returns View * Projection.
func (c *Camera) ViewProjection() math3d.Mat4 {
	view := c.View()
	proj := c.Projection()
	if c.viewProjDirty {
		c.viewProjMatrix = view.Mul(proj)
		c.viewProjDirty = false
	}
	return c.viewProjMatrix
}

// Pipeline returns a pipeline with the given world matrix and the camera's
// view and projection.
func (c *Camera) Pipeline(world math3d.Mat4) Pipeline {
	return Pipeline{World: world, View: c.View(), Projection: c.Projection()}
}

// WorldToScreen projects a world-space point to pixel coordinates.
// visible is false when the point is behind the eye or outside the view
// volume.
func (c *Camera) WorldToScreen(p math3d.Vec3, width, height int) (screen math3d.Vec2, depth float64, visible bool) {
	clip := ToClip(math3d.V4FromV3(p, 1), c.ViewProjection())
	if clip.W <= 0 {
		return math3d.Vec2{}, 0, false
	}

	ndc := clip.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < 0 || ndc.Z > 1 {
		return math3d.Vec2{}, 0, false
	}

	return ToScreen(clip, width, height), ndc.Z, true
}

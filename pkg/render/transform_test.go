package render

import (
	"math"
	"testing"

	"github.com/taigrr/onebit/pkg/math3d"
)

func TestPipelineOrder(t *testing.T) {
	p := NewPipeline()
	p.World = math3d.Translate(math3d.V3(1, 0, 0))
	p.View = math3d.Scale(math3d.V3(2, 2, 2))

	// World applies first: (0,0,0) -> (1,0,0) -> (2,0,0).
	got := ToClip(math3d.V4(0, 0, 0, 1), p.WorldViewProjection())
	if got != math3d.V4(2, 0, 0, 1) {
		t.Errorf("ToClip = %v, want (2,0,0,1)", got)
	}
	if p.ViewProjection() != p.View {
		t.Error("ViewProjection with identity projection should equal View")
	}
}

func TestToScreen(t *testing.T) {
	tests := []struct {
		name string
		clip math3d.Vec4
		want math3d.Vec2
	}{
		{"center", math3d.V4(0, 0, 0.5, 1), math3d.V2(200, 120)},
		{"top left", math3d.V4(-1, 1, 0, 1), math3d.V2(0, 0)},
		{"bottom right", math3d.V4(1, -1, 0, 1), math3d.V2(400, 240)},
		{"divides by w", math3d.V4(2, 2, 0, 2), math3d.V2(400, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ToScreen(tc.clip, 400, 240); got != tc.want {
				t.Errorf("ToScreen(%v) = %v, want %v", tc.clip, got, tc.want)
			}
		})
	}
}

func TestToScreenZeroW(t *testing.T) {
	got := ToScreen(math3d.V4(0, 0, 0, 0), 400, 240)
	if !math.IsNaN(got.X) || !math.IsNaN(got.Y) {
		t.Errorf("ToScreen with w=0 and x=0 = %v, want NaN", got)
	}
}

func TestCameraCachesMatrices(t *testing.T) {
	c := NewCamera()
	wantView := math3d.LookAtLH(c.Eye, c.Target, c.Up)
	wantProj := math3d.PerspectiveFovLH(c.FOV, c.Aspect, c.Near, c.Far)

	if c.View() != wantView {
		t.Error("View does not match LookAtLH")
	}
	if c.Projection() != wantProj {
		t.Error("Projection does not match PerspectiveFovLH")
	}
	if c.ViewProjection() != wantView.Mul(wantProj) {
		t.Error("ViewProjection should be View * Projection")
	}

	c.SetEye(math3d.V3(0, 0, -5))
	if c.View() == wantView {
		t.Error("View not recomputed after SetEye")
	}
	if c.ViewProjection() != c.View().Mul(c.Projection()) {
		t.Error("ViewProjection stale after SetEye")
	}

	c.SetFOV(math.Pi / 2)
	if c.Projection() == wantProj {
		t.Error("Projection not recomputed after SetFOV")
	}
}

func TestCameraWorldToScreen(t *testing.T) {
	c := NewCamera()
	c.SetEye(math3d.V3(0, 0, -5))
	c.SetAspectRatio(400.0 / 240.0)

	p, depth, ok := c.WorldToScreen(math3d.Zero3(), 400, 240)
	if !ok {
		t.Fatal("target should be visible")
	}
	if math.Abs(p.X-200) > 1e-9 || math.Abs(p.Y-120) > 1e-9 {
		t.Errorf("target projects to %v, want (200,120)", p)
	}
	if depth <= 0 || depth >= 1 {
		t.Errorf("depth = %v, want in (0,1)", depth)
	}

	// Up in world space is up on screen.
	above, _, _ := c.WorldToScreen(math3d.V3(0, 1, 0), 400, 240)
	if above.Y >= 120 {
		t.Errorf("point above target at y=%v, want < 120", above.Y)
	}

	if _, _, ok := c.WorldToScreen(math3d.V3(0, 0, -10), 400, 240); ok {
		t.Error("point behind the eye should not be visible")
	}
}

func TestCameraPipeline(t *testing.T) {
	c := NewCamera()
	world := math3d.RotateY(math.Pi / 2)
	p := c.Pipeline(world)
	if p.World != world || p.View != c.View() || p.Projection != c.Projection() {
		t.Error("Pipeline should carry world, view and projection")
	}
}

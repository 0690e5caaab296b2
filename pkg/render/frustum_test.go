package render

import (
	"math"
	"testing"

	"github.com/taigrr/onebit/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	// Plane at Z=0, normal pointing +Z
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	if length := plane.Normal.Len(); math.Abs(length-1.0) > 1e-9 {
		t.Errorf("normalized normal length = %v, want 1.0", length)
	}
	if math.Abs(plane.Normal.Y-0.6) > 1e-9 || math.Abs(plane.Normal.Z-0.8) > 1e-9 {
		t.Errorf("normal = %v, want (0, 0.6, 0.8)", plane.Normal)
	}
	if math.Abs(plane.D-2.0) > 1e-9 {
		t.Errorf("D = %v, want 2.0", plane.D)
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	t.Run("translation", func(t *testing.T) {
		got := box.Transform(math3d.Translate(math3d.V3(10, 20, 30)))
		if got.Min != math3d.V3(9, 19, 29) || got.Max != math3d.V3(11, 21, 31) {
			t.Errorf("translated = %v", got)
		}
	})

	t.Run("scale", func(t *testing.T) {
		got := box.Transform(math3d.Scale(math3d.V3(2, 3, 4)))
		if got.Min != math3d.V3(-2, -3, -4) || got.Max != math3d.V3(2, 3, 4) {
			t.Errorf("scaled = %v", got)
		}
	})

	if c := box.Center(); c != math3d.Zero3() {
		t.Errorf("center = %v", c)
	}
	if s := box.Size(); s != math3d.V3(2, 2, 2) {
		t.Errorf("size = %v", s)
	}
}

func testFrustum() Frustum {
	view := math3d.LookAtLH(math3d.Zero3(), math3d.V3(0, 0, 1), math3d.Up())
	proj := math3d.PerspectiveFovLH(math.Pi/3, 16.0/9.0, 1, 100)
	return ExtractFrustum(view.Mul(proj))
}

func TestExtractFrustumNormalized(t *testing.T) {
	for i, plane := range testFrustum().Planes {
		if length := plane.Normal.Len(); math.Abs(length-1.0) > 1e-9 {
			t.Errorf("plane %d normal length = %v, want 1.0", i, length)
		}
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	frustum := testFrustum()

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center near", math3d.V3(0, 0, 2), true},
		{"center mid", math3d.V3(0, 0, 50), true},
		{"center far", math3d.V3(0, 0, 99), true},
		{"behind camera", math3d.V3(0, 0, -1), false},
		{"too far", math3d.V3(0, 0, 200), false},
		{"too close", math3d.V3(0, 0, 0.5), false},
		{"off to the right", math3d.V3(50, 0, 10), false},
		{"above", math3d.V3(0, 50, 10), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestFrustumIntersectsAABB(t *testing.T) {
	frustum := testFrustum()

	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{"fully inside", NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10)), true},
		{"crosses near plane", NewAABB(math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2)), true},
		{"behind camera", NewAABB(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5)), false},
		{"beyond far plane", NewAABB(math3d.V3(-1, -1, 120), math3d.V3(1, 1, 150)), false},
		{"far to the right", NewAABB(math3d.V3(100, -1, 5), math3d.V3(110, 1, 10)), false},
		{"contains frustum", NewAABB(math3d.V3(-200, -200, -200), math3d.V3(200, 200, 200)), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.IntersectsAABB(tc.box); got != tc.expected {
				t.Errorf("IntersectsAABB(%v) = %v, want %v", tc.box, got, tc.expected)
			}
		})
	}
}

func TestFrustumFollowsLookAt(t *testing.T) {
	// Camera at origin looking along +X.
	view := math3d.LookAtLH(math3d.Zero3(), math3d.V3(10, 0, 0), math3d.Up())
	proj := math3d.PerspectiveFovLH(math.Pi/3, 1, 1, 100)
	frustum := ExtractFrustum(view.Mul(proj))

	if !frustum.ContainsPoint(math3d.V3(10, 0, 0)) {
		t.Error("point in front of camera should be visible")
	}
	if frustum.ContainsPoint(math3d.V3(-10, 0, 0)) {
		t.Error("point behind camera should not be visible")
	}
}

func BenchmarkFrustumIntersectsAABB(b *testing.B) {
	frustum := testFrustum()
	box := NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10))

	for b.Loop() {
		_ = frustum.IntersectsAABB(box)
	}
}

func BenchmarkExtractFrustum(b *testing.B) {
	view := math3d.LookAtLH(math3d.V3(0, 10, -20), math3d.Zero3(), math3d.Up())
	viewProj := view.Mul(math3d.PerspectiveFovLH(math.Pi/3, 16.0/9.0, 0.1, 1000))

	for b.Loop() {
		_ = ExtractFrustum(viewProj)
	}
}

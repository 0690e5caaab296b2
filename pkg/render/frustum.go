package render

import (
	"github.com/taigrr/onebit/pkg/math3d"
	"github.com/taigrr/onebit/pkg/models"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum represents the 6 planes of a view frustum.
// Planes are ordered: Left, Right, Bottom, Top, Near, Far.
// Each plane's normal points inward (toward the center of the frustum).
type Frustum struct {
	Planes [6]Plane
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// ExtractFrustum extracts the view volume planes from a row-vector
// (view-)projection matrix whose clip depth runs over [0, w].
//
// With clip = v * M each clip component is the dot product of v with a
// column of M, so the Gribb/Hartmann planes are sums and differences of
// columns: -w <= x <= w, -w <= y <= w, 0 <= z <= w.
func ExtractFrustum(m math3d.Mat4) Frustum {
	c0, c1, c2, c3 := m.Column(0), m.Column(1), m.Column(2), m.Column(3)

	plane := func(a math3d.Vec4) Plane {
		p := Plane{Normal: a.Vec3(), D: a.W}
		p.Normalize()
		return p
	}
	add := func(a, b math3d.Vec4) math3d.Vec4 {
		return math3d.V4(a.X+b.X, a.Y+b.Y, a.Z+b.Z, a.W+b.W)
	}
	sub := func(a, b math3d.Vec4) math3d.Vec4 {
		return math3d.V4(a.X-b.X, a.Y-b.Y, a.Z-b.Z, a.W-b.W)
	}

	var f Frustum
	f.Planes[FrustumLeft] = plane(add(c3, c0))
	f.Planes[FrustumRight] = plane(sub(c3, c0))
	f.Planes[FrustumBottom] = plane(add(c3, c1))
	f.Planes[FrustumTop] = plane(sub(c3, c1))
	f.Planes[FrustumNear] = plane(c2)
	f.Planes[FrustumFar] = plane(sub(c3, c2))
	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(lo, hi math3d.Vec3) AABB {
	return AABB{Min: lo, Max: hi}
}

// MeshAABB returns the model-space bounds of mesh.
func MeshAABB(mesh *models.Mesh) AABB {
	return NewAABB(mesh.Bounds())
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Transform returns an AABB that bounds the original AABB after transformation.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}

	p := corners[0].TransformPoint(m)
	lo, hi := p, p
	for _, c := range corners[1:] {
		p = c.TransformPoint(m)
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return AABB{Min: lo, Max: hi}
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectsAABB reports whether any part of box may be inside the frustum.
// For each plane only the corner furthest along the plane normal is tested.
func (f Frustum) IntersectsAABB(box AABB) bool {
	for _, plane := range f.Planes {
		p := math3d.V3(
			pick(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			pick(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			pick(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

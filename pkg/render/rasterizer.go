package render

import (
	"math"

	"github.com/taigrr/onebit/pkg/math3d"
	"github.com/taigrr/onebit/pkg/models"
)

// EdgeRule selects which edge-function signs count as covered.
type EdgeRule int

const (
	// EdgeRuleNonNegative covers a point when all three edge functions are
	// >= 0. Only one screen-space winding fills.
	EdgeRuleNonNegative EdgeRule = iota
	// EdgeRuleEitherWinding covers a point when all three edge functions
	// share a sign, so both windings fill.
	EdgeRuleEitherWinding
)

func (r EdgeRule) String() string {
	switch r {
	case EdgeRuleNonNegative:
		return "non-negative"
	case EdgeRuleEitherWinding:
		return "either-winding"
	default:
		return "unknown"
	}
}

func (r EdgeRule) covers(w0, w1, w2 float64) bool {
	if w0 >= 0 && w1 >= 0 && w2 >= 0 {
		return true
	}
	return r == EdgeRuleEitherWinding && w0 <= 0 && w1 <= 0 && w2 <= 0
}

// Stats counts what a Rasterize call did.
type Stats struct {
	Triangles int // Triangles submitted
	Skipped   int // Triangles whose clipped box was empty
	Culled    int // Triangles rejected as back-facing
	Pixels    int // Pixel writes
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Triangles += o.Triangles
	s.Skipped += o.Skipped
	s.Culled += o.Culled
	s.Pixels += o.Pixels
}

// ScreenTriangle is a triangle in pixel space plus its flat-shading input.
type ScreenTriangle struct {
	P      [3]math3d.Vec2
	Depth  [3]float64 // z/w per vertex, used only by the depth test
	Normal math3d.Vec3
}

// Area returns twice the signed screen-space area, measured with the same
// edge function as coverage. It is positive for triangles that
// EdgeRuleNonNegative fills.
func (t ScreenTriangle) Area() float64 {
	return edgeFunction(t.P[0], t.P[1], t.P[2])
}

// Rasterizer fills mesh triangles into a Target in index order. Later
// triangles overwrite earlier ones unless DepthTest is set.
//
// The zero value matches the reference output: non-negative edge rule, no
// depth test, no culling, no clipping.
type Rasterizer struct {
	EdgeRule      EdgeRule
	DepthTest     bool
	CullBackfaces bool

	depth []float64
}

// NewRasterizer creates a rasterizer with default options.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

// edgeFunction is positive on one side of the directed line a->b, negative
// on the other and zero on it.
func edgeFunction(a, b, p math3d.Vec2) float64 {
	return (p.X-a.X)*(b.Y-a.Y) - (p.Y-a.Y)*(b.X-a.X)
}

// Project transforms triangle i of mesh to screen space.
func Project(mesh *models.Mesh, i int, wvp math3d.Mat4, width, height int) ScreenTriangle {
	idx := mesh.Triangle(i)
	var tri ScreenTriangle
	for k, vi := range idx {
		clip := ToClip(mesh.Vertices[vi].Position, wvp)
		tri.P[k] = ToScreen(clip, width, height)
		tri.Depth[k] = clip.Z / clip.W
	}
	tri.Normal = mesh.Vertices[idx[0]].Normal
	return tri
}

// Rasterize draws every triangle of mesh transformed by wvp into target,
// shading covered pixels with shade.
func (r *Rasterizer) Rasterize(mesh *models.Mesh, wvp math3d.Mat4, target Target, shade ShadeFunc) Stats {
	var stats Stats
	width, height := target.Width(), target.Height()

	if r.DepthTest {
		r.resetDepth(width * height)
	}

	for i := 0; i < mesh.TriangleCount(); i++ {
		tri := Project(mesh, i, wvp, width, height)
		stats.Add(r.DrawTriangle(tri, target, shade))
	}
	return stats
}

// DrawTriangle fills a single screen-space triangle. Points are sampled at
// integer pixel coordinates over [floor(min), floor(max)) of the triangle's
// bounding box clipped to the target.
func (r *Rasterizer) DrawTriangle(tri ScreenTriangle, target Target, shade ShadeFunc) Stats {
	stats := Stats{Triangles: 1}
	width, height := target.Width(), target.Height()

	if r.CullBackfaces && tri.Area() < 0 {
		stats.Culled++
		return stats
	}

	lo := tri.P[0].Min(tri.P[1]).Min(tri.P[2])
	hi := tri.P[0].Max(tri.P[1]).Max(tri.P[2])
	lo = lo.Max(math3d.V2(0, 0))
	hi = hi.Min(math3d.V2(float64(width), float64(height)))

	if !lo.AllLess(hi) {
		stats.Skipped++
		return stats
	}

	depth := r.DepthTest && len(r.depth) == width*height
	area := tri.Area()

	lo, hi = lo.Floor(), hi.Floor()
	x0, y0 := int(lo.X), int(lo.Y)
	x1, y1 := int(hi.X), int(hi.Y)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := math3d.V2(float64(x), float64(y))
			w0 := edgeFunction(tri.P[1], tri.P[2], p)
			w1 := edgeFunction(tri.P[2], tri.P[0], p)
			w2 := edgeFunction(tri.P[0], tri.P[1], p)

			if !r.EdgeRule.covers(w0, w1, w2) {
				continue
			}

			if depth && area != 0 {
				z := (w0*tri.Depth[0] + w1*tri.Depth[1] + w2*tri.Depth[2]) / area
				i := y*width + x
				if !(z < r.depth[i]) {
					continue
				}
				r.depth[i] = z
			}

			target.Set(x, y, shade(tri.Normal, p))
			stats.Pixels++
		}
	}
	return stats
}

func (r *Rasterizer) resetDepth(n int) {
	if cap(r.depth) < n {
		r.depth = make([]float64, n)
	}
	r.depth = r.depth[:n]
	for i := range r.depth {
		r.depth[i] = math.Inf(1)
	}
}

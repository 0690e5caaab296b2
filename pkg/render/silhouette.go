package render

import (
	"math"

	"github.com/taigrr/onebit/pkg/math3d"
	"github.com/taigrr/onebit/pkg/models"
)

// Segment is a world-space line segment.
type Segment struct {
	A, B math3d.Vec3
}

// FindSilhouette returns the silhouette segments of mesh posed by world as
// seen from eye.
//
// For every vertex of a triangle the sign of N.V is taken, where N is the
// world-space vertex normal and V the unit vector from eye to the vertex.
// Each edge whose endpoint signs differ contributes a crossing point
// weighted by the magnitudes of N.V, so the point lies where N.V would be
// zero. A triangle with exactly two crossings yields one segment.
func FindSilhouette(mesh *models.Mesh, world math3d.Mat4, eye math3d.Vec3) []Segment {
	var segs []Segment

	for i := 0; i < mesh.TriangleCount(); i++ {
		idx := mesh.Triangle(i)

		var pos [3]math3d.Vec3
		var d [3]float64
		for k, vi := range idx {
			v := mesh.Vertices[vi]
			pos[k] = v.Position.Transform(world).Vec3()
			normal := v.Normal.TransformDir(world)
			d[k] = normal.Dot(pos[k].Sub(eye).Normalize())
		}

		var points [3]math3d.Vec3
		n := 0
		for k := range 3 {
			j := (k + 1) % 3
			if (d[k] >= 0) != (d[j] >= 0) {
				points[n] = crossing(math.Abs(d[k]), math.Abs(d[j]), pos[k], pos[j])
				n++
			}
		}

		if n == 2 {
			segs = append(segs, Segment{A: points[0], B: points[1]})
		}
	}
	return segs
}

// crossing interpolates between xi and xj by the weights di and dj, landing
// closer to the endpoint with the smaller weight.
func crossing(di, dj float64, xi, xj math3d.Vec3) math3d.Vec3 {
	sum := di + dj
	return xi.Scale(dj / sum).Add(xj.Scale(di / sum))
}

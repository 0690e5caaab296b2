package render

import (
	"math"

	"github.com/taigrr/onebit/pkg/math3d"
)

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm. Both endpoints are drawn; pixels outside target are dropped.
func DrawLine(target Target, x0, y0, x1, y1 int, v float64) int {
	width, height := target.Width(), target.Height()
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	drawn := 0
	for {
		if x0 >= 0 && x0 < width && y0 >= 0 && y0 < height {
			target.Set(x0, y0, v)
			drawn++
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
	return drawn
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// DrawSegments projects world-space segments with viewProj and draws them
// into target with value v. Segments with an endpoint behind the eye or
// with non-finite or far off-screen coordinates are skipped. It returns the number of
// pixels written.
func DrawSegments(target Target, segs []Segment, viewProj math3d.Mat4, v float64) int {
	width, height := target.Width(), target.Height()

	drawn := 0
	for _, s := range segs {
		a := ToClip(math3d.V4FromV3(s.A, 1), viewProj)
		b := ToClip(math3d.V4FromV3(s.B, 1), viewProj)
		if a.W <= 0 || b.W <= 0 {
			continue
		}

		pa := ToScreen(a, width, height)
		pb := ToScreen(b, width, height)
		if !drawable(pa) || !drawable(pb) || outside(pa, pb, width, height) {
			continue
		}

		drawn += DrawLine(target,
			int(math.Floor(pa.X)), int(math.Floor(pa.Y)),
			int(math.Floor(pb.X)), int(math.Floor(pb.Y)), v)
	}
	return drawn
}

// maxLineCoord bounds the screen coordinates DrawSegments will walk.
const maxLineCoord = 1 << 16

func drawable(p math3d.Vec2) bool {
	return math.Abs(p.X) < maxLineCoord && math.Abs(p.Y) < maxLineCoord
}

// outside reports whether the segment's bounding box misses the target.
func outside(a, b math3d.Vec2, width, height int) bool {
	lo, hi := a.Min(b), a.Max(b)
	return hi.X < 0 || hi.Y < 0 || lo.X >= float64(width) || lo.Y >= float64(height)
}

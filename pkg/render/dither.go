package render

import "math"

// LeftEdge selects how the down-left diffusion term is handled at x == 0.
type LeftEdge int

const (
	// LeftEdgeWrap writes the down-left term whenever the next row exists.
	// At x == 0 the flat index (y+1)*width-1 is the last pixel of the
	// current row, which is still ahead in the scan, so the term feeds
	// into its quantization.
	LeftEdgeWrap LeftEdge = iota
	// LeftEdgeClip drops the down-left term at x == 0.
	LeftEdgeClip
)

func (e LeftEdge) String() string {
	switch e {
	case LeftEdgeWrap:
		return "wrap"
	case LeftEdgeClip:
		return "clip"
	default:
		return "unknown"
	}
}

// DitherOptions configures Dither. The zero value is 1-bit output with the
// wrapping left edge.
type DitherOptions struct {
	// Levels is the number of output levels evenly spaced in [0, 1].
	// Values below 2 mean 2.
	Levels   int
	LeftEdge LeftEdge
}

// Floyd-Steinberg weights for (x+1,y), (x-1,y+1), (x,y+1), (x+1,y+1).
const (
	weightRight     = 7.0 / 16
	weightDownLeft  = 3.0 / 16
	weightDown      = 5.0 / 16
	weightDownRight = 1.0 / 16
)

// Dither quantizes a row-major width x height buffer in place with
// Floyd-Steinberg error diffusion, scanning left to right, top to bottom.
// buf must hold at least width*height values.
func Dither(buf []float64, width, height int, opts DitherOptions) {
	levels := opts.Levels
	if levels < 2 {
		levels = 2
	}
	steps := float64(levels - 1)

	for y := 0; y < height; y++ {
		row := y * width
		next := row + width
		hasNext := y+1 < height

		for x := 0; x < width; x++ {
			i := row + x
			old := buf[i]
			q := quantize(old, steps)
			buf[i] = q
			e := old - q

			if x+1 < width {
				buf[i+1] += e * weightRight
			}
			if !hasNext {
				continue
			}
			if x > 0 || opts.LeftEdge == LeftEdgeWrap {
				buf[next+x-1] += e * weightDownLeft
			}
			buf[next+x] += e * weightDown
			if x+1 < width {
				buf[next+x+1] += e * weightDownRight
			}
		}
	}
}

// quantize rounds v to the nearest of steps+1 levels in [0, 1]. With one
// step this is v < 0.5 ? 0 : 1.
func quantize(v, steps float64) float64 {
	if steps == 1 {
		if v < 0.5 {
			return 0
		}
		return 1
	}
	q := math.Floor(v*steps+0.5) / steps
	if q < 0 {
		return 0
	}
	if q > 1 {
		return 1
	}
	return q
}

package math3d

import "math"

// Mat4 is a 4x4 matrix stored in row-major order and applied to row vectors
// (v' = v * M), matching the left-handed Direct3D convention.
//
// Memory layout (indices) and element names:
// | 0  1  2  3  |   | M11 M12 M13 M14 |
// | 4  5  6  7  |   | M21 M22 M23 M24 |
// | 8  9  10 11 |   | M31 M32 M33 M34 |
// | 12 13 14 15 |   | M41 M42 M43 M44 |
//
// The translation lives in the bottom row (M41..M43). Transforms compose
// left to right: world.Mul(view).Mul(projection) applies world first.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// RotateX creates a left-handed rotation around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a left-handed rotation around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a left-handed rotation around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// LookAtLH creates a left-handed view matrix looking from eye towards target.
//
// The basis is z = normalize(target-eye), x = normalize(up × z), y = z × x.
// The axes are normalized without a zero-length guard: eye == target, or up
// parallel to the view direction, yields NaN entries that propagate into
// every transformed point.
func LookAtLH(eye, target, up Vec3) Mat4 {
	z := target.Sub(eye)
	z = z.Scale(1 / z.Len())
	x := up.Cross(z)
	x = x.Scale(1 / x.Len())
	y := z.Cross(x)

	return Mat4{
		x.X, y.X, z.X, 0,
		x.Y, y.Y, z.Y, 0,
		x.Z, y.Z, z.Z, 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// PerspectiveFovLH creates a left-handed perspective projection.
// fovY is the vertical field of view in radians, aspect is width/height.
// Depth maps to [0, 1] after the divide. fovY a multiple of π or
// zNear == zFar produce Inf/NaN entries.
func PerspectiveFovLH(fovY, aspect, zNear, zFar float64) Mat4 {
	yScale := 1.0 / math.Tan(fovY*0.5)
	xScale := yScale / aspect
	q := zFar / (zFar - zNear)

	return Mat4{
		xScale, 0, 0, 0,
		0, yScale, 0, 0,
		0, 0, q, 1,
		0, 0, -q * zNear, 0,
	}
}

// PerspectiveOffCenterLH creates a left-handed perspective projection for an
// asymmetric view volume given its extents on the near plane.
func PerspectiveOffCenterLH(left, right, bottom, top, zNear, zFar float64) Mat4 {
	zRange := zFar / (zFar - zNear)

	return Mat4{
		2 * zNear / (right - left), 0, 0, 0,
		0, 2 * zNear / (top - bottom), 0, 0,
		(left + right) / (left - right), (top + bottom) / (bottom - top), zRange, 1,
		0, 0, -zNear * zRange, 0,
	}
}

// OrthographicLH creates a left-handed orthographic projection of a view
// volume width by height centered on the view axis.
func OrthographicLH(width, height, zNear, zFar float64) Mat4 {
	fn := 1.0 / (zFar - zNear)

	return Mat4{
		2 / width, 0, 0, 0,
		0, 2 / height, 0, 0,
		0, 0, fn, 0,
		0, 0, -zNear * fn, 1,
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for row := range 4 {
		for col := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row*4+k] * b[k*4+col]
			}
			m[row*4+col] = sum
		}
	}
	return m
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// At returns the element at (row, col), zero based.
func (m Mat4) At(row, col int) float64 {
	return m[row*4+col]
}

// Column returns column col as a Vec4.
func (m Mat4) Column(col int) Vec4 {
	return Vec4{m[col], m[4+col], m[8+col], m[12+col]}
}

package render

import "github.com/taigrr/onebit/pkg/math3d"

// ShadeFunc returns the value written for a covered pixel. normal is the
// triangle's representative normal and p the sampled pixel.
type ShadeFunc func(normal math3d.Vec3, p math3d.Vec2) float64

// Lambert is a flat diffuse shader: clamp(dot(LightDir, normal), Ambient, Ceiling).
// LightDir is used as given and normals are not renormalized.
type Lambert struct {
	LightDir math3d.Vec3
	Ambient  float64
	Ceiling  float64
}

// DefaultLambert returns the shader with light along normalize(-1,-1,-1),
// ambient floor 0.2 and ceiling 1.0.
func DefaultLambert() Lambert {
	return Lambert{
		LightDir: math3d.V3(-1, -1, -1).Normalize(),
		Ambient:  0.2,
		Ceiling:  1.0,
	}
}

// Shade returns the clamped diffuse term for normal.
func (l Lambert) Shade(normal math3d.Vec3) float64 {
	return math3d.Clamp(l.LightDir.Dot(normal), l.Ambient, l.Ceiling)
}

// Func adapts the shader to a ShadeFunc.
func (l Lambert) Func() ShadeFunc {
	return func(normal math3d.Vec3, _ math3d.Vec2) float64 {
		return l.Shade(normal)
	}
}

// Constant returns a ShadeFunc that always writes v.
func Constant(v float64) ShadeFunc {
	return func(math3d.Vec3, math3d.Vec2) float64 {
		return v
	}
}

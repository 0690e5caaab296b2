// Package scene describes what gets rendered: the YAML scene configuration,
// the animation state that advances between frames and the renderer that
// runs one complete frame.
package scene

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/onebit/pkg/math3d"
	"github.com/taigrr/onebit/pkg/render"
)

// ErrInvalidConfig is wrapped by every error Validate returns.
var ErrInvalidConfig = errors.New("invalid scene config")

// Config is a complete scene description. Angles are in degrees.
type Config struct {
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	Background float64      `yaml:"background"`
	Camera     CameraConfig `yaml:"camera"`
	Pose       PoseConfig   `yaml:"pose"`
	Light      LightConfig  `yaml:"light"`
	Raster     RasterConfig `yaml:"raster"`
	Dither     DitherConfig `yaml:"dither"`
}

// CameraConfig places the look-at camera.
type CameraConfig struct {
	Eye    [3]float64 `yaml:"eye"`
	Target [3]float64 `yaml:"target"`
	Up     [3]float64 `yaml:"up"`
	FOV    float64    `yaml:"fov"`
	Near   float64    `yaml:"near"`
	Far    float64    `yaml:"far"`
}

// PoseConfig positions the mesh. The world matrix is
// RotateY(angle) * Translate(Translate), so the mesh spins about its own
// origin before it is moved into place.
type PoseConfig struct {
	Translate [3]float64 `yaml:"translate"`
	RotateY   float64    `yaml:"rotateY"` // Starting angle
	Spin      float64    `yaml:"spin"`    // Degrees per frame
	FPS       int        `yaml:"fps"`
}

// LightConfig parameterizes the Lambert shader.
type LightConfig struct {
	Direction [3]float64 `yaml:"direction"`
	Ambient   float64    `yaml:"ambient"`
	Ceiling   float64    `yaml:"ceiling"`
}

// RasterConfig selects rasterizer options.
type RasterConfig struct {
	EdgeRule      string `yaml:"edgeRule"` // "non-negative" or "either-winding"
	DepthTest     bool   `yaml:"depthTest"`
	CullBackfaces bool   `yaml:"cullBackfaces"`
}

// DitherConfig controls the quantization pass.
type DitherConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Levels   int    `yaml:"levels"`
	LeftEdge string `yaml:"leftEdge"` // "wrap" or "clip"
}

// DefaultConfig returns the reference scene: a 400x240 target, the camera
// at (0,0,-1) looking at the origin with a 60 degree field of view, the
// mesh pushed to (-2,1,5) and turned 90 degrees, spinning one degree per
// frame at 60 fps, 1-bit dithering on.
func DefaultConfig() Config {
	return Config{
		Width:  400,
		Height: 240,
		Camera: CameraConfig{
			Eye:  [3]float64{0, 0, -1},
			Up:   [3]float64{0, 1, 0},
			FOV:  60,
			Near: 0.01,
			Far:  1000,
		},
		Pose: PoseConfig{
			Translate: [3]float64{-2, 1, 5},
			RotateY:   90,
			Spin:      1,
			FPS:       60,
		},
		Light: LightConfig{
			Direction: [3]float64{-1, -1, -1},
			Ambient:   0.2,
			Ceiling:   1.0,
		},
		Raster: RasterConfig{
			EdgeRule: render.EdgeRuleNonNegative.String(),
		},
		Dither: DitherConfig{
			Enabled:  true,
			Levels:   2,
			LeftEdge: render.LeftEdgeWrap.String(),
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over DefaultConfig. Keys absent from data keep
// their defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes the configuration as YAML.
func (c Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Validate reports the first problem with the configuration.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Camera.Near == c.Camera.Far {
		return fmt.Errorf("%w: near and far planes are both %v", ErrInvalidConfig, c.Camera.Near)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("%w: fov %v must be in (0, 180)", ErrInvalidConfig, c.Camera.FOV)
	}
	if c.Pose.FPS <= 0 {
		return fmt.Errorf("%w: fps %d must be positive", ErrInvalidConfig, c.Pose.FPS)
	}
	if c.Dither.Levels < 2 {
		return fmt.Errorf("%w: dither levels %d must be at least 2", ErrInvalidConfig, c.Dither.Levels)
	}
	if _, err := ParseEdgeRule(c.Raster.EdgeRule); err != nil {
		return err
	}
	if _, err := ParseLeftEdge(c.Dither.LeftEdge); err != nil {
		return err
	}
	return nil
}

// ParseEdgeRule maps a config name to a rasterizer edge rule. The empty
// string selects the default.
func ParseEdgeRule(s string) (render.EdgeRule, error) {
	switch s {
	case "", render.EdgeRuleNonNegative.String():
		return render.EdgeRuleNonNegative, nil
	case render.EdgeRuleEitherWinding.String():
		return render.EdgeRuleEitherWinding, nil
	default:
		return 0, fmt.Errorf("%w: unknown edge rule %q", ErrInvalidConfig, s)
	}
}

// ParseLeftEdge maps a config name to a dithering left edge mode. The empty
// string selects the default.
func ParseLeftEdge(s string) (render.LeftEdge, error) {
	switch s {
	case "", render.LeftEdgeWrap.String():
		return render.LeftEdgeWrap, nil
	case render.LeftEdgeClip.String():
		return render.LeftEdgeClip, nil
	default:
		return 0, fmt.Errorf("%w: unknown left edge mode %q", ErrInvalidConfig, s)
	}
}

func vec3(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// NewCamera builds the configured camera for a width x height target.
func (c Config) NewCamera(width, height int) *render.Camera {
	cam := render.NewCamera()
	cam.SetEye(vec3(c.Camera.Eye))
	cam.LookAt(vec3(c.Camera.Target))
	cam.SetUp(vec3(c.Camera.Up))
	cam.SetFOV(radians(c.Camera.FOV))
	cam.SetAspectRatio(float64(width) / float64(height))
	cam.SetClipPlanes(c.Camera.Near, c.Camera.Far)
	return cam
}

// World returns the world matrix for the mesh turned by angle radians.
func (c Config) World(angle float64) math3d.Mat4 {
	return math3d.RotateY(angle).Mul(math3d.Translate(vec3(c.Pose.Translate)))
}

// Lambert returns the configured shader with its light direction normalized.
func (c Config) Lambert() render.Lambert {
	return render.Lambert{
		LightDir: vec3(c.Light.Direction).Normalize(),
		Ambient:  c.Light.Ambient,
		Ceiling:  c.Light.Ceiling,
	}
}

// NewRasterizer returns a rasterizer with the configured options. Invalid
// names fall back to the defaults; Validate reports them.
func (c Config) NewRasterizer() *render.Rasterizer {
	rule, _ := ParseEdgeRule(c.Raster.EdgeRule)
	return &render.Rasterizer{
		EdgeRule:      rule,
		DepthTest:     c.Raster.DepthTest,
		CullBackfaces: c.Raster.CullBackfaces,
	}
}

// DitherOptions returns the configured dithering options.
func (c Config) DitherOptions() render.DitherOptions {
	edge, _ := ParseLeftEdge(c.Dither.LeftEdge)
	return render.DitherOptions{Levels: c.Dither.Levels, LeftEdge: edge}
}

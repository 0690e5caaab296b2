package scene

import (
	"time"

	"github.com/charmbracelet/harmonica"
)

// Spring parameters for easing the spin speed. Damping 1.0 is critically
// damped, so the speed settles without overshoot.
const (
	spinFrequency = 4.0
	spinDamping   = 1.0
)

// FrameState is the animation state carried from one frame to the next.
// It is owned by the frame driver and passed to Renderer.Render.
type FrameState struct {
	Angle    float64   // Current Y rotation in radians
	LastTime time.Time // Time of the last Tick; zero before the first
	Frame    int       // Frames advanced so far

	speed    float64 // Current spin speed in radians per second
	speedVel float64
	target   float64
	paused   bool
	spring   harmonica.Spring
	perFrame float64 // Spin per reference frame in radians
	fps      int
}

// NewFrameState starts at the configured angle, eased up from rest toward
// the configured spin.
func NewFrameState(cfg Config) *FrameState {
	s := &FrameState{
		Angle:    radians(cfg.Pose.RotateY),
		perFrame: radians(cfg.Pose.Spin),
		fps:      cfg.Pose.FPS,
		spring:   harmonica.NewSpring(harmonica.FPS(cfg.Pose.FPS), spinFrequency, spinDamping),
	}
	s.target = s.perFrame * float64(s.fps)
	return s
}

// Speed returns the current spin speed in radians per second.
func (s *FrameState) Speed() float64 { return s.speed }

// Step advances exactly one reference frame: the angle moves by the
// configured spin.
func (s *FrameState) Step() {
	s.Angle += s.perFrame
	s.Frame++
}

// StepN advances n reference frames.
func (s *FrameState) StepN(n int) {
	for range n {
		s.Step()
	}
}

// Tick advances the angle by the time elapsed since the last Tick. The
// spin speed follows a spring toward its target, so pausing and resuming
// ease in and out. The first Tick only records now.
func (s *FrameState) Tick(now time.Time) {
	if s.LastTime.IsZero() {
		s.LastTime = now
		return
	}

	dt := now.Sub(s.LastTime).Seconds()
	s.LastTime = now
	if dt <= 0 {
		return
	}
	// Clamp long stalls so a suspended viewer doesn't jump.
	if dt > 0.1 {
		dt = 0.1
	}

	s.speed, s.speedVel = s.spring.Update(s.speed, s.speedVel, s.target)
	s.Angle += s.speed * dt
	s.Frame++
}

// SetPaused sets the spin target to zero or back to the configured spin.
func (s *FrameState) SetPaused(paused bool) {
	s.paused = paused
	if paused {
		s.target = 0
		return
	}
	s.target = s.perFrame * float64(s.fps)
}

// Paused reports whether the spin is paused.
func (s *FrameState) Paused() bool { return s.paused }

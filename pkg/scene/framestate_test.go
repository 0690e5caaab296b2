package scene

import (
	"math"
	"testing"
	"time"
)

func TestFrameStateStep(t *testing.T) {
	s := NewFrameState(DefaultConfig())
	if math.Abs(s.Angle-math.Pi/2) > 1e-12 {
		t.Fatalf("start angle = %v, want pi/2", s.Angle)
	}

	s.Step()
	if math.Abs(s.Angle-(math.Pi/2+math.Pi/180)) > 1e-12 {
		t.Errorf("after one step angle = %v", s.Angle)
	}

	s.StepN(89)
	if math.Abs(s.Angle-math.Pi) > 1e-9 {
		t.Errorf("after 90 steps angle = %v, want pi", s.Angle)
	}
	if s.Frame != 90 {
		t.Errorf("Frame = %d, want 90", s.Frame)
	}
}

func TestFrameStateTickEasesIn(t *testing.T) {
	cfg := DefaultConfig()
	s := NewFrameState(cfg)
	target := radians(cfg.Pose.Spin) * float64(cfg.Pose.FPS)

	startAngle := s.Angle
	start := time.Unix(0, 0)
	s.Tick(start)
	if s.Speed() != 0 || s.Angle != startAngle {
		t.Fatal("first tick should only record the time")
	}

	now := start
	prev := 0.0
	for range 240 {
		now = now.Add(time.Second / 60)
		s.Tick(now)
		if s.Speed() < prev-1e-12 {
			t.Fatalf("speed decreased from %v to %v while easing in", prev, s.Speed())
		}
		if s.Speed() > target*1.0001 {
			t.Fatalf("speed %v overshot target %v", s.Speed(), target)
		}
		prev = s.Speed()
	}
	if math.Abs(s.Speed()-target) > target*0.01 {
		t.Errorf("speed after 4s = %v, want about %v", s.Speed(), target)
	}
	if s.Angle <= startAngle {
		t.Error("angle did not advance")
	}
}

func TestFrameStatePause(t *testing.T) {
	s := NewFrameState(DefaultConfig())
	now := time.Unix(0, 0)
	s.Tick(now)
	for range 240 {
		now = now.Add(time.Second / 60)
		s.Tick(now)
	}

	s.SetPaused(true)
	if !s.Paused() {
		t.Fatal("Paused() = false after SetPaused(true)")
	}
	for range 240 {
		now = now.Add(time.Second / 60)
		s.Tick(now)
	}
	if math.Abs(s.Speed()) > 1e-3 {
		t.Errorf("speed after pause = %v, want about 0", s.Speed())
	}

	s.SetPaused(false)
	if s.Paused() {
		t.Error("Paused() = true after SetPaused(false)")
	}
}

func TestFrameStateTickIgnoresBackwardsTime(t *testing.T) {
	s := NewFrameState(DefaultConfig())
	startAngle := s.Angle
	now := time.Unix(10, 0)
	s.Tick(now)
	s.Tick(now.Add(-time.Second))
	if s.Angle != startAngle || s.Frame != 0 {
		t.Errorf("backwards tick changed state: angle %v frame %d", s.Angle, s.Frame)
	}
}

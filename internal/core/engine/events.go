package engine

import (
	"time"

	"github.com/adibhanna/pomodoro/internal/models"
)

//go:generate mockgen -source=events.go -destination=mock_sinks_test.go -package=engine

// State is the engine's position in the countdown state machine.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateSuspended State = "suspended"
	StateCompleted State = "completed"
)

// SoundKind names the cue the sound sink should play.
type SoundKind string

const (
	SoundStart SoundKind = "start"
	SoundEnd   SoundKind = "end"
)

// Frame is everything a renderer needs to draw the timer.
type Frame struct {
	TimeString  string
	ModeLabel   string
	Progress    float64
	Mode        models.Mode
	AccentColor string
	Running     bool
	Suspended   bool
	Remaining   time.Duration
	Total       time.Duration
}

// Renderer receives a frame on every tick and on forced updates.
type Renderer interface {
	Render(frame Frame)
}

// SoundPlayer plays a cue. Implementations swallow their own failures.
type SoundPlayer interface {
	Play(kind SoundKind)
}

// Clock supplies the current time. Tests inject a fake.
type Clock interface {
	Now() time.Time
}

// Completion describes a countdown that reached zero.
type Completion struct {
	Mode      models.Mode
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type silentPlayer struct{}

func (silentPlayer) Play(SoundKind) {}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame)

func (f RendererFunc) Render(frame Frame) { f(frame) }

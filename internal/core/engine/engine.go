// Package engine implements the countdown state machine.
//
// The engine never schedules itself. A host calls Tick at whatever cadence it
// likes and the remaining time is derived from the clock delta since the
// countdown started, so missed or throttled ticks cost nothing but display
// latency. All methods must be called from a single goroutine.
package engine

import (
	"errors"
	"time"

	"github.com/adibhanna/pomodoro/internal/core/projector"
	"github.com/adibhanna/pomodoro/internal/models"
)

// ErrNoRenderer is returned by New when no render sink is supplied.
var ErrNoRenderer = errors.New("engine: no renderer")

// Options wires the engine to its collaborators.
type Options struct {
	Clock      Clock
	Renderer   Renderer
	Sound      SoundPlayer
	OnComplete func(Completion)
}

// Engine is the countdown state machine for one timer.
type Engine struct {
	config     models.SessionConfig
	clock      Clock
	renderer   Renderer
	sound      SoundPlayer
	onComplete func(Completion)

	mode    models.Mode
	total   time.Duration
	elapsed time.Duration // accumulated before startEpoch
	running bool          // user-visible play/pause flag
	ticking bool          // a countdown registration is active

	startEpoch   time.Time
	startedAt    time.Time
	registration uint64
}

// New creates an engine in focus mode, idle, and renders the first frame.
func New(config models.SessionConfig, opts Options) (*Engine, error) {
	if opts.Renderer == nil {
		return nil, ErrNoRenderer
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	if opts.Sound == nil {
		opts.Sound = silentPlayer{}
	}

	e := &Engine{
		config:     config,
		clock:      opts.Clock,
		renderer:   opts.Renderer,
		sound:      opts.Sound,
		onComplete: opts.OnComplete,
		mode:       models.ModeFocus,
		total:      config.Modes[models.ModeFocus].Duration,
	}
	e.render(e.clock.Now())
	return e, nil
}

// SetOnComplete replaces the completion callback.
func (e *Engine) SetOnComplete(fn func(Completion)) {
	e.onComplete = fn
}

// SwitchMode stops any countdown and loads mode with its full duration.
// When manual is false the new countdown starts immediately.
func (e *Engine) SwitchMode(mode models.Mode, manual bool) error {
	mc, err := e.config.Lookup(mode)
	if err != nil {
		return err
	}
	now := e.clock.Now()
	e.cancel()
	e.running = false
	e.mode = mode
	e.total = mc.Duration
	e.elapsed = 0
	e.startedAt = time.Time{}
	e.render(now)

	if !manual {
		e.start(now)
	}
	return nil
}

// Next switches to the following mode, paused.
func (e *Engine) Next() {
	_ = e.SwitchMode(e.mode.Shift(1), true)
}

// Prev switches to the preceding mode, paused.
func (e *Engine) Prev() {
	_ = e.SwitchMode(e.mode.Shift(-1), true)
}

// Toggle starts the countdown when paused or suspended and pauses it when
// counting.
func (e *Engine) Toggle() {
	now := e.clock.Now()
	if e.ticking {
		e.pause(now, false)
		return
	}
	e.start(now)
}

// Start resumes the countdown unless it is already counting.
func (e *Engine) Start() {
	if e.ticking {
		return
	}
	e.start(e.clock.Now())
}

// Pause stops the countdown. A silent pause keeps the running flag set so a
// host can suspend without changing what the user sees as play/pause state.
func (e *Engine) Pause(silent bool) {
	e.pause(e.clock.Now(), silent)
}

// Reset pauses and restores the full duration of the current mode.
func (e *Engine) Reset() {
	now := e.clock.Now()
	e.cancel()
	e.running = false
	if mc, err := e.config.Lookup(e.mode); err == nil {
		e.total = mc.Duration
	}
	e.elapsed = 0
	e.startedAt = time.Time{}
	e.render(now)
}

// Tick recomputes the remaining time for now. When it reaches zero the
// engine stops, plays the end cue and fires the completion callback once.
// Ticks while no countdown is registered are ignored.
func (e *Engine) Tick(now time.Time) {
	if !e.ticking {
		return
	}
	if e.remainingAt(now) > 0 {
		e.render(now)
		return
	}

	e.elapsed = e.total
	e.cancel()
	e.running = false
	e.render(now)
	e.sound.Play(SoundEnd)

	if e.onComplete != nil {
		e.onComplete(Completion{
			Mode:      e.mode,
			StartedAt: e.startedAt,
			EndedAt:   now,
			Duration:  e.total,
		})
	}
}

// UpdateConfig replaces the session configuration. The current countdown
// keeps its total until the next Reset or SwitchMode.
func (e *Engine) UpdateConfig(config models.SessionConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	e.config = config
	return nil
}

// Refresh forces a render of the current state.
func (e *Engine) Refresh() {
	e.render(e.clock.Now())
}

func (e *Engine) Mode() models.Mode            { return e.mode }
func (e *Engine) Total() time.Duration         { return e.total }
func (e *Engine) Running() bool                { return e.running }
func (e *Engine) Ticking() bool                { return e.ticking }
func (e *Engine) Suspended() bool              { return e.running && !e.ticking }
func (e *Engine) Config() models.SessionConfig { return e.config }
func (e *Engine) StartedAt() time.Time         { return e.startedAt }
func (e *Engine) Remaining() time.Duration     { return e.remainingAt(e.clock.Now()) }
func (e *Engine) Progress() float64            { return projector.Fraction(e.Remaining(), e.total) }
func (e *Engine) Frame() Frame                 { return e.frame(e.clock.Now()) }

// RemainingAt is the remaining time as of t.
func (e *Engine) RemainingAt(t time.Time) time.Duration {
	return e.remainingAt(t)
}

// Registration identifies the active countdown registration. It changes on
// every start, pause, reset, switch and completion, so a host can tag the
// ticks it schedules and drop the ones that outlived their countdown.
func (e *Engine) Registration() uint64 {
	return e.registration
}

// State reports the current state machine position.
func (e *Engine) State() State {
	switch {
	case e.ticking:
		return StateRunning
	case e.running:
		return StateSuspended
	case e.elapsed >= e.total:
		return StateCompleted
	case e.elapsed > 0:
		return StatePaused
	default:
		return StateIdle
	}
}

func (e *Engine) start(now time.Time) {
	remaining := e.remainingAt(now)
	if remaining <= 0 {
		return
	}
	e.cancel()
	e.running = true
	e.ticking = true
	e.startEpoch = now
	if e.startedAt.IsZero() {
		e.startedAt = now
	}
	e.sound.Play(SoundStart)
	e.render(now)
}

func (e *Engine) pause(now time.Time, silent bool) {
	if e.ticking {
		e.elapsed = e.total - e.remainingAt(now)
		e.cancel()
	}
	if !silent {
		e.running = false
	}
	e.render(now)
}

// cancel drops the active registration, if any.
func (e *Engine) cancel() {
	e.ticking = false
	e.startEpoch = time.Time{}
	e.registration++
}

func (e *Engine) remainingAt(now time.Time) time.Duration {
	elapsed := e.elapsed
	if e.ticking {
		if delta := now.Sub(e.startEpoch); delta > 0 {
			elapsed += delta
		}
	}
	remaining := e.total - elapsed
	if remaining < 0 {
		return 0
	}
	if remaining > e.total {
		return e.total
	}
	return remaining
}

func (e *Engine) frame(now time.Time) Frame {
	remaining := e.remainingAt(now)
	mc := e.config.Modes[e.mode]
	return Frame{
		TimeString:  projector.Clock(remaining),
		ModeLabel:   mc.Label,
		Progress:    projector.Fraction(remaining, e.total),
		Mode:        e.mode,
		AccentColor: mc.AccentColor,
		Running:     e.running,
		Suspended:   e.running && !e.ticking,
		Remaining:   remaining,
		Total:       e.total,
	}
}

func (e *Engine) render(now time.Time) {
	e.renderer.Render(e.frame(now))
}

// Package session composes the countdown engine with the session scheduler,
// the settings store and the history. Hosts drive a Controller from a single
// goroutine: they forward commands, call Tick on their own cadence and apply
// the transitions Tick hands back after the transition delay.
package session

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/adibhanna/pomodoro/internal/core/engine"
	"github.com/adibhanna/pomodoro/internal/core/scheduler"
	"github.com/adibhanna/pomodoro/internal/models"
	"github.com/adibhanna/pomodoro/internal/storage"
)

// Transition is the mode switch scheduled by a completed countdown.
type Transition struct {
	Next         models.Mode
	Manual       bool
	Delay        time.Duration
	Token        uint64
	Count        int
	LongBreakDue bool
}

// Options wires a Controller. Settings and History are optional; without
// them preferences are not persisted and completions are not recorded.
// Delay is the grace period before a scheduled transition; a negative value
// selects scheduler.DefaultDelay.
type Options struct {
	Settings *storage.SettingsStore
	History  *storage.Storage
	Theme    map[models.Mode]models.ModeConfig
	Renderer engine.Renderer
	Sound    engine.SoundPlayer
	Clock    engine.Clock
	Delay    time.Duration
}

type Controller struct {
	engine    *engine.Engine
	scheduler *scheduler.Scheduler
	settings  *storage.SettingsStore
	history   *storage.Storage
	clock     engine.Clock

	current models.UserSettings
	pending *Transition
}

// New loads the stored settings and creates the engine in focus mode.
func New(opts Options) (*Controller, error) {
	current := models.DefaultSettings()
	if opts.Settings != nil {
		current = opts.Settings.Load()
	}
	if opts.Clock == nil {
		opts.Clock = wallClock{}
	}

	c := &Controller{
		scheduler: scheduler.New(),
		settings:  opts.Settings,
		history:   opts.History,
		clock:     opts.Clock,
		current:   current,
	}
	if opts.Delay >= 0 {
		c.scheduler.Delay = opts.Delay
	}

	cfg := models.DefaultSessionConfig().WithTheme(opts.Theme).WithSettings(current)
	e, err := engine.New(cfg, engine.Options{
		Clock:      opts.Clock,
		Renderer:   opts.Renderer,
		Sound:      opts.Sound,
		OnComplete: c.complete,
	})
	if err != nil {
		return nil, err
	}
	c.engine = e
	return c, nil
}

func (c *Controller) Engine() *engine.Engine        { return c.engine }
func (c *Controller) Settings() models.UserSettings { return c.current }
func (c *Controller) Count() int                    { return c.scheduler.Count() }

// Dots is the number of lit session markers for the current mode.
func (c *Controller) Dots() int {
	return c.scheduler.Dots(c.engine.Mode(), c.engine.Config().LongBreakInterval)
}

// Interval is the configured number of focus sessions per long break.
func (c *Controller) Interval() int {
	return c.engine.Config().LongBreakInterval
}

// Dispatch forwards a command to the engine.
func (c *Controller) Dispatch(cmd engine.Command) error {
	return c.engine.Dispatch(cmd)
}

// Tick advances the engine to now. When the countdown completes it returns
// the transition the host must apply after Delay.
func (c *Controller) Tick(now time.Time) *Transition {
	c.engine.Tick(now)
	t := c.pending
	c.pending = nil
	return t
}

// ApplyTransition switches to the scheduled mode unless the engine moved on
// since the transition was scheduled. It reports whether it switched.
func (c *Controller) ApplyTransition(t Transition) bool {
	if t.Token != c.engine.Registration() {
		return false
	}
	if err := c.engine.SwitchMode(t.Next, t.Manual); err != nil {
		log.Printf("applying transition to %s: %v", t.Next, err)
		return false
	}
	return true
}

// ApplySettings clamps s to the form bounds, persists it and resets the
// current countdown with the new durations. A failed save is logged; the
// new settings apply either way.
func (c *Controller) ApplySettings(s models.UserSettings) models.UserSettings {
	s = s.Clamp()
	if c.settings != nil {
		if err := c.settings.Save(s); err != nil {
			log.Printf("saving settings: %v", err)
		}
	}
	c.use(s)
	return s
}

// ReloadSettings re-reads the store after an external change. Reloads that
// match the settings in use are ignored, so the controller's own saves do
// not reset the countdown.
func (c *Controller) ReloadSettings() bool {
	if c.settings == nil {
		return false
	}
	s := c.settings.Load()
	if s == c.current {
		return false
	}
	c.use(s)
	return true
}

func (c *Controller) use(s models.UserSettings) {
	if err := c.engine.UpdateConfig(c.engine.Config().WithSettings(s)); err != nil {
		log.Printf("updating config: %v", err)
		return
	}
	c.current = s
	c.engine.Reset()
}

func (c *Controller) complete(done engine.Completion) {
	c.record(done)

	d := c.scheduler.OnComplete(done.Mode, c.engine.Config())
	c.pending = &Transition{
		Next:         d.Next,
		Manual:       !d.AutoStart,
		Delay:        c.scheduler.Delay,
		Token:        c.engine.Registration(),
		Count:        d.Count,
		LongBreakDue: d.LongBreakDue,
	}
}

func (c *Controller) record(done engine.Completion) {
	if c.history == nil {
		return
	}
	start := done.StartedAt
	if start.IsZero() {
		start = done.EndedAt.Add(-done.Duration)
	}
	rec := models.SessionRecord{
		ID:        uuid.NewString(),
		Mode:      done.Mode,
		StartTime: start,
		EndTime:   done.EndedAt,
		Duration:  done.Duration,
	}
	rec.Stamp(start)
	if err := c.history.SaveSession(rec); err != nil {
		log.Printf("recording session: %v", err)
	}
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

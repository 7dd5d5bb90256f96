package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrUnknownMode is returned when a mode identifier is not one of the three
// countdown profiles.
var ErrUnknownMode = errors.New("unknown mode")

// MinModeDuration is the shortest countdown any mode may be configured with.
const MinModeDuration = time.Minute

// MaxModeMinutes is the longest countdown, in minutes, a time.Duration can hold.
const MaxModeMinutes = math.MaxInt64 / int64(time.Minute)

type Mode string

const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "short-break"
	ModeLongBreak  Mode = "long-break"
)

// Modes lists the modes in navigation order.
var Modes = []Mode{ModeFocus, ModeShortBreak, ModeLongBreak}

func (m Mode) Valid() bool {
	switch m {
	case ModeFocus, ModeShortBreak, ModeLongBreak:
		return true
	}
	return false
}

func (m Mode) IsBreak() bool {
	return m == ModeShortBreak || m == ModeLongBreak
}

// Shift returns the mode direction steps away from m, wrapping around.
func (m Mode) Shift(direction int) Mode {
	idx := 0
	for i, mode := range Modes {
		if mode == m {
			idx = i
			break
		}
	}
	n := len(Modes)
	return Modes[((idx+direction)%n+n)%n]
}

func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

type ModeConfig struct {
	Duration    time.Duration
	Label       string
	AccentColor string
}

// SessionConfig holds the per-mode countdown profiles and the options that
// drive session chaining.
type SessionConfig struct {
	Modes             map[Mode]ModeConfig
	LongBreakInterval int
	AutoStartBreaks   bool
	AutoStartFocus    bool
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Modes: map[Mode]ModeConfig{
			ModeFocus:      {Duration: 25 * time.Minute, Label: "Focus Session", AccentColor: "#6366f1"},
			ModeShortBreak: {Duration: 5 * time.Minute, Label: "Short Break", AccentColor: "#10b981"},
			ModeLongBreak:  {Duration: 15 * time.Minute, Label: "Long Break", AccentColor: "#f59e0b"},
		},
		LongBreakInterval: DefaultLongBreakInterval,
	}
}

// Lookup returns the profile for mode.
func (c SessionConfig) Lookup(mode Mode) (ModeConfig, error) {
	mc, ok := c.Modes[mode]
	if !ok {
		return ModeConfig{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return mc, nil
}

// Validate checks every mode is present and lasts at least MinModeDuration.
func (c SessionConfig) Validate() error {
	for _, mode := range Modes {
		mc, err := c.Lookup(mode)
		if err != nil {
			return err
		}
		if mc.Duration < MinModeDuration {
			return fmt.Errorf("%s duration %s is below the %s minimum", mode, mc.Duration, MinModeDuration)
		}
	}
	if c.LongBreakInterval < 1 {
		return fmt.Errorf("long break interval must be at least 1, got %d", c.LongBreakInterval)
	}
	return nil
}

// WithSettings returns a copy of c with durations and options taken from s.
// Labels and colors are kept. Settings below the minimum fall back to their
// defaults and durations are capped at MaxModeMinutes, so the result always
// satisfies Validate.
func (c SessionConfig) WithSettings(s UserSettings) SessionConfig {
	s = s.Normalize()
	out := SessionConfig{
		Modes:             make(map[Mode]ModeConfig, len(Modes)),
		LongBreakInterval: s.LongBreakInterval,
		AutoStartBreaks:   s.AutoStartBreaks,
		AutoStartFocus:    s.AutoStartFocus,
	}
	defaults := DefaultSessionConfig()
	for _, mode := range Modes {
		mc, ok := c.Modes[mode]
		if !ok {
			mc = defaults.Modes[mode]
		}
		minutes := min(int64(s.minutes(mode)), MaxModeMinutes)
		mc.Duration = time.Duration(minutes) * time.Minute
		out.Modes[mode] = mc
	}
	return out
}

// WithTheme overrides labels and accent colors for the modes present in theme.
// Empty values keep the current ones.
func (c SessionConfig) WithTheme(theme map[Mode]ModeConfig) SessionConfig {
	out := c
	out.Modes = make(map[Mode]ModeConfig, len(c.Modes))
	for mode, mc := range c.Modes {
		if t, ok := theme[mode]; ok {
			if t.Label != "" {
				mc.Label = t.Label
			}
			if t.AccentColor != "" {
				mc.AccentColor = t.AccentColor
			}
		}
		out.Modes[mode] = mc
	}
	return out
}

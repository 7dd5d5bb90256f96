package models

// Settings form bounds, in minutes except for the interval.
const (
	MaxFocusMinutes      = 120
	MaxShortBreakMinutes = 30
	MaxLongBreakMinutes  = 60
	MaxLongBreakInterval = 12

	DefaultFocusMinutes      = 25
	DefaultShortBreakMinutes = 5
	DefaultLongBreakMinutes  = 15
	DefaultLongBreakInterval = 4
)

// UserSettings is the persisted preference record.
type UserSettings struct {
	FocusMinutes      int  `json:"focusDuration"`
	ShortBreakMinutes int  `json:"shortBreakDuration"`
	LongBreakMinutes  int  `json:"longBreakDuration"`
	LongBreakInterval int  `json:"longBreakInterval"`
	AutoStartBreaks   bool `json:"autoStartBreaks"`
	AutoStartFocus    bool `json:"autoStartFocus"`
}

func DefaultSettings() UserSettings {
	return UserSettings{
		FocusMinutes:      DefaultFocusMinutes,
		ShortBreakMinutes: DefaultShortBreakMinutes,
		LongBreakMinutes:  DefaultLongBreakMinutes,
		LongBreakInterval: DefaultLongBreakInterval,
	}
}

// Normalize applies the load-time rules: any value below 1 takes its
// default and the interval is capped at MaxLongBreakInterval. Durations are
// not capped.
func (s UserSettings) Normalize() UserSettings {
	d := DefaultSettings()
	if s.FocusMinutes < 1 {
		s.FocusMinutes = d.FocusMinutes
	}
	if s.ShortBreakMinutes < 1 {
		s.ShortBreakMinutes = d.ShortBreakMinutes
	}
	if s.LongBreakMinutes < 1 {
		s.LongBreakMinutes = d.LongBreakMinutes
	}
	if s.LongBreakInterval < 1 {
		s.LongBreakInterval = d.LongBreakInterval
	}
	if s.LongBreakInterval > MaxLongBreakInterval {
		s.LongBreakInterval = MaxLongBreakInterval
	}
	return s
}

// Clamp applies the input-form rules: a value below 1 takes its default,
// anything above the field's bound is clamped to the bound.
func (s UserSettings) Clamp() UserSettings {
	d := DefaultSettings()
	s.FocusMinutes = clampField(s.FocusMinutes, d.FocusMinutes, MaxFocusMinutes)
	s.ShortBreakMinutes = clampField(s.ShortBreakMinutes, d.ShortBreakMinutes, MaxShortBreakMinutes)
	s.LongBreakMinutes = clampField(s.LongBreakMinutes, d.LongBreakMinutes, MaxLongBreakMinutes)
	s.LongBreakInterval = clampField(s.LongBreakInterval, d.LongBreakInterval, MaxLongBreakInterval)
	return s
}

func clampField(v, def, max int) int {
	if v < 1 {
		return def
	}
	if v > max {
		return max
	}
	return v
}

func (s UserSettings) minutes(mode Mode) int {
	switch mode {
	case ModeShortBreak:
		return s.ShortBreakMinutes
	case ModeLongBreak:
		return s.LongBreakMinutes
	default:
		return s.FocusMinutes
	}
}

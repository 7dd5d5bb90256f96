package models

import (
	"errors"
	"math"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestDefaultSettings(t *testing.T) {
	d := DefaultSettings()
	want := UserSettings{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, LongBreakInterval: 4}
	if d != want {
		t.Fatalf("DefaultSettings() = %+v, want %+v", d, want)
	}
}

func TestClampBoundaries(t *testing.T) {
	tests := []struct {
		name string
		in   UserSettings
		want UserSettings
	}{
		{
			name: "long break zero takes default",
			in:   UserSettings{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 0, LongBreakInterval: 4},
			want: UserSettings{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, LongBreakInterval: 4},
		},
		{
			name: "long break negative takes default",
			in:   UserSettings{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: -3, LongBreakInterval: 4},
			want: UserSettings{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, LongBreakInterval: 4},
		},
		{
			name: "long break 999 clamps to 60",
			in:   UserSettings{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 999, LongBreakInterval: 4},
			want: UserSettings{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 60, LongBreakInterval: 4},
		},
		{
			name: "upper bounds",
			in:   UserSettings{FocusMinutes: 500, ShortBreakMinutes: 31, LongBreakMinutes: 61, LongBreakInterval: 13, AutoStartFocus: true},
			want: UserSettings{FocusMinutes: 120, ShortBreakMinutes: 30, LongBreakMinutes: 60, LongBreakInterval: 12, AutoStartFocus: true},
		},
		{
			name: "all zero takes defaults",
			in:   UserSettings{},
			want: DefaultSettings(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(); got != tt.want {
				t.Errorf("Clamp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeKeepsLargeDurations(t *testing.T) {
	in := UserSettings{FocusMinutes: 300, ShortBreakMinutes: 0, LongBreakMinutes: 90, LongBreakInterval: 40}
	got := in.Normalize()
	if got.FocusMinutes != 300 || got.LongBreakMinutes != 90 {
		t.Errorf("durations changed: %+v", got)
	}
	if got.ShortBreakMinutes != DefaultShortBreakMinutes {
		t.Errorf("ShortBreakMinutes = %d, want default", got.ShortBreakMinutes)
	}
	if got.LongBreakInterval != MaxLongBreakInterval {
		t.Errorf("LongBreakInterval = %d, want %d", got.LongBreakInterval, MaxLongBreakInterval)
	}
}

func TestClampAlwaysWithinBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := UserSettings{
			FocusMinutes:      rapid.IntRange(-1000, 1000).Draw(t, "focus"),
			ShortBreakMinutes: rapid.IntRange(-1000, 1000).Draw(t, "short"),
			LongBreakMinutes:  rapid.IntRange(-1000, 1000).Draw(t, "long"),
			LongBreakInterval: rapid.IntRange(-100, 100).Draw(t, "interval"),
		}
		c := s.Clamp()
		if c.FocusMinutes < 1 || c.FocusMinutes > MaxFocusMinutes {
			t.Fatalf("focus out of bounds: %d", c.FocusMinutes)
		}
		if c.ShortBreakMinutes < 1 || c.ShortBreakMinutes > MaxShortBreakMinutes {
			t.Fatalf("short break out of bounds: %d", c.ShortBreakMinutes)
		}
		if c.LongBreakMinutes < 1 || c.LongBreakMinutes > MaxLongBreakMinutes {
			t.Fatalf("long break out of bounds: %d", c.LongBreakMinutes)
		}
		if c.LongBreakInterval < 1 || c.LongBreakInterval > MaxLongBreakInterval {
			t.Fatalf("interval out of bounds: %d", c.LongBreakInterval)
		}
		if c.Clamp() != c {
			t.Fatalf("Clamp is not idempotent: %+v", c)
		}
	})
}

func TestWithSettingsAlwaysValid(t *testing.T) {
	minutes := rapid.OneOf(
		rapid.IntRange(-10, 200),
		rapid.IntRange(math.MinInt32, math.MaxInt32),
		rapid.SampledFrom([]int{int(MaxModeMinutes), int(MaxModeMinutes) + 1, math.MaxInt32}),
	)
	rapid.Check(t, func(t *rapid.T) {
		s := UserSettings{
			FocusMinutes:      minutes.Draw(t, "focus"),
			ShortBreakMinutes: minutes.Draw(t, "short"),
			LongBreakMinutes:  minutes.Draw(t, "long"),
			LongBreakInterval: rapid.IntRange(-10, 20).Draw(t, "interval"),
		}
		cfg := DefaultSessionConfig().WithSettings(s)
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() = %v for %+v", err, s)
		}
	})
}

func TestWithSettingsCapsHugeDurations(t *testing.T) {
	cfg := DefaultSessionConfig().WithSettings(UserSettings{FocusMinutes: 200000000})
	focus, err := cfg.Lookup(ModeFocus)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Duration(MaxModeMinutes) * time.Minute; focus.Duration != want {
		t.Fatalf("focus duration = %s, want %s", focus.Duration, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestWithSettingsKeepsLabels(t *testing.T) {
	cfg := DefaultSessionConfig().WithSettings(UserSettings{FocusMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 30, LongBreakInterval: 2, AutoStartBreaks: true})
	focus, err := cfg.Lookup(ModeFocus)
	if err != nil {
		t.Fatal(err)
	}
	if focus.Duration != 50*time.Minute {
		t.Errorf("focus duration = %s", focus.Duration)
	}
	if focus.Label != "Focus Session" || focus.AccentColor != "#6366f1" {
		t.Errorf("focus profile lost label/color: %+v", focus)
	}
	if cfg.LongBreakInterval != 2 || !cfg.AutoStartBreaks || cfg.AutoStartFocus {
		t.Errorf("options not applied: %+v", cfg)
	}
}

func TestValidateRejectsShortDuration(t *testing.T) {
	cfg := DefaultSessionConfig()
	mc := cfg.Modes[ModeShortBreak]
	mc.Duration = 30 * time.Second
	cfg.Modes[ModeShortBreak] = mc
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for a 30s short break")
	}
}

func TestLookupUnknownMode(t *testing.T) {
	_, err := DefaultSessionConfig().Lookup(Mode("nap"))
	if !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("Lookup error = %v, want ErrUnknownMode", err)
	}
	if _, err := ParseMode("nap"); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("ParseMode error = %v, want ErrUnknownMode", err)
	}
}

func TestModeShiftWraps(t *testing.T) {
	if got := ModeFocus.Shift(-1); got != ModeLongBreak {
		t.Errorf("focus prev = %s", got)
	}
	if got := ModeLongBreak.Shift(1); got != ModeFocus {
		t.Errorf("long-break next = %s", got)
	}
	if got := ModeFocus.Shift(1); got != ModeShortBreak {
		t.Errorf("focus next = %s", got)
	}
}

func TestWithThemeOverridesOnlyGivenFields(t *testing.T) {
	cfg := DefaultSessionConfig().WithTheme(map[Mode]ModeConfig{
		ModeFocus: {Label: "Deep Work"},
	})
	if cfg.Modes[ModeFocus].Label != "Deep Work" {
		t.Errorf("label = %q", cfg.Modes[ModeFocus].Label)
	}
	if cfg.Modes[ModeFocus].AccentColor != "#6366f1" {
		t.Errorf("color = %q", cfg.Modes[ModeFocus].AccentColor)
	}
	if DefaultSessionConfig().Modes[ModeFocus].Label != "Focus Session" {
		t.Error("default config mutated")
	}
}

func TestRecordStamp(t *testing.T) {
	var r SessionRecord
	r.Stamp(time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC))
	if r.Date != "2026-01-02" || r.Month != "2026-01" || r.Year != 2026 || r.Week != 1 {
		t.Errorf("Stamp produced %+v", r)
	}
}

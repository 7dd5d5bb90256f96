package storage

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/adibhanna/pomodoro/internal/models"
)

// SettingsKey is the record key of the user preferences.
const SettingsKey = "pomodoroSettings"

// SettingsStore loads and saves the user preferences record.
type SettingsStore struct {
	backend Backend
}

func NewSettingsStore(backend Backend) *SettingsStore {
	return &SettingsStore{backend: backend}
}

// Location is the file a watcher should observe for external changes.
func (s *SettingsStore) Location() string {
	return s.backend.Location(SettingsKey)
}

// IsFirstTime reports whether no settings record has been saved yet.
func (s *SettingsStore) IsFirstTime() bool {
	_, err := s.backend.Get(SettingsKey)
	return errors.Is(err, ErrNotFound)
}

// Load never fails. A missing or unreadable record yields the defaults; each
// field that is absent, non-numeric or below 1 falls back to its own default.
func (s *SettingsStore) Load() models.UserSettings {
	raw, err := s.backend.Get(SettingsKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("loading settings: %v", err)
		}
		return models.DefaultSettings()
	}
	settings, err := ParseSettings([]byte(raw))
	if err != nil {
		log.Printf("loading settings: %v", err)
	}
	return settings
}

// Save writes the record. Callers log the error and carry on; the in-memory
// settings stay authoritative either way.
func (s *SettingsStore) Save(settings models.UserSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return wrapErr("encode", SettingsKey, err)
	}
	return s.backend.Put(SettingsKey, string(data))
}

// ParseSettings decodes a stored record field by field. It returns the
// defaults together with the decode error when data is not a JSON object.
func ParseSettings(data []byte) (models.UserSettings, error) {
	settings := models.DefaultSettings()
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return settings, wrapErr("decode", SettingsKey, err)
	}

	if v, ok := minutesField(fields["focusDuration"]); ok {
		settings.FocusMinutes = v
	}
	if v, ok := minutesField(fields["shortBreakDuration"]); ok {
		settings.ShortBreakMinutes = v
	}
	if v, ok := minutesField(fields["longBreakDuration"]); ok {
		settings.LongBreakMinutes = v
	}
	if v, ok := minutesField(fields["longBreakInterval"]); ok {
		settings.LongBreakInterval = min(v, models.MaxLongBreakInterval)
	}
	settings.AutoStartBreaks = truthy(fields["autoStartBreaks"])
	settings.AutoStartFocus = truthy(fields["autoStartFocus"])
	return settings, nil
}

// minutesField accepts numbers and numeric strings of at least 1. Fractions
// are floored and values too long for a countdown are capped.
func minutesField(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || f < 1 {
		return 0, false
	}
	if f > float64(models.MaxModeMinutes) {
		f = float64(models.MaxModeMinutes)
	}
	return int(math.Floor(f)), true
}

func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case float64:
		return b != 0 && !math.IsNaN(b)
	case string:
		return b != ""
	default:
		return true
	}
}

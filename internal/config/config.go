// Package config loads the application config file and merges command-line
// overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/adibhanna/pomodoro/internal/core/scheduler"
	"github.com/adibhanna/pomodoro/internal/models"
)

const (
	appName        = "pomodoro"
	configFileName = "config.yaml"

	BackendFile   = "file"
	BackendSQLite = "sqlite"

	DefaultTickInterval = 250 * time.Millisecond
	minTickInterval     = 50 * time.Millisecond
	maxTickInterval     = time.Second
	maxTransitionDelay  = 10 * time.Second
)

// Config is the resolved application configuration.
type Config struct {
	Backend         string
	DataDir         string
	Sound           bool
	TickInterval    time.Duration
	TransitionDelay time.Duration
	Theme           map[models.Mode]models.ModeConfig
	Path            string // file the config was read from, if any
}

type yamlModeTheme struct {
	Label string `yaml:"label"`
	Color string `yaml:"color"`
}

type yamlConfig struct {
	Backend           string `yaml:"backend"`
	DataDir           string `yaml:"data_dir"`
	Sound             *bool  `yaml:"sound"`
	TickIntervalMS    int    `yaml:"tick_interval_ms"`
	TransitionDelayMS *int   `yaml:"transition_delay_ms"`
	Theme             struct {
		Focus      yamlModeTheme `yaml:"focus"`
		ShortBreak yamlModeTheme `yaml:"short_break"`
		LongBreak  yamlModeTheme `yaml:"long_break"`
	} `yaml:"theme"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		Backend:         BackendFile,
		DataDir:         DataDir(),
		Sound:           true,
		TickInterval:    DefaultTickInterval,
		TransitionDelay: scheduler.DefaultDelay,
		Theme:           map[models.Mode]models.ModeConfig{},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error. A file that cannot be parsed yields the defaults and a
// *ParseError, which callers log and otherwise ignore.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var file yamlConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, &ParseError{Path: path, Err: err}
	}
	apply(&cfg, file)
	cfg.Path = path
	return cfg, nil
}

// apply overlays the valid fields of file onto cfg.
func apply(cfg *Config, file yamlConfig) {
	switch b := strings.ToLower(strings.TrimSpace(file.Backend)); b {
	case BackendFile, BackendSQLite:
		cfg.Backend = b
	}
	if file.DataDir != "" {
		cfg.DataDir = expandHome(file.DataDir)
	}
	if file.Sound != nil {
		cfg.Sound = *file.Sound
	}
	if d := time.Duration(file.TickIntervalMS) * time.Millisecond; d >= minTickInterval && d <= maxTickInterval {
		cfg.TickInterval = d
	}
	if file.TransitionDelayMS != nil {
		if d := time.Duration(*file.TransitionDelayMS) * time.Millisecond; d >= 0 && d <= maxTransitionDelay {
			cfg.TransitionDelay = d
		}
	}

	themes := map[models.Mode]yamlModeTheme{
		models.ModeFocus:      file.Theme.Focus,
		models.ModeShortBreak: file.Theme.ShortBreak,
		models.ModeLongBreak:  file.Theme.LongBreak,
	}
	for mode, t := range themes {
		mc := models.ModeConfig{Label: strings.TrimSpace(t.Label)}
		if isHexColor(t.Color) {
			mc.AccentColor = t.Color
		}
		if mc.Label != "" || mc.AccentColor != "" {
			cfg.Theme[mode] = mc
		}
	}
}

// Overrides are the command-line flags that take precedence over the file.
type Overrides struct {
	Backend string
	DataDir string
	NoSound bool
}

// Merge applies overrides to cfg. Unknown backends are rejected.
func Merge(cfg Config, o Overrides) (Config, error) {
	if o.Backend != "" {
		b := strings.ToLower(o.Backend)
		if b != BackendFile && b != BackendSQLite {
			return cfg, fmt.Errorf("unknown backend %q (want %s or %s)", o.Backend, BackendFile, BackendSQLite)
		}
		cfg.Backend = b
	}
	if o.DataDir != "" {
		cfg.DataDir = expandHome(o.DataDir)
	}
	if o.NoSound {
		cfg.Sound = false
	}
	return cfg, nil
}

// DefaultPath is $XDG_CONFIG_HOME/pomodoro/config.yaml, falling back to the
// platform user config directory.
func DefaultPath() (string, error) {
	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return filepath.Join(base, appName, configFileName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

// DataDir is $XDG_DATA_HOME/pomodoro, or ~/.local/share/pomodoro.
func DataDir() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", appName)
	}
	return filepath.Join(home, ".local", "share", appName)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

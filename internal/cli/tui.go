package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/adibhanna/pomodoro/internal/core/session"
	"github.com/adibhanna/pomodoro/internal/sound"
	"github.com/adibhanna/pomodoro/internal/ui/dashboard"
	"github.com/adibhanna/pomodoro/internal/ui/timer"
	"github.com/adibhanna/pomodoro/internal/watcher"
)

var errNotTerminal = errors.New("the timer needs an interactive terminal; use 'pomodoro run' for line output")

func (a *app) runTUI(cmd *cobra.Command) error {
	if !term.IsTerminal(os.Stdout.Fd()) || !term.IsTerminal(os.Stdin.Fd()) {
		return errNotTerminal
	}

	// Logs would corrupt the screen while the program runs.
	if a.debug {
		if err := os.MkdirAll(a.cfg.DataDir, 0o755); err != nil {
			return err
		}
		f, err := tea.LogToFile(filepath.Join(a.cfg.DataDir, "debug.log"), "pomodoro")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
		defer log.SetOutput(os.Stderr)
	}

	history, settings, closeStorage, err := a.openStorage()
	if err != nil {
		return err
	}
	defer closeStorage()

	sink := timer.NewSink()
	ctrl, err := session.New(session.Options{
		Settings: settings,
		History:  history,
		Theme:    a.cfg.Theme,
		Renderer: sink,
		Sound:    sound.New(a.cfg.Sound, os.Stdout),
		Delay:    a.cfg.TransitionDelay,
	})
	if err != nil {
		return err
	}

	model := dashboard.New(dashboard.Options{
		Controller:   ctrl,
		Sink:         sink,
		History:      history,
		TickInterval: a.cfg.TickInterval,
		FirstRun:     settings.IsFirstTime(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(cmd.Context()))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go func() {
		err := watcher.Watch(ctx, settings.Location(), watcher.DefaultDebounce, func() {
			p.Send(dashboard.SettingsChangedMsg{})
		})
		if err != nil {
			log.Printf("settings watcher stopped: %v", err)
		}
	}()

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && cmd.Context().Err() != nil {
		return nil
	}
	return err
}

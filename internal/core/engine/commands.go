package engine

import (
	"fmt"

	"github.com/adibhanna/pomodoro/internal/models"
)

// Command is a request a host hands to Dispatch. Hosts translate their own
// input events (keys, lines, signals) into commands; the engine knows
// nothing about where they came from.
type Command interface {
	command()
}

type (
	ToggleCmd     struct{}
	StartCmd      struct{}
	NextCmd       struct{}
	PrevCmd       struct{}
	ResetCmd      struct{}
	PauseCmd      struct{ Silent bool }
	SwitchModeCmd struct {
		Mode   models.Mode
		Manual bool
	}
)

func (ToggleCmd) command()     {}
func (StartCmd) command()      {}
func (NextCmd) command()       {}
func (PrevCmd) command()       {}
func (ResetCmd) command()      {}
func (PauseCmd) command()      {}
func (SwitchModeCmd) command() {}

// Dispatch applies cmd to the engine.
func (e *Engine) Dispatch(cmd Command) error {
	switch c := cmd.(type) {
	case ToggleCmd:
		e.Toggle()
	case StartCmd:
		e.Start()
	case NextCmd:
		e.Next()
	case PrevCmd:
		e.Prev()
	case ResetCmd:
		e.Reset()
	case PauseCmd:
		e.Pause(c.Silent)
	case SwitchModeCmd:
		return e.SwitchMode(c.Mode, c.Manual)
	default:
		return fmt.Errorf("engine: unsupported command %T", cmd)
	}
	return nil
}

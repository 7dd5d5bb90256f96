package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/adibhanna/pomodoro/internal/core/engine"
	"github.com/adibhanna/pomodoro/internal/core/session"
	"github.com/adibhanna/pomodoro/internal/models"
	"github.com/adibhanna/pomodoro/internal/sound"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		plain bool
		start bool
		mode  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the timer without the full-screen interface",
		Long: `Run the timer on plain standard input and output.

Each input line is a command: toggle (or an empty line), start, pause,
next, prev, reset, focus, short, long, quit. Start and pause leave a
countdown that is already in that state alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := models.ParseMode(mode)
			if err != nil {
				return err
			}

			history, settings, closeStorage, err := a.openStorage()
			if err != nil {
				return err
			}
			defer closeStorage()

			// The reader goroutine reports bad lines while the loop renders.
			var mu sync.Mutex
			out := &lockedWriter{mu: &mu, w: cmd.OutOrStdout()}
			errOut := &lockedWriter{mu: &mu, w: cmd.ErrOrStderr()}

			ctrl, err := session.New(session.Options{
				Settings: settings,
				History:  history,
				Theme:    a.cfg.Theme,
				Renderer: &lineRenderer{w: out, plain: plain},
				Sound:    sound.New(a.cfg.Sound, errOut),
				Delay:    a.cfg.TransitionDelay,
			})
			if err != nil {
				return err
			}
			if err := ctrl.Dispatch(engine.SwitchModeCmd{Mode: m, Manual: !start}); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			commands := make(chan engine.Command)
			go readCommands(ctx, cmd.InOrStdin(), errOut, commands)

			err = ctrl.Run(ctx, commands, a.cfg.TickInterval)
			if !plain {
				fmt.Fprintln(out)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print one line per update instead of redrawing the line")
	cmd.Flags().BoolVar(&start, "start", false, "start the countdown immediately")
	cmd.Flags().StringVar(&mode, "mode", string(models.ModeFocus), "initial mode: focus, short-break or long-break")
	return cmd
}

// readCommands parses lines from r until EOF, quit or ctx is done, then
// closes out.
func readCommands(ctx context.Context, r io.Reader, errOut io.Writer, out chan<- engine.Command) {
	defer close(out)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		c, quit, err := parseCommand(scanner.Text())
		if quit {
			return
		}
		if err != nil {
			fmt.Fprintln(errOut, err)
			continue
		}
		select {
		case out <- c:
		case <-ctx.Done():
			return
		}
	}
}

func parseCommand(line string) (engine.Command, bool, error) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "toggle", "t":
		return engine.ToggleCmd{}, false, nil
	case "start", "resume":
		return engine.StartCmd{}, false, nil
	case "pause":
		return engine.PauseCmd{}, false, nil
	case "next", "n":
		return engine.NextCmd{}, false, nil
	case "prev", "p":
		return engine.PrevCmd{}, false, nil
	case "reset", "r":
		return engine.ResetCmd{}, false, nil
	case "focus", "1":
		return engine.SwitchModeCmd{Mode: models.ModeFocus, Manual: true}, false, nil
	case "short", "short-break", "2":
		return engine.SwitchModeCmd{Mode: models.ModeShortBreak, Manual: true}, false, nil
	case "long", "long-break", "3":
		return engine.SwitchModeCmd{Mode: models.ModeLongBreak, Manual: true}, false, nil
	case "quit", "q", "exit":
		return nil, true, nil
	default:
		return nil, false, fmt.Errorf("unknown command %q", strings.TrimSpace(line))
	}
}

// lineRenderer prints frames as single lines. Unless plain is set the line
// is redrawn in place.
type lineRenderer struct {
	w     io.Writer
	plain bool
	last  string
}

func (r *lineRenderer) Render(f engine.Frame) {
	state := "paused"
	switch {
	case f.Suspended:
		state = "suspended"
	case f.Running:
		state = "running"
	case f.Remaining == 0:
		state = "done"
	}

	line := fmt.Sprintf("%s  %s  %3.0f%%  %s", f.TimeString, f.ModeLabel, f.Progress*100, state)
	if line == r.last {
		return
	}
	r.last = line

	if r.plain {
		fmt.Fprintln(r.w, line)
		return
	}
	fmt.Fprintf(r.w, "\r\033[K%s", line)
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

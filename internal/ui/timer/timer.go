package timer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/adibhanna/pomodoro/internal/core/engine"
	"github.com/adibhanna/pomodoro/internal/core/session"
	"github.com/adibhanna/pomodoro/internal/models"
)

// TickMsg samples the clock for the countdown registration it was scheduled
// for. Ticks for any other registration are dropped.
type TickMsg struct {
	Registration uint64
	Time         time.Time
}

// TransitionMsg fires when the grace period after a completion is over.
type TransitionMsg struct {
	Transition session.Transition
}

// Sink is the engine's render sink. It keeps the latest frame for View.
type Sink struct {
	frame  engine.Frame
	frames int
}

func NewSink() *Sink { return &Sink{} }

func (s *Sink) Render(f engine.Frame) {
	s.frame = f
	s.frames++
}

func (s *Sink) Frame() engine.Frame { return s.frame }

// Frames counts renders, for tests.
func (s *Sink) Frames() int { return s.frames }

// WindowTitle is the terminal title for f, e.g. "24:59 - Focus Session".
func WindowTitle(f engine.Frame) string {
	return f.TimeString + " - " + f.ModeLabel
}

type Model struct {
	ctrl     *session.Controller
	sink     *Sink
	interval time.Duration
	progress progress.Model
	width    int
	height   int
}

func New(ctrl *session.Controller, sink *Sink, interval time.Duration) Model {
	prog := progress.New(progress.WithSolidFill(sink.Frame().AccentColor), progress.WithoutPercentage())
	prog.Width = 60

	return Model{
		ctrl:     ctrl,
		sink:     sink,
		interval: interval,
		progress: prog,
	}
}

func (m Model) Init() tea.Cmd {
	return m.Resync()
}

func (m Model) tickCmd() tea.Cmd {
	reg := m.ctrl.Engine().Registration()
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return TickMsg{Registration: reg, Time: t}
	})
}

func transitionCmd(t session.Transition) tea.Cmd {
	return tea.Tick(t.Delay, func(time.Time) tea.Msg {
		return TransitionMsg{Transition: t}
	})
}

// Resync schedules a tick for the active registration, if any. Hosts call
// it after anything that may have started a countdown.
func (m Model) Resync() tea.Cmd {
	if !m.ctrl.Engine().Ticking() {
		return nil
	}
	return m.tickCmd()
}

// Dispatch applies cmd and schedules ticks for a countdown it started.
func (m Model) Dispatch(cmd engine.Command) tea.Cmd {
	before := m.ctrl.Engine().Registration()
	if err := m.ctrl.Dispatch(cmd); err != nil {
		return nil
	}
	if m.ctrl.Engine().Registration() == before {
		return nil
	}
	return m.Resync()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(min(msg.Width-20, 80), 10)
		return m, nil

	case TickMsg:
		if msg.Registration != m.ctrl.Engine().Registration() {
			return m, nil
		}
		if t := m.ctrl.Tick(msg.Time); t != nil {
			return m, transitionCmd(*t)
		}
		return m, m.tickCmd()

	case TransitionMsg:
		if m.ctrl.ApplyTransition(msg.Transition) {
			return m, m.Resync()
		}
		return m, nil

	case tea.BlurMsg:
		return m, m.Dispatch(engine.PauseCmd{Silent: true})

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Toggle):
			return m, m.Dispatch(engine.ToggleCmd{})
		case key.Matches(msg, keys.Next):
			return m, m.Dispatch(engine.NextCmd{})
		case key.Matches(msg, keys.Prev):
			return m, m.Dispatch(engine.PrevCmd{})
		case key.Matches(msg, keys.Reset):
			return m, m.Dispatch(engine.ResetCmd{})
		case key.Matches(msg, keys.Focus):
			return m, m.Dispatch(engine.SwitchModeCmd{Mode: models.ModeFocus, Manual: true})
		case key.Matches(msg, keys.ShortBreak):
			return m, m.Dispatch(engine.SwitchModeCmd{Mode: models.ModeShortBreak, Manual: true})
		case key.Matches(msg, keys.LongBreak):
			return m, m.Dispatch(engine.SwitchModeCmd{Mode: models.ModeLongBreak, Manual: true})
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	frame := m.sink.Frame()
	accent := lipgloss.Color(frame.AccentColor)

	timerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(accent).
		Padding(1, 4).
		MarginTop(1).
		MarginBottom(1)

	labelStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(accent).
		MarginBottom(1)

	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888")).
		MarginTop(1)

	m.progress.FullColor = frame.AccentColor

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.renderTabs(frame.Mode),
		timerStyle.Render(renderBigTime(frame.TimeString)),
		labelStyle.Render(frame.ModeLabel),
		m.progress.ViewAs(frame.Progress),
		m.renderDots(),
		statusStyle.Render(status(frame)),
		helpView(frame),
	)
	return content
}

func (m Model) renderTabs(current models.Mode) string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		Padding(0, 2)

	cfg := m.ctrl.Engine().Config()
	var tabs []string
	for i, mode := range models.Modes {
		label := fmt.Sprintf("%d %s", i+1, cfg.Modes[mode].Label)
		if mode == current {
			tabs = append(tabs, tabStyle.
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color(cfg.Modes[mode].AccentColor)).
				Render(label))
			continue
		}
		tabs = append(tabs, tabStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderDots draws one marker per session in the long-break cycle.
func (m Model) renderDots() string {
	interval := m.ctrl.Interval()
	lit := m.ctrl.Dots()

	litStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.sink.Frame().AccentColor))
	offStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#444"))

	dots := make([]string, interval)
	for i := range dots {
		if i < lit {
			dots[i] = litStyle.Render("●")
		} else {
			dots[i] = offStyle.Render("○")
		}
	}
	return lipgloss.NewStyle().MarginTop(1).Render(strings.Join(dots, " "))
}

func status(f engine.Frame) string {
	switch {
	case f.Suspended:
		return "Suspended while the terminal is in the background. Press space to resume"
	case f.Running:
		if f.Mode == models.ModeFocus {
			return "Focus time! Stay in the zone..."
		}
		return "Take a breather"
	case f.Remaining == 0:
		return "Time's up!"
	case f.Remaining < f.Total:
		return "Paused"
	default:
		return "Press space to start"
	}
}

var bigDigits = map[rune][]string{
	'0': {"███", "█ █", "█ █", "█ █", "███"},
	'1': {" █ ", "██ ", " █ ", " █ ", "███"},
	'2': {"███", "  █", "███", "█  ", "███"},
	'3': {"███", "  █", "███", "  █", "███"},
	'4': {"█ █", "█ █", "███", "  █", "  █"},
	'5': {"███", "█  ", "███", "  █", "███"},
	'6': {"███", "█  ", "███", "█ █", "███"},
	'7': {"███", "  █", "  █", "  █", "  █"},
	'8': {"███", "█ █", "███", "█ █", "███"},
	'9': {"███", "█ █", "███", "  █", "███"},
	':': {" ", "█", " ", "█", " "},
}

// renderBigTime draws a clock string such as "25:00" or "120:00" in block
// digits.
func renderBigTime(clock string) string {
	lines := make([]string, 5)
	for i, r := range clock {
		glyph, ok := bigDigits[r]
		if !ok {
			continue
		}
		for row := range lines {
			if i > 0 {
				lines[row] += " "
			}
			lines[row] += glyph[row]
		}
	}
	return strings.Join(lines, "\n")
}

func helpView(f engine.Frame) string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		MarginTop(2)

	action := "start"
	if f.Running && !f.Suspended {
		action = "pause"
	}
	return helpStyle.Render(fmt.Sprintf("space: %s • n/p: next/prev • r: reset • 1-3: mode • s: settings • t: stats • ?: help • q: quit", action))
}

type keyMap struct {
	Toggle     key.Binding
	Next       key.Binding
	Prev       key.Binding
	Reset      key.Binding
	Focus      key.Binding
	ShortBreak key.Binding
	LongBreak  key.Binding
}

var keys = keyMap{
	Toggle: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "start/pause"),
	),
	Next: key.NewBinding(
		key.WithKeys("n", "right", "l"),
		key.WithHelp("n/→", "next mode"),
	),
	Prev: key.NewBinding(
		key.WithKeys("p", "left", "h"),
		key.WithHelp("p/←", "previous mode"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Focus: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "focus"),
	),
	ShortBreak: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "short break"),
	),
	LongBreak: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "long break"),
	),
}
